package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theirongolddev/spendchart/internal/geometry"
	"github.com/theirongolddev/spendchart/internal/model"
	"github.com/theirongolddev/spendchart/internal/pipeline"
)

var errNoData = gin.H{"error": "no data"}

type pieResponse struct {
	Total   int64          `json:"total"`
	Ring    *geometry.Ring `json:"ring,omitempty"`
	Sectors []pieSector    `json:"sectors"`
}

type pieSector struct {
	model.PieSector
	Share float64 `json:"share"`
}

type locateResponse struct {
	Hit    bool             `json:"hit"`
	Angle  float64          `json:"angle"`
	Sector *model.PieSector `json:"sector,omitempty"`
}

type dailyResponse struct {
	Category string          `json:"category,omitempty"`
	Series   model.DaySeries `json:"series"`
	Labels   []string        `json:"labels"`
	Curve    *model.Curve    `json:"curve,omitempty"`
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok\n")
	})

	v1 := r.Group("/v1")
	v1.GET("/status", s.handleStatus)
	v1.GET("/categories", s.handleCategories)
	v1.GET("/pie", s.handlePie)
	v1.GET("/pie/locate", s.handleLocate)
	v1.GET("/daily", s.handleDaily)
	v1.PUT("/transactions", s.handleSetTransactions)
	v1.GET("/events", s.handleEvents)
	v1.GET("/stream", s.handleStream)

	return r
}

func (s *Service) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleCategories(c *gin.Context) {
	snap := s.current()
	if snap.empty {
		c.JSON(http.StatusNotFound, errNoData)
		return
	}
	filter, err := s.queryFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filter.IsZero() {
		c.JSON(http.StatusOK, snap.charts.Summaries)
		return
	}

	summaries, err := pipeline.AggregateCategories(filter.Apply(snap.txs), s.cfg.TopCategories)
	if err != nil {
		c.JSON(http.StatusNotFound, errNoData)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Service) handlePie(c *gin.Context) {
	snap := s.current()
	if snap.empty {
		c.JSON(http.StatusNotFound, errNoData)
		return
	}

	resp := pieResponse{
		Total:   snap.charts.Pie.Total,
		Sectors: make([]pieSector, len(snap.charts.Pie.Sectors)),
	}
	for i, sec := range snap.charts.Pie.Sectors {
		resp.Sectors[i] = pieSector{PieSector: sec, Share: snap.charts.Pie.Share(sec)}
	}

	w, h, ok, err := sizeParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if ok {
		ring := geometry.FitRing(w, h, s.cfg.RingWidth, s.cfg.MinRadius)
		resp.Ring = &ring
	}
	c.JSON(http.StatusOK, resp)
}

// handleLocate resolves either a raw angle or a pointer position on a ring.
func (s *Service) handleLocate(c *gin.Context) {
	snap := s.current()
	if snap.empty {
		c.JSON(http.StatusNotFound, errNoData)
		return
	}
	pie := snap.charts.Pie

	if raw := c.Query("angle"); raw != "" {
		angle, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid angle"})
			return
		}
		angle = geometry.NormalizeAngle(angle)
		sec, hit := pie.Locate(angle)
		c.JSON(http.StatusOK, locateResp(angle, sec, hit))
		return
	}

	vals, err := floatParams(c, "x", "y", "cx", "cy", "inner", "outer")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	x, y, cx, cy := vals[0], vals[1], vals[2], vals[3]
	ring := geometry.Ring{Inner: vals[4], Outer: vals[5]}
	if ring.Outer < ring.Inner || ring.Inner < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ring"})
		return
	}

	angle := geometry.AngleAt(cx, cy, x, y)
	sec, hit := pie.HitTest(ring, cx, cy, x, y)
	c.JSON(http.StatusOK, locateResp(angle, sec, hit))
}

func locateResp(angle float64, sec model.PieSector, hit bool) locateResponse {
	resp := locateResponse{Hit: hit, Angle: angle}
	if hit {
		resp.Sector = &sec
	}
	return resp
}

func (s *Service) handleDaily(c *gin.Context) {
	snap := s.current()
	if snap.empty {
		c.JSON(http.StatusNotFound, errNoData)
		return
	}

	filter, err := s.queryFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txs := filter.Apply(snap.txs)
	name := c.Query("category")
	if name != "" {
		summary, ok := pipeline.FindSummary(snap.charts.Summaries, name)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown category %q", name)})
			return
		}
		txs = pipeline.FilterByCategory(txs, summary)
	}

	series := snap.charts.Series
	if name != "" || !filter.IsZero() {
		series, err = pipeline.AggregateDays(txs)
		if err != nil {
			c.JSON(http.StatusNotFound, errNoData)
			return
		}
	}

	resp := dailyResponse{
		Category: name,
		Series:   series,
		Labels:   make([]string, len(series.Buckets)),
	}
	for i, b := range series.Buckets {
		resp.Labels[i] = geometry.DayLabel(b.Day, s.cfg.Location)
	}

	w, h, ok, err := sizeParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if ok {
		curve, err := geometry.BuildCurve(series, geometry.Rect{Right: w, Bottom: h}, s.cfg.Location)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp.Curve = &curve
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) handleSetTransactions(c *gin.Context) {
	var txs []model.Transaction
	if err := c.ShouldBindJSON(&txs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	for i, tx := range txs {
		if !tx.ValidTime() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("transaction %d: time is out of range", i)})
			return
		}
		if tx.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("transaction %d: amount must be positive", i)})
			return
		}
		if tx.Category == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("transaction %d: category is required", i)})
			return
		}
	}

	if err := s.SetTransactions(c.Request.Context(), txs); err != nil {
		if errors.Is(err, model.ErrSpanTooLarge) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.current().summary)
}

func (s *Service) handleEvents(c *gin.Context) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, events)
}

func (s *Service) handleStream(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current summary immediately.
	c.SSEvent("snapshot", Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Summary:   s.current().summary,
	})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev := <-ch:
			c.SSEvent(ev.Type, ev)
			return true
		}
	})
}

// queryFilter reads the optional since, until and name query parameters.
func (s *Service) queryFilter(c *gin.Context) (pipeline.Filter, error) {
	return pipeline.ParseFilter(c.Query("since"), c.Query("until"), c.Query("name"), s.cfg.Location)
}

// sizeParams reads the optional width and height query parameters.
func sizeParams(c *gin.Context) (w, h float64, ok bool, err error) {
	rawW, rawH := c.Query("width"), c.Query("height")
	if rawW == "" && rawH == "" {
		return 0, 0, false, nil
	}
	vals, err := floatParams(c, "width", "height")
	if err != nil {
		return 0, 0, false, err
	}
	if vals[0] <= 0 || vals[1] <= 0 {
		return 0, 0, false, errors.New("width and height must be positive")
	}
	return vals[0], vals[1], true, nil
}

func floatParams(c *gin.Context, names ...string) ([]float64, error) {
	vals := make([]float64, len(names))
	for i, name := range names {
		raw := c.Query(name)
		if raw == "" {
			return nil, fmt.Errorf("missing %s", name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s", name)
		}
		vals[i] = v
	}
	return vals, nil
}
