// Package server serves chart geometry over HTTP and keeps it fresh by
// reloading the transactions feed in the background.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/spendchart/internal/log"
	"github.com/theirongolddev/spendchart/internal/model"
	"github.com/theirongolddev/spendchart/internal/pipeline"
	"github.com/theirongolddev/spendchart/internal/store"
	"github.com/theirongolddev/spendchart/internal/tui/theme"
)

// StateView is the store key transactions set over the API are captured under.
const StateView = "api"

// errSuperseded is returned by apply when feed data arrives after data
// was set over the API.
var errSuperseded = errors.New("superseded by data set over the API")

// Where the current transactions came from.
const (
	SourceNone     = "none"
	SourceFeed     = "feed"
	SourceAPI      = "api"
	SourceRestored = "restored"
)

// Config controls the server runtime behavior.
type Config struct {
	FeedPath      string
	TopCategories int
	Location      *time.Location
	RingWidth     float64
	MinRadius     float64
	Interval      time.Duration // feed reload period; zero disables reloading
	Addr          string
	EventsBuffer  int

	Store  *store.Store // optional; captures transactions set over the API
	Logger *log.Logger
}

// Summary is a compact view of the current data for status and event payloads.
type Summary struct {
	At           time.Time `json:"at"`
	Source       string    `json:"source"`
	Transactions int       `json:"transactions"`
	Categories   int       `json:"categories"`
	Total        int64     `json:"total"`
	Days         int       `json:"days"`
	Clipped      int       `json:"clipped_days"`
}

// Delta captures summary changes between updates.
type Delta struct {
	Transactions int   `json:"transactions"`
	Total        int64 `json:"total"`
	Categories   int   `json:"categories"`
}

func (d Delta) isZero() bool {
	return d.Transactions == 0 && d.Total == 0 && d.Categories == 0
}

// Event is emitted whenever the served charts change.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Summary   Summary   `json:"summary"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt         time.Time `json:"started_at"`
	LastLoadAt        time.Time `json:"last_load_at"`
	ReloadIntervalSec int       `json:"reload_interval_sec"`
	LoadCount         int64     `json:"load_count"`
	FeedPath          string    `json:"feed_path,omitempty"`
	Summary           Summary   `json:"summary"`
	LastError         string    `json:"last_error,omitempty"`
	EventCount        int       `json:"event_count"`
	SubscriberCount   int       `json:"subscriber_count"`
}

// snapshot is the chart state handlers read from. It is replaced
// wholesale, never mutated.
type snapshot struct {
	txs     []model.Transaction
	charts  pipeline.Charts
	empty   bool
	summary Summary
}

// Service provides the HTTP API over the current snapshot.
type Service struct {
	cfg Config
	log *log.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastLoadAt  time.Time
	loadCount   int64
	lastError   string
	hasSnapshot bool
	snap        snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new service with the provided config.
func New(cfg Config) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.TopCategories < 1 {
		cfg.TopCategories = pipeline.DefaultTopCategories
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RingWidth <= 0 {
		cfg.RingWidth = 50
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}

	return &Service{
		cfg:       cfg,
		log:       cfg.Logger.WithComponent(log.ComponentServer),
		startedAt: time.Now(),
		snap:      snapshot{empty: true, summary: Summary{Source: SourceNone}},
		subs:      make(map[int]chan Event),
	}
}

// Run serves HTTP and reloads the feed until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("listening", "addr", s.cfg.Addr)

	// Seed the snapshot so the API is useful immediately.
	if !s.restore(ctx) {
		s.reloadLogged(ctx)
	}

	var tick <-chan time.Time
	if s.cfg.Interval > 0 && s.cfg.FeedPath != "" {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.log.Info("shutting down")
			return server.Shutdown(shutdownCtx)
		case <-tick:
			if feedOwns(s.current().summary.Source) {
				s.reloadLogged(ctx)
			}
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}
	}
}

func (s *Service) reloadLogged(ctx context.Context) {
	if err := s.Reload(ctx); err != nil {
		s.log.Error("feed reload failed", log.FieldFeed, s.cfg.FeedPath, log.FieldError, err)
	}
}

// restore seeds the snapshot from transactions captured by an earlier PUT.
func (s *Service) restore(ctx context.Context) bool {
	if s.cfg.Store == nil {
		return false
	}
	vs, err := s.cfg.Store.LoadState(StateView)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warn("restoring state", log.FieldError, err)
		}
		return false
	}
	if err := s.apply(ctx, vs.Transactions, SourceRestored); err != nil {
		s.log.Warn("restoring state", log.FieldError, err)
		return false
	}
	s.log.Info("restored captured transactions", log.FieldRecords, len(vs.Transactions))
	return true
}

// Reload re-reads the feed and swaps in fresh charts.
func (s *Service) Reload(ctx context.Context) error {
	if s.cfg.FeedPath == "" {
		return nil
	}
	start := time.Now()
	result, err := pipeline.Load(s.cfg.FeedPath, nil)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastLoadAt = time.Now()
		s.loadCount++
		s.mu.Unlock()
		return err
	}
	if err := s.apply(ctx, result.Transactions, SourceFeed); err != nil {
		if errors.Is(err, errSuperseded) {
			s.log.Debug("dropped feed reload", log.FieldFeed, s.cfg.FeedPath, log.FieldError, err)
			return nil
		}
		return err
	}
	s.log.Debug("feed loaded",
		log.FieldFeed, s.cfg.FeedPath,
		log.FieldFiles, result.ParsedFiles,
		log.FieldRecords, len(result.Transactions),
		log.FieldSkipped, result.ParseErrors,
		log.FieldDuration, time.Since(start).Milliseconds(),
	)
	return nil
}

// SetTransactions replaces the served data, capturing it in the store when
// one is configured.
func (s *Service) SetTransactions(ctx context.Context, txs []model.Transaction) error {
	if err := s.apply(ctx, txs, SourceAPI); err != nil {
		return err
	}
	if s.cfg.Store != nil {
		if err := s.cfg.Store.SaveState(store.ViewState{View: StateView, Transactions: txs}); err != nil {
			return fmt.Errorf("capturing state: %w", err)
		}
	}
	return nil
}

// feedOwns reports whether a feed reload may replace data from source.
// Data set over the API is authoritative until restart.
func feedOwns(source string) bool {
	return source == SourceFeed || source == SourceNone
}

// apply builds charts for txs and publishes them as the new snapshot.
// Feed data is never applied over data set through the API, even when
// the API call lands while the feed is loading.
func (s *Service) apply(ctx context.Context, txs []model.Transaction, source string) error {
	charts, err := pipeline.Build(ctx, txs, pipeline.Options{
		TopCategories: s.cfg.TopCategories,
		PaletteSize:   theme.PaletteSize,
	})
	empty := model.Unchartable(err)
	if err != nil && (!empty || source == SourceAPI) {
		return fmt.Errorf("building charts: %w", err)
	}
	var buildErr string
	if err != nil && !errors.Is(err, model.ErrEmptyInput) {
		buildErr = err.Error()
	}

	now := time.Now()
	next := snapshot{
		txs:     txs,
		charts:  charts,
		empty:   empty,
		summary: summarize(charts, len(txs), source, now),
	}

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	if source == SourceFeed && !feedOwns(s.snap.summary.Source) {
		s.mu.Unlock()
		return errSuperseded
	}
	prev := s.snap.summary
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snap = next
	s.lastLoadAt = now
	s.loadCount++
	s.lastError = buildErr

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "snapshot", Timestamp: now, Summary: next.summary}
		publish = true
	} else if delta := diffSummaries(prev, next.summary); !delta.isZero() {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "charts_delta", Timestamp: now, Summary: next.summary, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
	return nil
}

func summarize(charts pipeline.Charts, n int, source string, at time.Time) Summary {
	return Summary{
		At:           at,
		Source:       source,
		Transactions: n,
		Categories:   len(charts.Summaries),
		Total:        charts.Pie.Total,
		Days:         len(charts.Series.Buckets),
		Clipped:      charts.Series.Clipped,
	}
}

func diffSummaries(prev, curr Summary) Delta {
	return Delta{
		Transactions: curr.Transactions - prev.Transactions,
		Total:        curr.Total - prev.Total,
		Categories:   curr.Categories - prev.Categories,
	}
}

func (s *Service) current() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:         s.startedAt,
		LastLoadAt:        s.lastLoadAt,
		ReloadIntervalSec: int(s.cfg.Interval.Seconds()),
		LoadCount:         s.loadCount,
		FeedPath:          s.cfg.FeedPath,
		Summary:           s.snap.summary,
		LastError:         s.lastError,
		EventCount:        len(s.events),
		SubscriberCount:   len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
