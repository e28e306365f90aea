package geometry

import (
	"strconv"
	"time"

	"github.com/theirongolddev/spendchart/internal/model"
)

// gridIntervals is the number of horizontal grid intervals of the daily chart.
const gridIntervals = 4

// Rect is the plot area in renderer units, y growing downward.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// BuildCurve maps a day series into rect and produces the smoothing path,
// gridlines and axis labels. Day labels are rendered in loc (UTC when nil).
//
// Consecutive points are joined by a cubic whose control points sit at the
// horizontal midpoint, the first at the previous point's height and the
// second at the next point's height.
func BuildCurve(series model.DaySeries, rect Rect, loc *time.Location) (model.Curve, error) {
	if len(series.Buckets) == 0 {
		return model.Curve{}, model.ErrEmptyInput
	}
	if loc == nil {
		loc = time.UTC
	}

	axis := series.Axis
	if axis.YStep <= 0 {
		axis.YStep = 100
	}
	if axis.XStep < 1 {
		axis.XStep = 1
	}
	if axis.XCount < 1 {
		axis.XCount = 1
	}

	gridUnit := rect.Height() / gridIntervals
	tickSpacing := rect.Width()
	if axis.XCount > 1 {
		tickSpacing = rect.Width() / float64(axis.XCount-1)
	}
	pointSpacing := tickSpacing / float64(axis.XStep)
	yScale := gridUnit / float64(axis.YStep)

	var c model.Curve

	c.Points = make([]model.CurvePoint, len(series.Buckets))
	for i, b := range series.Buckets {
		c.Points[i] = model.CurvePoint{
			X: rect.Left + float64(i)*pointSpacing,
			Y: rect.Bottom - float64(b.Amount)*yScale,
		}
	}
	c.Path = SmoothPath(c.Points)

	c.HGrid = make([]float64, gridIntervals+1)
	for i := range c.HGrid {
		c.HGrid[i] = rect.Top + gridUnit*float64(i)
	}
	c.VGrid = make([]float64, axis.XCount)
	for i := range c.VGrid {
		c.VGrid[i] = rect.Left + tickSpacing*float64(i)
	}

	for i := 0; i < axis.XCount; i++ {
		idx := i * axis.XStep
		if idx >= len(series.Buckets) {
			break
		}
		day := series.Buckets[idx].Day
		align := model.AlignCenter
		switch i {
		case 0:
			align = model.AlignLeft
		case axis.XCount - 1:
			align = model.AlignRight
		}
		c.XTicks = append(c.XTicks, model.Tick{
			Label: DayLabel(day, loc),
			Value: day,
			X:     c.VGrid[i],
			Y:     rect.Bottom,
			Align: align,
		})
	}

	for i := gridIntervals; i >= 1; i-- {
		v := axis.YStep * int64(i)
		c.YTicks = append(c.YTicks, model.Tick{
			Label: strconv.FormatInt(v, 10),
			Value: v,
			X:     rect.Right,
			Y:     c.HGrid[gridIntervals-i],
			Align: model.AlignRight,
		})
	}

	return c, nil
}

// SmoothPath joins points with midpoint-controlled cubic segments.
func SmoothPath(points []model.CurvePoint) model.Path {
	if len(points) == 0 {
		return model.Path{}
	}
	p := model.Path{Start: points[0]}
	for i := 1; i < len(points); i++ {
		prev, next := points[i-1], points[i]
		mid := (prev.X + next.X) / 2
		p.Segments = append(p.Segments, model.CubicSegment{
			C1:  model.CurvePoint{X: mid, Y: prev.Y},
			C2:  model.CurvePoint{X: mid, Y: next.Y},
			End: next,
		})
	}
	return p
}

// PointAt evaluates segment s, starting at from, at parameter t in [0, 1].
func PointAt(from model.CurvePoint, s model.CubicSegment, t float64) model.CurvePoint {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return model.CurvePoint{
		X: a*from.X + b*s.C1.X + c*s.C2.X + d*s.End.X,
		Y: a*from.Y + b*s.C1.Y + c*s.C2.Y + d*s.End.Y,
	}
}

// DayLabel renders a day index as its day of month in loc.
func DayLabel(day int64, loc *time.Location) string {
	return strconv.Itoa(DayTime(day, loc).Day())
}

// DayTime returns midnight UTC of a day index, expressed in loc.
func DayTime(day int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(day*model.SecondsPerDay, 0).In(loc)
}
