package model

import "fmt"

// CategorySummary is one ranked slice of the category breakdown.
type CategorySummary struct {
	Name        string   `json:"name"`
	Sum         int64    `json:"sum"`
	IsAggregate bool     `json:"is_aggregate"`
	Members     []string `json:"members"` // original categories covered by this summary
}

// PieSector is the angular span of one summary on the donut, in degrees
// clockwise from 12 o'clock.
type PieSector struct {
	Summary    CategorySummary `json:"summary"`
	StartAngle float64         `json:"start_angle"`
	EndAngle   float64         `json:"end_angle"`
	ColorIndex int             `json:"color_index"`
}

// Span returns the sector's angular width.
func (s PieSector) Span() float64 {
	return s.EndAngle - s.StartAngle
}

// DayBucket holds the summed amount for one calendar day.
type DayBucket struct {
	Day    int64 `json:"day"` // days since epoch
	Amount int64 `json:"amount"`
}

// AxisConfig describes the scales of the daily chart.
type AxisConfig struct {
	YStep       int64 `json:"y_step"`
	XCount      int   `json:"x_count"`      // visible ticks, at most 10
	XStep       int   `json:"x_step"`       // buckets between ticks
	RangeStart  int64 `json:"range_start"`  // day index of the first bucket
	BucketCount int   `json:"bucket_count"` // synthesized buckets
}

// DaySeries is the zero-filled daily series with its axis.
type DaySeries struct {
	Buckets []DayBucket `json:"buckets"`
	Axis    AxisConfig  `json:"axis"`
	Clipped int         `json:"clipped"` // data days that fell outside the window
}

// CurvePoint is a plot-space coordinate.
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CubicSegment is one Bézier segment continuing from the previous end point.
type CubicSegment struct {
	C1  CurvePoint `json:"c1"`
	C2  CurvePoint `json:"c2"`
	End CurvePoint `json:"end"`
}

// Path is a smoothing path through the curve points.
type Path struct {
	Start    CurvePoint     `json:"start"`
	Segments []CubicSegment `json:"segments"`
}

// Align is the horizontal anchoring of a tick label.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	default:
		return "center"
	}
}

// MarshalText lets alignments serialize as names.
func (a Align) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts the names written by MarshalText.
func (a *Align) UnmarshalText(text []byte) error {
	switch string(text) {
	case "left":
		*a = AlignLeft
	case "right":
		*a = AlignRight
	case "center":
		*a = AlignCenter
	default:
		return fmt.Errorf("unknown alignment %q", text)
	}
	return nil
}

// Tick is an axis label anchored in plot space.
type Tick struct {
	Label string  `json:"label"`
	Value int64   `json:"value"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Align Align   `json:"align"`
}

// Curve is the full geometric description of the daily chart.
type Curve struct {
	Points []CurvePoint `json:"points"`
	Path   Path         `json:"path"`
	HGrid  []float64    `json:"h_grid"` // y of horizontal gridlines, top to bottom
	VGrid  []float64    `json:"v_grid"` // x of vertical gridlines, left to right
	XTicks []Tick       `json:"x_ticks"`
	YTicks []Tick       `json:"y_ticks"`
}
