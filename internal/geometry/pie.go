// Package geometry converts aggregated series into renderer-agnostic chart geometry.
package geometry

import (
	"math"

	"github.com/theirongolddev/spendchart/internal/model"
)

// DefaultPaletteSize is the number of sector colours renderers provide.
const DefaultPaletteSize = 11

// Pie is the ordered list of sectors covering the full circle.
type Pie struct {
	Sectors []model.PieSector `json:"sectors"`
	Total   int64             `json:"total"`
}

// BuildPie lays summaries out clockwise from 12 o'clock, each spanning
// 360*sum/total degrees.
func BuildPie(summaries []model.CategorySummary, paletteSize int) (Pie, error) {
	if len(summaries) == 0 {
		return Pie{}, model.ErrEmptyInput
	}
	if paletteSize < 1 {
		paletteSize = DefaultPaletteSize
	}

	var total int64
	for _, s := range summaries {
		total += s.Sum
	}
	if total <= 0 {
		return Pie{}, model.ErrDegenerateTotal
	}

	pie := Pie{
		Sectors: make([]model.PieSector, len(summaries)),
		Total:   total,
	}

	start := 0.0
	for i, s := range summaries {
		end := start + float64(s.Sum)/float64(total)*360
		if i == len(summaries)-1 {
			end = 360
		}
		pie.Sectors[i] = model.PieSector{
			Summary:    s,
			StartAngle: start,
			EndAngle:   end,
			ColorIndex: i % paletteSize,
		}
		start = end
	}

	return pie, nil
}

// Locate returns the sector whose span strictly contains angle.
// Angles exactly on a boundary (including 0) belong to no sector.
func (p Pie) Locate(angle float64) (model.PieSector, bool) {
	angle = NormalizeAngle(angle)
	for _, s := range p.Sectors {
		if angle > s.StartAngle && angle < s.EndAngle {
			return s, true
		}
	}
	return model.PieSector{}, false
}

// HitTest maps a screen point to a sector, requiring the point to fall on the ring.
func (p Pie) HitTest(ring Ring, cx, cy, x, y float64) (model.PieSector, bool) {
	if !ring.Contains(cx, cy, x, y) {
		return model.PieSector{}, false
	}
	return p.Locate(AngleAt(cx, cy, x, y))
}

// Share returns the sector's fraction of the total.
func (p Pie) Share(s model.PieSector) float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(s.Summary.Sum) / float64(p.Total)
}

// NormalizeAngle folds any angle into [0, 360).
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// AngleAt returns the angle of (x, y) around (cx, cy), in degrees clockwise
// from 12 o'clock. Screen coordinates are assumed, with y growing downward.
func AngleAt(cx, cy, x, y float64) float64 {
	deg := math.Atan2(y-cy, x-cx)*180/math.Pi + 90
	if deg < 0 {
		deg += 360
	}
	return NormalizeAngle(deg)
}

// Ring is the annulus a donut is drawn on.
type Ring struct {
	Inner float64 `json:"inner"`
	Outer float64 `json:"outer"`
}

// Contains reports whether (x, y) lies on the ring around (cx, cy), edges included.
func (r Ring) Contains(cx, cy, x, y float64) bool {
	dx, dy := x-cx, y-cy
	d2 := dx*dx + dy*dy
	return d2 >= r.Inner*r.Inner && d2 <= r.Outer*r.Outer
}

// FitRing sizes a ring of the given stroke width into a width x height box,
// never shrinking the inner radius below minRadius/2.
func FitRing(width, height, stroke, minRadius float64) Ring {
	inner := math.Max(math.Min(width, height)-stroke*2, minRadius) / 2
	return Ring{Inner: inner, Outer: inner + stroke}
}

// ArcPoint returns the point at radius r and angle deg around (cx, cy),
// using the same clockwise-from-12 convention as AngleAt.
func ArcPoint(cx, cy, r, deg float64) model.CurvePoint {
	rad := deg * math.Pi / 180
	return model.CurvePoint{
		X: cx + r*math.Sin(rad),
		Y: cy - r*math.Cos(rad),
	}
}
