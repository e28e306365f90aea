package tui

import (
	"github.com/theirongolddev/spendchart/internal/cli"
	"github.com/theirongolddev/spendchart/internal/geometry"
	"github.com/theirongolddev/spendchart/internal/model"
	"github.com/theirongolddev/spendchart/internal/tui/theme"
)

// cellAspect is the height of a terminal cell in units of its width.
const cellAspect = 2.0

// pieView rasterises a pie onto w x h terminal cells. Cells are mapped into
// a square-pixel space (x in cell widths, y scaled by cellAspect) so the
// donut stays round, and each cell centre is hit-tested against the ring.
type pieView struct {
	pie  geometry.Pie
	ring geometry.Ring
	w, h int
}

func newPieView(pie geometry.Pie, w, h int) pieView {
	pw, ph := float64(w), float64(h)*cellAspect
	stroke := max(2, min(pw, ph)*0.22)
	return pieView{
		pie:  pie,
		ring: geometry.FitRing(pw, ph, stroke, 0),
		w:    w,
		h:    h,
	}
}

func (v pieView) center() (cx, cy float64) {
	return float64(v.w) / 2, float64(v.h) * cellAspect / 2
}

// sectorAt returns the sector drawn at cell (col, row), if any.
func (v pieView) sectorAt(col, row int) (model.PieSector, bool) {
	if col < 0 || col >= v.w || row < 0 || row >= v.h {
		return model.PieSector{}, false
	}
	cx, cy := v.center()
	x := float64(col) + 0.5
	y := (float64(row) + 0.5) * cellAspect
	return v.pie.HitTest(v.ring, cx, cy, x, y)
}

// draw rasterises the donut. When selected names a category, other
// sectors are shaded lighter.
func (v pieView) draw(selected string) *canvas {
	t := theme.Active
	c := newCanvas(v.w, v.h)
	for row := 0; row < v.h; row++ {
		for col := 0; col < v.w; col++ {
			s, ok := v.sectorAt(col, row)
			if !ok {
				continue
			}
			r := '█'
			if selected != "" && s.Summary.Name != selected {
				r = '▓'
			}
			c.set(col, row, r, t.Sector(s.ColorIndex))
		}
	}

	label := cli.FormatAmount(v.pie.Total)
	c.text((v.w-len(label))/2, v.h/2, label, t.TextPrimary)
	return c
}
