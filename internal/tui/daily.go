package tui

import (
	"math"
	"time"

	"github.com/theirongolddev/spendchart/internal/geometry"
	"github.com/theirongolddev/spendchart/internal/model"
	"github.com/theirongolddev/spendchart/internal/tui/theme"
)

// drawDaily rasterises the daily curve onto w x h cells. The plot occupies
// all rows but the last, which carries the day labels.
func drawDaily(series model.DaySeries, w, h int, loc *time.Location) (*canvas, error) {
	t := theme.Active
	c := newCanvas(w, h)

	rect := geometry.Rect{Left: 0, Top: 0, Right: float64(w - 1), Bottom: float64(h - 2)}
	curve, err := geometry.BuildCurve(series, rect, loc)
	if err != nil {
		return c, err
	}

	for _, y := range curve.HGrid {
		row := round(y)
		for col := 0; col < w; col++ {
			c.set(col, row, '─', t.Border)
		}
	}
	for _, x := range curve.VGrid {
		col := round(x)
		for row := 0; row <= round(rect.Bottom); row++ {
			r := '│'
			if c.at(col, row) == '─' {
				r = '┼'
			}
			c.set(col, row, r, t.Border)
		}
	}

	from := curve.Path.Start
	for _, seg := range curve.Path.Segments {
		steps := max(8, 2*int(math.Abs(seg.End.X-from.X)+math.Abs(seg.End.Y-from.Y)))
		for i := 0; i <= steps; i++ {
			p := geometry.PointAt(from, seg, float64(i)/float64(steps))
			c.set(round(p.X), round(p.Y), '•', t.Accent)
		}
		from = seg.End
	}
	for _, p := range curve.Points {
		c.set(round(p.X), round(p.Y), '●', t.AccentBright)
	}

	for _, tick := range curve.YTicks {
		c.text(alignedStart(tick), round(tick.Y), tick.Label, t.TextDim)
	}
	for _, tick := range curve.XTicks {
		c.text(alignedStart(tick), h-1, tick.Label, t.TextMuted)
	}

	return c, nil
}

// alignedStart returns the first column of a tick label anchored at tick.X.
func alignedStart(tick model.Tick) int {
	x := round(tick.X)
	n := len([]rune(tick.Label))
	switch tick.Align {
	case model.AlignRight:
		return x - n + 1
	case model.AlignCenter:
		return x - n/2
	default:
		return x
	}
}

func round(f float64) int {
	return int(math.Round(f))
}
