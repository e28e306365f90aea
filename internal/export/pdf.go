package export

import (
	"fmt"
	"io"
	"math"

	"github.com/signintech/gopdf"

	"github.com/theirongolddev/spendchart/internal/cli"
	"github.com/theirongolddev/spendchart/internal/geometry"
	"github.com/theirongolddev/spendchart/internal/model"
	"github.com/theirongolddev/spendchart/internal/pipeline"
)

// Layout on an A4 page, in points.
const (
	pageWidth    = 595.0
	margin       = 40.0
	pieTop       = 90.0
	pieBox       = 260.0
	arcStepDeg   = 2.0
	markerRadius = 2.0 // curve point dots
	markerSides  = 12
	fontFamily   = "body"
)

var curveRect = geometry.Rect{Left: margin + 10, Top: 480, Right: pageWidth - margin - 40, Bottom: 760}

// WritePDF draws the donut and the daily curve on a single A4 page.
func WritePDF(w io.Writer, charts pipeline.Charts, opts Options) error {
	opts = opts.withDefaults()

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	text := opts.FontPath != ""
	if text {
		if err := pdf.AddTTFFont(fontFamily, opts.FontPath); err != nil {
			return fmt.Errorf("loading font %s: %w", opts.FontPath, err)
		}
	}
	pdf.AddPage()

	d := drawer{pdf: &pdf, text: text}
	if err := d.title(opts.Title, charts.Pie.Total); err != nil {
		return err
	}
	if err := d.donut(charts.Pie, opts); err != nil {
		return err
	}
	if len(charts.Series.Buckets) > 0 {
		curve, err := geometry.BuildCurve(charts.Series, curveRect, opts.Location)
		if err != nil {
			return fmt.Errorf("building curve: %w", err)
		}
		if err := d.curve(curve); err != nil {
			return err
		}
	}

	if _, err := pdf.WriteTo(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

type drawer struct {
	pdf  *gopdf.GoPdf
	text bool
}

func (d drawer) title(title string, total int64) error {
	if !d.text {
		return nil
	}
	if err := d.label(title, margin, margin, 20, model.AlignLeft); err != nil {
		return err
	}
	return d.label("Total "+cli.FormatAmount(total), pageWidth-margin, margin+6, 12, model.AlignRight)
}

// donut fills each sector as a polygon between the ring's inner and
// outer arcs, with a legend to the right.
func (d drawer) donut(pie geometry.Pie, opts Options) error {
	ring := geometry.FitRing(pieBox, pieBox, opts.RingWidth, opts.MinRadius)
	cx := margin + pieBox/2
	cy := pieTop + pieBox/2

	for _, sec := range pie.Sectors {
		r, g, b := rgb(sectorHex(opts.Theme, sec.ColorIndex))
		d.pdf.SetFillColor(r, g, b)
		d.pdf.Polygon(sectorPolygon(cx, cy, ring, sec.StartAngle, sec.EndAngle), "F")
	}

	if !d.text {
		return nil
	}

	x := margin + pieBox + 30
	y := pieTop + 10
	for _, sec := range pie.Sectors {
		r, g, b := rgb(sectorHex(opts.Theme, sec.ColorIndex))
		d.pdf.SetFillColor(r, g, b)
		d.pdf.RectFromUpperLeftWithStyle(x, y, 10, 10, "F")

		line := fmt.Sprintf("%s  %s  %s", sec.Summary.Name,
			cli.FormatAmount(sec.Summary.Sum), cli.FormatPercent(pie.Share(sec)))
		if err := d.label(line, x+16, y, 10, model.AlignLeft); err != nil {
			return err
		}
		y += 20
	}
	return nil
}

// sectorPolygon approximates the annular sector [start, end] with straight
// segments no wider than arcStepDeg.
func sectorPolygon(cx, cy float64, ring geometry.Ring, start, end float64) []gopdf.Point {
	steps := max(int(math.Ceil((end-start)/arcStepDeg)), 1)
	pts := make([]gopdf.Point, 0, 2*(steps+1))
	for i := 0; i <= steps; i++ {
		p := geometry.ArcPoint(cx, cy, ring.Outer, start+(end-start)*float64(i)/float64(steps))
		pts = append(pts, gopdf.Point{X: p.X, Y: p.Y})
	}
	for i := steps; i >= 0; i-- {
		p := geometry.ArcPoint(cx, cy, ring.Inner, start+(end-start)*float64(i)/float64(steps))
		pts = append(pts, gopdf.Point{X: p.X, Y: p.Y})
	}
	return pts
}

// markerPolygon approximates a dot of radius r centred on p.
func markerPolygon(p model.CurvePoint, r float64) []gopdf.Point {
	pts := make([]gopdf.Point, markerSides)
	for i := range pts {
		q := geometry.ArcPoint(p.X, p.Y, r, float64(i)*360/markerSides)
		pts[i] = gopdf.Point{X: q.X, Y: q.Y}
	}
	return pts
}

func (d drawer) curve(c model.Curve) error {
	d.pdf.SetLineWidth(0.5)
	d.pdf.SetStrokeColor(200, 200, 200)
	for _, y := range c.HGrid {
		d.pdf.Line(curveRect.Left, y, curveRect.Right, y)
	}
	for _, x := range c.VGrid {
		d.pdf.Line(x, curveRect.Top, x, curveRect.Bottom)
	}

	d.pdf.SetLineWidth(1.5)
	d.pdf.SetStrokeColor(67, 133, 190)
	from := c.Path.Start
	for _, seg := range c.Path.Segments {
		d.pdf.Curve(from.X, from.Y, seg.C1.X, seg.C1.Y, seg.C2.X, seg.C2.Y, seg.End.X, seg.End.Y, "D")
		from = seg.End
	}

	d.pdf.SetFillColor(67, 133, 190)
	for _, p := range c.Points {
		d.pdf.Polygon(markerPolygon(p, markerRadius), "F")
	}

	if !d.text {
		return nil
	}
	for _, t := range c.XTicks {
		if err := d.label(t.Label, t.X, t.Y+6, 9, t.Align); err != nil {
			return err
		}
	}
	for _, t := range c.YTicks {
		// Y labels sit just outside the plot, vertically centred on their line.
		if err := d.label(t.Label, t.X+28, t.Y-5, 9, t.Align); err != nil {
			return err
		}
	}
	return nil
}

// label writes s with its anchor at (x, y), the top of the text box.
func (d drawer) label(s string, x, y float64, size int, align model.Align) error {
	if err := d.pdf.SetFont(fontFamily, "", size); err != nil {
		return fmt.Errorf("setting font: %w", err)
	}
	d.pdf.SetTextColor(40, 40, 40)

	width, err := d.pdf.MeasureTextWidth(s)
	if err != nil {
		return fmt.Errorf("measuring %q: %w", s, err)
	}
	switch align {
	case model.AlignCenter:
		x -= width / 2
	case model.AlignRight:
		x -= width
	}
	d.pdf.SetXY(x, y)
	return d.pdf.Cell(nil, s)
}
