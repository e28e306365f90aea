// Package export writes chart data to spreadsheet and PDF reports.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/spendchart/internal/geometry"
	"github.com/theirongolddev/spendchart/internal/pipeline"
	"github.com/theirongolddev/spendchart/internal/tui/theme"
)

// Sheet names of the workbook.
const (
	SheetCategories = "Categories"
	SheetDaily      = "Daily"
)

// Options controls report rendering.
type Options struct {
	Title     string
	Location  *time.Location
	Theme     theme.Theme
	RingWidth float64
	MinRadius float64
	FontPath  string // TTF used for PDF labels; PDFs carry no text without one
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Spending"
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Theme.Name == "" {
		o.Theme = theme.FlexokiDark
	}
	if o.RingWidth <= 0 {
		o.RingWidth = 50
	}
	return o
}

// WriteXLSX writes a workbook with the category breakdown and the daily series.
func WriteXLSX(w io.Writer, charts pipeline.Charts, opts Options) error {
	opts = opts.withDefaults()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCategories); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetDaily); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{hexOr(opts.Theme.Accent, "#4385BE")},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	shareStyle, err := f.NewStyle(&excelize.Style{NumFmt: 10}) // 0.00%
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := writeCategories(f, charts, opts, headerStyle, shareStyle); err != nil {
		return err
	}
	if err := writeDaily(f, charts, opts, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeCategories(f *excelize.File, charts pipeline.Charts, opts Options, headerStyle, shareStyle int) error {
	sheet := SheetCategories
	headers := []string{"Category", "Amount", "Share", "Start", "End", "Members"}
	if err := writeHeader(f, sheet, headers, headerStyle); err != nil {
		return err
	}

	for i, sec := range charts.Pie.Sectors {
		row := i + 2
		values := []any{
			sec.Summary.Name,
			sec.Summary.Sum,
			charts.Pie.Share(sec),
			round1(sec.StartAngle),
			round1(sec.EndAngle),
			strings.Join(sec.Summary.Members, ", "),
		}
		if err := f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
			return fmt.Errorf("writing categories: %w", err)
		}

		swatch, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{
				Type:    "pattern",
				Color:   []string{sectorHex(opts.Theme, sec.ColorIndex)},
				Pattern: 1,
			},
		})
		if err != nil {
			return fmt.Errorf("creating style: %w", err)
		}
		if err := f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), swatch); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cellName(3, row), cellName(3, row), shareStyle); err != nil {
			return err
		}
	}

	total := []any{"Total", charts.Pie.Total}
	if err := f.SetSheetRow(sheet, cellName(1, len(charts.Pie.Sectors)+2), &total); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}

	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "F", "F", 40)
}

func writeDaily(f *excelize.File, charts pipeline.Charts, opts Options, headerStyle int) error {
	sheet := SheetDaily
	if err := writeHeader(f, sheet, []string{"Date", "Amount"}, headerStyle); err != nil {
		return err
	}

	for i, b := range charts.Series.Buckets {
		values := []any{
			geometry.DayTime(b.Day, opts.Location).Format("2006-01-02"),
			b.Amount,
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &values); err != nil {
			return fmt.Errorf("writing daily: %w", err)
		}
	}
	return f.SetColWidth(sheet, "A", "A", 14)
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), style)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
