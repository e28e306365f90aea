package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/spendchart/internal/export"
	"github.com/theirongolddev/spendchart/internal/log"
	"github.com/theirongolddev/spendchart/internal/tui/theme"

	"github.com/spf13/cobra"
)

var (
	flagExportFont  string
	flagExportTitle string
)

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx|file.pdf>",
	Short: "Write the charts to an Excel workbook or a PDF report",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportFont, "font", "", "TTF font for PDF labels (PDFs are drawn without text otherwise)")
	exportCmd.Flags().StringVar(&flagExportTitle, "title", "Spending", "Report title")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".pdf" {
		return fmt.Errorf("unsupported export format %q: use .xlsx or .pdf", ext)
	}

	result, charts, ok, err := loadCharts(cmd.Context())
	if err != nil || !ok {
		return err
	}

	opts := export.Options{
		Title:     flagExportTitle,
		Location:  loc,
		Theme:     theme.Active,
		RingWidth: cfg.Pie.RingWidth,
		MinRadius: cfg.Pie.MinRadius,
		FontPath:  flagExportFont,
	}

	f, err := os.Create(path) //nolint:gosec // output path is given by the user
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)

	if ext == ".xlsx" {
		err = export.WriteXLSX(w, charts, opts)
	} else {
		err = export.WritePDF(w, charts, opts)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}

	logger.WithComponent(log.ComponentExport).Debug("report written",
		"path", path,
		log.FieldCategories, len(charts.Summaries),
		log.FieldClipped, charts.Series.Clipped,
	)
	fmt.Printf("  Wrote %s\n", path)
	reportFileErrors(result)
	return nil
}
