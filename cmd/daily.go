package cmd

import (
	"fmt"

	"github.com/theirongolddev/spendchart/internal/cli"
	"github.com/theirongolddev/spendchart/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagCategory string

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily spending table",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().StringVarP(&flagCategory, "category", "c", "", "Limit to one category (as named in the pie, including Other)")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, _ []string) error {
	result, charts, ok, err := loadCharts(cmd.Context())
	if err != nil || !ok {
		return err
	}

	series := charts.Series
	title := "DAILY SPENDING"
	if flagCategory != "" {
		summary, found := pipeline.FindSummary(charts.Summaries, flagCategory)
		if !found {
			return fmt.Errorf("unknown category %q", flagCategory)
		}
		series, err = pipeline.AggregateDays(pipeline.FilterByCategory(result.Transactions, summary))
		if err != nil {
			return err
		}
		title += "  " + summary.Name
	}

	amounts := make([]int64, len(series.Buckets))
	for i, b := range series.Buckets {
		amounts[i] = b.Amount
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
	fmt.Printf("  %s\n\n", cli.RenderSparkline(amounts))

	rows := make([][]string, 0, len(series.Buckets)+2)
	for _, b := range series.Buckets {
		rows = append(rows, []string{
			cli.FormatDay(b.Day, loc),
			cli.FormatNumber(b.Amount),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Y step", cli.FormatNumber(series.Axis.YStep)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Amount"},
		Rows:    rows,
	}))

	if series.Clipped > 0 {
		fmt.Printf("\n  %d days fall outside the %d-day window\n", series.Clipped, series.Axis.BucketCount)
	}
	reportFileErrors(result)
	return nil
}
