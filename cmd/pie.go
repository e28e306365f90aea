package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendchart/internal/cli"
	"github.com/theirongolddev/spendchart/internal/geometry"
	"github.com/theirongolddev/spendchart/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var flagAngle float64

var pieCmd = &cobra.Command{
	Use:   "pie",
	Short: "Category breakdown with pie sector angles",
	RunE:  runPie,
}

func init() {
	pieCmd.Flags().Float64Var(&flagAngle, "angle", -1, "Report the sector under this angle (degrees clockwise from 12 o'clock)")
	rootCmd.AddCommand(pieCmd)
}

func runPie(cmd *cobra.Command, _ []string) error {
	result, charts, ok, err := loadCharts(cmd.Context())
	if err != nil || !ok {
		return err
	}
	pie := charts.Pie

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SPENDING BY CATEGORY  %s total", cli.FormatAmount(pie.Total))))
	fmt.Println()

	rows := make([][]string, 0, len(pie.Sectors))
	swatches := make([]lipgloss.Color, 0, len(pie.Sectors))
	for _, sec := range pie.Sectors {
		share := pie.Share(sec)
		color := theme.Active.Sector(sec.ColorIndex)
		rows = append(rows, []string{
			sec.Summary.Name,
			cli.FormatNumber(sec.Summary.Sum),
			cli.FormatPercent(share),
			cli.RenderShareBar(share, 20, color),
			cli.FormatAngle(sec.StartAngle) + " - " + cli.FormatAngle(sec.EndAngle),
		})
		swatches = append(swatches, color)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"Category", "Amount", "Share", "", "Sector"},
		Rows:     rows,
		Swatches: swatches,
	}))

	for _, sec := range pie.Sectors {
		if sec.Summary.IsAggregate {
			fmt.Printf("\n  %s covers: %s\n", sec.Summary.Name, strings.Join(sec.Summary.Members, ", "))
		}
	}

	if cmd.Flags().Changed("angle") {
		angle := geometry.NormalizeAngle(flagAngle)
		if sec, hit := pie.Locate(angle); hit {
			fmt.Printf("\n  %s lies in %s\n", cli.FormatAngle(angle), sec.Summary.Name)
		} else {
			fmt.Printf("\n  %s lies on a sector boundary\n", cli.FormatAngle(angle))
		}
	}

	reportFileErrors(result)
	return nil
}
