package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendchart/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil

	// Swatches, when set, prefixes each row's first cell with a coloured block.
	// A row with an empty colour gets blank padding instead.
	Swatches []lipgloss.Color
}

const swatch = "■ "

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	t := theme.Active
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary).Render(title))
}

// RenderTable renders a bordered table with headers and rows.
// The first column is left-aligned, the rest right-aligned.
func RenderTable(tbl Table) string {
	if len(tbl.Rows) == 0 && len(tbl.Headers) == 0 {
		return ""
	}

	t := theme.Active
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	numCols := len(tbl.Headers)
	if numCols == 0 {
		numCols = len(tbl.Rows[0])
	}

	prefix := 0
	if tbl.Swatches != nil {
		prefix = lipgloss.Width(swatch)
	}

	widths := make([]int, numCols)
	if tbl.Widths != nil {
		copy(widths, tbl.Widths)
	} else {
		for i, h := range tbl.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range tbl.Rows {
			for i, cell := range row {
				if i >= numCols {
					break
				}
				w := lipgloss.Width(cell)
				if i == 0 {
					w += prefix
				}
				widths[i] = max(widths[i], w)
			}
		}
	}

	rule := func(left, mid, right string) string {
		var b strings.Builder
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat("─", w+2))
			if i < numCols-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		return dimStyle.Render(b.String()) + "\n"
	}

	var b strings.Builder

	if tbl.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(tbl.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))

	if len(tbl.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range tbl.Headers {
			b.WriteString(headerStyle.Render(" " + pad(h, widths[i], true) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		b.WriteString(rule("├", "┼", "┤"))
	}

	for r, row := range tbl.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			if i == 0 {
				b.WriteString(" ")
				w := widths[0]
				if tbl.Swatches != nil {
					var c lipgloss.Color
					if r < len(tbl.Swatches) {
						c = tbl.Swatches[r]
					}
					if c != "" {
						b.WriteString(lipgloss.NewStyle().Foreground(c).Render(swatch))
					} else {
						b.WriteString(strings.Repeat(" ", prefix))
					}
					w -= prefix
				}
				b.WriteString(valueStyle.Render(pad(cell, w, true) + " "))
			} else {
				b.WriteString(valueStyle.Render(" " + pad(cell, widths[i], false) + " "))
			}
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	b.WriteString(rule("╰", "┴", "╯"))

	return b.String()
}

// pad fits s to width display cells, measuring with lipgloss so wide
// and multi-byte category names line up.
func pad(s string, width int, left bool) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if left {
		return s + strings.Repeat(" ", gap)
	}
	return strings.Repeat(" ", gap) + s
}

// RenderSparkline generates a unicode block sparkline from a series of amounts.
func RenderSparkline(values []int64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(float64(v) / float64(peak) * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderShareBar renders a share in [0, 1] as a coloured bar of maxWidth cells.
func RenderShareBar(share float64, maxWidth int, color lipgloss.Color) string {
	if maxWidth <= 0 {
		return ""
	}
	barLen := int(share*float64(maxWidth) + 0.5)
	barLen = min(max(barLen, 0), maxWidth)
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", barLen))
	rest := lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render(strings.Repeat("░", maxWidth-barLen))
	return bar + rest
}

// RenderProgressBar renders a simple text progress bar.
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 {
		return ""
	}

	pct := min(float64(current)/float64(total), 1)
	filled := min(int(pct*float64(width)), width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s/%s",
		lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Render(bar),
		FormatNumber(int64(current)),
		FormatNumber(int64(total)),
	)
}
