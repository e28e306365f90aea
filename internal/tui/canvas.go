package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cell is one terminal cell of a rasterised chart.
type cell struct {
	r    rune
	fg   lipgloss.Color
	bold bool
}

// canvas is a fixed-size grid of cells, rendered row by row with
// consecutive same-style cells merged into a single styled run.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([][]cell, c.h)
	for y := range c.cells {
		row := make([]cell, c.w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && x < c.w && y >= 0 && y < c.h
}

func (c *canvas) set(x, y int, r rune, fg lipgloss.Color) {
	if c.inside(x, y) {
		c.cells[y][x] = cell{r: r, fg: fg}
	}
}

func (c *canvas) at(x, y int) rune {
	if !c.inside(x, y) {
		return 0
	}
	return c.cells[y][x].r
}

// text writes s starting at column x; cells outside the canvas are dropped.
func (c *canvas) text(x, y int, s string, fg lipgloss.Color) {
	for _, r := range s {
		c.set(x, y, r, fg)
		x++
	}
}

// plain renders the canvas without styling.
func (c *canvas) plain() string {
	lines := make([]string, c.h)
	for y, row := range c.cells {
		var b strings.Builder
		for _, cl := range row {
			b.WriteRune(cl.r)
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// render renders the canvas with colours on the given background.
func (c *canvas) render(bg lipgloss.Color) string {
	lines := make([]string, c.h)
	for y, row := range c.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].fg == row[start].fg && row[x].bold == row[start].bold {
				continue
			}
			var run strings.Builder
			for _, cl := range row[start:x] {
				run.WriteRune(cl.r)
			}
			style := lipgloss.NewStyle().Background(bg).Bold(row[start].bold)
			if row[start].fg != "" {
				style = style.Foreground(row[start].fg)
			}
			b.WriteString(style.Render(run.String()))
			start = x
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
