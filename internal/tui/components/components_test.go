package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/spendchart/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsExactly(t *testing.T) {
	for total := 10; total < 40; total++ {
		for n := 1; n <= 4; n++ {
			sum := 0
			for _, w := range LayoutRow(total, n) {
				sum += w
			}
			if sum != total {
				t.Fatalf("LayoutRow(%d, %d) sums to %d", total, n, sum)
			}
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow(n=0) should be nil")
	}
}

func TestCardRowMatchesTallestCard(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Short", "Content", 22)
	tall := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4", 22)

	joined := CardRow([]string{tall, short})
	if got, want := lipgloss.Height(joined), lipgloss.Height(tall); got != want {
		t.Errorf("joined height = %d, want %d", got, want)
	}
	if got := lipgloss.Width(short); got != 22 {
		t.Errorf("card width = %d, want 22", got)
	}
}

func TestRenderTabBarWidthMatchesHitboxes(t *testing.T) {
	for active := range Tabs {
		bar := RenderTabBar(active, 0)
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		want += len(Tabs) - 1 // separators
		if got := lipgloss.Width(bar); got != want {
			t.Errorf("active=%d: bar width = %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('d') != 1 {
		t.Errorf("TabIdxByKey('d') = %d, want 1", TabIdxByKey('d'))
	}
	if TabIdxByKey('z') != -1 {
		t.Error("unknown key should map to -1")
	}
}

func TestStatusBarFillsWidth(t *testing.T) {
	bar := RenderStatusBar(60, "[q]uit", "Food")
	if got := lipgloss.Width(bar); got != 60 {
		t.Errorf("status bar width = %d, want 60", got)
	}
	if !strings.Contains(bar, "Food") {
		t.Error("status bar missing info text")
	}
}

func TestShareBarWidth(t *testing.T) {
	if got := lipgloss.Width(ShareBar(0.4, 20, theme.Active.Sector(0))); got != 20 {
		t.Errorf("ShareBar width = %d, want 20", got)
	}
}
