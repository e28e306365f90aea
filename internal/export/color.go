package export

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/spendchart/internal/tui/theme"
)

// sectorHex returns a sector's colour as #RRGGBB. Themes built on ANSI
// indexes fall back to the default theme's palette.
func sectorHex(t theme.Theme, colorIndex int) string {
	if hex, ok := hexColor(t.Sector(colorIndex)); ok {
		return hex
	}
	hex, _ := hexColor(theme.FlexokiDark.Sector(colorIndex))
	return hex
}

func hexOr(c lipgloss.Color, fallback string) string {
	if hex, ok := hexColor(c); ok {
		return hex
	}
	return fallback
}

func hexColor(c lipgloss.Color) (string, bool) {
	s := string(c)
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return "", false
	}
	if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
		return "", false
	}
	return strings.ToUpper(s), true
}

func rgb(hex string) (r, g, b uint8) {
	v, _ := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}
