// Package theme defines color themes shared by the CLI tables and the TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// PaletteSize is the number of sector colours every theme carries.
const PaletteSize = 11

// Theme defines the color roles used for chart output.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Active tab, selected row
	Border       lipgloss.Color // Subtle borders, grid lines
	BorderBright lipgloss.Color // Card borders, focus
	TextDim      lipgloss.Color // Hints, axis labels
	TextMuted    lipgloss.Color // Secondary text
	TextPrimary  lipgloss.Color // Primary content text
	Accent       lipgloss.Color // Active states, the daily curve
	AccentBright lipgloss.Color
	Red          lipgloss.Color
	Green        lipgloss.Color

	// Palette colours pie sectors by PieSector.ColorIndex.
	Palette [PaletteSize]lipgloss.Color
}

// Sector returns the palette colour for a sector colour index.
func (t Theme) Sector(colorIndex int) lipgloss.Color {
	if colorIndex < 0 {
		colorIndex = -colorIndex
	}
	return t.Palette[colorIndex%PaletteSize]
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderBright: lipgloss.Color("#575653"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Red:          lipgloss.Color("#D14D41"),
	Green:        lipgloss.Color("#879A39"),
	Palette: [PaletteSize]lipgloss.Color{
		"#D14D41", "#DA702C", "#D0A215", "#879A39", "#3AA99F", "#4385BE",
		"#8B7EC8", "#CE5D97", "#AF3029", "#24837B", "#5E409D",
	},
}

// CatppuccinMocha is a warm pastel theme with soft, soothing colors.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderBright: lipgloss.Color("#7F849C"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Red:          lipgloss.Color("#F38BA8"),
	Green:        lipgloss.Color("#A6E3A1"),
	Palette: [PaletteSize]lipgloss.Color{
		"#F38BA8", "#FAB387", "#F9E2AF", "#A6E3A1", "#94E2D5", "#89B4FA",
		"#CBA6F7", "#F5C2E7", "#EBA0AC", "#74C7EC", "#B4BEFE",
	},
}

// TokyoNight is a cool blue/purple theme inspired by Tokyo city lights.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderBright: lipgloss.Color("#7982A9"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Red:          lipgloss.Color("#F7768E"),
	Green:        lipgloss.Color("#9ECE6A"),
	Palette: [PaletteSize]lipgloss.Color{
		"#F7768E", "#FF9E64", "#E0AF68", "#9ECE6A", "#73DACA", "#7DCFFF",
		"#7AA2F7", "#BB9AF7", "#DB4B4B", "#2AC3DE", "#9D7CD8",
	},
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderBright: lipgloss.Color("7"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Red:          lipgloss.Color("1"),
	Green:        lipgloss.Color("2"),
	Palette: [PaletteSize]lipgloss.Color{
		"1", "3", "2", "6", "4", "5", "9", "11", "10", "14", "13",
	},
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
