package cmd

import (
	"fmt"

	"github.com/theirongolddev/spendchart/internal/log"
	"github.com/theirongolddev/spendchart/internal/store"
	"github.com/theirongolddev/spendchart/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagResume bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&flagResume, "resume", false, "Start from the view saved on last quit instead of the feed")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	opts := tui.Options{
		FeedPath:      cfg.General.FeedPath,
		TopCategories: cfg.General.TopCategories,
		Location:      loc,
		Filter:        filter,
		Resume:        flagResume,
	}

	st, err := store.Open(cfg.StatePath())
	if err != nil {
		// The dashboard works without persistence.
		logger.WithComponent(log.ComponentStorage).Warn("state store unavailable", log.FieldError, err)
	} else {
		defer st.Close()
		opts.Store = st
	}

	// The dashboard saves its view state itself when quitting.
	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
