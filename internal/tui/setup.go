package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/spendchart/internal/config"
	"github.com/theirongolddev/spendchart/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the setup form as entered.
type SetupValues struct {
	FeedPath      string
	TopCategories string
	Timezone      string
	Theme         string
}

// NewSetupValues prefills the form from an existing config.
func NewSetupValues(cfg config.Config) *SetupValues {
	return &SetupValues{
		FeedPath:      cfg.General.FeedPath,
		TopCategories: strconv.Itoa(cfg.General.TopCategories),
		Timezone:      cfg.General.Timezone,
		Theme:         cfg.Appearance.Theme,
	}
}

// NewSetupForm builds the huh form that edits v in place.
func NewSetupForm(v *SetupValues) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Transactions feed").
				Description("A JSON file, or a directory of .json/.jsonl feeds.").
				Placeholder("~/finance/payments.json").
				Value(&v.FeedPath),
			huh.NewInput().
				Title("Categories shown before collapsing into Other").
				Value(&v.TopCategories).
				Validate(validateTopCategories),
			huh.NewInput().
				Title("Timezone for day labels").
				Description("IANA name; empty means UTC.").
				Placeholder("Europe/Moscow").
				Value(&v.Timezone).
				Validate(validateTimezone),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
	)
}

// Apply copies validated answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) error {
	if err := validateTopCategories(v.TopCategories); err != nil {
		return err
	}
	if err := validateTimezone(v.Timezone); err != nil {
		return err
	}
	n, _ := strconv.Atoi(strings.TrimSpace(v.TopCategories))
	cfg.General.FeedPath = strings.TrimSpace(v.FeedPath)
	cfg.General.TopCategories = n
	cfg.General.Timezone = strings.TrimSpace(v.Timezone)
	cfg.Appearance.Theme = theme.ByName(v.Theme).Name
	return nil
}

func validateTopCategories(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number")
	}
	if n < 1 {
		return errors.New("must be at least 1")
	}
	return nil
}

func validateTimezone(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.LoadLocation(s); err != nil {
		return fmt.Errorf("unknown timezone %q", s)
	}
	return nil
}
