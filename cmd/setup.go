package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/spendchart/internal/cli"
	"github.com/theirongolddev/spendchart/internal/config"
	"github.com/theirongolddev/spendchart/internal/source"
	"github.com/theirongolddev/spendchart/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	fmt.Println()
	fmt.Println("  Welcome to spendchart!")
	fmt.Println()

	values := tui.NewSetupValues(cfg)
	if err := tui.NewSetupForm(values).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	if err := values.Apply(&cfg); err != nil {
		return err
	}

	if cfg.General.FeedPath != "" {
		files, err := source.ScanDir(cfg.General.FeedPath)
		switch {
		case err != nil:
			fmt.Printf("  Warning: %v\n", err)
		case len(files) == 0:
			fmt.Printf("  Warning: no feeds found at %s\n", cfg.General.FeedPath)
		default:
			fmt.Printf("  Found %s feed files\n", cli.FormatNumber(int64(len(files))))
		}
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `spendchart setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
