// Package cmd implements the spendchart CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/spendchart/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.FeedPath != "" {
		fmt.Printf("    Feed:           %s\n", cfg.General.FeedPath)
	} else {
		fmt.Println("    Feed:           not configured")
	}
	fmt.Printf("    Top categories: %d\n", cfg.General.TopCategories)
	fmt.Printf("    Timezone:       %s\n", loc)
	fmt.Printf("    State store:    %s\n", cfg.StatePath())
	fmt.Println()

	fmt.Println("  [Pie]")
	fmt.Printf("    Ring width: %g\n", cfg.Pie.RingWidth)
	fmt.Printf("    Min radius: %g\n", cfg.Pie.MinRadius)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	if iv := cfg.ReloadInterval(); iv > 0 {
		fmt.Printf("    Reload:  every %s\n", iv)
	} else {
		fmt.Println("    Reload:  disabled")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Printf("  Environment overrides: %s, %s, %s, %s\n",
		config.EnvFeed, config.EnvTimezone, config.EnvAddr, config.EnvTheme)
	fmt.Println("  Run `spendchart setup` to reconfigure.")
	return nil
}
