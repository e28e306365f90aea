package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/theirongolddev/spendchart/internal/cli"
	"github.com/theirongolddev/spendchart/internal/config"
	"github.com/theirongolddev/spendchart/internal/log"
	"github.com/theirongolddev/spendchart/internal/model"
	"github.com/theirongolddev/spendchart/internal/pipeline"
	"github.com/theirongolddev/spendchart/internal/tui/theme"

	"github.com/spf13/cobra"
)

var (
	flagFeed    string
	flagTop     int
	flagQuiet   bool
	flagVerbose bool
	flagSince   string
	flagUntil   string
	flagName    string
)

// Shared state resolved once per invocation in PersistentPreRunE.
var (
	cfg    config.Config
	logger *log.Logger
	loc    *time.Location
	filter pipeline.Filter
)

var rootCmd = &cobra.Command{
	Use:   "spendchart",
	Short: "Spending charts from a transactions feed",
	Long:  "Break a transactions feed down by category and by day, as tables, a terminal dashboard, an HTTP API or reports.",
	PersistentPreRunE: setup,
	RunE:              runPie,
	SilenceUsage:      true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFeed, "feed", "f", "", "Transactions feed file or directory (overrides config)")
	rootCmd.PersistentFlags().IntVarP(&flagTop, "top", "k", 0, "Categories shown before collapsing into Other (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().StringVar(&flagSince, "since", "", "Only transactions on or after this date (YYYY-MM-DD or RFC 3339)")
	rootCmd.PersistentFlags().StringVar(&flagUntil, "until", "", "Only transactions before this date (YYYY-MM-DD or RFC 3339)")
	rootCmd.PersistentFlags().StringVarP(&flagName, "name", "m", "", "Filter to transaction name (substring match)")
}

// setup loads config, applies flag overrides and configures logging.
func setup(_ *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger = log.New(log.Config{Level: level, Component: log.ComponentApp, Output: os.Stderr})
	log.SetDefault(logger)

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if flagFeed != "" {
		cfg.General.FeedPath = flagFeed
	}
	if flagTop != 0 {
		if flagTop < 1 {
			return fmt.Errorf("--top must be at least 1, got %d", flagTop)
		}
		cfg.General.TopCategories = flagTop
	}
	theme.SetActive(cfg.Appearance.Theme)

	loc, err = cfg.Location()
	if err != nil {
		return err
	}
	filter, err = pipeline.ParseFilter(flagSince, flagUntil, flagName, loc)
	return err
}

// loadData is the shared feed loading path used by all commands.
func loadData() (*pipeline.LoadResult, error) {
	if cfg.General.FeedPath == "" {
		return nil, errors.New("no feed configured: pass --feed or run `spendchart setup`")
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning %s...\n", cfg.General.FeedPath)
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Parsing %s", cli.RenderProgressBar(current, total, 20))
	}

	start := time.Now()
	result, err := pipeline.Load(cfg.General.FeedPath, progressFn)
	if err != nil {
		return nil, err
	}

	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %s transactions from %d files    \n",
			cli.FormatNumber(int64(len(result.Transactions))),
			result.ParsedFiles,
		)
	}
	logger.WithComponent(log.ComponentLoader).Debug("feed loaded",
		log.FieldFeed, cfg.General.FeedPath,
		log.FieldFiles, result.ParsedFiles,
		log.FieldRecords, len(result.Transactions),
		log.FieldSkipped, result.ParseErrors,
		log.FieldDuration, time.Since(start).Milliseconds(),
	)

	if !filter.IsZero() {
		result.Transactions = filter.Apply(result.Transactions)
		logger.Debug("filtered transactions", log.FieldRecords, len(result.Transactions))
	}
	return result, nil
}

// loadCharts loads the feed and builds both charts. ok is false when there
// is nothing to chart; the caller has already been told why.
func loadCharts(ctx context.Context) (result *pipeline.LoadResult, charts pipeline.Charts, ok bool, err error) {
	result, err = loadData()
	if err != nil {
		return nil, charts, false, err
	}

	charts, err = pipeline.Build(ctx, result.Transactions, pipeline.Options{
		TopCategories: cfg.General.TopCategories,
		PaletteSize:   theme.PaletteSize,
	})
	if model.Unchartable(err) {
		if errors.Is(err, model.ErrSpanTooLarge) {
			fmt.Fprintf(os.Stderr, "\n  Transactions span more than %d days; narrow them with --since/--until.\n", model.MaxSpanDays)
		}
		fmt.Println("\n  No data.")
		return result, charts, false, nil
	}
	if err != nil {
		return nil, charts, false, err
	}
	return result, charts, true, nil
}

func reportFileErrors(result *pipeline.LoadResult) {
	if result.FileErrors > 0 {
		fmt.Fprintf(os.Stderr, "\n  %d files could not be parsed\n", result.FileErrors)
	}
	if result.ParseErrors > 0 {
		fmt.Fprintf(os.Stderr, "  %d malformed records skipped\n", result.ParseErrors)
	}
}
