package pipeline

import (
	"context"

	"github.com/theirongolddev/spendchart/internal/geometry"
	"github.com/theirongolddev/spendchart/internal/model"

	"golang.org/x/sync/errgroup"
)

// Options tunes chart construction.
type Options struct {
	TopCategories int
	PaletteSize   int
}

// Charts holds the renderer-agnostic output of both pipelines.
type Charts struct {
	Summaries []model.CategorySummary
	Pie       geometry.Pie
	Series    model.DaySeries
}

// Build runs the category and daily pipelines concurrently over txs.
// txs is only read, never modified.
func Build(ctx context.Context, txs []model.Transaction, opts Options) (Charts, error) {
	if len(txs) == 0 {
		return Charts{}, model.ErrEmptyInput
	}

	var charts Charts
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summaries, err := AggregateCategories(txs, opts.TopCategories)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		pie, err := geometry.BuildPie(summaries, opts.PaletteSize)
		if err != nil {
			return err
		}
		charts.Summaries = summaries
		charts.Pie = pie
		return nil
	})

	g.Go(func() error {
		series, err := AggregateDays(txs)
		if err != nil {
			return err
		}
		charts.Series = series
		return nil
	})

	if err := g.Wait(); err != nil {
		return Charts{}, err
	}
	return charts, nil
}
