// Package pipeline turns raw transactions into chart-ready series.
package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/spendchart/internal/model"
)

// DefaultTopCategories is how many categories the pie shows before
// collapsing the tail into one "other" slice.
const DefaultTopCategories = 9

// AggregateCategories groups transactions by category, ranks the groups by
// descending sum and collapses everything past topN into one aggregate summary.
// Groups with equal sums keep the order in which they were first seen.
func AggregateCategories(txs []model.Transaction, topN int) ([]model.CategorySummary, error) {
	if len(txs) == 0 {
		return nil, model.ErrEmptyInput
	}
	if topN < 1 {
		topN = DefaultTopCategories
	}

	index := make(map[string]int)
	var groups []model.CategorySummary

	for _, tx := range txs {
		i, ok := index[tx.Category]
		if !ok {
			i = len(groups)
			index[tx.Category] = i
			groups = append(groups, model.CategorySummary{
				Name:    tx.Category,
				Members: []string{tx.Category},
			})
		}
		groups[i].Sum += tx.Amount
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Sum > groups[j].Sum
	})

	if len(groups) <= topN {
		return groups, nil
	}

	rest := groups[topN:]
	other := model.CategorySummary{IsAggregate: true}
	for _, g := range rest {
		other.Sum += g.Sum
		other.Members = append(other.Members, g.Name)
	}
	other.Name = OtherLabel(other.Members)

	out := make([]model.CategorySummary, 0, topN+1)
	out = append(out, groups[:topN]...)
	return append(out, other), nil
}

// OtherLabel formats the display name of a collapsed summary.
func OtherLabel(names []string) string {
	return fmt.Sprintf("Other (%s)", strings.Join(names, ", "))
}

// TotalAmount sums the amounts of all transactions.
func TotalAmount(txs []model.Transaction) int64 {
	var total int64
	for _, tx := range txs {
		total += tx.Amount
	}
	return total
}
