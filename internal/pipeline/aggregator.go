package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/spendchart/internal/model"
)

// FilterByCategory returns the transactions that belong to a summary.
// An aggregate summary matches every category it collapsed.
func FilterByCategory(txs []model.Transaction, summary model.CategorySummary) []model.Transaction {
	members := summary.Members
	if len(members) == 0 {
		members = []string{summary.Name}
	}
	want := make(map[string]struct{}, len(members))
	for _, m := range members {
		want[m] = struct{}{}
	}

	var result []model.Transaction
	for _, tx := range txs {
		if _, ok := want[tx.Category]; ok {
			result = append(result, tx)
		}
	}
	return result
}

// Filter narrows transactions before charting. Zero fields match everything.
type Filter struct {
	Since time.Time // inclusive
	Until time.Time // exclusive
	Name  string    // case-insensitive substring of the transaction name
}

// IsZero reports whether f matches every transaction.
func (f Filter) IsZero() bool {
	return f.Since.IsZero() && f.Until.IsZero() && f.Name == ""
}

// ParseFilter builds a Filter from user input. since and until accept a
// date (2006-01-02, midnight in loc) or an RFC 3339 timestamp; empty
// strings leave that bound open.
func ParseFilter(since, until, name string, loc *time.Location) (Filter, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := Filter{Name: name}
	var err error
	if f.Since, err = parseBound(since, loc); err != nil {
		return Filter{}, fmt.Errorf("since: %w", err)
	}
	if f.Until, err = parseBound(until, loc); err != nil {
		return Filter{}, fmt.Errorf("until: %w", err)
	}
	if !f.Since.IsZero() && !f.Until.IsZero() && !f.Since.Before(f.Until) {
		return Filter{}, fmt.Errorf("since %s is not before until %s",
			f.Since.Format(time.DateOnly), f.Until.Format(time.DateOnly))
	}
	return f, nil
}

func parseBound(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want YYYY-MM-DD or RFC 3339", raw)
	}
	return t, nil
}

// Apply returns the transactions matching every field of f.
func (f Filter) Apply(txs []model.Transaction) []model.Transaction {
	return FilterByName(FilterByTime(txs, f.Since, f.Until), f.Name)
}

// FilterByTime returns transactions whose time falls within [since, until).
func FilterByTime(txs []model.Transaction, since, until time.Time) []model.Transaction {
	if since.IsZero() && until.IsZero() {
		return txs
	}

	var result []model.Transaction
	for _, tx := range txs {
		at := time.Unix(tx.Time, 0)
		if !since.IsZero() && at.Before(since) {
			continue
		}
		if !until.IsZero() && !at.Before(until) {
			continue
		}
		result = append(result, tx)
	}
	return result
}

// FilterByName returns transactions whose name contains substr, ignoring case.
func FilterByName(txs []model.Transaction, substr string) []model.Transaction {
	if substr == "" {
		return txs
	}
	var result []model.Transaction
	for _, tx := range txs {
		if containsIgnoreCase(tx.Name, substr) {
			result = append(result, tx)
		}
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// FindSummary returns the summary with the given name, or the aggregate
// summary that collapsed a category of that name.
func FindSummary(summaries []model.CategorySummary, name string) (model.CategorySummary, bool) {
	for _, s := range summaries {
		if s.Name == name {
			return s, true
		}
	}
	for _, s := range summaries {
		if !s.IsAggregate {
			continue
		}
		for _, m := range s.Members {
			if m == name {
				return s, true
			}
		}
	}
	return model.CategorySummary{}, false
}
