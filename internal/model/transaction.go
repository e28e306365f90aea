// Package model defines domain types for spendchart transactions and chart geometry.
package model

import "errors"

// SecondsPerDay converts unix seconds into day indexes.
const SecondsPerDay = 60 * 60 * 24

// MaxSpanDays bounds the daily window, a century of days.
const MaxSpanDays = 36600

// Transaction times must fall within years 0001 to 9999.
const (
	MinTime int64 = -62135596800
	MaxTime int64 = 253402300799
)

var (
	// ErrEmptyInput is returned when there is nothing to aggregate or draw.
	// Renderers show a "no data" state instead of propagating it.
	ErrEmptyInput = errors.New("no data")

	// ErrDegenerateTotal is returned when all sums are zero and angles
	// cannot be computed. Callers treat it like ErrEmptyInput.
	ErrDegenerateTotal = errors.New("total sum is zero")

	// ErrSpanTooLarge is returned when transactions span more than
	// MaxSpanDays days. Callers treat it like ErrEmptyInput.
	ErrSpanTooLarge = errors.New("day span too large")
)

// Unchartable reports whether err means there is nothing to draw rather
// than a failure.
func Unchartable(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrDegenerateTotal) ||
		errors.Is(err, ErrSpanTooLarge)
}

// Transaction is one record of the transaction feed.
type Transaction struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Category string `json:"category"`
	Time     int64  `json:"time"` // unix seconds
}

// ValidTime reports whether t.Time is within [MinTime, MaxTime].
func (t Transaction) ValidTime() bool {
	return t.Time >= MinTime && t.Time <= MaxTime
}

// Day returns the transaction's day index (days since the unix epoch).
func (t Transaction) Day() int64 {
	return DayIndex(t.Time)
}

// DayIndex converts unix seconds to days since the epoch, flooring
// so that pre-epoch timestamps still land on contiguous days.
func DayIndex(unix int64) int64 {
	d := unix / SecondsPerDay
	if unix%SecondsPerDay < 0 {
		d--
	}
	return d
}
