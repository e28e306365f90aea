package pipeline

import (
	"fmt"
	"sort"

	"github.com/theirongolddev/spendchart/internal/model"
)

const (
	// maxTicks is the most x-axis ticks the daily chart shows.
	maxTicks = 10
	// yIntervals is the number of horizontal grid intervals.
	yIntervals = 4
	// yRound is the granularity of the y-axis step.
	yRound = 100
)

// AggregateDays sums transactions per calendar day, derives the axis and
// zero-fills every day of the window centred on the data.
func AggregateDays(txs []model.Transaction) (model.DaySeries, error) {
	if len(txs) == 0 {
		return model.DaySeries{}, model.ErrEmptyInput
	}

	dayMap := make(map[int64]int64)
	for _, tx := range txs {
		dayMap[tx.Day()] += tx.Amount
	}

	days := make([]int64, 0, len(dayMap))
	var maxAmount int64
	for d, amt := range dayMap {
		days = append(days, d)
		if amt > maxAmount {
			maxAmount = amt
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	minDay, maxDay := days[0], days[len(days)-1]
	if maxDay-minDay+1 > model.MaxSpanDays {
		return model.DaySeries{}, fmt.Errorf("%w: %d days", model.ErrSpanTooLarge, maxDay-minDay+1)
	}
	axis := DeriveAxis(minDay, maxDay, len(days), maxAmount)

	series := model.DaySeries{
		Axis:    axis,
		Buckets: make([]model.DayBucket, axis.BucketCount),
	}

	// Fill in every day in the window so the chart shows gaps as zeros
	end := axis.RangeStart + int64(axis.BucketCount)
	for i := range series.Buckets {
		d := axis.RangeStart + int64(i)
		series.Buckets[i] = model.DayBucket{Day: d, Amount: dayMap[d]}
	}
	for _, d := range days {
		if d < axis.RangeStart || d >= end {
			series.Clipped++
		}
	}

	return series, nil
}

// DeriveAxis computes tick cadence, y step and the window start for data
// spanning [minDay, maxDay] with distinct populated days. The span must
// not exceed model.MaxSpanDays.
func DeriveAxis(minDay, maxDay int64, distinct int, maxAmount int64) model.AxisConfig {
	count := TickCount(maxDay - minDay + 1)

	axis := model.AxisConfig{
		YStep:       YStep(maxAmount),
		XCount:      count,
		XStep:       1,
		BucketCount: count,
	}
	if count > maxTicks {
		axis.XCount = maxTicks
		axis.XStep = count / maxTicks
	}

	padding := (count - distinct) / 2
	axis.RangeStart = minDay - int64(padding)
	return axis
}

// TickCount returns the un-clamped number of day slots for a day span.
func TickCount(span int64) int {
	switch {
	case span <= 2:
		return int(span) + 4
	case span <= 4:
		return int(span) + 2
	case span <= 10:
		return int(span)
	default:
		return int((span+9)/10) * 10
	}
}

// YStep returns the smallest multiple of 100 for which four grid
// intervals reach maxAmount.
func YStep(maxAmount int64) int64 {
	per := int64(yIntervals * yRound)
	steps := (maxAmount + per - 1) / per
	if steps < 1 {
		steps = 1
	}
	return steps * yRound
}
