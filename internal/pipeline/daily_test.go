package pipeline

import (
	"errors"
	"testing"

	"github.com/theirongolddev/spendchart/internal/model"
)

func TestAggregateDays_Empty(t *testing.T) {
	if _, err := AggregateDays(nil); !errors.Is(err, model.ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
}

func TestAggregateDays_SumsPerDay(t *testing.T) {
	txs := []model.Transaction{
		tx("Food", 100, 1),
		tx("Food", 50, 1),
		tx("Gas", 200, 2),
	}
	s, err := AggregateDays(txs)
	if err != nil {
		t.Fatal(err)
	}
	// span 2 -> 6 slots, 2 distinct days -> padding 2
	if s.Axis.XCount != 6 || s.Axis.XStep != 1 || s.Axis.BucketCount != 6 {
		t.Fatalf("axis = %+v, want XCount=6 XStep=1 BucketCount=6", s.Axis)
	}
	if s.Axis.RangeStart != -1 {
		t.Errorf("RangeStart = %d, want -1", s.Axis.RangeStart)
	}
	if len(s.Buckets) != 6 {
		t.Fatalf("len(buckets) = %d, want 6", len(s.Buckets))
	}
	byDay := map[int64]int64{}
	for _, b := range s.Buckets {
		byDay[b.Day] = b.Amount
	}
	if byDay[1] != 150 || byDay[2] != 200 {
		t.Errorf("day sums = %v, want 1:150 2:200", byDay)
	}
	if s.Axis.YStep != 100 {
		t.Errorf("YStep = %d, want 100", s.Axis.YStep)
	}
}

func TestAggregateDays_ThreeDaySpan(t *testing.T) {
	txs := []model.Transaction{
		tx("A", 100, 10),
		tx("A", 500, 12),
	}
	s, err := AggregateDays(txs)
	if err != nil {
		t.Fatal(err)
	}
	if s.Axis.YStep != 200 {
		t.Errorf("YStep = %d, want 200", s.Axis.YStep)
	}
	if s.Axis.XCount != 5 {
		t.Errorf("XCount = %d, want 5 (span 3 -> span+2)", s.Axis.XCount)
	}
	if s.Axis.RangeStart != 9 {
		t.Errorf("RangeStart = %d, want 9", s.Axis.RangeStart)
	}
	want := []int64{0, 100, 0, 500, 0}
	for i, b := range s.Buckets {
		if b.Day != 9+int64(i) {
			t.Errorf("bucket %d day = %d, want %d", i, b.Day, 9+i)
		}
		if b.Amount != want[i] {
			t.Errorf("bucket %d amount = %d, want %d", i, b.Amount, want[i])
		}
	}
}

func TestTickCount(t *testing.T) {
	cases := []struct {
		span int64
		want int
	}{
		{0, 4}, {1, 5}, {2, 6},
		{3, 5}, {4, 6},
		{5, 5}, {7, 7}, {10, 10},
		{11, 20}, {20, 20}, {21, 30}, {95, 100},
	}
	for _, c := range cases {
		if got := TickCount(c.span); got != c.want {
			t.Errorf("TickCount(%d) = %d, want %d", c.span, got, c.want)
		}
	}
}

func TestYStep(t *testing.T) {
	cases := []struct {
		max, want int64
	}{
		{0, 100}, {1, 100}, {400, 100}, {401, 200}, {500, 200}, {800, 200}, {801, 300}, {10000, 2500},
	}
	for _, c := range cases {
		got := YStep(c.max)
		if got != c.want {
			t.Errorf("YStep(%d) = %d, want %d", c.max, got, c.want)
		}
		if got%100 != 0 || got*4 < c.max {
			t.Errorf("YStep(%d) = %d does not cover max in 4 intervals", c.max, got)
		}
	}
}

func TestAggregateDays_ClampsLongSpans(t *testing.T) {
	for span := int64(1); span <= 120; span++ {
		txs := []model.Transaction{tx("A", 10, 100), tx("A", 20, 100+span-1)}
		s, err := AggregateDays(txs)
		if err != nil {
			t.Fatal(err)
		}
		a := s.Axis
		if a.XCount > 10 || a.XStep < 1 {
			t.Fatalf("span %d: axis %+v violates XCount<=10, XStep>=1", span, a)
		}
		if len(s.Buckets) != a.BucketCount {
			t.Fatalf("span %d: %d buckets, BucketCount %d", span, len(s.Buckets), a.BucketCount)
		}
		for i := 0; i < a.XCount; i++ {
			idx := i * a.XStep
			if idx >= a.BucketCount {
				t.Fatalf("span %d: tick %d -> bucket %d outside window of %d", span, i, idx, a.BucketCount)
			}
		}
		for i := 1; i < len(s.Buckets); i++ {
			if s.Buckets[i].Day != s.Buckets[i-1].Day+1 {
				t.Fatalf("span %d: buckets not contiguous at %d", span, i)
			}
		}
	}
}

func TestAggregateDays_LongSpanStep(t *testing.T) {
	txs := []model.Transaction{tx("A", 10, 0), tx("A", 10, 24)}
	s, err := AggregateDays(txs)
	if err != nil {
		t.Fatal(err)
	}
	if s.Axis.XCount != 10 || s.Axis.XStep != 3 || s.Axis.BucketCount != 30 {
		t.Fatalf("axis = %+v, want XCount=10 XStep=3 BucketCount=30", s.Axis)
	}
	// padding = (30-2)/2 = 14
	if s.Axis.RangeStart != -14 {
		t.Errorf("RangeStart = %d, want -14", s.Axis.RangeStart)
	}
	if s.Clipped != 1 {
		t.Errorf("Clipped = %d, want 1 (day 24 falls past the window)", s.Clipped)
	}
}

func TestDayIndex_PreEpoch(t *testing.T) {
	if got := model.DayIndex(-1); got != -1 {
		t.Errorf("DayIndex(-1) = %d, want -1", got)
	}
	if got := model.DayIndex(model.SecondsPerDay); got != 1 {
		t.Errorf("DayIndex(86400) = %d, want 1", got)
	}
}

func TestAggregateDays_RejectsHugeSpan(t *testing.T) {
	txs := []model.Transaction{
		{Name: "a", Amount: 1, Category: "A", Time: 0},
		{Name: "b", Amount: 1, Category: "A", Time: 1 << 62},
	}
	if _, err := AggregateDays(txs); !errors.Is(err, model.ErrSpanTooLarge) {
		t.Fatalf("err = %v, want ErrSpanTooLarge", err)
	}
}

func TestAggregateDays_SpanLimit(t *testing.T) {
	last := int64(model.MaxSpanDays - 1)
	s, err := AggregateDays([]model.Transaction{tx("A", 1, 0), tx("A", 1, last)})
	if err != nil {
		t.Fatalf("span of MaxSpanDays: %v", err)
	}
	if len(s.Buckets) != s.Axis.BucketCount || s.Axis.XCount != maxTicks {
		t.Fatalf("axis = %+v, buckets = %d", s.Axis, len(s.Buckets))
	}

	_, err = AggregateDays([]model.Transaction{tx("A", 1, 0), tx("A", 1, last+1)})
	if !errors.Is(err, model.ErrSpanTooLarge) {
		t.Fatalf("err = %v, want ErrSpanTooLarge", err)
	}
	if !model.Unchartable(err) {
		t.Fatal("ErrSpanTooLarge should be unchartable")
	}
}
