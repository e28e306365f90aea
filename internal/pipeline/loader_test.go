package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/theirongolddev/spendchart/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_MergesFeedsByTime(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[{"name":"late","amount":5,"category":"x","time":300}]`)
	writeFile(t, dir, "b.json", `[
		{"name":"early","amount":1,"category":"y","time":100},
		{"name":"bad","amount":"1","category":"y","time":100}
	]`)

	var (
		mu    sync.Mutex
		calls int
	)
	result, err := Load(dir, func(current, total int) {
		mu.Lock()
		calls++
		mu.Unlock()
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("progress calls = %d, want 2", calls)
	}
	if result.ParsedFiles != 2 || result.ParseErrors != 1 {
		t.Errorf("ParsedFiles = %d, ParseErrors = %d; want 2, 1", result.ParsedFiles, result.ParseErrors)
	}
	if len(result.Transactions) != 2 || result.Transactions[0].Name != "early" {
		t.Fatalf("transactions = %+v", result.Transactions)
	}
}

func TestLoad_MissingPath(t *testing.T) {
	result, err := Load(filepath.Join(t.TempDir(), "nope"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalFiles != 0 || len(result.Transactions) != 0 {
		t.Fatalf("result = %+v, want empty", result)
	}
}

func TestLoad_AllFeedsBroken(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `[{`)
	if _, err := Load(dir, nil); err == nil {
		t.Fatal("expected error when no feed parses")
	}
}

func TestBuild_MatchesSequentialPipelines(t *testing.T) {
	txs := []model.Transaction{
		tx("Food", 100, 1),
		tx("Food", 50, 1),
		tx("Gas", 200, 2),
	}

	charts, err := Build(context.Background(), txs, Options{})
	if err != nil {
		t.Fatal(err)
	}

	summaries, _ := AggregateCategories(txs, 0)
	series, _ := AggregateDays(txs)
	if !reflect.DeepEqual(charts.Summaries, summaries) {
		t.Errorf("summaries = %+v, want %+v", charts.Summaries, summaries)
	}
	if !reflect.DeepEqual(charts.Series, series) {
		t.Errorf("series = %+v, want %+v", charts.Series, series)
	}
	if len(charts.Pie.Sectors) != 2 || charts.Pie.Total != 350 {
		t.Errorf("pie = %+v", charts.Pie)
	}
}

func TestBuild_Empty(t *testing.T) {
	if _, err := Build(context.Background(), nil, Options{}); !errors.Is(err, model.ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
}

func TestBuild_HugeSpan(t *testing.T) {
	txs := []model.Transaction{
		{Name: "a", Amount: 1, Category: "A", Time: 0},
		{Name: "b", Amount: 1, Category: "A", Time: 1 << 62},
	}
	if _, err := Build(context.Background(), txs, Options{}); !errors.Is(err, model.ErrSpanTooLarge) {
		t.Fatalf("err = %v, want ErrSpanTooLarge", err)
	}
}
