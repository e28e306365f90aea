package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/spendchart/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveLoadState(t *testing.T) {
	s := openTestStore(t)
	want := ViewState{
		View:     "tui",
		Screen:   ScreenDaily,
		Category: "Food",
		Transactions: []model.Transaction{
			{Name: "a", Amount: 100, Category: "Food", Time: 86400},
			{Name: "b", Amount: 20, Category: "Gas", Time: 0},
		},
		SavedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.SaveState(want); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadState("tui")
	if err != nil {
		t.Fatal(err)
	}
	if got.Screen != want.Screen || got.Category != want.Category {
		t.Errorf("screen/category = %q/%q, want %q/%q", got.Screen, got.Category, want.Screen, want.Category)
	}
	if !got.SavedAt.Equal(want.SavedAt) {
		t.Errorf("SavedAt = %v, want %v", got.SavedAt, want.SavedAt)
	}
	if !reflect.DeepEqual(got.Transactions, want.Transactions) {
		t.Errorf("Transactions = %+v, want %+v", got.Transactions, want.Transactions)
	}
}

func TestSaveState_Replaces(t *testing.T) {
	s := openTestStore(t)
	first := ViewState{View: "v", Transactions: []model.Transaction{{Name: "a", Amount: 1, Category: "x"}, {Name: "b", Amount: 2, Category: "x"}}}
	second := ViewState{View: "v", Transactions: []model.Transaction{{Name: "c", Amount: 3, Category: "y"}}}

	if err := s.SaveState(first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveState(second); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadState("v")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Transactions) != 1 || got.Transactions[0].Name != "c" {
		t.Errorf("Transactions = %+v, want only c", got.Transactions)
	}
	if got.Screen != ScreenPie {
		t.Errorf("Screen = %q, want default %q", got.Screen, ScreenPie)
	}
}

func TestLoadState_NotFoundAndDelete(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.LoadState("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := s.SaveState(ViewState{View: "gone"}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteState("gone"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadState("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete err = %v, want ErrNotFound", err)
	}
}

func TestSaveState_RequiresView(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveState(ViewState{}); err == nil {
		t.Fatal("expected error for empty view name")
	}
}

func TestViews_MostRecentFirst(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"old", "new"} {
		if err := s.SaveState(ViewState{View: name, SavedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatal(err)
		}
	}
	views, err := s.Views()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(views, []string{"new", "old"}) {
		t.Errorf("Views = %v, want [new old]", views)
	}
}
