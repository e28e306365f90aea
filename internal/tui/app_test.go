package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/spendchart/internal/config"
	"github.com/theirongolddev/spendchart/internal/model"
	"github.com/theirongolddev/spendchart/internal/pipeline"
	"github.com/theirongolddev/spendchart/internal/store"
	"github.com/theirongolddev/spendchart/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

const sept12 = 19612 // 2023-09-12

func day(d int64) int64 { return (sept12 + d) * model.SecondsPerDay }

func sampleTxs() []model.Transaction {
	return []model.Transaction{
		{Name: "Shell", Amount: 200, Category: "Gas", Time: day(0)},
		{Name: "Market", Amount: 100, Category: "Food", Time: day(0)},
		{Name: "Cafe", Amount: 50, Category: "Food", Time: day(2)},
	}
}

// loadedApp returns an app sized to w x h with txs loaded.
func loadedApp(t *testing.T, opts Options, w, h int, txs []model.Transaction) App {
	t.Helper()
	var m tea.Model = NewApp(opts)
	m, _ = m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	m, _ = m.Update(DataLoadedMsg{Transactions: txs})
	return m.(App)
}

func press(m tea.Model, x, y int) tea.Model {
	m, _ = m.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	return m
}

func key(m tea.Model, k string) tea.Model {
	var msg tea.KeyMsg
	switch k {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	m, _ = m.Update(msg)
	return m
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Errorf("x past last tab -> %d, want -1", got)
		}
	}
}

func TestClickOnRingDrillsIntoCategory(t *testing.T) {
	a := loadedApp(t, Options{}, 100, 30, sampleTxs())
	if a.activeTab != tabPie {
		t.Fatalf("activeTab = %d, want pie", a.activeTab)
	}

	px, py, pw, ph := a.pieArea()
	view := newPieView(a.charts.Pie, pw, ph)

	// Find any cell painted with the Food sector and click it.
	var m tea.Model = a
	found := false
	for row := 0; row < ph && !found; row++ {
		for col := 0; col < pw; col++ {
			if s, ok := view.sectorAt(col, row); ok && s.Summary.Name == "Food" {
				m = press(m, px+col, py+row)
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatal("no Food cell in rasterised pie")
	}

	a = m.(App)
	if a.activeTab != tabDaily || a.category == nil || a.category.Name != "Food" {
		t.Fatalf("after click: tab=%d category=%v", a.activeTab, a.category)
	}
	var total int64
	for _, b := range a.daily.Buckets {
		total += b.Amount
	}
	if total != 150 {
		t.Errorf("drilled daily total = %d, want 150", total)
	}

	a = key(a, "esc").(App)
	if a.activeTab != tabPie || a.category != nil {
		t.Errorf("after esc: tab=%d category=%v", a.activeTab, a.category)
	}
}

func TestClickOutsideRingDoesNothing(t *testing.T) {
	a := loadedApp(t, Options{}, 100, 30, sampleTxs())
	px, py, pw, ph := a.pieArea()

	a = press(a, px+pw/2, py+ph/2).(App) // centre of the hole
	if a.activeTab != tabPie || a.category != nil {
		t.Errorf("click in hole changed view: tab=%d category=%v", a.activeTab, a.category)
	}
}

func TestLegendKeyboardDrill(t *testing.T) {
	a := loadedApp(t, Options{}, 100, 30, sampleTxs())
	var m tea.Model = key(a, "down")
	m = key(m, "enter")

	a = m.(App)
	if a.category == nil || a.category.Name != "Food" {
		t.Fatalf("category = %v, want Food", a.category)
	}
}

func TestLegendClick(t *testing.T) {
	a := loadedApp(t, Options{}, 100, 30, sampleTxs())
	lx, ly := a.legendOrigin()

	a = press(a, lx+3, ly).(App)
	if a.category == nil || a.category.Name != "Gas" {
		t.Fatalf("category = %v, want Gas", a.category)
	}
}

func TestViewEmptyAndLoaded(t *testing.T) {
	empty := loadedApp(t, Options{}, 100, 30, nil)
	if !strings.Contains(empty.View(), "No data.") {
		t.Error("empty view should say No data.")
	}

	a := loadedApp(t, Options{}, 100, 30, sampleTxs())
	view := a.View()
	if got := lipgloss.Height(view); got != 30 {
		t.Errorf("view height = %d, want 30", got)
	}
	if !strings.Contains(view, "Spending by category") {
		t.Error("pie screen title missing")
	}

	a = key(a, "d").(App)
	if !strings.Contains(a.View(), "Daily · All categories") {
		t.Error("daily screen title missing")
	}
}

func TestViewHugeSpanIsEmpty(t *testing.T) {
	txs := []model.Transaction{
		{Name: "a", Amount: 1, Category: "A", Time: model.MinTime},
		{Name: "b", Amount: 1, Category: "A", Time: model.MaxTime},
	}
	a := loadedApp(t, Options{}, 100, 30, txs)
	if !a.empty || a.loadErr != nil {
		t.Fatalf("empty = %v, loadErr = %v; want empty state", a.empty, a.loadErr)
	}
	if !errors.Is(a.emptyErr, model.ErrSpanTooLarge) {
		t.Fatalf("emptyErr = %v, want ErrSpanTooLarge", a.emptyErr)
	}
	view := a.View()
	if !strings.Contains(view, "No data.") || !strings.Contains(view, "narrow") {
		t.Errorf("view should explain the span:\n%s", view)
	}
}

func TestSaveAndRestoreState(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	a := loadedApp(t, Options{Store: st}, 100, 30, sampleTxs())
	a = key(key(a, "down"), "enter").(App)
	if err := a.SaveState(); err != nil {
		t.Fatal(err)
	}

	vs, err := st.LoadState(StateView)
	if err != nil {
		t.Fatal(err)
	}
	if vs.Screen != store.ScreenDaily || vs.Category != "Food" || len(vs.Transactions) != 3 {
		t.Fatalf("saved state = %+v", vs)
	}

	var m tea.Model = NewApp(Options{Store: st, Resume: true})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.Update(DataLoadedMsg{Transactions: vs.Transactions, Restored: &vs})
	restored := m.(App)
	if restored.activeTab != tabDaily || restored.category == nil || restored.category.Name != "Food" {
		t.Errorf("restored tab=%d category=%v", restored.activeTab, restored.category)
	}
}

func TestLoadDataCmdReadsFeed(t *testing.T) {
	dir := t.TempDir()
	feed := filepath.Join(dir, "feed.json")
	writeTestFeed(t, feed, `[{"name":"a","amount":10,"category":"x","time":0}]`)

	a := NewApp(Options{FeedPath: feed})
	msg := loadDataCmd(a.opts, a.loadSub)()
	for {
		if _, ok := msg.(ProgressMsg); !ok {
			break
		}
		msg = waitForLoadMsg(a.loadSub)()
	}
	loaded, ok := msg.(DataLoadedMsg)
	if !ok {
		t.Fatalf("msg = %T, want DataLoadedMsg", msg)
	}
	if loaded.Err != nil || len(loaded.Transactions) != 1 {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestLoadDataCmdAppliesFilter(t *testing.T) {
	feed := filepath.Join(t.TempDir(), "feed.json")
	writeTestFeed(t, feed, `[
		{"name":"Corner cafe","amount":10,"category":"Food","time":0},
		{"name":"Fuel","amount":40,"category":"Gas","time":86400},
		{"name":"cafe","amount":5,"category":"Food","time":172800}
	]`)

	a := NewApp(Options{FeedPath: feed, Filter: pipeline.Filter{Name: "CAFE", Since: time.Unix(86400, 0)}})
	msg := loadDataCmd(a.opts, a.loadSub)()
	for {
		if _, ok := msg.(ProgressMsg); !ok {
			break
		}
		msg = waitForLoadMsg(a.loadSub)()
	}
	loaded := msg.(DataLoadedMsg)
	if loaded.Err != nil || len(loaded.Transactions) != 1 || loaded.Transactions[0].Amount != 5 {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestDrawDaily(t *testing.T) {
	series := model.DaySeries{
		Buckets: []model.DayBucket{
			{Day: sept12 - 1, Amount: 0},
			{Day: sept12, Amount: 100},
			{Day: sept12 + 1, Amount: 200},
			{Day: sept12 + 2, Amount: 50},
			{Day: sept12 + 3, Amount: 0},
		},
		Axis: model.AxisConfig{YStep: 100, XCount: 5, XStep: 1, RangeStart: sept12 - 1, BucketCount: 5},
	}

	c, err := drawDaily(series, 41, 10, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	out := c.plain()
	if n := strings.Count(out, "●"); n != 5 {
		t.Errorf("points drawn = %d, want 5:\n%s", n, out)
	}
	lines := strings.Split(out, "\n")
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "11") || !strings.HasSuffix(last, "15") {
		t.Errorf("x labels = %q, want 11 ... 15", last)
	}
	if !strings.HasSuffix(lines[0], "400") {
		t.Errorf("top gridline = %q, want y label 400", lines[0])
	}
}

func TestPieViewSectors(t *testing.T) {
	a := loadedApp(t, Options{}, 100, 30, sampleTxs())
	// Gas (200) spans 0..205.7, Food the rest: right of centre is Gas,
	// left of centre is Food.
	v := newPieView(a.charts.Pie, 42, 21)
	if s, ok := v.sectorAt(36, 10); !ok || s.Summary.Name != "Gas" {
		t.Errorf("right of centre = %v, %v; want Gas", s.Summary.Name, ok)
	}
	if s, ok := v.sectorAt(5, 10); !ok || s.Summary.Name != "Food" {
		t.Errorf("left of centre = %v, %v; want Food", s.Summary.Name, ok)
	}
	if _, ok := v.sectorAt(21, 10); ok {
		t.Error("centre of the hole should hit nothing")
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	v := NewSetupValues(cfg)
	v.FeedPath = " /tmp/feed.json "
	v.TopCategories = "5"
	v.Theme = "tokyo-night"
	if err := v.Apply(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.General.FeedPath != "/tmp/feed.json" || cfg.General.TopCategories != 5 || cfg.Appearance.Theme != "tokyo-night" {
		t.Errorf("cfg = %+v", cfg)
	}

	v.TopCategories = "0"
	if err := v.Apply(&cfg); err == nil {
		t.Error("expected validation error for 0 categories")
	}
	v.TopCategories = "3"
	v.Timezone = "Mars/Olympus"
	if err := v.Apply(&cfg); err == nil {
		t.Error("expected validation error for bad timezone")
	}
}
