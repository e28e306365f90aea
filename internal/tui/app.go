// Package tui provides the interactive Bubble Tea dashboard for spendchart.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/spendchart/internal/cli"
	"github.com/theirongolddev/spendchart/internal/model"
	"github.com/theirongolddev/spendchart/internal/pipeline"
	"github.com/theirongolddev/spendchart/internal/store"
	"github.com/theirongolddev/spendchart/internal/tui/components"
	"github.com/theirongolddev/spendchart/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StateView is the store key the dashboard captures its state under.
const StateView = "tui"

const (
	tabPie = iota
	tabDaily
)

const (
	minTerminalWidth = 40
	headerRows       = 2 // tab bar + title line
	footerRows       = 1
	legendGap        = 2
)

// Options configures the dashboard.
type Options struct {
	FeedPath      string
	TopCategories int
	Location      *time.Location
	Filter        pipeline.Filter // applied to feed loads, not restored state

	// Store, when set, receives the view state on quit; with Resume the
	// dashboard starts from the captured state instead of the feed.
	Store  *store.Store
	Resume bool
}

// DataLoadedMsg is sent when the feed (or a restored state) is ready.
type DataLoadedMsg struct {
	Transactions []model.Transaction
	Result       *pipeline.LoadResult
	Restored     *store.ViewState
	LoadTime     time.Duration
	Err          error
}

// ProgressMsg reports feed parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	txs      []model.Transaction
	charts   pipeline.Charts
	empty    bool
	emptyErr error
	loaded   bool
	loadErr  error
	loadTime time.Duration
	skipped  int

	// Drill-down: nil shows every category on the daily screen.
	category *model.CategorySummary
	daily    model.DaySeries
	dailyErr error

	// UI state
	width     int
	height    int
	activeTab int
	cursor    int
	status    string

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

// NewApp creates a new dashboard model.
func NewApp(opts Options) App {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.TopCategories <= 0 {
		opts.TopCategories = pipeline.DefaultTopCategories
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:    opts,
		spinner: sp,
		loadSub: make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts, a.loadSub),
		a.spinner.Tick,
	)
}

// recompute rebuilds both charts from the current transactions.
func (a *App) recompute() {
	charts, err := pipeline.Build(context.Background(), a.txs, pipeline.Options{
		TopCategories: a.opts.TopCategories,
		PaletteSize:   theme.PaletteSize,
	})
	a.empty = model.Unchartable(err)
	a.emptyErr = nil
	if a.empty {
		a.emptyErr = err
	} else if err != nil {
		a.loadErr = err
	}
	a.charts = charts
	a.cursor = min(a.cursor, max(len(charts.Pie.Sectors)-1, 0))

	if a.category != nil {
		if s, ok := pipeline.FindSummary(charts.Summaries, a.category.Name); ok {
			a.category = &s
		} else {
			a.category = nil
		}
	}
	a.refreshDaily()
}

// refreshDaily recomputes the daily series for the drilled category.
func (a *App) refreshDaily() {
	txs := a.txs
	if a.category != nil {
		txs = pipeline.FilterByCategory(txs, *a.category)
	}
	a.daily, a.dailyErr = pipeline.AggregateDays(txs)
}

// drill switches to the daily chart of one category.
func (a *App) drill(summary model.CategorySummary) {
	a.category = &summary
	a.activeTab = tabDaily
	a.refreshDaily()
}

// back leaves a drill-down and returns to the pie.
func (a *App) back() {
	a.category = nil
	a.activeTab = tabPie
	a.refreshDaily()
}

// applyRestored replays captured navigation onto freshly built charts.
func (a *App) applyRestored(vs store.ViewState) {
	if vs.Category != "" {
		if s, ok := pipeline.FindSummary(a.charts.Summaries, vs.Category); ok {
			a.drill(s)
		}
	}
	a.activeTab = tabPie
	if vs.Screen == store.ScreenDaily {
		a.activeTab = tabDaily
	}
	a.status = "restored " + vs.SavedAt.Local().Format("Jan 2 15:04")
}

// SaveState captures the current data and navigation into the store.
func (a App) SaveState() error {
	if a.opts.Store == nil || !a.loaded || a.loadErr != nil {
		return nil
	}
	vs := store.ViewState{
		View:         StateView,
		Screen:       store.ScreenPie,
		Transactions: a.txs,
	}
	if a.activeTab == tabDaily {
		vs.Screen = store.ScreenDaily
	}
	if a.category != nil {
		vs.Category = a.category.Name
	}
	return a.opts.Store.SaveState(vs)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.empty || msg.Action != tea.MouseActionPress {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			a.click(msg.X, msg.Y)
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" {
			if err := a.SaveState(); err != nil {
				a.status = "save failed: " + err.Error()
			}
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}

		switch key {
		case "esc", "backspace":
			a.back()
		case "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		case "j", "down":
			a.moveCursor(1)
		case "k", "up":
			a.moveCursor(-1)
		case "enter":
			if a.activeTab == tabPie && a.cursor < len(a.charts.Pie.Sectors) {
				a.drill(a.charts.Pie.Sectors[a.cursor].Summary)
			}
		case "r":
			a.loaded = false
			a.progress, a.progressMax = 0, 0
			a.opts.Resume = false
			return a, tea.Batch(loadDataCmd(a.opts, a.loadSub), a.spinner.Tick)
		default:
			if len(msg.Runes) == 1 {
				if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil

	case spinner.TickMsg:
		if a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		a.status = ""
		if msg.Err != nil {
			return a, nil
		}
		a.txs = msg.Transactions
		a.skipped = 0
		if msg.Result != nil {
			a.skipped = msg.Result.ParseErrors
		}
		a.recompute()
		if msg.Restored != nil {
			a.applyRestored(*msg.Restored)
		}
		return a, nil
	}

	return a, nil
}

func (a *App) moveCursor(delta int) {
	if a.activeTab != tabPie {
		return
	}
	n := len(a.charts.Pie.Sectors)
	if n == 0 {
		return
	}
	a.cursor = min(max(a.cursor+delta, 0), n-1)
}

// click routes a left click: tab bar, pie ring, or legend row.
func (a *App) click(x, y int) {
	if y == 0 {
		if tab := a.tabAtX(x); tab >= 0 {
			a.activeTab = tab
		}
		return
	}
	if a.activeTab != tabPie {
		return
	}

	px, py, pw, ph := a.pieArea()
	if s, ok := newPieView(a.charts.Pie, pw, ph).sectorAt(x-px, y-py); ok {
		a.drill(s.Summary)
		return
	}

	lx, ly := a.legendOrigin()
	if x >= lx {
		if idx := y - ly; idx >= 0 && idx < len(a.charts.Pie.Sectors) {
			a.cursor = idx
			a.drill(a.charts.Pie.Sectors[idx].Summary)
		}
	}
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}

// bodySize is the area between the title line and the status bar.
func (a App) bodySize() (w, h int) {
	return a.width, max(a.height-headerRows-footerRows, 3)
}

// pieArea returns the screen rectangle the donut is rasterised into.
func (a App) pieArea() (x, y, w, h int) {
	bw, bh := a.bodySize()
	w = max(min(bw/2, int(float64(bh)*cellAspect)), 4)
	return 0, headerRows, w, bh
}

func (a App) legendOrigin() (x, y int) {
	_, _, pw, _ := a.pieArea()
	return pw + legendGap, headerRows
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols).\n  spendchart needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewMessage("Could not load data", a.loadErr.Error())
	}
	if a.empty {
		hint := "Point --feed at a transactions file or directory."
		if errors.Is(a.emptyErr, model.ErrSpanTooLarge) {
			hint = fmt.Sprintf("Transactions span more than %d days; narrow them with --since/--until.", model.MaxSpanDays)
		}
		return a.viewMessage("No data.", hint)
	}
	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Background(t.Surface).
		Padding(1, 3)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◔ spendchart"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	if a.progressMax > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" Parsing feeds %d/%d", a.progress, a.progressMax)))
		b.WriteString("\n\n")
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), 30))
	} else {
		b.WriteString(mutedStyle.Render(" Discovering feeds..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMessage(title, detail string) string {
	t := theme.Active
	cardWidth := min(a.width, 60)
	body := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true).Render(title) + "\n\n" +
		lipgloss.NewStyle().Foreground(t.TextMuted).Width(components.CardInnerWidth(cardWidth)).Render(detail) + "\n\n" +
		lipgloss.NewStyle().Foreground(t.TextDim).Render("[r]eload  [q]uit")
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		components.ContentCard("", body, cardWidth))
}

func (a App) viewMain() string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var title, body, hints, info string
	switch a.activeTab {
	case tabPie:
		title = titleStyle.Render(" Spending by category") +
			mutedStyle.Render(fmt.Sprintf("  %s total · %d categories",
				cli.FormatNumber(a.charts.Pie.Total), len(a.charts.Pie.Sectors)))
		body = a.viewPie()
		hints = "click/enter drill  ↑↓ select  [d]aily  [r]eload  [q]uit"
		if a.cursor < len(a.charts.Pie.Sectors) {
			info = a.charts.Pie.Sectors[a.cursor].Summary.Name
		}
	default:
		name := "All categories"
		if a.category != nil {
			name = a.category.Name
		}
		title = titleStyle.Render(" Daily · "+name) + mutedStyle.Render(a.dailyCaption())
		body = a.viewDaily()
		hints = "esc back  [c]ategories  [r]eload  [q]uit"
	}

	if a.status != "" {
		info = a.status
	} else if a.skipped > 0 {
		info = fmt.Sprintf("%d records skipped · %s", a.skipped, info)
	}

	return strings.Join([]string{
		components.RenderTabBar(a.activeTab, a.width),
		title,
		body,
		components.RenderStatusBar(a.width, hints, info),
	}, "\n")
}

func (a App) dailyCaption() string {
	if a.dailyErr != nil {
		return ""
	}
	axis := a.daily.Axis
	caption := fmt.Sprintf("  %d days · y step %s", axis.BucketCount, cli.FormatNumber(axis.YStep))
	if a.daily.Clipped > 0 {
		caption += fmt.Sprintf(" · %d days outside window", a.daily.Clipped)
	}
	return caption
}

func (a App) viewPie() string {
	t := theme.Active
	_, _, pw, ph := a.pieArea()

	selected := ""
	if a.cursor < len(a.charts.Pie.Sectors) {
		selected = a.charts.Pie.Sectors[a.cursor].Summary.Name
	}
	donut := newPieView(a.charts.Pie, pw, ph).draw(selected).render(t.Background)

	lx, _ := a.legendOrigin()
	lw := a.width - lx
	barW := min(max(lw-38, 0), 20)
	nameW := max(lw-barW-24, 6)

	var rows []string
	for i, s := range a.charts.Pie.Sectors {
		if i >= ph {
			break
		}
		marker := "  "
		nameStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
		if i == a.cursor {
			marker = "▸ "
			nameStyle = lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
		}
		row := marker +
			lipgloss.NewStyle().Foreground(t.Sector(s.ColorIndex)).Render("■ ") +
			nameStyle.Render(fit(s.Summary.Name, nameW)) +
			fmt.Sprintf(" %10s %6s ", cli.FormatNumber(s.Summary.Sum), cli.FormatPercent(a.charts.Pie.Share(s)))
		if barW >= 4 {
			row += components.ShareBar(a.charts.Pie.Share(s), barW, t.Sector(s.ColorIndex))
		}
		rows = append(rows, row)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, donut, strings.Repeat(" ", legendGap), strings.Join(rows, "\n"))
}

func (a App) viewDaily() string {
	w, h := a.bodySize()
	if a.dailyErr != nil {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, "No data.")
	}
	c, err := drawDaily(a.daily, w, h, a.opts.Location)
	if err != nil {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, err.Error())
	}
	return c.render(theme.Active.Background)
}

// fit pads or truncates s to exactly n display cells.
func fit(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s + strings.Repeat(" ", n-lipgloss.Width(s))
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// loadDataCmd starts loading in a background goroutine. It streams
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(opts Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			if opts.Resume && opts.Store != nil {
				vs, err := opts.Store.LoadState(StateView)
				if err == nil {
					sub <- DataLoadedMsg{Transactions: vs.Transactions, Restored: &vs, LoadTime: time.Since(start)}
					return
				}
				if !errors.Is(err, store.ErrNotFound) {
					sub <- DataLoadedMsg{Err: fmt.Errorf("restoring state: %w", err), LoadTime: time.Since(start)}
					return
				}
			}

			// Non-blocking send so workers aren't stalled; a dropped
			// update is superseded by the next one.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			result, err := pipeline.Load(opts.FeedPath, progressFn)
			if err != nil {
				sub <- DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
				return
			}
			txs := result.Transactions
			if !opts.Filter.IsZero() {
				txs = opts.Filter.Apply(txs)
			}
			sub <- DataLoadedMsg{Transactions: txs, Result: result, LoadTime: time.Since(start)}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}
