// Package tui renders paginated lists in the terminal.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/mcc/internal/notify"
	"github.com/mmcdole/mcc/internal/paging"
	"github.com/mmcdole/mcc/internal/tui/styles"
)

// SessionExpiredMessage is printed when a view quits because the session ended
const SessionExpiredMessage = "Session expired. Log in again with `mcc login`."

const (
	defaultWidth  = 80
	noticeRefresh = time.Second
)

// Options configures a ListModel
type Options[T any, F any] struct {
	Title      string
	Noun       string // Plural used in notices, e.g. "recipes"
	RenderRow  func(item T, selected bool, width int) string
	WithSearch func(filter F, text string) F
	SearchText func(filter F) string
	Notices    *notify.Center
	Session    *SessionWatcher // Optional; the view quits when the session ends
	Logger     *slog.Logger
}

// ListModel is a Bubble Tea model showing a paging.Collection. Requests run
// as commands; the view reads the collection's latest state on every render.
type ListModel[T any, F paging.Filter[F]] struct {
	coll        *paging.Collection[T, F]
	opts        Options[T, F]
	keys        KeyMap
	ctx         context.Context
	cancel      context.CancelFunc
	changed     *changeSignal
	unsubscribe func()
	logger      *slog.Logger

	spinner   spinner.Model
	input     textinput.Model
	searching bool
	cursor    int
	offset    int
	width     int
	height    int

	quitMessage string
}

// NewListModel creates a list view over coll. The first page is requested by Init.
func NewListModel[T any, F paging.Filter[F]](coll *paging.Collection[T, F], opts Options[T, F]) ListModel[T, F] {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notices == nil {
		opts.Notices = notify.NewCenter(notify.DefaultTTL, opts.Logger)
	}
	if opts.Noun == "" {
		opts.Noun = "items"
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 100
	ti.Prompt = "/ "
	ti.PromptStyle = styles.SearchPromptStyle
	ti.TextStyle = styles.SearchTextStyle
	ti.PlaceholderStyle = styles.DimStyle

	ctx, cancel := context.WithCancel(context.Background())
	changed := newChangeSignal()
	unsubscribe := coll.Subscribe(func(paging.State[T, F]) { changed.notify() })

	return ListModel[T, F]{
		coll:        coll,
		opts:        opts,
		keys:        DefaultKeyMap(),
		ctx:         ctx,
		cancel:      cancel,
		changed:     changed,
		unsubscribe: unsubscribe,
		logger:      opts.Logger,
		spinner:     s,
		input:       ti,
		width:       defaultWidth,
	}
}

// QuitMessage is the message to print after the program exits, if any
func (m ListModel[T, F]) QuitMessage() string {
	return m.quitMessage
}

// Init loads the first page and starts listening for updates
func (m ListModel[T, F]) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForChange(),
		m.waitForSessionEnd(),
		m.refresh(),
		tickNotices(),
	)
}

// Update handles messages
func (m ListModel[T, F]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case collectionChangedMsg:
		m.clampCursor()
		return m, m.waitForChange()

	case requestDoneMsg:
		m.opts.Notices.Report(msg.Err, msg.Action)
		m.clampCursor()
		return m, nil

	case noticeTickMsg:
		m.clampCursor()
		return m, tickNotices()

	case sessionEndedMsg:
		m.logger.Info("session ended, closing list", "title", m.opts.Title)
		m.quitMessage = SessionExpiredMessage
		m.shutdown()
		return m, tea.Quit

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ListModel[T, F]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.coll.State().Items)

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < count-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
	case key.Matches(msg, m.keys.End):
		m.cursor = max(count-1, 0)

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.input.SetValue(m.opts.SearchText(m.coll.Filter()))
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.LoadMore):
		if m.coll.Affordance() != paging.AffordanceLoadMore {
			return m, nil
		}
		return m, m.run("loading more "+m.opts.Noun, m.coll.LoadMore)

	case key.Matches(msg, m.keys.Retry):
		if m.coll.Affordance() != paging.AffordanceRetry {
			return m, nil
		}
		return m, m.run("loading "+m.opts.Noun, m.coll.Retry)
	}

	m.clampCursor()
	return m, nil
}

func (m ListModel[T, F]) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Accept):
		m.searching = false
		m.input.Blur()
		m.cursor = 0
		m.offset = 0
		filter := m.opts.WithSearch(m.coll.Filter(), strings.TrimSpace(m.input.Value()))
		return m, m.run("searching "+m.opts.Noun, func(ctx context.Context) error {
			return m.coll.SetFilter(ctx, filter)
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refresh reissues the first page of the current filter
func (m ListModel[T, F]) refresh() tea.Cmd {
	filter := m.coll.Filter()
	return m.run("loading "+m.opts.Noun, func(ctx context.Context) error {
		return m.coll.SetFilter(ctx, filter)
	})
}

// run performs a blocking collection request off the UI goroutine
func (m ListModel[T, F]) run(action string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return requestDoneMsg{Action: action, Err: fn(ctx)}
	}
}

func (m ListModel[T, F]) waitForChange() tea.Cmd {
	ch := m.changed.ch
	return func() tea.Msg {
		<-ch
		return collectionChangedMsg{}
	}
}

func (m ListModel[T, F]) waitForSessionEnd() tea.Cmd {
	if m.opts.Session == nil {
		return nil
	}
	ended := m.opts.Session.Ended()
	return func() tea.Msg {
		<-ended
		return sessionEndedMsg{}
	}
}

func tickNotices() tea.Cmd {
	return tea.Tick(noticeRefresh, func(time.Time) tea.Msg {
		return noticeTickMsg{}
	})
}

// shutdown cancels requests in flight and detaches from the collection
func (m ListModel[T, F]) shutdown() {
	m.cancel()
	m.unsubscribe()
	m.coll.Close()
}

// clampCursor keeps the cursor on an item and scrolls it into view
func (m *ListModel[T, F]) clampCursor() {
	count := len(m.coll.State().Items)
	m.cursor = max(min(m.cursor, count-1), 0)

	visible := m.visibleRows()
	if visible <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	m.offset = max(min(m.offset, count-visible), 0)
}

// visibleRows is how many rows fit, or 0 when the height is unknown
func (m ListModel[T, F]) visibleRows() int {
	if m.height <= 0 {
		return 0
	}
	// Title, blank lines, affordance and help
	chrome := 5 + len(m.opts.Notices.Active())
	if m.searching {
		chrome++
	}
	return max(m.height-chrome, 1)
}

// View renders the list
func (m ListModel[T, F]) View() string {
	state := m.coll.State()
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(m.opts.Title))
	if text := m.opts.SearchText(state.Filter); text != "" && !m.searching {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  matching %q", text)))
	}
	b.WriteString("\n")
	if m.searching {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	notices := m.opts.Notices.Active()
	first, last := m.window(len(state.Items))
	for i := first; i < last; i++ {
		b.WriteString(m.opts.RenderRow(state.Items[i], i == m.cursor, m.width))
		b.WriteString("\n")
	}
	if len(state.Items) == 0 && state.Phase == paging.PhaseLoaded {
		b.WriteString(styles.DimStyle.Render("  No " + m.opts.Noun + " found."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.affordanceView())
	b.WriteString("\n")

	for _, n := range notices {
		b.WriteString(styles.NoticeStyle.Render(styles.Truncate(n.Message, m.width-2)))
		b.WriteString("\n")
	}
	b.WriteString(m.helpView())
	return b.String()
}

// window returns the range of rows to render
func (m ListModel[T, F]) window(count int) (int, int) {
	first := min(m.offset, count)
	if visible := m.visibleRows(); visible > 0 {
		return first, min(first+visible, count)
	}
	return first, count
}

func (m ListModel[T, F]) affordanceView() string {
	switch m.coll.Affordance() {
	case paging.AffordanceLoading:
		return m.spinner.View() + styles.DimStyle.Render(" Loading "+m.opts.Noun+"...")
	case paging.AffordanceLoadMore:
		return styles.DimStyle.Render("  More available, press ") + styles.HelpKeyStyle.Render("m")
	case paging.AffordanceReachedBottom:
		return styles.DimStyle.Render("  Reached bottom")
	case paging.AffordanceRetry:
		return styles.ErrorStyle.Render("  Loading failed, press ") + styles.HelpKeyStyle.Render("r") +
			styles.ErrorStyle.Render(" to retry")
	default:
		return ""
	}
}

func (m ListModel[T, F]) helpView() string {
	bindings := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Search, m.keys.LoadMore, m.keys.Retry, m.keys.Quit}
	if m.searching {
		bindings = []key.Binding{m.keys.Accept, m.keys.Cancel}
	}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, "  "))
}
