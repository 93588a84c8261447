package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/mcc/internal/domain"
	"github.com/mmcdole/mcc/internal/notify"
	"github.com/mmcdole/mcc/internal/paging"
	"github.com/mmcdole/mcc/internal/tui/styles"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRecipes serves fixed pages and records the filters it was asked for
type fakeRecipes struct {
	mu      sync.Mutex
	pages   map[int][]domain.Recipe
	err     error
	filters []domain.RecipesFilter
}

func (f *fakeRecipes) fetch(_ context.Context, filter domain.RecipesFilter) ([]domain.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[filter.Page()], nil
}

func (f *fakeRecipes) last() domain.RecipesFilter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filters[len(f.filters)-1]
}

func recipes(titles ...string) []domain.Recipe {
	out := make([]domain.Recipe, len(titles))
	for i, title := range titles {
		out[i] = domain.Recipe{ID: fmt.Sprint(i), Title: title}
	}
	return out
}

type listHarness struct {
	model   ListModel[domain.Recipe, domain.RecipesFilter]
	coll    *paging.Collection[domain.Recipe, domain.RecipesFilter]
	notices *notify.Center
}

func newHarness(t *testing.T, remote *fakeRecipes, watcher *SessionWatcher) *listHarness {
	t.Helper()
	initial := domain.RecipesFilter{PageNum: 1, PerPageCount: 2}
	coll := paging.New(remote.fetch, initial, testLogger())
	notices := notify.NewCenter(time.Minute, testLogger())
	m := NewListModel(coll, Options[domain.Recipe, domain.RecipesFilter]{
		Title:      "Recipes",
		Noun:       "recipes",
		RenderRow:  RecipeRow,
		WithSearch: domain.RecipesFilter.WithTitle,
		SearchText: domain.RecipesFilter.SearchText,
		Notices:    notices,
		Session:    watcher,
		Logger:     testLogger(),
	})
	return &listHarness{model: m, coll: coll, notices: notices}
}

// send applies msg and returns the command it produced
func (h *listHarness) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := h.model.Update(msg)
	m, ok := next.(ListModel[domain.Recipe, domain.RecipesFilter])
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	h.model = m
	return cmd
}

// perform runs a request command and feeds its result back
func (h *listHarness) perform(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if _, ok := msg.(requestDoneMsg); !ok {
		t.Fatalf("expected requestDoneMsg, got %T", msg)
	}
	h.send(t, msg)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestListModel_ShortFirstPageReachesBottom(t *testing.T) {
	remote := &fakeRecipes{pages: map[int][]domain.Recipe{1: recipes("Pancakes")}}
	h := newHarness(t, remote, nil)

	h.perform(t, h.model.refresh())

	view := h.model.View()
	if !strings.Contains(view, "Pancakes") {
		t.Errorf("expected item in view:\n%s", view)
	}
	if !strings.Contains(view, "Reached bottom") {
		t.Errorf("expected bottom hint in view:\n%s", view)
	}
	if cmd := h.send(t, keyRunes("m")); cmd != nil {
		t.Error("load more should do nothing at the bottom")
	}
}

func TestListModel_LoadMore(t *testing.T) {
	remote := &fakeRecipes{pages: map[int][]domain.Recipe{
		1: recipes("Pancakes", "Waffles"),
		2: recipes("Crepes"),
	}}
	h := newHarness(t, remote, nil)
	h.perform(t, h.model.refresh())

	if !strings.Contains(h.model.View(), "More available") {
		t.Fatalf("expected load more hint:\n%s", h.model.View())
	}

	h.perform(t, h.send(t, keyRunes("m")))

	if got := remote.last().Page(); got != 2 {
		t.Errorf("expected page 2 to be requested, got %d", got)
	}
	view := h.model.View()
	for _, title := range []string{"Pancakes", "Waffles", "Crepes", "Reached bottom"} {
		if !strings.Contains(view, title) {
			t.Errorf("expected %q in view:\n%s", title, view)
		}
	}
}

func TestListModel_FailureShowsNoticeAndRetry(t *testing.T) {
	remote := &fakeRecipes{err: &domain.InternalError{Kind: domain.InternalConnection, Err: errors.New("refused")}}
	h := newHarness(t, remote, nil)
	h.perform(t, h.model.refresh())

	view := h.model.View()
	if !strings.Contains(view, "could not connect to server, when loading recipes") {
		t.Errorf("expected connection notice:\n%s", view)
	}
	if !strings.Contains(view, "to retry") {
		t.Errorf("expected retry hint:\n%s", view)
	}

	remote.mu.Lock()
	remote.err = nil
	remote.pages = map[int][]domain.Recipe{1: recipes("Soup")}
	remote.mu.Unlock()

	h.perform(t, h.send(t, keyRunes("r")))
	if !strings.Contains(h.model.View(), "Soup") {
		t.Errorf("expected retried page in view:\n%s", h.model.View())
	}
}

func TestListModel_Search(t *testing.T) {
	remote := &fakeRecipes{pages: map[int][]domain.Recipe{1: recipes("Tomato soup")}}
	h := newHarness(t, remote, nil)
	h.perform(t, h.model.refresh())

	h.send(t, keyRunes("/"))
	if !h.model.searching {
		t.Fatal("expected search input to open")
	}
	h.send(t, keyRunes("soup"))
	h.perform(t, h.send(t, tea.KeyMsg{Type: tea.KeyEnter}))

	filter := remote.last()
	if filter.SearchText() != "soup" || filter.Page() != 1 {
		t.Errorf("unexpected filter: %+v", filter)
	}
	if !strings.Contains(h.model.View(), `matching "soup"`) {
		t.Errorf("expected search text in header:\n%s", h.model.View())
	}
}

func TestListModel_SkipsSupersededNotice(t *testing.T) {
	h := newHarness(t, &fakeRecipes{}, nil)
	h.send(t, requestDoneMsg{Action: "loading recipes", Err: paging.ErrSuperseded})
	if n := len(h.notices.Active()); n != 0 {
		t.Errorf("expected no notices, got %d", n)
	}
}

func TestListModel_QuitsWhenSessionEnds(t *testing.T) {
	watcher := NewSessionWatcher()
	h := newHarness(t, &fakeRecipes{}, watcher)

	watcher.OnSessionChange(&domain.Session{})
	watcher.OnSessionChange(nil)
	watcher.OnSessionChange(nil)

	msg := h.model.waitForSessionEnd()()
	cmd := h.send(t, msg)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if h.model.QuitMessage() != SessionExpiredMessage {
		t.Errorf("unexpected quit message %q", h.model.QuitMessage())
	}
	if err := h.coll.SetFilter(context.Background(), h.coll.Filter()); !errors.Is(err, paging.ErrClosed) {
		t.Errorf("expected collection to be closed, got %v", err)
	}
}

func TestItemRows(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	soon := now.Add(72 * time.Hour)
	past := now.Add(-50 * time.Hour)
	rows := ItemRows{
		Locations:   map[string]string{"fridge": "Fridge"},
		DateFormat:  domain.DateFormatYearMonthDay,
		WarningDays: 3,
		Now:         func() time.Time { return now },
	}

	got := rows.Render(domain.Item{Name: "Milk", Quantity: 2, LocationID: "fridge", Expiry: &soon}, false, 100)
	for _, want := range []string{"Milk x2", "@Fridge", "3 days from now"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}

	got = rows.Render(domain.Item{Name: "Yoghurt", Expiry: &past}, false, 100)
	if !strings.Contains(got, "ago") {
		t.Errorf("expected past expiry in %q", got)
	}

	got = rows.Render(domain.Item{Name: "Rice", LocationID: "unknown"}, false, 100)
	if strings.Contains(got, "@") {
		t.Errorf("unknown location should not be shown: %q", got)
	}
}

func TestItemExpiryStyle(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	rows := ItemRows{WarningDays: 3}
	at := func(d time.Duration) domain.Item {
		expiry := now.Add(d)
		return domain.Item{Name: "Milk", Expiry: &expiry}
	}

	tests := []struct {
		name string
		item domain.Item
		want *lipgloss.Style
	}{
		{"expired", at(-time.Hour), &styles.ErrorStyle},
		{"within warning window", at(48 * time.Hour), &styles.WarningStyle},
		{"well ahead", at(10 * 24 * time.Hour), &styles.DimStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rows.expiryStyle(tt.item, now); got != tt.want {
				t.Errorf("unexpected style for %s", tt.name)
			}
		})
	}
}

func TestRecipeRow(t *testing.T) {
	r := domain.Recipe{
		Title: "Stew",
		Tags:  []string{"winter"},
		Info:  domain.Info{PrepTime: 600, CookTime: 3600},
	}
	got := RecipeRow(r, true, 80)
	for _, want := range []string{"Stew", "1h 10m", "#winter"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}
