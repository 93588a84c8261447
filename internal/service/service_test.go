package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/mcc/internal/codec"
	"github.com/mmcdole/mcc/internal/domain"
	"github.com/mmcdole/mcc/internal/paging"
	"github.com/mmcdole/mcc/internal/search"
	"github.com/mmcdole/mcc/internal/store"
)

func memoryStore(t *testing.T) domain.Store {
	t.Helper()
	s, err := store.NewBoltStore("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestAccountLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login/" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["username"] != "cook" || creds["password"] != "pw" {
			t.Errorf("unexpected credentials %v", creds)
		}
		w.Write([]byte(`{"type":"Bearer","token":"tok","expiry":"2030-01-01T00:00:00Z"}`))
	}))
	defer server.Close()

	sessions := &fakeSessions{}
	account := NewAccount(sessions, testLogger())

	session, err := account.Login(context.Background(), server.URL+"/", domain.Credentials{Username: "cook", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.APIBaseURL != server.URL+"/api" || session.Token.AuthorizationValue() != "Bearer tok" {
		t.Errorf("unexpected session: %+v", session)
	}
	if len(sessions.replaced) != 1 || sessions.replaced[0] == nil {
		t.Errorf("login should replace the session, got %v", sessions.replaced)
	}

	if err := account.Logout(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions.replaced) != 2 || sessions.replaced[1] != nil {
		t.Errorf("logout should replace with nil, got %v", sessions.replaced)
	}
}

func TestAccountLoginRejectsEmptyCredentials(t *testing.T) {
	account := NewAccount(&fakeSessions{}, testLogger())
	_, err := account.Login(context.Background(), "http://unused", domain.Credentials{Username: " "})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestAccountSignupDisabled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/users/" {
			t.Error("account should not be created when signups are disabled")
		}
		w.Write([]byte(`{"version":"1.0","accountCreation":false}`))
	}))
	defer server.Close()

	account := NewAccount(&fakeSessions{}, testLogger())
	_, err := account.Signup(context.Background(), server.URL, domain.Credentials{Username: "a", Password: "b"})
	if !errors.Is(err, ErrSignupDisabled) {
		t.Errorf("expected ErrSignupDisabled, got %v", err)
	}
}

func TestAccountStatsRequiresSession(t *testing.T) {
	account := NewAccount(&fakeSessions{}, testLogger())
	if _, err := account.Stats(context.Background()); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestLabelsFallBackToCache(t *testing.T) {
	remote := newFakeRemote()
	remote.labels = []string{"dinner", "quick"}
	st := memoryStore(t)
	labels := NewLabels(&fakeSessions{remote: remote}, st, testLogger())

	got, err := labels.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected labels %v", got)
	}

	remote.err = &domain.InternalError{Kind: domain.InternalConnection, Err: errors.New("refused")}
	got, err = labels.Fetch(context.Background())
	if err != nil {
		t.Fatalf("expected cached labels, got error %v", err)
	}
	if len(got) != 2 || got[0] != "dinner" {
		t.Errorf("unexpected cached labels %v", got)
	}

	remote.err = &domain.ResponseError{StatusCode: http.StatusInternalServerError}
	if _, err := labels.Fetch(context.Background()); err == nil {
		t.Error("server errors should not fall back to the cache")
	}
}

func TestLabelsSuggest(t *testing.T) {
	remote := newFakeRemote()
	remote.labels = []string{"Dinner", "Dessert", "Vegan"}
	labels := NewLabels(&fakeSessions{remote: remote}, memoryStore(t), testLogger())

	matches, err := labels.Suggest(context.Background(), "veg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].Label != "Vegan" {
		t.Errorf("unexpected suggestions %+v", matches)
	}
}

func TestRecipesAddIngredient(t *testing.T) {
	remote := newFakeRemote()
	remote.recipes["r1"] = &domain.Recipe{ID: "r1", Title: "Soup", Ingredients: []domain.Ingredient{{Name: "Water", Amount: 1, UnitType: "l"}}}
	recipes := NewRecipes(&fakeSessions{remote: remote}, 2, testLogger())

	recipe, err := recipes.AddIngredient(context.Background(), "r1", IngredientInput{Name: "Salt", Amount: "1/3", UnitType: "tsp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipe.Ingredients) != 2 || recipe.Ingredients[1].Amount != 0.33 {
		t.Errorf("unexpected ingredients %+v", recipe.Ingredients)
	}
	if len(remote.updates) != 1 || len(remote.updates[0].Ingredients) != 2 {
		t.Fatalf("expected one update with both ingredients, got %+v", remote.updates)
	}
	if remote.updates[0].Title != nil || remote.updates[0].Info != nil {
		t.Error("only ingredients should be updated")
	}
}

func TestRecipesAddIngredientInvalidAmount(t *testing.T) {
	remote := newFakeRemote()
	recipes := NewRecipes(&fakeSessions{remote: remote}, 2, testLogger())

	_, err := recipes.AddIngredient(context.Background(), "r1", IngredientInput{Name: "Salt", Amount: "a pinch"})
	var parseErr *codec.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *codec.ParseError, got %v", err)
	}
	if len(remote.updates) != 0 {
		t.Error("nothing should be sent for an invalid amount")
	}
}

func TestRecipesSetInfo(t *testing.T) {
	remote := newFakeRemote()
	remote.recipes["r1"] = &domain.Recipe{ID: "r1", Title: "Soup", Info: domain.Info{CookTime: 60, Freezable: true}}
	recipes := NewRecipes(&fakeSessions{remote: remote}, 2, testLogger())

	prep := codec.DurationParts{Minutes: 70}
	microwave := true
	recipe, err := recipes.SetInfo(context.Background(), "r1", InfoChange{PrepTime: &prep, MicrowaveOnly: &microwave})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recipe.Info.PrepTime != 4200 || recipe.Info.CookTime != 60 || !recipe.Info.Freezable || !recipe.Info.MicrowaveOnly {
		t.Errorf("unexpected info %+v", recipe.Info)
	}
	if len(remote.updates) != 1 || remote.updates[0].Info == nil || remote.updates[0].Info.PrepTime != 4200 {
		t.Errorf("unexpected update %+v", remote.updates)
	}
}

func TestRecipesUploadImage(t *testing.T) {
	remote := newFakeRemote()
	recipes := NewRecipes(&fakeSessions{remote: remote}, 2, testLogger())
	dir := t.TempDir()

	png := filepath.Join(dir, "soup.png")
	data := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	if err := os.WriteFile(png, data, 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id, err := recipes.UploadImage(context.Background(), "r1", png)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "img-r1" || remote.uploadedType != "image/png" || len(remote.uploadedBytes) != len(data) {
		t.Errorf("unexpected upload: id=%s type=%s bytes=%d", id, remote.uploadedType, len(remote.uploadedBytes))
	}

	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("just text"), 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := recipes.UploadImage(context.Background(), "r1", txt); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("expected ErrNotAnImage, got %v", err)
	}
}

func TestRecipesCollection(t *testing.T) {
	remote := newFakeRemote()
	remote.recipes["r1"] = &domain.Recipe{ID: "r1", Title: "Soup"}
	recipes := NewRecipes(&fakeSessions{remote: remote}, 2, testLogger())

	c := recipes.NewCollection(domain.RecipesFilter{PerPageCount: 10})
	if c.Filter().Page() != 1 {
		t.Errorf("expected collection to start at page 1, got %d", c.Filter().Page())
	}
	if err := c.SetFilter(context.Background(), c.Filter().WithTitle("soup")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Affordance() != paging.AffordanceReachedBottom {
		t.Errorf("expected reached bottom, got %v", c.Affordance())
	}
	if len(c.State().Items) != 1 {
		t.Errorf("unexpected items %+v", c.State().Items)
	}
}

func pantryWithLocations(t *testing.T) (*Pantry, *fakeRemote) {
	remote := newFakeRemote()
	remote.locations = []domain.Location{{ID: "l1", Name: "Fridge"}, {ID: "l2", Name: "Cupboard"}}
	remote.labels = []string{"dairy"}
	sessions := &fakeSessions{remote: remote}
	labels := NewLabels(sessions, memoryStore(t), testLogger())
	return NewPantry(sessions, labels, testLogger()), remote
}

func TestPantryCreateItemResolvesLocation(t *testing.T) {
	pantry, remote := pantryWithLocations(t)

	item, err := pantry.CreateItem(context.Background(), "frid", domain.CreateItem{Name: "Milk", Quantity: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.LocationID != "l1" {
		t.Errorf("expected item in l1, got %s", item.LocationID)
	}
	if _, ok := remote.createdItems["l1"]; !ok {
		t.Error("item was not created in the resolved location")
	}

	_, err = pantry.CreateItem(context.Background(), "garage", domain.CreateItem{Name: "Paint"})
	if !errors.Is(err, search.ErrNoMatch) {
		t.Errorf("expected ErrNoMatch, got %v", err)
	}
}

func TestPantryRenameLocation(t *testing.T) {
	pantry, remote := pantryWithLocations(t)

	loc, err := pantry.RenameLocation(context.Background(), "cupboard", "Larder")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.ID != "l2" || loc.Name != "Larder" || remote.renamed["l2"] != "Larder" {
		t.Errorf("unexpected rename result %+v %v", loc, remote.renamed)
	}
}

func TestPantryOverview(t *testing.T) {
	pantry, remote := pantryWithLocations(t)
	remote.items = []domain.Item{{ID: "i1", Name: "Old milk", LocationID: "l1"}}

	overview, err := pantry.Overview(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overview.Locations) != 2 || len(overview.Labels) != 1 || len(overview.Expired) != 1 {
		t.Errorf("unexpected overview %+v", overview)
	}
	if len(remote.itemFilters) != 1 {
		t.Fatalf("expected one item query, got %d", len(remote.itemFilters))
	}
	f := remote.itemFilters[0]
	if f.Expired == nil || !*f.Expired || f.PerPage() != 5 {
		t.Errorf("unexpected expired filter %+v", f)
	}
}

func TestPantryOverviewFailure(t *testing.T) {
	pantry, remote := pantryWithLocations(t)
	remote.err = &domain.ResponseError{StatusCode: http.StatusInternalServerError}

	if _, err := pantry.Overview(context.Background(), 5); err == nil {
		t.Error("expected overview to fail")
	}
}
