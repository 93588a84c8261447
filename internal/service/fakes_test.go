package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/mmcdole/mcc/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRemote is an in-memory domain.Remote. Set err to make every call fail.
type fakeRemote struct {
	mu sync.Mutex

	err       error
	labels    []string
	recipes   map[string]*domain.Recipe
	locations []domain.Location
	items     []domain.Item

	updates       []domain.UpdateRecipe
	createdItems  map[string]domain.CreateItem // location ID -> item
	renamed       map[string]string
	deleted       []string
	uploadedType  string
	uploadedBytes []byte
	itemFilters   []domain.PantryFilter
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		recipes:      make(map[string]*domain.Recipe),
		createdItems: make(map[string]domain.CreateItem),
		renamed:      make(map[string]string),
	}
}

var _ domain.Remote = (*fakeRemote)(nil)

func (f *fakeRemote) GetServiceInfo(context.Context) (*domain.ServiceInfo, error) {
	return &domain.ServiceInfo{Version: "test", AccountCreation: true}, f.err
}

func (f *fakeRemote) Login(context.Context, domain.Credentials) (*domain.LoginToken, error) {
	return nil, f.err
}

func (f *fakeRemote) CreateAccount(context.Context, domain.Credentials) (*domain.User, error) {
	return nil, f.err
}

func (f *fakeRemote) GetStats(context.Context) (*domain.AccountStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AccountStats{RecipeCount: len(f.recipes)}, nil
}

func (f *fakeRemote) GetLabels(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.labels, nil
}

func (f *fakeRemote) GetRecipes(_ context.Context, filter domain.RecipesFilter) ([]domain.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Recipe
	for _, r := range f.recipes {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRemote) GetRecipe(_ context.Context, id string) (*domain.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.recipes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *r
	c.Ingredients = append([]domain.Ingredient(nil), r.Ingredients...)
	return &c, nil
}

func (f *fakeRemote) CreateRecipe(_ context.Context, recipe domain.CreateRecipe) (*domain.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := &domain.Recipe{ID: "new", Title: recipe.Title, Info: recipe.Info}
	f.recipes[r.ID] = r
	return r, nil
}

func (f *fakeRemote) UpdateRecipe(_ context.Context, id string, update domain.UpdateRecipe) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeRemote) DeleteRecipe(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRemote) UploadRecipeImage(_ context.Context, id string, contentType string, image io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(image)
	if err != nil {
		return "", err
	}
	f.uploadedType = contentType
	f.uploadedBytes = data
	return "img-" + id, nil
}

func (f *fakeRemote) DeleteRecipeImage(context.Context, string) error {
	return f.err
}

func (f *fakeRemote) GetLocations(context.Context) ([]domain.Location, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.locations, nil
}

func (f *fakeRemote) CreateLocation(_ context.Context, name string) (*domain.Location, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Location{ID: "loc-" + name, Name: name}, nil
}

func (f *fakeRemote) UpdateLocation(_ context.Context, id, name string) error {
	if f.err != nil {
		return f.err
	}
	f.renamed[id] = name
	return nil
}

func (f *fakeRemote) DeleteLocation(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRemote) GetItems(_ context.Context, filter domain.PantryFilter) ([]domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.itemFilters = append(f.itemFilters, filter)
	return f.items, nil
}

func (f *fakeRemote) CreateItem(_ context.Context, locationID string, item domain.CreateItem) (*domain.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.createdItems[locationID] = item
	return &domain.Item{ID: "item", Name: item.Name, LocationID: locationID}, nil
}

func (f *fakeRemote) UpdateItem(context.Context, string, domain.UpdateItem) error {
	return f.err
}

func (f *fakeRemote) DeleteItem(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeSessions hands out a fixed remote, or ErrNotAuthenticated when nil
type fakeSessions struct {
	remote   domain.Remote
	replaced []*domain.Session
}

func (s *fakeSessions) Remote() (domain.Remote, error) {
	if s.remote == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return s.remote, nil
}

func (s *fakeSessions) Replace(session *domain.Session) error {
	s.replaced = append(s.replaced, session)
	return nil
}
