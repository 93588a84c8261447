package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/mcc/internal/domain"
)

type recordingObserver struct {
	mu     sync.Mutex
	errors []error
}

func (o *recordingObserver) ObserveFailure(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errors = append(o.errors, err)
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.errors)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testToken() *domain.LoginToken {
	return &domain.LoginToken{Type: "Bearer", Value: "secret"}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingObserver) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	observer := &recordingObserver{}
	return NewClient(server.URL+"/api/", testToken(), observer, testLogger()), observer
}

func internalKind(t *testing.T, err error) domain.InternalKind {
	t.Helper()
	var internalErr *domain.InternalError
	if !errors.As(err, &internalErr) {
		t.Fatalf("expected *domain.InternalError, got %T: %v", err, err)
	}
	return internalErr.Kind
}

func TestClient_Headers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats/me/" {
			t.Errorf("expected path /api/stats/me/, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected Authorization %q, got %q", "Bearer secret", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(accountStatsDTO{UserCount: 1, RecipeCount: 12, PantryItemCount: 3, LabelCount: 4})
	})

	stats, err := client.GetStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.RecipeCount != 12 || stats.LabelCount != 4 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestClient_NoAuthorizationWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Error("unauthenticated client sent an Authorization header")
		}
		w.Write([]byte(`{"version":"1.2.0","accountCreation":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api", nil, nil, testLogger())
	info, err := client.GetServiceInfo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Version != "1.2.0" || !info.AccountCreation {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestClassify_Connection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	observer := &recordingObserver{}
	client := NewClient(url+"/api", testToken(), observer, testLogger())

	_, err := client.GetLabels(context.Background())
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
	if kind := internalKind(t, err); kind != domain.InternalConnection {
		t.Errorf("expected connection failure, got %s", kind)
	}
	if !errors.Is(err, domain.ErrServerOffline) {
		t.Error("connection failure should match ErrServerOffline")
	}
	if observer.count() != 1 {
		t.Errorf("expected observer to see 1 failure, saw %d", observer.count())
	}
}

func TestClassify_Deserialization(t *testing.T) {
	tests := []struct {
		name string
		body string
		call func(*Client) error
	}{
		{
			name: "wrong type",
			body: `{"not":"a list"}`,
			call: func(c *Client) error {
				_, err := c.GetRecipes(context.Background(), domain.DefaultRecipesFilter())
				return err
			},
		},
		{
			name: "not json",
			body: `<html>proxy page</html>`,
			call: func(c *Client) error {
				_, err := c.GetLocations(context.Background())
				return err
			},
		},
		{
			name: "missing required field",
			body: `{"title":"Soup"}`,
			call: func(c *Client) error {
				_, err := c.GetRecipe(context.Background(), "r1")
				return err
			},
		},
		{
			name: "token without value",
			body: `{"type":"Bearer"}`,
			call: func(c *Client) error {
				_, err := c.Login(context.Background(), domain.Credentials{Username: "a", Password: "b"})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			err := tt.call(client)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if kind := internalKind(t, err); kind != domain.InternalDeserialization {
				t.Errorf("expected deserialization failure, got %s", kind)
			}
			if observer.count() != 1 {
				t.Errorf("expected observer to see 1 failure, saw %d", observer.count())
			}
		})
	}
}

func TestClassify_ResponseStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		call   func(*Client) error
	}{
		{"get not found", http.StatusNotFound, func(c *Client) error {
			_, err := c.GetRecipe(context.Background(), "missing")
			return err
		}},
		{"patch server error", http.StatusInternalServerError, func(c *Client) error {
			title := "New"
			return c.UpdateRecipe(context.Background(), "r1", domain.UpdateRecipe{Title: &title})
		}},
		{"delete forbidden", http.StatusForbidden, func(c *Client) error {
			return c.DeleteItem(context.Background(), "i1")
		}},
		{"post conflict", http.StatusConflict, func(c *Client) error {
			_, err := c.CreateAccount(context.Background(), domain.Credentials{Username: "a", Password: "b"})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":"nope"}`))
			})
			err := tt.call(client)
			var respErr *domain.ResponseError
			if !errors.As(err, &respErr) {
				t.Fatalf("expected *domain.ResponseError, got %T: %v", err, err)
			}
			if respErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, respErr.StatusCode)
			}
			if observer.count() != 1 {
				t.Errorf("expected observer to see 1 failure, saw %d", observer.count())
			}
		})
	}
}

func TestClassify_NotFoundMatchesSentinel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := client.GetRecipe(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClassify_UnauthorizedReachesObserver(t *testing.T) {
	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := client.DeleteRecipe(context.Background(), "r1")
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	if observer.count() != 1 || !domain.IsUnauthorized(observer.errors[0]) {
		t.Errorf("observer did not receive the 401: %v", observer.errors)
	}
}

func TestClassify_Generic(t *testing.T) {
	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not have been sent")
	})

	// channels cannot be encoded as JSON
	err := client.sendJSON(context.Background(), http.MethodPost, "/recipes/", map[string]any{"bad": make(chan int)}, nil)
	if kind := internalKind(t, err); kind != domain.InternalGeneric {
		t.Errorf("expected generic failure, got %s", kind)
	}
	if observer.count() != 1 {
		t.Errorf("expected observer to see 1 failure, saw %d", observer.count())
	}
}

func TestClassify_SuccessNotObserved(t *testing.T) {
	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if err := client.DeleteLocation(context.Background(), "l1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if observer.count() != 0 {
		t.Errorf("success should not be observed, saw %d", observer.count())
	}
}

func TestGetRecipes_Query(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("perPage") != "10" {
			t.Errorf("unexpected paging params: %s", r.URL.RawQuery)
		}
		if q.Get("title") != "soup" {
			t.Errorf("expected title=soup, got %q", q.Get("title"))
		}
		labels := q["labels"]
		if len(labels) != 2 || labels[0] != "dinner" || labels[1] != "quick" {
			t.Errorf("expected repeated labels [dinner quick], got %v", labels)
		}
		if q.Get("freezable") != "true" {
			t.Errorf("expected freezable=true, got %q", q.Get("freezable"))
		}
		if _, ok := q["microwaveOnly"]; ok {
			t.Error("unset filter should not be sent")
		}
		w.Write([]byte(`[{"id":"r1","ownerId":"u1","title":"Soup","info":{"cookTime":600,"prepTime":300,"yields":{"value":4,"unitType":"servings"}},"ingredients":[{"name":"Salt","amount":0.5,"unitType":"tsp"}],"steps":[{"description":"Boil"}],"imageId":"img1"}]`))
	})

	freezable := true
	filter := domain.RecipesFilter{PageNum: 2, PerPageCount: 10, Labels: []string{"dinner", "quick"}, Freezable: &freezable}.WithTitle("soup")

	recipes, err := client.GetRecipes(context.Background(), filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipes) != 1 {
		t.Fatalf("expected 1 recipe, got %d", len(recipes))
	}
	r := recipes[0]
	if r.Title != "Soup" || r.ImageID != "img1" || !r.HasImage() {
		t.Errorf("unexpected recipe: %+v", r)
	}
	if r.Info.TotalTime() != 900 || r.Info.Yields == nil || r.Info.Yields.Value != 4 {
		t.Errorf("unexpected info: %+v", r.Info)
	}
	if len(r.Ingredients) != 1 || r.Ingredients[0].Amount != 0.5 {
		t.Errorf("unexpected ingredients: %+v", r.Ingredients)
	}
	if r.Tags == nil {
		t.Error("absent tags should map to an empty slice")
	}
}

func TestGetItems_Query(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pantry/items/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("locationId") != "fridge" || q.Get("expired") != "false" || q.Get("page") != "1" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[{"id":"i1","name":"Milk","locationId":"fridge","quantity":2,"expiry":"2026-01-02T00:00:00Z","labels":["dairy"]}]`))
	})

	loc := "fridge"
	expired := false
	filter := domain.DefaultPantryFilter()
	filter.LocationID = &loc
	filter.Expired = &expired

	items, err := client.GetItems(context.Background(), filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Expiry == nil {
		t.Fatalf("unexpected items: %+v", items)
	}
	want := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	if !items[0].Expiry.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, items[0].Expiry)
	}
}

func TestUpdateRecipe_PartialBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
			return
		}
		if _, ok := body["title"]; !ok {
			t.Error("expected title in body")
		}
		if string(body["tags"]) != "[]" {
			t.Errorf("expected empty tags to be sent, got %s", body["tags"])
		}
		for _, absent := range []string{"info", "ingredients", "steps", "source"} {
			if _, ok := body[absent]; ok {
				t.Errorf("unset field %q should be absent", absent)
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	title := "Stew"
	err := client.UpdateRecipe(context.Background(), "r1", domain.UpdateRecipe{Title: &title, Tags: []string{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUploadRecipeImage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/recipes/r1/image/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("expected image/png, got %q", ct)
		}
		data, _ := io.ReadAll(r.Body)
		if string(data) != "PNGDATA" {
			t.Errorf("unexpected body %q", data)
		}
		w.Write([]byte(`"img-42"`))
	})

	id, err := client.UploadRecipeImage(context.Background(), "r1", "image/png", strings.NewReader("PNGDATA"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "img-42" {
		t.Errorf("expected img-42, got %q", id)
	}
}

func TestCreateItem(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pantry/locations/l1/items/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body createItemDTO
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
			return
		}
		if body.Name != "Eggs" || body.Quantity != 6 || body.Labels == nil {
			t.Errorf("unexpected body: %+v", body)
		}
		json.NewEncoder(w).Encode(itemDTO{ID: "i9", Name: body.Name, LocationID: "l1", Quantity: body.Quantity})
	})

	item, err := client.CreateItem(context.Background(), "l1", domain.CreateItem{Name: "Eggs", Quantity: 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != "i9" || item.LocationID != "l1" {
		t.Errorf("unexpected item: %+v", item)
	}
}
