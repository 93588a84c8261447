package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/mcc/internal/domain"
	"github.com/mmcdole/mcc/internal/paging"
	"github.com/mmcdole/mcc/internal/search"
)

// ItemCollection is a paged, searchable list of pantry items
type ItemCollection = paging.Collection[domain.Item, domain.PantryFilter]

// Pantry handles pantry locations and items
type Pantry struct {
	sessions Sessions
	labels   *Labels
	logger   *slog.Logger
}

// NewPantry creates a new pantry service
func NewPantry(sessions Sessions, labels *Labels, logger *slog.Logger) *Pantry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pantry{sessions: sessions, labels: labels, logger: logger}
}

// FetchItems loads one page of items. It is the fetch function of an ItemCollection.
func (s *Pantry) FetchItems(ctx context.Context, filter domain.PantryFilter) ([]domain.Item, error) {
	remote, err := s.sessions.Remote()
	if err != nil {
		return nil, err
	}
	return remote.GetItems(ctx, filter)
}

// NewCollection creates an idle item list starting at the first page of filter
func (s *Pantry) NewCollection(filter domain.PantryFilter) *ItemCollection {
	if filter.PerPageCount < 1 {
		filter.PerPageCount = domain.DefaultPerPage
	}
	return paging.New(s.FetchItems, filter.WithPage(1), s.logger)
}

// Locations returns every pantry location
func (s *Pantry) Locations(ctx context.Context) ([]domain.Location, error) {
	remote, err := s.sessions.Remote()
	if err != nil {
		return nil, err
	}
	locations, err := remote.GetLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get locations: %w", err)
	}
	return locations, nil
}

// ResolveLocation finds the location a typed name or ID refers to
func (s *Pantry) ResolveLocation(ctx context.Context, query string) (domain.Location, error) {
	locations, err := s.Locations(ctx)
	if err != nil {
		return domain.Location{}, err
	}
	loc, err := search.MatchLocation(query, locations)
	if err != nil {
		return domain.Location{}, err
	}
	s.logger.Debug("resolved location", "query", query, "id", loc.ID, "name", loc.Name)
	return loc, nil
}

// CreateLocation adds a location
func (s *Pantry) CreateLocation(ctx context.Context, name string) (*domain.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("location name is required")
	}
	remote, err := s.sessions.Remote()
	if err != nil {
		return nil, err
	}
	loc, err := remote.CreateLocation(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return loc, nil
}

// RenameLocation renames the location query refers to
func (s *Pantry) RenameLocation(ctx context.Context, query, name string) (domain.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Location{}, errors.New("location name is required")
	}
	loc, err := s.ResolveLocation(ctx, query)
	if err != nil {
		return domain.Location{}, err
	}
	remote, err := s.sessions.Remote()
	if err != nil {
		return domain.Location{}, err
	}
	if err := remote.UpdateLocation(ctx, loc.ID, name); err != nil {
		return domain.Location{}, fmt.Errorf("failed to rename location: %w", err)
	}
	loc.Name = name
	return loc, nil
}

// DeleteLocation removes the location query refers to
func (s *Pantry) DeleteLocation(ctx context.Context, query string) (domain.Location, error) {
	loc, err := s.ResolveLocation(ctx, query)
	if err != nil {
		return domain.Location{}, err
	}
	remote, err := s.sessions.Remote()
	if err != nil {
		return domain.Location{}, err
	}
	if err := remote.DeleteLocation(ctx, loc.ID); err != nil {
		return domain.Location{}, fmt.Errorf("failed to delete location: %w", err)
	}
	return loc, nil
}

// CreateItem stocks an item in the location query refers to
func (s *Pantry) CreateItem(ctx context.Context, locationQuery string, item domain.CreateItem) (*domain.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, errors.New("item name is required")
	}
	loc, err := s.ResolveLocation(ctx, locationQuery)
	if err != nil {
		return nil, err
	}
	remote, err := s.sessions.Remote()
	if err != nil {
		return nil, err
	}
	created, err := remote.CreateItem(ctx, loc.ID, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return created, nil
}

// UpdateItem replaces an item's editable fields
func (s *Pantry) UpdateItem(ctx context.Context, id string, item domain.UpdateItem) error {
	remote, err := s.sessions.Remote()
	if err != nil {
		return err
	}
	if err := remote.UpdateItem(ctx, id, item); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

// DeleteItem removes an item
func (s *Pantry) DeleteItem(ctx context.Context, id string) error {
	remote, err := s.sessions.Remote()
	if err != nil {
		return err
	}
	if err := remote.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// Overview is what the pantry view needs before listing items
type Overview struct {
	Locations []domain.Location
	Labels    []string
	Expired   []domain.Item // First page of expired items
}

// Overview loads locations, labels and expired items concurrently. The first
// failure cancels the others.
func (s *Pantry) Overview(ctx context.Context, perPage int) (*Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		locations, err := s.Locations(gctx)
		out.Locations = locations
		return err
	})
	g.Go(func() error {
		labels, err := s.labels.Fetch(gctx)
		out.Labels = labels
		return err
	})
	g.Go(func() error {
		expired := true
		filter := domain.DefaultPantryFilter()
		if perPage > 0 {
			filter.PerPageCount = perPage
		}
		filter.Expired = &expired
		items, err := s.FetchItems(gctx, filter)
		out.Expired = items
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
