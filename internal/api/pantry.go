package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmcdole/mcc/internal/domain"
)

// GetLocations returns every pantry location
func (c *Client) GetLocations(ctx context.Context) ([]domain.Location, error) {
	var resp locationListDTO
	if err := c.getJSON(ctx, "/pantry/locations/", nil, &resp); err != nil {
		return nil, err
	}
	return mapLocations(resp), nil
}

// CreateLocation adds a pantry location
func (c *Client) CreateLocation(ctx context.Context, name string) (*domain.Location, error) {
	var resp locationDTO
	if err := c.sendJSON(ctx, http.MethodPost, "/pantry/locations/", locationNameDTO{Name: name}, &resp); err != nil {
		return nil, err
	}
	location := mapLocation(resp)
	return &location, nil
}

// UpdateLocation renames a pantry location
func (c *Client) UpdateLocation(ctx context.Context, id, name string) error {
	return c.sendJSON(ctx, http.MethodPatch, locationPath(id), locationNameDTO{Name: name}, nil)
}

// DeleteLocation removes a pantry location
func (c *Client) DeleteLocation(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, locationPath(id), nil, nil)
}

// GetItems returns one page of pantry items matching the filter
func (c *Client) GetItems(ctx context.Context, filter domain.PantryFilter) ([]domain.Item, error) {
	var resp itemListDTO
	if err := c.getJSON(ctx, "/pantry/items/", itemsQuery(filter), &resp); err != nil {
		return nil, err
	}
	return mapItems(resp), nil
}

func itemsQuery(filter domain.PantryFilter) url.Values {
	query := pageQuery(filter.Page(), filter.PerPage())
	if filter.Name != nil {
		query.Set("name", *filter.Name)
	}
	if filter.LocationID != nil {
		query.Set("locationId", *filter.LocationID)
	}
	for _, label := range filter.Labels {
		query.Add("labels", label)
	}
	if filter.Expired != nil {
		query.Set("expired", strconv.FormatBool(*filter.Expired))
	}
	return query
}

// CreateItem stocks a new item in a location
func (c *Client) CreateItem(ctx context.Context, locationID string, item domain.CreateItem) (*domain.Item, error) {
	var resp itemDTO
	path := locationPath(locationID) + "items/"
	if err := c.sendJSON(ctx, http.MethodPost, path, toCreateItemDTO(item), &resp); err != nil {
		return nil, err
	}
	created := mapItem(resp)
	return &created, nil
}

// UpdateItem replaces an item's editable fields
func (c *Client) UpdateItem(ctx context.Context, id string, item domain.UpdateItem) error {
	return c.sendJSON(ctx, http.MethodPatch, itemPath(id), toUpdateItemDTO(item), nil)
}

// DeleteItem removes an item
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

func locationPath(id string) string {
	return fmt.Sprintf("/pantry/locations/%s/", url.PathEscape(id))
}

func itemPath(id string) string {
	return fmt.Sprintf("/pantry/items/%s/", url.PathEscape(id))
}
