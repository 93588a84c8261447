package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmcdole/mcc/internal/domain"
)

// GetRecipes returns one page of recipes matching the filter
func (c *Client) GetRecipes(ctx context.Context, filter domain.RecipesFilter) ([]domain.Recipe, error) {
	var resp recipeListDTO
	if err := c.getJSON(ctx, "/recipes/", recipesQuery(filter), &resp); err != nil {
		return nil, err
	}
	return mapRecipes(resp), nil
}

// recipesQuery encodes the filter; labels are sent as repeated parameters
func recipesQuery(filter domain.RecipesFilter) url.Values {
	query := pageQuery(filter.Page(), filter.PerPage())
	if filter.Title != nil {
		query.Set("title", *filter.Title)
	}
	for _, label := range filter.Labels {
		query.Add("labels", label)
	}
	if filter.Freezable != nil {
		query.Set("freezable", strconv.FormatBool(*filter.Freezable))
	}
	if filter.MicrowaveOnly != nil {
		query.Set("microwaveOnly", strconv.FormatBool(*filter.MicrowaveOnly))
	}
	return query
}

func pageQuery(page, perPage int) url.Values {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = domain.DefaultPerPage
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("perPage", strconv.Itoa(perPage))
	return query
}

// GetRecipe returns a single recipe
func (c *Client) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	var resp recipeDTO
	if err := c.getJSON(ctx, recipePath(id), nil, &resp); err != nil {
		return nil, err
	}
	recipe := mapRecipe(resp)
	return &recipe, nil
}

// CreateRecipe stores a new recipe and returns it as saved
func (c *Client) CreateRecipe(ctx context.Context, recipe domain.CreateRecipe) (*domain.Recipe, error) {
	var resp recipeDTO
	if err := c.sendJSON(ctx, http.MethodPost, "/recipes/", toCreateRecipeDTO(recipe), &resp); err != nil {
		return nil, err
	}
	created := mapRecipe(resp)
	return &created, nil
}

// UpdateRecipe applies a partial update
func (c *Client) UpdateRecipe(ctx context.Context, id string, update domain.UpdateRecipe) error {
	return c.sendJSON(ctx, http.MethodPatch, recipePath(id), toUpdateRecipeDTO(update), nil)
}

// DeleteRecipe removes a recipe
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, recipePath(id), nil, nil)
}

// UploadRecipeImage sends the raw image bytes and returns the new image ID
func (c *Client) UploadRecipeImage(ctx context.Context, id string, contentType string, image io.Reader) (string, error) {
	path := recipePath(id) + "image/"
	data, err := c.doRequest(ctx, http.MethodPost, path, nil, image, contentType)
	if err != nil {
		return "", err
	}
	var imageID string
	if err := c.decode(path, data, &imageID); err != nil {
		return "", err
	}
	return imageID, nil
}

// DeleteRecipeImage removes the recipe's image
func (c *Client) DeleteRecipeImage(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, recipePath(id)+"image/", nil, nil)
}

func recipePath(id string) string {
	return fmt.Sprintf("/recipes/%s/", url.PathEscape(id))
}
