package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/mmcdole/mcc/internal/codec"
	"github.com/mmcdole/mcc/internal/domain"
	"github.com/mmcdole/mcc/internal/paging"
)

// ErrNotAnImage indicates an upload whose content is not an image
var ErrNotAnImage = errors.New("file is not an image")

// RecipeCollection is a paged, searchable list of recipes
type RecipeCollection = paging.Collection[domain.Recipe, domain.RecipesFilter]

// Recipes handles recipe reads and edits
type Recipes struct {
	sessions       Sessions
	fractionPlaces int
	logger         *slog.Logger
}

// NewRecipes creates a new recipes service. fractionPlaces is how many
// decimals an amount typed as a fraction keeps.
func NewRecipes(sessions Sessions, fractionPlaces int, logger *slog.Logger) *Recipes {
	if logger == nil {
		logger = slog.Default()
	}
	if fractionPlaces <= 0 {
		fractionPlaces = codec.DefaultFractionPlaces
	}
	return &Recipes{sessions: sessions, fractionPlaces: fractionPlaces, logger: logger}
}

// Fetch loads one page of recipes. It is the fetch function of a RecipeCollection.
func (s *Recipes) Fetch(ctx context.Context, filter domain.RecipesFilter) ([]domain.Recipe, error) {
	remote, err := s.sessions.Remote()
	if err != nil {
		return nil, err
	}
	return remote.GetRecipes(ctx, filter)
}

// NewCollection creates an idle recipe list starting at the first page of
// filter. A page size below 1 uses the server default.
func (s *Recipes) NewCollection(filter domain.RecipesFilter) *RecipeCollection {
	if filter.PerPageCount < 1 {
		filter.PerPageCount = domain.DefaultPerPage
	}
	return paging.New(s.Fetch, filter.WithPage(1), s.logger)
}

// Get returns a single recipe
func (s *Recipes) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	remote, err := s.sessions.Remote()
	if err != nil {
		return nil, err
	}
	recipe, err := remote.GetRecipe(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %s: %w", id, err)
	}
	return recipe, nil
}

// Create stores a new recipe
func (s *Recipes) Create(ctx context.Context, recipe domain.CreateRecipe) (*domain.Recipe, error) {
	if strings.TrimSpace(recipe.Title) == "" {
		return nil, errors.New("recipe title is required")
	}
	remote, err := s.sessions.Remote()
	if err != nil {
		return nil, err
	}
	created, err := remote.CreateRecipe(ctx, recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	s.logger.Info("recipe created", "id", created.ID, "title", created.Title)
	return created, nil
}

// Update applies a partial update
func (s *Recipes) Update(ctx context.Context, id string, update domain.UpdateRecipe) error {
	remote, err := s.sessions.Remote()
	if err != nil {
		return err
	}
	if err := remote.UpdateRecipe(ctx, id, update); err != nil {
		return fmt.Errorf("failed to update recipe %s: %w", id, err)
	}
	return nil
}

// Delete removes a recipe
func (s *Recipes) Delete(ctx context.Context, id string) error {
	remote, err := s.sessions.Remote()
	if err != nil {
		return err
	}
	if err := remote.DeleteRecipe(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	s.logger.Info("recipe deleted", "id", id)
	return nil
}

// UploadImage uploads the image file at path and returns the new image ID
func (s *Recipes) UploadImage(ctx context.Context, id, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	head, _ := r.Peek(512)
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s is %s", ErrNotAnImage, path, contentType)
	}

	remote, err := s.sessions.Remote()
	if err != nil {
		return "", err
	}
	imageID, err := remote.UploadRecipeImage(ctx, id, contentType, r)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	s.logger.Info("recipe image uploaded", "id", id, "image", imageID)
	return imageID, nil
}

// DeleteImage removes the recipe's image
func (s *Recipes) DeleteImage(ctx context.Context, id string) error {
	remote, err := s.sessions.Remote()
	if err != nil {
		return err
	}
	if err := remote.DeleteRecipeImage(ctx, id); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// IngredientInput is an ingredient as typed by the user
type IngredientInput struct {
	Name        string
	Amount      string // "1 1/2", "0.5", "3"...
	UnitType    string
	Description string
}

// AddIngredient appends an ingredient to a recipe. A malformed amount is
// rejected before anything is sent.
func (s *Recipes) AddIngredient(ctx context.Context, id string, input IngredientInput) (*domain.Recipe, error) {
	amount, err := codec.ParseAmount(input.Amount, s.fractionPlaces)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.New("ingredient name is required")
	}

	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ingredients := append(recipe.Ingredients, domain.Ingredient{
		Name:        input.Name,
		Amount:      amount,
		UnitType:    input.UnitType,
		Description: input.Description,
	})
	if err := s.Update(ctx, id, domain.UpdateRecipe{Ingredients: ingredients}); err != nil {
		return nil, err
	}
	recipe.Ingredients = ingredients
	return recipe, nil
}

// InfoChange lists the info fields to change; nil fields are kept
type InfoChange struct {
	PrepTime      *codec.DurationParts
	CookTime      *codec.DurationParts
	Yields        *domain.Yields
	Freezable     *bool
	MicrowaveOnly *bool
}

// Apply returns info with the change applied
func (c InfoChange) Apply(info domain.Info) domain.Info {
	if c.PrepTime != nil {
		info.PrepTime = c.PrepTime.TotalSeconds()
	}
	if c.CookTime != nil {
		info.CookTime = c.CookTime.TotalSeconds()
	}
	if c.Yields != nil {
		yields := *c.Yields
		info.Yields = &yields
	}
	if c.Freezable != nil {
		info.Freezable = *c.Freezable
	}
	if c.MicrowaveOnly != nil {
		info.MicrowaveOnly = *c.MicrowaveOnly
	}
	return info
}

// SetInfo changes a recipe's timing, yields and handling flags
func (s *Recipes) SetInfo(ctx context.Context, id string, change InfoChange) (*domain.Recipe, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	info := change.Apply(recipe.Info)
	if err := s.Update(ctx, id, domain.UpdateRecipe{Info: &info}); err != nil {
		return nil, err
	}
	recipe.Info = info
	return recipe, nil
}
