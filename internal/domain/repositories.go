package domain

import (
	"context"
	"io"
)

// AccountRepository: unauthenticated and account-level network operations
type AccountRepository interface {
	GetServiceInfo(ctx context.Context) (*ServiceInfo, error)
	Login(ctx context.Context, creds Credentials) (*LoginToken, error)
	CreateAccount(ctx context.Context, creds Credentials) (*User, error)
	GetStats(ctx context.Context) (*AccountStats, error)
}

// LabelRepository lists the labels in use by the account
type LabelRepository interface {
	GetLabels(ctx context.Context) ([]string, error)
}

// RecipeRepository: recipe CRUD (implemented by api.Client)
type RecipeRepository interface {
	GetRecipes(ctx context.Context, filter RecipesFilter) ([]Recipe, error)
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	CreateRecipe(ctx context.Context, recipe CreateRecipe) (*Recipe, error)
	UpdateRecipe(ctx context.Context, id string, update UpdateRecipe) error
	DeleteRecipe(ctx context.Context, id string) error

	// UploadRecipeImage returns the new image ID
	UploadRecipeImage(ctx context.Context, id string, contentType string, image io.Reader) (string, error)
	DeleteRecipeImage(ctx context.Context, id string) error
}

// PantryRepository: pantry location and item CRUD (implemented by api.Client)
type PantryRepository interface {
	GetLocations(ctx context.Context) ([]Location, error)
	CreateLocation(ctx context.Context, name string) (*Location, error)
	UpdateLocation(ctx context.Context, id, name string) error
	DeleteLocation(ctx context.Context, id string) error

	GetItems(ctx context.Context, filter PantryFilter) ([]Item, error)
	CreateItem(ctx context.Context, locationID string, item CreateItem) (*Item, error)
	UpdateItem(ctx context.Context, id string, item UpdateItem) error
	DeleteItem(ctx context.Context, id string) error
}

// Remote combines every repository a logged in client provides
type Remote interface {
	AccountRepository
	LabelRepository
	RecipeRepository
	PantryRepository
}
