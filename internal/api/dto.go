package api

import (
	"fmt"
	"time"
)

// Wire types. Field names are camelCase as sent by the server.

type apiInfoDTO struct {
	Version         string `json:"version"`
	AccountCreation bool   `json:"accountCreation"`
}

type credentialsDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginTokenDTO struct {
	Type   string    `json:"type"`
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

func (t loginTokenDTO) validate() error {
	if err := requireField("type", t.Type); err != nil {
		return err
	}
	return requireField("token", t.Token)
}

type userDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (u userDTO) validate() error {
	return requireField("id", u.ID)
}

type accountStatsDTO struct {
	UserCount       int `json:"userCount"`
	RecipeCount     int `json:"recipeCount"`
	PantryItemCount int `json:"pantryItemCount"`
	LabelCount      int `json:"labelCount"`
}

// === Recipes ===

type yieldsDTO struct {
	Value    int    `json:"value"`
	UnitType string `json:"unitType"`
}

type infoDTO struct {
	Yields        *yieldsDTO `json:"yields"`
	CookTime      int        `json:"cookTime"`
	PrepTime      int        `json:"prepTime"`
	Freezable     bool       `json:"freezable"`
	MicrowaveOnly bool       `json:"microwaveOnly"`
}

type ingredientDTO struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	UnitType    string  `json:"unitType"`
	Description *string `json:"description,omitempty"`
}

type stepDTO struct {
	Title       *string `json:"title,omitempty"`
	Description string  `json:"description"`
}

type recipeDTO struct {
	ID               string          `json:"id"`
	OwnerID          string          `json:"ownerId"`
	Title            string          `json:"title"`
	Info             infoDTO         `json:"info"`
	ShortDescription *string         `json:"shortDescription"`
	LongDescription  *string         `json:"longDescription"`
	Tags             []string        `json:"tags"`
	Ingredients      []ingredientDTO `json:"ingredients"`
	Steps            []stepDTO       `json:"steps"`
	ImageID          *string         `json:"imageId"`
	Source           *string         `json:"source"`
}

func (r recipeDTO) validate() error {
	if err := requireField("id", r.ID); err != nil {
		return err
	}
	return requireField("title", r.Title)
}

type recipeListDTO []recipeDTO

func (l recipeListDTO) validate() error {
	for i, r := range l {
		if err := r.validate(); err != nil {
			return fmt.Errorf("recipe %d: %w", i, err)
		}
	}
	return nil
}

type createRecipeDTO struct {
	Title            string          `json:"title"`
	Info             infoDTO         `json:"info"`
	ShortDescription *string         `json:"shortDescription,omitempty"`
	LongDescription  *string         `json:"longDescription,omitempty"`
	Tags             []string        `json:"tags"`
	Ingredients      []ingredientDTO `json:"ingredients"`
	Steps            []stepDTO       `json:"steps"`
	Source           *string         `json:"source,omitempty"`
}

type updateRecipeDTO struct {
	Title            *string          `json:"title,omitempty"`
	Info             *infoDTO         `json:"info,omitempty"`
	ShortDescription *string          `json:"shortDescription,omitempty"`
	LongDescription  *string          `json:"longDescription,omitempty"`
	Tags             *[]string        `json:"tags,omitempty"`
	Ingredients      *[]ingredientDTO `json:"ingredients,omitempty"`
	Steps            *[]stepDTO       `json:"steps,omitempty"`
	Source           *string          `json:"source,omitempty"`
}

// === Pantry ===

type locationDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"ownerId"`
}

func (l locationDTO) validate() error {
	return requireField("id", l.ID)
}

type locationListDTO []locationDTO

func (l locationListDTO) validate() error {
	for i, loc := range l {
		if err := loc.validate(); err != nil {
			return fmt.Errorf("location %d: %w", i, err)
		}
	}
	return nil
}

type locationNameDTO struct {
	Name string `json:"name"`
}

type itemDTO struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LocationID string     `json:"locationId"`
	Quantity   int        `json:"quantity"`
	Notes      *string    `json:"notes"`
	Expiry     *time.Time `json:"expiry"`
	Labels     []string   `json:"labels"`
}

func (i itemDTO) validate() error {
	if err := requireField("id", i.ID); err != nil {
		return err
	}
	return requireField("locationId", i.LocationID)
}

type itemListDTO []itemDTO

func (l itemListDTO) validate() error {
	for i, item := range l {
		if err := item.validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

type createItemDTO struct {
	Name     string     `json:"name"`
	Quantity int        `json:"quantity"`
	Notes    *string    `json:"notes"`
	Expiry   *time.Time `json:"expiry"`
	Labels   []string   `json:"labels"`
}

type updateItemDTO struct {
	Name       string     `json:"name"`
	LocationID string     `json:"locationId"`
	Quantity   int        `json:"quantity"`
	Notes      *string    `json:"notes"`
	Expiry     *time.Time `json:"expiry"`
	Labels     []string   `json:"labels"`
}
