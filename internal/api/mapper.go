package api

import (
	"time"

	"github.com/mmcdole/mcc/internal/domain"
)

// mapRecipe converts a wire recipe to a domain recipe
func mapRecipe(r recipeDTO) domain.Recipe {
	recipe := domain.Recipe{
		ID:               r.ID,
		OwnerID:          r.OwnerID,
		Title:            r.Title,
		Info:             mapInfo(r.Info),
		ShortDescription: deref(r.ShortDescription),
		LongDescription:  deref(r.LongDescription),
		Tags:             nonNil(r.Tags),
		Ingredients:      make([]domain.Ingredient, 0, len(r.Ingredients)),
		Steps:            make([]domain.Step, 0, len(r.Steps)),
		ImageID:          deref(r.ImageID),
		Source:           deref(r.Source),
	}
	for _, ing := range r.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, domain.Ingredient{
			Name:        ing.Name,
			Amount:      ing.Amount,
			UnitType:    ing.UnitType,
			Description: deref(ing.Description),
		})
	}
	for _, s := range r.Steps {
		recipe.Steps = append(recipe.Steps, domain.Step{
			Title:       deref(s.Title),
			Description: s.Description,
		})
	}
	return recipe
}

func mapRecipes(list recipeListDTO) []domain.Recipe {
	recipes := make([]domain.Recipe, 0, len(list))
	for _, r := range list {
		recipes = append(recipes, mapRecipe(r))
	}
	return recipes
}

func mapInfo(i infoDTO) domain.Info {
	info := domain.Info{
		CookTime:      i.CookTime,
		PrepTime:      i.PrepTime,
		Freezable:     i.Freezable,
		MicrowaveOnly: i.MicrowaveOnly,
	}
	if i.Yields != nil {
		info.Yields = &domain.Yields{Value: i.Yields.Value, UnitType: i.Yields.UnitType}
	}
	return info
}

func toInfoDTO(i domain.Info) infoDTO {
	dto := infoDTO{
		CookTime:      i.CookTime,
		PrepTime:      i.PrepTime,
		Freezable:     i.Freezable,
		MicrowaveOnly: i.MicrowaveOnly,
	}
	if i.Yields != nil {
		dto.Yields = &yieldsDTO{Value: i.Yields.Value, UnitType: i.Yields.UnitType}
	}
	return dto
}

func toIngredientDTOs(ingredients []domain.Ingredient) []ingredientDTO {
	dtos := make([]ingredientDTO, 0, len(ingredients))
	for _, ing := range ingredients {
		dtos = append(dtos, ingredientDTO{
			Name:        ing.Name,
			Amount:      ing.Amount,
			UnitType:    ing.UnitType,
			Description: optional(ing.Description),
		})
	}
	return dtos
}

func toStepDTOs(steps []domain.Step) []stepDTO {
	dtos := make([]stepDTO, 0, len(steps))
	for _, s := range steps {
		dtos = append(dtos, stepDTO{Title: optional(s.Title), Description: s.Description})
	}
	return dtos
}

func toCreateRecipeDTO(r domain.CreateRecipe) createRecipeDTO {
	return createRecipeDTO{
		Title:            r.Title,
		Info:             toInfoDTO(r.Info),
		ShortDescription: optional(r.ShortDescription),
		LongDescription:  optional(r.LongDescription),
		Tags:             nonNil(r.Tags),
		Ingredients:      toIngredientDTOs(r.Ingredients),
		Steps:            toStepDTOs(r.Steps),
		Source:           optional(r.Source),
	}
}

// toUpdateRecipeDTO keeps nil slices absent so the server leaves them alone;
// a non-nil empty slice clears the field.
func toUpdateRecipeDTO(u domain.UpdateRecipe) updateRecipeDTO {
	dto := updateRecipeDTO{
		Title:            u.Title,
		ShortDescription: u.ShortDescription,
		LongDescription:  u.LongDescription,
		Source:           u.Source,
	}
	if u.Info != nil {
		info := toInfoDTO(*u.Info)
		dto.Info = &info
	}
	if u.Tags != nil {
		tags := u.Tags
		dto.Tags = &tags
	}
	if u.Ingredients != nil {
		ingredients := toIngredientDTOs(u.Ingredients)
		dto.Ingredients = &ingredients
	}
	if u.Steps != nil {
		steps := toStepDTOs(u.Steps)
		dto.Steps = &steps
	}
	return dto
}

func mapLocation(l locationDTO) domain.Location {
	return domain.Location{ID: l.ID, Name: l.Name, OwnerID: l.OwnerID}
}

func mapLocations(list locationListDTO) []domain.Location {
	locations := make([]domain.Location, 0, len(list))
	for _, l := range list {
		locations = append(locations, mapLocation(l))
	}
	return locations
}

func mapItem(i itemDTO) domain.Item {
	return domain.Item{
		ID:         i.ID,
		Name:       i.Name,
		LocationID: i.LocationID,
		Quantity:   i.Quantity,
		Notes:      deref(i.Notes),
		Expiry:     utc(i.Expiry),
		Labels:     nonNil(i.Labels),
	}
}

func mapItems(list itemListDTO) []domain.Item {
	items := make([]domain.Item, 0, len(list))
	for _, i := range list {
		items = append(items, mapItem(i))
	}
	return items
}

func toCreateItemDTO(i domain.CreateItem) createItemDTO {
	return createItemDTO{
		Name:     i.Name,
		Quantity: i.Quantity,
		Notes:    optional(i.Notes),
		Expiry:   utc(i.Expiry),
		Labels:   nonNil(i.Labels),
	}
}

func toUpdateItemDTO(i domain.UpdateItem) updateItemDTO {
	return updateItemDTO{
		Name:       i.Name,
		LocationID: i.LocationID,
		Quantity:   i.Quantity,
		Notes:      optional(i.Notes),
		Expiry:     utc(i.Expiry),
		Labels:     nonNil(i.Labels),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// optional maps "" to an absent field
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
