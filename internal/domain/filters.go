package domain

// DefaultPerPage matches the server's default page size
const DefaultPerPage = 20

// RecipesFilter selects a page of recipes. It satisfies paging.Filter.
type RecipesFilter struct {
	PageNum       int
	PerPageCount  int
	Title         *string
	Labels        []string `hash:"set"`
	Freezable     *bool
	MicrowaveOnly *bool
}

// DefaultRecipesFilter returns the first page with no search applied
func DefaultRecipesFilter() RecipesFilter {
	return RecipesFilter{PageNum: 1, PerPageCount: DefaultPerPage}
}

func (f RecipesFilter) Page() int    { return f.PageNum }
func (f RecipesFilter) PerPage() int { return f.PerPageCount }

func (f RecipesFilter) WithPage(page int) RecipesFilter {
	f.PageNum = page
	return f
}

// WithTitle returns a copy searching for title ("" clears the search)
func (f RecipesFilter) WithTitle(title string) RecipesFilter {
	if title == "" {
		f.Title = nil
	} else {
		f.Title = &title
	}
	return f
}

// SearchText returns the title being searched for
func (f RecipesFilter) SearchText() string {
	if f.Title == nil {
		return ""
	}
	return *f.Title
}

// PantryFilter selects a page of pantry items. It satisfies paging.Filter.
type PantryFilter struct {
	PageNum      int
	PerPageCount int
	Name         *string
	LocationID   *string
	Labels       []string `hash:"set"`
	Expired      *bool
}

// DefaultPantryFilter returns the first page with no search applied
func DefaultPantryFilter() PantryFilter {
	return PantryFilter{PageNum: 1, PerPageCount: DefaultPerPage}
}

func (f PantryFilter) Page() int    { return f.PageNum }
func (f PantryFilter) PerPage() int { return f.PerPageCount }

func (f PantryFilter) WithPage(page int) PantryFilter {
	f.PageNum = page
	return f
}

// WithName returns a copy searching for name ("" clears the search)
func (f PantryFilter) WithName(name string) PantryFilter {
	if name == "" {
		f.Name = nil
	} else {
		f.Name = &name
	}
	return f
}

// SearchText returns the item name being searched for
func (f PantryFilter) SearchText() string {
	if f.Name == nil {
		return ""
	}
	return *f.Name
}
