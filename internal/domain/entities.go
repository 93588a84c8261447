package domain

// Recipe represents a stored recipe
type Recipe struct {
	ID               string
	OwnerID          string
	Title            string
	Info             Info
	ShortDescription string
	LongDescription  string
	Tags             []string // Labels attached to the recipe
	Ingredients      []Ingredient
	Steps            []Step
	ImageID          string // Empty when no image was uploaded
	Source           string
}

// HasImage returns true if an image was uploaded for the recipe
func (r Recipe) HasImage() bool {
	return r.ImageID != ""
}

// Ingredient is a single ingredient line. Amount is stored as a float on the
// server; use codec.FromFloat to display it as a fraction.
type Ingredient struct {
	Name        string
	Amount      float64
	UnitType    string
	Description string
}

// Step is a single method step
type Step struct {
	Title       string
	Description string
}

// Yields describes how much a recipe makes (e.g. 4 "servings")
type Yields struct {
	Value    int
	UnitType string
}

// Info holds the recipe's timing and handling flags
type Info struct {
	Yields        *Yields
	CookTime      int // Seconds
	PrepTime      int // Seconds
	Freezable     bool
	MicrowaveOnly bool
}

// TotalTime returns prep + cook time in seconds
func (i Info) TotalTime() int {
	return i.PrepTime + i.CookTime
}

// CreateRecipe is the payload for creating a recipe
type CreateRecipe struct {
	Title            string
	Info             Info
	ShortDescription string
	LongDescription  string
	Tags             []string
	Ingredients      []Ingredient
	Steps            []Step
	Source           string
}

// UpdateRecipe is a partial update. Nil fields are left unchanged by the server.
type UpdateRecipe struct {
	Title            *string
	Info             *Info
	ShortDescription *string
	LongDescription  *string
	Tags             []string
	Ingredients      []Ingredient
	Steps            []Step
	Source           *string
}

// User is a registered account
type User struct {
	ID       string
	Username string
}

// Credentials are submitted on login and account creation
type Credentials struct {
	Username string
	Password string
}

// ServiceInfo describes the remote service
type ServiceInfo struct {
	Version         string
	AccountCreation bool // Whether new accounts may be created
}

// AccountStats holds per-account counters
type AccountStats struct {
	UserCount       int
	RecipeCount     int
	PantryItemCount int
	LabelCount      int
}
