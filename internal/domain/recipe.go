// Package domain defines the core types and interfaces for the recipe keeper.
// All other packages depend on domain; domain depends on nothing.
package domain

import "time"

// CollectionKey is the storage key the recipe collection document lives under.
const CollectionKey = "recipes"

// Reserved keys owned by display settings. The recipe core never touches them.
const (
	ThemeKey          = "theme"
	UseDeviceThemeKey = "useDeviceTheme"
)

// Recipe is a stored recipe document. Field names match the persisted JSON
// layout so collections written by earlier clients load unchanged.
type Recipe struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Ingredients  []Ingredient `json:"ingredients" yaml:"ingredients"`
	Steps        []Step       `json:"steps" yaml:"steps"`
	BaseServings string       `json:"baseServings" yaml:"baseServings"`
	PrepTime     string       `json:"prepTime" yaml:"prepTime"` // minutes
	CookTime     string       `json:"cookTime" yaml:"cookTime"` // minutes
	Image        string       `json:"image,omitempty" yaml:"image,omitempty"`
	Tags         []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Notes        string       `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt    int64        `json:"createdAt,omitempty" yaml:"createdAt,omitempty"` // unix millis
	UpdatedAt    int64        `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"` // unix millis
}

// Ingredient is a single ingredient line. Amount is free text that is
// usually, but not always, a decimal number.
type Ingredient struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Amount string `json:"amount" yaml:"amount"`
	Unit   string `json:"unit" yaml:"unit"`
}

// Step is a single cooking step. LinkedIngredientIDs reference ingredients
// of the same recipe; references that no longer resolve are ignored.
type Step struct {
	ID                  string   `json:"id" yaml:"id"`
	Instruction         string   `json:"instruction" yaml:"instruction"`
	LinkedIngredientIDs []string `json:"linkedIngredientIds" yaml:"linkedIngredientIds"`
	StepImage           string   `json:"stepImage,omitempty" yaml:"stepImage,omitempty"`
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	PrepTime string   `json:"prepTime,omitempty"`
	CookTime string   `json:"cookTime,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	HasImage bool     `json:"hasImage"`
}

// Summary returns the listing view of r.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:       r.ID,
		Name:     r.Name,
		PrepTime: r.PrepTime,
		CookTime: r.CookTime,
		Tags:     r.Tags,
		HasImage: r.Image != "",
	}
}

// Ingredient returns the ingredient with the given ID, or nil.
func (r *Recipe) Ingredient(id string) *Ingredient {
	for i := range r.Ingredients {
		if r.Ingredients[i].ID == id {
			return &r.Ingredients[i]
		}
	}
	return nil
}

// Clone returns a deep copy of r so callers can mutate it freely.
func (r *Recipe) Clone() *Recipe {
	out := *r
	out.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	out.Steps = nil
	for _, s := range r.Steps {
		s.LinkedIngredientIDs = append([]string(nil), s.LinkedIngredientIDs...)
		out.Steps = append(out.Steps, s)
	}
	out.Tags = append([]string(nil), r.Tags...)
	return &out
}

// Millis converts t to the unix-millisecond stamps stored on recipes.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
