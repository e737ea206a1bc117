package domain

import "time"

// Session is the working state of a recipe opened for cooking. It is
// derived fresh from the stored recipe on every open and is never written
// back to storage.
type Session struct {
	RecipeID     string
	RecipeName   string
	BaseServings string
	Servings     int
	Ingredients  []CheckedIngredient
	Steps        []CheckedStep
	OpenedAt     time.Time
}

// CheckedIngredient is an ingredient with its session-only checked flag.
type CheckedIngredient struct {
	Ingredient
	Checked bool `json:"checked"`
}

// CheckedStep is a step with its session-only checked flag.
type CheckedStep struct {
	Step
	Checked bool `json:"checked"`
}

// Badge is a linked ingredient shown under a step, scaled for the current
// serving count.
type Badge struct {
	IngredientID string `json:"ingredientId"`
	Name         string `json:"name"`
	Quantity     string `json:"quantity,omitempty"` // " (amount unit)" suffix, empty when both are blank
	Checked      bool   `json:"checked"`
}

// Progress counts checked entities in a session.
type Progress struct {
	IngredientsChecked int `json:"ingredientsChecked"`
	IngredientsTotal   int `json:"ingredientsTotal"`
	StepsChecked       int `json:"stepsChecked"`
	StepsTotal         int `json:"stepsTotal"`
}

// Done reports whether every step is checked.
func (p Progress) Done() bool {
	return p.StepsTotal > 0 && p.StepsChecked == p.StepsTotal
}
