package recipe

import "github.com/google/uuid"

// NewID returns a random id for a recipe, ingredient, or step.
func NewID() string {
	return uuid.NewString()
}
