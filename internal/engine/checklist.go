package engine

import (
	"slices"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/recipe"
)

// NewChecklist derives the working ingredient and step lists for a recipe,
// all unchecked.
func NewChecklist(r *domain.Recipe) ([]domain.CheckedIngredient, []domain.CheckedStep) {
	ings := make([]domain.CheckedIngredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ings[i] = domain.CheckedIngredient{Ingredient: ing}
	}
	steps := make([]domain.CheckedStep, len(r.Steps))
	for i, s := range r.Steps {
		s.LinkedIngredientIDs = slices.Clone(s.LinkedIngredientIDs)
		steps[i] = domain.CheckedStep{Step: s}
	}
	return ings, steps
}

// ToggleIngredient returns a copy of items with the checked flag of id
// flipped. items is not modified; an unknown id yields an equal copy.
func ToggleIngredient(items []domain.CheckedIngredient, id string) []domain.CheckedIngredient {
	out := slices.Clone(items)
	for i := range out {
		if out[i].ID == id {
			out[i].Checked = !out[i].Checked
		}
	}
	return out
}

// ToggleStep returns a copy of items with the checked flag of id flipped.
// items is not modified; an unknown id yields an equal copy.
func ToggleStep(items []domain.CheckedStep, id string) []domain.CheckedStep {
	out := cloneSteps(items)
	for i := range out {
		if out[i].ID == id {
			out[i].Checked = !out[i].Checked
		}
	}
	return out
}

func cloneSteps(items []domain.CheckedStep) []domain.CheckedStep {
	if items == nil {
		return nil
	}
	out := make([]domain.CheckedStep, len(items))
	for i, s := range items {
		s.LinkedIngredientIDs = slices.Clone(s.LinkedIngredientIDs)
		out[i] = s
	}
	return out
}

// LinkedBadges resolves a step's links against the working ingredient list
// in link order. Dangling ids are skipped.
func LinkedBadges(step domain.Step, ings []domain.CheckedIngredient, baseServings string, servings int) []domain.Badge {
	badges := make([]domain.Badge, 0, len(step.LinkedIngredientIDs))
	for _, id := range step.LinkedIngredientIDs {
		i := slices.IndexFunc(ings, func(ing domain.CheckedIngredient) bool { return ing.ID == id })
		if i < 0 {
			continue
		}
		ing := ings[i]
		badges = append(badges, domain.Badge{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Quantity:     recipe.FormatQuantity(ing.Ingredient, baseServings, servings),
			Checked:      ing.Checked,
		})
	}
	return badges
}

// CountProgress counts checked entities.
func CountProgress(ings []domain.CheckedIngredient, steps []domain.CheckedStep) domain.Progress {
	p := domain.Progress{IngredientsTotal: len(ings), StepsTotal: len(steps)}
	for _, ing := range ings {
		if ing.Checked {
			p.IngredientsChecked++
		}
	}
	for _, s := range steps {
		if s.Checked {
			p.StepsChecked++
		}
	}
	return p
}

// Reconcile rebuilds the working lists from a fresh copy of the recipe.
// Entities that still exist keep their checked flag; removed ones are
// dropped and new ones start unchecked. Order follows the recipe.
func Reconcile(r *domain.Recipe, prevIngs []domain.CheckedIngredient, prevSteps []domain.CheckedStep) ([]domain.CheckedIngredient, []domain.CheckedStep) {
	checkedIngs := make(map[string]bool, len(prevIngs))
	for _, ing := range prevIngs {
		if ing.Checked {
			checkedIngs[ing.ID] = true
		}
	}
	checkedSteps := make(map[string]bool, len(prevSteps))
	for _, s := range prevSteps {
		if s.Checked {
			checkedSteps[s.ID] = true
		}
	}

	ings, steps := NewChecklist(r)
	for i := range ings {
		ings[i].Checked = checkedIngs[ings[i].ID]
	}
	for i := range steps {
		steps[i].Checked = checkedSteps[steps[i].ID]
	}
	return ings, steps
}
