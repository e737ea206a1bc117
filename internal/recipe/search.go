package recipe

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// Search returns the recipes whose name, tags, notes, or ingredient names
// contain query, compared under Unicode case folding. An empty query
// matches everything. Order is preserved.
func Search(recipes []domain.Recipe, query string) []domain.Recipe {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return recipes
	}

	var out []domain.Recipe
	for _, r := range recipes {
		if matches(fold, &r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(fold cases.Caser, r *domain.Recipe, q string) bool {
	contains := func(s string) bool {
		return s != "" && strings.Contains(fold.String(s), q)
	}

	if contains(r.Name) || contains(r.Notes) {
		return true
	}
	for _, tag := range r.Tags {
		if contains(tag) {
			return true
		}
	}
	for _, ing := range r.Ingredients {
		if contains(ing.Name) {
			return true
		}
	}
	return false
}

// Summaries returns the listing rows for recipes.
func Summaries(recipes []domain.Recipe) []domain.RecipeSummary {
	out := make([]domain.RecipeSummary, 0, len(recipes))
	for i := range recipes {
		out = append(out, recipes[i].Summary())
	}
	return out
}
