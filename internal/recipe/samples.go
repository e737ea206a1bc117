package recipe

import "github.com/hammamikhairi/recipebox/internal/domain"

// Samples returns the built-in example recipes offered to a new user.
// Each call returns fresh values with fixed ids so seeding twice is
// detected as a duplicate.
func Samples() []domain.Recipe {
	return []domain.Recipe{
		vegetableStirFry(),
		chickenAlfredo(),
	}
}

func chickenAlfredo() domain.Recipe {
	return domain.Recipe{
		ID:           "sample-chicken-alfredo",
		Name:         "Chicken Alfredo",
		BaseServings: "2",
		PrepTime:     "10",
		CookTime:     "25",
		Tags:         []string{"italian", "pasta", "chicken"},
		Notes:        "Alfredo does not reheat well. Serve it straight from the pan.",
		Ingredients: []domain.Ingredient{
			{ID: "ca-spaghetti", Name: "Spaghetti", Amount: "250", Unit: "g"},
			{ID: "ca-chicken", Name: "Chicken breast", Amount: "2", Unit: "pieces"},
			{ID: "ca-cream", Name: "Creme fraiche", Amount: "1", Unit: "cup"},
			{ID: "ca-gruyere", Name: "Gruyere, grated", Amount: "1", Unit: "cup"},
			{ID: "ca-butter", Name: "Butter", Amount: "3", Unit: "tbsp"},
			{ID: "ca-garlic", Name: "Garlic", Amount: "4", Unit: "cloves"},
			{ID: "ca-oil", Name: "Olive oil", Amount: "1", Unit: "tbsp"},
			{ID: "ca-salt", Name: "Salt and pepper", Unit: "to taste"},
		},
		Steps: []domain.Step{
			{ID: "ca-1", Instruction: "Bring a large pot of salted water to a boil.", LinkedIngredientIDs: []string{"ca-salt"}},
			{ID: "ca-2", Instruction: "Season the chicken on both sides and pound it to an even thickness.", LinkedIngredientIDs: []string{"ca-chicken", "ca-salt"}},
			{ID: "ca-3", Instruction: "Sear the chicken in oil, about 6 minutes per side, then rest it.", LinkedIngredientIDs: []string{"ca-oil", "ca-chicken"}},
			{ID: "ca-4", Instruction: "Cook the spaghetti until al dente. Keep a cup of pasta water.", LinkedIngredientIDs: []string{"ca-spaghetti"}},
			{ID: "ca-5", Instruction: "Melt the butter in the same pan and cook the garlic for a minute.", LinkedIngredientIDs: []string{"ca-butter", "ca-garlic"}},
			{ID: "ca-6", Instruction: "Stir in the creme fraiche and simmer for 3 minutes.", LinkedIngredientIDs: []string{"ca-cream"}},
			{ID: "ca-7", Instruction: "Off the heat, stir in the gruyere until smooth. Loosen with pasta water.", LinkedIngredientIDs: []string{"ca-gruyere"}},
			{ID: "ca-8", Instruction: "Toss the pasta in the sauce and top with sliced chicken.", LinkedIngredientIDs: []string{"ca-spaghetti", "ca-chicken"}},
		},
	}
}

func vegetableStirFry() domain.Recipe {
	return domain.Recipe{
		ID:           "sample-vegetable-stir-fry",
		Name:         "Vegetable Stir Fry",
		BaseServings: "2",
		PrepTime:     "15",
		CookTime:     "8",
		Tags:         []string{"asian", "vegetables", "quick", "vegan"},
		Notes:        "Use the hottest pan you have and do not overcrowd it.",
		Ingredients: []domain.Ingredient{
			{ID: "vsf-pepper", Name: "Bell pepper", Amount: "1", Unit: "large"},
			{ID: "vsf-broccoli", Name: "Broccoli florets", Amount: "2", Unit: "cups"},
			{ID: "vsf-carrot", Name: "Carrot", Amount: "1", Unit: "medium"},
			{ID: "vsf-peas", Name: "Snap peas", Amount: "1", Unit: "cup"},
			{ID: "vsf-garlic", Name: "Garlic", Amount: "3", Unit: "cloves"},
			{ID: "vsf-ginger", Name: "Fresh ginger, grated", Amount: "1", Unit: "tbsp"},
			{ID: "vsf-soy", Name: "Soy sauce", Amount: "2", Unit: "tbsp"},
			{ID: "vsf-sesame", Name: "Sesame oil", Amount: "1", Unit: "tbsp"},
			{ID: "vsf-oil", Name: "Vegetable oil", Amount: "2", Unit: "tbsp"},
			{ID: "vsf-cornstarch", Name: "Cornstarch", Amount: "1", Unit: "tsp"},
		},
		Steps: []domain.Step{
			{ID: "vsf-1", Instruction: "Slice the pepper, cut the broccoli small, julienne the carrot, trim the peas.", LinkedIngredientIDs: []string{"vsf-pepper", "vsf-broccoli", "vsf-carrot", "vsf-peas"}},
			{ID: "vsf-2", Instruction: "Mix soy sauce, sesame oil, cornstarch and 2 tbsp water.", LinkedIngredientIDs: []string{"vsf-soy", "vsf-sesame", "vsf-cornstarch"}},
			{ID: "vsf-3", Instruction: "Heat the wok until it smokes, then add the oil.", LinkedIngredientIDs: []string{"vsf-oil"}},
			{ID: "vsf-4", Instruction: "Fry broccoli and carrot for 2 minutes, then pepper and peas for 2 more.", LinkedIngredientIDs: []string{"vsf-broccoli", "vsf-carrot", "vsf-pepper", "vsf-peas"}},
			{ID: "vsf-5", Instruction: "Push the vegetables aside and fry garlic and ginger for 30 seconds.", LinkedIngredientIDs: []string{"vsf-garlic", "vsf-ginger"}},
			{ID: "vsf-6", Instruction: "Pour in the sauce and toss until glossy. Serve at once.", LinkedIngredientIDs: []string{}},
		},
	}
}
