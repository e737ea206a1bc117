package engine

import (
	"slices"
	"sync"
	"time"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/recipe"
)

// Session is an opened recipe: its serving count and checklist. Nothing in
// a session is ever persisted. Safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	state  domain.Session
	recipe *domain.Recipe
}

func newSession(r *domain.Recipe, now time.Time) *Session {
	ings, steps := NewChecklist(r)
	return &Session{
		recipe: r.Clone(),
		state: domain.Session{
			RecipeID:     r.ID,
			RecipeName:   r.Name,
			BaseServings: r.BaseServings,
			Servings:     recipe.ParseServings(r.BaseServings),
			Ingredients:  ings,
			Steps:        steps,
			OpenedAt:     now,
		},
	}
}

// RecipeID returns the id of the opened recipe.
func (s *Session) RecipeID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RecipeID
}

// Recipe returns a copy of the recipe as it was last loaded.
func (s *Session) Recipe() *domain.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recipe.Clone()
}

// Servings returns the current serving count.
func (s *Session) Servings() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Servings
}

// Increase adds one serving. There is no upper bound.
func (s *Session) Increase() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Servings++
	return s.state.Servings
}

// Decrease removes one serving, stopping at 1.
func (s *Session) Decrease() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Servings = max(1, s.state.Servings-1)
	return s.state.Servings
}

// CanDecrease reports whether Decrease would change anything.
func (s *Session) CanDecrease() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Servings > 1
}

// SetServings sets the serving count, clamped to at least 1.
func (s *Session) SetServings(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Servings = max(1, n)
}

// ToggleIngredient flips the checked flag of an ingredient.
func (s *Session) ToggleIngredient(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Ingredients = ToggleIngredient(s.state.Ingredients, id)
}

// ToggleStep flips the checked flag of a step.
func (s *Session) ToggleStep(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Steps = ToggleStep(s.state.Steps, id)
}

// Badges returns the linked-ingredient badges of a step at the current
// serving count. Unknown steps have none.
func (s *Session) Badges(stepID string) []domain.Badge {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.state.Steps, func(st domain.CheckedStep) bool { return st.ID == stepID })
	if i < 0 {
		return nil
	}
	return LinkedBadges(s.state.Steps[i].Step, s.state.Ingredients, s.state.BaseServings, s.state.Servings)
}

// Progress counts checked ingredients and steps.
func (s *Session) Progress() domain.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CountProgress(s.state.Ingredients, s.state.Steps)
}

// Reload reconciles the session with a freshly read copy of its recipe.
// Checked flags survive for entities that still exist and the serving
// count is kept.
func (s *Session) Reload(r *domain.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Ingredients, s.state.Steps = Reconcile(r, s.state.Ingredients, s.state.Steps)
	s.state.RecipeName = r.Name
	s.state.BaseServings = r.BaseServings
	s.recipe = r.Clone()
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Ingredients = slices.Clone(s.state.Ingredients)
	out.Steps = cloneSteps(s.state.Steps)
	return out
}

// IngredientRow is an ingredient as the detail view shows it.
type IngredientRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Amount   string `json:"amount"` // scaled
	Unit     string `json:"unit"`
	Quantity string `json:"quantity,omitempty"`
	Checked  bool   `json:"checked"`
}

// StepRow is a step as the detail view shows it.
type StepRow struct {
	ID          string         `json:"id"`
	Number      int            `json:"number"`
	Instruction string         `json:"instruction"`
	StepImage   string         `json:"stepImage,omitempty"`
	Checked     bool           `json:"checked"`
	Badges      []domain.Badge `json:"badges"`
}

// View is everything the detail screen renders.
type View struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Image        string          `json:"image,omitempty"`
	PrepTime     string          `json:"prepTime,omitempty"`
	CookTime     string          `json:"cookTime,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	BaseServings string          `json:"baseServings"`
	Servings     int             `json:"servings"`
	CanDecrease  bool            `json:"canDecrease"`
	Ingredients  []IngredientRow `json:"ingredients"`
	Steps        []StepRow       `json:"steps"`
	Progress     domain.Progress `json:"progress"`
	OpenedAt     time.Time       `json:"openedAt"`
}

// View renders the session at the current serving count.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	v := View{
		ID:           st.RecipeID,
		Name:         st.RecipeName,
		Image:        s.recipe.Image,
		PrepTime:     s.recipe.PrepTime,
		CookTime:     s.recipe.CookTime,
		Tags:         slices.Clone(s.recipe.Tags),
		Notes:        s.recipe.Notes,
		BaseServings: st.BaseServings,
		Servings:     st.Servings,
		CanDecrease:  st.Servings > 1,
		Ingredients:  make([]IngredientRow, 0, len(st.Ingredients)),
		Steps:        make([]StepRow, 0, len(st.Steps)),
		Progress:     CountProgress(st.Ingredients, st.Steps),
		OpenedAt:     st.OpenedAt,
	}
	for _, ing := range st.Ingredients {
		v.Ingredients = append(v.Ingredients, IngredientRow{
			ID:       ing.ID,
			Name:     ing.Name,
			Amount:   recipe.Scale(ing.Amount, st.BaseServings, st.Servings),
			Unit:     ing.Unit,
			Quantity: recipe.FormatQuantity(ing.Ingredient, st.BaseServings, st.Servings),
			Checked:  ing.Checked,
		})
	}
	for i, step := range st.Steps {
		v.Steps = append(v.Steps, StepRow{
			ID:          step.ID,
			Number:      i + 1,
			Instruction: step.Instruction,
			StepImage:   step.StepImage,
			Checked:     step.Checked,
			Badges:      LinkedBadges(step.Step, st.Ingredients, st.BaseServings, st.Servings),
		})
	}
	return v
}
