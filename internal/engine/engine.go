// Package engine implements the recipe detail view: opening a recipe for
// cooking, the serving-count control, and the checklist overlay.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/recipe"
)

// Option configures the engine.
type Option func(*Engine)

// WithClock overrides the time source used for session and recipe stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine ties the recipe repository to detail-view sessions. It depends
// only on interfaces and is fully testable with in-memory stores.
type Engine struct {
	recipes domain.RecipeRepository
	log     *logger.Logger
	now     func() time.Time
}

// New creates an engine over the given repository.
func New(recipes domain.RecipeRepository, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		recipes: recipes,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListRecipes returns listing rows for the recipes matching query. An
// empty query lists everything.
func (e *Engine) ListRecipes(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	all, err := e.recipes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	return recipe.Summaries(recipe.Search(all, query)), nil
}

// GetRecipe returns a full recipe by ID.
func (e *Engine) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	return e.recipes.Get(ctx, id)
}

// SaveDraft builds the draft and stores it as a new recipe.
func (e *Engine) SaveDraft(ctx context.Context, d *recipe.Draft) (*domain.Recipe, error) {
	r, err := d.Build(e.now())
	if err != nil {
		return nil, err
	}
	if err := e.recipes.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// CreateRecipe stores a recipe that was assembled elsewhere (import, API).
// The name is required.
func (e *Engine) CreateRecipe(ctx context.Context, r *domain.Recipe) error {
	if err := validate(r); err != nil {
		return err
	}
	return e.recipes.Create(ctx, r)
}

// UpdateRecipe replaces a stored recipe.
func (e *Engine) UpdateRecipe(ctx context.Context, r *domain.Recipe) error {
	if err := validate(r); err != nil {
		return err
	}
	return e.recipes.Update(ctx, r)
}

// DeleteRecipe removes a recipe. Absent ids are not an error.
func (e *Engine) DeleteRecipe(ctx context.Context, id string) error {
	return e.recipes.Delete(ctx, id)
}

// Open reads the recipe and starts a fresh session over it: serving count
// from the recipe's base servings, every entity unchecked.
func (e *Engine) Open(ctx context.Context, recipeID string) (*Session, error) {
	r, err := e.recipes.Get(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("opening recipe %s: %w", recipeID, err)
	}
	s := newSession(r, e.now())
	e.log.Debug("opened recipe %q (%d servings)", r.Name, s.Servings())
	return s, nil
}

// Refresh re-reads the session's recipe and reconciles the session with
// it. Returns domain.ErrNotFound if the recipe was deleted meanwhile.
func (e *Engine) Refresh(ctx context.Context, s *Session) error {
	r, err := e.recipes.Get(ctx, s.RecipeID())
	if err != nil {
		return fmt.Errorf("refreshing recipe %s: %w", s.RecipeID(), err)
	}
	s.Reload(r)
	e.log.Debug("refreshed recipe %q", r.Name)
	return nil
}

func validate(r *domain.Recipe) error {
	if r == nil || strings.TrimSpace(r.Name) == "" {
		return domain.ErrNameRequired
	}
	return nil
}
