// Package recipe implements the recipe collection: persistence over a
// key-value store, serving-size scaling, the add-recipe draft, and search.
package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/metrics"
)

// Compile-time interface check.
var _ domain.RecipeRepository = (*Repository)(nil)

// User-facing messages for storage failures.
const (
	msgLoad    = "Failed to load recipes. Please try again."
	msgLoadOne = "Failed to load recipe. Please try again."
	msgSave    = "Failed to save recipe. Please try again."
	msgUpdate  = "Failed to update recipe. Please try again."
	msgDelete  = "Failed to delete recipe. Please try again."
)

// Option configures the repository.
type Option func(*Repository)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(repo *Repository) {
		repo.metrics = r
	}
}

// WithClock overrides the time source used for creation/update stamps.
func WithClock(now func() time.Time) Option {
	return func(repo *Repository) {
		repo.now = now
	}
}

// WithIDGenerator overrides how missing recipe ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(repo *Repository) {
		repo.newID = gen
	}
}

// Repository stores the whole recipe collection as one JSON document under
// domain.CollectionKey. Every mutation reads the document, changes it, and
// writes it back; mu serialises those sequences within the process.
type Repository struct {
	mu      sync.Mutex
	store   domain.KeyValueStore
	log     *logger.Logger
	metrics metrics.Recorder
	now     func() time.Time
	newID   func() string
}

// NewRepository creates a repository over store.
func NewRepository(store domain.KeyValueStore, log *logger.Logger, opts ...Option) *Repository {
	r := &Repository{
		store:   store,
		log:     log,
		metrics: metrics.NoopRecorder{},
		now:     time.Now,
		newID:   NewID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns the full collection in stored order. A document that cannot
// be read or decoded is logged and treated as empty.
func (r *Repository) List(ctx context.Context) ([]domain.Recipe, error) {
	start := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, _, err := r.load(ctx)
	if err != nil {
		r.log.Warn("%s: %v", msgLoad, err)
		r.metrics.ObserveOperation("list", time.Since(start), metrics.ResultError)
		return []domain.Recipe{}, nil
	}
	r.metrics.ObserveOperation("list", time.Since(start), metrics.ResultSuccess)
	r.metrics.SetRecipeCount(len(recipes))
	r.log.Debug("listing all recipes, count=%d", len(recipes))
	return recipes, nil
}

// Get returns the recipe with the given id, or domain.ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (out *domain.Recipe, err error) {
	defer r.observe("get", time.Now(), &err)

	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, _, err := r.load(ctx)
	if err != nil {
		return nil, domain.ReadError("get", msgLoadOne, err)
	}
	if i := indexOf(recipes, id); i >= 0 {
		return &recipes[i], nil
	}
	r.log.Debug("recipe not found: %s", id)
	return nil, domain.ErrNotFound
}

// Create appends recipe to the collection. Missing recipe, ingredient and
// step ids are minted and zero stamps are set to now; all of them are
// written back into recipe. Repeated ingredient or step ids are rejected
// with domain.ErrInvalid.
func (r *Repository) Create(ctx context.Context, recipe *domain.Recipe) (err error) {
	defer r.observe("create", time.Now(), &err)

	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, _, err := r.load(ctx)
	if err != nil {
		return domain.ReadError("create", msgSave, err)
	}

	rec := recipe.Clone()
	if rec.ID == "" {
		rec.ID = r.newID()
	}
	if err := assignIDs(rec, r.newID); err != nil {
		return err
	}
	if indexOf(recipes, rec.ID) >= 0 {
		return fmt.Errorf("recipe %s: %w", rec.ID, domain.ErrAlreadyExists)
	}
	now := domain.Millis(r.now())
	if rec.CreatedAt == 0 {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt == 0 {
		rec.UpdatedAt = now
	}

	if err := r.save(ctx, append(recipes, *rec)); err != nil {
		return domain.WriteError("create", msgSave, err)
	}

	copyAssigned(recipe, rec)
	r.log.Info("recipe saved: %s (%s)", rec.Name, rec.ID)
	return nil
}

// Update replaces the stored recipe with the same id and stamps updatedAt.
// A zero createdAt keeps the stored one. Ids are assigned and checked as in
// Create. Returns domain.ErrNotFound when the collection or the id is absent.
func (r *Repository) Update(ctx context.Context, recipe *domain.Recipe) (err error) {
	defer r.observe("update", time.Now(), &err)

	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, found, err := r.load(ctx)
	if err != nil {
		return domain.ReadError("update", msgUpdate, err)
	}
	if !found {
		return fmt.Errorf("no recipes stored: %w", domain.ErrNotFound)
	}
	i := indexOf(recipes, recipe.ID)
	if i < 0 {
		return fmt.Errorf("recipe %s: %w", recipe.ID, domain.ErrNotFound)
	}

	rec := recipe.Clone()
	if err := assignIDs(rec, r.newID); err != nil {
		return err
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = recipes[i].CreatedAt
	}
	rec.UpdatedAt = domain.Millis(r.now())
	recipes[i] = *rec

	if err := r.save(ctx, recipes); err != nil {
		return domain.WriteError("update", msgUpdate, err)
	}

	copyAssigned(recipe, rec)
	r.log.Info("recipe updated: %s (%s)", rec.Name, rec.ID)
	return nil
}

// Delete removes the recipe with the given id. Deleting an id that is not
// stored succeeds and writes nothing.
func (r *Repository) Delete(ctx context.Context, id string) (err error) {
	defer r.observe("delete", time.Now(), &err)

	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, found, err := r.load(ctx)
	if err != nil {
		return domain.ReadError("delete", msgDelete, err)
	}
	i := indexOf(recipes, id)
	if !found || i < 0 {
		r.log.Debug("delete: recipe %s not stored", id)
		return nil
	}

	kept := append(recipes[:i:i], recipes[i+1:]...)
	if err := r.save(ctx, kept); err != nil {
		return domain.WriteError("delete", msgDelete, err)
	}

	r.log.Info("recipe deleted: %s", id)
	return nil
}

// load reads and decodes the collection. found is false when no document
// has been written yet.
func (r *Repository) load(ctx context.Context) ([]domain.Recipe, bool, error) {
	data, found, err := r.store.Get(ctx, domain.CollectionKey)
	if err != nil {
		return nil, false, fmt.Errorf("reading collection: %w", err)
	}
	if !found || len(data) == 0 {
		return []domain.Recipe{}, found, nil
	}

	var recipes []domain.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, true, fmt.Errorf("decoding collection: %w", err)
	}
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	return recipes, true, nil
}

func (r *Repository) save(ctx context.Context, recipes []domain.Recipe) error {
	for i := range recipes {
		normalize(&recipes[i])
	}
	data, err := json.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	if err := r.store.Set(ctx, domain.CollectionKey, data); err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}
	r.metrics.SetRecipeCount(len(recipes))
	return nil
}

func (r *Repository) observe(op string, start time.Time, errp *error) {
	r.metrics.ObserveOperation(op, time.Since(start), resultOf(*errp))
}

func resultOf(err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, domain.ErrNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return metrics.ResultConflict
	case errors.Is(err, domain.ErrInvalid), errors.Is(err, domain.ErrNameRequired):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

func indexOf(recipes []domain.Recipe, id string) int {
	for i := range recipes {
		if recipes[i].ID == id {
			return i
		}
	}
	return -1
}

// normalize replaces nil slices with empty ones so the document always
// carries arrays where readers expect them.
func normalize(r *domain.Recipe) {
	if r.Ingredients == nil {
		r.Ingredients = []domain.Ingredient{}
	}
	if r.Steps == nil {
		r.Steps = []domain.Step{}
	}
	for i := range r.Steps {
		if r.Steps[i].LinkedIngredientIDs == nil {
			r.Steps[i].LinkedIngredientIDs = []string{}
		}
	}
}

// assignIDs mints ids for ingredients and steps that lack one. Checklist
// progress and step links key on these ids, so a repeat is an error.
func assignIDs(r *domain.Recipe, newID func() string) error {
	seen := make(map[string]bool, len(r.Ingredients))
	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		if ing.ID == "" {
			ing.ID = newID()
		}
		if seen[ing.ID] {
			return fmt.Errorf("ingredient id %q repeated: %w", ing.ID, domain.ErrInvalid)
		}
		seen[ing.ID] = true
	}

	clear(seen)
	for i := range r.Steps {
		st := &r.Steps[i]
		if st.ID == "" {
			st.ID = newID()
		}
		if seen[st.ID] {
			return fmt.Errorf("step id %q repeated: %w", st.ID, domain.ErrInvalid)
		}
		seen[st.ID] = true
	}
	return nil
}

// copyAssigned writes the ids and stamps of saved back into dst, which holds
// the same ingredients and steps in the same order.
func copyAssigned(dst, saved *domain.Recipe) {
	dst.ID, dst.CreatedAt, dst.UpdatedAt = saved.ID, saved.CreatedAt, saved.UpdatedAt
	for i := range dst.Ingredients {
		dst.Ingredients[i].ID = saved.Ingredients[i].ID
	}
	for i := range dst.Steps {
		dst.Steps[i].ID = saved.Steps[i].ID
	}
}
