package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/recipe"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

func setupEngine(t *testing.T) (*Engine, *recipe.Repository, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	repo := recipe.NewRepository(store, log)
	eng := New(repo, log, WithClock(func() time.Time { return time.UnixMilli(42) }))
	ctx := context.Background()

	for _, r := range recipe.Samples() {
		if err := repo.Create(ctx, &r); err != nil {
			t.Fatalf("seeding %s: %v", r.ID, err)
		}
	}
	return eng, repo, ctx
}

const stirFry = "sample-vegetable-stir-fry"

func TestOpen(t *testing.T) {
	eng, _, ctx := setupEngine(t)

	tests := []struct {
		name     string
		recipeID string
		wantErr  error
	}{
		{"sample recipe", stirFry, nil},
		{"unknown recipe", "nonexistent", domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := eng.Open(ctx, tt.recipeID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Servings() != 2 {
				t.Fatalf("expected base servings 2, got %d", s.Servings())
			}
			p := s.Progress()
			if p.IngredientsChecked != 0 || p.StepsChecked != 0 {
				t.Fatalf("expected nothing checked, got %+v", p)
			}
			if p.IngredientsTotal != 10 || p.StepsTotal != 6 {
				t.Fatalf("unexpected totals %+v", p)
			}
			if snap := s.Snapshot(); !snap.OpenedAt.Equal(time.UnixMilli(42)) {
				t.Fatalf("unexpected open time %v", snap.OpenedAt)
			}
		})
	}
}

func TestOpenUnparsableServings(t *testing.T) {
	eng, repo, ctx := setupEngine(t)
	_ = repo.Create(ctx, &domain.Recipe{ID: "odd", Name: "Odd", BaseServings: "a few"})

	s, err := eng.Open(ctx, "odd")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Servings() != 1 {
		t.Fatalf("expected 1 serving, got %d", s.Servings())
	}
	if s.CanDecrease() {
		t.Fatal("decrease should be disabled at 1")
	}
}

func TestServingsControl(t *testing.T) {
	eng, _, ctx := setupEngine(t)
	s, _ := eng.Open(ctx, stirFry)

	if !s.CanDecrease() {
		t.Fatal("expected decrease enabled at 2")
	}
	if got := s.Decrease(); got != 1 {
		t.Fatalf("decrease from 2 = %d", got)
	}
	if got := s.Decrease(); got != 1 {
		t.Fatalf("decrease at floor = %d, want 1", got)
	}
	if s.CanDecrease() {
		t.Fatal("expected decrease disabled at 1")
	}
	for i := 0; i < 100; i++ {
		s.Increase()
	}
	if s.Servings() != 101 {
		t.Fatalf("expected 101 servings, got %d", s.Servings())
	}

	s.SetServings(-5)
	if s.Servings() != 1 {
		t.Fatalf("SetServings should clamp to 1, got %d", s.Servings())
	}
}

func TestReopenResetsOverlay(t *testing.T) {
	eng, _, ctx := setupEngine(t)

	s, _ := eng.Open(ctx, stirFry)
	s.ToggleIngredient("vsf-pepper")
	s.ToggleStep("vsf-1")
	s.Increase()

	again, _ := eng.Open(ctx, stirFry)
	if p := again.Progress(); p.IngredientsChecked != 0 || p.StepsChecked != 0 {
		t.Fatalf("reopen kept checked flags: %+v", p)
	}
	if again.Servings() != 2 {
		t.Fatalf("reopen kept servings: %d", again.Servings())
	}
}

func TestBadgesFollowServingsAndChecks(t *testing.T) {
	eng, _, ctx := setupEngine(t)
	s, _ := eng.Open(ctx, stirFry)

	badges := s.Badges("vsf-5")
	want := []domain.Badge{
		{IngredientID: "vsf-garlic", Name: "Garlic", Quantity: " (3 cloves)"},
		{IngredientID: "vsf-ginger", Name: "Fresh ginger, grated", Quantity: " (1 tbsp)"},
	}
	if !reflect.DeepEqual(badges, want) {
		t.Fatalf("badges = %+v, want %+v", badges, want)
	}

	s.Increase() // 3 servings
	s.ToggleIngredient("vsf-garlic")
	badges = s.Badges("vsf-5")
	if badges[0].Quantity != " (4.5 cloves)" || !badges[0].Checked {
		t.Fatalf("unexpected garlic badge %+v", badges[0])
	}
	if badges[1].Quantity != " (1.5 tbsp)" || badges[1].Checked {
		t.Fatalf("unexpected ginger badge %+v", badges[1])
	}

	if got := s.Badges("vsf-6"); len(got) != 0 {
		t.Fatalf("expected no badges for unlinked step, got %+v", got)
	}
	if got := s.Badges("missing"); got != nil {
		t.Fatalf("expected nil for unknown step, got %+v", got)
	}
}

func TestRefreshReconciles(t *testing.T) {
	eng, repo, ctx := setupEngine(t)
	s, _ := eng.Open(ctx, stirFry)
	s.ToggleIngredient("vsf-pepper")
	s.ToggleIngredient("vsf-carrot")
	s.ToggleStep("vsf-1")
	s.Increase()

	// Edit the stored recipe behind the session's back.
	r, _ := repo.Get(ctx, stirFry)
	d := recipe.DraftFrom(r)
	d.RemoveIngredient("vsf-carrot")
	d.RemoveStep("vsf-1")
	d.AddIngredient("Cashews", "50", "g")
	d.Name = "Cashew Stir Fry"
	edited, _ := d.Build(time.Now())
	if err := repo.Update(ctx, edited); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := eng.Refresh(ctx, s); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	v := s.View()
	if v.Name != "Cashew Stir Fry" {
		t.Fatalf("name not refreshed: %q", v.Name)
	}
	if v.Servings != 3 {
		t.Fatalf("servings not kept: %d", v.Servings)
	}
	if v.Progress.IngredientsChecked != 1 || v.Progress.StepsChecked != 0 {
		t.Fatalf("unexpected progress after reconcile %+v", v.Progress)
	}
	if !v.Ingredients[0].Checked || v.Ingredients[0].ID != "vsf-pepper" {
		t.Fatalf("pepper should stay checked: %+v", v.Ingredients[0])
	}
	last := v.Ingredients[len(v.Ingredients)-1]
	if last.Name != "Cashews" || last.Checked {
		t.Fatalf("new ingredient should be unchecked: %+v", last)
	}
	for _, b := range v.Steps[2].Badges {
		if b.IngredientID == "vsf-carrot" {
			t.Fatal("badge for removed ingredient still shown")
		}
	}

	// Deleted recipe.
	_ = repo.Delete(ctx, stirFry)
	if err := eng.Refresh(ctx, s); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestView(t *testing.T) {
	eng, _, ctx := setupEngine(t)
	s, _ := eng.Open(ctx, "sample-chicken-alfredo")
	s.SetServings(3)
	s.ToggleStep("ca-2")

	v := s.View()
	if v.Servings != 3 || !v.CanDecrease {
		t.Fatalf("unexpected servings state %d/%v", v.Servings, v.CanDecrease)
	}
	if v.Ingredients[0].Amount != "375" || v.Ingredients[0].Quantity != " (375 g)" {
		t.Fatalf("spaghetti row %+v", v.Ingredients[0])
	}
	salt := v.Ingredients[len(v.Ingredients)-1]
	if salt.Amount != "" || salt.Quantity != " (to taste)" {
		t.Fatalf("salt row %+v", salt)
	}
	if v.Steps[1].Number != 2 || !v.Steps[1].Checked {
		t.Fatalf("step row %+v", v.Steps[1])
	}
	if v.Progress.StepsChecked != 1 || v.Progress.Done() {
		t.Fatalf("progress %+v", v.Progress)
	}
	if !v.OpenedAt.Equal(time.UnixMilli(42)) {
		t.Fatalf("unexpected open time %v", v.OpenedAt)
	}
}

func TestChecklistOverItemsWithoutIDs(t *testing.T) {
	eng, _, ctx := setupEngine(t)

	r := &domain.Recipe{
		ID:           "imported",
		Name:         "Imported",
		BaseServings: "2",
		Ingredients:  []domain.Ingredient{{Name: "Egg", Amount: "2"}, {Name: "Salt"}},
		Steps:        []domain.Step{{Instruction: "Crack"}, {Instruction: "Season"}},
	}
	if err := eng.CreateRecipe(ctx, r); err != nil {
		t.Fatalf("create: %v", err)
	}

	s, err := eng.Open(ctx, "imported")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	v := s.View()
	s.ToggleIngredient(v.Ingredients[0].ID)
	s.ToggleStep(v.Steps[0].ID)

	want := domain.Progress{IngredientsChecked: 1, IngredientsTotal: 2, StepsChecked: 1, StepsTotal: 2}
	if got := s.Progress(); got != want {
		t.Fatalf("expected one item of each checked, got %+v", got)
	}
}

func TestEngineRecipeCRUD(t *testing.T) {
	eng, _, ctx := setupEngine(t)

	list, err := eng.ListRecipes(ctx, "")
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %v, %+v", err, list)
	}
	list, _ = eng.ListRecipes(ctx, "vegan")
	if len(list) != 1 || list[0].ID != stirFry {
		t.Fatalf("search: %+v", list)
	}

	if err := eng.CreateRecipe(ctx, &domain.Recipe{Name: "  "}); !errors.Is(err, domain.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}

	d := recipe.NewDraft()
	d.Name = "Toast"
	d.AddIngredient("Bread", "2", "slices")
	r, err := eng.SaveDraft(ctx, d)
	if err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if r.CreatedAt != 42 {
		t.Fatalf("expected engine clock stamp, got %d", r.CreatedAt)
	}
	if _, err := eng.SaveDraft(ctx, recipe.NewDraft()); !errors.Is(err, domain.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired for empty draft, got %v", err)
	}

	r.Name = "Buttered Toast"
	if err := eng.UpdateRecipe(ctx, r); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := eng.GetRecipe(ctx, r.ID)
	if got.Name != "Buttered Toast" {
		t.Fatalf("update not stored: %q", got.Name)
	}

	if err := eng.DeleteRecipe(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := eng.DeleteRecipe(ctx, r.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
