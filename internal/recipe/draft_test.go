package recipe

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

func TestDraftAddIngredient(t *testing.T) {
	d := NewDraft()

	id := d.AddIngredient("  flour ", " 200 ", " g ")
	if id == "" {
		t.Fatal("expected an id")
	}
	if got := d.AddIngredient("   ", "1", "cup"); got != "" {
		t.Fatalf("blank name should be ignored, got id %q", got)
	}

	want := []domain.Ingredient{{ID: id, Name: "flour", Amount: "200", Unit: "g"}}
	if !reflect.DeepEqual(d.Ingredients, want) {
		t.Fatalf("ingredients = %+v, want %+v", d.Ingredients, want)
	}
}

func TestDraftRemoveIngredientStripsLinks(t *testing.T) {
	d := NewDraft()
	flour := d.AddIngredient("flour", "200", "g")
	milk := d.AddIngredient("milk", "300", "ml")
	s1 := d.AddStep("Whisk")
	s2 := d.AddStep("Pour")
	d.ToggleLink(s1, flour)
	d.ToggleLink(s1, milk)
	d.ToggleLink(s2, flour)

	d.RemoveIngredient(flour)

	if len(d.Ingredients) != 1 || d.Ingredients[0].ID != milk {
		t.Fatalf("unexpected ingredients %+v", d.Ingredients)
	}
	if !reflect.DeepEqual(d.Steps[0].LinkedIngredientIDs, []string{milk}) {
		t.Fatalf("step 1 links = %v", d.Steps[0].LinkedIngredientIDs)
	}
	if len(d.Steps[1].LinkedIngredientIDs) != 0 {
		t.Fatalf("step 2 links = %v", d.Steps[1].LinkedIngredientIDs)
	}
}

func TestDraftSteps(t *testing.T) {
	d := NewDraft()
	s1 := d.AddStep("  Boil water ")
	if d.AddStep("\t") != "" {
		t.Fatal("blank step should be ignored")
	}
	s2 := d.AddStep("Add pasta")

	d.EditStep(s1, "Boil salted water")
	d.EditStep(s2, "   ")
	if d.Steps[0].Instruction != "Boil salted water" || d.Steps[1].Instruction != "Add pasta" {
		t.Fatalf("unexpected steps %+v", d.Steps)
	}

	d.RemoveStep(s1)
	if len(d.Steps) != 1 || d.Steps[0].ID != s2 {
		t.Fatalf("unexpected steps after remove %+v", d.Steps)
	}
}

func TestDraftToggleLinkIgnoresUnknownIngredient(t *testing.T) {
	d := NewDraft()
	s := d.AddStep("Stir")
	d.ToggleLink(s, "ghost")
	if len(d.Steps[0].LinkedIngredientIDs) != 0 {
		t.Fatalf("expected no links, got %v", d.Steps[0].LinkedIngredientIDs)
	}
}

func TestToggleIngredientLink(t *testing.T) {
	steps := []domain.Step{
		{ID: "s1", LinkedIngredientIDs: []string{"a"}},
		{ID: "s2", LinkedIngredientIDs: []string{"a", "b"}},
	}

	added := ToggleIngredientLink(steps, "s1", "c")
	if !reflect.DeepEqual(added[0].LinkedIngredientIDs, []string{"a", "c"}) {
		t.Fatalf("expected append, got %v", added[0].LinkedIngredientIDs)
	}
	if !reflect.DeepEqual(steps[0].LinkedIngredientIDs, []string{"a"}) {
		t.Fatalf("input mutated: %v", steps[0].LinkedIngredientIDs)
	}

	removed := ToggleIngredientLink(steps, "s2", "a")
	if !reflect.DeepEqual(removed[1].LinkedIngredientIDs, []string{"b"}) {
		t.Fatalf("expected removal, got %v", removed[1].LinkedIngredientIDs)
	}
	if !reflect.DeepEqual(steps[1].LinkedIngredientIDs, []string{"a", "b"}) {
		t.Fatalf("input mutated: %v", steps[1].LinkedIngredientIDs)
	}

	twice := ToggleIngredientLink(ToggleIngredientLink(steps, "s1", "z"), "s1", "z")
	if !reflect.DeepEqual(twice, steps) {
		t.Fatalf("double toggle = %+v, want %+v", twice, steps)
	}
}

func TestDraftImages(t *testing.T) {
	d := NewDraft()
	s := d.AddStep("Plate")

	d.SetImage("QUJD")
	if d.Image != "data:image/jpeg;base64,QUJD" {
		t.Fatalf("image = %q", d.Image)
	}
	d.SetStepImage(s, "REVG")
	if d.Steps[0].StepImage != "data:image/jpeg;base64,REVG" {
		t.Fatalf("step image = %q", d.Steps[0].StepImage)
	}
	d.ClearStepImage(s)
	if d.Steps[0].StepImage != "" {
		t.Fatalf("step image not cleared: %q", d.Steps[0].StepImage)
	}
	d.SetImage("")
	if d.Image != "" {
		t.Fatalf("image not cleared: %q", d.Image)
	}
}

func TestDraftBuild(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	d := NewDraft()
	if _, err := d.Build(now); !errors.Is(err, domain.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	d.Name = "   "
	if _, err := d.Build(now); !errors.Is(err, domain.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired for blank name, got %v", err)
	}

	d.Name = "  Soup "
	d.BaseServings = " 4 "
	d.PrepTime = " 10"
	d.CookTime = "30 "
	d.Tags = []string{" winter", "", "winter", "easy"}
	leek := d.AddIngredient("leek", "2", "")
	step := d.AddStep("Chop")
	d.ToggleLink(step, leek)

	r, err := d.Build(now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.ID == "" {
		t.Fatal("expected fresh id")
	}
	if r.Name != "Soup" || r.BaseServings != "4" || r.PrepTime != "10" || r.CookTime != "30" {
		t.Fatalf("fields not trimmed: %+v", r)
	}
	if !reflect.DeepEqual(r.Tags, []string{"winter", "easy"}) {
		t.Fatalf("tags = %v", r.Tags)
	}
	if r.CreatedAt != now.UnixMilli() || r.UpdatedAt != now.UnixMilli() {
		t.Fatalf("stamps = %d/%d", r.CreatedAt, r.UpdatedAt)
	}

	// The built recipe does not alias the draft.
	d.Steps[0].LinkedIngredientIDs[0] = "changed"
	if r.Steps[0].LinkedIngredientIDs[0] != leek {
		t.Fatal("built recipe aliases draft links")
	}
}

func TestDraftFromKeepsIdentity(t *testing.T) {
	orig := sampleRecipe("r1")
	orig.CreatedAt = 1000

	d := DraftFrom(orig)
	d.Name = "Renamed"
	d.RemoveIngredient("i2")

	later := time.UnixMilli(5000)
	r, err := d.Build(later)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.ID != "r1" || r.CreatedAt != 1000 || r.UpdatedAt != 5000 {
		t.Fatalf("identity not kept: id=%s created=%d updated=%d", r.ID, r.CreatedAt, r.UpdatedAt)
	}
	if !reflect.DeepEqual(r.Steps[0].LinkedIngredientIDs, []string{"i1"}) {
		t.Fatalf("links = %v", r.Steps[0].LinkedIngredientIDs)
	}
	if len(orig.Ingredients) != 2 || len(orig.Steps[0].LinkedIngredientIDs) != 2 {
		t.Fatal("editing the draft changed the source recipe")
	}
}
