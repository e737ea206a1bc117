package recipe

import (
	"slices"
	"strings"
	"time"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// jpegDataPrefix is prepended to raw base64 image data before it is stored.
const jpegDataPrefix = "data:image/jpeg;base64,"

// ImageDataURI wraps base64-encoded JPEG data as a data URI. Empty input
// yields an empty string.
func ImageDataURI(b64 string) string {
	if b64 == "" {
		return ""
	}
	return jpegDataPrefix + b64
}

// Draft is a recipe being composed. Text fields are trimmed on Build.
// Ingredient and step ids are minted when they are added and never change.
type Draft struct {
	Name         string
	BaseServings string
	PrepTime     string
	CookTime     string
	Image        string
	Tags         []string
	Notes        string

	Ingredients []domain.Ingredient
	Steps       []domain.Step

	id        string
	createdAt int64
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

// DraftFrom seeds a draft from a stored recipe so it can be edited. Build
// keeps the recipe's id and creation stamp.
func DraftFrom(r *domain.Recipe) *Draft {
	c := r.Clone()
	return &Draft{
		Name:         c.Name,
		BaseServings: c.BaseServings,
		PrepTime:     c.PrepTime,
		CookTime:     c.CookTime,
		Image:        c.Image,
		Tags:         c.Tags,
		Notes:        c.Notes,
		Ingredients:  c.Ingredients,
		Steps:        c.Steps,
		id:           c.ID,
		createdAt:    c.CreatedAt,
	}
}

// AddIngredient appends an ingredient and returns its id. A blank name is
// ignored and returns "".
func (d *Draft) AddIngredient(name, amount, unit string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	ing := domain.Ingredient{
		ID:     NewID(),
		Name:   name,
		Amount: strings.TrimSpace(amount),
		Unit:   strings.TrimSpace(unit),
	}
	d.Ingredients = append(d.Ingredients, ing)
	return ing.ID
}

// RemoveIngredient drops the ingredient and every step link to it.
func (d *Draft) RemoveIngredient(id string) {
	d.Ingredients = slices.DeleteFunc(d.Ingredients, func(ing domain.Ingredient) bool {
		return ing.ID == id
	})
	for i := range d.Steps {
		d.Steps[i].LinkedIngredientIDs = slices.DeleteFunc(d.Steps[i].LinkedIngredientIDs, func(linked string) bool {
			return linked == id
		})
	}
}

// AddStep appends a step with no links and returns its id. A blank
// instruction is ignored and returns "".
func (d *Draft) AddStep(instruction string) string {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return ""
	}
	step := domain.Step{
		ID:                  NewID(),
		Instruction:         instruction,
		LinkedIngredientIDs: []string{},
	}
	d.Steps = append(d.Steps, step)
	return step.ID
}

// RemoveStep drops the step with the given id.
func (d *Draft) RemoveStep(id string) {
	d.Steps = slices.DeleteFunc(d.Steps, func(s domain.Step) bool { return s.ID == id })
}

// EditStep replaces a step's instruction. Blank edits are ignored.
func (d *Draft) EditStep(id, instruction string) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return
	}
	if s := d.step(id); s != nil {
		s.Instruction = instruction
	}
}

// ToggleLink links ingredientID to stepID, or unlinks it if already linked.
// Ids that are not part of the draft are ignored.
func (d *Draft) ToggleLink(stepID, ingredientID string) {
	if !slices.ContainsFunc(d.Ingredients, func(ing domain.Ingredient) bool { return ing.ID == ingredientID }) {
		return
	}
	d.Steps = ToggleIngredientLink(d.Steps, stepID, ingredientID)
}

// ToggleIngredientLink returns a copy of steps where the step with stepID
// has ingredientID appended to its links, or removed if already present.
// steps is not modified.
func ToggleIngredientLink(steps []domain.Step, stepID, ingredientID string) []domain.Step {
	out := cloneSteps(steps)
	for i := range out {
		if out[i].ID != stepID {
			continue
		}
		links := out[i].LinkedIngredientIDs
		if j := slices.Index(links, ingredientID); j >= 0 {
			out[i].LinkedIngredientIDs = slices.Delete(links, j, j+1)
		} else {
			out[i].LinkedIngredientIDs = append(links, ingredientID)
		}
	}
	return out
}

func cloneSteps(steps []domain.Step) []domain.Step {
	out := make([]domain.Step, len(steps))
	for i, s := range steps {
		s.LinkedIngredientIDs = slices.Clone(s.LinkedIngredientIDs)
		if s.LinkedIngredientIDs == nil {
			s.LinkedIngredientIDs = []string{}
		}
		out[i] = s
	}
	return out
}

// SetImage sets the recipe photo from raw base64 data. Empty clears it.
func (d *Draft) SetImage(b64 string) {
	d.Image = ImageDataURI(b64)
}

// SetStepImage sets a step photo from raw base64 data.
func (d *Draft) SetStepImage(stepID, b64 string) {
	if s := d.step(stepID); s != nil {
		s.StepImage = ImageDataURI(b64)
	}
}

// ClearStepImage removes a step photo.
func (d *Draft) ClearStepImage(stepID string) {
	if s := d.step(stepID); s != nil {
		s.StepImage = ""
	}
}

// Build validates the draft and returns the recipe it describes. The
// returned recipe shares nothing with the draft.
func (d *Draft) Build(now time.Time) (*domain.Recipe, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	stamp := domain.Millis(now)
	r := &domain.Recipe{
		ID:           d.id,
		Name:         name,
		Ingredients:  slices.Clone(d.Ingredients),
		Steps:        cloneSteps(d.Steps),
		BaseServings: strings.TrimSpace(d.BaseServings),
		PrepTime:     strings.TrimSpace(d.PrepTime),
		CookTime:     strings.TrimSpace(d.CookTime),
		Image:        d.Image,
		Notes:        strings.TrimSpace(d.Notes),
		CreatedAt:    d.createdAt,
		UpdatedAt:    stamp,
	}
	if r.ID == "" {
		r.ID = NewID()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = stamp
	}
	if r.Ingredients == nil {
		r.Ingredients = []domain.Ingredient{}
	}
	for _, tag := range d.Tags {
		if tag = strings.TrimSpace(tag); tag != "" && !slices.Contains(r.Tags, tag) {
			r.Tags = append(r.Tags, tag)
		}
	}
	return r, nil
}

func (d *Draft) step(id string) *domain.Step {
	for i := range d.Steps {
		if d.Steps[i].ID == id {
			return &d.Steps[i]
		}
	}
	return nil
}
