package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/engine"
	"github.com/hammamikhairi/recipebox/internal/recipe"
)

const emptyText = "No recipes yet. Use 'recipebox add' to add your first recipe!"

// ListCmd implements 'list'.
type ListCmd struct {
	Query string `help:"Only list recipes matching this text"`
}

func (c *ListCmd) Run(g *Globals) error {
	app, err := g.open(false)
	if err != nil {
		return err
	}
	defer app.Close()

	list, err := app.Engine.ListRecipes(g.ctx, c.Query)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		if c.Query != "" {
			fmt.Fprintf(g.out, "No recipes match %q.\n", c.Query)
			return nil
		}
		fmt.Fprintln(g.out, emptyText)
		return nil
	}

	tw := tabwriter.NewWriter(g.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPREP\tCOOK\tTAGS")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, minutes(r.PrepTime), minutes(r.CookTime), strings.Join(r.Tags, ", "))
	}
	return tw.Flush()
}

// ShowCmd implements 'show'.
type ShowCmd struct {
	ID       string `arg:"" help:"Recipe id"`
	Servings int    `short:"s" help:"Scale to this many servings (default: the recipe's own)"`
	JSON     bool   `name:"json" help:"Print the scaled view as JSON"`
}

func (c *ShowCmd) Run(g *Globals) error {
	app, err := g.open(false)
	if err != nil {
		return err
	}
	defer app.Close()

	s, err := app.Engine.Open(g.ctx, c.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return errors.New("Recipe Not Found")
	}
	if err != nil {
		return err
	}
	if c.Servings != 0 {
		s.SetServings(c.Servings)
	}

	v := s.View()
	if c.JSON {
		enc := json.NewEncoder(g.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	printView(g, v)
	return nil
}

func printView(g *Globals, v engine.View) {
	w := g.out
	fmt.Fprintln(w, v.Name)
	var meta []string
	if v.PrepTime != "" {
		meta = append(meta, "prep "+minutes(v.PrepTime))
	}
	if v.CookTime != "" {
		meta = append(meta, "cook "+minutes(v.CookTime))
	}
	if len(v.Tags) > 0 {
		meta = append(meta, "#"+strings.Join(v.Tags, " #"))
	}
	if len(meta) > 0 {
		fmt.Fprintln(w, strings.Join(meta, " · "))
	}
	fmt.Fprintf(w, "Servings: %d\n", v.Servings)

	fmt.Fprintln(w, "\nIngredients")
	for _, ing := range v.Ingredients {
		fmt.Fprintf(w, "  - %s%s\n", ing.Name, ing.Quantity)
	}

	fmt.Fprintln(w, "\nSteps")
	for _, st := range v.Steps {
		fmt.Fprintf(w, "  %d. %s\n", st.Number, st.Instruction)
		if len(st.Badges) == 0 {
			continue
		}
		uses := make([]string, 0, len(st.Badges))
		for _, b := range st.Badges {
			uses = append(uses, b.Name+b.Quantity)
		}
		fmt.Fprintf(w, "     uses: %s\n", strings.Join(uses, ", "))
	}

	if v.Notes != "" {
		fmt.Fprintf(w, "\nNotes\n  %s\n", v.Notes)
	}
}

func minutes(s string) string {
	if s == "" {
		return "-"
	}
	return s + "m"
}

// AddCmd implements 'add'.
type AddCmd struct {
	Name        string   `required:"" help:"Recipe name"`
	Servings    string   `help:"Base servings"`
	Prep        string   `help:"Prep time in minutes"`
	Cook        string   `help:"Cook time in minutes"`
	Ingredients []string `name:"ingredient" short:"i" sep:"none" help:"Ingredient as \"name|amount|unit\" (repeatable)"`
	Steps       []string `name:"step" sep:"none" help:"Step as \"instruction|1,2\" linking ingredients by position (repeatable)"`
	Image       string   `help:"Image file to attach"`
	Tags        []string `name:"tag" help:"Tag (repeatable)"`
	Notes       string   `help:"Free-form notes"`
}

func (c *AddCmd) Run(g *Globals) error {
	d, err := c.draft()
	if err != nil {
		return err
	}

	app, err := g.open(false)
	if err != nil {
		return err
	}
	defer app.Close()

	r, err := app.Engine.SaveDraft(g.ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.out, "Added %s (%s)\n", r.Name, r.ID)
	return nil
}

// draft turns the flags into a recipe draft.
func (c *AddCmd) draft() (*recipe.Draft, error) {
	d := recipe.NewDraft()
	d.Name = c.Name
	d.BaseServings = c.Servings
	d.PrepTime = c.Prep
	d.CookTime = c.Cook
	d.Tags = c.Tags
	d.Notes = c.Notes

	var ingIDs []string
	for _, arg := range c.Ingredients {
		parts := strings.SplitN(arg, "|", 3)
		for len(parts) < 3 {
			parts = append(parts, "")
		}
		id := d.AddIngredient(parts[0], strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]))
		if id == "" {
			return nil, fmt.Errorf("ingredient %q has no name", arg)
		}
		ingIDs = append(ingIDs, id)
	}

	for _, arg := range c.Steps {
		instruction, links, _ := strings.Cut(arg, "|")
		stepID := d.AddStep(instruction)
		if stepID == "" {
			return nil, fmt.Errorf("step %q has no instruction", arg)
		}
		linked := make(map[int]bool)
		for _, field := range strings.FieldsFunc(links, func(r rune) bool { return r == ',' || r == ' ' }) {
			n, err := strconv.Atoi(field)
			if err != nil || n < 1 || n > len(ingIDs) {
				return nil, fmt.Errorf("step %q links ingredient %q, want 1..%d", instruction, field, len(ingIDs))
			}
			if !linked[n] {
				linked[n] = true
				d.ToggleLink(stepID, ingIDs[n-1])
			}
		}
	}

	if c.Image != "" {
		data, err := os.ReadFile(c.Image)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		d.SetImage(base64.StdEncoding.EncodeToString(data))
	}
	return d, nil
}

// ImportCmd implements 'import'.
type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"YAML or JSON file holding a list of recipes"`
}

func (c *ImportCmd) Run(g *Globals) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	recipes, err := decodeRecipes(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", c.File, err)
	}

	app, err := g.open(false)
	if err != nil {
		return err
	}
	defer app.Close()

	for i := range recipes {
		r := &recipes[i]
		if err := app.Engine.CreateRecipe(g.ctx, r); err != nil {
			return fmt.Errorf("import %q: %w", r.Name, err)
		}
		fmt.Fprintf(g.out, "Imported %s (%s)\n", r.Name, r.ID)
	}
	fmt.Fprintf(g.out, "%d recipe(s) imported.\n", len(recipes))
	return nil
}

// decodeRecipes accepts a list of recipes or a single recipe. JSON is
// valid YAML, so one decoder covers both.
func decodeRecipes(data []byte) ([]domain.Recipe, error) {
	var list []domain.Recipe
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var one domain.Recipe
	if err := yaml.Unmarshal(data, &one); err != nil {
		return nil, err
	}
	return []domain.Recipe{one}, nil
}

// DeleteCmd implements 'delete'.
type DeleteCmd struct {
	ID string `arg:"" help:"Recipe id"`
}

func (c *DeleteCmd) Run(g *Globals) error {
	app, err := g.open(false)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Engine.DeleteRecipe(g.ctx, c.ID); err != nil {
		return err
	}
	fmt.Fprintf(g.out, "Deleted %s\n", c.ID)
	return nil
}

// SeedCmd implements 'seed'.
type SeedCmd struct{}

func (c *SeedCmd) Run(g *Globals) error {
	app, err := g.open(false)
	if err != nil {
		return err
	}
	defer app.Close()

	for _, r := range recipe.Samples() {
		err := app.Engine.CreateRecipe(g.ctx, &r)
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			fmt.Fprintf(g.out, "Skipped %s (already present)\n", r.Name)
		case err != nil:
			return err
		default:
			fmt.Fprintf(g.out, "Added %s (%s)\n", r.Name, r.ID)
		}
	}
	return nil
}
