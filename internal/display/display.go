// Package display provides the terminal recipe browser using Bubble Tea.
//
// The [Browser] shows a list screen and a detail screen. All store access
// goes through the engine in tea.Cmds so the event loop never blocks on
// I/O.
package display

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/engine"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

const (
	emptyText    = "No recipes yet. Use 'recipebox add' to add your first recipe!"
	notFoundText = "Recipe Not Found"
)

// Option configures a Browser.
type Option func(*Browser)

// WithChanges makes the browser re-list (or refresh the open recipe)
// whenever ch delivers.
func WithChanges(ch <-chan struct{}) Option {
	return func(b *Browser) { b.changes = ch }
}

// Browser is the interactive terminal surface.
type Browser struct {
	engine  *engine.Engine
	log     *logger.Logger
	changes <-chan struct{}
}

// NewBrowser creates the browser. Call Run to start it.
func NewBrowser(eng *engine.Engine, log *logger.Logger, opts ...Option) *Browser {
	b := &Browser{engine: eng, log: log.Named("display")}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Run starts the Bubble Tea event loop. Blocks until the user quits or
// ctx is done.
func (b *Browser) Run(ctx context.Context) error {
	m := newModel(ctx, b.engine, b.log, b.changes)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type screen int

const (
	screenList screen = iota
	screenDetail
)

type model struct {
	ctx     context.Context
	engine  *engine.Engine
	log     *logger.Logger
	changes <-chan struct{}

	screen screen
	width  int
	status string

	// list screen
	recipes   []domain.RecipeSummary
	loaded    bool
	cursor    int
	query     string
	filter    textinput.Model
	filtering bool
	confirm   string // id awaiting delete confirmation

	// detail screen
	session  *engine.Session
	notFound bool
	row      int // cursor over ingredients, then steps
}

type listedMsg struct {
	recipes []domain.RecipeSummary
	err     error
}

type openedMsg struct {
	session *engine.Session
	err     error
}

type deletedMsg struct {
	id  string
	err error
}

type refreshedMsg struct{ err error }

type changedMsg struct{}

func newModel(ctx context.Context, eng *engine.Engine, log *logger.Logger, changes <-chan struct{}) model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.PromptStyle = promptStyle
	ti.TextStyle = primaryStyle
	ti.CharLimit = 120

	return model{
		ctx:     ctx,
		engine:  eng,
		log:     log,
		changes: changes,
		filter:  ti,
	}
}

func (m model) Init() tea.Cmd {
	if m.changes == nil {
		return m.listCmd()
	}
	return tea.Batch(m.listCmd(), waitForChange(m.changes))
}

func (m model) listCmd() tea.Cmd {
	ctx, eng, q := m.ctx, m.engine, m.query
	return func() tea.Msg {
		list, err := eng.ListRecipes(ctx, q)
		return listedMsg{recipes: list, err: err}
	}
}

func (m model) openCmd(id string) tea.Cmd {
	ctx, eng := m.ctx, m.engine
	return func() tea.Msg {
		s, err := eng.Open(ctx, id)
		return openedMsg{session: s, err: err}
	}
}

func (m model) deleteCmd(id string) tea.Cmd {
	ctx, eng := m.ctx, m.engine
	return func() tea.Msg {
		return deletedMsg{id: id, err: eng.DeleteRecipe(ctx, id)}
	}
}

func (m model) refreshCmd() tea.Cmd {
	ctx, eng, s := m.ctx, m.engine, m.session
	return func() tea.Msg {
		return refreshedMsg{err: eng.Refresh(ctx, s)}
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.filter.Width = max(msg.Width-4, 10)
		return m, nil

	case listedMsg:
		m.loaded = true
		if msg.err != nil {
			m.status = domain.UserMessage(msg.err)
			return m, nil
		}
		m.recipes = msg.recipes
		m.cursor = min(m.cursor, max(len(m.recipes)-1, 0))
		return m, nil

	case openedMsg:
		m.screen = screenDetail
		m.row = 0
		m.session = msg.session
		m.notFound = errors.Is(msg.err, domain.ErrNotFound)
		if msg.err != nil && !m.notFound {
			m.status = domain.UserMessage(msg.err)
			m.screen = screenList
		}
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.status = domain.UserMessage(msg.err)
			return m, nil
		}
		m.status = "Deleted."
		return m, m.listCmd()

	case refreshedMsg:
		if errors.Is(msg.err, domain.ErrNotFound) {
			m.session = nil
			m.notFound = true
		} else if msg.err != nil {
			m.status = domain.UserMessage(msg.err)
		}
		return m, nil

	case changedMsg:
		m.log.Debug("store changed on disk")
		next := waitForChange(m.changes)
		if m.screen == screenDetail && m.session != nil {
			return m, tea.Batch(m.refreshCmd(), next)
		}
		if m.screen == screenList {
			return m, tea.Batch(m.listCmd(), next)
		}
		return m, next

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.screen == screenDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	if m.filtering {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.Type {
		case tea.KeyEnter:
			m.filtering = false
			m.query = strings.TrimSpace(m.filter.Value())
			m.filter.Blur()
			m.cursor = 0
			return m, m.listCmd()
		case tea.KeyEsc:
			m.filtering = false
			m.filter.SetValue(m.query)
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}

	if m.confirm != "" {
		id := m.confirm
		m.confirm = ""
		if msg.String() == "y" {
			return m, m.deleteCmd(id)
		}
		m.status = ""
		return m, nil
	}

	m.status = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.recipes)-1 {
			m.cursor++
		}
	case "enter":
		if r, ok := m.selected(); ok {
			return m, m.openCmd(r.ID)
		}
	case "/":
		m.filtering = true
		m.filter.SetValue(m.query)
		m.filter.CursorEnd()
		cmd := m.filter.Focus()
		return m, cmd
	case "r":
		return m, m.listCmd()
	case "d":
		if r, ok := m.selected(); ok {
			m.confirm = r.ID
			m.status = fmt.Sprintf("Delete %q? (y/n)", r.Name)
		}
	}
	return m, nil
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		// Leaving the detail screen discards the overlay and re-lists.
		m.screen = screenList
		m.session = nil
		m.notFound = false
		m.status = ""
		return m, m.listCmd()
	}
	if m.session == nil {
		return m, nil
	}

	v := m.session.View()
	rows := len(v.Ingredients) + len(v.Steps)
	switch msg.String() {
	case "+", "=":
		m.session.Increase()
	case "-":
		m.session.Decrease()
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		if m.row < rows-1 {
			m.row++
		}
	case " ", "x":
		if m.row < len(v.Ingredients) {
			m.session.ToggleIngredient(v.Ingredients[m.row].ID)
		} else if i := m.row - len(v.Ingredients); i < len(v.Steps) {
			m.session.ToggleStep(v.Steps[i].ID)
		}
	}
	return m, nil
}

func (m model) selected() (domain.RecipeSummary, bool) {
	if m.cursor < 0 || m.cursor >= len(m.recipes) {
		return domain.RecipeSummary{}, false
	}
	return m.recipes[m.cursor], true
}

// ── Rendering ───────────────────────────────────────────────────

func (m model) View() string {
	var b strings.Builder
	if m.screen == screenDetail {
		m.renderDetail(&b)
	} else {
		m.renderList(&b)
	}

	if m.status != "" {
		b.WriteString("\n" + urgentStyle.Render("  "+m.status) + "\n")
	}
	b.WriteString("\n" + m.renderBar())
	return b.String()
}

func (m model) renderList(b *strings.Builder) {
	b.WriteString(RenderBanner(m.width))
	b.WriteByte('\n')

	if m.filtering {
		b.WriteString("  " + m.filter.View() + "\n\n")
	} else if m.query != "" {
		b.WriteString(secondaryStyle.Render(fmt.Sprintf("  filter: %s", m.query)) + "\n\n")
	}

	if !m.loaded {
		b.WriteString(secondaryStyle.Render("  Loading...") + "\n")
		return
	}
	if len(m.recipes) == 0 {
		if m.query != "" {
			b.WriteString(secondaryStyle.Render("  No recipes match.") + "\n")
			return
		}
		b.WriteString(secondaryStyle.Render("  "+emptyText) + "\n")
		return
	}

	for i, r := range m.recipes {
		pointer, name := "  ", primaryStyle.Render(r.Name)
		if i == m.cursor {
			pointer, name = selectedStyle.Render("> "), selectedStyle.Render(r.Name)
		}
		b.WriteString("  " + pointer + name)
		if meta := timeMeta(r.PrepTime, r.CookTime); meta != "" {
			b.WriteString(secondaryStyle.Render("  " + meta))
		}
		if len(r.Tags) > 0 {
			b.WriteString(badgeStyle.Render("  #" + strings.Join(r.Tags, " #")))
		}
		b.WriteByte('\n')
	}
}

func (m model) renderDetail(b *strings.Builder) {
	if m.session == nil {
		b.WriteString("\n" + titleStyle.Render("  "+notFoundText) + "\n")
		return
	}
	v := m.session.View()

	b.WriteString("\n" + titleStyle.Render("  "+v.Name) + "\n")
	if meta := timeMeta(v.PrepTime, v.CookTime); meta != "" {
		b.WriteString(secondaryStyle.Render("  "+meta) + "\n")
	}
	if len(v.Tags) > 0 {
		b.WriteString(badgeStyle.Render("  #"+strings.Join(v.Tags, " #")) + "\n")
	}

	minus := primaryStyle.Render("[-]")
	if !v.CanDecrease {
		minus = secondaryStyle.Render("[-]")
	}
	b.WriteString(fmt.Sprintf("\n  Servings: %s %s %s\n", minus, selectedStyle.Render(fmt.Sprint(v.Servings)), primaryStyle.Render("[+]")))

	b.WriteString("\n" + headingStyle.Render(fmt.Sprintf("  Ingredients (%d/%d)", v.Progress.IngredientsChecked, v.Progress.IngredientsTotal)) + "\n")
	for i, ing := range v.Ingredients {
		b.WriteString(m.checkRow(i, ing.Checked, ing.Name+ing.Quantity))
	}

	b.WriteString("\n" + headingStyle.Render(fmt.Sprintf("  Steps (%d/%d)", v.Progress.StepsChecked, v.Progress.StepsTotal)) + "\n")
	for i, st := range v.Steps {
		b.WriteString(m.checkRow(len(v.Ingredients)+i, st.Checked, fmt.Sprintf("%d. %s", st.Number, st.Instruction)))
		if len(st.Badges) > 0 {
			parts := make([]string, 0, len(st.Badges))
			for _, badge := range st.Badges {
				text := badge.Name + badge.Quantity
				if badge.Checked {
					parts = append(parts, checkedStyle.Render(text))
				} else {
					parts = append(parts, badgeStyle.Render(text))
				}
			}
			b.WriteString("        " + strings.Join(parts, secondaryStyle.Render(" · ")) + "\n")
		}
	}

	if v.Notes != "" {
		b.WriteString("\n" + headingStyle.Render("  Notes") + "\n")
		b.WriteString(primaryStyle.Render("  "+v.Notes) + "\n")
	}
	if v.Progress.Done() {
		b.WriteString("\n" + headingStyle.Render("  All steps done. Enjoy!") + "\n")
	}
}

func (m model) checkRow(i int, checked bool, text string) string {
	box := "[ ] "
	style := primaryStyle
	if checked {
		box = "[x] "
		style = checkedStyle
	}
	pointer := "  "
	if i == m.row {
		pointer = selectedStyle.Render("> ")
	}
	return "  " + pointer + secondaryStyle.Render(box) + style.Render(text) + "\n"
}

func (m model) renderBar() string {
	var keys string
	switch {
	case m.screen == screenDetail:
		keys = "+/- servings  ↑/↓ move  space check  esc back  q quit"
	case m.filtering:
		keys = "enter apply  esc cancel"
	default:
		keys = "↑/↓ move  enter open  / filter  r reload  d delete  q quit"
	}
	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(" " + keys + " ")
}

func timeMeta(prep, cook string) string {
	var parts []string
	if prep != "" {
		parts = append(parts, "prep "+prep+"m")
	}
	if cook != "" {
		parts = append(parts, "cook "+cook+"m")
	}
	return strings.Join(parts, " · ")
}
