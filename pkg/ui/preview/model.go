// Package preview implements an interactive recipe browser.
//
// It lists the configured recipes with a fuzzy filter, shows the effect of
// the selected recipe on the current clipboard as a diff, and applies it on
// request. Unlike the coordinator, which always applies the first matching
// recipe, the preview applies exactly the recipe the user picked.
package preview

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/clipfix/pkg/clipboard"
	"github.com/macropower/clipfix/pkg/recipe"
	"github.com/macropower/clipfix/pkg/ui/theme"
)

// ClipboardMsg carries the result of reading the clipboard.
type ClipboardMsg struct {
	Err  error
	Text string
}

// AppliedMsg carries the result of writing a recipe's output.
type AppliedMsg struct {
	Err    error
	Recipe recipe.Recipe
	Text   string
}

// Config configures a [Model].
type Config struct {
	Clipboard clipboard.Adapter
	Theme     *theme.Theme
	KeyBinds  *KeyBinds
	Recipes   []recipe.Recipe
}

// Model is the preview bubbletea model.
type Model struct {
	clip     clipboard.Adapter
	clipErr  error
	theme    *theme.Theme
	keys     *KeyBinds
	filter   textinput.Model
	status   string
	text     string
	recipes  []recipe.Recipe
	visible  []int
	cursor   int
	width    int
	height   int
	loaded   bool
	failed   bool
	quitting bool
}

// New creates a new [Model].
func New(c Config) Model {
	if c.Theme == nil {
		c.Theme = theme.Default
	}
	if c.KeyBinds == nil {
		c.KeyBinds = DefaultKeyBinds()
	}

	fi := textinput.New()
	fi.Prompt = "Find:"
	fi.PromptStyle = c.Theme.FilterStyle.MarginRight(1)
	fi.Cursor.Style = c.Theme.CursorStyle.MarginRight(1)

	return Model{
		clip:    c.Clipboard,
		theme:   c.Theme,
		keys:    c.KeyBinds,
		filter:  fi,
		recipes: c.Recipes,
		visible: filterRecipes("", c.Recipes),
	}
}

func (m Model) Init() tea.Cmd {
	return m.readClipboard
}

func (m Model) readClipboard() tea.Msg {
	text, err := m.clip.Get()

	return ClipboardMsg{Text: text, Err: err}
}

func (m Model) apply(r recipe.Recipe, out string) tea.Cmd {
	return func() tea.Msg {
		err := m.clip.Set(out)
		if err != nil {
			err = &clipboard.Error{Op: "set", Err: err}
		}

		return AppliedMsg{Recipe: r, Text: out, Err: err}
	}
}

//nolint:ireturn // Must satisfy [tea.Model].
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filter.Width = max(0, msg.Width-len(m.filter.Prompt)-4)

		return m, nil

	case ClipboardMsg:
		m.loaded = true
		m.text = msg.Text
		m.clipErr = nil

		if msg.Err != nil && !errors.Is(msg.Err, clipboard.ErrEmpty) {
			m.clipErr = &clipboard.Error{Op: "get", Err: msg.Err}
		}

		return m, nil

	case AppliedMsg:
		if msg.Err != nil {
			m.failed = true
			m.status = msg.Err.Error()

			return m, nil
		}

		m.failed = false
		m.text = msg.Text
		m.status = "Applied " + msg.Recipe.String()

		return m, nil

	case tea.KeyMsg:
		if m.filter.Focused() {
			return m.updateFilter(msg)
		}

		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()

	switch {
	case m.keys.ClearFilter.Match(key):
		m.filter.Reset()
		m.filter.Blur()
		m.refilter()

		return m, nil

	case m.keys.Apply.Match(key):
		m.filter.Blur()

		return m, nil

	case key == "ctrl+c":
		m.quitting = true

		return m, tea.Quit
	}

	var cmd tea.Cmd

	m.filter, cmd = m.filter.Update(msg)
	m.refilter()

	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()

	switch {
	case m.keys.Quit.Match(key):
		m.quitting = true

		return m, tea.Quit

	case m.keys.Up.Match(key):
		if m.cursor > 0 {
			m.cursor--
		}

	case m.keys.Down.Match(key):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case m.keys.Filter.Match(key):
		m.filter.CursorEnd()

		return m, m.filter.Focus()

	case m.keys.ClearFilter.Match(key):
		m.filter.Reset()
		m.refilter()

	case m.keys.Refresh.Match(key):
		m.status = ""

		return m, m.readClipboard

	case m.keys.Apply.Match(key):
		return m.applySelected()
	}

	return m, nil
}

func (m Model) applySelected() (Model, tea.Cmd) {
	r, ok := m.Selected()
	if !ok || !m.loaded || m.clipErr != nil {
		return m, nil
	}

	out, err := r.Apply(m.text)
	if err != nil {
		m.failed = true
		m.status = err.Error()

		return m, nil
	}
	if out == m.text {
		m.failed = false
		m.status = fmt.Sprintf("%s does not change the clipboard", r.String())

		return m, nil
	}

	return m, m.apply(r, out)
}

func (m *Model) refilter() {
	m.visible = filterRecipes(m.filter.Value(), m.recipes)
	m.cursor = min(m.cursor, max(0, len(m.visible)-1))
}

// Selected returns the recipe under the cursor.
func (m Model) Selected() (recipe.Recipe, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return recipe.Recipe{}, false
	}

	return m.recipes[m.visible[m.cursor]], true
}

// Text returns the last known clipboard text.
func (m Model) Text() string {
	return m.text
}
