package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/macropower/clipfix/pkg/diff"
	"github.com/macropower/clipfix/pkg/keys"
	"github.com/macropower/clipfix/pkg/recipe"
)

const (
	defaultWidth      = 80
	horizontalPadding = 2
	maxDiffLines      = 20
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder

	b.WriteString(m.theme.LogoStyle.Render(" clipfix "))
	b.WriteString(" ")
	b.WriteString(m.theme.SubtleStyle.Render(fmt.Sprintf("%d recipes", len(m.recipes))))
	b.WriteString("\n\n")

	if m.filter.Focused() || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	m.listView(&b, width)
	b.WriteString("\n")
	b.WriteString(m.previewView(width))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString("\n")

		if m.failed {
			b.WriteString(m.theme.StatusErrorStyle.Render(m.status))
		} else {
			b.WriteString(m.theme.StatusReplacedStyle.Render(m.status))
		}

		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.HelpStyle.Render(keys.Help(width, m.keys.help()...)))

	return b.String()
}

func (m Model) listView(b *strings.Builder, width int) {
	if len(m.visible) == 0 {
		b.WriteString(m.theme.SubtleStyle.Render("  No recipes match the filter."))
		b.WriteString("\n")

		return
	}

	truncateTo := uint(max(0, width-horizontalPadding*2)) //nolint:gosec // Uses max.
	filterValue := m.filter.Value()

	for i, idx := range m.visible {
		r := m.recipes[idx]

		title := truncate.StringWithTail(r.String(), truncateTo, m.theme.Ellipsis)
		desc := truncate.StringWithTail(describe(r), truncateTo, m.theme.Ellipsis)

		gutter := " "
		titleStyle := m.theme.GenericTextStyle
		if i == m.cursor {
			gutter = m.theme.SelectedStyle.Render("│")
			titleStyle = m.theme.SelectedStyle
		}

		fmt.Fprintf(b, "%s %s", gutter, styleFiltered(title, filterValue, titleStyle, titleStyle.Underline(true)))

		if err := r.Compile(); err != nil {
			b.WriteString(" ")
			b.WriteString(m.theme.StatusErrorStyle.Render("(invalid)"))
		}

		b.WriteString("\n")
		fmt.Fprintf(b, "%s %s\n", gutter, m.theme.SubtleStyle.Render(desc))
	}
}

func describe(r recipe.Recipe) string {
	s := fmt.Sprintf("%s → %s", r.Pattern, r.Replacement)
	if r.When != "" {
		s += " when " + r.When
	}

	return s
}

func (m Model) previewView(width int) string {
	switch {
	case !m.loaded:
		return m.theme.SubtleStyle.Render("Reading clipboard" + m.theme.Ellipsis)
	case m.clipErr != nil:
		return m.theme.StatusErrorStyle.Render("Clipboard error: " + m.clipErr.Error())
	case m.text == "":
		return m.theme.StatusNoMatchStyle.Render("Clipboard is empty")
	}

	r, ok := m.Selected()
	if !ok {
		return ""
	}

	out, err := r.Apply(m.text)
	if err != nil {
		return m.theme.StatusErrorStyle.Render(err.Error())
	}
	if out == m.text {
		return m.theme.StatusNoMatchStyle.Render("No change")
	}

	styles := m.theme.DiffStyles()

	if !strings.Contains(m.text, "\n") && !strings.Contains(out, "\n") {
		return ansi.Truncate(diff.Inline(m.text, out, styles), width, m.theme.Ellipsis)
	}

	lines := strings.Split(diff.Highlight(diff.Unified(m.text, out), styles), "\n")
	if len(lines) > maxDiffLines {
		lines = append(lines[:maxDiffLines], m.theme.SubtleStyle.Render(m.theme.Ellipsis))
	}

	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, m.theme.Ellipsis)
	}

	return strings.Join(lines, "\n")
}
