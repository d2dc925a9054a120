// Package diff renders the difference between clipboard text before and after
// a rewrite.
package diff

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/lipgloss"
)

// Unified returns a unified diff of before and after. It returns an empty
// string when the texts are equal.
func Unified(before, after string) string {
	if before == after {
		return ""
	}

	return udiff.Unified("clipboard", "rewritten", withNewline(before), withNewline(after))
}

// Change is a changed span of the original text.
type Change struct {
	New   string // Replacement text.
	Start int    // Byte offset in the original text.
	End   int    // Byte offset in the original text (exclusive).
}

// Changes returns the edits that transform before into after.
func Changes(before, after string) []Change {
	edits := udiff.Strings(before, after)

	changes := make([]Change, 0, len(edits))
	for _, e := range edits {
		changes = append(changes, Change{Start: e.Start, End: e.End, New: e.New})
	}

	return changes
}

// Styles for [Highlight].
type Styles struct {
	Header   lipgloss.Style
	Inserted lipgloss.Style
	Deleted  lipgloss.Style
}

// Highlight styles the lines of a unified diff.
func Highlight(unified string, s Styles) string {
	if unified == "" {
		return ""
	}

	lines := strings.Split(strings.TrimSuffix(unified, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			lines[i] = s.Header.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = s.Inserted.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = s.Deleted.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}

// Inline renders after with changed spans styled, and removed spans styled
// and struck through in place.
func Inline(before, after string, s Styles) string {
	changes := Changes(before, after)
	if len(changes) == 0 {
		return before
	}

	var b strings.Builder

	last := 0
	for _, c := range changes {
		b.WriteString(before[last:c.Start])

		if c.End > c.Start {
			b.WriteString(s.Deleted.Strikethrough(true).Render(before[c.Start:c.End]))
		}
		if c.New != "" {
			b.WriteString(s.Inserted.Render(c.New))
		}

		last = c.End
	}

	b.WriteString(before[last:])

	return b.String()
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}

	return s + "\n"
}
