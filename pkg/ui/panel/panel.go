// Package panel draws the coordinator status panel.
package panel

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/macropower/clipfix/pkg/coordinator"
	"github.com/macropower/clipfix/pkg/keys"
	"github.com/macropower/clipfix/pkg/ui/theme"
	"github.com/macropower/clipfix/pkg/version"
)

const (
	minWidth = 24
	maxWidth = 72
)

// Panel renders a [coordinator.View] as a bordered box.
type Panel struct {
	out   *termenv.Output
	theme *theme.Theme
	size  func() (int, int)
	now   func() time.Time
	title string
}

// Opt configures a [Panel].
type Opt func(*Panel)

// WithTheme sets the theme.
func WithTheme(t *theme.Theme) Opt {
	return func(p *Panel) {
		p.theme = t
	}
}

// WithSize sets the function used to read the terminal size.
func WithSize(size func() (int, int)) Opt {
	return func(p *Panel) {
		p.size = size
	}
}

// WithClock sets the function used to read the current time.
func WithClock(now func() time.Time) Opt {
	return func(p *Panel) {
		p.now = now
	}
}

// New creates a new [Panel] drawing to w.
func New(w io.Writer, opts ...Opt) *Panel {
	p := &Panel{
		out:   termenv.NewOutput(w),
		theme: theme.Default,
		size:  func() (int, int) { return 80, 24 },
		now:   time.Now,
		title: "clipfix " + version.GetVersion(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Render clears the screen and draws v. It implements [coordinator.Renderer].
func (p *Panel) Render(v coordinator.View) error {
	w, _ := p.size()

	p.out.ClearScreen()
	p.out.MoveCursor(1, 1)

	// The terminal is in raw mode, so newlines need a carriage return.
	s := strings.ReplaceAll(p.View(v, w), "\n", "\r\n") + "\r\n"

	if _, err := io.WriteString(p.out, s); err != nil {
		return fmt.Errorf("write panel: %w", err)
	}

	return nil
}

// Clear clears the screen.
func (p *Panel) Clear() {
	p.out.ClearScreen()
	p.out.MoveCursor(1, 1)
}

// View returns v rendered for a terminal of the given width.
func (p *Panel) View(v coordinator.View, termWidth int) string {
	t := p.theme

	// Border and padding take two columns on each side.
	width := max(minWidth, min(maxWidth, termWidth-2))
	inner := width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		t.LogoStyle.Render(p.title),
		" ",
		t.SubtleStyle.Render(v.Mode.String()+" mode"),
	)

	lines := []string{header, ""}

	if v.Mode == coordinator.ModeTimer {
		lines = append(lines, t.GenericTextStyle.Render("Rewriting the clipboard on every tick"))
	} else {
		lines = append(lines, "Status: "+p.statusStyle(v.Status).Render(v.Status.String()))

		if v.Detail != "" {
			wrapped := wordwrap.String(v.Detail, inner)
			for l := range strings.SplitSeq(wrapped, "\n") {
				lines = append(lines, t.SubtleStyle.Render(ansi.Truncate(l, inner, t.Ellipsis)))
			}
		}
	}

	info := []string{humanize.Comma(int64(v.Recipes)) + " " + plural(v.Recipes, "recipe", "recipes")}
	if !v.LastRewrite.IsZero() {
		info = append(info, "last rewrite "+humanize.RelTime(v.LastRewrite, p.now(), "ago", "from now"))
	}

	lines = append(lines,
		"",
		t.SubtleStyle.Render(ansi.Truncate(strings.Join(info, " "+theme.Bullet+" "), inner, t.Ellipsis)),
		t.HelpStyle.Render(keys.Help(inner, v.Keys.Trigger, v.Keys.Quit)),
	)

	if v.Mode == coordinator.ModeTimer {
		lines[len(lines)-1] = t.HelpStyle.Render(keys.Help(inner, v.Keys.Quit))
	}

	return t.BorderStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (p *Panel) statusStyle(s coordinator.Status) lipgloss.Style {
	switch s {
	case coordinator.StatusReplaced:
		return p.theme.StatusReplacedStyle
	case coordinator.StatusNoMatch:
		return p.theme.StatusNoMatchStyle
	case coordinator.StatusClipboardError:
		return p.theme.StatusErrorStyle
	default:
		return p.theme.StatusWaitingStyle
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
