// Package theme derives lipgloss styles from a chroma style, so that the
// panel, the preview and highlighted config all share one palette.
package theme

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/macropower/clipfix/pkg/diff"
)

// ErrInvalidName is returned by [Register] for an empty name.
var ErrInvalidName = errors.New("invalid theme name")

// Icons.
const (
	Ellipsis = "…"
	Bullet   = "•"
)

var Default = New("github")

type Theme struct {
	BorderStyle         lipgloss.Style
	CursorStyle         lipgloss.Style
	DiffDeletedStyle    lipgloss.Style
	DiffHeaderStyle     lipgloss.Style
	DiffInsertedStyle   lipgloss.Style
	FilterStyle         lipgloss.Style
	GenericTextStyle    lipgloss.Style
	HelpStyle           lipgloss.Style
	LogoStyle           lipgloss.Style
	SelectedStyle       lipgloss.Style
	StatusErrorStyle    lipgloss.Style
	StatusNoMatchStyle  lipgloss.Style
	StatusReplacedStyle lipgloss.Style
	StatusWaitingStyle  lipgloss.Style
	SubtleStyle         lipgloss.Style

	ChromaStyle *chroma.Style
	Ellipsis    string
}

func New(theme string) *Theme {
	style := newChromaStyle(theme)

	var (
		genericStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.Background))

		logoStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromTokenBg(chroma.Background)).
				Background(style.lipglossFromToken(chroma.NameTag)).
				Bold(true).
				Padding(0, 1)

		selectedStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.NameTag))

		cursorStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromTokenWithFactor(chroma.NameTag, 0.3))

		subtleStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.Comment))

		helpStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromTokenWithFactor(chroma.Comment, 0.1))

		borderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(style.lipglossFromTokenWithFactor(chroma.NameTag, 0.2)).
				Padding(0, 1)

		insertedStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.GenericInserted))

		deletedStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.GenericDeleted))

		headerStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.GenericSubheading))
	)

	return &Theme{
		BorderStyle:         borderStyle,
		CursorStyle:         cursorStyle,
		DiffDeletedStyle:    deletedStyle,
		DiffHeaderStyle:     headerStyle,
		DiffInsertedStyle:   insertedStyle,
		FilterStyle:         selectedStyle,
		GenericTextStyle:    genericStyle,
		HelpStyle:           helpStyle,
		LogoStyle:           logoStyle,
		SelectedStyle:       selectedStyle,
		StatusErrorStyle:    deletedStyle.Bold(true),
		StatusNoMatchStyle:  genericStyle.Bold(true),
		StatusReplacedStyle: insertedStyle.Bold(true),
		StatusWaitingStyle:  subtleStyle,
		SubtleStyle:         subtleStyle,

		ChromaStyle: style.style,
		Ellipsis:    Ellipsis,
	}
}

// DiffStyles returns the styles used to highlight diffs.
func (t *Theme) DiffStyles() diff.Styles {
	return diff.Styles{
		Header:   t.DiffHeaderStyle,
		Inserted: t.DiffInsertedStyle,
		Deleted:  t.DiffDeletedStyle,
	}
}

// Register adds a custom chroma style that can then be selected by name.
func Register(name string, entries chroma.StyleEntries) error {
	if name == "" {
		return ErrInvalidName
	}

	customTheme, err := chroma.NewStyle(name, entries)
	if err != nil {
		return fmt.Errorf("create chroma style: %w", err)
	}

	styles.Register(customTheme)

	return nil
}

type chromaStyle struct {
	style *chroma.Style
}

func newChromaStyle(theme string) chromaStyle {
	s := styles.Get(getStyle(theme))
	if s == nil {
		s = styles.Fallback
	}

	return chromaStyle{
		style: s,
	}
}

func (cs chromaStyle) lipglossFromToken(c chroma.TokenType) lipgloss.Color {
	s := cs.style.Get(c)

	return lipgloss.Color(s.Colour.String()) //nolint:misspell // Chroma naming.
}

func (cs chromaStyle) lipglossFromTokenBg(c chroma.TokenType) lipgloss.Color {
	s := cs.style.Get(c)

	return lipgloss.Color(s.Background.String())
}

func (cs chromaStyle) lipglossFromTokenWithFactor(c chroma.TokenType, factor float64) lipgloss.Color {
	s := cs.style.Get(c)

	sc := s.Colour.BrightenOrDarken(factor) //nolint:misspell // Chroma naming.

	return lipgloss.Color(sc.String())
}

func getStyle(style string) string {
	switch style {
	case "dark":
		return "github-dark"
	case "light":
		return "github"
	case "auto", "":
		return getDefaultStyle()
	default:
		return style
	}
}

func getDefaultStyle() string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return "" // Fallback.
	}
	if termenv.HasDarkBackground() {
		return "github-dark"
	}

	return "github"
}
