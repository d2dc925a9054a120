package yaml

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/muesli/termenv"
)

// FormatterForProfile returns the chroma formatter name for a terminal
// color profile.
func FormatterForProfile(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal8"
	default:
		return "noop"
	}
}

// Highlight returns source highlighted with style, using the named chroma
// formatter.
func Highlight(source []byte, style *chroma.Style, formatter string) (string, error) {
	lexer := chroma.Coalesce(lexers.Get("YAML"))

	it, err := lexer.Tokenise(nil, string(source))
	if err != nil {
		return "", fmt.Errorf("tokenise: %w", err)
	}

	var buf bytes.Buffer

	err = formatters.Get(formatter).Format(&buf, style, it)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	return buf.String(), nil
}
