package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/clipfix/pkg/clipboard"
	"github.com/macropower/clipfix/pkg/config"
	"github.com/macropower/clipfix/pkg/coordinator"
	"github.com/macropower/clipfix/pkg/recipe"
	"github.com/macropower/clipfix/pkg/terminal"
)

// ErrorHandler prints err under a label for its kind. Joined errors, such as
// several invalid recipes, are printed one per line.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))

	if label := errorLabel(err); label != "" {
		mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Bold(true).Render(label)))
	}

	body := lipgloss.NewStyle().MarginLeft(2)
	for _, line := range strings.Split(strings.TrimRight(err.Error(), "\n"), "\n") {
		mustN(fmt.Fprintln(w, body.Render(line)))
	}

	mustN(fmt.Fprintln(w))

	switch {
	case isUsageError(err):
		mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
			lipgloss.Left,
			styles.ErrorText.UnsetWidth().Render("Try"),
			styles.Program.Flag.Render("--help"),
			styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render("for usage."),
		)))
		mustN(fmt.Fprintln(w))

	case errors.Is(err, config.ErrInvalidConfig):
		mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
			lipgloss.Left,
			styles.ErrorText.UnsetWidth().Render("Run"),
			styles.Program.Flag.Render("clipfix --write-config"),
			styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).
				Render("to restore the default configuration."),
		)))
		mustN(fmt.Fprintln(w))
	}
}

func errorLabel(err error) string {
	var (
		patternErr   *recipe.PatternError
		terminalErr  *coordinator.TerminalError
		rawTermErr   *terminal.Error
		clipboardErr *clipboard.Error
	)

	switch {
	case errors.Is(err, config.ErrInvalidConfig):
		return "Invalid configuration"
	case errors.As(err, &patternErr):
		return "Invalid recipe"
	case errors.As(err, &terminalErr), errors.As(err, &rawTermErr):
		return "Terminal error"
	case errors.As(err, &clipboardErr), errors.Is(err, clipboard.ErrUnavailable):
		return "Clipboard error"
	}

	return ""
}

// XXX: this is a hack to detect usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
