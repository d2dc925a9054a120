package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/clipfix/internal/cli"
	"github.com/macropower/clipfix/pkg/clipboard"
	"github.com/macropower/clipfix/pkg/config"
	"github.com/macropower/clipfix/pkg/coordinator"
	"github.com/macropower/clipfix/pkg/recipe"
)

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	invalidRecipes := recipe.Validate([]recipe.Recipe{
		{Name: "ok", Pattern: "a", Replacement: "b"},
		{Name: "open group", Pattern: "(", Replacement: "b"},
		{Name: "bad class", Pattern: "[z-a]", Replacement: "b"},
	})
	require.Error(t, invalidRecipes)

	tcs := map[string]struct {
		err       error
		label     string
		lines     []string
		wantHint  string
		wantUsage bool
	}{
		"invalid recipes one per line": {
			err:   fmt.Errorf("%w: config.yaml:\n%w", config.ErrInvalidConfig, invalidRecipes),
			label: "Invalid configuration",
			lines: []string{
				"invalid config: config.yaml:",
				`recipe 1 (open group): invalid pattern "(":`,
				`recipe 2 (bad class): invalid pattern "[z-a]":`,
			},
			wantHint: "--write-config",
		},
		"single recipe": {
			err:   invalidRecipes.(interface{ Unwrap() []error }).Unwrap()[0],
			label: "Invalid recipe",
			lines: []string{`recipe 1 (open group)`},
		},
		"terminal": {
			err:   &coordinator.TerminalError{Op: "open", Err: errors.New("not a terminal")},
			label: "Terminal error",
			lines: []string{"terminal open: not a terminal"},
		},
		"clipboard": {
			err:   fmt.Errorf("rewrite clipboard: %w", &clipboard.Error{Op: "get", Err: clipboard.ErrUnavailable}),
			label: "Clipboard error",
			lines: []string{"rewrite clipboard:"},
		},
		"usage": {
			err:       errors.New("unknown flag: --nope"),
			lines:     []string{"unknown flag: --nope"},
			wantUsage: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			cli.ErrorHandler(&buf, fang.Styles{}, tc.err)

			out := buf.String()
			lines := strings.Split(out, "\n")

			if tc.label != "" {
				assert.Contains(t, out, tc.label)
			}
			for _, l := range []string{"Invalid configuration", "Invalid recipe", "Terminal error", "Clipboard error"} {
				if l != tc.label {
					assert.NotContains(t, out, l)
				}
			}

			// Each expected message starts its own line.
			for _, want := range tc.lines {
				found := false
				for _, line := range lines {
					if strings.HasPrefix(strings.TrimSpace(line), want) {
						found = true

						break
					}
				}

				assert.True(t, found, "no line starts with %q in:\n%s", want, out)
			}

			if tc.wantHint != "" {
				assert.Contains(t, out, tc.wantHint)
			}
			if tc.wantUsage {
				assert.Contains(t, out, "--help")
			} else {
				assert.NotContains(t, out, "--help")
			}
		})
	}
}
