package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/clipfix/pkg/expr"
)

func TestEnvironmentMatch(t *testing.T) {
	t.Parallel()

	env, err := expr.NewEnvironment()
	require.NoError(t, err)

	tcs := map[string]struct {
		expression string
		text       string
		want       bool
		wantErr    bool
	}{
		"standard string function": {
			expression: `text.startsWith("https://")`,
			text:       "https://reddit.com/r/golang",
			want:       true,
		},
		"isURL true": {
			expression: `isURL(text)`,
			text:       "https://example.com/a",
			want:       true,
		},
		"isURL false for plain text": {
			expression: `isURL(text)`,
			text:       "just some words",
			want:       false,
		},
		"urlHost": {
			expression: `urlHost(text) == "reddit.com"`,
			text:       "https://reddit.com:443/r/unixporn",
			want:       true,
		},
		"urlScheme and urlPath": {
			expression: `urlScheme(text) == "https" && urlPath(text).startsWith("/browse/")`,
			text:       "https://jira.example.com/browse/ABC-1",
			want:       true,
		},
		"urlHost of non-url is empty": {
			expression: `urlHost(text) == ""`,
			text:       "%zz not a url",
			want:       true,
		},
		"lineCount": {
			expression: `lineCount(text) == 2`,
			text:       "a\nb\n",
			want:       true,
		},
		"lineCount empty": {
			expression: `lineCount(text) == 0`,
			text:       "",
			want:       true,
		},
		"strings extension": {
			expression: `text.lowerAscii() == "abc"`,
			text:       "ABC",
			want:       true,
		},
		"syntax error": {
			expression: `text.startsWith(`,
			wantErr:    true,
		},
		"non-bool result": {
			expression: `text + "x"`,
			wantErr:    true,
		},
		"unknown variable": {
			expression: `files.size() > 0`,
			wantErr:    true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := env.Match(tc.expression, tc.text)
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEnvironmentCompileCaches(t *testing.T) {
	t.Parallel()

	env := expr.MustNewEnvironment()

	p1, err := env.Compile(`isURL(text)`)
	require.NoError(t, err)

	p2, err := env.Compile(`isURL(text)`)
	require.NoError(t, err)

	assert.Same(t, p1, p2)
}

func TestNonBoolIsErrNotBool(t *testing.T) {
	t.Parallel()

	_, err := expr.Default.Compile(`lineCount(text)`)
	require.ErrorIs(t, err, expr.ErrNotBool)
}
