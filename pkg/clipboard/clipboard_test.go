package clipboard_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/clipfix/pkg/clipboard"
	"github.com/macropower/clipfix/pkg/recipe"
)

var recipes = []recipe.Recipe{
	{Name: "old jira", Pattern: "/browse/(.*)", Replacement: "/browse/$1?oldIssueView=true"},
	{Name: "old reddit", Pattern: "//reddit.com/", Replacement: "//old.reddit.com/"},
}

func TestReplace(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	tcs := map[string]struct {
		getErr       error
		setErr       error
		wantErrIs    error
		text         string
		wantText     string
		wantOp       string
		wantSets     int
		wantReplaced bool
	}{
		"fix found": {
			text:         "https://reddit.com/r/unixporn",
			wantText:     "https://old.reddit.com/r/unixporn",
			wantSets:     1,
			wantReplaced: true,
		},
		"no fix": {
			text:     "https://example.com/",
			wantText: "https://example.com/",
		},
		"empty clipboard": {
			wantOp:    "get",
			wantErrIs: clipboard.ErrEmpty,
		},
		"read failure": {
			text:      "https://reddit.com/",
			getErr:    errBoom,
			wantText:  "https://reddit.com/",
			wantOp:    "get",
			wantErrIs: errBoom,
		},
		"write failure": {
			text:      "https://reddit.com/",
			setErr:    clipboard.ErrUnavailable,
			wantText:  "https://reddit.com/",
			wantOp:    "set",
			wantErrIs: clipboard.ErrUnavailable,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			mem := clipboard.NewMemory(tc.text)
			mem.FailGet(tc.getErr)
			mem.FailSet(tc.setErr)

			res, err := clipboard.Replace(t.Context(), mem, recipes)
			if tc.wantErrIs != nil {
				var cerr *clipboard.Error
				require.ErrorAs(t, err, &cerr)
				assert.Equal(t, tc.wantOp, cerr.Op)
				require.ErrorIs(t, err, tc.wantErrIs)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.wantReplaced, res.Replaced)
			assert.Equal(t, tc.wantSets, mem.Sets())
			assert.Equal(t, tc.wantText, mem.Text())
		})
	}
}

func TestReplaceWritesOnce(t *testing.T) {
	t.Parallel()

	mem := clipboard.NewMemory("https://reddit.com/r/golang")

	res, err := clipboard.Replace(t.Context(), mem, recipes)
	require.NoError(t, err)
	assert.True(t, res.Replaced)
	assert.Equal(t, "https://reddit.com/r/golang", res.Before)
	assert.Equal(t, "old reddit", res.Match.Recipe.Name)

	// The rewritten text no longer matches, so nothing is written.
	res, err = clipboard.Replace(t.Context(), mem, recipes)
	require.NoError(t, err)
	assert.False(t, res.Replaced)
	assert.Equal(t, 1, mem.Sets())
	assert.Equal(t, "https://old.reddit.com/r/golang", mem.Text())
}

func TestReplaceRereadsClipboard(t *testing.T) {
	t.Parallel()

	mem := clipboard.NewMemory("nothing here")

	res, err := clipboard.Replace(t.Context(), mem, recipes)
	require.NoError(t, err)
	assert.False(t, res.Replaced)

	require.NoError(t, mem.Set("https://reddit.com/"))

	res, err = clipboard.Replace(t.Context(), mem, recipes)
	require.NoError(t, err)
	assert.True(t, res.Replaced)
	assert.Equal(t, "https://old.reddit.com/", mem.Text())
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	err := &clipboard.Error{Op: "get", Err: clipboard.ErrUnavailable}
	assert.Equal(t, "clipboard get: clipboard unavailable", err.Error())
	require.ErrorIs(t, err, clipboard.ErrUnavailable)
}

func TestWithOSC52(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	s := clipboard.NewSystem(clipboard.WithOSC52(&buf))
	require.NotNil(t, s)

	// A nil writer disables the fallback.
	s = clipboard.NewSystem(clipboard.WithOSC52(nil))
	require.NotNil(t, s)
}
