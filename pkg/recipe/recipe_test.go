package recipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/clipfix/pkg/recipe"
)

var (
	oldReddit = recipe.Recipe{
		Name:        "old reddit",
		Pattern:     "//reddit.com/",
		Replacement: "//old.reddit.com/",
	}
	oldJira = recipe.Recipe{
		Name:        "old jira",
		Pattern:     "/browse/(.*)",
		Replacement: "/browse/$1?oldIssueView=true",
	}
)

func TestApply(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		recipe  recipe.Recipe
		input   string
		want    string
		wantErr bool
	}{
		"reddit": {
			recipe: oldReddit,
			input:  "https://reddit.com/r/unixporn",
			want:   "https://old.reddit.com/r/unixporn",
		},
		"capture group": {
			recipe: oldJira,
			input:  "https://jira.example.com/browse/ABC-123",
			want:   "https://jira.example.com/browse/ABC-123?oldIssueView=true",
		},
		"no match returns input": {
			recipe: oldReddit,
			input:  "https://example.com/",
			want:   "https://example.com/",
		},
		"global substitution": {
			recipe: recipe.Recipe{Pattern: "a", Replacement: "b"},
			input:  "banana",
			want:   "bbnbnb",
		},
		"named group": {
			recipe: recipe.Recipe{Pattern: `(?P<user>\w+)@example\.com`, Replacement: "${user}@example.org"},
			input:  "alice@example.com, bob@example.com",
			want:   "alice@example.org, bob@example.org",
		},
		"empty input": {
			recipe: oldReddit,
			input:  "",
			want:   "",
		},
		"guard true": {
			recipe: recipe.Recipe{Pattern: "x", Replacement: "y", When: `text.startsWith("x")`},
			input:  "xx",
			want:   "yy",
		},
		"guard false": {
			recipe: recipe.Recipe{Pattern: "x", Replacement: "y", When: `text.startsWith("a")`},
			input:  "xx",
			want:   "xx",
		},
		"invalid pattern": {
			recipe:  recipe.Recipe{Name: "bad", Pattern: "(", Replacement: "x"},
			input:   "(",
			want:    "(",
			wantErr: true,
		},
		"invalid guard": {
			recipe:  recipe.Recipe{Name: "bad guard", Pattern: "x", Replacement: "y", When: "text.("},
			input:   "x",
			want:    "x",
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.recipe.Apply(tc.input)
			if tc.wantErr {
				var perr *recipe.PatternError
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, tc.recipe.Name, perr.Name)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.want, got)
		})
	}
}

func TestApplyIdempotence(t *testing.T) {
	t.Parallel()

	t.Run("stable recipe is a no-op on the second pass", func(t *testing.T) {
		t.Parallel()

		first, err := oldReddit.Apply("https://reddit.com/r/golang")
		require.NoError(t, err)

		second, err := oldReddit.Apply(first)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("recipe matching its own output toggles", func(t *testing.T) {
		t.Parallel()

		toggle := recipe.Recipe{Name: "toggle", Pattern: "^(on|off)$", Replacement: "x$1"}

		first, err := toggle.Apply("on")
		require.NoError(t, err)
		assert.Equal(t, "xon", first)

		// The output no longer matches the anchored pattern.
		second, err := toggle.Apply(first)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		grow := recipe.Recipe{Name: "grow", Pattern: "a", Replacement: "aa"}

		first, err = grow.Apply("a")
		require.NoError(t, err)

		second, err = grow.Apply(first)
		require.NoError(t, err)
		assert.Equal(t, "aa", first)
		assert.Equal(t, "aaaa", second)
		assert.NotEqual(t, first, second)
	})
}

func TestFindFix(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		want        string
		recipes     []recipe.Recipe
		wantIndex   int
		wantSkipped int
		wantFound   bool
	}{
		"empty list": {
			input:     "https://reddit.com/r/unixporn",
			want:      "https://reddit.com/r/unixporn",
			wantIndex: -1,
		},
		"nil list with empty input": {
			input:     "",
			want:      "",
			wantIndex: -1,
		},
		"second recipe matches": {
			input:     "https://reddit.com/r/unixporn",
			recipes:   []recipe.Recipe{oldJira, oldReddit},
			want:      "https://old.reddit.com/r/unixporn",
			wantIndex: 1,
			wantFound: true,
		},
		"first match wins": {
			input: "https://reddit.com/r/unixporn",
			recipes: []recipe.Recipe{
				oldReddit,
				{Name: "https", Pattern: "^https:", Replacement: "http:"},
			},
			want:      "https://old.reddit.com/r/unixporn",
			wantIndex: 0,
			wantFound: true,
		},
		"no chaining": {
			input: "a",
			recipes: []recipe.Recipe{
				{Name: "a to b", Pattern: "a", Replacement: "b"},
				{Name: "b to c", Pattern: "b", Replacement: "c"},
			},
			want:      "b",
			wantIndex: 0,
			wantFound: true,
		},
		"recipe with no effect is skipped": {
			input: "abc",
			recipes: []recipe.Recipe{
				{Name: "identity", Pattern: "b", Replacement: "b"},
				{Name: "upper", Pattern: "b", Replacement: "B"},
			},
			want:      "aBc",
			wantIndex: 1,
			wantFound: true,
		},
		"nothing matches": {
			input:     "https://example.com/",
			recipes:   []recipe.Recipe{oldJira, oldReddit},
			want:      "https://example.com/",
			wantIndex: -1,
		},
		"bad pattern is skipped": {
			input: "https://reddit.com/",
			recipes: []recipe.Recipe{
				{Name: "bad", Pattern: "(unclosed", Replacement: "x"},
				oldReddit,
			},
			want:        "https://old.reddit.com/",
			wantIndex:   1,
			wantFound:   true,
			wantSkipped: 1,
		},
		"only bad patterns": {
			input: "abc",
			recipes: []recipe.Recipe{
				{Name: "bad", Pattern: "[", Replacement: "x"},
				{Name: "worse", Pattern: "a", Replacement: "x", When: "nope("},
			},
			want:        "abc",
			wantIndex:   -1,
			wantSkipped: 2,
		},
		"duplicates allowed": {
			input:     "https://reddit.com/",
			recipes:   []recipe.Recipe{oldReddit, oldReddit},
			want:      "https://old.reddit.com/",
			wantIndex: 0,
			wantFound: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := recipe.FindFix(tc.input, tc.recipes)
			assert.Equal(t, tc.wantFound, got.Found)
			assert.Equal(t, tc.want, got.Output)
			assert.Equal(t, tc.wantIndex, got.Index)
			assert.Len(t, got.Skipped, tc.wantSkipped)

			if tc.wantFound {
				assert.Equal(t, tc.recipes[tc.wantIndex], got.Recipe)
			}
		})
	}
}

func TestFindFixSkippedIndex(t *testing.T) {
	t.Parallel()

	got := recipe.FindFix("x", []recipe.Recipe{
		{Name: "ok", Pattern: "y", Replacement: "z"},
		{Name: "bad", Pattern: "(", Replacement: "z"},
	})

	require.Len(t, got.Skipped, 1)
	assert.Equal(t, 1, got.Skipped[0].Index)
	assert.Equal(t, "bad", got.Skipped[0].Name)
	assert.Contains(t, got.Skipped[0].Error(), `invalid pattern "("`)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, recipe.Validate(nil))
	require.NoError(t, recipe.Validate([]recipe.Recipe{oldReddit, oldJira}))

	err := recipe.Validate([]recipe.Recipe{
		oldReddit,
		{Name: "bad", Pattern: "(", Replacement: "x"},
		{Name: "bad guard", Pattern: "x", Replacement: "y", When: "1 + 1"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recipe 1 (bad): invalid pattern")
	assert.Contains(t, err.Error(), "recipe 2 (bad guard): invalid guard")

	var perr *recipe.PatternError
	require.ErrorAs(t, err, &perr)
}
