package preview

import (
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/macropower/clipfix/pkg/recipe"
)

// normalize strips diacritics so that filters match regardless of accents.
func normalize(in string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, in)
	if err != nil {
		return in, err //nolint:wrapcheck // Callers log and fall back to the input.
	}

	return out, nil
}

func filterValue(r recipe.Recipe) string {
	v := r.String()
	if r.Name != "" {
		v += " " + r.Pattern
	}

	return v
}

// filterRecipes returns the indexes of recipes matching query, best first.
// An empty query matches everything in order.
func filterRecipes(query string, recipes []recipe.Recipe) []int {
	idx := make([]int, 0, len(recipes))

	if query == "" {
		for i := range recipes {
			idx = append(idx, i)
		}

		return idx
	}

	targets := make([]string, 0, len(recipes))
	for _, r := range recipes {
		v, err := normalize(filterValue(r))
		if err != nil {
			slog.Debug("normalize filter value", slog.Any("err", err))
		}

		targets = append(targets, v)
	}

	nq, err := normalize(query)
	if err != nil {
		slog.Debug("normalize filter query", slog.Any("err", err))
	}

	ranks := fuzzy.Find(nq, targets)
	sort.Stable(ranks)

	for _, r := range ranks {
		idx = append(idx, r.Index)
	}

	return idx
}

// styleFiltered renders haystack with the runes matched by needle in
// matchedStyle.
func styleFiltered(haystack, needle string, defaultStyle, matchedStyle lipgloss.Style) string {
	if needle == "" {
		return defaultStyle.Render(haystack)
	}

	hay, err := normalize(haystack)
	if err != nil {
		slog.Debug("normalize haystack", slog.Any("err", err))
	}

	matches := fuzzy.Find(needle, []string{hay})
	if len(matches) == 0 {
		return defaultStyle.Render(haystack)
	}

	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, i := range matches[0].MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder

	// MatchedIndexes are byte offsets into the normalized string.
	for i, r := range hay {
		if matched[i] {
			b.WriteString(matchedStyle.Render(string(r)))
		} else {
			b.WriteString(defaultStyle.Render(string(r)))
		}
	}

	return b.String()
}
