package recipe

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/macropower/clipfix/pkg/expr"
)

// Recipe rewrites text matching Pattern using Replacement.
//
// Replacement may reference capture groups with `$1`, `${1}` or `${name}`.
// Use `$$` for a literal `$`.
//
// When is an optional CEL expression with access to:
//   - `text` (string): The text being rewritten
//
// Examples:
//   - isURL(text) && urlHost(text) == "reddit.com"
//   - lineCount(text) == 1
type Recipe struct {
	// Name is a descriptive label. It is not used for matching.
	Name string `json:"name" jsonschema:"title=Name"`
	// Pattern is an RE2 regular expression.
	Pattern string `json:"pattern" jsonschema:"title=Pattern"`
	// Replacement is the substitution template.
	Replacement string `json:"replacement" jsonschema:"title=Replacement"`
	// When is an optional CEL guard. The recipe only applies when it returns true.
	When string `json:"when,omitempty" jsonschema:"title=When"`
}

// Match is the outcome of [FindFix].
type Match struct {
	// Recipe is the recipe that produced Output. Only set when Found.
	Recipe Recipe
	// Output is the rewritten text. Equal to the input when not Found.
	Output string
	// Skipped holds the errors of recipes that could not be applied.
	Skipped []*PatternError
	// Index is the position of Recipe in the list, or -1.
	Index int
	// Found is true when a recipe changed the input.
	Found bool
}

// patterns caches compiled regular expressions by source.
var patterns sync.Map

func compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(pattern); ok {
		return re.(*regexp.Regexp), nil //nolint:forcetypeassert // Only *regexp.Regexp is stored.
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err //nolint:wrapcheck // Wrapped by the caller.
	}

	patterns.Store(pattern, re)

	return re, nil
}

// Compile checks that the recipe's pattern and guard are valid.
func (r Recipe) Compile() error {
	if _, err := compile(r.Pattern); err != nil {
		return &PatternError{Name: r.Name, Pattern: r.Pattern, Err: err}
	}

	if r.When != "" {
		if _, err := expr.Default.Compile(r.When); err != nil {
			return &PatternError{Name: r.Name, Pattern: r.When, Guard: true, Err: err}
		}
	}

	return nil
}

// Apply rewrites input, replacing all matches of the pattern. If the pattern
// does not match, or the guard returns false, input is returned unchanged.
func (r Recipe) Apply(input string) (string, error) {
	re, err := compile(r.Pattern)
	if err != nil {
		return input, &PatternError{Name: r.Name, Pattern: r.Pattern, Err: err}
	}

	if r.When != "" {
		if _, err := expr.Default.Compile(r.When); err != nil {
			return input, &PatternError{Name: r.Name, Pattern: r.When, Guard: true, Err: err}
		}

		ok, err := expr.Default.Match(r.When, input)
		if err != nil {
			// Evaluation errors are treated as a non-match.
			slog.Debug("guard evaluation failed",
				slog.String("recipe", r.String()),
				slog.Any("err", err),
			)

			return input, nil
		}
		if !ok {
			return input, nil
		}
	}

	return re.ReplaceAllString(input, r.Replacement), nil
}

func (r Recipe) String() string {
	if r.Name != "" {
		return r.Name
	}

	return r.Pattern
}

// FindFix applies each recipe to input in order, and returns the output of
// the first recipe that changes it. Recipes that fail to compile are skipped
// and reported in [Match.Skipped].
func FindFix(input string, recipes []Recipe) Match {
	m := Match{Output: input, Index: -1}

	for i, r := range recipes {
		out, err := r.Apply(input)
		if err != nil {
			var perr *PatternError
			if errors.As(err, &perr) {
				perr.Index = i
				m.Skipped = append(m.Skipped, perr)
			}

			slog.Warn("skipping recipe",
				slog.Int("index", i),
				slog.String("recipe", r.String()),
				slog.Any("err", err),
			)

			continue
		}
		if out == input {
			continue
		}

		m.Found = true
		m.Output = out
		m.Recipe = r
		m.Index = i

		return m
	}

	return m
}

// Validate compiles every recipe and returns all errors joined.
func Validate(recipes []Recipe) error {
	var errs []error

	for i, r := range recipes {
		err := r.Compile()
		if err == nil {
			continue
		}

		var perr *PatternError
		if errors.As(err, &perr) {
			perr.Index = i
		}

		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// PatternError is returned when a recipe's pattern or guard is invalid.
type PatternError struct {
	Err     error
	Name    string
	Pattern string
	Index   int
	Guard   bool
}

func (e *PatternError) Error() string {
	kind := "pattern"
	if e.Guard {
		kind = "guard"
	}

	return fmt.Sprintf("recipe %d (%s): invalid %s %q: %v", e.Index, e.Name, kind, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
