// Package recipe implements the rewrite engine.
//
// A [Recipe] is a regular expression and a replacement template. Applying a
// recipe replaces every non-overlapping match of the pattern in the input.
// [FindFix] scans an ordered list of recipes and returns the output of the
// first recipe that changes the input. Recipes are never chained: later
// recipes only ever see the original input.
//
// Recipes may carry a CEL guard (see package expr). A recipe whose guard
// evaluates to false has no effect on that input.
package recipe
