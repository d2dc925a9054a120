// Package expr provides the CEL (Common Expression Language) environment used
// by recipe guards.
//
// Guard expressions have access to one variable:
//   - `text` (string): the clipboard text being rewritten
//
// In addition to the standard CEL library and the strings extension, the
// following functions are available:
//   - isURL(string): true if the string parses as an absolute URL
//   - urlHost(string), urlScheme(string), urlPath(string): URL components,
//     or "" when the string is not a URL
//   - lineCount(string): the number of lines in the string
package expr
