// Package yaml wraps [github.com/goccy/go-yaml] with JSON schema validation
// and errors that point at the offending lines of the source.
package yaml
