package yaml

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// Error is a YAML decoding or validation error. When Source is set, the
// message includes the source lines around the error, located by Token or
// Path.
type Error struct {
	Err     error
	Path    *yaml.Path
	Token   *token.Token
	Source  []byte
	Colored bool
}

type ErrorOpt func(e *Error)

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

func WithColor(colored bool) ErrorOpt {
	return func(e *Error) {
		e.Colored = colored
	}
}

// Annotate applies opts to err if it is an [*Error]. Other errors are
// returned unmodified.
func Annotate(err error, opts ...ErrorOpt) error {
	var yamlErr *Error
	if !errors.As(err, &yamlErr) {
		return err
	}

	for _, opt := range opts {
		opt(yamlErr)
	}

	return err
}

func (e *Error) Error() string {
	if e.Err == nil {
		return ""
	}
	if e.Path == nil && e.Token == nil {
		return e.Err.Error()
	}

	if e.Token != nil {
		var pp printer.Printer

		line, col := e.Token.Position.Line, e.Token.Position.Column

		return fmt.Sprintf("[%d:%d] %v\n%s", line, col, e.Err, pp.PrintErrorToken(e.Token, e.Colored))
	}

	if len(e.Source) == 0 {
		return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
	}

	annotated, err := annotateSource(e.Source, e.Path, e.Colored)
	if err != nil {
		slog.Debug("annotate source",
			slog.String("path", e.Path.String()),
			slog.Any("err", err),
		)

		return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
	}

	return fmt.Sprintf("error at %s: %v\n%s", e.Path.String(), e.Err, annotated)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func annotateSource(source []byte, path *yaml.Path, colored bool) (string, error) {
	file, err := parser.ParseBytes(source, 0)
	if err != nil {
		return "", fmt.Errorf("parse source: %w", err)
	}

	// Point at the key rather than the value when possible.
	if tk := findKeyToken(file, path); tk != nil {
		var pp printer.Printer

		return pp.PrintErrorToken(tk, colored), nil
	}

	out, err := path.AnnotateSource(source, colored)
	if err != nil {
		return "", fmt.Errorf("annotate source: %w", err)
	}

	return string(out), nil
}

// findKeyToken finds the key token for path by looking in the parent
// mapping. It returns nil for the root and for sequence items.
func findKeyToken(file *ast.File, path *yaml.Path) *token.Token {
	pathStr := path.String()

	lastDot := strings.LastIndex(pathStr, ".")
	lastBracket := strings.LastIndex(pathStr, "[")

	if lastDot <= lastBracket {
		return nil
	}

	parentPath, err := yaml.PathString(pathStr[:lastDot])
	if err != nil {
		return nil
	}

	parentNode, err := parentPath.FilterFile(file)
	if err != nil {
		return nil
	}

	mapping, ok := parentNode.(*ast.MappingNode)
	if !ok {
		return nil
	}

	lastSegment := pathStr[lastDot+1:]
	for _, val := range mapping.Values {
		if val.Key.String() == lastSegment {
			return val.Key.GetToken()
		}
	}

	return nil
}
