package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// ErrNotBool is returned when a guard does not evaluate to a boolean.
var ErrNotBool = errors.New("expression did not return a bool")

// Environment is a CEL environment for guard expressions. Compiled programs
// are cached by source, so evaluating the same guard repeatedly is cheap.
// It is safe for concurrent use.
type Environment struct {
	env      *cel.Env
	programs map[string]cel.Program
	mu       sync.Mutex
}

// NewEnvironment creates a new [Environment].
func NewEnvironment() (*Environment, error) {
	env, err := cel.NewEnv(
		cel.Variable("text", cel.StringType),
		cel.Lib(&lib{}),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &Environment{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment() *Environment {
	env, err := NewEnvironment()
	if err != nil {
		panic(err)
	}

	return env
}

// Default is the shared environment used by recipes.
var Default = MustNewEnvironment()

// Compile compiles expression, or returns the cached program.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.programs[expression]; ok {
		return p, nil
	}

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	if !ast.OutputType().IsExactType(cel.BoolType) && !ast.OutputType().IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w: got %s", ErrNotBool, ast.OutputType())
	}

	p, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	e.programs[expression] = p

	return p, nil
}

// Match compiles expression and evaluates it against text.
func (e *Environment) Match(expression, text string) (bool, error) {
	p, err := e.Compile(expression)
	if err != nil {
		return false, err
	}

	out, _, err := p.Eval(map[string]any{"text": text})
	if err != nil {
		return false, fmt.Errorf("evaluate expression: %w", err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: got %T", ErrNotBool, out.Value())
	}

	return b, nil
}
