package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	goyaml "github.com/goccy/go-yaml"

	"github.com/macropower/clipfix/pkg/recipe"
	"github.com/macropower/clipfix/pkg/ui/theme"
	"github.com/macropower/clipfix/pkg/yaml"
)

// Validator validates configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// Loader validates and decodes configuration data.
type Loader struct {
	validator Validator
	theme     *theme.Theme
	data      []byte
	colored   bool
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*Loader)

// WithValidator sets a custom validator.
func WithValidator(v Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

// WithColor enables colored source annotations in errors.
func WithColor(colored bool) LoaderOpt {
	return func(l *Loader) {
		l.colored = colored
	}
}

// NewLoaderFromBytes creates a [Loader] from byte data.
func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) *Loader {
	l := &Loader{
		validator: DefaultValidator,
		data:      data,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.theme = getTheme(data)

	return l
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := readConfig(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return NewLoaderFromBytes(data, opts...), nil
}

// Validate validates the configuration data against the schema.
func (l *Loader) Validate() error {
	var data any

	err := yaml.Unmarshal(l.data, &data)
	if err != nil {
		return l.wrap(err)
	}

	legacy := false
	if items, ok := data.([]any); ok {
		legacy = true
		data = map[string]any{
			"apiVersion": APIVersion,
			"kind":       Kind,
			"recipes":    items,
		}
	}

	if l.validator == nil {
		return nil
	}

	err = l.validator.Validate(data)
	if err != nil {
		if legacy {
			err = unwrapLegacyPath(err)
		}

		return l.wrap(err)
	}

	return nil
}

// Load validates and decodes the configuration.
func (l *Loader) Load() (*Config, error) {
	if len(bytes.TrimSpace(l.data)) == 0 {
		return nil, fmt.Errorf("%w: empty configuration", ErrInvalidConfig)
	}

	err := l.Validate()
	if err != nil {
		return nil, err
	}

	c := &Config{}

	if isSequence(l.data) {
		var rs []recipe.Recipe

		err = yaml.Unmarshal(l.data, &rs)
		if err != nil {
			return nil, l.wrap(err)
		}

		c.Recipes = rs
	} else {
		err = yaml.Unmarshal(l.data, c)
		if err != nil {
			return nil, l.wrap(err)
		}
	}

	c.EnsureDefaults()

	err = c.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// Bad recipes are skipped at runtime, so they only warrant a warning.
	if err := recipe.Validate(c.Recipes); err != nil {
		slog.Warn("configuration has invalid recipes", slog.Any("err", err))
	}

	return c, nil
}

// GetTheme returns the theme named by the configuration data.
func (l *Loader) GetTheme() *theme.Theme {
	return l.theme
}

func (l *Loader) wrap(err error) error {
	err = yaml.Annotate(err, yaml.WithSource(l.data), yaml.WithColor(l.colored))

	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}

func isSequence(data []byte) bool {
	for line := range strings.SplitSeq(string(data), "\n") {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") || s == "---" {
			continue
		}

		return strings.HasPrefix(s, "-") || strings.HasPrefix(s, "[")
	}

	return false
}

// unwrapLegacyPath maps paths under $.recipes back to the root sequence.
func unwrapLegacyPath(err error) error {
	var yamlErr *yaml.Error
	if !errors.As(err, &yamlErr) || yamlErr.Path == nil {
		return err
	}

	s := yamlErr.Path.String()
	if !strings.HasPrefix(s, "$.recipes") {
		return err
	}

	p, perr := goyaml.PathString("$" + strings.TrimPrefix(s, "$.recipes"))
	if perr != nil {
		yamlErr.Path = nil

		return err
	}

	yamlErr.Path = p

	return err
}

func getTheme(data []byte) *theme.Theme {
	if isSequence(data) {
		return theme.Default
	}

	var themeName string

	path := yaml.NewPathBuilder().Root().Child("ui").Child("theme").Build()

	err := path.Read(bytes.NewReader(data), &themeName)
	if err == nil && themeName != "" {
		return theme.New(themeName)
	}

	slog.Debug("could not read theme, config might be invalid")

	return theme.Default
}
