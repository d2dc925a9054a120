package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/clipfix/pkg/coordinator"
	"github.com/macropower/clipfix/pkg/keys"
	"github.com/macropower/clipfix/pkg/recipe"
	"github.com/macropower/clipfix/pkg/sampler"
	"github.com/macropower/clipfix/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/main.go -o config.v1beta1.json

const (
	APIVersion = "clipfix.jacobcolvin.com/v1beta1"
	Kind       = "Configuration"

	// SchemaURL is the $id of the configuration schema.
	SchemaURL = "https://raw.githubusercontent.com/macropower/clipfix/refs/heads/main/pkg/config/config.v1beta1.json"
)

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed config.v1beta1.json
	schemaJSON []byte

	ValidAPIVersions = []string{APIVersion}
	ValidKinds       = []string{Kind}

	DefaultValidator = yaml.MustNewValidator(SchemaURL, schemaJSON)

	// ErrInvalidConfig is returned when the configuration cannot be loaded.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidTick is returned for a tick interval that is not positive.
	ErrInvalidTick = errors.New("tick interval must be positive")
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// TickInterval is the time between ticks.
	TickInterval *Duration `json:"tickInterval,omitempty" jsonschema:"title=Tick Interval"`
	// UI holds display settings.
	UI *UIConfig `json:"ui,omitempty" jsonschema:"title=UI"`
	// History configures the rewrite history database.
	History *HistoryConfig `json:"history,omitempty" jsonschema:"title=History"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
	// Mode selects what triggers a rewrite: manual or timer.
	Mode string `json:"mode,omitempty" jsonschema:"title=Mode"`
	// Recipes is the ordered list of rewrite rules. The first recipe that
	// changes the clipboard wins.
	Recipes []recipe.Recipe `json:"recipes" jsonschema:"title=Recipes"`
}

// NewConfig creates a new [Config] with default values.
func NewConfig() *Config {
	c := &Config{
		APIVersion: APIVersion,
		Kind:       Kind,
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.APIVersion == "" {
		c.APIVersion = APIVersion
	}
	if c.Kind == "" {
		c.Kind = Kind
	}
	if c.Mode == "" {
		c.Mode = coordinator.ModeManual.String()
	}
	if c.TickInterval == nil {
		c.TickInterval = &Duration{Duration: sampler.DefaultInterval}
	}
	if c.Recipes == nil {
		c.Recipes = []recipe.Recipe{}
	}

	if c.UI == nil {
		c.UI = &UIConfig{}
	}

	c.UI.EnsureDefaults()

	if c.History == nil {
		c.History = &HistoryConfig{}
	}
}

// Validate checks requirements that the schema cannot express.
func (c *Config) Validate() error {
	var errs []error

	if _, err := coordinator.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}

	if c.TickInterval != nil && c.TickInterval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidTick, c.TickInterval))
	}

	if c.UI != nil && c.UI.KeyBinds != nil {
		if err := keys.ValidateBinds(c.UI.KeyBinds.Quit, c.UI.KeyBinds.Trigger); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// CoordinatorMode returns the parsed [coordinator.Mode].
func (c *Config) CoordinatorMode() coordinator.Mode {
	m, err := coordinator.ParseMode(c.Mode)
	if err != nil {
		return coordinator.ModeManual
	}

	return m
}

// Tick returns the tick interval.
func (c *Config) Tick() time.Duration {
	if c.TickInterval == nil {
		return sampler.DefaultInterval
	}

	return c.TickInterval.Duration
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	setEnum(jss, "apiVersion", "API Version", ValidAPIVersions...)
	setEnum(jss, "kind", "Kind", ValidKinds...)

	modes := make([]string, 0, len(coordinator.AllModes))
	for _, m := range coordinator.AllModes {
		modes = append(modes, m.String())
	}

	setEnum(jss, "mode", "Mode", modes...)
}

func setEnum(jss *jsonschema.Schema, property, title string, values ...string) {
	prop, ok := jss.Properties.Get(property)
	if !ok {
		panic(property + " property not found in schema")
	}

	for _, v := range values {
		prop.OneOf = append(prop.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: v,
			Title: title,
		})
	}

	_, _ = jss.Properties.Set(property, prop)
}

// MarshalYAML serializes the config to YAML.
func (c *Config) MarshalYAML() ([]byte, error) {
	b, err := yaml.Marshal(*c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

// DefaultYAML returns the embedded default configuration.
func DefaultYAML() []byte {
	return defaultConfigYAML
}

// SchemaJSON returns the embedded JSON schema.
func SchemaJSON() []byte {
	return schemaJSON
}
