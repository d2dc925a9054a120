package yaml_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/clipfix/pkg/yaml"
)

type schemaItem struct {
	Name  string `json:"name"           jsonschema:"title=Name"`
	Notes string `json:"notes,omitempty"`
}

type schemaDoc struct {
	Items []schemaItem `json:"items"`
	Mode  string       `json:"mode,omitempty"`
}

func TestSchemaGenerator(t *testing.T) {
	t.Parallel()

	b, err := yaml.NewSchemaGenerator(&schemaDoc{}, "https://example.com/doc.json", "", "").Generate()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))

	assert.Equal(t, "https://example.com/doc.json", got["$id"])
	assert.Equal(t, "object", got["type"])
	assert.Equal(t, false, got["additionalProperties"])
	assert.Equal(t, []any{"items"}, got["required"])

	props, ok := got["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "items")
	assert.Contains(t, props, "mode")

	// The generated schema is usable by the validator.
	v, err := yaml.NewValidator("https://example.com/doc.json", b)
	require.NoError(t, err)
	require.NoError(t, v.ValidateBytes([]byte("items:\n  - name: a\n")))
	require.Error(t, v.ValidateBytes([]byte("items:\n  - notes: a\n")))
}
