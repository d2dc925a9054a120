package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator generates a JSON schema from a Go value.
// Uses [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	v           any
	id          string
	module      string
	commentsDir string
}

// NewSchemaGenerator creates a [SchemaGenerator] for v. When module and
// commentsDir are set, Go doc comments under commentsDir are used as
// descriptions.
func NewSchemaGenerator(v any, id, module, commentsDir string) *SchemaGenerator {
	return &SchemaGenerator{
		v:           v,
		id:          id,
		module:      module,
		commentsDir: commentsDir,
	}
}

// Generate returns the indented JSON schema.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	if g.module != "" && g.commentsDir != "" {
		err := r.AddGoComments(g.module, g.commentsDir)
		if err != nil {
			return nil, fmt.Errorf("add go comments: %w", err)
		}
	}

	s := r.Reflect(g.v)
	if g.id != "" {
		s.ID = jsonschema.ID(g.id)
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}
