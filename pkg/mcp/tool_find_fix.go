package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/clipfix/pkg/recipe"
)

// FindFixParams defines parameters for the find_fix tool.
type FindFixParams struct {
	Text string `json:"text" jsonschema:"the text to rewrite"`
}

// FindFixResult contains the rewrite found for some text.
type FindFixResult struct {
	Message string   `json:"message"`
	Output  string   `json:"output"`
	Recipe  string   `json:"recipe,omitempty"`
	Skipped []string `json:"skipped,omitempty"`
	Index   int      `json:"index"`
	Found   bool     `json:"found"`
}

func (s *Server) handleFindFix(
	_ context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[FindFixParams],
) (*mcp.CallToolResultFor[FindFixResult], error) {
	m := recipe.FindFix(params.Arguments.Text, s.recipes.Recipes())

	result := FindFixResult{
		Found:   m.Found,
		Index:   m.Index,
		Output:  truncateString(m.Output, maxTextLen),
		Skipped: skippedMessages(m.Skipped),
	}

	if m.Found {
		result.Recipe = m.Recipe.String()
		result.Message = fmt.Sprintf("Recipe %d (%s) rewrites the text.", m.Index, result.Recipe)
	} else {
		result.Message = "No recipe changes the text."
	}

	return &mcp.CallToolResultFor[FindFixResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: result.Message},
		},
		StructuredContent: result,
	}, nil
}

func skippedMessages(errs []*recipe.PatternError) []string {
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return msgs
}
