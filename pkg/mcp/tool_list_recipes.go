package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/clipfix/pkg/recipe"
)

// ListRecipesParams defines parameters for the list_recipes tool.
type ListRecipesParams struct{}

// ListRecipesResult contains the result of listing recipes.
type ListRecipesResult struct {
	Message     string       `json:"message"`
	Recipes     []RecipeInfo `json:"recipes"`
	RecipeCount int          `json:"recipeCount"`
}

// RecipeInfo describes a configured recipe.
type RecipeInfo struct {
	Name        string `json:"name"`
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
	When        string `json:"when,omitempty"`
	Error       string `json:"error,omitempty"`
	Index       int    `json:"index"`
}

func (s *Server) handleListRecipes(
	_ context.Context,
	_ *mcp.ServerSession,
	_ *mcp.CallToolParamsFor[ListRecipesParams],
) (*mcp.CallToolResultFor[ListRecipesResult], error) {
	recipes := s.recipes.Recipes()

	result := ListRecipesResult{
		Recipes:     make([]RecipeInfo, 0, len(recipes)),
		RecipeCount: len(recipes),
	}

	invalid := 0

	for i, r := range recipes {
		info := RecipeInfo{
			Index:       i,
			Name:        r.Name,
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
			When:        r.When,
		}

		if err := r.Compile(); err != nil {
			var perr *recipe.PatternError
			if errors.As(err, &perr) {
				perr.Index = i
			}

			info.Error = err.Error()
			invalid++
		}

		result.Recipes = append(result.Recipes, info)
	}

	result.Message = fmt.Sprintf("Found %d recipes.", result.RecipeCount)
	if invalid > 0 {
		result.Message += fmt.Sprintf(" %d are invalid and will be skipped.", invalid)
	}

	return &mcp.CallToolResultFor[ListRecipesResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: result.Message},
		},
		StructuredContent: result,
	}, nil
}
