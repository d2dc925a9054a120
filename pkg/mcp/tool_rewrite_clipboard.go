package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/clipfix/pkg/clipboard"
	"github.com/macropower/clipfix/pkg/coordinator"
	"github.com/macropower/clipfix/pkg/log"
)

// RewriteClipboardParams defines parameters for the rewrite_clipboard tool.
type RewriteClipboardParams struct{}

// RewriteClipboardResult contains the outcome of a clipboard rewrite.
type RewriteClipboardResult struct {
	Message  string   `json:"message"`
	Before   string   `json:"before,omitempty"`
	After    string   `json:"after,omitempty"`
	Recipe   string   `json:"recipe,omitempty"`
	Error    string   `json:"error,omitempty"`
	Skipped  []string `json:"skipped,omitempty"`
	Replaced bool     `json:"replaced"`
}

func (s *Server) handleRewriteClipboard(
	ctx context.Context,
	_ *mcp.ServerSession,
	_ *mcp.CallToolParamsFor[RewriteClipboardParams],
) (*mcp.CallToolResultFor[RewriteClipboardResult], error) {
	res, err := clipboard.Replace(ctx, s.clip, s.recipes.Recipes())

	result := RewriteClipboardResult{
		Before:   truncateString(res.Before, maxTextLen),
		Replaced: res.Replaced,
		Skipped:  skippedMessages(res.Match.Skipped),
	}

	switch {
	case err != nil:
		result.Error = err.Error()
		result.Message = "Clipboard error: " + err.Error()

	case res.Replaced:
		result.After = truncateString(res.Match.Output, maxTextLen)
		result.Recipe = res.Match.Recipe.String()
		result.Message = fmt.Sprintf("Clipboard rewritten by recipe %d (%s).", res.Match.Index, result.Recipe)

		if s.recorder != nil {
			if rerr := s.recorder.Record(ctx, res, coordinator.ModeManual); rerr != nil {
				log.WithContext(ctx).Warn("record rewrite", slog.Any("err", rerr))
			}
		}

	default:
		result.Message = "No recipe changes the clipboard."
	}

	return &mcp.CallToolResultFor[RewriteClipboardResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: result.Message},
		},
		StructuredContent: result,
		IsError:           err != nil,
	}, nil
}
