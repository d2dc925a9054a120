package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/clipfix/pkg/clipboard"
	"github.com/macropower/clipfix/pkg/coordinator"
	"github.com/macropower/clipfix/pkg/recipe"
	"github.com/macropower/clipfix/pkg/version"
)

// StdioAddress selects the stdio transport in [NewServer].
const StdioAddress = "-"

// RecipeSource provides the current recipe list.
type RecipeSource interface {
	Recipes() []recipe.Recipe
}

// RecipeList is a fixed [RecipeSource].
type RecipeList []recipe.Recipe

func (l RecipeList) Recipes() []recipe.Recipe {
	return l
}

// Server exposes recipes and the clipboard as MCP tools.
type Server struct {
	clip     clipboard.Adapter
	recipes  RecipeSource
	recorder coordinator.Recorder
	server   *mcp.Server
	tracer   trace.Tracer
	address  string
}

// ServerOpt configures a [Server].
type ServerOpt func(*Server)

// WithRecorder records clipboard rewrites made through the server.
func WithRecorder(r coordinator.Recorder) ServerOpt {
	return func(s *Server) {
		s.recorder = r
	}
}

// WithTracer sets the tracer used for tool spans.
func WithTracer(t trace.Tracer) ServerOpt {
	return func(s *Server) {
		s.tracer = t
	}
}

// NewServer creates a new MCP server. An address of [StdioAddress] serves
// on stdin and stdout; any other address is an HTTP listen address.
func NewServer(address string, clip clipboard.Adapter, recipes RecipeSource, opts ...ServerOpt) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		address: address,
		clip:    clip,
		recipes: recipes,
		server:  mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		tracer:  otel.Tracer("mcp"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_recipes",
		Description: "List the configured rewrite recipes in the order they are tried, including any that are invalid.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, WithTracing(s.tracer, s.handleListRecipes))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_fix",
		Description: "Preview the rewrite that the recipes would apply to some text. Does not read or write the clipboard.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text": {
					Type:        "string",
					Description: "The text to rewrite.",
				},
			},
			Required: []string{"text"},
		},
	}, WithTracing(s.tracer, s.handleFindFix))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rewrite_clipboard",
		Description: "Read the clipboard, apply the first recipe that changes it, and write the result back. The clipboard is left untouched when no recipe applies.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, WithTracing(s.tracer, s.handleRewriteClipboard))
}

// Server returns the underlying MCP server.
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve serves until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == StdioAddress || s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.Warn("shutdown MCP server", slog.Any("err", err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	t := mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr)

	err := s.server.Run(ctx, t)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
