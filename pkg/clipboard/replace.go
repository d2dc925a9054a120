package clipboard

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/clipfix/pkg/log"
	"github.com/macropower/clipfix/pkg/recipe"
)

var tracer = otel.Tracer("clipboard")

// Result is the outcome of [Replace].
type Result struct {
	// Before is the clipboard text that was read.
	Before string
	// Match is the result of the recipe scan.
	Match recipe.Match
	// Replaced is true when the clipboard was written.
	Replaced bool
}

// Replace reads the clipboard, looks for a fix using recipes, and writes the
// fix back. The clipboard is only written when a fix is found. Failing to
// read or write the clipboard returns an [*Error]; finding no fix does not.
func Replace(ctx context.Context, a Adapter, recipes []recipe.Recipe) (Result, error) {
	_, span := tracer.Start(ctx, "replace", trace.WithAttributes(
		attribute.Int("recipes", len(recipes)),
	))
	defer span.End()

	logger := log.WithContext(ctx)

	before, err := a.Get()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return Result{}, &Error{Op: "get", Err: err}
	}

	res := Result{
		Before: before,
		Match:  recipe.FindFix(before, recipes),
	}
	if !res.Match.Found {
		logger.Debug("no fix found", slog.Int("skipped", len(res.Match.Skipped)))

		return res, nil
	}

	span.SetAttributes(attribute.String("recipe", res.Match.Recipe.String()))

	err = a.Set(res.Match.Output)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return res, &Error{Op: "set", Err: err}
	}

	res.Replaced = true

	logger.Info("replaced clipboard",
		slog.String("recipe", res.Match.Recipe.String()),
		slog.Int("index", res.Match.Index),
	)

	return res, nil
}
