// Package formbuilder assembles Bootstrap 4 form markup. The builder package
// holds the element assembler; this package re-exports the pipeline entry
// points for callers that want HTML from an OpenAPI operation or a form
// definition in one call.
package formbuilder

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/definition"
	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// RenderOptions describes per-request attributes of the rendered <form>.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// New creates an element assembler; see builder.New.
func New(name, method, action string, options ...builder.Option) *builder.Builder {
	return builder.New(name, method, action, options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the OpenAPI source, builds a form for the requested
// operation and renders it.
func GenerateHTML(ctx context.Context, source pkgopenapi.Source, operationID string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:      source,
		OperationID: operationID,
	})
}

// GenerateHTMLFromDocument renders a form using a pre-loaded document.
func GenerateHTMLFromDocument(ctx context.Context, doc pkgopenapi.Document, operationID string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Document:    &doc,
		OperationID: operationID,
	})
}

// GenerateHTMLFromDefinition renders a named form from store.
func GenerateHTMLFromDefinition(ctx context.Context, store *definition.Store, form, csrfToken string, options ...orchestrator.Option) ([]byte, error) {
	options = append([]orchestrator.Option{orchestrator.WithDefinitions(store)}, options...)
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Form:      form,
		CSRFToken: csrfToken,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme and variant choices resolve to chrome classes.
func WithThemeSelector(selector theme.ThemeSelector, defaultTheme, defaultVariant string) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector, defaultTheme, defaultVariant)
}
