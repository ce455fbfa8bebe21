package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"

	internalLoader "github.com/goliatone/go-formbuilder/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formbuilder/internal/openapi/parser"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/chrome"
	"github.com/goliatone/go-formbuilder/pkg/definition"
	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/session"
)

// Renderer turns a populated builder into a document.
type Renderer interface {
	Render(ctx context.Context, form *builder.Builder, options render.RenderOptions) ([]byte, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithRenderer injects the renderer used by Generate.
func WithRenderer(renderer Renderer) Option {
	return func(o *Orchestrator) {
		o.renderer = renderer
	}
}

// WithDefinitions registers declarative forms addressable by Request.Form.
func WithDefinitions(store *definition.Store) Option {
	return func(o *Orchestrator) {
		o.definitions = store
	}
}

// WithClasses replaces the base chrome classes. Theme selections are merged
// on top.
func WithClasses(classes chrome.Classes) Option {
	return func(o *Orchestrator) {
		o.classes = classes
	}
}

// WithThemeSelector resolves per-request theme and variant names into chrome
// classes.
func WithThemeSelector(selector theme.ThemeSelector, defaultTheme, defaultVariant string) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
		o.defaultTheme = defaultTheme
		o.defaultVariant = defaultVariant
	}
}

// WithTransformer appends a transformer run on every operation before it is
// mapped onto form controls. Transformers run in registration order.
func WithTransformer(transformer Transformer) Option {
	return func(o *Orchestrator) {
		if transformer != nil {
			o.transformers = append(o.transformers, transformer)
		}
	}
}

// WithFormOptions appends options applied to every OpenAPI generated form.
func WithFormOptions(options ...pkgopenapi.FormOption) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, options...)
	}
}

// Orchestrator coordinates the pipeline from a form source (OpenAPI
// operation or declarative definition) to rendered HTML.
type Orchestrator struct {
	loader         pkgopenapi.Loader
	parser         pkgopenapi.Parser
	renderer       Renderer
	definitions    *definition.Store
	classes        chrome.Classes
	themeSelector  theme.ThemeSelector
	defaultTheme   string
	defaultVariant string
	formOptions    []pkgopenapi.FormOption
	transformers   []Transformer
	initialiseErr  error
}

// New constructs an Orchestrator. Missing dependencies are filled with the
// built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{classes: chrome.Bootstrap4()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one form to produce. Exactly one of Form or OperationID
// selects the source.
type Request struct {
	// Form names a registered definition.
	Form string

	// OperationID selects an OpenAPI operation from Document or Source.
	OperationID string
	Source      pkgopenapi.Source
	Document    *pkgopenapi.Document

	// CSRFToken adds the hidden CSRF input when set. Definitions declaring
	// csrf: true require it.
	CSRFToken string

	// Errors holds messages recorded by a previous submission.
	Errors session.Reader

	ThemeName    string
	ThemeVariant string

	RenderOptions render.RenderOptions
}

// Build assembles the builder for req without rendering it.
func (o *Orchestrator) Build(ctx context.Context, req Request) (*builder.Builder, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	opts, err := o.builderOptions(req)
	if err != nil {
		return nil, err
	}

	switch {
	case req.Form != "" && req.OperationID != "":
		return nil, errors.New("orchestrator: request must name a form or an operation, not both")
	case req.Form != "":
		form, err := o.definitions.Build(req.Form, definition.BuildOptions{
			CSRFToken: req.CSRFToken,
			Builder:   opts,
		})
		if err != nil {
			return nil, fmt.Errorf("orchestrator: build definition: %w", err)
		}
		return form, nil
	case req.OperationID != "":
		op, err := o.Operation(ctx, req)
		if err != nil {
			return nil, err
		}
		op.RequestBody = op.RequestBody.Clone()
		for _, transformer := range o.transformers {
			if err := transformer.Transform(ctx, &op); err != nil {
				return nil, fmt.Errorf("orchestrator: transform operation %q: %w", op.ID, err)
			}
		}
		formOpts := append([]pkgopenapi.FormOption{}, o.formOptions...)
		formOpts = append(formOpts,
			pkgopenapi.WithCSRFToken(req.CSRFToken),
			pkgopenapi.WithBuilderOptions(opts...),
		)
		form, err := pkgopenapi.BuildForm(op, formOpts...)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: build operation form: %w", err)
		}
		return form, nil
	default:
		return nil, errors.New("orchestrator: form name or operation id is required")
	}
}

// Generate builds and renders req.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	form, err := o.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	if o.renderer == nil {
		return nil, errors.New("orchestrator: renderer is nil")
	}

	output, err := o.renderer.Render(ctx, form, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Operation loads, parses and looks up the operation named by req.
func (o *Orchestrator) Operation(ctx context.Context, req Request) (pkgopenapi.Operation, error) {
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return pkgopenapi.Operation{}, err
	}

	operations, err := o.parser.Operations(ctx, doc)
	if err != nil {
		return pkgopenapi.Operation{}, fmt.Errorf("orchestrator: parse operations: %w", err)
	}

	op, ok := operations[req.OperationID]
	if !ok {
		return pkgopenapi.Operation{}, fmt.Errorf("orchestrator: operation %q not found", req.OperationID)
	}
	return op, nil
}

// Classes resolves the chrome classes for a theme and variant.
func (o *Orchestrator) Classes(themeName, variant string) (chrome.Classes, error) {
	if o.themeSelector == nil {
		return o.classes, nil
	}
	if themeName == "" {
		themeName = o.defaultTheme
	}
	if variant == "" {
		variant = o.defaultVariant
	}

	classes, err := o.classes.Select(o.themeSelector, themeName, variant)
	if err != nil {
		return chrome.Classes{}, fmt.Errorf("orchestrator: %w", err)
	}
	return classes, nil
}

func (o *Orchestrator) builderOptions(req Request) ([]builder.Option, error) {
	classes, err := o.Classes(req.ThemeName, req.ThemeVariant)
	if err != nil {
		return nil, err
	}
	opts := []builder.Option{builder.WithClasses(classes)}
	if req.Errors != nil {
		opts = append(opts, builder.WithErrors(req.Errors))
	}
	return opts, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return pkgopenapi.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.definitions == nil {
		o.definitions = definition.NewStore()
	}
	if o.renderer == nil {
		renderer, err := render.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.renderer = renderer
	}
}
