package render

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	gotemplate "github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
)

const (
	// DefaultTemplate is the template rendered when none is configured.
	DefaultTemplate = "templates/form.tpl"
	// MultipartEnctype is set automatically for forms carrying a file input.
	MultipartEnctype = "multipart/form-data"
	// ContentType is the media type of every rendered document.
	ContentType = "text/html; charset=utf-8"
)

// Template engines selectable with WithEngine.
const (
	EnginePongo2     = "pongo2"
	EngineGoTemplate = "go-template"
)

var reservedAttributes = map[string]struct{}{
	"name": {}, "method": {}, "action": {}, "id": {},
	"class": {}, "enctype": {}, "novalidate": {},
}

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	templateName     string
	engine           string
	globals          map[string]any
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithEngine picks the built-in template engine used when no renderer is
// injected. Empty selects pongo2.
func WithEngine(name string) Option {
	return func(cfg *config) {
		cfg.engine = strings.ToLower(strings.TrimSpace(name))
	}
}

// WithTemplate selects the template used to wrap the elements.
func WithTemplate(name string) Option {
	return func(cfg *config) {
		if name = strings.TrimSpace(name); name != "" {
			cfg.templateName = name
		}
	}
}

// WithGlobals seeds values visible to every render, for example the theme
// name.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) > 0 {
			cfg.globals = data
		}
	}
}

// Renderer wraps a builder's elements in a <form> document.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	template  string
}

// New constructs a Renderer backed by the embedded templates unless options
// say otherwise.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateName: DefaultTemplate}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := newEngine(cfg)
		if err != nil {
			return nil, fmt.Errorf("render: configure template renderer: %w", err)
		}
		renderer = engine
	}
	if len(cfg.globals) > 0 {
		if err := renderer.GlobalContext(cfg.globals); err != nil {
			return nil, fmt.Errorf("render: apply globals: %w", err)
		}
	}

	return &Renderer{templates: renderer, template: cfg.templateName}, nil
}

func newEngine(cfg config) (rendertemplate.TemplateRenderer, error) {
	options := []gotemplate.Option{
		gotemplate.WithFS(cfg.templateFS),
		gotemplate.WithExtension(".tpl"),
	}
	switch cfg.engine {
	case "", EnginePongo2:
		return gotemplate.New(options...)
	case EngineGoTemplate:
		return gotemplate.NewGoTemplate(options...)
	default:
		return nil, fmt.Errorf("unknown template engine %q", cfg.engine)
	}
}

// Render produces the complete form document for form.
func (r *Renderer) Render(ctx context.Context, form *builder.Builder, options RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r == nil || r.templates == nil {
		return nil, fmt.Errorf("render: template renderer is nil")
	}
	if form == nil {
		return nil, fmt.Errorf("render: form builder is nil")
	}

	result, err := r.templates.RenderTemplate(r.template, templateData(form, options))
	if err != nil {
		return nil, fmt.Errorf("render: render template: %w", err)
	}
	return []byte(result), nil
}

func templateData(form *builder.Builder, options RenderOptions) map[string]any {
	elements := make([]any, 0, form.Len())
	for _, el := range form.Elements() {
		elements = append(elements, el.HTML)
	}

	enctype := strings.TrimSpace(options.Enctype)
	if enctype == "" && form.HasFileInput() {
		enctype = MultipartEnctype
	}

	return map[string]any{
		"form": map[string]any{
			"name":     form.Name(),
			"method":   form.Method(),
			"action":   form.Action(),
			"elements": elements,
		},
		"options": map[string]any{
			"id":         strings.TrimSpace(options.ID),
			"class":      options.Class,
			"enctype":    enctype,
			"novalidate": options.NoValidate,
			"attributes": extraAttributes(options.Attributes),
		},
	}
}

func extraAttributes(attrs map[string]string) []any {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		trimmed := strings.TrimSpace(key)
		if !builder.ValidAttributeName(trimmed) {
			continue
		}
		if _, reserved := reservedAttributes[strings.ToLower(trimmed)]; reserved {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(keys))
	for _, key := range keys {
		out = append(out, map[string]any{"key": strings.TrimSpace(key), "value": attrs[key]})
	}
	return out
}
