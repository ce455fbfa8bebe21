package render_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formbuilder/pkg/session"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestRenderer_WrapsElementsInOrder(t *testing.T) {
	form := builder.New("contact", "put", "/contact/1")
	form.AddCSRFInput("tok")
	form.AddInput("email", "email", nil)
	form.AddButton("submit", "send", "Send", nil)

	r := newRenderer(t)
	out, err := r.Render(testsupport.Context(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var want strings.Builder
	want.WriteString(`<form name="contact" method="post" action="/contact/1">` + "\n")
	for _, el := range form.Elements() {
		want.WriteString(el.HTML + "\n")
	}
	want.WriteString("</form>\n")

	if got := string(out); got != want.String() {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want.String(), got)
	}
	if !strings.Contains(string(out), `name="_METHOD" value="PUT"`) {
		t.Fatalf("expected method override input first, got %s", out)
	}
}

func TestRenderer_FormAttributes(t *testing.T) {
	form := builder.New("upload", "post", "/upload")
	form.AddInput("file", "avatar", nil)

	r := newRenderer(t)
	out, err := r.Render(context.Background(), form, render.RenderOptions{
		ID:         "upload-form",
		Class:      "  needs-validation   wide ",
		NoValidate: true,
		Attributes: map[string]string{
			"data-x":              "<1>",
			"action":              "/elsewhere",
			"aria-id":             "f",
			`x" onload="alert(1)`: "v",
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	head := strings.SplitN(string(out), "\n", 2)[0]
	want := `<form name="upload" method="post" action="/upload" id="upload-form" class="needs-validation wide" enctype="multipart/form-data" aria-id="f" data-x="&lt;1&gt;" novalidate>`
	if head != want {
		t.Fatalf("form tag mismatch\nwant: %s\n got: %s", want, head)
	}
}

func TestRenderer_ExplicitEnctypeWins(t *testing.T) {
	form := builder.New("upload", "post", "/upload")
	form.AddInput("file", "avatar", nil)

	out, err := newRenderer(t).Render(context.Background(), form, render.RenderOptions{Enctype: "text/plain"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `enctype="text/plain"`) {
		t.Fatalf("expected explicit enctype, got %s", out)
	}
}

func TestRenderer_ShowsSessionErrors(t *testing.T) {
	store := session.NewStore()
	store.Set(session.ErrorKey("email"), "Must be a valid email address")

	form := builder.New("contact", "post", "/contact", builder.WithErrors(store))
	form.AddInput("email", "email", nil)

	out, err := newRenderer(t).Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `<div class="invalid-feedback">Must be a valid email address</div>`) {
		t.Fatalf("expected feedback in output, got %s", out)
	}
}

func TestRenderer_CustomTemplate(t *testing.T) {
	files := fstest.MapFS{
		"custom/list.tpl": {Data: []byte(`{{ brand }}:{% for element in form.elements %}[{{ element|safe }}]{% endfor %}`)},
	}
	r, err := render.New(
		render.WithTemplatesFS(files),
		render.WithTemplate("custom/list"),
		render.WithGlobals(map[string]any{"brand": "acme"}),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := builder.New("f", "get", "/")
	form.AddButton("button", "b", "B", nil)

	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	el, _ := form.Element("b")
	if want := "acme:[" + el + "]"; string(out) != want {
		t.Fatalf("custom template mismatch\nwant: %q\n got: %q", want, out)
	}
}

func TestRenderer_Errors(t *testing.T) {
	r := newRenderer(t)

	if _, err := r.Render(context.Background(), nil, render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for nil builder")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, builder.New("f", "get", "/"), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}

	broken, err := render.New(render.WithTemplate("missing"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := broken.Render(context.Background(), builder.New("f", "get", "/"), render.RenderOptions{}); err == nil {
		t.Fatalf("expected missing template error")
	}
}

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderer_ContactGolden(t *testing.T) {
	errs := testsupport.ErrorStore(map[string]string{"email": "Invalid format"})
	form := builder.New("contact", "put", "/contact/1", builder.WithErrors(errs))
	form.AddCSRFInput("tok")
	form.AddInput("email", "email", builder.Attributes{"required": "required"}, builder.WithLabel("E-mail"))
	form.AddTextArea(3, "message", nil, builder.WithContent("Hi & bye"))
	form.AddButton("submit", "send", "Send", nil)

	out, err := newRenderer(t).Render(testsupport.Context(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertGolden(t, filepath.Join("testdata", "contact.golden"), out)
}

func TestRenderer_GoTemplateEngine(t *testing.T) {
	build := func() *builder.Builder {
		errs := testsupport.ErrorStore(map[string]string{"email": "Invalid format"})
		form := builder.New("contact", "put", "/contact/1", builder.WithErrors(errs))
		form.AddCSRFInput("tok")
		form.AddInput("email", "email", builder.Attributes{"required": "required"}, builder.WithLabel("E-mail"))
		form.AddTextArea(3, "message", nil, builder.WithContent("Hi & bye"))
		form.AddButton("submit", "send", "Send", nil)
		return form
	}
	options := render.RenderOptions{Class: " needs-validation  wide ", Attributes: map[string]string{"data-x": "<1>"}}

	want, err := newRenderer(t).Render(context.Background(), build(), options)
	if err != nil {
		t.Fatalf("pongo2 render: %v", err)
	}

	byOption, err := render.New(render.WithEngine(render.EngineGoTemplate))
	if err != nil {
		t.Fatalf("new go-template renderer: %v", err)
	}
	got, err := byOption.Render(context.Background(), build(), options)
	if err != nil {
		t.Fatalf("go-template render: %v", err)
	}
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Fatalf("go-template output mismatch (-pongo2 +go-template):\n%s", diff)
	}

	engine, err := gotemplate.NewGoTemplate(gotemplate.WithFS(render.TemplatesFS()))
	if err != nil {
		t.Fatalf("new go-template engine: %v", err)
	}
	injected, err := render.New(render.WithTemplateRenderer(engine))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	got, err = injected.Render(context.Background(), build(), options)
	if err != nil {
		t.Fatalf("injected go-template render: %v", err)
	}
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Fatalf("injected go-template output mismatch (-pongo2 +go-template):\n%s", diff)
	}
}

func TestRenderer_UnknownEngine(t *testing.T) {
	if _, err := render.New(render.WithEngine("mustache")); err == nil {
		t.Fatalf("expected unknown engine error")
	}
}
