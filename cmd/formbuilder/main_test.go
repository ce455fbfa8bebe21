package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/prompt"
)

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestRenderCommand(t *testing.T) {
	out, err := execute(t, &app{}, "render", "testdata/forms", "contact",
		"--csrf-token", "tok",
		"--error", "email=Already registered",
		"--novalidate",
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`<form name="contact" method="post" action="/contact" novalidate>`,
		`<input type="hidden" name="csrf_token" value="tok"/>`,
		`<div class="invalid-feedback">Already registered</div>`,
		`<button type="submit" class="btn btn-primary" name="send">Send</button>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderCommandGoTemplateEngine(t *testing.T) {
	args := []string{"render", "testdata/forms", "contact", "--csrf-token", "tok", "--novalidate"}

	want, err := execute(t, &app{}, args...)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got, err := execute(t, &app{}, append(args, "--engine", "go-template")...)
	if err != nil {
		t.Fatalf("render with go-template: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("engine output mismatch (-pongo2 +go-template):\n%s", diff)
	}

	if _, err := execute(t, &app{}, append(args, "--engine", "mustache")...); err == nil {
		t.Fatalf("expected unknown engine error")
	}
}

func TestRenderCommandRequiresCSRFToken(t *testing.T) {
	if _, err := execute(t, &app{}, "render", "testdata/forms/contact.yaml", "contact"); err == nil {
		t.Fatalf("expected csrf error")
	}
}

func TestRenderCommandWithTheme(t *testing.T) {
	out, err := execute(t, &app{}, "render", "testdata/forms", "contact",
		"--csrf-token", "tok",
		"--theme-manifest", "testdata/theme.yaml",
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `class="btn btn-acme"`) || !strings.Contains(out, `class="form-control form-control-sm "`) {
		t.Fatalf("theme classes not applied:\n%s", out)
	}
}

func TestRenderCommandWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.html")
	if _, err := execute(t, &app{}, "render", "testdata/forms", "contact", "--csrf-token", "tok", "-o", path); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), `<form name="contact"`) {
		t.Fatalf("unexpected file contents:\n%s", data)
	}
}

func TestOpenAPICommand(t *testing.T) {
	out, err := execute(t, &app{}, "openapi", "testdata/contact-api.yaml", "--list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := "deleteMessage\tDELETE /contact/{id}\nsendMessage\tPOST /contact\n"
	if out != want {
		t.Fatalf("unexpected listing\nwant: %q\n got: %q", want, out)
	}

	out, err = execute(t, &app{}, "openapi", "testdata/contact-api.yaml", "deleteMessage",
		"--action", "/contact/7", "--submit", "Delete", "--preset", "testdata/contact-preset.json")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`<form name="deleteMessage" method="post" action="/contact/7">`,
		`<input type="hidden" name="_METHOD" value="DELETE"/>`,
		`<label for="reason" class="control-label">Why are you deleting this?</label>`,
		`name="reason" id="reason" required="required"`,
		`>Delete</button>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

type scriptedDriver struct {
	answers map[string]string
}

func (d scriptedDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return d.answers[cfg.Message], nil
}

func (d scriptedDriver) Password(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return d.answers[cfg.Message], nil
}

func (d scriptedDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return false, nil
}

func (d scriptedDriver) TextArea(_ context.Context, cfg prompt.TextAreaConfig) (string, error) {
	return d.answers[cfg.Message], nil
}

func (d scriptedDriver) Info(context.Context, string) error { return nil }

func TestPromptCommand(t *testing.T) {
	a := &app{driver: scriptedDriver{answers: map[string]string{"E-mail": "jane@example.com"}}}

	out, err := execute(t, a, "prompt", "testdata/forms", "contact", "--csrf-token", "tok")
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	for _, want := range []string{
		`<input type="email" class="form-control " name="email" id="email" value="jane@example.com"/>`,
		`<textarea rows="3" class="form-control is-invalid " name="message" id="message"></textarea>`,
		`<div class="invalid-feedback">This field is required</div>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, &app{}, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != "formbuilder version dev\n" {
		t.Fatalf("unexpected version output %q", out)
	}
}
