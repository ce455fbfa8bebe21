package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
)

func presetOperation() pkgopenapi.Operation {
	return pkgopenapi.MustNewOperation("sendMessage", "post", "/contact", pkgopenapi.Schema{
		Type:     "object",
		Required: []string{"email", "msg"},
		Properties: map[string]pkgopenapi.Schema{
			"email":         {Type: "string", Format: "email"},
			"msg":           {Type: "string"},
			"internal_note": {Type: "string"},
		},
	})
}

func TestJSONPresetTransformerFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"preset.json": {Data: []byte(`{
  "fields": {
    "email": {"label": "Work e-mail", "order": 2},
    "internal_note": {"hidden": true},
    "msg": {"rename": "message", "description": "What can we help with?", "order": 1}
  }
}`)},
	}

	transformer, err := NewJSONPresetTransformerFromFS(fsys, "preset.json")
	if err != nil {
		t.Fatalf("new json transformer: %v", err)
	}

	op := presetOperation()
	if err := transformer.Transform(context.Background(), &op); err != nil {
		t.Fatalf("apply transformer: %v", err)
	}

	body := op.RequestBody
	if diff := cmp.Diff([]string{"message", "email"}, body.PropertyNames()); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}
	if !body.IsRequired("message") || body.IsRequired("msg") {
		t.Fatalf("required list not renamed: %v", body.Required)
	}
	if body.Properties["email"].Title != "Work e-mail" {
		t.Fatalf("label not applied: %+v", body.Properties["email"])
	}
	if body.Properties["message"].Description != "What can we help with?" {
		t.Fatalf("description not applied: %+v", body.Properties["message"])
	}
}

func TestJSONPresetTransformer_Errors(t *testing.T) {
	if _, err := NewJSONPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected empty document error")
	}
	if _, err := NewJSONPresetTransformerFromFS(fstest.MapFS{}, "missing.json"); err == nil {
		t.Fatalf("expected read error")
	}

	transformer, err := NewJSONPresetTransformer([]byte(`{"fields": {"nope": {"label": "x"}}}`))
	if err != nil {
		t.Fatalf("new json transformer: %v", err)
	}
	op := presetOperation()
	if err := transformer.Transform(context.Background(), &op); err == nil {
		t.Fatalf("expected unknown property error")
	}

	clash, err := NewJSONPresetTransformer([]byte(`{"fields": {"msg": {"rename": "email"}}}`))
	if err != nil {
		t.Fatalf("new json transformer: %v", err)
	}
	if err := clash.Transform(context.Background(), &op); err == nil {
		t.Fatalf("expected rename clash error")
	}
}

func TestOrchestrator_AppliesTransformers(t *testing.T) {
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("contact.yaml"), []byte("openapi: 3.0.0"))
	parser := stubParser{operations: map[string]pkgopenapi.Operation{"sendMessage": presetOperation()}}

	hide := TransformerFunc(func(_ context.Context, op *pkgopenapi.Operation) error {
		delete(op.RequestBody.Properties, "internal_note")
		return nil
	})
	relabel := TransformerFunc(func(_ context.Context, op *pkgopenapi.Operation) error {
		email := op.RequestBody.Properties["email"]
		email.Title = "Work e-mail"
		op.RequestBody.Properties["email"] = email
		return nil
	})

	orch := New(
		WithParser(parser),
		WithTransformer(hide),
		WithTransformer(relabel),
	)
	form, err := orch.Build(context.Background(), Request{OperationID: "sendMessage", Document: &doc})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := form.Element("internal_note"); ok {
		t.Fatalf("hidden property must not be rendered")
	}
	email, _ := form.Element("email")
	if !strings.Contains(email, ">Work e-mail</label>") {
		t.Fatalf("relabel not applied: %s", email)
	}
}

func TestOrchestrator_TransformerErrorAborts(t *testing.T) {
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("contact.yaml"), []byte("openapi: 3.0.0"))
	parser := stubParser{operations: map[string]pkgopenapi.Operation{"sendMessage": presetOperation()}}
	boom := errors.New("boom")

	orch := New(
		WithParser(parser),
		WithTransformer(TransformerFunc(func(context.Context, *pkgopenapi.Operation) error {
			return boom
		})),
	)
	if _, err := orch.Build(context.Background(), Request{OperationID: "sendMessage", Document: &doc}); !errors.Is(err, boom) {
		t.Fatalf("expected transformer error, got %v", err)
	}
}
