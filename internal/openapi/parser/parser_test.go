package parser

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
)

const signupDocument = `{
  "openapi": "3.0.0",
  "info": { "title": "Accounts", "version": "1.0.0" },
  "paths": {
    "/accounts": {
      "post": {
        "operationId": "createAccount",
        "summary": "Create an account",
        "requestBody": {
          "content": {
            "application/x-www-form-urlencoded": {
              "schema": { "$ref": "#/components/schemas/Signup" }
            }
          }
        },
        "responses": { "201": { "description": "created" } }
      }
    },
    "/accounts/{id}": {
      "parameters": [{ "name": "id", "in": "path", "required": true, "schema": { "type": "string" } }],
      "get": {
        "responses": { "200": { "description": "ok" } }
      }
    }
  },
  "components": {
    "schemas": {
      "Base": {
        "type": "object",
        "required": ["email"],
        "properties": {
          "email": { "type": "string", "format": "email", "x-order": 1 }
        }
      },
      "Signup": {
        "allOf": [{ "$ref": "#/components/schemas/Base" }],
        "type": "object",
        "required": ["password"],
        "properties": {
          "password": { "type": "string", "format": "password", "minLength": 8, "x-order": 2 },
          "age": { "type": "integer", "minimum": 18, "maximum": 130 },
          "id": { "type": "string", "readOnly": true }
        }
      }
    }
  }
}`

func TestOperations(t *testing.T) {
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("accounts.json"), []byte(signupDocument))
	p := New(pkgopenapi.NewParserOptions())

	ops, err := p.Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}

	if diff := cmp.Diff([]string{"createAccount", "get:/accounts/{id}"}, pkgopenapi.SortedOperationIDs(ops)); diff != "" {
		t.Fatalf("operation ids mismatch (-want +got):\n%s", diff)
	}

	create := ops["createAccount"]
	if create.Method != "POST" || create.Path != "/accounts" || create.Summary != "Create an account" {
		t.Fatalf("unexpected operation header %+v", create)
	}
	if create.ContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", create.ContentType)
	}

	body := create.RequestBody
	if diff := cmp.Diff([]string{"email", "password", "age", "id"}, body.PropertyNames()); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}
	if !body.IsRequired("email") || !body.IsRequired("password") || body.IsRequired("age") {
		t.Fatalf("unexpected required list %v", body.Required)
	}

	age := body.Properties["age"]
	if age.Minimum == nil || *age.Minimum != 18 || age.Maximum == nil || *age.Maximum != 130 {
		t.Fatalf("expected numeric bounds, got %+v", age)
	}
	password := body.Properties["password"]
	if password.MinLength == nil || *password.MinLength != 8 || password.Order != 2 {
		t.Fatalf("unexpected password schema %+v", password)
	}
	if !body.Properties["id"].ReadOnly {
		t.Fatalf("expected read-only id")
	}
}

func TestOperations_Errors(t *testing.T) {
	p := New(pkgopenapi.NewParserOptions())
	ctx := context.Background()

	noPaths := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("x.json"),
		[]byte(`{"openapi":"3.0.0","info":{"title":"x","version":"1"},"paths":{}}`))
	if _, err := p.Operations(ctx, noPaths); err == nil {
		t.Fatalf("expected error for document without paths")
	}

	garbage := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("x.json"), []byte(`{`))
	if _, err := p.Operations(ctx, garbage); err == nil {
		t.Fatalf("expected load error")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("a.json"), []byte(signupDocument))
	if _, err := p.Operations(cancelled, doc); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestFirstSchemaTypeSkipsNull(t *testing.T) {
	if got := firstSchemaType(nil); got != "" {
		t.Fatalf("expected empty type, got %q", got)
	}
}
