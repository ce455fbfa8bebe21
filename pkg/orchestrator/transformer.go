package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
)

// Transformer rewrites an OpenAPI operation before it is mapped onto form
// controls. Implementations can relabel, rename, reorder or hide properties.
type Transformer interface {
	Transform(ctx context.Context, op *pkgopenapi.Operation) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, op *pkgopenapi.Operation) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, op *pkgopenapi.Operation) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, op)
}

// JSONPresetTransformer applies declarative overrides loaded from JSON. Each
// entry patches one request body property:
//
//	{
//	  "fields": {
//	    "email": {"label": "Work e-mail", "order": 1},
//	    "internal_note": {"hidden": true},
//	    "msg": {"rename": "message", "description": "What can we help with?"}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Fields map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Rename      string `json:"rename"`
	Hidden      bool   `json:"hidden"`
	Required    *bool  `json:"required"`
	Order       int    `json:"order"`
	Default     any    `json:"default"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from fsys.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patches onto the operation's request body. Patching
// a property the body does not declare is an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, op *pkgopenapi.Operation) error {
	if op == nil {
		return errors.New("json preset transformer: operation is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(t.document.Fields) == 0 {
		return nil
	}

	body := op.RequestBody.Clone()
	for name, patch := range t.document.Fields {
		prop, ok := body.Properties[name]
		if !ok {
			return fmt.Errorf("json preset transformer: property %q not found", name)
		}
		if patch.Hidden {
			delete(body.Properties, name)
			body.Required = without(body.Required, name)
			continue
		}
		applyFieldPatch(&prop, patch)
		if patch.Required != nil {
			body.Required = without(body.Required, name)
			if *patch.Required {
				body.Required = append(body.Required, name)
			}
		}

		if rename := strings.TrimSpace(patch.Rename); rename != "" && rename != name {
			if _, taken := body.Properties[rename]; taken {
				return fmt.Errorf("json preset transformer: cannot rename %q to existing property %q", name, rename)
			}
			delete(body.Properties, name)
			if body.IsRequired(name) {
				body.Required = append(without(body.Required, name), rename)
			}
			name = rename
		}
		body.Properties[name] = prop
	}
	op.RequestBody = body
	return nil
}

func applyFieldPatch(prop *pkgopenapi.Schema, patch jsonFieldPatch) {
	if patch.Label != "" {
		prop.Title = patch.Label
	}
	if patch.Description != "" {
		prop.Description = patch.Description
	}
	if patch.Order != 0 {
		prop.Order = patch.Order
	}
	if patch.Default != nil {
		prop.Default = patch.Default
	}
}

func without(values []string, name string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != name {
			out = append(out, v)
		}
	}
	return out
}
