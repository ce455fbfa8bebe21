package chrome_test

import (
	"errors"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/chrome"
)

func TestFromManifest_VariantOverridesBaseTokens(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			chrome.TokenButton:  "btn btn-acme",
			chrome.TokenControl: "  acme-input  ",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					chrome.TokenButton: "btn btn-dark",
				},
			},
		},
	}

	got := chrome.FromManifest(manifest, "dark")

	want := chrome.Bootstrap4()
	want.Control = "acme-input"
	want.Button = "btn btn-dark"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}

	base := chrome.FromManifest(manifest, "missing")
	if base.Button != "btn btn-acme" {
		t.Fatalf("unknown variant should fall back to base tokens, got %q", base.Button)
	}
}

func TestFromManifest_Nil(t *testing.T) {
	if diff := cmp.Diff(chrome.Bootstrap4(), chrome.FromManifest(nil, "")); diff != "" {
		t.Fatalf("nil manifest must yield defaults (-want +got):\n%s", diff)
	}
}

func TestSelect_UsesSelector(t *testing.T) {
	selector := &stubSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{chrome.TokenInvalid: "has-error"},
		},
	}}

	classes, err := chrome.Select(selector, "acme", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if classes.Invalid != "has-error" {
		t.Fatalf("expected invalid token override, got %q", classes.Invalid)
	}
	if selector.name != "acme" {
		t.Fatalf("selector called with %q", selector.name)
	}
}

func TestSelect_PropagatesErrors(t *testing.T) {
	_, err := chrome.Select(&stubSelector{err: errors.New("boom")}, "acme", "")
	if err == nil {
		t.Fatalf("expected selector error")
	}
}

func TestLoadManifest(t *testing.T) {
	raw := []byte(`
name: slate
version: "1.0.0"
tokens:
  forms.group: mb-3
  forms.label: form-label
`)
	manifest, err := chrome.LoadManifest(raw)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	classes := chrome.FromManifest(manifest, "")
	if classes.Group != "mb-3" || classes.Label != "form-label" {
		t.Fatalf("unexpected classes %+v", classes)
	}

	if _, err := chrome.LoadManifest([]byte("   ")); err == nil {
		t.Fatalf("expected empty manifest error")
	}
	if _, err := chrome.LoadManifest([]byte("version: 1")); err == nil {
		t.Fatalf("expected missing name error")
	}
}

func TestJoinClasses(t *testing.T) {
	if got := chrome.JoinClasses("btn ", "", "  btn-lg  extra"); got != "btn btn-lg extra" {
		t.Fatalf("unexpected join %q", got)
	}
}

type stubSelector struct {
	selection *theme.Selection
	err       error
	name      string
}

func (s *stubSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.name = name
	return s.selection, s.err
}
