package chrome_test

import (
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/chrome"
)

func TestManifestSelector(t *testing.T) {
	acme := &theme.Manifest{
		Name:   "acme",
		Tokens: map[string]string{chrome.TokenButton: "btn btn-acme"},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{chrome.TokenControl: "form-control bg-dark"}},
		},
	}
	plain := &theme.Manifest{Name: "plain"}
	selector := chrome.NewManifestSelector(acme, plain, nil)

	if diff := cmp.Diff([]string{"acme", "plain"}, selector.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	classes, err := chrome.Select(selector, "", "dark")
	if err != nil {
		t.Fatalf("select fallback: %v", err)
	}
	if classes.Button != "btn btn-acme" || classes.Control != "form-control bg-dark" {
		t.Fatalf("unexpected classes %+v", classes)
	}

	if _, err := selector.Select("missing", ""); err == nil {
		t.Fatalf("expected unknown theme error")
	}
	if _, err := selector.Select("plain", "dark"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
}
