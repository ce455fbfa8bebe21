// Package chrome names the CSS classes the builder stamps onto form markup.
// Defaults follow Bootstrap 4; a go-theme manifest can override any of them
// through its tokens.
package chrome

import (
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// Token keys read from a theme manifest.
const (
	TokenGroup    = "forms.group"
	TokenLabel    = "forms.label"
	TokenControl  = "forms.control"
	TokenFile     = "forms.file"
	TokenInvalid  = "forms.invalid"
	TokenFeedback = "forms.feedback"
	TokenButton   = "forms.button"
)

// Classes is the class vocabulary used by every element builder.
type Classes struct {
	// Group wraps a label, control and feedback block.
	Group string
	// Label is applied to <label> elements.
	Label string
	// Control is the base class for inputs and textareas.
	Control string
	// File replaces Control for file inputs.
	File string
	// Invalid is appended to the control class when a field has an error.
	Invalid string
	// Feedback wraps the validation message.
	Feedback string
	// Button is the default class of buttons without an explicit class.
	Button string
}

// Bootstrap4 returns the Bootstrap 4 class names.
func Bootstrap4() Classes {
	return Classes{
		Group:    "form-group",
		Label:    "control-label",
		Control:  "form-control",
		File:     "input-file",
		Invalid:  "is-invalid",
		Feedback: "invalid-feedback",
		Button:   "btn btn-primary",
	}
}

// Merge returns c with every non-empty field of override applied on top.
func (c Classes) Merge(override Classes) Classes {
	out := c
	if v := sanitizeClassList(override.Group); v != "" {
		out.Group = v
	}
	if v := sanitizeClassList(override.Label); v != "" {
		out.Label = v
	}
	if v := sanitizeClassList(override.Control); v != "" {
		out.Control = v
	}
	if v := sanitizeClassList(override.File); v != "" {
		out.File = v
	}
	if v := sanitizeClassList(override.Invalid); v != "" {
		out.Invalid = v
	}
	if v := sanitizeClassList(override.Feedback); v != "" {
		out.Feedback = v
	}
	if v := sanitizeClassList(override.Button); v != "" {
		out.Button = v
	}
	return out
}

// FromTokens builds a Classes override from theme tokens.
func FromTokens(tokens map[string]string) Classes {
	if len(tokens) == 0 {
		return Classes{}
	}
	return Classes{
		Group:    tokens[TokenGroup],
		Label:    tokens[TokenLabel],
		Control:  tokens[TokenControl],
		File:     tokens[TokenFile],
		Invalid:  tokens[TokenInvalid],
		Feedback: tokens[TokenFeedback],
		Button:   tokens[TokenButton],
	}
}

// FromManifest resolves the classes for a manifest and variant. Variant tokens
// win over base tokens; missing tokens keep the Bootstrap 4 defaults.
func FromManifest(manifest *theme.Manifest, variant string) Classes {
	return Bootstrap4().Apply(manifest, variant)
}

// Apply layers the manifest tokens, then the variant tokens, over c.
func (c Classes) Apply(manifest *theme.Manifest, variant string) Classes {
	if manifest == nil {
		return c
	}

	classes := c.Merge(FromTokens(manifest.Tokens))
	if variant = strings.TrimSpace(variant); variant != "" {
		if v, ok := manifest.Variants[variant]; ok {
			classes = classes.Merge(FromTokens(v.Tokens))
		}
	}
	return classes
}

// FromSelection resolves classes for a go-theme selection.
func FromSelection(selection *theme.Selection) Classes {
	if selection == nil {
		return Bootstrap4()
	}
	return FromManifest(selection.Manifest, selection.Variant)
}

// Select asks selector for a theme and returns its classes over the
// Bootstrap 4 defaults.
func Select(selector theme.ThemeSelector, name, variant string) (Classes, error) {
	return Bootstrap4().Select(selector, name, variant)
}

// Select asks selector for a theme and layers its tokens over c.
func (c Classes) Select(selector theme.ThemeSelector, name, variant string) (Classes, error) {
	if selector == nil {
		return c, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return Classes{}, fmt.Errorf("chrome: select theme %q: %w", name, err)
	}
	if selection == nil {
		return c, nil
	}
	return c.Apply(selection.Manifest, selection.Variant), nil
}

// LoadManifest decodes a YAML (or JSON) theme manifest.
func LoadManifest(data []byte) (*theme.Manifest, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("chrome: manifest is empty")
	}
	var manifest theme.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("chrome: decode manifest: %w", err)
	}
	if strings.TrimSpace(manifest.Name) == "" {
		return nil, errors.New("chrome: manifest name is required")
	}
	return &manifest, nil
}

// JoinClasses joins non-empty class lists with single spaces.
func JoinClasses(lists ...string) string {
	parts := make([]string, 0, len(lists))
	for _, list := range lists {
		if cleaned := sanitizeClassList(list); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return strings.Join(parts, " ")
}

func sanitizeClassList(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
