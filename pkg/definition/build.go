package definition

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/builder"
)

// BuildOptions carry request-scoped inputs for Build.
type BuildOptions struct {
	// CSRFToken is required when the form declares csrf: true.
	CSRFToken string
	// Builder options, typically builder.WithErrors and builder.WithClasses.
	Builder []builder.Option
}

// Build replays the definition against a fresh builder.
func (f Form) Build(opts BuildOptions) (*builder.Builder, error) {
	form := builder.New(f.Name, f.Method, f.Action, opts.Builder...)

	if f.CSRF {
		token := strings.TrimSpace(opts.CSRFToken)
		if token == "" {
			return nil, fmt.Errorf("definition: form %q requires a csrf token", f.Name)
		}
		form.AddCSRFInput(token)
	}

	for _, el := range f.Elements {
		attrs := builder.Attributes(el.Attributes)
		switch el.Kind {
		case KindInput:
			form.AddInput(el.Type, el.Name, attrs, builder.WithLabel(el.Label))
		case KindButton:
			form.AddButton(el.Type, el.Name, el.Text, attrs)
		case KindTextArea:
			form.AddTextArea(el.Rows, el.Name, attrs, builder.WithLabel(el.Label), builder.WithContent(el.Content))
		default:
			return nil, fmt.Errorf("definition: form %q element %q has unknown kind %q", f.Name, el.Name, el.Kind)
		}
	}
	return form, nil
}

// Build looks up name and builds it.
func (s *Store) Build(name string, opts BuildOptions) (*builder.Builder, error) {
	form, ok := s.Form(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFormNotFound, name)
	}
	return form.Build(opts)
}

// Rules returns the validator tags declared per element name.
func (f Form) Rules() map[string]string {
	rules := make(map[string]string)
	for _, el := range f.Elements {
		if rule := strings.TrimSpace(el.Rules); rule != "" {
			rules[el.Name] = rule
		}
	}
	return rules
}

// FieldNames lists the names of the elements that accept user input, in
// declaration order.
func (f Form) FieldNames() []string {
	names := make([]string, 0, len(f.Elements))
	for _, el := range f.Elements {
		if el.Kind == KindButton {
			continue
		}
		names = append(names, el.Name)
	}
	return names
}
