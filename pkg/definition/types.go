package definition

import (
	"errors"
	"sort"
)

// ErrFormNotFound is returned when a store has no form with the requested
// name.
var ErrFormNotFound = errors.New("definition: form not found")

// Kind selects the builder operation an element replays.
type Kind string

const (
	KindInput    Kind = "input"
	KindButton   Kind = "button"
	KindTextArea Kind = "textarea"
)

// DefaultRows is used for textareas that do not declare rows.
const DefaultRows = 3

// Form is a named form definition.
type Form struct {
	Name     string    `json:"-" yaml:"-"`
	Method   string    `json:"method" yaml:"method"`
	Action   string    `json:"action" yaml:"action"`
	CSRF     bool      `json:"csrf" yaml:"csrf"`
	Elements []Element `json:"elements" yaml:"elements"`
	// Source is the file the form was loaded from.
	Source string `json:"-" yaml:"-"`
}

// Element describes one builder call.
type Element struct {
	Kind       Kind              `json:"kind" yaml:"kind"`
	Type       string            `json:"type,omitempty" yaml:"type,omitempty"`
	Name       string            `json:"name" yaml:"name"`
	Label      string            `json:"label,omitempty" yaml:"label,omitempty"`
	Text       string            `json:"text,omitempty" yaml:"text,omitempty"`
	Content    string            `json:"content,omitempty" yaml:"content,omitempty"`
	Rows       int               `json:"rows,omitempty" yaml:"rows,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	// Rules are go-playground/validator tags checked on submission.
	Rules string `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Store holds forms keyed by name.
type Store struct {
	forms map[string]Form
}

// NewStore builds a store from already parsed forms. Later duplicates
// replace earlier ones.
func NewStore(forms ...Form) *Store {
	store := &Store{forms: make(map[string]Form, len(forms))}
	for _, form := range forms {
		store.forms[form.Name] = form
	}
	return store
}

// Form returns the definition registered under name.
func (s *Store) Form(name string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[name]
	return form, ok
}

// Names lists the registered forms in sorted order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.forms))
	for name := range s.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}
