package builder

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/chrome"
	"github.com/goliatone/go-formbuilder/pkg/session"
)

// Element keys and field names with a fixed meaning.
const (
	// MethodOverrideKey stores the hidden method override input.
	MethodOverrideKey = "_method"
	// MethodOverrideField is the name of the method override input.
	MethodOverrideField = "_METHOD"
	// CSRFKey stores the CSRF block.
	CSRFKey = "token_csrf"
	// CSRFField is the name of the hidden CSRF input.
	CSRFField = "csrf_token"
)

// Attributes holds extra HTML attributes for an element. They are rendered in
// ascending key order.
type Attributes map[string]string

// Element is one rendered fragment.
type Element struct {
	Key  string
	HTML string
}

// Option configures a Builder at construction time.
type Option func(*Builder)

// WithErrors injects the store queried for validator_error_<field> messages.
func WithErrors(reader session.Reader) Option {
	return func(b *Builder) {
		if reader != nil {
			b.errors = reader
		}
	}
}

// WithClasses overrides the class vocabulary. Empty fields keep their
// Bootstrap 4 default.
func WithClasses(classes chrome.Classes) Option {
	return func(b *Builder) {
		b.classes = b.classes.Merge(classes)
	}
}

// WithMarkupPolicy replaces the policy used to sanitise label and button
// markup.
func WithMarkupPolicy(policy *bluemonday.Policy) Option {
	return func(b *Builder) {
		if policy != nil {
			b.policy = policy
		}
	}
}

// Builder accumulates form element markup keyed by field name.
type Builder struct {
	name   string
	method string
	action string

	keys     []string
	elements map[string]string
	files    map[string]bool

	errors  session.Reader
	classes chrome.Classes
	policy  *bluemonday.Policy
}

// New creates a Builder. The verbs put, patch and delete (lowercase) are not
// supported by browsers, so they are submitted as post and the real verb is
// carried by a hidden _METHOD input added as the first element. Any other
// method is stored verbatim.
func New(name, method, action string, options ...Option) *Builder {
	b := &Builder{
		name:     name,
		action:   action,
		elements: make(map[string]string),
		files:    make(map[string]bool),
		errors:   session.Empty{},
		classes:  chrome.Bootstrap4(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	if b.policy == nil {
		b.policy = inlinePolicy()
	}

	switch method {
	case "put", "patch", "delete":
		b.method = "post"
		b.setMethodInput(strings.ToUpper(method))
	default:
		b.method = method
	}
	return b
}

// Name returns the form name.
func (b *Builder) Name() string { return b.name }

// Method returns the method the form is submitted with.
func (b *Builder) Method() string { return b.method }

// Action returns the form target URL.
func (b *Builder) Action() string { return b.action }

// Classes returns the class vocabulary in use.
func (b *Builder) Classes() chrome.Classes { return b.classes }

// Len reports how many elements have been added.
func (b *Builder) Len() int { return len(b.keys) }

// Keys returns element keys in insertion order.
func (b *Builder) Keys() []string {
	return append([]string(nil), b.keys...)
}

// Element returns the markup stored under key.
func (b *Builder) Element(key string) (string, bool) {
	markup, ok := b.elements[key]
	return markup, ok
}

// Elements returns every fragment in insertion order. Overwritten keys keep
// the position of their first insertion.
func (b *Builder) Elements() []Element {
	out := make([]Element, 0, len(b.keys))
	for _, key := range b.keys {
		out = append(out, Element{Key: key, HTML: b.elements[key]})
	}
	return out
}

// HTML concatenates every fragment in insertion order.
func (b *Builder) HTML() string {
	var sb strings.Builder
	for _, key := range b.keys {
		sb.WriteString(b.elements[key])
	}
	return sb.String()
}

// HasFileInput reports whether any current element is a file input.
func (b *Builder) HasFileInput() bool {
	for _, isFile := range b.files {
		if isFile {
			return true
		}
	}
	return false
}

func (b *Builder) set(key, markup string, isFile bool) {
	if _, exists := b.elements[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.elements[key] = markup
	if isFile {
		b.files[key] = true
	} else {
		delete(b.files, key)
	}
}

// fieldError reports the recorded message for name. An empty message never
// marks the field invalid, whatever the reader says.
func (b *Builder) fieldError(name string) (string, bool) {
	message, ok := b.errors.Read(session.ErrorKey(name))
	if !ok || message == "" {
		return "", false
	}
	return message, true
}
