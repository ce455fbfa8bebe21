package builder

import (
	"strconv"

	"golang.org/x/net/html"
)

// FieldOption tunes a single input or textarea.
type FieldOption func(*fieldConfig)

type fieldConfig struct {
	label   string
	content string
}

// WithLabel sets the label text. Without it (or with an empty string) the
// label is the field name with its first letter upper-cased.
func WithLabel(text string) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.label = text
	}
}

// WithContent sets the inner text of a textarea.
func WithContent(text string) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.content = text
	}
}

func newFieldConfig(options []FieldOption) fieldConfig {
	var cfg fieldConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// AddCSRFInput stores a hidden csrf_token input, wrapped in a div, under the
// token_csrf key.
func (b *Builder) AddCSRFInput(token string) *Builder {
	wrapper := element("div", nil,
		element("input", []html.Attribute{
			attr("type", "hidden"),
			attr("name", CSRFField),
			attr("value", token),
		}),
	)
	b.set(CSRFKey, renderNode(wrapper), false)
	return b
}

// AddInput stores an <input> under name. The "hidden" type renders a bare
// input with no label, feedback block or error state; "file" swaps the
// control class for the file class; every other type, known or not, renders
// as a regular form control.
func (b *Builder) AddInput(inputType, name string, attrs Attributes, options ...FieldOption) *Builder {
	cfg := newFieldConfig(options)
	extra := extractClass(attrs, "")
	rest := formatAttributes(withoutClass(attrs))

	if inputType == "hidden" {
		input := element("input", nil)
		input.Attr = append(input.Attr, attr("type", inputType), attr("name", name))
		if extra != "" {
			input.Attr = append(input.Attr, attr("class", extra))
		}
		input.Attr = append(input.Attr, rest...)
		b.set(name, renderNode(input), false)
		return b
	}

	message, invalid := b.fieldError(name)
	base := b.classes.Control
	if inputType == "file" {
		base = b.classes.File
	}

	input := element("input", nil)
	input.Attr = append(input.Attr,
		attr("type", inputType),
		attr("class", b.controlClass(base, invalid, extra)),
		attr("name", name),
		attr("id", name),
	)
	input.Attr = append(input.Attr, rest...)

	group := b.group(b.buildLabel(name, cfg.label), input, b.feedback(message))
	b.set(name, renderNode(group), inputType == "file")
	return b
}

// AddButton stores a <button> under name. The class attribute replaces the
// default button class when present.
func (b *Builder) AddButton(buttonType, name, text string, attrs Attributes) *Builder {
	class := extractClass(attrs, b.classes.Button)
	rest := formatAttributes(withoutClass(attrs))

	button := element("button", nil)
	button.Attr = append(button.Attr,
		attr("type", buttonType),
		attr("class", class),
		attr("name", name),
	)
	button.Attr = append(button.Attr, rest...)
	if markup := sanitizeMarkup(b.policy, text); markup != "" {
		button.AppendChild(raw(markup))
	}

	group := element("div", []html.Attribute{attr("class", b.classes.Group)}, button)
	b.set(name, renderNode(group), false)
	return b
}

// AddTextArea stores a <textarea> with the given row count under name.
func (b *Builder) AddTextArea(rows int, name string, attrs Attributes, options ...FieldOption) *Builder {
	cfg := newFieldConfig(options)
	extra := extractClass(attrs, "")
	rest := formatAttributes(withoutClass(attrs))
	message, invalid := b.fieldError(name)

	textarea := element("textarea", nil)
	textarea.Attr = append(textarea.Attr,
		attr("rows", strconv.Itoa(rows)),
		attr("class", b.controlClass(b.classes.Control, invalid, extra)),
		attr("name", name),
		attr("id", name),
	)
	textarea.Attr = append(textarea.Attr, rest...)
	if cfg.content != "" {
		textarea.AppendChild(text(cfg.content))
	}

	group := b.group(b.buildLabel(name, cfg.label), textarea, b.feedback(message))
	b.set(name, renderNode(group), false)
	return b
}

func (b *Builder) setMethodInput(verb string) {
	input := element("input", []html.Attribute{
		attr("type", "hidden"),
		attr("name", MethodOverrideField),
		attr("value", verb),
	})
	b.set(MethodOverrideKey, renderNode(input), false)
}

func (b *Builder) group(children ...*html.Node) *html.Node {
	return element("div", []html.Attribute{attr("class", b.classes.Group)}, children...)
}

func (b *Builder) feedback(message string) *html.Node {
	node := element("div", []html.Attribute{attr("class", b.classes.Feedback)})
	if message != "" {
		node.AppendChild(text(message))
	}
	return node
}

// controlClass renders "base[ modifier] extra". A control without errors or
// extra classes keeps the trailing space: class="form-control ".
func (b *Builder) controlClass(base string, invalid bool, extra string) string {
	modifier := ""
	if invalid {
		modifier = " " + b.classes.Invalid
	}
	return base + modifier + " " + extra
}
