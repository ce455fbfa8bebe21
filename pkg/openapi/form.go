package openapi

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/builder"
)

// ErrNoFormFields is returned when an operation's request body has no
// properties to turn into controls.
var ErrNoFormFields = errors.New("openapi: request body has no form fields")

// DefaultTextAreaThreshold is the maxLength above which strings render as a
// textarea.
const DefaultTextAreaThreshold = 255

// SubmitKey names the appended submit button. The leading underscore keeps it
// clear of request body properties, including one called "submit".
const SubmitKey = "_submit"

// FormOption configures BuildForm.
type FormOption func(*formConfig)

type formConfig struct {
	name          string
	action        string
	csrfToken     string
	submitText    string
	textAreaAbove int
	textAreaRows  int
	builder       []builder.Option
}

// WithFormName overrides the form name, which defaults to the operation id.
func WithFormName(name string) FormOption {
	return func(cfg *formConfig) {
		if name = strings.TrimSpace(name); name != "" {
			cfg.name = name
		}
	}
}

// WithAction overrides the action, which defaults to the operation path.
func WithAction(action string) FormOption {
	return func(cfg *formConfig) {
		if action = strings.TrimSpace(action); action != "" {
			cfg.action = action
		}
	}
}

// WithCSRFToken adds the hidden CSRF input.
func WithCSRFToken(token string) FormOption {
	return func(cfg *formConfig) {
		cfg.csrfToken = strings.TrimSpace(token)
	}
}

// WithSubmitText sets the caption of the appended submit button.
func WithSubmitText(text string) FormOption {
	return func(cfg *formConfig) {
		if strings.TrimSpace(text) != "" {
			cfg.submitText = text
		}
	}
}

// WithTextArea configures when strings become textareas and how tall they
// are.
func WithTextArea(threshold, rows int) FormOption {
	return func(cfg *formConfig) {
		if threshold > 0 {
			cfg.textAreaAbove = threshold
		}
		if rows > 0 {
			cfg.textAreaRows = rows
		}
	}
}

// WithBuilderOptions forwards options to builder.New.
func WithBuilderOptions(options ...builder.Option) FormOption {
	return func(cfg *formConfig) {
		cfg.builder = append(cfg.builder, options...)
	}
}

// BuildForm maps the request body properties of op onto form controls and
// appends a submit button. Object, array and read-only properties are
// skipped.
func BuildForm(op Operation, options ...FormOption) (*builder.Builder, error) {
	cfg := formConfig{
		name:          op.ID,
		action:        op.Path,
		submitText:    "Submit",
		textAreaAbove: DefaultTextAreaThreshold,
		textAreaRows:  5,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	body := op.RequestBody
	names := body.PropertyNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: operation %q", ErrNoFormFields, op.ID)
	}

	form := builder.New(cfg.name, strings.ToLower(op.Method), cfg.action, cfg.builder...)
	if cfg.csrfToken != "" {
		form.AddCSRFInput(cfg.csrfToken)
	}

	for _, name := range names {
		prop := body.Properties[name]
		if prop.ReadOnly {
			continue
		}
		attrs := constraintAttributes(prop, body.IsRequired(name))

		if isTextArea(prop, cfg.textAreaAbove) {
			form.AddTextArea(cfg.textAreaRows, name, attrs,
				builder.WithLabel(prop.Title),
				builder.WithContent(defaultString(prop.Default)),
			)
			continue
		}

		inputType, ok := inputTypeFor(prop)
		if !ok {
			continue
		}
		applyDefault(attrs, inputType, prop.Default)
		form.AddInput(inputType, name, attrs, builder.WithLabel(prop.Title))
	}

	form.AddButton("submit", SubmitKey, cfg.submitText, nil)
	return form, nil
}

func inputTypeFor(prop Schema) (string, bool) {
	switch prop.Type {
	case "string", "":
		if prop.Type == "" && len(prop.Properties) > 0 {
			return "", false
		}
		switch prop.Format {
		case "email":
			return "email", true
		case "password":
			return "password", true
		case "binary":
			return "file", true
		case "date":
			return "date", true
		case "date-time":
			return "datetime-local", true
		case "uri", "url":
			return "url", true
		default:
			return "text", true
		}
	case "integer", "number":
		return "number", true
	case "boolean":
		return "checkbox", true
	default:
		return "", false
	}
}

func isTextArea(prop Schema, threshold int) bool {
	if prop.Type != "string" {
		return false
	}
	if prop.Format == "textarea" || prop.Format == "multiline" {
		return true
	}
	return prop.MaxLength != nil && *prop.MaxLength > threshold
}

func constraintAttributes(prop Schema, required bool) builder.Attributes {
	attrs := builder.Attributes{}
	if required {
		attrs["required"] = "required"
	}
	if prop.Minimum != nil {
		attrs["min"] = formatNumber(*prop.Minimum)
	}
	if prop.Maximum != nil {
		attrs["max"] = formatNumber(*prop.Maximum)
	}
	switch prop.Type {
	case "integer":
		attrs["step"] = "1"
	case "number":
		attrs["step"] = "any"
	case "boolean":
		attrs["value"] = "1"
	}
	if prop.MinLength != nil && *prop.MinLength > 0 {
		attrs["minlength"] = strconv.Itoa(*prop.MinLength)
	}
	if prop.MaxLength != nil {
		attrs["maxlength"] = strconv.Itoa(*prop.MaxLength)
	}
	if prop.Pattern != "" {
		attrs["pattern"] = prop.Pattern
	} else if pattern := enumPattern(prop.Enum); pattern != "" {
		attrs["pattern"] = pattern
	}
	if desc := strings.TrimSpace(prop.Description); desc != "" {
		attrs["title"] = desc
	}
	return attrs
}

func applyDefault(attrs builder.Attributes, inputType string, value any) {
	if value == nil {
		return
	}
	switch inputType {
	case "file", "password":
		return
	case "checkbox":
		if checked, ok := value.(bool); ok && checked {
			attrs["checked"] = "checked"
		}
		return
	}
	if s := defaultString(value); s != "" {
		attrs["value"] = s
	}
}

func enumPattern(values []any) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return ""
		}
		parts = append(parts, regexp.QuoteMeta(s))
	}
	return strings.Join(parts, "|")
}

func defaultString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Rules derives validator tags for each property of the request body so
// submissions can be checked with validation.Fields.
func Rules(body Schema) map[string]string {
	rules := make(map[string]string, len(body.Properties))
	for _, name := range body.PropertyNames() {
		prop := body.Properties[name]
		if prop.ReadOnly || prop.Format == "binary" {
			continue
		}
		if _, ok := inputTypeFor(prop); !ok {
			continue
		}

		var tags []string
		if body.IsRequired(name) {
			tags = append(tags, "required")
		} else {
			tags = append(tags, "omitempty")
		}
		switch prop.Type {
		case "integer", "number":
			tags = append(tags, "numeric")
		case "boolean":
			tags = append(tags, "oneof=0 1 true false on")
		case "string":
			switch prop.Format {
			case "email":
				tags = append(tags, "email")
			case "uri", "url":
				tags = append(tags, "url")
			case "uuid":
				tags = append(tags, "uuid")
			}
			if prop.MinLength != nil && *prop.MinLength > 0 {
				tags = append(tags, "min="+strconv.Itoa(*prop.MinLength))
			}
			if prop.MaxLength != nil {
				tags = append(tags, "max="+strconv.Itoa(*prop.MaxLength))
			}
			if oneOf := enumOneOf(prop.Enum); oneOf != "" {
				tags = append(tags, "oneof="+oneOf)
			}
		}
		rules[name] = strings.Join(tags, ",")
	}
	return rules
}

func enumOneOf(values []any) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok || s == "" || strings.ContainsAny(s, " ,|") {
			return ""
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
