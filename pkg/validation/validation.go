// Package validation runs go-playground/validator rules over submitted form
// values and reports failures as field → messages payloads that
// session.RecordErrors understands.
package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Field names follow the form tag, then the json tag, so messages line
		// up with the names used for form elements.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"form", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
	return validate
}

// Fields validates values against rules, both keyed by field name. Rules use
// validator tag syntax ("required,email,max=255"). Fields without rules are
// ignored; fields with rules but no value are validated as empty strings.
func Fields(values map[string]string, rules map[string]string) (map[string][]string, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	v := getValidator()
	out := make(map[string][]string)
	for _, name := range names {
		rule := strings.TrimSpace(rules[name])
		if rule == "" {
			continue
		}
		err := v.Var(values[name], rule)
		if err == nil {
			continue
		}
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return nil, err
		}
		for _, fe := range fieldErrors {
			out[name] = append(out[name], Message(fe))
		}
	}

	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// Struct validates a tagged struct and returns messages keyed by the form (or
// json) name of each failing field. Nested fields use dotted paths.
func Struct(s any) (map[string][]string, error) {
	err := getValidator().Struct(s)
	if err == nil {
		return nil, nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return nil, err
	}

	out := make(map[string][]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		key := fieldPath(fe.Namespace())
		out[key] = append(out[key], Message(fe))
	}
	return out, nil
}

// Message turns a validator failure into a sentence suitable for an
// invalid-feedback block.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if isText(fe) {
			return "Must be at least " + fe.Param() + " characters"
		}
		return "Must be at least " + fe.Param()
	case "max":
		if isText(fe) {
			return "Must be at most " + fe.Param() + " characters"
		}
		return "Must be at most " + fe.Param()
	case "len":
		return "Must be exactly " + fe.Param() + " characters"
	case "url", "http_url":
		return "Must be a valid URL"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "oneof":
		return "Must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "numeric", "number":
		return "Must be a number"
	case "alphanum":
		return "Must contain only letters and digits"
	case "eqfield":
		return "Must match " + fe.Param()
	default:
		return "Is invalid"
	}
}

func isText(fe validator.FieldError) bool {
	return fe.Kind() == reflect.String
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}
