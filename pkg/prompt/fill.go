// Package prompt collects values for a declarative form on the terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Fill asks for every field of form in declaration order and returns the
// answers keyed by field name. Answers are checked against the field's rules
// as they are typed. Hidden and file inputs are skipped.
func Fill(ctx context.Context, driver Driver, form definition.Form) (map[string]string, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is required")
	}

	values := make(map[string]string)
	for _, el := range form.Elements {
		message := promptMessage(el)
		check := fieldValidator(el)

		var (
			value string
			err   error
		)
		switch {
		case el.Kind == definition.KindButton:
			continue
		case el.Kind == definition.KindTextArea:
			value, err = driver.TextArea(ctx, TextAreaConfig{
				Message:   message,
				Default:   el.Content,
				Help:      el.Attributes["title"],
				Validator: check,
			})
		case el.Type == "hidden":
			continue
		case el.Type == "file":
			err = driver.Info(ctx, fmt.Sprintf("Skipping file field %q", el.Name))
			if err != nil {
				return nil, err
			}
			continue
		case el.Type == "checkbox":
			var checked bool
			checked, err = driver.Confirm(ctx, ConfirmConfig{
				Message: message,
				Default: el.Attributes["checked"] != "",
				Help:    el.Attributes["title"],
			})
			if checked {
				value = checkboxValue(el)
			}
		case el.Type == "password":
			value, err = driver.Password(ctx, InputConfig{
				Message:   message,
				Help:      el.Attributes["title"],
				Validator: check,
			})
		default:
			value, err = driver.Input(ctx, InputConfig{
				Message:   message,
				Default:   el.Attributes["value"],
				Help:      helpText(el),
				Validator: check,
			})
		}
		if err != nil {
			return nil, fmt.Errorf("prompt: field %q: %w", el.Name, err)
		}
		values[el.Name] = value
	}
	return values, nil
}

// Prefill returns a copy of form whose inputs carry values, so a re-render
// shows what was submitted. Password and file inputs are never prefilled.
func Prefill(form definition.Form, values map[string]string) definition.Form {
	out := form
	out.Elements = make([]definition.Element, len(form.Elements))
	for i, el := range form.Elements {
		value, ok := values[el.Name]
		if !ok || el.Kind == definition.KindButton {
			out.Elements[i] = el
			continue
		}
		if el.Kind == definition.KindTextArea {
			el.Content = value
			out.Elements[i] = el
			continue
		}

		attrs := make(map[string]string, len(el.Attributes)+1)
		for k, v := range el.Attributes {
			attrs[k] = v
		}
		switch el.Type {
		case "password", "file":
		case "checkbox", "radio":
			delete(attrs, "checked")
			if value != "" {
				attrs["checked"] = "checked"
			}
		default:
			attrs["value"] = value
		}
		el.Attributes = attrs
		out.Elements[i] = el
	}
	return out
}

func promptMessage(el definition.Element) string {
	if label := strings.TrimSpace(el.Label); label != "" {
		return label
	}
	return el.Name
}

func helpText(el definition.Element) string {
	if help := el.Attributes["title"]; help != "" {
		return help
	}
	return el.Attributes["placeholder"]
}

func checkboxValue(el definition.Element) string {
	if v := el.Attributes["value"]; v != "" {
		return v
	}
	return "on"
}

func fieldValidator(el definition.Element) func(string) error {
	rule := strings.TrimSpace(el.Rules)
	if rule == "" {
		return nil
	}
	return func(value string) error {
		failures, err := validation.Fields(map[string]string{el.Name: value}, map[string]string{el.Name: rule})
		if err != nil {
			return err
		}
		if messages := failures[el.Name]; len(messages) > 0 {
			return errors.New(strings.Join(messages, "; "))
		}
		return nil
	}
}
