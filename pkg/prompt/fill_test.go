package prompt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/prompt"
)

type fakeDriver struct {
	answers  map[string]string
	confirms map[string]bool
	asked    []string
	infos    []string
	rejected map[string]error
}

func (d *fakeDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return d.answer(cfg.Message, cfg.Validator)
}

func (d *fakeDriver) Password(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return d.answer(cfg.Message, cfg.Validator)
}

func (d *fakeDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	return d.confirms[cfg.Message], nil
}

func (d *fakeDriver) TextArea(_ context.Context, cfg prompt.TextAreaConfig) (string, error) {
	return d.answer(cfg.Message, cfg.Validator)
}

func (d *fakeDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func (d *fakeDriver) answer(message string, validate func(string) error) (string, error) {
	d.asked = append(d.asked, message)
	value := d.answers[message]
	if validate != nil {
		if err := validate(value); err != nil {
			if d.rejected == nil {
				d.rejected = map[string]error{}
			}
			d.rejected[message] = err
		}
	}
	return value, nil
}

func signupForm() definition.Form {
	return definition.Form{
		Name:   "signup",
		Method: "post",
		Action: "/signup",
		Elements: []definition.Element{
			{Kind: definition.KindInput, Type: "hidden", Name: "ref", Attributes: map[string]string{"value": "x"}},
			{Kind: definition.KindInput, Type: "email", Name: "email", Label: "E-mail", Rules: "required,email"},
			{Kind: definition.KindInput, Type: "password", Name: "password", Rules: "required,min=8"},
			{Kind: definition.KindInput, Type: "file", Name: "avatar"},
			{Kind: definition.KindTextArea, Name: "bio", Rows: 3},
			{Kind: definition.KindInput, Type: "checkbox", Name: "news", Label: "Newsletter"},
			{Kind: definition.KindButton, Type: "submit", Name: "save", Text: "Save"},
		},
	}
}

func TestFill(t *testing.T) {
	driver := &fakeDriver{
		answers: map[string]string{
			"E-mail":   "not-an-email",
			"password": "s3cret-pass",
			"bio":      "hello",
		},
		confirms: map[string]bool{"Newsletter": true},
	}

	values, err := prompt.Fill(context.Background(), driver, signupForm())
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]string{
		"email":    "not-an-email",
		"password": "s3cret-pass",
		"bio":      "hello",
		"news":     "on",
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"E-mail", "password", "bio", "Newsletter"}, driver.asked); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if err := driver.rejected["E-mail"]; err == nil || err.Error() != "Must be a valid email address" {
		t.Fatalf("expected email validator to reject, got %v", err)
	}
	if _, ok := driver.rejected["password"]; ok {
		t.Fatalf("password should pass its rules")
	}
	if len(driver.infos) != 1 {
		t.Fatalf("expected a notice for the skipped file field, got %v", driver.infos)
	}
}

type abortingDriver struct{ fakeDriver }

func (d *abortingDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	return "", prompt.ErrAborted
}

func TestFillAborted(t *testing.T) {
	_, err := prompt.Fill(context.Background(), &abortingDriver{}, signupForm())
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, err := prompt.Fill(context.Background(), nil, signupForm()); err == nil {
		t.Fatalf("expected error for nil driver")
	}
}

func TestPrefill(t *testing.T) {
	form := signupForm()
	filled := prompt.Prefill(form, map[string]string{
		"email":    "jane@example.com",
		"password": "secret",
		"bio":      "hi",
		"news":     "",
	})

	if got := filled.Elements[1].Attributes["value"]; got != "jane@example.com" {
		t.Fatalf("email not prefilled: %q", got)
	}
	if _, ok := filled.Elements[2].Attributes["value"]; ok {
		t.Fatalf("password must not be prefilled")
	}
	if filled.Elements[4].Content != "hi" {
		t.Fatalf("textarea content not prefilled: %q", filled.Elements[4].Content)
	}
	if _, ok := filled.Elements[5].Attributes["checked"]; ok {
		t.Fatalf("unchecked box must not be checked")
	}
	if form.Elements[1].Attributes != nil {
		t.Fatalf("original form must not be modified")
	}
}
