package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/csrf"
	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/prompt"
	"github.com/goliatone/go-formbuilder/pkg/session"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func newPromptCmd(a *app) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "prompt <definitions> <form>",
		Short: "Fill a form on the terminal and render it with the answers and any validation errors",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadDefinitions(args[0])
			if err != nil {
				return err
			}
			form, ok := store.Form(args[1])
			if !ok {
				return fmt.Errorf("%w: %q", definition.ErrFormNotFound, args[1])
			}

			driver := a.driver
			if driver == nil {
				driver = prompt.NewSurveyDriver(cmd.ErrOrStderr())
			}
			values, err := prompt.Fill(cmd.Context(), driver, form)
			if err != nil {
				return err
			}

			state := session.NewStore()
			failures, err := validation.Fields(values, form.Rules())
			if err != nil {
				return err
			}
			mapping := session.RecordErrors(state, failures, form.FieldNames()...)
			a.log.Info().Str("form", form.Name).Int("errors", len(mapping.Fields)).Msg("form filled")

			token := flags.csrfToken
			if form.CSRF && token == "" {
				token = csrf.New().Issue(state)
			}

			options, err := a.orchestratorOptions()
			if err != nil {
				return err
			}
			filled := prompt.Prefill(form, values)
			options = append(options, orchestrator.WithDefinitions(definition.NewStore(filled)))

			out, err := orchestrator.New(options...).Generate(cmd.Context(), orchestrator.Request{
				Form:          filled.Name,
				CSRFToken:     token,
				Errors:        state,
				RenderOptions: flags.renderOptions(),
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd, flags.output, out)
		},
	}
	flags.bind(cmd)
	return cmd
}
