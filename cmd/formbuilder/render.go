package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/session"
)

type renderFlags struct {
	csrfToken  string
	output     string
	id         string
	class      string
	noValidate bool
	errors     map[string]string
	attributes map[string]string
}

func (f *renderFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.csrfToken, "csrf-token", "", "token for the hidden csrf_token input")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&f.id, "id", "", "form id attribute")
	cmd.Flags().StringVar(&f.class, "class", "", "form class attribute")
	cmd.Flags().BoolVar(&f.noValidate, "novalidate", false, "disable browser validation")
	cmd.Flags().StringToStringVar(&f.errors, "error", nil, "validation message per field (field=message)")
	cmd.Flags().StringToStringVar(&f.attributes, "attr", nil, "extra form attribute (name=value)")
}

func (f *renderFlags) renderOptions() render.RenderOptions {
	return render.RenderOptions{
		ID:         f.id,
		Class:      f.class,
		NoValidate: f.noValidate,
		Attributes: f.attributes,
	}
}

func (f *renderFlags) errorStore() session.Reader {
	if len(f.errors) == 0 {
		return nil
	}
	store := session.NewStore()
	for field, message := range f.errors {
		store.Set(session.ErrorKey(field), message)
	}
	return store
}

func newRenderCmd(a *app) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render <definitions> <form>",
		Short: "Render a form from a definition file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadDefinitions(args[0])
			if err != nil {
				return err
			}
			options, err := a.orchestratorOptions()
			if err != nil {
				return err
			}
			options = append(options, orchestrator.WithDefinitions(store))

			out, err := orchestrator.New(options...).Generate(cmd.Context(), orchestrator.Request{
				Form:          args[1],
				CSRFToken:     flags.csrfToken,
				Errors:        flags.errorStore(),
				RenderOptions: flags.renderOptions(),
			})
			if err != nil {
				return err
			}
			a.log.Debug().Str("form", args[1]).Int("bytes", len(out)).Msg("form rendered")
			return writeOutput(cmd, flags.output, out)
		},
	}
	flags.bind(cmd)
	return cmd
}
