package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder"
	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
)

func newOpenAPICmd(a *app) *cobra.Command {
	flags := &renderFlags{}
	var (
		list       bool
		name       string
		action     string
		submitText string
		preset     string
	)

	cmd := &cobra.Command{
		Use:   "openapi <source> [operation-id]",
		Short: "Render a form for an OpenAPI operation's request body",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := pkgopenapi.ParseSource(args[0])
			if err != nil {
				return err
			}
			loader := formbuilder.NewLoader(pkgopenapi.WithHTTPFallback(a.cfg.OpenAPI.Timeout))
			doc, err := loader.Load(cmd.Context(), src)
			if err != nil {
				return err
			}
			a.log.Debug().Str("source", doc.Location()).Msg("document loaded")

			if list || len(args) == 1 {
				operations, err := formbuilder.NewParser().Operations(cmd.Context(), doc)
				if err != nil {
					return err
				}
				for _, id := range pkgopenapi.SortedOperationIDs(operations) {
					op := operations[id]
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %s\n", id, op.Method, op.Path)
				}
				return nil
			}

			options, err := a.orchestratorOptions()
			if err != nil {
				return err
			}
			if preset != "" {
				transformer, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS(filepath.Dir(preset)), filepath.Base(preset))
				if err != nil {
					return err
				}
				options = append(options, orchestrator.WithTransformer(transformer))
			}
			options = append(options, orchestrator.WithFormOptions(
				pkgopenapi.WithFormName(name),
				pkgopenapi.WithAction(action),
				pkgopenapi.WithSubmitText(submitText),
			))

			out, err := orchestrator.New(options...).Generate(cmd.Context(), orchestrator.Request{
				OperationID:   strings.TrimSpace(args[1]),
				Document:      &doc,
				CSRFToken:     flags.csrfToken,
				Errors:        flags.errorStore(),
				RenderOptions: flags.renderOptions(),
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd, flags.output, out)
		},
	}
	flags.bind(cmd)
	cmd.Flags().BoolVar(&list, "list", false, "list operations instead of rendering")
	cmd.Flags().StringVar(&name, "name", "", "form name (defaults to the operation id)")
	cmd.Flags().StringVar(&action, "action", "", "form action (defaults to the operation path)")
	cmd.Flags().StringVar(&submitText, "submit", "", "submit button caption")
	cmd.Flags().StringVar(&preset, "preset", "", "JSON file relabelling, renaming, reordering or hiding properties")
	return cmd
}
