// Command formbuilder renders Bootstrap 4 forms from declarative definitions
// or OpenAPI operations, fills them interactively and serves them over HTTP.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/chrome"
	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/prompt"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

const appName = "formbuilder"

// Version is overridden at build time with -ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries flag values and the resources built from them.
type app struct {
	configFile    string
	envFile       string
	logLevel      string
	logFormat     string
	themeManifest string
	themeName     string
	themeVariant  string
	engine        string

	cfg config.Config
	log zerolog.Logger

	// driver overrides the terminal prompt driver.
	driver prompt.Driver
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Build Bootstrap 4 HTML forms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file path (YAML)")
	flags.StringVar(&a.envFile, "env-file", "", "env file path")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (console, pretty, json)")
	flags.StringVar(&a.themeManifest, "theme-manifest", "", "go-theme manifest supplying form class tokens")
	flags.StringVar(&a.themeName, "theme", "", "theme name")
	flags.StringVar(&a.themeVariant, "theme-variant", "", "theme variant")
	flags.StringVar(&a.engine, "engine", "", "template engine (pongo2, go-template)")

	cmd.AddCommand(
		newRenderCmd(a),
		newOpenAPICmd(a),
		newPromptCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) setup(stderr io.Writer) error {
	var options []config.LoaderOption
	if a.configFile != "" {
		options = append(options, config.WithConfigFile(a.configFile))
	}
	if a.envFile != "" {
		options = append(options, config.WithEnvFile(a.envFile))
	}

	cfg, err := config.Load(options...)
	if err != nil {
		return err
	}
	overrideString(&cfg.Log.Level, a.logLevel)
	overrideString(&cfg.Log.Format, a.logFormat)
	overrideString(&cfg.Theme.Manifest, a.themeManifest)
	overrideString(&cfg.Theme.Name, a.themeName)
	overrideString(&cfg.Theme.Variant, a.themeVariant)
	overrideString(&cfg.Render.Engine, a.engine)
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logging.NewWithWriter(cfg.Log, stderr)
	return nil
}

// orchestratorOptions wires the renderer and the theme manifest, when
// configured.
func (a *app) orchestratorOptions() ([]orchestrator.Option, error) {
	renderer, err := render.New(
		render.WithEngine(a.cfg.Render.Engine),
		render.WithTemplatesDir(strings.TrimSpace(a.cfg.Render.Templates)),
	)
	if err != nil {
		return nil, err
	}
	options := []orchestrator.Option{orchestrator.WithRenderer(renderer)}

	path := strings.TrimSpace(a.cfg.Theme.Manifest)
	if path == "" {
		return options, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme manifest: %w", err)
	}
	manifest, err := chrome.LoadManifest(data)
	if err != nil {
		return nil, err
	}
	a.log.Debug().Str("theme", manifest.Name).Str("variant", a.cfg.Theme.Variant).Msg("theme manifest loaded")

	selector := chrome.NewManifestSelector(manifest)
	return append(options,
		orchestrator.WithThemeSelector(selector, a.cfg.Theme.Name, a.cfg.Theme.Variant),
	), nil
}

// loadDefinitions reads a single definition file or every file in a
// directory.
func loadDefinitions(path string) (*definition.Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("definitions: %w", err)
	}
	if info.IsDir() {
		return definition.LoadFS(os.DirFS(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definitions: %w", err)
	}
	return definition.Parse(data, filepath.Base(path))
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", path)
	return nil
}

func overrideString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	}
}
