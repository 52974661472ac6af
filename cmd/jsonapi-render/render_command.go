package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-jsonapi/pkg/config"
	"github.com/goliatone/go-jsonapi/pkg/render"
	"github.com/goliatone/go-jsonapi/pkg/schema"
	"github.com/goliatone/go-jsonapi/pkg/view"
)

type renderOptions struct {
	varsPath string
	output   string
	renderer string
	sanitize bool
}

func newRenderCommand(global *globalOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a variable bag file as a JSON:API document",
		Long: `Render reads a JSON or JSONC variable bag and prints the document.

Every name listed in _entities is registered as a record type. Data objects
carrying a "_type" member become records of that type; "_hidden" lists fields
left out of their attributes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.varsPath, "vars", "v", "-", "Variable bag file (- for stdin)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.renderer, "renderer", view.Name, "Renderer name or media type")
	cmd.Flags().BoolVar(&opts.sanitize, "sanitize", false, "Strip unsafe HTML from string attributes")

	return cmd
}

func runRender(cmd *cobra.Command, global *globalOptions, opts *renderOptions) error {
	cfg, err := config.Load(global.configPath)
	if err != nil {
		return err
	}
	if global.debug {
		cfg.Debug = true
	}

	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	data, err := readInput(cmd.InOrStdin(), opts.varsPath)
	if err != nil {
		return err
	}
	vars, err := parseVars(data)
	if err != nil {
		return err
	}

	catalog := schema.NewCatalog()
	if err := registerEntities(catalog, vars); err != nil {
		return err
	}

	viewOptions := []view.Option{
		view.WithCatalog(catalog),
		view.WithConfig(cfg),
		view.WithLogger(logger),
	}
	if opts.sanitize {
		viewOptions = append(viewOptions, view.WithSanitizePolicy(bluemonday.UGCPolicy()))
	}

	registry := render.NewRegistry()
	registry.MustRegister(view.New(viewOptions...))

	renderer, err := registry.Get(opts.renderer)
	if err != nil {
		return err
	}

	logger.Debug("rendering variable bag",
		zap.String("vars", opts.varsPath),
		zap.String("renderer", renderer.Name()),
		zap.String("content_type", renderer.ContentType()),
	)

	out, err := renderer.Render(cmd.Context(), vars)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}
	if err := os.WriteFile(opts.output, []byte(out+"\n"), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("document written", zap.String("path", opts.output))
	return nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// registerEntities registers every _entities name as a record type.
func registerEntities(catalog *schema.Catalog, vars view.Vars) error {
	spec, err := view.ParseEntitySpec(vars[view.VarEntities])
	if err != nil {
		return err
	}
	for _, name := range spec.Names() {
		if err := catalog.RegisterRecord(name); err != nil {
			return err
		}
	}
	return nil
}

func newReservedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reserved",
		Short: "List the reserved variable names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range view.ReservedVars() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
