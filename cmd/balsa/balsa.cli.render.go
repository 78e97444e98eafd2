package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/itsatony/go-balsa"
)

// templateFlags selects a template from a file argument or from the store
type templateFlags struct {
	stored  string
	version int
}

func (f *templateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.stored, FlagStored, "", "use the named stored template instead of a file")
	cmd.Flags().IntVar(&f.version, FlagVersion, 0, "stored template version (default latest)")
}

// loadTemplate returns the template source. stored is nil when it came from a file or stdin.
func (app *cliApp) loadTemplate(ctx context.Context, f *templateFlags, args []string) (string, *balsa.StoredTemplate, error) {
	switch {
	case f.stored != "" && len(args) > 0:
		return "", nil, usageError(ErrMsgBothSources, nil)
	case f.stored == "" && len(args) == 0:
		return "", nil, usageError(ErrMsgMissingTemplate, nil)
	case f.stored == "" && f.version != 0:
		return "", nil, usageError(ErrMsgVersionWithoutName, nil)
	}

	if f.stored == "" {
		data, err := readInput(args[0], app.stdin)
		if err != nil {
			return "", nil, inputError(ErrMsgReadFileFailed, err)
		}
		return string(data), nil, nil
	}

	se, err := app.storageEngine()
	if err != nil {
		return "", nil, err
	}

	var stored *balsa.StoredTemplate
	if f.version > 0 {
		stored, err = se.Storage().GetVersion(ctx, f.stored, f.version)
	} else {
		stored, err = se.Get(ctx, f.stored)
	}
	if err != nil {
		return "", nil, commandError(ErrMsgStorageFailed, err)
	}
	return stored.Source, stored, nil
}

// parseTemplate parses source with the engine that will render it
func (app *cliApp) parseTemplate(source string, stored *balsa.StoredTemplate) (*balsa.Template, error) {
	var (
		engine *balsa.Engine
		err    error
	)
	if stored != nil {
		engine = app.storage.Engine()
	} else {
		engine, err = app.engine()
		if err != nil {
			return nil, err
		}
	}

	tmpl, err := engine.Parse(source)
	if err != nil {
		return nil, commandError(ErrMsgParseTemplateFailed, err)
	}
	return tmpl, nil
}

type renderOptions struct {
	template      templateFlags
	sets          []string
	overridesPath string
	output        string
}

func newRenderCommand(app *cliApp) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   CmdNameRender + " [file|-]",
		Short: "Render a template with overrides",
		Long: `Render a template file (or stdin with "-") or a stored template. Overrides
come from --overrides (json, yaml, toml or hcl) with --set assignments on top.
Stored templates apply their saved overrides underneath both.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runRender(cmd.Context(), opts, args)
		},
	}

	opts.template.register(cmd)
	cmd.Flags().StringArrayVarP(&opts.sets, FlagSet, FlagSetShort, nil, "override a variable (name=value), repeatable")
	cmd.Flags().StringVar(&opts.overridesPath, FlagOverrides, "", "overrides file")
	cmd.Flags().StringVarP(&opts.output, FlagOutput, FlagOutputShort, FlagDefaultOutput, "output file")
	return cmd
}

func (app *cliApp) runRender(ctx context.Context, opts *renderOptions, args []string) error {
	source, stored, err := app.loadTemplate(ctx, &opts.template, args)
	if err != nil {
		return err
	}

	tmpl, err := app.parseTemplate(source, stored)
	if err != nil {
		return err
	}

	cat, err := tmpl.Catalogue()
	if err != nil {
		return commandError(ErrMsgParseTemplateFailed, err)
	}

	overrides, err := collectOverrides(cat, opts.overridesPath, opts.sets)
	if err != nil {
		return inputError(ErrMsgInvalidOverride, err)
	}

	var out string
	if stored != nil {
		out, err = app.storage.RenderVersion(ctx, stored.Name, stored.Version, overrides)
	} else {
		out, err = tmpl.Render(overrides)
	}
	if err != nil {
		return commandError(ErrMsgRenderFailed, err)
	}

	if err := writeOutput(opts.output, []byte(out), app.stdout); err != nil {
		return commandError(ErrMsgWriteOutputFailed, err)
	}
	return nil
}
