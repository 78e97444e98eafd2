package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/itsatony/go-balsa"
)

func newStoreCommand(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   CmdNameStore,
		Short: "Manage named, versioned templates in the configured storage",
	}
	cmd.AddCommand(
		newStorePutCommand(app),
		newStoreListCommand(app),
		newStoreGetCommand(app),
		newStoreDeleteCommand(app),
		newStoreVersionsCommand(app),
	)
	return cmd
}

type storePutOptions struct {
	tags          []string
	createdBy     string
	sets          []string
	overridesPath string
}

func newStorePutCommand(app *cliApp) *cobra.Command {
	opts := &storePutOptions{}
	cmd := &cobra.Command{
		Use:   CmdNamePut + " <name> <file|->",
		Short: "Save a template as a new version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runStorePut(cmd.Context(), opts, args[0], args[1])
		},
	}
	cmd.Flags().StringSliceVar(&opts.tags, FlagTag, nil, "tag the template, repeatable")
	cmd.Flags().StringVar(&opts.createdBy, FlagCreatedBy, "", "author of this version")
	cmd.Flags().StringArrayVarP(&opts.sets, FlagSet, FlagSetShort, nil, "saved override (name=value), repeatable")
	cmd.Flags().StringVar(&opts.overridesPath, FlagOverrides, "", "saved overrides file")
	return cmd
}

func (app *cliApp) runStorePut(ctx context.Context, opts *storePutOptions, name, path string) error {
	data, err := readInput(path, app.stdin)
	if err != nil {
		return inputError(ErrMsgReadFileFailed, err)
	}

	se, err := app.storageEngine()
	if err != nil {
		return err
	}

	tmpl, err := se.Engine().Parse(string(data))
	if err != nil {
		return commandError(ErrMsgParseTemplateFailed, err)
	}
	cat, err := tmpl.Catalogue()
	if err != nil {
		return commandError(ErrMsgParseTemplateFailed, err)
	}

	overrides, err := collectOverrides(cat, opts.overridesPath, opts.sets)
	if err != nil {
		return inputError(ErrMsgInvalidOverride, err)
	}

	stored := &balsa.StoredTemplate{
		Name:      name,
		Source:    string(data),
		Tags:      opts.tags,
		CreatedBy: opts.createdBy,
	}
	if len(overrides) > 0 {
		stored.Overrides = overrides.Native()
	}

	if err := se.Save(ctx, stored); err != nil {
		return commandError(ErrMsgStorageFailed, err)
	}
	fmt.Fprintf(app.stdout, StoreTextSaved, stored.Name, stored.Version)
	return nil
}

type storeListOptions struct {
	tags      []string
	prefix    string
	createdBy string
	all       bool
	format    string
}

// storedSummary is one row of `store list -F json`
type storedSummary struct {
	Name      string   `json:"name"`
	Version   int      `json:"version"`
	UpdatedAt string   `json:"updated_at"`
	Tags      []string `json:"tags,omitempty"`
	CreatedBy string   `json:"created_by,omitempty"`
}

func newStoreListCommand(app *cliApp) *cobra.Command {
	opts := &storeListOptions{}
	cmd := &cobra.Command{
		Use:   CmdNameList,
		Short: "List stored templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := app.outputFormat(cmd, opts.format, OutputFormatText, OutputFormatJSON)
			if err != nil {
				return err
			}
			opts.format = format
			return app.runStoreList(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.tags, FlagTag, nil, "only templates having all these tags")
	cmd.Flags().StringVar(&opts.prefix, FlagPrefix, "", "only names starting with this prefix")
	cmd.Flags().StringVar(&opts.createdBy, FlagCreatedBy, "", "only versions by this author")
	cmd.Flags().BoolVar(&opts.all, FlagAll, false, "list every version, not just the latest")
	cmd.Flags().StringVarP(&opts.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "output format: text or json")
	return cmd
}

func (app *cliApp) runStoreList(ctx context.Context, opts *storeListOptions) error {
	se, err := app.storageEngine()
	if err != nil {
		return err
	}

	results, err := se.List(ctx, &balsa.TemplateQuery{
		Tags:               opts.tags,
		NamePrefix:         opts.prefix,
		CreatedBy:          opts.createdBy,
		IncludeAllVersions: opts.all,
	})
	if err != nil {
		return commandError(ErrMsgStorageFailed, err)
	}

	if opts.format == OutputFormatJSON {
		summaries := make([]storedSummary, 0, len(results))
		for _, st := range results {
			summaries = append(summaries, storedSummary{
				Name:      st.Name,
				Version:   st.Version,
				UpdatedAt: st.UpdatedAt.UTC().Format(StoreTimeFormatJSON),
				Tags:      st.Tags,
				CreatedBy: st.CreatedBy,
			})
		}
		jsonBytes, _ := json.MarshalIndent(summaries, "", "  ")
		fmt.Fprintln(app.stdout, string(jsonBytes))
		return nil
	}

	if len(results) == 0 {
		fmt.Fprintln(app.stdout, StoreTextEmpty)
		return nil
	}

	tw := tabwriter.NewWriter(app.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, StoreTextListHeader)
	for _, st := range results {
		fmt.Fprintf(tw, StoreTextListRow,
			st.Name, st.Version, st.UpdatedAt.Local().Format(StoreTimeFormat), strings.Join(st.Tags, StoreTagSeparator))
	}
	if err := tw.Flush(); err != nil {
		return commandError(ErrMsgWriteOutputFailed, err)
	}
	return nil
}

type storeGetOptions struct {
	version int
	format  string
}

func newStoreGetCommand(app *cliApp) *cobra.Command {
	opts := &storeGetOptions{}
	cmd := &cobra.Command{
		Use:   CmdNameGet + " <name>",
		Short: "Print a stored template",
		Long:  "Print a stored template. Text output is the template source; json and yaml include its record.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := app.outputFormat(cmd, opts.format, OutputFormatText, OutputFormatJSON, OutputFormatYAML)
			if err != nil {
				return err
			}
			opts.format = format
			return app.runStoreGet(cmd.Context(), opts, args[0])
		},
	}
	cmd.Flags().IntVar(&opts.version, FlagVersion, 0, "version to print (default latest)")
	cmd.Flags().StringVarP(&opts.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "output format: text, json or yaml")
	return cmd
}

func (app *cliApp) runStoreGet(ctx context.Context, opts *storeGetOptions, name string) error {
	source, stored, err := app.loadTemplate(ctx, &templateFlags{stored: name, version: opts.version}, nil)
	if err != nil {
		return err
	}

	switch opts.format {
	case OutputFormatJSON:
		jsonBytes, err := json.MarshalIndent(stored, "", "  ")
		if err != nil {
			return commandError(ErrMsgWriteOutputFailed, err)
		}
		fmt.Fprintln(app.stdout, string(jsonBytes))
	case OutputFormatYAML:
		yamlBytes, err := yaml.Marshal(stored)
		if err != nil {
			return commandError(ErrMsgWriteOutputFailed, err)
		}
		fmt.Fprint(app.stdout, string(yamlBytes))
	default:
		fmt.Fprint(app.stdout, source)
	}
	return nil
}

func newStoreDeleteCommand(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   CmdNameDelete + " <name>",
		Short: "Delete every version of a stored template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			se, err := app.storageEngine()
			if err != nil {
				return err
			}
			if err := se.Delete(cmd.Context(), args[0]); err != nil {
				return commandError(ErrMsgStorageFailed, err)
			}
			fmt.Fprintf(app.stdout, StoreTextDeleted, args[0])
			return nil
		},
	}
}

func newStoreVersionsCommand(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   CmdNameVersions + " <name>",
		Short: "List the versions of a stored template, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			se, err := app.storageEngine()
			if err != nil {
				return err
			}
			versions, err := se.ListVersions(cmd.Context(), args[0])
			if err != nil {
				return commandError(ErrMsgStorageFailed, err)
			}
			for _, v := range versions {
				fmt.Fprintf(app.stdout, StoreTextVersionRow, v)
			}
			return nil
		},
	}
}
