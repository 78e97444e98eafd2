package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/itsatony/go-balsa"
)

type catalogueOptions struct {
	template templateFlags
	format   string
}

func newCatalogueCommand(app *cliApp) *cobra.Command {
	opts := &catalogueOptions{}
	cmd := &cobra.Command{
		Use:   CmdNameCatalogue + " [file|-]",
		Short: "List the editable variables of a template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := app.outputFormat(cmd, opts.format,
				OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatMarkdown)
			if err != nil {
				return err
			}
			opts.format = format
			return app.runCatalogue(cmd.Context(), opts, args)
		},
	}

	opts.template.register(cmd)
	cmd.Flags().StringVarP(&opts.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "output format: text, json, yaml or markdown")
	return cmd
}

func (app *cliApp) runCatalogue(ctx context.Context, opts *catalogueOptions, args []string) error {
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

	if opts.format == OutputFormatText {
		outputCatalogueText(cat, newStyles(app.stdout), app.stdout)
		return nil
	}

	formatted, err := cat.Format(opts.format)
	if err != nil {
		return commandError(ErrMsgInvalidFormat, err)
	}
	fmt.Fprint(app.stdout, formatted)
	if len(formatted) > 0 && formatted[len(formatted)-1] != '\n' {
		fmt.Fprint(app.stdout, FmtNewline)
	}
	return nil
}

func outputCatalogueText(cat *balsa.Catalogue, st styles, w io.Writer) {
	if cat.Len() == 0 {
		fmt.Fprintln(w, st.muted(CatalogueTextEmpty))
		return
	}

	for _, v := range cat.Variables {
		typ := v.Type.String()
		if v.TypeInferred {
			typ += CatalogueTextInferred
		}

		status := st.required(CatalogueTextRequired)
		switch {
		case v.DefaultRef != "":
			status = st.muted(fmt.Sprintf(CatalogueTextDefault, CatalogueTextRefPrefix+v.DefaultRef))
		case v.Default != nil:
			status = st.muted(fmt.Sprintf(CatalogueTextDefault, v.DefaultText))
		}

		fmt.Fprintf(w, CatalogueTextRowFormat, st.name(v.Name), st.typ(typ), v.Label(), status)
	}
}

// styles paints CLI text; every function is the identity when output is not a terminal
type styles struct {
	name     func(string) string
	typ      func(string) string
	required func(string) string
	muted    func(string) string
	severity map[balsa.ValidationSeverity]func(string) string
}

func plain(s string) string { return s }

func render(st lipgloss.Style) func(string) string {
	return func(s string) string { return st.Render(s) }
}

func newStyles(w io.Writer) styles {
	if !isTerminal(w) {
		return styles{
			name:     plain,
			typ:      plain,
			required: plain,
			muted:    plain,
			severity: map[balsa.ValidationSeverity]func(string) string{},
		}
	}

	red := lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"})
	yellow := lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD75F"})
	blue := lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#5FAFD7"})

	return styles{
		name:     render(lipgloss.NewStyle().Bold(true)),
		typ:      render(blue),
		required: render(red),
		muted:    render(lipgloss.NewStyle().Faint(true)),
		severity: map[balsa.ValidationSeverity]func(string) string{
			balsa.SeverityError:   render(red.Bold(true)),
			balsa.SeverityWarning: render(yellow),
			balsa.SeverityInfo:    render(blue),
		},
	}
}

func (s styles) paintSeverity(sev balsa.ValidationSeverity, text string) string {
	if paint, ok := s.severity[sev]; ok {
		return paint(text)
	}
	return text
}
