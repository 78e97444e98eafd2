package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/itsatony/go-balsa"
)

type validateOptions struct {
	template templateFlags
	format   string
	strict   bool
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid  bool                    `json:"valid"`
	Issues []validationIssueOutput `json:"issues,omitempty"`
}

type validationIssueOutput struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Variable string `json:"variable,omitempty"`
}

func newValidateCommand(app *cliApp) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   CmdNameValidate + " [file|-]",
		Short: "Check a template without rendering it",
		Long: `Check a template for syntax, type and reference errors and report variables
that need an override or are never written. Exits with code 3 when errors are
found, or warnings with --strict.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := app.outputFormat(cmd, opts.format, OutputFormatText, OutputFormatJSON)
			if err != nil {
				return err
			}
			opts.format = format
			return app.runValidate(cmd.Context(), opts, args)
		},
	}

	opts.template.register(cmd)
	cmd.Flags().StringVarP(&opts.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "output format: text or json")
	cmd.Flags().BoolVar(&opts.strict, FlagStrictMode, false, "treat warnings as failures")
	return cmd
}

func (app *cliApp) runValidate(ctx context.Context, opts *validateOptions, args []string) error {
	source, stored, err := app.loadTemplate(ctx, &opts.template, args)
	if err != nil {
		return err
	}

	var engine *balsa.Engine
	if stored != nil {
		engine = app.storage.Engine()
	} else if engine, err = app.engine(); err != nil {
		return err
	}

	result := engine.Validate(source)

	var valid bool
	if opts.format == OutputFormatJSON {
		valid = outputValidationJSON(result, opts.strict, app.stdout)
	} else {
		valid = outputValidationText(result, opts.strict, newStyles(app.stdout), app.stdout)
	}

	if !valid {
		return validationFailed()
	}
	return nil
}

func outputValidationText(result *balsa.ValidationResult, strict bool, st styles, stdout io.Writer) bool {
	issues := result.Issues()
	errs := result.Errors()
	warnings := result.Warnings()

	if len(issues) == 0 {
		fmt.Fprintln(stdout, ValidationTextSuccess)
		return true
	}

	fmt.Fprintln(stdout, ValidationTextIssueHeader)
	for _, issue := range issues {
		message := issue.Message
		if issue.Variable != "" {
			message = issue.Variable + ": " + message
		}
		fmt.Fprintf(stdout, ValidationTextIssueFormat+FmtNewline,
			st.paintSeverity(issue.Severity, severityToName(issue.Severity)),
			message, issue.Position.Line, issue.Position.Column)
	}

	fmt.Fprintf(stdout, ValidationTextErrorSummary+FmtNewline, len(errs), len(warnings))

	return len(errs) == 0 && (!strict || len(warnings) == 0)
}

func outputValidationJSON(result *balsa.ValidationResult, strict bool, stdout io.Writer) bool {
	issues := result.Issues()

	output := validationOutput{
		Valid:  result.IsValid() && (!strict || !result.HasWarnings()),
		Issues: make([]validationIssueOutput, 0, len(issues)),
	}

	for _, issue := range issues {
		output.Issues = append(output.Issues, validationIssueOutput{
			Severity: severityToName(issue.Severity),
			Message:  issue.Message,
			Line:     issue.Position.Line,
			Column:   issue.Position.Column,
			Variable: issue.Variable,
		})
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))

	return output.Valid
}

func severityToName(s balsa.ValidationSeverity) string {
	switch s {
	case balsa.SeverityError:
		return SeverityNameError
	case balsa.SeverityWarning:
		return SeverityNameWarning
	case balsa.SeverityInfo:
		return SeverityNameInfo
	default:
		return SeverityNameError
	}
}
