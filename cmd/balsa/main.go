package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	exitCode := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// run is the main entry point for the CLI, separated for testing
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := &cliApp{stdin: stdin, stdout: stdout, stderr: stderr}
	defer app.close()

	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitCodeSuccess
	}

	// Errors not raised by a command come from cobra itself: flags, args, unknown commands.
	var exitErr *exitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(stderr, FmtErrorWithCause, CLIName, err)
		fmt.Fprintln(stderr, root.UsageString())
		return ExitCodeUsageError
	}

	switch {
	case exitErr.err != nil:
		fmt.Fprintf(stderr, FmtErrorWithCause, exitErr.message, exitErr.err)
	case exitErr.code != ExitCodeValidationError:
		fmt.Fprintln(stderr, exitErr.message)
	}
	return exitErr.code
}

// exitError carries the exit code for a failed command
type exitError struct {
	code    int
	message string
	err     error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return e.message
	}
	return e.message + ": " + e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(message string, err error) error {
	return &exitError{code: ExitCodeUsageError, message: message, err: err}
}

func inputError(message string, err error) error {
	return &exitError{code: ExitCodeInputError, message: message, err: err}
}

func commandError(message string, err error) error {
	return &exitError{code: ExitCodeError, message: message, err: err}
}

// validationFailed exits with ExitCodeValidationError after the report is printed
func validationFailed() error {
	return &exitError{code: ExitCodeValidationError, message: ErrMsgValidationFailed}
}
