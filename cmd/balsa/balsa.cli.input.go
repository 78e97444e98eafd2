package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/itsatony/go-balsa"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// collectOverrides loads the overrides file and applies --set assignments on top.
// Assignments to known variables are parsed as the variable's type; unknown names stay strings.
func collectOverrides(cat *balsa.Catalogue, overridesPath string, sets []string) (balsa.Overrides, error) {
	overrides := balsa.Overrides{}

	if overridesPath != "" {
		loaded, err := balsa.LoadOverridesFile(overridesPath)
		if err != nil {
			return nil, err
		}
		overrides = overrides.Merge(loaded)
	}

	for _, set := range sets {
		name, text, err := balsa.ParseAssignment(set)
		if err != nil {
			return nil, err
		}

		value := balsa.String(text)
		if entry, ok := cat.Get(name); ok {
			value, err = balsa.ParseValue(entry.Type, text)
			if err != nil {
				return nil, err
			}
		}
		overrides[name] = value
	}
	return overrides, nil
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func joinDrivers() string {
	return strings.Join(balsa.ListStorageDrivers(), ", ")
}

func errUnsupported(value string, allowed []string) error {
	return fmt.Errorf("%q (want %s)", value, strings.Join(allowed, ", "))
}
