package internal

import (
	"fmt"
	"strings"
)

// SyntaxError reports a malformed placeholder or an unterminated delimiter
type SyntaxError struct {
	Message  string
	Position Position
	Detail   string
}

// NewSyntaxError creates a syntax error at the given position
func NewSyntaxError(message string, pos Position, detail string) *SyntaxError {
	return &SyntaxError{Message: message, Position: pos, Detail: detail}
}

func (e *SyntaxError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at %s (offset %d): %s", e.Message, e.Position, e.Position.Offset, e.Detail)
	}
	return fmt.Sprintf("%s at %s (offset %d)", e.Message, e.Position, e.Position.Offset)
}

// TypeConflictError reports two placeholders declaring different types for one variable
type TypeConflictError struct {
	Name         string
	ExistingType Type
	NewType      Type
	Position     Position
}

func (e *TypeConflictError) Error() string {
	return fmt.Sprintf("variable %q: declared %s, redeclared %s at %s",
		e.Name, e.ExistingType, e.NewType, e.Position)
}

// TypeMismatchError reports a default or override that does not fit the declared type
type TypeMismatchError struct {
	Name     string
	Expected Type
	Actual   Type
	Value    string
	Reason   string
	Position Position // Where the offending default was written; the declaration for overrides
}

func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("variable %q: expected %s, got %s %s", e.Name, e.Expected, e.Actual, e.Value)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// CyclicDefaultError reports default values that reference each other in a loop
type CyclicDefaultError struct {
	Cycle    []string
	Position Position // First appearance of Cycle[0]
}

func (e *CyclicDefaultError) Error() string {
	path := append(append([]string{}, e.Cycle...), e.Cycle[0])
	return strings.Join(path, " -> ")
}

// UnresolvedVariableError reports a variable that has no value
type UnresolvedVariableError struct {
	Name        string
	Reason      string
	Missing     []string
	Suggestions []string
	Position    Position // Zero for overrides, which have no place in the source
}

func (e *UnresolvedVariableError) Error() string {
	msg := fmt.Sprintf("variable %q: %s", e.Name, e.Reason)
	if len(e.Suggestions) > 0 {
		msg += FormatSuggestions(e.Suggestions)
	}
	return msg
}
