package balsa

import (
	"errors"
)

// Validation message constants
const (
	ValidationMsgRequired    = "variable has no default and must be overridden"
	ValidationMsgNeverUsed   = "variable is declared but never written to the output"
	ValidationMsgInferred    = "variable type was inferred"
	ValidationMsgNoVariables = "template has no variables"
)

// ValidationResult contains the results of template validation.
type ValidationResult struct {
	issues []ValidationIssue
}

// ValidationIssue represents a single validation finding.
type ValidationIssue struct {
	Severity ValidationSeverity `json:"severity" yaml:"severity"`
	Message  string             `json:"message" yaml:"message"`
	Variable string             `json:"variable,omitempty" yaml:"variable,omitempty"`
	Position Position           `json:"position" yaml:"position"`
}

// Issues returns all validation issues found.
func (r *ValidationResult) Issues() []ValidationIssue {
	return r.issues
}

// Errors returns only issues with error severity.
func (r *ValidationResult) Errors() []ValidationIssue {
	return r.filter(SeverityError)
}

// Warnings returns only issues with warning severity.
func (r *ValidationResult) Warnings() []ValidationIssue {
	return r.filter(SeverityWarning)
}

// Infos returns only issues with info severity.
func (r *ValidationResult) Infos() []ValidationIssue {
	return r.filter(SeverityInfo)
}

func (r *ValidationResult) filter(severity ValidationSeverity) []ValidationIssue {
	var result []ValidationIssue
	for _, issue := range r.issues {
		if issue.Severity == severity {
			result = append(result, issue)
		}
	}
	return result
}

// HasErrors returns true if there are any error-severity issues.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors()) > 0
}

// HasWarnings returns true if there are any warning-severity issues.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings()) > 0
}

// IsValid returns true if there are no error-severity issues.
func (r *ValidationResult) IsValid() bool {
	return !r.HasErrors()
}

func (r *ValidationResult) add(severity ValidationSeverity, msg, variable string, pos Position) {
	r.issues = append(r.issues, ValidationIssue{
		Severity: severity,
		Message:  msg,
		Variable: variable,
		Position: pos,
	})
}

// Validate parses and checks a template without rendering it.
// Template errors are reported as SeverityError issues rather than returned,
// so the only failures are the ones that stop processing entirely.
func (e *Engine) Validate(source string) *ValidationResult {
	result := &ValidationResult{issues: make([]ValidationIssue, 0)}

	tmpl, err := e.Parse(source)
	if err != nil {
		result.addError(err)
		return result
	}

	entries, err := tmpl.collect()
	if err != nil {
		result.addError(err)
		return result
	}

	if len(entries) == 0 {
		result.add(SeverityInfo, ValidationMsgNoVariables, "", Position{})
		return result
	}

	for _, entry := range entries {
		if entry.Required() {
			result.add(SeverityWarning, ValidationMsgRequired, entry.Name, entry.Position)
		}
		if !entry.Emitted {
			result.add(SeverityWarning, ValidationMsgNeverUsed, entry.Name, entry.Position)
		}
		if !entry.TypeDeclared {
			result.add(SeverityInfo, ValidationMsgInferred+": "+entry.Type.String(), entry.Name, entry.Position)
		}
	}
	return result
}

// addError records a template failure with the best position available.
func (r *ValidationResult) addError(err error) {
	var (
		syntaxErr     *SyntaxError
		conflictErr   *TypeConflictError
		mismatchErr   *TypeMismatchError
		cyclicErr     *CyclicDefaultError
		unresolvedErr *UnresolvedVariableError
	)

	switch {
	case errors.As(err, &syntaxErr):
		r.add(SeverityError, syntaxErr.Error(), "", syntaxErr.Position)
	case errors.As(err, &conflictErr):
		r.add(SeverityError, ErrMsgTypeConflict+": "+conflictErr.Error(), conflictErr.Name, conflictErr.Position)
	case errors.As(err, &mismatchErr):
		r.add(SeverityError, ErrMsgTypeMismatch+": "+mismatchErr.Error(), mismatchErr.Name, mismatchErr.Position)
	case errors.As(err, &cyclicErr):
		r.add(SeverityError, ErrMsgCyclicDefault+": "+cyclicErr.Error(), cyclicErr.Cycle[0], cyclicErr.Position)
	case errors.As(err, &unresolvedErr):
		r.add(SeverityError, ErrMsgUnresolvedVar+": "+unresolvedErr.Error(), unresolvedErr.Name, unresolvedErr.Position)
	default:
		r.add(SeverityError, err.Error(), "", Position{})
	}
}
