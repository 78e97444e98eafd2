package balsa

import (
	"errors"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"

	"github.com/itsatony/go-balsa/internal"
)

// Error message constants
const (
	// Pipeline errors
	ErrMsgParseFailed       = "template parsing failed"
	ErrMsgTypeConflict      = "conflicting variable types"
	ErrMsgTypeMismatch      = "value does not match declared type"
	ErrMsgCyclicDefault     = "cyclic default values"
	ErrMsgUnresolvedVar     = "unresolved variable"
	ErrMsgRenderFailed      = "template rendering failed"
	ErrMsgTemplateTooLarge  = "template exceeds maximum size"
	ErrMsgPipelineFailed    = "template processing failed"
	ErrMsgUnsupportedFormat = "unsupported format"

	// Named template errors
	ErrMsgTemplateNotFound  = "template not found"
	ErrMsgTemplateExists    = "template already exists"
	ErrMsgEmptyTemplateName = "template name cannot be empty"

	// Override errors
	ErrMsgOverridesInvalid   = "invalid overrides document"
	ErrMsgOverrideValueType  = "override value must be a string, number or boolean"
	ErrMsgOverrideFileFailed = "failed to read overrides file"
	ErrMsgOverrideAssignment = "override must be written as name=value"

	// Catalogue errors
	ErrMsgCatalogueEncode = "failed to encode catalogue"
)

// Error code constants for categorization
const (
	ErrCodeParse     = "BALSA_PARSE"
	ErrCodeType      = "BALSA_TYPE"
	ErrCodeResolve   = "BALSA_RESOLVE"
	ErrCodeRender    = "BALSA_RENDER"
	ErrCodeTemplate  = "BALSA_TEMPLATE"
	ErrCodeOverrides = "BALSA_OVERRIDES"
	ErrCodeStorage   = "BALSA_STORAGE"
	ErrCodeInternal  = "BALSA_INTERNAL"
)

// Typed pipeline errors. Every error returned by the engine wraps one of these
// when the failure comes from the template itself.
type (
	// SyntaxError reports a malformed placeholder or unterminated delimiter.
	SyntaxError = internal.SyntaxError
	// TypeConflictError reports two placeholders typing one variable differently.
	TypeConflictError = internal.TypeConflictError
	// TypeMismatchError reports a default or override that does not fit its type.
	TypeMismatchError = internal.TypeMismatchError
	// CyclicDefaultError reports defaults that reference each other in a loop.
	CyclicDefaultError = internal.CyclicDefaultError
	// UnresolvedVariableError reports a variable without a value or declaration.
	UnresolvedVariableError = internal.UnresolvedVariableError
)

// Position represents a location in the source template
type Position = internal.Position

// ErrTemplateNotFound is the cause of every storage and registry lookup miss.
var ErrTemplateNotFound = errors.New(ErrMsgTemplateNotFound)

// wrapPipelineError converts an internal pipeline failure into a *cuserr.CustomError
// with metadata describing the failure. The typed cause stays reachable.
func wrapPipelineError(err error) error {
	if err == nil {
		return nil
	}

	var (
		syntaxErr     *SyntaxError
		conflictErr   *TypeConflictError
		mismatchErr   *TypeMismatchError
		cyclicErr     *CyclicDefaultError
		unresolvedErr *UnresolvedVariableError
	)

	switch {
	case errors.As(err, &syntaxErr):
		return withPosition(cuserr.WrapStdError(err, ErrCodeParse, ErrMsgParseFailed), syntaxErr.Position).
			WithMetadata(MetaKeyReason, syntaxErr.Message).
			WithMetadata(MetaKeyDetail, syntaxErr.Detail)

	case errors.As(err, &conflictErr):
		return withPosition(cuserr.WrapStdError(err, ErrCodeType, ErrMsgTypeConflict), conflictErr.Position).
			WithMetadata(MetaKeyVariable, conflictErr.Name).
			WithMetadata(MetaKeyExpected, conflictErr.ExistingType.String()).
			WithMetadata(MetaKeyActual, conflictErr.NewType.String())

	case errors.As(err, &mismatchErr):
		return withPosition(cuserr.WrapStdError(err, ErrCodeType, ErrMsgTypeMismatch), mismatchErr.Position).
			WithMetadata(MetaKeyVariable, mismatchErr.Name).
			WithMetadata(MetaKeyExpected, mismatchErr.Expected.String()).
			WithMetadata(MetaKeyActual, mismatchErr.Actual.String()).
			WithMetadata(MetaKeyValue, mismatchErr.Value).
			WithMetadata(MetaKeyReason, mismatchErr.Reason)

	case errors.As(err, &cyclicErr):
		return withPosition(cuserr.WrapStdError(err, ErrCodeResolve, ErrMsgCyclicDefault), cyclicErr.Position).
			WithMetadata(MetaKeyCycle, strings.Join(cyclicErr.Cycle, ",")).
			WithMetadata(MetaKeyVariable, cyclicErr.Cycle[0])

	case errors.As(err, &unresolvedErr):
		code := ErrCodeResolve
		if unresolvedErr.Reason == internal.ReasonNotInValues {
			code = ErrCodeRender
		}
		return withPosition(cuserr.WrapStdError(err, code, ErrMsgUnresolvedVar), unresolvedErr.Position).
			WithMetadata(MetaKeyVariable, unresolvedErr.Name).
			WithMetadata(MetaKeyReason, unresolvedErr.Reason).
			WithMetadata(MetaKeyMissing, strings.Join(unresolvedErr.Missing, ",")).
			WithMetadata(MetaKeySuggestions, strings.Join(unresolvedErr.Suggestions, ","))
	}

	return cuserr.WrapStdError(err, ErrCodeInternal, ErrMsgPipelineFailed)
}

// withPosition attaches line, column and offset metadata.
// A zero position (an override has no place in the source) attaches nothing.
func withPosition(err *cuserr.CustomError, pos Position) *cuserr.CustomError {
	if pos.Line == 0 {
		return err
	}
	return err.
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// NewTemplateTooLargeError creates an error for sources above the configured limit
func NewTemplateTooLargeError(size, limit int) error {
	return cuserr.NewValidationError(ErrCodeTemplate, ErrMsgTemplateTooLarge).
		WithMetadata(MetaKeySize, strconv.Itoa(size)).
		WithMetadata(MetaKeyLimit, strconv.Itoa(limit))
}

// NewTemplateNotFoundError creates an error for a missing named template
func NewTemplateNotFoundError(name string) error {
	return cuserr.WrapStdError(ErrTemplateNotFound, ErrCodeTemplate, ErrMsgTemplateNotFound).
		WithMetadata(MetaKeyTemplateName, name)
}

// NewTemplateExistsError creates an error for a duplicate named template
func NewTemplateExistsError(name string) error {
	return cuserr.NewValidationError(ErrCodeTemplate, ErrMsgTemplateExists).
		WithMetadata(MetaKeyTemplateName, name)
}

// NewEmptyTemplateNameError creates an error for an empty template name
func NewEmptyTemplateNameError() error {
	return cuserr.NewValidationError(ErrCodeTemplate, ErrMsgEmptyTemplateName)
}

// NewUnsupportedFormatError creates an error for an unknown input or output format
func NewUnsupportedFormatError(format string) error {
	return cuserr.NewValidationError(ErrCodeOverrides, ErrMsgUnsupportedFormat).
		WithMetadata(MetaKeyFormat, format)
}

// NewOverridesError creates an error for an unreadable overrides document
func NewOverridesError(format string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeOverrides, ErrMsgOverridesInvalid)
	} else {
		err = cuserr.NewValidationError(ErrCodeOverrides, ErrMsgOverridesInvalid)
	}
	return err.WithMetadata(MetaKeyFormat, format)
}

// NewOverrideValueError creates an error for an override that is not a primitive
func NewOverrideValueError(name string, value any) error {
	return cuserr.NewValidationError(ErrCodeOverrides, ErrMsgOverrideValueType).
		WithMetadata(MetaKeyVariable, name).
		WithMetadata(MetaKeyActual, typeName(value))
}

// IsSyntaxError reports whether err was caused by a malformed template
func IsSyntaxError(err error) bool {
	var target *SyntaxError
	return errors.As(err, &target)
}

// IsTypeConflictError reports whether err was caused by conflicting type declarations
func IsTypeConflictError(err error) bool {
	var target *TypeConflictError
	return errors.As(err, &target)
}

// IsTypeMismatchError reports whether err was caused by a mistyped default or override
func IsTypeMismatchError(err error) bool {
	var target *TypeMismatchError
	return errors.As(err, &target)
}

// IsCyclicDefaultError reports whether err was caused by cyclic defaults
func IsCyclicDefaultError(err error) bool {
	var target *CyclicDefaultError
	return errors.As(err, &target)
}

// IsUnresolvedVariableError reports whether err was caused by a variable without a value
func IsUnresolvedVariableError(err error) bool {
	var target *UnresolvedVariableError
	return errors.As(err, &target)
}

// IsNotFoundError reports whether err was caused by a missing template
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}
