package internal

import (
	"fmt"
	"strings"
)

// ExprKind identifies the kind of placeholder expression
type ExprKind int

// Expression kind constants
const (
	ExprKindDeclaration ExprKind = iota
	ExprKindDeclarationBlock
	ExprKindEditableReference
	ExprKindValueReference
)

// Expression kind names for debugging
const (
	ExprKindNameDeclaration       = "DECLARATION"
	ExprKindNameDeclarationBlock  = "DECLARATION_BLOCK"
	ExprKindNameEditableReference = "EDITABLE_REFERENCE"
	ExprKindNameValueReference    = "VALUE_REFERENCE"
)

// String returns the string representation of the expression kind
func (k ExprKind) String() string {
	switch k {
	case ExprKindDeclaration:
		return ExprKindNameDeclaration
	case ExprKindDeclarationBlock:
		return ExprKindNameDeclarationBlock
	case ExprKindEditableReference:
		return ExprKindNameEditableReference
	case ExprKindValueReference:
		return ExprKindNameValueReference
	default:
		return ExprKindNameValueReference
	}
}

// Expression is the parsed content of one placeholder
type Expression interface {
	// Kind returns the expression kind
	Kind() ExprKind
	// String returns a placeholder-like representation for debugging
	String() string
	// expression is a marker method to ensure type safety
	expression()
}

// ValueExpr is a default or override value: a literal or a reference to another variable
type ValueExpr interface {
	// RefName returns the referenced variable name, or "" for literals
	RefName() string
	// String returns the value as written in a placeholder
	String() string
	// valueExpr is a marker method to ensure type safety
	valueExpr()
}

// LiteralExpr is a literal default value
type LiteralExpr struct {
	Value    Value
	Position Position
}

func (e *LiteralExpr) RefName() string { return "" }
func (e *LiteralExpr) String() string  { return e.Value.Literal() }
func (e *LiteralExpr) valueExpr()      {}

// VariableRefExpr is a default value taken from another variable ($name)
type VariableRefExpr struct {
	Name     string
	Position Position
}

func (e *VariableRefExpr) RefName() string { return e.Name }
func (e *VariableRefExpr) String() string  { return string(CharReference) + e.Name }
func (e *VariableRefExpr) valueExpr()      {}

// SameValueExpr reports whether two value expressions are structurally identical
func SameValueExpr(a, b ValueExpr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case *LiteralExpr:
		bv, ok := b.(*LiteralExpr)
		return ok && av.Value.Equal(bv.Value)
	case *VariableRefExpr:
		bv, ok := b.(*VariableRefExpr)
		return ok && av.Name == bv.Name
	}
	return false
}

// Declaration declares a variable without emitting output: {{@ name: type = default }}
type Declaration struct {
	Name     string
	Type     Type
	Default  ValueExpr // nil when omitted
	Position Position
}

func (d *Declaration) Kind() ExprKind { return ExprKindDeclaration }
func (d *Declaration) expression()    {}

func (d *Declaration) String() string {
	return string(CharDeclaration) + d.item()
}

func (d *Declaration) item() string {
	s := fmt.Sprintf("%s: %s", d.Name, d.Type)
	if d.Default != nil {
		s += " = " + d.Default.String()
	}
	return s
}

// DeclarationBlock declares several variables in one placeholder: {{@ a: string, b: number }}
type DeclarationBlock struct {
	Declarations []*Declaration
	Position     Position
}

func (b *DeclarationBlock) Kind() ExprKind { return ExprKindDeclarationBlock }
func (b *DeclarationBlock) expression()    {}

func (b *DeclarationBlock) String() string {
	items := make([]string, len(b.Declarations))
	for i, d := range b.Declarations {
		items[i] = d.item()
	}
	return string(CharDeclaration) + strings.Join(items, ", ")
}

// EditableReference declares or augments a variable and emits its value
type EditableReference struct {
	Name         string
	Type         Type    // TypeUnknown when not given
	FriendlyName *string // nil when not given
	Default      ValueExpr
	Position     Position
}

func (r *EditableReference) Kind() ExprKind { return ExprKindEditableReference }
func (r *EditableReference) expression()    {}

func (r *EditableReference) String() string {
	parts := []string{r.Name}
	if r.Type != TypeUnknown {
		parts = append(parts, MetaKeyType+": "+r.Type.String())
	}
	if r.FriendlyName != nil {
		parts = append(parts, fmt.Sprintf("%s: %q", MetaKeyFriendlyName, *r.FriendlyName))
	}
	if r.Default != nil {
		parts = append(parts, MetaKeyDefaultValue+": "+r.Default.String())
	}
	return strings.Join(parts, ", ")
}

// ValueReference emits the value of a declared variable: {{ $name }}
type ValueReference struct {
	Name     string
	Position Position
}

func (r *ValueReference) Kind() ExprKind { return ExprKindValueReference }
func (r *ValueReference) expression()    {}
func (r *ValueReference) String() string { return string(CharReference) + r.Name }

// EmittedName returns the variable whose value the expression writes to the output,
// or "" for silent expressions.
func EmittedName(expr Expression) string {
	switch e := expr.(type) {
	case *EditableReference:
		return e.Name
	case *ValueReference:
		return e.Name
	default:
		return ""
	}
}

// Helper constructors

// NewLiteralExpr creates a literal value expression
func NewLiteralExpr(v Value, pos Position) *LiteralExpr {
	return &LiteralExpr{Value: v, Position: pos}
}

// NewVariableRefExpr creates a variable reference value expression
func NewVariableRefExpr(name string, pos Position) *VariableRefExpr {
	return &VariableRefExpr{Name: name, Position: pos}
}
