package balsa

import (
	"github.com/itsatony/go-balsa/internal"
)

// Type is the declared primitive type of a template variable
type Type = internal.Type

// Supported variable types
const (
	TypeString  = internal.TypeString
	TypeNumber  = internal.TypeNumber
	TypeBoolean = internal.TypeBoolean
	TypeColor   = internal.TypeColor
)

// ParseType maps a type name ("string", "number", "boolean", "color") to its Type
func ParseType(name string) (Type, bool) {
	return internal.ParseType(name)
}

// Value is a primitive value tagged with its type.
// Value.Text returns the form written into rendered output.
type Value = internal.Value

// String creates a string value
func String(s string) Value { return internal.NewString(s) }

// Number creates a number value
func Number(f float64) Value { return internal.NewNumber(f) }

// Bool creates a boolean value
func Bool(b bool) Value { return internal.NewBoolean(b) }

// Color creates a color value. It is validated against the variable at resolution.
func Color(c string) Value { return internal.NewColor(c) }

// IsValidColor reports whether s is an accepted CSS color
func IsValidColor(s string) bool { return internal.IsValidColor(s) }

// Overrides maps variable names to caller-supplied values
type Overrides map[string]Value

// Merge returns a new map holding o with other applied on top
func (o Overrides) Merge(other Overrides) Overrides {
	merged := make(Overrides, len(o)+len(other))
	for k, v := range o {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Native returns the overrides as plain Go values, the form kept in
// StoredTemplate.Overrides. Colors become strings.
func (o Overrides) Native() map[string]any {
	native := make(map[string]any, len(o))
	for name, v := range o {
		switch v.Type {
		case TypeNumber:
			native[name] = v.Num
		case TypeBoolean:
			native[name] = v.Bool
		default:
			native[name] = v.Str
		}
	}
	return native
}
