package internal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Type is the declared primitive type of a template variable
type Type int

// Type constants
const (
	TypeUnknown Type = iota
	TypeString
	TypeNumber
	TypeBoolean
	TypeColor
)

// Type names as written in templates
const (
	TypeNameString  = "string"
	TypeNameNumber  = "number"
	TypeNameBoolean = "boolean"
	TypeNameColor   = "color"
	TypeNameUnknown = "unknown"
)

// TypeNames lists every type name accepted in a placeholder
var TypeNames = []string{TypeNameString, TypeNameNumber, TypeNameBoolean, TypeNameColor}

// String returns the template spelling of the type
func (t Type) String() string {
	switch t {
	case TypeString:
		return TypeNameString
	case TypeNumber:
		return TypeNameNumber
	case TypeBoolean:
		return TypeNameBoolean
	case TypeColor:
		return TypeNameColor
	default:
		return TypeNameUnknown
	}
}

// ParseType maps a type name to its Type
func ParseType(name string) (Type, bool) {
	switch name {
	case TypeNameString:
		return TypeString, true
	case TypeNameNumber:
		return TypeNumber, true
	case TypeNameBoolean:
		return TypeBoolean, true
	case TypeNameColor:
		return TypeColor, true
	default:
		return TypeUnknown, false
	}
}

// MarshalText encodes the type by name
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name
func (t *Type) UnmarshalText(text []byte) error {
	parsed, ok := ParseType(string(text))
	if !ok {
		return fmt.Errorf("%s: %q", ErrMsgUnknownType, string(text))
	}
	*t = parsed
	return nil
}

// Value is a primitive value tagged with its type
type Value struct {
	Type Type
	Str  string
	Num  float64
	Bool bool
}

// NewString creates a string value
func NewString(s string) Value { return Value{Type: TypeString, Str: s} }

// NewNumber creates a number value
func NewNumber(f float64) Value { return Value{Type: TypeNumber, Num: f} }

// NewBoolean creates a boolean value
func NewBoolean(b bool) Value { return Value{Type: TypeBoolean, Bool: b} }

// NewColor creates a color value. The color is not validated.
func NewColor(c string) Value { return Value{Type: TypeColor, Str: c} }

// IsZero reports whether the value carries no type
func (v Value) IsZero() bool {
	return v.Type == TypeUnknown
}

// Text returns the textual form emitted into rendered output.
// Strings and colors are emitted as-is, without quoting or escaping.
func (v Value) Text() string {
	switch v.Type {
	case TypeString, TypeColor:
		return v.Str
	case TypeNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case TypeBoolean:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Literal returns the value as it would be written inside a placeholder
func (v Value) Literal() string {
	switch v.Type {
	case TypeString, TypeColor:
		return strconv.Quote(v.Str)
	default:
		return v.Text()
	}
}

// String returns a debug representation
func (v Value) String() string {
	return fmt.Sprintf("%s(%s)", v.Type, v.Literal())
}

// Equal reports whether two values have the same type and content
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case TypeString, TypeColor:
		return v.Str == o.Str
	case TypeNumber:
		return v.Num == o.Num
	case TypeBoolean:
		return v.Bool == o.Bool
	default:
		return true
	}
}

// ConvertTo checks that v may be stored in a variable of type target and returns
// the value retagged to target. Only identical types are accepted, except that a
// string holding a valid CSS color is accepted for color and any color is
// accepted for string.
func (v Value) ConvertTo(target Type) (Value, bool) {
	if v.Type == target {
		if target == TypeColor && !IsValidColor(v.Str) {
			return Value{}, false
		}
		return v, true
	}
	switch {
	case v.Type == TypeString && target == TypeColor && IsValidColor(v.Str):
		return NewColor(v.Str), true
	case v.Type == TypeColor && target == TypeString:
		return NewString(v.Str), true
	}
	return Value{}, false
}

// Assignable reports whether a variable of type from may supply the default of
// a variable of type to.
func Assignable(from, to Type) bool {
	return from == to || (from == TypeColor && to == TypeString)
}

// cssColorPattern matches hex, rgb()/rgba()/hsl()/hsla() and named CSS colors.
var cssColorPattern = regexp.MustCompile(`^(#(?:[0-9a-f]{2}){2,4}|#[0-9a-f]{3}|(?:rgb|hsl)a?\((?:-?\d+%?[,\s]+){2,3}\s*[\d.]+%?\)|` +
	`black|silver|gray|whitesmoke|maroon|red|purple|fuchsia|green|lime|olivedrab|yellow|navy|blue|teal|aquamarine|orange|` +
	`aliceblue|antiquewhite|aqua|azure|beige|bisque|blanchedalmond|blueviolet|brown|burlywood|cadetblue|chartreuse|chocolate|` +
	`coral|cornflowerblue|cornsilk|crimson|currentcolor|darkblue|darkcyan|darkgoldenrod|darkgray|darkgreen|darkgrey|darkkhaki|` +
	`darkmagenta|darkolivegreen|darkorange|darkorchid|darkred|darksalmon|darkseagreen|darkslateblue|darkslategray|darkslategrey|` +
	`darkturquoise|darkviolet|deeppink|deepskyblue|dimgray|dimgrey|dodgerblue|firebrick|floralwhite|forestgreen|gainsboro|` +
	`ghostwhite|goldenrod|gold|greenyellow|grey|honeydew|hotpink|indianred|indigo|ivory|khaki|lavenderblush|lavender|lawngreen|` +
	`lemonchiffon|lightblue|lightcoral|lightcyan|lightgoldenrodyellow|lightgray|lightgreen|lightgrey|lightpink|lightsalmon|` +
	`lightseagreen|lightskyblue|lightslategray|lightslategrey|lightsteelblue|lightyellow|limegreen|linen|mediumaquamarine|` +
	`mediumblue|mediumorchid|mediumpurple|mediumseagreen|mediumslateblue|mediumspringgreen|mediumturquoise|mediumvioletred|` +
	`midnightblue|mintcream|mistyrose|moccasin|navajowhite|oldlace|olive|orangered|orchid|palegoldenrod|palegreen|` +
	`paleturquoise|palevioletred|papayawhip|peachpuff|peru|pink|plum|powderblue|rosybrown|royalblue|saddlebrown|salmon|` +
	`sandybrown|seagreen|seashell|sienna|skyblue|slateblue|slategray|slategrey|snow|springgreen|steelblue|tan|thistle|tomato|` +
	`transparent|turquoise|violet|wheat|white|yellowgreen|rebeccapurple)$`)

// IsValidColor reports whether s is an accepted CSS color
func IsValidColor(s string) bool {
	return cssColorPattern.MatchString(strings.ToLower(strings.TrimSpace(s)))
}
