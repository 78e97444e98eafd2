package internal

// Type mismatch reasons
const (
	ReasonDefaultLiteral   = "default value"
	ReasonDefaultReference = "default reference"
	ReasonOverride         = "override value"
)

// CheckDefault verifies that an entry's default fits its type.
// A literal default is returned retagged to the entry type (a color string
// becomes a color value); a reference must name a variable of the same type,
// or a color variable when the entry is a string.
func CheckDefault(entry *VariableEntry, byName map[string]*VariableEntry) (ValueExpr, error) {
	switch def := entry.Default.(type) {
	case nil:
		return nil, nil
	case *LiteralExpr:
		converted, ok := def.Value.ConvertTo(entry.Type)
		if !ok {
			return nil, newTypeMismatch(entry.Name, entry.Type, def.Value, ReasonDefaultLiteral, def.Position)
		}
		return NewLiteralExpr(converted, def.Position), nil
	case *VariableRefExpr:
		target, ok := byName[def.Name]
		if !ok {
			return def, nil
		}
		if !Assignable(target.Type, entry.Type) {
			return nil, &TypeMismatchError{
				Name:     entry.Name,
				Expected: entry.Type,
				Actual:   target.Type,
				Value:    def.String(),
				Reason:   ReasonDefaultReference,
				Position: def.Position,
			}
		}
		return def, nil
	}
	return entry.Default, nil
}

// CheckOverride verifies that a caller-supplied value fits the entry's type
// and returns it retagged to that type. There is no implicit coercion.
func CheckOverride(entry *VariableEntry, v Value) (Value, error) {
	converted, ok := v.ConvertTo(entry.Type)
	if !ok {
		return Value{}, newTypeMismatch(entry.Name, entry.Type, v, ReasonOverride, entry.Position)
	}
	return converted, nil
}

func newTypeMismatch(name string, expected Type, v Value, reason string, pos Position) *TypeMismatchError {
	if expected == TypeColor && (v.Type == TypeString || v.Type == TypeColor) {
		reason += ": " + ErrMsgInvalidColor
	}
	return &TypeMismatchError{
		Name:     name,
		Expected: expected,
		Actual:   v.Type,
		Value:    v.Literal(),
		Reason:   reason,
		Position: pos,
	}
}
