package balsa

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/itsatony/go-cuserr"
	"github.com/pelletier/go-toml/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	"gopkg.in/yaml.v3"
)

// overridesFilename is the pseudo file name given to the HCL parser for in-memory input
const overridesFilename = "overrides.hcl"

// ParseOverrides decodes an overrides document. The document is a flat mapping of
// variable names to strings, numbers or booleans in FormatJSON, FormatYAML,
// FormatTOML or FormatHCL (name = value attributes).
func ParseOverrides(data []byte, format string) (Overrides, error) {
	var raw map[string]any

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, NewOverridesError(format, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, NewOverridesError(format, err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, NewOverridesError(format, err)
		}
	case FormatHCL:
		parsed, err := parseHCLOverrides(data)
		if err != nil {
			return nil, NewOverridesError(format, err)
		}
		raw = parsed
	default:
		return nil, NewUnsupportedFormatError(format)
	}

	return OverridesFromMap(raw)
}

// LoadOverridesFile reads an overrides file, picking the format from its extension.
func LoadOverridesFile(path string) (Overrides, error) {
	format := FormatFromPath(path)
	if format == "" {
		return nil, NewUnsupportedFormatError(filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeOverrides, ErrMsgOverrideFileFailed).
			WithMetadata(MetaKeyPath, path)
	}

	return ParseOverrides(data, format)
}

// FormatFromPath maps a file extension to an overrides format, or "" if unknown.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".hcl":
		return FormatHCL
	default:
		return ""
	}
}

// OverridesFromMap converts native Go values to typed override values.
// Strings become strings, any integer or float becomes a number and bools become
// booleans. Other values are rejected. Type checking against the declared
// variable types happens when the overrides are used.
func OverridesFromMap(m map[string]any) (Overrides, error) {
	overrides := make(Overrides, len(m))
	for name, raw := range m {
		v, ok := valueFromNative(raw)
		if !ok {
			return nil, NewOverrideValueError(name, raw)
		}
		overrides[name] = v
	}
	return overrides, nil
}

// valueFromNative converts one native value
func valueFromNative(raw any) (Value, bool) {
	switch v := raw.(type) {
	case string:
		return String(v), true
	case bool:
		return Bool(v), true
	case float64:
		return Number(v), true
	case float32:
		return Number(float64(v)), true
	case int:
		return Number(float64(v)), true
	case int64:
		return Number(float64(v)), true
	case int32:
		return Number(float64(v)), true
	case uint64:
		return Number(float64(v)), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Value{}, false
		}
		return Number(f), true
	case Value:
		return v, true
	default:
		return Value{}, false
	}
}

// ParseValue converts command-line text to a value of the given type.
func ParseValue(typ Type, text string) (Value, error) {
	switch typ {
	case TypeNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return Value{}, cuserr.WrapStdError(err, ErrCodeOverrides, ErrMsgTypeMismatch).
				WithMetadata(MetaKeyExpected, typ.String()).
				WithMetadata(MetaKeyValue, text)
		}
		return Number(f), nil
	case TypeBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return Value{}, cuserr.WrapStdError(err, ErrCodeOverrides, ErrMsgTypeMismatch).
				WithMetadata(MetaKeyExpected, typ.String()).
				WithMetadata(MetaKeyValue, text)
		}
		return Bool(b), nil
	case TypeColor:
		return Color(text), nil
	default:
		return String(text), nil
	}
}

// ParseAssignment splits "name=value" into its parts.
func ParseAssignment(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", cuserr.NewValidationError(ErrCodeOverrides, ErrMsgOverrideAssignment).
			WithMetadata(MetaKeyValue, s)
	}
	return name, value, nil
}

// parseHCLOverrides reads top-level attributes of an HCL body
func parseHCLOverrides(data []byte) (map[string]any, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, overridesFilename)
	if diags.HasErrors() {
		return nil, diags
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	result := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		result[name] = native
	}
	return result, nil
}

// ctyToNative converts a primitive cty.Value to string, float64 or bool
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	switch ty := v.Type(); ty {
	case cty.String:
		return v.AsString(), nil
	case cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}
		return f, nil
	case cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

// typeName names the Go type of a rejected override value
func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
