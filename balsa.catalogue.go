package balsa

import (
	"encoding/json"
	"strings"

	"github.com/itsatony/go-cuserr"
	"gopkg.in/yaml.v3"

	"github.com/itsatony/go-balsa/internal"
)

// VariableEntry describes one editable template variable.
type VariableEntry struct {
	// Name is the variable name used in placeholders and overrides.
	Name string `json:"name" yaml:"name"`

	// Type is the declared (or inferred) type.
	Type Type `json:"type" yaml:"type"`

	// TypeInferred is true when no placeholder declared the type explicitly.
	TypeInferred bool `json:"typeInferred,omitempty" yaml:"typeInferred,omitempty"`

	// FriendlyName is the human-readable label, empty when none was given.
	FriendlyName string `json:"friendlyName,omitempty" yaml:"friendlyName,omitempty"`

	// Default is the literal default, nil when the default is a reference or absent.
	Default *Value `json:"-" yaml:"-"`

	// DefaultText is the textual form of a literal default.
	DefaultText string `json:"default,omitempty" yaml:"default,omitempty"`

	// DefaultRef names the variable the default is taken from.
	DefaultRef string `json:"defaultRef,omitempty" yaml:"defaultRef,omitempty"`

	// Required is true when there is no default and an override must be given.
	Required bool `json:"required" yaml:"required"`

	// Emitted is true when the variable is written to the output somewhere.
	Emitted bool `json:"emitted" yaml:"emitted"`

	// Line and Column locate the first placeholder naming the variable.
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Label returns the friendly name, or the variable name when there is none.
func (v VariableEntry) Label() string {
	if v.FriendlyName != "" {
		return v.FriendlyName
	}
	return v.Name
}

// HasDefault reports whether the variable has a literal or reference default.
func (v VariableEntry) HasDefault() bool {
	return v.Default != nil || v.DefaultRef != ""
}

// Catalogue is the ordered list of variables of one template.
type Catalogue struct {
	Variables []VariableEntry `json:"variables" yaml:"variables"`
}

// newCatalogue converts internal entries to their public form
func newCatalogue(entries []*internal.VariableEntry) *Catalogue {
	vars := make([]VariableEntry, 0, len(entries))
	for _, e := range entries {
		entry := VariableEntry{
			Name:         e.Name,
			Type:         e.Type,
			TypeInferred: !e.TypeDeclared,
			Required:     e.Required(),
			Emitted:      e.Emitted,
			Line:         e.Position.Line,
			Column:       e.Position.Column,
		}
		if e.FriendlyName != nil {
			entry.FriendlyName = *e.FriendlyName
		}
		switch def := e.Default.(type) {
		case *internal.LiteralExpr:
			v := def.Value
			entry.Default = &v
			entry.DefaultText = v.Text()
		case *internal.VariableRefExpr:
			entry.DefaultRef = def.Name
		}
		vars = append(vars, entry)
	}
	return &Catalogue{Variables: vars}
}

// Len returns the number of variables.
func (c *Catalogue) Len() int {
	return len(c.Variables)
}

// Get returns the entry for name.
func (c *Catalogue) Get(name string) (VariableEntry, bool) {
	for _, v := range c.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return VariableEntry{}, false
}

// Names returns the variable names in catalogue order.
func (c *Catalogue) Names() []string {
	names := make([]string, len(c.Variables))
	for i, v := range c.Variables {
		names[i] = v.Name
	}
	return names
}

// Required returns the variables that need an override to render.
func (c *Catalogue) Required() []VariableEntry {
	var result []VariableEntry
	for _, v := range c.Variables {
		if v.Required {
			result = append(result, v)
		}
	}
	return result
}

// Editable returns the variables written to the output, which an editor should show.
func (c *Catalogue) Editable() []VariableEntry {
	var result []VariableEntry
	for _, v := range c.Variables {
		if v.Emitted {
			result = append(result, v)
		}
	}
	return result
}

// Format renders the catalogue as FormatJSON, FormatYAML or FormatMarkdown.
func (c *Catalogue) Format(format string) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return "", cuserr.WrapStdError(err, ErrCodeInternal, ErrMsgCatalogueEncode)
		}
		return string(data), nil
	case FormatYAML:
		data, err := yaml.Marshal(c)
		if err != nil {
			return "", cuserr.WrapStdError(err, ErrCodeInternal, ErrMsgCatalogueEncode)
		}
		return string(data), nil
	case FormatMarkdown:
		return c.markdown(), nil
	default:
		return "", NewUnsupportedFormatError(format)
	}
}

// markdown generates a markdown table of the variables.
func (c *Catalogue) markdown() string {
	var b strings.Builder
	b.WriteString("| Name | Label | Type | Default | Required |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, v := range c.Variables {
		def := v.DefaultText
		if v.DefaultRef != "" {
			def = "$" + v.DefaultRef
		}
		b.WriteString("| ")
		b.WriteString(escapeMarkdownCell(v.Name))
		b.WriteString(" | ")
		b.WriteString(escapeMarkdownCell(v.Label()))
		b.WriteString(" | ")
		b.WriteString(v.Type.String())
		b.WriteString(" | ")
		b.WriteString(escapeMarkdownCell(def))
		b.WriteString(" | ")
		if v.Required {
			b.WriteString("yes")
		} else {
			b.WriteString("no")
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// escapeMarkdownCell keeps pipes and newlines from breaking a table row.
func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
