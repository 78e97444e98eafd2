package internal

import (
	"sort"

	"go.uber.org/zap"
)

// VariableEntry is the collected metadata of one template variable
type VariableEntry struct {
	Name         string
	Type         Type
	TypeDeclared bool    // false when the type was inferred
	FriendlyName *string // nil when no placeholder gave one
	Default      ValueExpr
	Position     Position // First appearance in the document
	Emitted      bool     // Written to the output by at least one placeholder
}

// Required reports whether the variable has no default and must be overridden
func (e *VariableEntry) Required() bool {
	return e.Default == nil
}

// Clone returns a copy that shares no mutable state with e
func (e *VariableEntry) Clone() *VariableEntry {
	c := *e
	if e.FriendlyName != nil {
		label := *e.FriendlyName
		c.FriendlyName = &label
	}
	return &c
}

// reference is a $name use that must name a declared variable
type reference struct {
	name     string
	position Position
	emits    bool // {{ $name }} writes the value; a default reference does not
}

// Registry builds variable entries from a document and resolves their values.
// It holds no per-document state and is safe for concurrent use.
type Registry struct {
	strictOverrides bool
	logger          *zap.Logger
}

// NewRegistry creates a new variable registry.
// With strictOverrides, an override naming an undeclared variable is an error.
func NewRegistry(strictOverrides bool, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRegistryCreated)
	return &Registry{
		strictOverrides: strictOverrides,
		logger:          logger,
	}
}

// collection is the working state of one Collect call
type collection struct {
	entries map[string]*VariableEntry
	order   []*VariableEntry
	refs    []reference
	logger  *zap.Logger
}

// Collect walks the document placeholders in order and returns one merged entry per
// variable, in order of first appearance. It checks that every reference names a
// declared variable, that defaults are acyclic, and that every default fits its type.
func (r *Registry) Collect(doc *Document) ([]*VariableEntry, error) {
	c := &collection{
		entries: make(map[string]*VariableEntry),
		logger:  r.logger,
	}

	for _, node := range doc.Placeholders() {
		if err := c.add(node.Expr); err != nil {
			return nil, err
		}
	}

	if err := c.checkReferences(); err != nil {
		return nil, err
	}

	order, err := NewDependencyGraph(c.order).TopologicalOrder()
	if err != nil {
		return nil, err
	}

	// Types are settled dependencies first so inference can follow reference chains.
	for _, name := range order {
		entry := c.entries[name]
		if !entry.TypeDeclared {
			entry.Type = c.inferType(entry)
		}
		def, err := CheckDefault(entry, c.entries)
		if err != nil {
			return nil, err
		}
		entry.Default = def
	}

	r.logger.Debug(LogMsgCollectEnd, zap.Int(LogFieldVariables, len(c.order)))
	return c.order, nil
}

// add records one placeholder expression
func (c *collection) add(expr Expression) error {
	switch e := expr.(type) {
	case *Declaration:
		return c.merge(e.Name, e.Type, nil, e.Default, e.Position, false)
	case *DeclarationBlock:
		for _, d := range e.Declarations {
			if err := c.merge(d.Name, d.Type, nil, d.Default, d.Position, false); err != nil {
				return err
			}
		}
	case *EditableReference:
		return c.merge(e.Name, e.Type, e.FriendlyName, e.Default, e.Position, true)
	case *ValueReference:
		c.refs = append(c.refs, reference{name: e.Name, position: e.Position, emits: true})
	}
	return nil
}

// merge creates the entry for name or folds new metadata into the existing one.
// Types must agree, missing metadata is filled in and a differing default
// replaces the earlier one.
func (c *collection) merge(name string, typ Type, label *string, def ValueExpr, pos Position, emitted bool) error {
	if ref, ok := def.(*VariableRefExpr); ok {
		c.refs = append(c.refs, reference{name: ref.Name, position: ref.Position})
	}

	existing, ok := c.entries[name]
	if !ok {
		entry := &VariableEntry{
			Name:         name,
			Type:         typ,
			TypeDeclared: typ != TypeUnknown,
			Default:      def,
			Position:     pos,
			Emitted:      emitted,
		}
		if label != nil {
			l := *label
			entry.FriendlyName = &l
		}
		c.entries[name] = entry
		c.order = append(c.order, entry)
		c.logger.Debug(LogMsgVariableDeclared,
			zap.String(LogFieldVariable, name),
			zap.Int(LogFieldOffset, pos.Offset),
		)
		return nil
	}

	if typ != TypeUnknown {
		if existing.TypeDeclared && existing.Type != typ {
			return &TypeConflictError{
				Name:         name,
				ExistingType: existing.Type,
				NewType:      typ,
				Position:     pos,
			}
		}
		existing.Type = typ
		existing.TypeDeclared = true
	}

	if label != nil && existing.FriendlyName == nil {
		l := *label
		existing.FriendlyName = &l
	}

	if def != nil {
		if existing.Default != nil && !SameValueExpr(existing.Default, def) {
			c.logger.Debug(LogMsgDefaultReplaced,
				zap.String(LogFieldVariable, name),
				zap.Int(LogFieldOffset, pos.Offset),
			)
		}
		existing.Default = def
	}

	existing.Emitted = existing.Emitted || emitted
	c.logger.Debug(LogMsgVariableMerged, zap.String(LogFieldVariable, name))
	return nil
}

// checkReferences verifies every $name use against the collected names
func (c *collection) checkReferences() error {
	for _, ref := range c.refs {
		if entry, ok := c.entries[ref.name]; ok {
			entry.Emitted = entry.Emitted || ref.emits
			continue
		}
		return &UnresolvedVariableError{
			Name:        ref.name,
			Reason:      ReasonUndeclared,
			Missing:     []string{ref.name},
			Suggestions: FindSimilarStrings(ref.name, c.names(), MaxSuggestions),
			Position:    ref.position,
		}
	}
	return nil
}

// inferType picks a type for an entry no placeholder typed explicitly:
// the type of its literal default, the type of the variable it references,
// or string.
func (c *collection) inferType(entry *VariableEntry) Type {
	switch def := entry.Default.(type) {
	case *LiteralExpr:
		return def.Value.Type
	case *VariableRefExpr:
		if target, ok := c.entries[def.Name]; ok && target.Type != TypeUnknown {
			return target.Type
		}
	}
	return TypeString
}

// names returns the collected variable names in document order
func (c *collection) names() []string {
	names := make([]string, len(c.order))
	for i, e := range c.order {
		names[i] = e.Name
	}
	return names
}

// sortedKeys returns the override names in a stable order
func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve computes a value for every entry: the override if one is given, else the
// evaluated default. Entries are visited dependencies first, so a default that
// references another variable sees that variable's final value.
func (r *Registry) Resolve(entries []*VariableEntry, overrides map[string]Value) (map[string]Value, error) {
	r.logger.Debug(LogMsgResolveStart,
		zap.Int(LogFieldVariables, len(entries)),
		zap.Int(LogFieldOverrides, len(overrides)),
	)

	byName := make(map[string]*VariableEntry, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
		names = append(names, e.Name)
	}

	checked := make(map[string]Value, len(overrides))
	for _, name := range sortedKeys(overrides) {
		entry, ok := byName[name]
		if !ok {
			suggestions := FindSimilarStrings(name, names, MaxSuggestions)
			if r.strictOverrides {
				return nil, &UnresolvedVariableError{
					Name:        name,
					Reason:      ErrMsgUnknownOverride,
					Missing:     []string{name},
					Suggestions: suggestions,
				}
			}
			r.logger.Warn(LogMsgOverrideUnknown,
				zap.String(LogFieldVariable, name),
				zap.Strings(LogFieldSuggestions, suggestions),
			)
			continue
		}
		v, err := CheckOverride(entry, overrides[name])
		if err != nil {
			return nil, err
		}
		checked[name] = v
	}

	order, err := NewDependencyGraph(entries).TopologicalOrder()
	if err != nil {
		return nil, err
	}
	r.logger.Debug(LogMsgResolveOrder, zap.Strings(LogFieldOrder, order))

	values := make(map[string]Value, len(entries))
	for _, name := range order {
		if v, ok := checked[name]; ok {
			values[name] = v
			continue
		}
		switch def := byName[name].Default.(type) {
		case *LiteralExpr:
			values[name] = def.Value
		case *VariableRefExpr:
			if v, ok := values[def.Name]; ok {
				if converted, ok := v.ConvertTo(byName[name].Type); ok {
					v = converted
				}
				values[name] = v
			}
		}
	}

	var missing []string
	for _, name := range names {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &UnresolvedVariableError{
			Name:     missing[0],
			Reason:   ReasonNoValue,
			Missing:  missing,
			Position: byName[missing[0]].Position,
		}
	}

	r.logger.Debug(LogMsgResolveEnd, zap.Int(LogFieldVariables, len(values)))
	return values, nil
}
