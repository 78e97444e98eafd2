package balsa

import (
	"sync"

	"go.uber.org/zap"

	"github.com/itsatony/go-balsa/internal"
)

// Template represents a parsed template that can be rendered multiple times.
// A Template never changes after Parse and is safe for concurrent use.
type Template struct {
	source string
	doc    *internal.Document
	engine *Engine

	collectOnce sync.Once
	entries     []*internal.VariableEntry
	collectErr  error
}

// newTemplate creates a new template (internal use).
func newTemplate(source string, doc *internal.Document, engine *Engine) *Template {
	return &Template{
		source: source,
		doc:    doc,
		engine: engine,
	}
}

// Source returns the original template source string.
func (t *Template) Source() string {
	return t.source
}

// collect builds the variable entries once and caches the result or error.
func (t *Template) collect() ([]*internal.VariableEntry, error) {
	t.collectOnce.Do(func() {
		entries, err := t.engine.registry.Collect(t.doc)
		if err != nil {
			t.collectErr = wrapPipelineError(err)
			return
		}
		t.entries = entries
	})
	return t.entries, t.collectErr
}

// Catalogue returns the editable variables of the template in order of first appearance.
func (t *Template) Catalogue() (*Catalogue, error) {
	entries, err := t.collect()
	if err != nil {
		return nil, err
	}
	return newCatalogue(entries), nil
}

// Resolve computes the final value of every variable from defaults and overrides.
func (t *Template) Resolve(overrides Overrides) (map[string]Value, error) {
	entries, err := t.collect()
	if err != nil {
		return nil, err
	}
	values, err := t.engine.registry.Resolve(entries, overrides)
	if err != nil {
		return nil, wrapPipelineError(err)
	}
	return values, nil
}

// Render resolves the variables and writes the template with every placeholder
// replaced. It either succeeds completely or returns an error and no output.
func (t *Template) Render(overrides Overrides) (string, error) {
	values, err := t.Resolve(overrides)
	if err != nil {
		return "", err
	}

	out, err := t.engine.renderer.Render(t.doc, values)
	if err != nil {
		return "", wrapPipelineError(err)
	}

	t.engine.logger.Debug(LogMsgTemplateRendered,
		zap.Int(LogFieldOverrides, len(overrides)),
		zap.Int(LogFieldOutputLength, len(out)),
	)
	return out, nil
}

// Normalized returns the template with every placeholder rewritten in canonical form.
func (t *Template) Normalized() string {
	return t.doc.String()
}
