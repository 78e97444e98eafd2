package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Renderer writes a document with resolved values substituted for placeholders
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer creates a new renderer
func NewRenderer(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRendererCreated)
	return &Renderer{logger: logger}
}

// Render concatenates the document in order: literal text verbatim, nothing for
// declarations, and the text of the resolved value for references. If any emitted
// variable has no value the whole render fails and no output is returned.
func (r *Renderer) Render(doc *Document, values map[string]Value) (string, error) {
	r.logger.Debug(LogMsgRenderStart, zap.Int(LogFieldNodes, len(doc.Nodes)))

	var sb strings.Builder
	sb.Grow(len(doc.Source))

	for _, node := range doc.Nodes {
		switch n := node.(type) {
		case *TextNode:
			sb.WriteString(n.Content)
		case *PlaceholderNode:
			name := EmittedName(n.Expr)
			if name == "" {
				continue
			}
			v, ok := values[name]
			if !ok {
				return "", &UnresolvedVariableError{
					Name:     name,
					Reason:   ReasonNotInValues,
					Missing:  []string{name},
					Position: n.Pos(),
				}
			}
			sb.WriteString(v.Text())
		}
	}

	out := sb.String()
	r.logger.Debug(LogMsgRenderEnd, zap.Int(LogFieldOutputLength, len(out)))
	return out, nil
}
