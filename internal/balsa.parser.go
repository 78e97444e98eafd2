package internal

import (
	"strings"

	"go.uber.org/zap"
)

// NodeType identifies the type of document node
type NodeType int

// Node type constants
const (
	NodeTypeText NodeType = iota
	NodeTypePlaceholder
)

// Node is one element of a parsed document
type Node interface {
	// Type returns the node type
	Type() NodeType
	// Pos returns where the node starts in the source
	Pos() Position
}

// TextNode is literal template text, emitted verbatim
type TextNode struct {
	Content  string
	Position Position
}

func (n *TextNode) Type() NodeType { return NodeTypeText }
func (n *TextNode) Pos() Position  { return n.Position }

// PlaceholderNode is a parsed {{ ... }} span
type PlaceholderNode struct {
	Expr     Expression
	Raw      string // Trimmed placeholder content
	Position Position
}

func (n *PlaceholderNode) Type() NodeType { return NodeTypePlaceholder }
func (n *PlaceholderNode) Pos() Position  { return n.Position }

// Document is the immutable result of parsing a template
type Document struct {
	Source string
	Nodes  []Node
}

// Placeholders returns the placeholder nodes in document order
func (d *Document) Placeholders() []*PlaceholderNode {
	var result []*PlaceholderNode
	for _, n := range d.Nodes {
		if p, ok := n.(*PlaceholderNode); ok {
			result = append(result, p)
		}
	}
	return result
}

// String reconstructs a normalized form of the template
func (d *Document) String() string {
	var sb strings.Builder
	for _, n := range d.Nodes {
		switch node := n.(type) {
		case *TextNode:
			sb.WriteString(node.Content)
		case *PlaceholderNode:
			sb.WriteString(StrOpenDelim)
			sb.WriteByte(CharSpace)
			sb.WriteString(node.Expr.String())
			sb.WriteByte(CharSpace)
			sb.WriteString(StrCloseDelim)
		}
	}
	return sb.String()
}

// Parser turns template source into a Document
type Parser struct {
	config ScannerConfig
	logger *zap.Logger
}

// NewParser creates a parser with default delimiters
func NewParser(logger *zap.Logger) *Parser {
	return NewParserWithConfig(DefaultScannerConfig(), logger)
}

// NewParserWithConfig creates a parser with custom delimiters
func NewParserWithConfig(config ScannerConfig, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgParserCreated)
	return &Parser{config: config, logger: logger}
}

// Parse scans the source and parses every placeholder.
// The first error aborts parsing and no partial document is returned.
func (p *Parser) Parse(source string) (*Document, error) {
	p.logger.Debug(LogMsgParseStart, zap.Int(LogFieldSource, len(source)))

	segments, err := NewScannerWithConfig(source, p.config, p.logger).Scan()
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(segments))
	for _, seg := range segments {
		if !seg.IsPlaceholder() {
			nodes = append(nodes, &TextNode{Content: seg.Content, Position: seg.Position})
			continue
		}

		if seg.Content == "" {
			return nil, NewSyntaxError(ErrMsgEmptyPlaceholder, seg.Position, "")
		}

		expr, err := ParsePlaceholder(seg.Content, seg.ContentPosition)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &PlaceholderNode{
			Expr:     expr,
			Raw:      seg.Content,
			Position: seg.Position,
		})
	}

	p.logger.Debug(LogMsgParseEnd, zap.Int(LogFieldNodes, len(nodes)))
	return &Document{Source: source, Nodes: nodes}, nil
}
