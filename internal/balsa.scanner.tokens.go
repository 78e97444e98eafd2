package internal

import "fmt"

// Position represents a location in the source template
type Position struct {
	Offset int `json:"offset" yaml:"offset"` // Byte offset from start
	Line   int `json:"line" yaml:"line"`     // 1-indexed line number
	Column int `json:"column" yaml:"column"` // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// SegmentType identifies what a scanned span of source holds
type SegmentType string

// Segment type constants
const (
	SegmentTypeLiteral     SegmentType = "LITERAL"
	SegmentTypePlaceholder SegmentType = "PLACEHOLDER"
)

// Segment is one span of template source produced by the scanner
type Segment struct {
	Type SegmentType
	// Content is the verbatim text for literals and the trimmed inner content for placeholders
	Content string
	// Position is where the segment starts. For placeholders this is the opening delimiter.
	Position Position
	// ContentPosition is where Content starts in the source (placeholders only)
	ContentPosition Position
	// Declaration is true when the placeholder content starts with '@'
	Declaration bool
	// End is the byte offset just past the segment
	End int
}

// String returns a human-readable representation of the segment
func (s Segment) String() string {
	content := s.Content
	if len(content) > MaxStringDisplayLength {
		content = content[:TruncatedStringLength] + TruncationSuffix
	}
	return fmt.Sprintf("Segment{%s: %q @ %s}", s.Type, content, s.Position)
}

// IsPlaceholder returns true for placeholder spans
func (s Segment) IsPlaceholder() bool {
	return s.Type == SegmentTypePlaceholder
}

// NewLiteralSegment creates a literal text segment
func NewLiteralSegment(content string, pos Position, end int) Segment {
	return Segment{
		Type:     SegmentTypeLiteral,
		Content:  content,
		Position: pos,
		End:      end,
	}
}

// NewPlaceholderSegment creates a placeholder segment
func NewPlaceholderSegment(content string, pos, contentPos Position, end int) Segment {
	return Segment{
		Type:            SegmentTypePlaceholder,
		Content:         content,
		Position:        pos,
		ContentPosition: contentPos,
		Declaration:     len(content) > 0 && content[0] == CharDeclaration,
		End:             end,
	}
}
