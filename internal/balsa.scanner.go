package internal

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// ScannerConfig holds scanner configuration
type ScannerConfig struct {
	OpenDelim  string // Opening delimiter (default: "{{")
	CloseDelim string // Closing delimiter (default: "}}")
}

// DefaultScannerConfig returns the default scanner configuration
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		OpenDelim:  StrOpenDelim,
		CloseDelim: StrCloseDelim,
	}
}

// Scanner splits template source into literal and placeholder segments
type Scanner struct {
	source string
	config ScannerConfig
	pos    int // Current byte position
	line   int // Current line (1-indexed)
	column int // Current column (1-indexed)
	logger *zap.Logger
}

// NewScanner creates a new scanner with default configuration
func NewScanner(source string, logger *zap.Logger) *Scanner {
	return NewScannerWithConfig(source, DefaultScannerConfig(), logger)
}

// NewScannerWithConfig creates a scanner with custom delimiters
func NewScannerWithConfig(source string, config ScannerConfig, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.OpenDelim == "" {
		config.OpenDelim = StrOpenDelim
	}
	if config.CloseDelim == "" {
		config.CloseDelim = StrCloseDelim
	}
	logger.Debug(LogMsgScannerCreated, zap.Int(LogFieldSource, len(source)))
	return &Scanner{
		source: source,
		config: config,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Scan processes the source and returns its segments in document order
func (s *Scanner) Scan() ([]Segment, error) {
	s.logger.Debug(LogMsgScanStart)
	var segments []Segment

	for !s.isAtEnd() {
		if s.matchStr(s.config.OpenDelim) {
			seg, err := s.scanPlaceholder()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
			continue
		}
		segments = append(segments, s.scanLiteral())
	}

	s.logger.Debug(LogMsgScanEnd, zap.Int(LogFieldSegments, len(segments)))
	return segments, nil
}

// scanLiteral scans verbatim text up to the next open delimiter or end of input
func (s *Scanner) scanLiteral() Segment {
	start := s.currentPosition()
	for !s.isAtEnd() && !s.matchStr(s.config.OpenDelim) {
		s.advance()
	}
	return NewLiteralSegment(s.source[start.Offset:s.pos], start, s.pos)
}

// scanPlaceholder scans from an open delimiter through its matching close delimiter.
// Delimiters inside quoted strings are part of the content.
func (s *Scanner) scanPlaceholder() (Segment, error) {
	start := s.currentPosition()
	s.advanceN(len(s.config.OpenDelim))
	contentStart := s.pos

	var quote byte
	for !s.isAtEnd() {
		ch := s.peek()

		if quote != 0 {
			if ch == CharBackslash && s.pos+1 < len(s.source) {
				s.advanceN(2)
				continue
			}
			if ch == quote {
				quote = 0
			}
			s.advance()
			continue
		}

		if ch == CharDoubleQuote || ch == CharSingleQuote {
			quote = ch
			s.advance()
			continue
		}

		if s.matchStr(s.config.CloseDelim) {
			raw := s.source[contentStart:s.pos]
			s.advanceN(len(s.config.CloseDelim))
			return s.newPlaceholder(raw, start, contentStart), nil
		}

		if s.matchStr(s.config.OpenDelim) {
			return Segment{}, NewSyntaxError(ErrMsgNestedPlaceholder, s.currentPosition(), "")
		}

		s.advance()
	}

	return Segment{}, NewSyntaxError(ErrMsgUnterminatedPlaceholder, start, "")
}

// newPlaceholder trims the raw content and records where the trimmed content begins
func (s *Scanner) newPlaceholder(raw string, start Position, contentStart int) Segment {
	lead := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
	content := strings.TrimSpace(raw)
	contentPos := PositionAt(s.source, contentStart+lead)
	return NewPlaceholderSegment(content, start, contentPos, s.pos)
}

// Helper methods

// currentPosition returns the current position
func (s *Scanner) currentPosition() Position {
	return Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.column,
	}
}

// isAtEnd returns true if we've reached the end of source
func (s *Scanner) isAtEnd() bool {
	return s.pos >= len(s.source)
}

// peek returns the current character without advancing
func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.pos]
}

// advance consumes and returns the current character
func (s *Scanner) advance() byte {
	if s.isAtEnd() {
		return 0
	}
	ch := s.source[s.pos]
	s.pos++
	if ch == CharNewline {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return ch
}

// advanceN advances by n characters
func (s *Scanner) advanceN(n int) {
	for i := 0; i < n && !s.isAtEnd(); i++ {
		s.advance()
	}
}

// matchStr returns true if the remaining source starts with str
func (s *Scanner) matchStr(str string) bool {
	return strings.HasPrefix(s.source[s.pos:], str)
}

// PositionAt computes the line and column of a byte offset in source
func PositionAt(source string, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}
	pos := Position{Offset: offset, Line: 1, Column: 1}
	for i := 0; i < offset; i++ {
		if source[i] == CharNewline {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}
