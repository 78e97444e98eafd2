package internal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ExprTokenType represents the type of a placeholder expression token
type ExprTokenType string

// Expression token type constants
const (
	ExprTokenTypeIdentifier ExprTokenType = "IDENT"
	ExprTokenTypeReference  ExprTokenType = "REF" // $name
	ExprTokenTypeString     ExprTokenType = "STRING"
	ExprTokenTypeNumber     ExprTokenType = "NUMBER"
	ExprTokenTypeBool       ExprTokenType = "BOOL"
	ExprTokenTypeAt         ExprTokenType = "AT"
	ExprTokenTypeColon      ExprTokenType = "COLON"
	ExprTokenTypeComma      ExprTokenType = "COMMA"
	ExprTokenTypeEquals     ExprTokenType = "EQUALS"
	ExprTokenTypeEOF        ExprTokenType = "EOF"
)

// ExprToken represents a token inside a placeholder
type ExprToken struct {
	Type    ExprTokenType
	Value   string
	Pos     int // Byte offset within the placeholder content
	Literal any // Parsed value for literals (string, float64, bool)
}

// String returns the string representation of the token
func (t ExprToken) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	}
	return string(t.Type)
}

// ExprTokenizer tokenizes placeholder content
type ExprTokenizer struct {
	input string
	pos   int
	len   int
}

// NewExprTokenizer creates a new expression tokenizer
func NewExprTokenizer(input string) *ExprTokenizer {
	return &ExprTokenizer{
		input: input,
		len:   len(input),
	}
}

// Tokenize converts the input string into a slice of tokens ending with EOF
func (t *ExprTokenizer) Tokenize() ([]ExprToken, error) {
	var tokens []ExprToken

	for {
		t.skipWhitespace()

		if t.pos >= t.len {
			tokens = append(tokens, ExprToken{Type: ExprTokenTypeEOF, Pos: t.pos})
			break
		}

		token, err := t.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}

// nextToken reads the next token from the input
func (t *ExprTokenizer) nextToken() (ExprToken, error) {
	startPos := t.pos
	ch := t.peek()

	if ch == CharDoubleQuote || ch == CharSingleQuote {
		return t.readString()
	}

	if isDigit(ch) || (ch == CharMinus && t.pos+1 < t.len && (isDigit(t.input[t.pos+1]) || t.input[t.pos+1] == CharDot)) ||
		(ch == CharDot && t.pos+1 < t.len && isDigit(t.input[t.pos+1])) {
		return t.readNumber()
	}

	if isIdentStart(ch) {
		return t.readIdentifier()
	}

	t.pos++
	switch ch {
	case CharReference:
		if t.pos >= t.len || !isIdentStart(t.peek()) {
			return ExprToken{}, NewExprTokenError(ErrMsgExpectedName, t.pos, string(ch))
		}
		ident, err := t.readIdentifier()
		if err != nil {
			return ExprToken{}, err
		}
		return ExprToken{Type: ExprTokenTypeReference, Value: ident.Value, Pos: startPos}, nil
	case CharDeclaration:
		return ExprToken{Type: ExprTokenTypeAt, Value: "@", Pos: startPos}, nil
	case CharColon:
		return ExprToken{Type: ExprTokenTypeColon, Value: ":", Pos: startPos}, nil
	case CharComma:
		return ExprToken{Type: ExprTokenTypeComma, Value: ",", Pos: startPos}, nil
	case CharEquals:
		return ExprToken{Type: ExprTokenTypeEquals, Value: "=", Pos: startPos}, nil
	}

	return ExprToken{}, NewExprTokenError(ErrMsgUnexpectedChar, startPos, string(ch))
}

// readString reads a quoted string literal
func (t *ExprTokenizer) readString() (ExprToken, error) {
	startPos := t.pos
	quote := t.input[t.pos]
	t.pos++ // skip opening quote

	var sb strings.Builder
	for t.pos < t.len {
		ch := t.input[t.pos]
		if ch == quote {
			t.pos++ // skip closing quote
			value := sb.String()
			return ExprToken{
				Type:    ExprTokenTypeString,
				Value:   value,
				Pos:     startPos,
				Literal: value,
			}, nil
		}
		if ch == CharBackslash && t.pos+1 < t.len {
			t.pos++
			escaped := t.input[t.pos]
			switch escaped {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(escaped)
			}
			t.pos++
			continue
		}
		sb.WriteByte(ch)
		t.pos++
	}

	return ExprToken{}, NewExprTokenError(ErrMsgUnterminatedString, startPos, "")
}

// readNumber reads a numeric literal: optional sign, digits, optional fraction and exponent
func (t *ExprTokenizer) readNumber() (ExprToken, error) {
	startPos := t.pos
	if t.peek() == CharMinus {
		t.pos++
	}

	hasDecimal := false
	for t.pos < t.len {
		ch := t.input[t.pos]
		if ch == CharDot && !hasDecimal {
			hasDecimal = true
			t.pos++
			continue
		}
		if ch == 'e' || ch == 'E' {
			t.pos++
			if t.pos < t.len && (t.input[t.pos] == '+' || t.input[t.pos] == CharMinus) {
				t.pos++
			}
			continue
		}
		if !isDigit(ch) {
			break
		}
		t.pos++
	}

	value := t.input[startPos:t.pos]
	if t.pos < t.len && isIdentPart(t.input[t.pos]) {
		return ExprToken{}, NewExprTokenError(ErrMsgInvalidNumber, startPos, value+string(t.input[t.pos]))
	}

	literal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return ExprToken{}, NewExprTokenError(ErrMsgInvalidNumber, startPos, value)
	}

	return ExprToken{
		Type:    ExprTokenTypeNumber,
		Value:   value,
		Pos:     startPos,
		Literal: literal,
	}, nil
}

// readIdentifier reads an identifier or boolean keyword
func (t *ExprTokenizer) readIdentifier() (ExprToken, error) {
	startPos := t.pos

	for t.pos < t.len && isIdentPart(t.input[t.pos]) {
		t.pos++
	}

	value := t.input[startPos:t.pos]

	switch value {
	case KeywordTrue:
		return ExprToken{Type: ExprTokenTypeBool, Value: value, Pos: startPos, Literal: true}, nil
	case KeywordFalse:
		return ExprToken{Type: ExprTokenTypeBool, Value: value, Pos: startPos, Literal: false}, nil
	}

	return ExprToken{Type: ExprTokenTypeIdentifier, Value: value, Pos: startPos}, nil
}

// peek returns the current character without advancing
func (t *ExprTokenizer) peek() byte {
	if t.pos >= t.len {
		return 0
	}
	return t.input[t.pos]
}

// skipWhitespace skips whitespace characters
func (t *ExprTokenizer) skipWhitespace() {
	for t.pos < t.len && unicode.IsSpace(rune(t.input[t.pos])) {
		t.pos++
	}
}

// Character classification helpers

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return isLetter(ch) || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}

// IsValidName reports whether name is a well-formed variable name
func IsValidName(name string) bool {
	if name == "" || !isIdentStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentPart(name[i]) {
			return false
		}
	}
	return name != KeywordTrue && name != KeywordFalse
}

// ExprTokenError represents an error during placeholder tokenization
type ExprTokenError struct {
	Message string
	Pos     int
	Detail  string
}

// NewExprTokenError creates a new expression token error
func NewExprTokenError(message string, pos int, detail string) *ExprTokenError {
	return &ExprTokenError{
		Message: message,
		Pos:     pos,
		Detail:  detail,
	}
}

// Error implements the error interface
func (e *ExprTokenError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at position %d: %s", e.Message, e.Pos, e.Detail)
	}
	return fmt.Sprintf("%s at position %d", e.Message, e.Pos)
}
