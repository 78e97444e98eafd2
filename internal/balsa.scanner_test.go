package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScanner_Scan_PlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "simple text", input: "Hello, world!"},
		{name: "multiline text", input: "Line 1\nLine 2\n  Line 3\n"},
		{name: "html", input: `<div class="x">&amp; <b>bold</b></div>`},
		{name: "lone braces", input: "a { b } c }} d {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := NewScanner(tt.input, zap.NewNop()).Scan()
			require.NoError(t, err)
			require.Len(t, segments, 1)
			assert.Equal(t, SegmentTypeLiteral, segments[0].Type)
			assert.Equal(t, tt.input, segments[0].Content)
			assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, segments[0].Position)
		})
	}
}

func TestScanner_Scan_Empty(t *testing.T) {
	segments, err := NewScanner("", nil).Scan()
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestScanner_Scan_Placeholders(t *testing.T) {
	segments, err := NewScanner("<h1>{{ a }}</h1>", zap.NewNop()).Scan()
	require.NoError(t, err)
	require.Len(t, segments, 3)

	assert.Equal(t, SegmentTypeLiteral, segments[0].Type)
	assert.Equal(t, "<h1>", segments[0].Content)
	assert.Equal(t, 4, segments[0].End)

	assert.Equal(t, SegmentTypePlaceholder, segments[1].Type)
	assert.Equal(t, "a", segments[1].Content)
	assert.Equal(t, Position{Offset: 4, Line: 1, Column: 5}, segments[1].Position)
	assert.Equal(t, Position{Offset: 7, Line: 1, Column: 8}, segments[1].ContentPosition)
	assert.Equal(t, 11, segments[1].End)
	assert.False(t, segments[1].Declaration)

	assert.Equal(t, "</h1>", segments[2].Content)
	assert.Equal(t, Position{Offset: 11, Line: 1, Column: 12}, segments[2].Position)
}

func TestScanner_Scan_ContentPositionAfterUnusualSpace(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{name: "vertical tab and form feed", input: "{{\v\fname }}", offset: 4},
		{name: "no-break space", input: "{{\u00a0name }}", offset: 4},
		{name: "mixed", input: "{{ \t\u2003name }}", offset: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := NewScanner(tt.input, zap.NewNop()).Scan()
			require.NoError(t, err)
			require.Len(t, segments, 1)
			assert.Equal(t, "name", segments[0].Content)
			assert.Equal(t, tt.offset, segments[0].ContentPosition.Offset)
			assert.Equal(t, "name", tt.input[tt.offset:tt.offset+4])
		})
	}
}

func TestScanner_Scan_Declaration(t *testing.T) {
	segments, err := NewScanner(`{{@ a: string = "x" }}`, zap.NewNop()).Scan()
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.True(t, segments[0].Declaration)
	assert.Equal(t, `@ a: string = "x"`, segments[0].Content)
}

func TestScanner_Scan_Multiline(t *testing.T) {
	input := "line one\n  {{\n    name\n  }} tail"
	segments, err := NewScanner(input, zap.NewNop()).Scan()
	require.NoError(t, err)
	require.Len(t, segments, 3)

	assert.Equal(t, "line one\n  ", segments[0].Content)
	assert.Equal(t, Position{Offset: 11, Line: 2, Column: 3}, segments[1].Position)
	assert.Equal(t, "name", segments[1].Content)
	assert.Equal(t, Position{Offset: 18, Line: 3, Column: 5}, segments[1].ContentPosition)
	assert.Equal(t, " tail", segments[2].Content)
}

func TestScanner_Scan_QuotedDelimiters(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		content string
	}{
		{name: "close in double quotes", input: `{{ a, defaultValue: "}}" }}`, content: `a, defaultValue: "}}"`},
		{name: "open in single quotes", input: `{{ a, friendlyName: '{{x' }}`, content: `a, friendlyName: '{{x'`},
		{name: "escaped quote", input: `{{ a, defaultValue: "say \"}}\"" }}`, content: `a, defaultValue: "say \"}}\""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := NewScanner(tt.input, zap.NewNop()).Scan()
			require.NoError(t, err)
			require.Len(t, segments, 1)
			assert.Equal(t, tt.content, segments[0].Content)
		})
	}
}

func TestScanner_Scan_CustomDelimiters(t *testing.T) {
	config := ScannerConfig{OpenDelim: "[[", CloseDelim: "]]"}
	segments, err := NewScannerWithConfig("a {{ b }} [[ c ]]", config, zap.NewNop()).Scan()
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "a {{ b }} ", segments[0].Content)
	assert.Equal(t, "c", segments[1].Content)
}

func TestScanner_Scan_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		message  string
		position Position
	}{
		{
			name:     "unterminated",
			input:    "abc {{ name",
			message:  ErrMsgUnterminatedPlaceholder,
			position: Position{Offset: 4, Line: 1, Column: 5},
		},
		{
			name:     "unterminated string",
			input:    `{{ a, friendlyName: "oops }}`,
			message:  ErrMsgUnterminatedPlaceholder,
			position: Position{Offset: 0, Line: 1, Column: 1},
		},
		{
			name:     "nested",
			input:    "x\n{{ a {{ b }} }}",
			message:  ErrMsgNestedPlaceholder,
			position: Position{Offset: 7, Line: 2, Column: 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScanner(tt.input, zap.NewNop()).Scan()
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.message, syntaxErr.Message)
			assert.Equal(t, tt.position, syntaxErr.Position)
		})
	}
}

func TestPositionAt(t *testing.T) {
	source := "ab\ncd\n"
	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, PositionAt(source, 0))
	assert.Equal(t, Position{Offset: 2, Line: 1, Column: 3}, PositionAt(source, 2))
	assert.Equal(t, Position{Offset: 3, Line: 2, Column: 1}, PositionAt(source, 3))
	assert.Equal(t, Position{Offset: 6, Line: 3, Column: 1}, PositionAt(source, 100))
}

func TestSegment_String(t *testing.T) {
	seg := NewLiteralSegment("hello", Position{Offset: 0, Line: 1, Column: 1}, 5)
	assert.Contains(t, seg.String(), "LITERAL")
	assert.Contains(t, seg.String(), "hello")
}
