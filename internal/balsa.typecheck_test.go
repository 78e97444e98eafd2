package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDefault(t *testing.T) {
	byName := map[string]*VariableEntry{
		"title":  {Name: "title", Type: TypeString},
		"count":  {Name: "count", Type: TypeNumber},
		"accent": {Name: "accent", Type: TypeColor},
	}

	tests := []struct {
		name     string
		entry    *VariableEntry
		expected ValueExpr
		reason   string
	}{
		{
			name:     "no default",
			entry:    &VariableEntry{Name: "x", Type: TypeString},
			expected: nil,
		},
		{
			name:     "matching literal",
			entry:    &VariableEntry{Name: "x", Type: TypeNumber, Default: NewLiteralExpr(NewNumber(2), Position{})},
			expected: NewLiteralExpr(NewNumber(2), Position{}),
		},
		{
			name:     "string literal becomes color",
			entry:    &VariableEntry{Name: "bg", Type: TypeColor, Default: NewLiteralExpr(NewString("#fff"), Position{})},
			expected: NewLiteralExpr(NewColor("#fff"), Position{}),
		},
		{
			name:   "number where string declared",
			entry:  &VariableEntry{Name: "x", Type: TypeString, Default: NewLiteralExpr(NewNumber(42), Position{})},
			reason: ReasonDefaultLiteral,
		},
		{
			name:   "string where number declared",
			entry:  &VariableEntry{Name: "x", Type: TypeNumber, Default: NewLiteralExpr(NewString("42"), Position{})},
			reason: ReasonDefaultLiteral,
		},
		{
			name:   "invalid color",
			entry:  &VariableEntry{Name: "bg", Type: TypeColor, Default: NewLiteralExpr(NewString("greenish"), Position{})},
			reason: ReasonDefaultLiteral + ": " + ErrMsgInvalidColor,
		},
		{
			name:     "reference of same type",
			entry:    &VariableEntry{Name: "sub", Type: TypeString, Default: NewVariableRefExpr("title", Position{})},
			expected: NewVariableRefExpr("title", Position{}),
		},
		{
			name:   "reference of other type",
			entry:  &VariableEntry{Name: "sub", Type: TypeString, Default: NewVariableRefExpr("count", Position{})},
			reason: ReasonDefaultReference,
		},
		{
			name:     "color reference for string",
			entry:    &VariableEntry{Name: "sub", Type: TypeString, Default: NewVariableRefExpr("accent", Position{})},
			expected: NewVariableRefExpr("accent", Position{}),
		},
		{
			name:   "string reference for color",
			entry:  &VariableEntry{Name: "bg", Type: TypeColor, Default: NewVariableRefExpr("title", Position{})},
			reason: ReasonDefaultReference,
		},
		{
			name:     "unknown reference is left to the reference check",
			entry:    &VariableEntry{Name: "sub", Type: TypeString, Default: NewVariableRefExpr("nope", Position{})},
			expected: NewVariableRefExpr("nope", Position{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckDefault(tt.entry, byName)
			if tt.reason != "" {
				var mismatch *TypeMismatchError
				require.ErrorAs(t, err, &mismatch)
				assert.Equal(t, tt.entry.Name, mismatch.Name)
				assert.Equal(t, tt.entry.Type, mismatch.Expected)
				assert.Equal(t, tt.reason, mismatch.Reason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCheckDefault_MismatchPosition(t *testing.T) {
	at := Position{Offset: 12, Line: 2, Column: 5}
	byName := map[string]*VariableEntry{"count": {Name: "count", Type: TypeNumber}}

	t.Run("literal", func(t *testing.T) {
		entry := &VariableEntry{Name: "x", Type: TypeString, Default: NewLiteralExpr(NewNumber(42), at)}
		_, err := CheckDefault(entry, byName)
		var mismatch *TypeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, at, mismatch.Position)
	})

	t.Run("reference", func(t *testing.T) {
		entry := &VariableEntry{Name: "x", Type: TypeString, Default: NewVariableRefExpr("count", at)}
		_, err := CheckDefault(entry, byName)
		var mismatch *TypeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, at, mismatch.Position)
	})

	t.Run("override points at the declaration", func(t *testing.T) {
		entry := &VariableEntry{Name: "x", Type: TypeNumber, Position: at}
		_, err := CheckOverride(entry, NewString("nine"))
		var mismatch *TypeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, at, mismatch.Position)
	})
}

func TestCheckOverride(t *testing.T) {
	entry := &VariableEntry{Name: "headerText", Type: TypeString}

	got, err := CheckOverride(entry, NewString("Hi"))
	require.NoError(t, err)
	assert.Equal(t, NewString("Hi"), got)

	_, err = CheckOverride(entry, NewNumber(3))
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "headerText", mismatch.Name)
	assert.Equal(t, TypeNumber, mismatch.Actual)
	assert.Equal(t, ReasonOverride, mismatch.Reason)
	assert.Equal(t, `variable "headerText": expected string, got number 3 (override value)`, err.Error())

	color := &VariableEntry{Name: "bg", Type: TypeColor}
	got, err = CheckOverride(entry, NewColor("#336699"))
	require.NoError(t, err)
	assert.Equal(t, NewString("#336699"), got)

	got, err = CheckOverride(color, NewString("rebeccapurple"))
	require.NoError(t, err)
	assert.Equal(t, TypeColor, got.Type)

	_, err = CheckOverride(&VariableEntry{Name: "on", Type: TypeBoolean}, NewString("true"))
	assert.Error(t, err)
}
