package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref(name string) ValueExpr { return &VariableRefExpr{Name: name} }

func TestDependencyGraph_Cycles(t *testing.T) {
	tests := []struct {
		name    string
		entries []*VariableEntry
		cycle   []string
	}{
		{
			name:    "self loop",
			entries: []*VariableEntry{{Name: "c", Default: ref("c")}},
			cycle:   []string{"c"},
		},
		{
			name: "two nodes",
			entries: []*VariableEntry{
				{Name: "a", Default: ref("b")},
				{Name: "b", Default: ref("a")},
			},
			cycle: []string{"a", "b"},
		},
		{
			name: "cycle behind an acyclic prefix",
			entries: []*VariableEntry{
				{Name: "start", Default: ref("x")},
				{Name: "x", Default: ref("y")},
				{Name: "y", Default: ref("z")},
				{Name: "z", Default: ref("x")},
			},
			cycle: []string{"x", "y", "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph := NewDependencyGraph(tt.entries)

			order, err := graph.TopologicalOrder()
			assert.Nil(t, order)
			var cyclic *CyclicDefaultError
			require.ErrorAs(t, err, &cyclic)
			assert.Equal(t, tt.cycle, cyclic.Cycle)
			assert.Equal(t, tt.cycle, graph.FindCycle())
		})
	}
}

func TestDependencyGraph_Diamond(t *testing.T) {
	entries := []*VariableEntry{
		{Name: "a", Default: ref("c")},
		{Name: "b", Default: ref("c")},
		{Name: "c", Default: &LiteralExpr{Value: NewNumber(1)}},
	}

	order, err := NewDependencyGraph(entries).TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, order)
}

func TestDependencyGraph_UnknownReferenceIgnored(t *testing.T) {
	graph := NewDependencyGraph([]*VariableEntry{{Name: "a", Default: ref("missing")}})

	assert.Empty(t, graph.Dependencies("a"))
	order, err := graph.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, order)
}

func TestDependencyGraph_CyclePosition(t *testing.T) {
	entries := []*VariableEntry{
		{Name: "x", Default: &LiteralExpr{Value: NewString("x")}, Position: Position{Offset: 0, Line: 1, Column: 5}},
		{Name: "a", Default: ref("b"), Position: Position{Offset: 20, Line: 2, Column: 5}},
		{Name: "b", Default: ref("a"), Position: Position{Offset: 40, Line: 3, Column: 5}},
	}

	_, err := NewDependencyGraph(entries).TopologicalOrder()
	var cyclic *CyclicDefaultError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, []string{"a", "b"}, cyclic.Cycle)
	assert.Equal(t, entries[1].Position, cyclic.Position)
}

func TestCyclicDefaultError_Message(t *testing.T) {
	err := &CyclicDefaultError{Cycle: []string{"a", "b"}}
	assert.Equal(t, "a -> b -> a", err.Error())
}
