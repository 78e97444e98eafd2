package internal

// DependencyGraph links each variable to the variable its default refers to.
// Node order is the document order of the entries it was built from.
type DependencyGraph struct {
	nodes     []string
	edges     map[string][]string
	positions map[string]Position
}

// NewDependencyGraph builds the graph for the given entries.
// References to names outside the entry set are ignored.
func NewDependencyGraph(entries []*VariableEntry) *DependencyGraph {
	g := &DependencyGraph{
		nodes:     make([]string, 0, len(entries)),
		edges:     make(map[string][]string, len(entries)),
		positions: make(map[string]Position, len(entries)),
	}
	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		known[e.Name] = true
	}
	for _, e := range entries {
		g.nodes = append(g.nodes, e.Name)
		g.positions[e.Name] = e.Position
		if e.Default == nil {
			continue
		}
		if ref := e.Default.RefName(); ref != "" && known[ref] {
			g.edges[e.Name] = append(g.edges[e.Name], ref)
		}
	}
	return g
}

// Dependencies returns the names a variable's default depends on
func (g *DependencyGraph) Dependencies(name string) []string {
	return g.edges[name]
}

// visit states for depth-first traversal
const (
	unvisited = iota
	visiting
	visited
)

// TopologicalOrder returns every node with dependencies before dependents.
// A cycle, including a self-loop, fails with *CyclicDefaultError listing the
// names on the cycle in traversal order.
func (g *DependencyGraph) TopologicalOrder() ([]string, error) {
	state := make(map[string]int, len(g.nodes))
	order := make([]string, 0, len(g.nodes))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			cycle := []string{name}
			for i, n := range stack {
				if n == name {
					cycle = append([]string{}, stack[i:]...)
					break
				}
			}
			return &CyclicDefaultError{Cycle: cycle, Position: g.positions[cycle[0]]}
		}

		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range g.edges[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = visited
		order = append(order, name)
		return nil
	}

	for _, name := range g.nodes {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// FindCycle returns the first cycle found, or nil if the graph is acyclic
func (g *DependencyGraph) FindCycle() []string {
	if _, err := g.TopologicalOrder(); err != nil {
		if ce, ok := err.(*CyclicDefaultError); ok {
			return ce.Cycle
		}
	}
	return nil
}
