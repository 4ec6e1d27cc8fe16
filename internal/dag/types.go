package dag

// Graph is a set of nodes and ordered relations between them. It is built
// and sorted by a single goroutine.
type Graph struct {
	// nodes stores all nodes in the graph, keyed by id.
	nodes map[uint64]*node
	// order lists nodes in the order they were first seen.
	order []*node
}

// Relation is a directed dependency: To must run after From.
type Relation struct {
	From uint64
	To   uint64
}

// node is a single vertex. It is unexported to keep callers on the id based
// API.
type node struct {
	id    uint64
	index int
	// succ holds successors in insertion order. Walks visit it from the end
	// so the most recently added relation is seen first.
	succ []*node
	// incoming counts live relations pointing at this node.
	incoming int
}
