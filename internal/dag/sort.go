package dag

// breakCycles removes the relations that close a cycle and returns them in
// the order they were dropped. A depth first walk starts from every unvisited
// node in first-seen order; a relation whose target is on the current path
// is removed.
func (g *Graph) breakCycles() []Relation {
	var removed []Relation
	visited := make([]bool, len(g.order))
	onPath := make([]bool, len(g.order))

	var visit func(n *node)
	visit = func(n *node) {
		visited[n.index] = true
		onPath[n.index] = true
		for i := len(n.succ) - 1; i >= 0; i-- {
			s := n.succ[i]
			switch {
			case onPath[s.index]:
				n.succ = append(n.succ[:i], n.succ[i+1:]...)
				s.incoming--
				removed = append(removed, Relation{From: n.id, To: s.id})
			case !visited[s.index]:
				visit(s)
			}
		}
		onPath[n.index] = false
	}

	for _, n := range g.order {
		if !visited[n.index] {
			visit(n)
		}
	}
	return removed
}

// Sort breaks all cycles and returns every node id in topological order
// together with the relations it had to drop. Each pass walks the remaining
// nodes in first-seen order and emits those with no pending predecessors, so
// a node freed earlier in the same pass is emitted in that pass. Sort
// consumes the relations; build a new Graph to sort again.
func (g *Graph) Sort() ([]uint64, []Relation) {
	removed := g.breakCycles()

	ids := make([]uint64, 0, len(g.order))
	emit := func(n *node) {
		ids = append(ids, n.id)
		for _, s := range n.succ {
			s.incoming--
		}
	}

	pending := make([]*node, len(g.order))
	copy(pending, g.order)
	for len(pending) > 0 {
		rest := pending[:0:0]
		for _, n := range pending {
			if n.incoming == 0 {
				emit(n)
			} else {
				rest = append(rest, n)
			}
		}
		if len(rest) == len(pending) {
			// Unreachable once cycles are broken; keep insertion order
			// rather than spin.
			for _, n := range rest {
				ids = append(ids, n.id)
			}
			break
		}
		pending = rest
	}
	return ids, removed
}
