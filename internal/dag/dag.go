package dag

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[uint64]*node),
	}
}

func (g *Graph) addNode(id uint64) *node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &node{id: id, index: len(g.order)}
	g.nodes[id] = n
	g.order = append(g.order, n)
	return n
}

// AddRelation records that toID must come after fromID, creating missing
// nodes on the fly. Self relations are ignored. Parallel relations are kept.
// It reports whether a relation was recorded.
func (g *Graph) AddRelation(fromID, toID uint64) bool {
	if fromID == toID {
		return false
	}
	from := g.addNode(fromID)
	to := g.addNode(toID)
	from.succ = append(from.succ, to)
	to.incoming++
	return true
}
