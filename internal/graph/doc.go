// Package graph owns the dataflow graph: nodes partitioned into inputs,
// outputs and hidden nodes, the weighted edges between their ports, and the
// evaluation engine that walks them.
//
// Nodes and edges live in maps keyed by their ids. Ports hold the ids of the
// edges attached to them and edges hold the ids of their end nodes, so
// removing one side never leaves a dangling pointer behind. A node id of 0
// marks the missing end of a dangling edge; such edges are how callers inject
// values into a graph and tap values out of it.
//
// # Evaluation
//
// Adding or removing a node or an edge between two nodes marks the graph
// dirty. Dangling edges never do. The next Evaluate rebuilds
// the evaluation order through the dag package, then visits the input nodes
// followed by that order. For each node it merges every input port, runs the
// node type's Eval and copies each output value onto the outgoing edges.
// Relations dropped while breaking cycles still carry values, so the
// downstream node sees the value from the previous pass.
//
// EvaluateInterval runs the same walk with interval values and the interval
// forms of the merges and node types. The search package builds on it.
//
// A Graph is not safe for concurrent use.
package graph
