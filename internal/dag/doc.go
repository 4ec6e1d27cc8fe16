// Package dag orders the nodes of a computation graph for evaluation.
//
// Relations are added as (from, to) pairs of node ids. Sort first breaks
// every cycle by dropping relations found during a depth-first walk, then
// emits a topological order in repeated passes over the nodes in the order
// they were first seen. A dropped relation is not lost for evaluation: the
// sink simply reads the value its source produced on the previous pass,
// which gives feedback loops a one step delay.
//
// The result is deterministic. It depends only on the order in which
// relations were added.
package dag
