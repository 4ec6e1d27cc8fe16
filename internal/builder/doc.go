/*
Package builder is the bridge between the format-agnostic configuration
model (defined in the 'config' package) and the runtime graph (the 'graph'
package).

Build works in passes, each using only public graph operations:

 1. Create every node. Missing ids are assigned by the graph and missing
    names default to node_<id>.
 2. Load the nested graph of every SUBGRAPH node. The reference is expanded
    with environment variables and resolved against the load path; the
    nested file is read with the format matching its extension and built
    recursively with its own directory as load path.
 3. Bind EXTERN nodes to their registered types.
 4. Apply port configuration.
 5. Create the edges, resolving node and port names where given.

Extract goes the other way and produces a model from a graph, which the
format writers serialize.
*/
package builder
