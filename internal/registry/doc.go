// Package registry holds the node type descriptors the graph engine
// dispatches on.
//
// A Registry is populated with the built-in atomic, port, subgraph and
// extern placeholder types when it is created. External node types are added
// afterwards, either one by one through Register or in bundles through a
// Module, and are bound to EXTERN nodes by name.
//
// Registration must finish before graphs built on the registry are
// evaluated; after that the registry is only read.
package registry
