// Package yamlio reads and writes graphs in the legacy Bagel YAML layout:
//
//	nodes:
//	  - id: 1
//	    type: INPUT
//	    name: x
//	  - id: 2
//	    type: PIPE
//	    inputs:
//	      - idx: 0
//	        type: PRODUCT
//	        bias: 1
//	edges:
//	  - fromNode: x
//	    fromNodeOutputIdx: 0
//	    toNodeId: 2
//	    toNodeInputIdx: 0
//	    weight: 1
//
// Infinite and NaN values are written as the plain words inf, -inf and nan.
// Unknown keys, "descriptions" and the deprecated "networkInputs" and
// "outputCount" sections are ignored. Edge ids are not stored; edges are
// numbered from 1 in file order when loaded.
package yamlio
