// Package hcl provides the HCL implementation of the graph file format
// defined in the `config` package. A file holds one `graph` block whose
// `node` and `edge` blocks map one to one onto the model:
//
//	graph "square" {
//	  node "x" {
//	    id   = 1
//	    type = "INPUT"
//	  }
//	  node "p" {
//	    id   = 2
//	    type = "PIPE"
//	    input "in1" {
//	      merge = "PRODUCT"
//	      bias  = 1
//	    }
//	  }
//	  edge {
//	    from = "x"
//	    to   = "p"
//	  }
//	}
//
// Expressions are evaluated with the variable `inf` bound to positive
// infinity, so `default = -inf` is valid. NaN cannot be expressed.
package hcl
