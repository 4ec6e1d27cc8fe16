package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is the top level of a graph file.
type fileRoot struct {
	Graphs []*graphBlock `hcl:"graph,block"`
	Remain hcl.Body      `hcl:",remain"`
}

type graphBlock struct {
	Name  string       `hcl:"name,label"`
	Nodes []*nodeBlock `hcl:"node,block"`
	Edges []*edgeBlock `hcl:"edge,block"`
}

type nodeBlock struct {
	Name     string         `hcl:"name,label"`
	ID       *uint64        `hcl:"id,optional"`
	Type     string         `hcl:"type"`
	Subgraph string         `hcl:"subgraph,optional"`
	Extern   string         `hcl:"extern,optional"`
	Inputs   []*inputBlock  `hcl:"input,block"`
	Outputs  []*outputBlock `hcl:"output,block"`
}

// inputBlock configures one input port. Without an index the block
// position is used.
type inputBlock struct {
	Name    string   `hcl:"name,label"`
	Index   *int     `hcl:"index,optional"`
	Merge   string   `hcl:"merge,optional"`
	Default *float64 `hcl:"default,optional"`
	Bias    *float64 `hcl:"bias,optional"`
}

type outputBlock struct {
	Name  string `hcl:"name,label"`
	Index *int   `hcl:"index,optional"`
}

// edgeBlock connects two nodes. Each end is named by node label or by id;
// leaving both out makes a dangling end.
type edgeBlock struct {
	ID uint64 `hcl:"id,optional"`

	From         string   `hcl:"from,optional"`
	FromID       uint64   `hcl:"from_id,optional"`
	FromPort     *int     `hcl:"from_port,optional"`
	FromPortName string   `hcl:"from_port_name,optional"`
	To           string   `hcl:"to,optional"`
	ToID         uint64   `hcl:"to_id,optional"`
	ToPort       *int     `hcl:"to_port,optional"`
	ToPortName   string   `hcl:"to_port_name,optional"`
	Weight       *float64 `hcl:"weight,optional"`

	IgnoreForSort bool `hcl:"ignore_for_sort,optional"`
}
