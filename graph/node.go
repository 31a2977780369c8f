package graph

import (
	"github.com/nnquant/qdqfuse/optypes"
)

// NodeID identifies a node within its Graph.
//
// IDs are dense, assigned in insertion order, and never reused: the ID of a
// removed node stays invalid for the lifetime of the graph.
type NodeID int

// InvalidNodeID is returned by queries that fail to resolve a node.
const InvalidNodeID NodeID = -1

// Node is one operator instance in a Graph.
//
// Nodes are read-only once added: all graph mutation goes through the owning
// Graph, and the matching phase only ever sees nodes through a View.
type Node struct {
	id     NodeID
	name   string
	opType optypes.OpType

	// since is the operator set version the node's op resolved against.
	since int

	// inputs and outputs are value names, in declaration order.
	// An empty name marks a declared-but-absent optional input or output.
	inputs  []string
	outputs []string
}

// ID returns the node's identifier within its graph.
func (n *Node) ID() NodeID { return n.id }

// Name returns the node's name. Names are for debugging only and have no
// effect on matching.
func (n *Node) Name() string { return n.name }

// OpType returns the node's operator kind.
func (n *Node) OpType() optypes.OpType { return n.opType }

// SinceVersion returns the operator set version the node's op resolved
// against.
func (n *Node) SinceVersion() int { return n.since }

// Inputs returns the node's input value names in declaration order. An empty
// name marks a declared-but-absent optional input.
//
// The returned slice is owned by the node and must not be modified.
func (n *Node) Inputs() []string { return n.inputs }

// Outputs returns the node's output value names in declaration order.
//
// The returned slice is owned by the node and must not be modified.
func (n *Node) Outputs() []string { return n.outputs }

// NumInputs returns the number of declared inputs, including absent ones.
func (n *Node) NumInputs() int { return len(n.inputs) }

// NumOutputs returns the number of declared outputs.
func (n *Node) NumOutputs() int { return len(n.outputs) }
