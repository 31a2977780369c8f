package qdqfuse

import (
	"slices"

	"github.com/nnquant/qdqfuse/graph"
	"github.com/pkg/errors"
)

// Slot is one input position of a Selection: either the node filling it, or
// explicitly empty for a declared-but-absent optional input. The zero Slot
// is empty.
type Slot struct {
	id      graph.NodeID
	present bool
}

// EmptySlot returns the slot marking an absent optional input.
func EmptySlot() Slot { return Slot{} }

// SlotOf returns a filled slot holding the given node.
func SlotOf(id graph.NodeID) Slot { return Slot{id: id, present: true} }

// Present reports whether the slot is filled.
func (s Slot) Present() bool { return s.present }

// NodeID returns the node filling the slot, or InvalidNodeID for an empty
// slot.
func (s Slot) NodeID() graph.NodeID {
	if !s.present {
		return graph.InvalidNodeID
	}
	return s.id
}

// Selection is the immutable record of one matched fusion region: the
// dequantize nodes feeding the target (with explicit absences for optional
// inputs), the target node itself, and the quantize nodes consuming its
// outputs. The rewrite phase consumes Selections to replace each region
// with a single fused operator.
//
// Selections reference nodes by ID, so they stay valid to inspect after the
// graph is mutated, even though the referenced nodes may no longer resolve.
type Selection struct {
	inputs    []Slot
	target    graph.NodeID
	outputs   []graph.NodeID
	numInputs int
}

// Inputs returns the input slots in operator slot order. The returned slice
// is a copy.
func (s *Selection) Inputs() []Slot { return slices.Clone(s.inputs) }

// Target returns the matched target node.
func (s *Selection) Target() graph.NodeID { return s.target }

// Outputs returns the quantize nodes in output slot order. The returned
// slice is a copy.
func (s *Selection) Outputs() []graph.NodeID { return slices.Clone(s.outputs) }

// NumInputs returns the declared input count for the fused operator the
// rewrite phase builds. It usually equals len(Inputs()); variadic fusions
// declare 1, meaning all matched inputs collapse into one logical group.
func (s *Selection) NumInputs() int { return s.numInputs }

// Nodes returns the IDs of every node the selection claims: present input
// nodes, the target, and the output nodes, in that order.
func (s *Selection) Nodes() []graph.NodeID {
	nodes := make([]graph.NodeID, 0, len(s.inputs)+1+len(s.outputs))
	for _, slot := range s.inputs {
		if slot.present {
			nodes = append(nodes, slot.id)
		}
	}
	nodes = append(nodes, s.target)
	nodes = append(nodes, s.outputs...)
	return nodes
}

// SelectionBuilder accumulates a selection under construction: Select
// populates it in discovery order, the selector's UpdateBuilder hook
// applies variant adjustments, and Build produces the immutable Selection.
type SelectionBuilder struct {
	// InputNodes holds one slot per expected dequantize input, in input
	// slot order.
	InputNodes []Slot

	// TargetNode is the candidate being fused.
	TargetNode graph.NodeID

	// OutputNodes holds the quantize node consuming each target output, in
	// output slot order.
	OutputNodes []graph.NodeID

	// NumInputDefs overrides the declared input count of the fused
	// operator. Left at -1, it defaults to len(InputNodes) at Build time.
	NumInputDefs int
}

// NewSelectionBuilder returns an empty builder with no target and the
// declared input count defaulted.
func NewSelectionBuilder() *SelectionBuilder {
	return &SelectionBuilder{
		TargetNode:   graph.InvalidNodeID,
		NumInputDefs: -1,
	}
}

// Build produces the immutable Selection. The builder can be discarded or
// reused afterwards: the Selection shares no state with it.
func (b *SelectionBuilder) Build() (*Selection, error) {
	if b.TargetNode == graph.InvalidNodeID {
		return nil, errors.New("selection has no target node")
	}
	numInputs := b.NumInputDefs
	if numInputs == -1 {
		numInputs = len(b.InputNodes)
	}
	if numInputs < 0 {
		return nil, errors.Errorf("invalid declared input count %d", b.NumInputDefs)
	}
	return &Selection{
		inputs:    slices.Clone(b.InputNodes),
		target:    b.TargetNode,
		outputs:   slices.Clone(b.OutputNodes),
		numInputs: numInputs,
	}, nil
}
