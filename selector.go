package qdqfuse

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/nnquant/qdqfuse/graph"
	"github.com/nnquant/qdqfuse/optypes"
	"github.com/nnquant/qdqfuse/qdqutil"
	"github.com/pkg/errors"
)

// Selector decides whether one candidate node, together with its
// DequantizeLinear parents and QuantizeLinear children, forms a fusable
// cluster.
//
// Check must not mutate anything: it runs during the pure-read matching
// phase, possibly concurrently over independent candidates. dqNodes holds
// the DequantizeLinear parents in input slot order and qNodes the
// QuantizeLinear children in output slot order, both compacted. Returning
// false is the normal non-match outcome, never an error.
type Selector interface {
	Check(view *graph.View, node *graph.Node, dqNodes, qNodes []*graph.Node) bool
}

// BuilderUpdater is implemented by selectors that adjust the selection
// before it is built, e.g. to reserve an optional input slot or to override
// the declared input count.
type BuilderUpdater interface {
	UpdateBuilder(builder *SelectionBuilder)
}

// numPresentInputs counts the node's inputs that are not declared-absent.
// Optional inputs declared in the operator schema but left unwired do not
// count.
func numPresentInputs(node *graph.Node) int {
	count := 0
	for _, input := range node.Inputs() {
		if input != "" {
			count++
		}
	}
	return count
}

// useNumPresentInputs makes checkQDQNodes derive the expected
// DequantizeLinear count from the candidate's present inputs.
const useNumPresentInputs = -1

// checkQDQNodes validates the cluster topology shared by the fusion rules:
//
//  1. the expected number of DequantizeLinear parents feeds the candidate
//     (expectedDQCount of useNumPresentInputs means one per present input);
//  2. every candidate output has a QuantizeLinear child;
//  3. each candidate output is consumed by exactly its QuantizeLinear child
//     and nothing else, and does not leave the graph as a graph output.
//
// Rule 3 is the exclusive consumer invariant: fusing a region whose
// intermediate values also feed unrelated consumers would break those
// consumers.
func checkQDQNodes(view *graph.View, node *graph.Node, dqNodes, qNodes []*graph.Node, expectedDQCount int) bool {
	if expectedDQCount == useNumPresentInputs {
		expectedDQCount = numPresentInputs(node)
	}
	if len(dqNodes) != expectedDQCount {
		return false
	}
	if len(qNodes) != node.NumOutputs() {
		return false
	}
	for _, output := range node.Outputs() {
		if view.ConsumerCount(output) != 1 {
			return false
		}
		if view.IsGraphOutput(output) {
			return false
		}
	}
	return true
}

// dqInputType returns the quantized element type a DequantizeLinear
// consumes. Missing type annotations report false.
func dqInputType(view *graph.View, dqNode *graph.Node) (dtypes.DType, bool) {
	if dqNode.NumInputs() <= qdqutil.InputData {
		return dtypes.INVALID, false
	}
	return view.ValueType(dqNode.Inputs()[qdqutil.InputData])
}

// qOutputType returns the quantized element type a QuantizeLinear produces.
// Missing type annotations report false.
func qOutputType(view *graph.View, qNode *graph.Node) (dtypes.DType, bool) {
	if qNode.NumOutputs() == 0 {
		return dtypes.INVALID, false
	}
	return view.ValueType(qNode.Outputs()[0])
}

// Select runs one selector against one candidate node: it discovers the
// DequantizeLinear parents and QuantizeLinear children, delegates to the
// selector's Check, and on a match builds the Selection, applying the
// selector's UpdateBuilder adjustment when it has one.
//
// A failed match returns ok == false with a nil error: not matching is the
// normal, frequent outcome. An error is returned only for structural
// inconsistencies -- a candidate or cluster node that fails to resolve
// while the selection is constructed -- which indicate the graph was
// mutated mid-pass and the whole pass should be abandoned.
func Select(view *graph.View, nodeID graph.NodeID, selector Selector) (selection *Selection, ok bool, err error) {
	node := view.NodeByID(nodeID)
	if node == nil {
		return nil, false, errors.Errorf("candidate node #%d does not resolve to a live node", nodeID)
	}

	dqNodes := view.ParentsByType(node, optypes.DequantizeLinear)
	qNodes := view.ChildrenByType(node, optypes.QuantizeLinear)

	if !selector.Check(view, node, dqNodes, qNodes) {
		return nil, false, nil
	}

	builder := NewSelectionBuilder()
	builder.TargetNode = node.ID()
	builder.InputNodes = make([]Slot, 0, len(dqNodes))
	for _, dqNode := range dqNodes {
		if view.NodeByID(dqNode.ID()) != dqNode {
			return nil, false, errors.Errorf("input node #%d stopped resolving during selection construction", dqNode.ID())
		}
		builder.InputNodes = append(builder.InputNodes, SlotOf(dqNode.ID()))
	}
	builder.OutputNodes = make([]graph.NodeID, 0, len(qNodes))
	for _, qNode := range qNodes {
		if view.NodeByID(qNode.ID()) != qNode {
			return nil, false, errors.Errorf("output node #%d stopped resolving during selection construction", qNode.ID())
		}
		builder.OutputNodes = append(builder.OutputNodes, qNode.ID())
	}

	if updater, hasUpdate := selector.(BuilderUpdater); hasUpdate {
		updater.UpdateBuilder(builder)
	}
	selection, err = builder.Build()
	if err != nil {
		return nil, false, errors.WithMessagef(err, "building selection for node #%d", nodeID)
	}
	return selection, true, nil
}
