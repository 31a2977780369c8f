// Package qdqutil has helpers shared by the quantization fusion rules: the
// QuantizeLinear / DequantizeLinear input slot layout and the
// pair-compatibility oracle.
package qdqutil

import (
	"github.com/nnquant/qdqfuse/graph"
	"github.com/nnquant/qdqfuse/optypes"
)

// Input slot indices shared by QuantizeLinear and DequantizeLinear nodes.
const (
	InputData      = 0
	InputScale     = 1
	InputZeroPoint = 2

	// NumInputs is the number of inputs a Q or DQ node carries when its
	// zero point is explicit.
	NumInputs = 3
)

// IsQNode reports whether the node is a QuantizeLinear.
func IsQNode(node *graph.Node) bool {
	return node.OpType() == optypes.QuantizeLinear
}

// IsDQNode reports whether the node is a DequantizeLinear.
func IsDQNode(node *graph.Node) bool {
	return node.OpType() == optypes.DequantizeLinear
}

// IsQDQPairSupported reports whether a QuantizeLinear feeding a
// DequantizeLinear cancels out: both nodes carry an explicit scale and zero
// point, all four are scalar constant initializers, the zero points have
// the same element type and value, and the scales have the same element
// type and value.
//
// Missing inputs, non-constant or non-scalar parameters, and any failed
// lookup make the pair unsupported.
func IsQDQPairSupported(view *graph.View, qNode, dqNode *graph.Node) bool {
	if qNode.NumInputs() != NumInputs || dqNode.NumInputs() != NumInputs {
		return false
	}
	qScale, ok := scalarInitializer(view, qNode.Inputs()[InputScale])
	if !ok {
		return false
	}
	dqScale, ok := scalarInitializer(view, dqNode.Inputs()[InputScale])
	if !ok {
		return false
	}
	qZeroPoint, ok := scalarInitializer(view, qNode.Inputs()[InputZeroPoint])
	if !ok {
		return false
	}
	dqZeroPoint, ok := scalarInitializer(view, dqNode.Inputs()[InputZeroPoint])
	if !ok {
		return false
	}

	if qZeroPoint.DType() != dqZeroPoint.DType() {
		return false
	}
	qZPValue, ok := qZeroPoint.ScalarInt()
	if !ok {
		return false
	}
	dqZPValue, ok := dqZeroPoint.ScalarInt()
	if !ok {
		return false
	}
	if qZPValue != dqZPValue {
		return false
	}

	if qScale.DType() != dqScale.DType() {
		return false
	}
	qScaleValue, ok := qScale.ScalarFloat()
	if !ok {
		return false
	}
	dqScaleValue, ok := dqScale.ScalarFloat()
	if !ok {
		return false
	}
	return qScaleValue == dqScaleValue
}

// scalarInitializer resolves a value name to a scalar constant initializer.
func scalarInitializer(view *graph.View, name string) (*graph.Tensor, bool) {
	if name == "" {
		return nil, false
	}
	tensor, found := view.Initializer(name)
	if !found || !tensor.IsScalar() {
		return nil, false
	}
	return tensor, true
}
