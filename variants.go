package qdqfuse

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/nnquant/qdqfuse/graph"
	"github.com/nnquant/qdqfuse/qdqutil"
)

// DropDQDSelector matches ops that only rearrange quantized data, such as
// Gather, Reshape, Transpose and MaxPool: when the surrounding Q/DQ pair
// cancels out, the op can run on the quantized data directly and the pair
// is dropped.
type DropDQDSelector struct{}

func (DropDQDSelector) Check(view *graph.View, node *graph.Node, dqNodes, qNodes []*graph.Node) bool {
	if !checkQDQNodes(view, node, dqNodes, qNodes, 1) {
		return false
	}
	return qdqutil.IsQDQPairSupported(view, qNodes[0], dqNodes[0])
}

// UnarySelector matches single-data-input ops such as AveragePool. The
// quantized input and output element types must each be unsigned 8-bit, or
// signed 8-bit when Int8Allowed is set; the two sides are gated
// independently by the same flag.
type UnarySelector struct {
	// Int8Allowed additionally admits signed 8-bit quantization.
	Int8Allowed bool
}

func (s UnarySelector) Check(view *graph.View, node *graph.Node, dqNodes, qNodes []*graph.Node) bool {
	if !checkQDQNodes(view, node, dqNodes, qNodes, 1) {
		return false
	}
	inputType, ok := dqInputType(view, dqNodes[0])
	if !ok {
		return false
	}
	outputType, ok := qOutputType(view, qNodes[0])
	if !ok {
		return false
	}
	return s.allowed(inputType) && s.allowed(outputType)
}

// allowed reports whether dtype is an admissible 8-bit quantized type.
func (s UnarySelector) allowed(dtype dtypes.DType) bool {
	return dtype == dtypes.U8 || (s.Int8Allowed && dtype == dtypes.S8)
}

// BinarySelector matches two-input elementwise ops such as Add and Mul:
// both quantized input element types and the quantized output element type
// must be identical.
type BinarySelector struct{}

func (BinarySelector) Check(view *graph.View, node *graph.Node, dqNodes, qNodes []*graph.Node) bool {
	if !checkQDQNodes(view, node, dqNodes, qNodes, useNumPresentInputs) {
		return false
	}
	if len(dqNodes) != 2 || len(qNodes) == 0 {
		return false
	}
	inputType1, ok := dqInputType(view, dqNodes[0])
	if !ok {
		return false
	}
	inputType2, ok := dqInputType(view, dqNodes[1])
	if !ok {
		return false
	}
	outputType, ok := qOutputType(view, qNodes[0])
	if !ok {
		return false
	}
	return inputType1 == inputType2 && inputType1 == outputType
}

// VariadicSelector matches ops taking any number of data inputs, such as
// Concat: every quantized input element type and the quantized output
// element type must be identical. The built selection declares a single
// logical input into which the rewrite phase collapses the whole group.
type VariadicSelector struct{}

func (VariadicSelector) Check(view *graph.View, node *graph.Node, dqNodes, qNodes []*graph.Node) bool {
	if !checkQDQNodes(view, node, dqNodes, qNodes, useNumPresentInputs) {
		return false
	}
	if len(dqNodes) == 0 || len(qNodes) == 0 {
		return false
	}
	inputType, ok := dqInputType(view, dqNodes[0])
	if !ok {
		return false
	}
	for _, dqNode := range dqNodes[1:] {
		otherType, ok := dqInputType(view, dqNode)
		if !ok || otherType != inputType {
			return false
		}
	}
	outputType, ok := qOutputType(view, qNodes[0])
	if !ok {
		return false
	}
	return inputType == outputType
}

func (VariadicSelector) UpdateBuilder(builder *SelectionBuilder) {
	// All matched inputs form one logical variadic group.
	builder.NumInputDefs = 1
}

// ConvSelector matches convolutions over a quantized activation and weight
// with an optional bias. The fused kernel only supports unsigned 8-bit
// activations and outputs, and a 32-bit signed integer bias. The built
// selection always carries three input slots, the third explicitly absent
// when the convolution has no bias.
type ConvSelector struct{}

func (ConvSelector) Check(view *graph.View, node *graph.Node, dqNodes, qNodes []*graph.Node) bool {
	if !checkQDQNodes(view, node, dqNodes, qNodes, useNumPresentInputs) {
		return false
	}
	if len(dqNodes) < 2 || len(qNodes) == 0 {
		return false
	}
	activationType, ok := dqInputType(view, dqNodes[0])
	if !ok {
		return false
	}
	outputType, ok := qOutputType(view, qNodes[0])
	if !ok {
		return false
	}
	if activationType != dtypes.U8 || outputType != dtypes.U8 {
		return false
	}
	if len(dqNodes) < 3 {
		// No bias.
		return true
	}
	biasType, ok := dqInputType(view, dqNodes[2])
	if !ok {
		return false
	}
	return biasType == dtypes.S32
}

func (ConvSelector) UpdateBuilder(builder *SelectionBuilder) {
	// The fused convolution always declares three inputs: activation,
	// weight, bias.
	for len(builder.InputNodes) < 3 {
		builder.InputNodes = append(builder.InputNodes, EmptySlot())
	}
	builder.InputNodes = builder.InputNodes[:3]
}

// MatMulSelector matches matrix multiplications over exactly two quantized
// inputs, in two shapes: with QuantizeLinear children, the full cluster
// fuses into a quantized matmul and the usual topology rules apply; with no
// QuantizeLinear children at all, the fusion produces a float output
// directly and the output side is left unconstrained. In both shapes the
// first quantized input must be unsigned 8-bit.
type MatMulSelector struct{}

func (MatMulSelector) Check(view *graph.View, node *graph.Node, dqNodes, qNodes []*graph.Node) bool {
	if len(dqNodes) != 2 {
		return false
	}

	if len(qNodes) > 0 {
		if !checkQDQNodes(view, node, dqNodes, qNodes, useNumPresentInputs) {
			return false
		}
		outputType, ok := qOutputType(view, qNodes[0])
		if !ok {
			return false
		}
		if outputType != dtypes.U8 {
			return false
		}
	}

	inputType, ok := dqInputType(view, dqNodes[0])
	if !ok {
		return false
	}
	return inputType == dtypes.U8
}
