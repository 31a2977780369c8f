// Package optypes defines OpType, the enum of operator kinds the optimizer
// recognizes.
//
// The enum names use the ONNX operator spelling, so OpType.String returns the
// operator name as it appears in a model, and OpTypeString parses it back.
package optypes

// OpType is an enum of the operator kinds known to the optimizer -- only a
// subset takes part in quantization fusion, the rest can still appear in
// graphs being optimized.
type OpType int

//go:generate go tool enumer -type=OpType -output=gen_optype_enumer.go optypes.go

const (
	Invalid OpType = iota

	QuantizeLinear
	DequantizeLinear

	Abs
	Add
	ArgMax
	AveragePool
	BatchNormalization
	Cast
	Clip
	Concat
	Conv
	ConvTranspose
	Div
	Expand
	Flatten
	Gather
	Gemm
	GlobalAveragePool
	Identity
	InstanceNormalization
	LeakyRelu
	MatMul
	Max
	MaxPool
	Min
	Mul
	Pad
	Relu
	Reshape
	Resize
	Sigmoid
	Slice
	Softmax
	Split
	Squeeze
	Sub
	Tile
	TopK
	Transpose
	Unsqueeze
	Where

	// Last must be kept last, it is used as a counter.
	Last
)
