package qdqfuse

import (
	"fmt"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/janpfeifer/must"
	"github.com/nnquant/qdqfuse/graph"
	"github.com/nnquant/qdqfuse/optypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Aliases
var (
	U8  = dtypes.Uint8
	S8  = dtypes.Int8
	S32 = dtypes.Int32
	S64 = dtypes.Int64
	F32 = dtypes.Float32
)

// qdqGraph builds quantization clusters for the tests, generating fresh
// value and node names as it goes. The scale and zeroPoint fields
// parametrize the Q and DQ nodes added afterwards.
type qdqGraph struct {
	g *graph.Graph
	n int

	scale     float32
	zeroPoint any
}

func newQDQGraph(name string) *qdqGraph {
	return &qdqGraph{g: graph.New(name), scale: 0.5, zeroPoint: uint8(128)}
}

func (q *qdqGraph) view() *graph.View { return q.g.View() }

func (q *qdqGraph) fresh(prefix string) string {
	q.n++
	return fmt.Sprintf("%s_%d", prefix, q.n)
}

// input declares a fresh graph input of the given element type.
func (q *qdqGraph) input(dtype dtypes.DType) string {
	name := q.fresh("in")
	must.M(q.g.AddInput(name, dtype))
	return name
}

// quantParams adds scalar scale and zero point initializers holding the
// current parameter values.
func (q *qdqGraph) quantParams() (scale, zeroPoint string) {
	scale = q.fresh("scale")
	must.M(q.g.AddInitializer(scale, must.M1(graph.ScalarTensor(q.scale))))
	zeroPoint = q.fresh("zp")
	must.M(q.g.AddInitializer(zeroPoint, must.M1(graph.ScalarTensor(q.zeroPoint))))
	return
}

// dq adds a DequantizeLinear over data, returning the node and its float
// output value.
func (q *qdqGraph) dq(data string) (*graph.Node, string) {
	scale, zeroPoint := q.quantParams()
	out := q.fresh("dq_out")
	node := must.M1(q.g.AddNode(q.fresh("dq"), optypes.DequantizeLinear,
		[]string{data, scale, zeroPoint}, []string{out}))
	must.M(q.g.AddValueInfo(out, F32))
	return node, out
}

// quantize adds a QuantizeLinear over data, annotates its output with the
// quantized element type, and marks it as a graph output.
func (q *qdqGraph) quantize(data string, dtype dtypes.DType) (*graph.Node, string) {
	scale, zeroPoint := q.quantParams()
	out := q.fresh("q_out")
	node := must.M1(q.g.AddNode(q.fresh("q"), optypes.QuantizeLinear,
		[]string{data, scale, zeroPoint}, []string{out}))
	must.M(q.g.AddValueInfo(out, dtype))
	must.M(q.g.MarkOutput(out))
	return node, out
}

// cluster wires one DequantizeLinear per input type, the target op over
// their outputs, and a QuantizeLinear over the target's output.
func (q *qdqGraph) cluster(op optypes.OpType, inputTypes []dtypes.DType, outputType dtypes.DType) *graph.Node {
	inputs := make([]string, len(inputTypes))
	for i, dtype := range inputTypes {
		_, inputs[i] = q.dq(q.input(dtype))
	}
	out := q.fresh("out")
	target := must.M1(q.g.AddNode(q.fresh("target"), op, inputs, []string{out}))
	q.quantize(out, outputType)
	return target
}

// selectOn runs the selector against the target, requiring a clean
// outcome: matching or not, never a structural error.
func selectOn(t *testing.T, q *qdqGraph, target *graph.Node, selector Selector) (*Selection, bool) {
	t.Helper()
	selection, ok, err := Select(q.view(), target.ID(), selector)
	require.NoError(t, err)
	return selection, ok
}

func TestUnarySelector(t *testing.T) {
	for _, test := range []struct {
		name            string
		inType, outType dtypes.DType
		int8Allowed     bool
		want            bool
	}{
		{"u8 to u8", U8, U8, false, true},
		{"s8 to s8 without int8", S8, S8, false, false},
		{"s8 to s8 with int8", S8, S8, true, true},
		{"u8 to s8 without int8", U8, S8, false, false},
		{"u8 to s8 with int8", U8, S8, true, true},
		{"wide input", S32, U8, true, false},
	} {
		t.Run(test.name, func(t *testing.T) {
			q := newQDQGraph(test.name)
			target := q.cluster(optypes.AveragePool, []dtypes.DType{test.inType}, test.outType)
			selection, ok := selectOn(t, q, target, UnarySelector{Int8Allowed: test.int8Allowed})
			require.Equal(t, test.want, ok)
			if !test.want {
				assert.Nil(t, selection)
				return
			}
			assert.Equal(t, target.ID(), selection.Target())
			require.Len(t, selection.Inputs(), 1)
			assert.True(t, selection.Inputs()[0].Present())
			assert.Equal(t, 1, selection.NumInputs())
			assert.Len(t, selection.Outputs(), 1)
		})
	}
}

func TestSelectorTopology(t *testing.T) {
	t.Run("extra consumer", func(t *testing.T) {
		q := newQDQGraph("extra consumer")
		target := q.cluster(optypes.AveragePool, []dtypes.DType{U8}, U8)
		// A second consumer on the target's output breaks exclusivity.
		must.M1(q.g.AddNode("spy", optypes.Identity, []string{target.Outputs()[0]}, []string{"spy_out"}))
		_, ok := selectOn(t, q, target, UnarySelector{})
		assert.False(t, ok)
	})

	t.Run("target output leaves the graph", func(t *testing.T) {
		q := newQDQGraph("graph output")
		target := q.cluster(optypes.AveragePool, []dtypes.DType{U8}, U8)
		must.M(q.g.MarkOutput(target.Outputs()[0]))
		_, ok := selectOn(t, q, target, UnarySelector{})
		assert.False(t, ok)
	})

	t.Run("no quantized consumer", func(t *testing.T) {
		q := newQDQGraph("no q")
		_, dqOut := q.dq(q.input(U8))
		target := must.M1(q.g.AddNode("pool", optypes.AveragePool, []string{dqOut}, []string{"out"}))
		must.M(q.g.MarkOutput("out"))
		_, ok := selectOn(t, q, target, UnarySelector{})
		assert.False(t, ok)
	})

	t.Run("no dequantized input", func(t *testing.T) {
		q := newQDQGraph("no dq")
		target := must.M1(q.g.AddNode("pool", optypes.AveragePool, []string{q.input(F32)}, []string{"out"}))
		q.quantize("out", U8)
		_, ok := selectOn(t, q, target, UnarySelector{})
		assert.False(t, ok)
	})

	t.Run("partially quantized outputs", func(t *testing.T) {
		q := newQDQGraph("split")
		_, dqOut := q.dq(q.input(U8))
		target := must.M1(q.g.AddNode("split", optypes.Split, []string{dqOut}, []string{"s1", "s2"}))
		q.quantize("s1", U8)
		must.M(q.g.MarkOutput("s2"))
		_, ok := selectOn(t, q, target, UnarySelector{})
		assert.False(t, ok)
	})

	t.Run("missing input type annotation", func(t *testing.T) {
		q := newQDQGraph("untyped input")
		must.M1(q.g.AddNode("src", optypes.Identity, []string{q.input(F32)}, []string{"mystery"}))
		_, dqOut := q.dq("mystery")
		target := must.M1(q.g.AddNode("pool", optypes.AveragePool, []string{dqOut}, []string{"out"}))
		q.quantize("out", U8)
		// Degrades to a non-match, not an error.
		_, ok := selectOn(t, q, target, UnarySelector{})
		assert.False(t, ok)
	})

	t.Run("missing output type annotation", func(t *testing.T) {
		q := newQDQGraph("untyped output")
		_, dqOut := q.dq(q.input(U8))
		target := must.M1(q.g.AddNode("pool", optypes.AveragePool, []string{dqOut}, []string{"out"}))
		scale, zeroPoint := q.quantParams()
		must.M1(q.g.AddNode("q", optypes.QuantizeLinear, []string{"out", scale, zeroPoint}, []string{"q_out"}))
		must.M(q.g.MarkOutput("q_out"))
		_, ok := selectOn(t, q, target, UnarySelector{})
		assert.False(t, ok)
	})
}

func TestDropDQDSelector(t *testing.T) {
	t.Run("cancelling pair", func(t *testing.T) {
		q := newQDQGraph("drop")
		target := q.cluster(optypes.Transpose, []dtypes.DType{U8}, U8)
		selection, ok := selectOn(t, q, target, DropDQDSelector{})
		require.True(t, ok)
		assert.Equal(t, 1, selection.NumInputs())
	})

	t.Run("extra non quantized input", func(t *testing.T) {
		// Gather: data comes dequantized, indices feed in directly.
		q := newQDQGraph("gather")
		_, dqOut := q.dq(q.input(U8))
		indices := q.input(S64)
		target := must.M1(q.g.AddNode("gather", optypes.Gather, []string{dqOut, indices}, []string{"out"}))
		q.quantize("out", U8)
		_, ok := selectOn(t, q, target, DropDQDSelector{})
		assert.True(t, ok)
	})

	t.Run("scale mismatch", func(t *testing.T) {
		q := newQDQGraph("scale mismatch")
		_, dqOut := q.dq(q.input(U8))
		target := must.M1(q.g.AddNode("transpose", optypes.Transpose, []string{dqOut}, []string{"out"}))
		q.scale = 0.25
		q.quantize("out", U8)
		_, ok := selectOn(t, q, target, DropDQDSelector{})
		assert.False(t, ok)
	})

	t.Run("zero point mismatch", func(t *testing.T) {
		q := newQDQGraph("zp mismatch")
		_, dqOut := q.dq(q.input(U8))
		target := must.M1(q.g.AddNode("transpose", optypes.Transpose, []string{dqOut}, []string{"out"}))
		q.zeroPoint = uint8(0)
		q.quantize("out", U8)
		_, ok := selectOn(t, q, target, DropDQDSelector{})
		assert.False(t, ok)
	})

	t.Run("zero point type mismatch", func(t *testing.T) {
		q := newQDQGraph("zp type mismatch")
		q.zeroPoint = uint8(0)
		_, dqOut := q.dq(q.input(U8))
		target := must.M1(q.g.AddNode("transpose", optypes.Transpose, []string{dqOut}, []string{"out"}))
		q.zeroPoint = int8(0)
		q.quantize("out", U8)
		_, ok := selectOn(t, q, target, DropDQDSelector{})
		assert.False(t, ok)
	})
}

func TestBinarySelector(t *testing.T) {
	for _, test := range []struct {
		name         string
		type1, type2 dtypes.DType
		outType      dtypes.DType
		want         bool
	}{
		{"matching u8", U8, U8, U8, true},
		{"matching s8", S8, S8, S8, true},
		{"input mismatch", U8, S8, U8, false},
		{"output mismatch", U8, U8, S8, false},
	} {
		t.Run(test.name, func(t *testing.T) {
			q := newQDQGraph(test.name)
			target := q.cluster(optypes.Add, []dtypes.DType{test.type1, test.type2}, test.outType)
			selection, ok := selectOn(t, q, target, BinarySelector{})
			require.Equal(t, test.want, ok)
			if test.want {
				assert.Equal(t, 2, selection.NumInputs())
			}
		})
	}

	t.Run("one input not dequantized", func(t *testing.T) {
		q := newQDQGraph("half dequantized")
		_, dqOut := q.dq(q.input(U8))
		target := must.M1(q.g.AddNode("add", optypes.Add, []string{dqOut, q.input(F32)}, []string{"out"}))
		q.quantize("out", U8)
		_, ok := selectOn(t, q, target, BinarySelector{})
		assert.False(t, ok)
	})
}

func TestVariadicSelector(t *testing.T) {
	t.Run("three inputs collapse into one group", func(t *testing.T) {
		q := newQDQGraph("concat")
		target := q.cluster(optypes.Concat, []dtypes.DType{U8, U8, U8}, U8)
		selection, ok := selectOn(t, q, target, VariadicSelector{})
		require.True(t, ok)
		require.Len(t, selection.Inputs(), 3)
		assert.Equal(t, 1, selection.NumInputs())
	})

	t.Run("mixed input types", func(t *testing.T) {
		q := newQDQGraph("mixed concat")
		target := q.cluster(optypes.Concat, []dtypes.DType{U8, S8, U8}, U8)
		_, ok := selectOn(t, q, target, VariadicSelector{})
		assert.False(t, ok)
	})

	t.Run("output type differs", func(t *testing.T) {
		q := newQDQGraph("concat out")
		target := q.cluster(optypes.Concat, []dtypes.DType{U8, U8}, S8)
		_, ok := selectOn(t, q, target, VariadicSelector{})
		assert.False(t, ok)
	})
}

func TestConvSelector(t *testing.T) {
	t.Run("no bias reserves the third slot", func(t *testing.T) {
		q := newQDQGraph("conv")
		target := q.cluster(optypes.Conv, []dtypes.DType{U8, S8}, U8)
		selection, ok := selectOn(t, q, target, ConvSelector{})
		require.True(t, ok)
		inputs := selection.Inputs()
		require.Len(t, inputs, 3)
		assert.True(t, inputs[0].Present())
		assert.True(t, inputs[1].Present())
		assert.False(t, inputs[2].Present())
		assert.Equal(t, graph.InvalidNodeID, inputs[2].NodeID())
		assert.Equal(t, 3, selection.NumInputs())
	})

	t.Run("with bias", func(t *testing.T) {
		q := newQDQGraph("conv bias")
		target := q.cluster(optypes.Conv, []dtypes.DType{U8, S8, S32}, U8)
		selection, ok := selectOn(t, q, target, ConvSelector{})
		require.True(t, ok)
		inputs := selection.Inputs()
		require.Len(t, inputs, 3)
		for i, slot := range inputs {
			assert.True(t, slot.Present(), "slot %d", i)
		}
	})

	t.Run("bias must be int32", func(t *testing.T) {
		q := newQDQGraph("conv bad bias")
		target := q.cluster(optypes.Conv, []dtypes.DType{U8, S8, S8}, U8)
		_, ok := selectOn(t, q, target, ConvSelector{})
		assert.False(t, ok)
	})

	t.Run("activation must be u8", func(t *testing.T) {
		q := newQDQGraph("conv s8 activation")
		target := q.cluster(optypes.Conv, []dtypes.DType{S8, S8, S32}, U8)
		_, ok := selectOn(t, q, target, ConvSelector{})
		assert.False(t, ok)
	})

	t.Run("output must be u8", func(t *testing.T) {
		q := newQDQGraph("conv s8 output")
		target := q.cluster(optypes.Conv, []dtypes.DType{U8, S8, S32}, S8)
		_, ok := selectOn(t, q, target, ConvSelector{})
		assert.False(t, ok)
	})
}

func TestMatMulSelector(t *testing.T) {
	t.Run("quantized output", func(t *testing.T) {
		q := newQDQGraph("matmul")
		target := q.cluster(optypes.MatMul, []dtypes.DType{U8, U8}, U8)
		selection, ok := selectOn(t, q, target, MatMulSelector{})
		require.True(t, ok)
		assert.Len(t, selection.Outputs(), 1)
		assert.Equal(t, 2, selection.NumInputs())
	})

	t.Run("second input type is free", func(t *testing.T) {
		q := newQDQGraph("matmul s8 weight")
		target := q.cluster(optypes.MatMul, []dtypes.DType{U8, S8}, U8)
		_, ok := selectOn(t, q, target, MatMulSelector{})
		assert.True(t, ok)
	})

	t.Run("float output", func(t *testing.T) {
		q := newQDQGraph("matmul float")
		_, a := q.dq(q.input(U8))
		_, b := q.dq(q.input(U8))
		target := must.M1(q.g.AddNode("matmul", optypes.MatMul, []string{a, b}, []string{"out"}))
		must.M(q.g.MarkOutput("out"))
		selection, ok := selectOn(t, q, target, MatMulSelector{})
		require.True(t, ok)
		assert.Empty(t, selection.Outputs())
		assert.Equal(t, 2, selection.NumInputs())
	})

	t.Run("float output with several consumers", func(t *testing.T) {
		// With no quantized consumer at all, the output side is
		// unconstrained.
		q := newQDQGraph("matmul fanout")
		_, a := q.dq(q.input(U8))
		_, b := q.dq(q.input(U8))
		target := must.M1(q.g.AddNode("matmul", optypes.MatMul, []string{a, b}, []string{"out"}))
		must.M1(q.g.AddNode("use1", optypes.Identity, []string{"out"}, []string{"u1"}))
		must.M1(q.g.AddNode("use2", optypes.Identity, []string{"out"}, []string{"u2"}))
		_, ok := selectOn(t, q, target, MatMulSelector{})
		assert.True(t, ok)
	})

	t.Run("quantized output not u8", func(t *testing.T) {
		q := newQDQGraph("matmul s8 out")
		target := q.cluster(optypes.MatMul, []dtypes.DType{U8, U8}, S8)
		_, ok := selectOn(t, q, target, MatMulSelector{})
		assert.False(t, ok)
	})

	t.Run("first input not u8", func(t *testing.T) {
		q := newQDQGraph("matmul s8 in")
		target := q.cluster(optypes.MatMul, []dtypes.DType{S8, U8}, U8)
		_, ok := selectOn(t, q, target, MatMulSelector{})
		assert.False(t, ok)
	})

	t.Run("single dequantized input", func(t *testing.T) {
		q := newQDQGraph("matmul one dq")
		_, a := q.dq(q.input(U8))
		target := must.M1(q.g.AddNode("matmul", optypes.MatMul, []string{a, q.input(F32)}, []string{"out"}))
		must.M(q.g.MarkOutput("out"))
		_, ok := selectOn(t, q, target, MatMulSelector{})
		assert.False(t, ok)
	})
}

func TestSelectStructuralError(t *testing.T) {
	q := newQDQGraph("stale")
	target := q.cluster(optypes.AveragePool, []dtypes.DType{U8}, U8)
	view := q.view()
	must.M(q.g.RemoveNode(target.ID()))
	_, ok, err := Select(view, target.ID(), UnarySelector{})
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not resolve")
}
