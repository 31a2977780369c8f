package optypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpTypeStrings(t *testing.T) {
	assert.Equal(t, "QuantizeLinear", QuantizeLinear.String())
	assert.Equal(t, "DequantizeLinear", DequantizeLinear.String())
	assert.Equal(t, "AveragePool", AveragePool.String())
	assert.Equal(t, "MatMul", MatMul.String())

	op, err := OpTypeString("Conv")
	require.NoError(t, err)
	assert.Equal(t, Conv, op)
	_, err = OpTypeString("NotAnOp")
	assert.Error(t, err)

	assert.True(t, Conv.IsAOpType())
	assert.False(t, OpType(-1).IsAOpType())
}

func TestOpTypeValues(t *testing.T) {
	values := OpTypeValues()
	assert.Len(t, values, int(Last)+1)
	assert.Equal(t, Invalid, values[0])
	assert.Equal(t, Last, values[len(values)-1])
}
