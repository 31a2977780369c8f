package qdqfuse

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/nnquant/qdqfuse/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot(t *testing.T) {
	empty := EmptySlot()
	assert.False(t, empty.Present())
	assert.Equal(t, graph.InvalidNodeID, empty.NodeID())

	filled := SlotOf(7)
	assert.True(t, filled.Present())
	assert.Equal(t, graph.NodeID(7), filled.NodeID())

	var zero Slot
	assert.False(t, zero.Present())
}

func TestSelectionBuilder(t *testing.T) {
	newBuilder := func() *SelectionBuilder {
		builder := NewSelectionBuilder()
		builder.TargetNode = 3
		builder.InputNodes = []Slot{SlotOf(1), EmptySlot(), SlotOf(2)}
		builder.OutputNodes = []graph.NodeID{4}
		return builder
	}

	t.Run("no target", func(t *testing.T) {
		_, err := NewSelectionBuilder().Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no target")
	})

	t.Run("defaults", func(t *testing.T) {
		selection := must.M1(newBuilder().Build())
		assert.Equal(t, graph.NodeID(3), selection.Target())
		assert.Equal(t, 3, selection.NumInputs())
		assert.Equal(t, []graph.NodeID{4}, selection.Outputs())
		// Nodes skips the empty slot: present inputs, target, outputs.
		assert.Equal(t, []graph.NodeID{1, 2, 3, 4}, selection.Nodes())
	})

	t.Run("input count override", func(t *testing.T) {
		builder := newBuilder()
		builder.NumInputDefs = 1
		selection := must.M1(builder.Build())
		assert.Equal(t, 1, selection.NumInputs())
		assert.Len(t, selection.Inputs(), 3)
	})

	t.Run("negative input count", func(t *testing.T) {
		builder := newBuilder()
		builder.NumInputDefs = -2
		_, err := builder.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "-2")
	})

	t.Run("builder reuse is safe", func(t *testing.T) {
		builder := newBuilder()
		selection := must.M1(builder.Build())
		builder.InputNodes[0] = EmptySlot()
		builder.OutputNodes = append(builder.OutputNodes, 9)
		assert.True(t, selection.Inputs()[0].Present())
		assert.Len(t, selection.Outputs(), 1)
	})

	t.Run("accessors return copies", func(t *testing.T) {
		selection := must.M1(newBuilder().Build())
		selection.Inputs()[0] = EmptySlot()
		assert.True(t, selection.Inputs()[0].Present())
		selection.Outputs()[0] = 99
		assert.Equal(t, graph.NodeID(4), selection.Outputs()[0])
	})
}
