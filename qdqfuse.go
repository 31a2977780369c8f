// Package qdqfuse locates clusters of quantize ("Q") and dequantize ("DQ")
// nodes around candidate operators in an inference graph and checks whether
// each cluster can be fused into a single quantized kernel, emitting ordered
// selection records for a downstream rewrite phase.
//
// Among its features:
//
// - Matching is pure-read: selectors observe the graph through a read-only
// View and report matches as node IDs; all mutation stays with the caller.
// - Selections record DQ inputs as ordered slots with explicit absence, so
// a rewrite can line node inputs up against operator signatures.
// - A registry maps operator kinds, optionally gated by operator set
// version, to selector variants; DefaultRegistry carries the standard table.
//
// See the graph subpackage for the graph model and the qdqutil subpackage
// for the Q/DQ pair rules.
package qdqfuse

import (
	"context"

	"github.com/nnquant/qdqfuse/graph"
)

// Match runs one matching pass over the graph with the default selector
// table. It is shorthand for NewMatcher(DefaultRegistry(int8Allowed)).Run
// on the graph's view.
func Match(ctx context.Context, g *graph.Graph, int8Allowed bool) ([]*Selection, error) {
	return NewMatcher(DefaultRegistry(int8Allowed)).Run(ctx, g.View())
}
