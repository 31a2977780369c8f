package graph

import (
	"github.com/gomlx/gopjrt/dtypes"
)

// ValueInfo describes a value (a tensor edge between nodes, or a graph input
// or output): its element type and, when known, its dimensions.
//
// A value the graph has no ValueInfo for models a missing type annotation:
// type lookups on it fail, and matching rules treat the failure as a
// non-match rather than an error.
type ValueInfo struct {
	DType dtypes.DType

	// Dims are the value's dimensions, if known. A nil Dims means the shape
	// is unknown. Only element types take part in matching, dimensions are
	// carried for debugging.
	Dims []int
}
