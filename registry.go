package qdqfuse

import (
	"slices"

	"github.com/janpfeifer/must"
	"github.com/nnquant/qdqfuse/optypes"
	"github.com/pkg/errors"
)

// registration pairs a selector with the operator set versions it supports.
type registration struct {
	selector Selector
	versions []int
}

// Registry maps operator kinds to the fusion selector handling them,
// optionally gated on the operator set version a node resolved against.
//
// Quantize and dequantize nodes never appear as keys: they take part in
// every fusion but are never themselves fusion targets.
type Registry struct {
	entries map[optypes.OpType]registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[optypes.OpType]registration)}
}

// Register binds each op in ops to the selector. The versions list per op
// names the operator set versions the fusion supports; nil or empty admits
// all versions. The quantize and dequantize ops delimit fusions and cannot
// be registered as targets. Registering an op that already has a selector
// is an error, and leaves the registry unchanged.
func (r *Registry) Register(selector Selector, ops map[optypes.OpType][]int) error {
	if selector == nil {
		return errors.New("selector must not be nil")
	}
	for op := range ops {
		if op == optypes.Invalid {
			return errors.New("cannot register the invalid op type")
		}
		if op == optypes.QuantizeLinear || op == optypes.DequantizeLinear {
			return errors.Errorf("op %s delimits fusions and cannot be a target", op)
		}
		if _, found := r.entries[op]; found {
			return errors.Errorf("op %s already has a selector registered", op)
		}
	}
	for op, versions := range ops {
		r.entries[op] = registration{selector: selector, versions: slices.Clone(versions)}
	}
	return nil
}

// Lookup returns the selector registered for op at the given operator set
// version. Version gating is exact: a registration listing versions only
// serves nodes whose op resolved against one of them.
func (r *Registry) Lookup(op optypes.OpType, sinceVersion int) (Selector, bool) {
	entry, found := r.entries[op]
	if !found {
		return nil, false
	}
	if len(entry.versions) > 0 && !slices.Contains(entry.versions, sinceVersion) {
		return nil, false
	}
	return entry.selector, true
}

// NumOps returns the number of operator kinds with a registered selector.
func (r *Registry) NumOps() int { return len(r.entries) }

// DefaultRegistry returns the standard fusion table:
//
//   - Gather, Reshape, Transpose, and MaxPool from operator set 12: the
//     surrounding cancelling Q/DQ pair is dropped;
//   - AveragePool: unary;
//   - Add, Mul: binary;
//   - Concat: variadic;
//   - Conv: convolution with optional bias;
//   - MatMul: matmul with optional output quantization.
//
// int8Allowed admits signed 8-bit quantization where the fused kernels
// support it.
func DefaultRegistry(int8Allowed bool) *Registry {
	registry := NewRegistry()
	must.M(registry.Register(DropDQDSelector{}, map[optypes.OpType][]int{
		optypes.Gather:    nil,
		optypes.Reshape:   nil,
		optypes.Transpose: nil,
		optypes.MaxPool:   {12},
	}))
	must.M(registry.Register(UnarySelector{Int8Allowed: int8Allowed}, map[optypes.OpType][]int{
		optypes.AveragePool: nil,
	}))
	must.M(registry.Register(BinarySelector{}, map[optypes.OpType][]int{
		optypes.Add: nil,
		optypes.Mul: nil,
	}))
	must.M(registry.Register(VariadicSelector{}, map[optypes.OpType][]int{
		optypes.Concat: nil,
	}))
	must.M(registry.Register(ConvSelector{}, map[optypes.OpType][]int{
		optypes.Conv: nil,
	}))
	must.M(registry.Register(MatMulSelector{}, map[optypes.OpType][]int{
		optypes.MatMul: nil,
	}))
	return registry
}
