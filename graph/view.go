package graph

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/nnquant/qdqfuse/optypes"
)

// View is the read-only query surface over a Graph used by the matching
// phase. It exposes no mutation: code holding only a View cannot change the
// graph.
//
// Views are facades over live graph state, not snapshots. A node resolved
// earlier can stop resolving if the graph is mutated in between, which the
// matching phase reports as a structural inconsistency.
type View struct {
	g *Graph
}

// NodeByID returns the node with the given ID, or nil if the ID is out of
// range or the node was removed.
func (v *View) NodeByID(id NodeID) *Node { return v.g.Node(id) }

// Nodes returns the live nodes in insertion order.
func (v *View) Nodes() []*Node { return v.g.Nodes() }

// NumNodes returns the number of live nodes.
func (v *View) NumNodes() int { return v.g.NumNodes() }

// TopoOrder returns the IDs of the live nodes in topological order.
func (v *View) TopoOrder() ([]NodeID, error) { return v.g.TopoOrder() }

// ParentsByType returns the producers of node's inputs whose operator kind
// is op, ordered by the input slot they feed. Absent inputs, inputs with no
// producing node, and producers of other kinds are skipped, so the result
// is compact. A producer feeding several slots appears once per slot.
func (v *View) ParentsByType(node *Node, op optypes.OpType) []*Node {
	var parents []*Node
	for _, input := range node.inputs {
		if input == "" {
			continue
		}
		producerID, found := v.g.producers[input]
		if !found {
			continue
		}
		producer := v.g.Node(producerID)
		if producer != nil && producer.opType == op {
			parents = append(parents, producer)
		}
	}
	return parents
}

// ChildrenByType returns, for each output of node in declaration order, the
// first consumer of that output whose operator kind is op. Outputs with no
// such consumer are skipped, so the result is compact.
func (v *View) ChildrenByType(node *Node, op optypes.OpType) []*Node {
	var children []*Node
	for _, output := range node.outputs {
		if output == "" {
			continue
		}
		for _, e := range v.g.consumers[output] {
			consumer := v.g.Node(e.node)
			if consumer != nil && consumer.opType == op {
				children = append(children, consumer)
				break
			}
		}
	}
	return children
}

// ValueType returns the element type of a value, if the value has a type
// annotation.
func (v *View) ValueType(name string) (dtypes.DType, bool) {
	info, found := v.g.values[name]
	return info.DType, found
}

// ValueInfo returns the full type annotation of a value, if it has one.
func (v *View) ValueInfo(name string) (ValueInfo, bool) {
	info, found := v.g.values[name]
	return info, found
}

// Producer returns the node producing a value, or nil if the value is a
// graph input, an initializer, or dangling.
func (v *View) Producer(name string) *Node {
	id, found := v.g.producers[name]
	if !found {
		return nil
	}
	return v.g.Node(id)
}

// ConsumerCount returns the number of node input slots consuming a value.
// A graph output declaration is not included in the count.
func (v *View) ConsumerCount(name string) int {
	return len(v.g.consumers[name])
}

// IsGraphOutput reports whether the value is declared as a graph output.
func (v *View) IsGraphOutput(name string) bool {
	return v.g.outputSet.Has(name)
}

// Initializer returns the constant tensor registered under the given value
// name, if any.
func (v *View) Initializer(name string) (*Tensor, bool) {
	tensor, found := v.g.initializers[name]
	return tensor, found
}
