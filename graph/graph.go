// Package graph defines the operator graph the optimizer works on: nodes,
// named values, constant initializers, and the read-only View the matching
// phase queries.
//
// A Graph is built through its Add* methods and mutated through RemoveNode.
// Matching never mutates: selectors and the pass driver only see the graph
// through a View, and report matches as node IDs for a later rewrite phase
// to act on.
package graph

import (
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/nnquant/qdqfuse/internal/utils"
	"github.com/nnquant/qdqfuse/optypes"
	"github.com/pkg/errors"
)

// DefaultOpset is the operator set version nodes resolve against unless
// WithOpset is used.
const DefaultOpset = 13

// edge records one consuming input slot of a value.
type edge struct {
	node NodeID
	port int
}

// Graph is a mutable operator graph under construction or optimization.
//
// Values are identified by name. A value is produced by at most one node
// output, or enters the graph as an input or an initializer, and may be
// consumed by any number of node input slots. An empty value name on a node
// declares an absent optional input.
//
// Graphs are not safe for concurrent mutation. Concurrent reads through
// Views are safe as long as no mutation happens.
type Graph struct {
	name  string
	opset int

	// nodes is indexed by NodeID. Entries become nil once removed, IDs are
	// not reused.
	nodes   []*Node
	numLive int

	inputs  []string
	outputs []string

	inputSet  utils.Set[string]
	outputSet utils.Set[string]

	// values holds the declared type annotations: graph inputs,
	// initializers, and values declared with AddValueInfo. A produced value
	// with no entry here models a missing type annotation.
	values       map[string]ValueInfo
	initializers map[string]*Tensor

	// producers maps a value name to the node that outputs it.
	producers map[string]NodeID

	// consumers maps a value name to the input slots consuming it, in
	// insertion order.
	consumers map[string][]edge
}

// New creates an empty graph. Nodes added to it resolve against
// DefaultOpset unless WithOpset is called first.
func New(name string) *Graph {
	return &Graph{
		name:         name,
		opset:        DefaultOpset,
		inputSet:     utils.MakeSet[string](),
		outputSet:    utils.MakeSet[string](),
		values:       make(map[string]ValueInfo),
		initializers: make(map[string]*Tensor),
		producers:    make(map[string]NodeID),
		consumers:    make(map[string][]edge),
	}
}

// WithOpset sets the operator set version that nodes added afterwards
// resolve against. It returns the graph to allow chaining.
func (g *Graph) WithOpset(version int) *Graph {
	g.opset = version
	return g
}

// Name returns the graph's name.
func (g *Graph) Name() string { return g.name }

// Opset returns the operator set version new nodes resolve against.
func (g *Graph) Opset() int { return g.opset }

// Inputs returns the graph input names in declaration order. The returned
// slice must not be modified.
func (g *Graph) Inputs() []string { return g.inputs }

// Outputs returns the graph output names in declaration order. The returned
// slice must not be modified.
func (g *Graph) Outputs() []string { return g.outputs }

// AddInput declares a graph input with its element type and optional
// dimensions.
func (g *Graph) AddInput(name string, dtype dtypes.DType, dims ...int) error {
	if name == "" {
		return errors.New("graph input must have a name")
	}
	if _, found := g.values[name]; found {
		return errors.Errorf("value %q already declared", name)
	}
	if producer, found := g.producers[name]; found {
		return errors.Errorf("value %q already produced by node #%d", name, producer)
	}
	g.values[name] = ValueInfo{DType: dtype, Dims: dims}
	g.inputs = append(g.inputs, name)
	g.inputSet.Insert(name)
	return nil
}

// AddValueInfo declares the type annotation of an intermediate value.
// Produced values without an annotation have unknown type, which makes any
// fusion rule that needs their element type fail to match.
func (g *Graph) AddValueInfo(name string, dtype dtypes.DType, dims ...int) error {
	if name == "" {
		return errors.New("value must have a name")
	}
	if _, found := g.values[name]; found {
		return errors.Errorf("value %q already declared", name)
	}
	g.values[name] = ValueInfo{DType: dtype, Dims: dims}
	return nil
}

// AddInitializer registers a constant tensor under the given value name.
// The value's type annotation is taken from the tensor.
func (g *Graph) AddInitializer(name string, tensor *Tensor) error {
	if name == "" {
		return errors.New("initializer must have a name")
	}
	if tensor == nil {
		return errors.Errorf("initializer %q has no tensor", name)
	}
	if _, found := g.values[name]; found {
		return errors.Errorf("value %q already declared", name)
	}
	if producer, found := g.producers[name]; found {
		return errors.Errorf("value %q already produced by node #%d", name, producer)
	}
	g.values[name] = ValueInfo{DType: tensor.DType(), Dims: tensor.Dims()}
	g.initializers[name] = tensor
	return nil
}

// AddNode adds a node to the graph and returns it.
//
// Inputs and outputs are value names in operator slot order; an empty input
// name declares an absent optional input. Each named output must not
// already be produced elsewhere, and must not collide with a graph input or
// an initializer.
func (g *Graph) AddNode(name string, op optypes.OpType, inputs, outputs []string) (*Node, error) {
	if op == optypes.Invalid {
		return nil, errors.Errorf("node %q has an invalid op type", name)
	}
	if len(outputs) == 0 {
		return nil, errors.Errorf("node %q must have at least one output", name)
	}
	seen := utils.MakeSet[string](len(outputs))
	for _, output := range outputs {
		if output == "" {
			continue
		}
		if seen.Has(output) {
			return nil, errors.Errorf("node %q declares output %q twice", name, output)
		}
		seen.Insert(output)
		if g.inputSet.Has(output) {
			return nil, errors.Errorf("node %q output %q collides with a graph input", name, output)
		}
		if _, found := g.initializers[output]; found {
			return nil, errors.Errorf("node %q output %q collides with an initializer", name, output)
		}
		if producer, found := g.producers[output]; found {
			return nil, errors.Errorf("value %q already produced by node #%d", output, producer)
		}
	}

	id := NodeID(len(g.nodes))
	node := &Node{
		id:      id,
		name:    name,
		opType:  op,
		since:   g.opset,
		inputs:  slices.Clone(inputs),
		outputs: slices.Clone(outputs),
	}
	g.nodes = append(g.nodes, node)
	g.numLive++
	for port, input := range node.inputs {
		if input == "" {
			continue
		}
		g.consumers[input] = append(g.consumers[input], edge{node: id, port: port})
	}
	for _, output := range node.outputs {
		if output == "" {
			continue
		}
		g.producers[output] = id
	}
	return node, nil
}

// MarkOutput declares a value as a graph output. Graph outputs count as an
// extra consumer during matching: a value a fused region would swallow
// cannot also leave the graph.
func (g *Graph) MarkOutput(name string) error {
	if name == "" {
		return errors.New("graph output must have a name")
	}
	if g.outputSet.Has(name) {
		return errors.Errorf("value %q already marked as a graph output", name)
	}
	g.outputs = append(g.outputs, name)
	g.outputSet.Insert(name)
	return nil
}

// Validate checks the graph is structurally complete: every graph output
// and every consumed value must be produced by a node, be a graph input, or
// be an initializer.
func (g *Graph) Validate() error {
	resolves := func(name string) bool {
		if _, found := g.producers[name]; found {
			return true
		}
		if g.inputSet.Has(name) {
			return true
		}
		_, found := g.initializers[name]
		return found
	}
	for _, output := range g.outputs {
		if !resolves(output) {
			return errors.Errorf("graph output %q is not produced by any node", output)
		}
	}
	for _, node := range g.nodes {
		if node == nil {
			continue
		}
		for _, input := range node.inputs {
			if input == "" {
				continue
			}
			if !resolves(input) {
				return errors.Errorf("node %q input %q is not produced by any node", node.name, input)
			}
		}
	}
	return nil
}

// Node returns the node with the given ID, or nil if the ID is out of range
// or the node was removed.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Nodes returns the live nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, g.numLive)
	for _, node := range g.nodes {
		if node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// NumNodes returns the number of live nodes.
func (g *Graph) NumNodes() int { return g.numLive }

// RemoveNode removes a node and clears its producer and consumer edges.
// The node's ID is not reused. Selections holding the removed node's ID no
// longer resolve.
func (g *Graph) RemoveNode(id NodeID) error {
	node := g.Node(id)
	if node == nil {
		return errors.Errorf("node #%d does not exist", id)
	}
	for _, input := range node.inputs {
		if input == "" {
			continue
		}
		edges := g.consumers[input]
		remaining := edges[:0]
		for _, e := range edges {
			if e.node != id {
				remaining = append(remaining, e)
			}
		}
		if len(remaining) == 0 {
			delete(g.consumers, input)
		} else {
			g.consumers[input] = remaining
		}
	}
	for _, output := range node.outputs {
		if output == "" {
			continue
		}
		delete(g.producers, output)
	}
	g.nodes[id] = nil
	g.numLive--
	return nil
}

// TopoOrder returns the IDs of the live nodes in topological order:
// producers before consumers. The order is deterministic for a given
// construction sequence. It fails if the graph has a cycle.
func (g *Graph) TopoOrder() ([]NodeID, error) {
	inDegree := make(map[NodeID]int, g.numLive)
	queue := make([]NodeID, 0, g.numLive)
	for _, node := range g.nodes {
		if node == nil {
			continue
		}
		count := 0
		for _, input := range node.inputs {
			if input == "" {
				continue
			}
			if _, found := g.producers[input]; found {
				count++
			}
		}
		inDegree[node.id] = count
		if count == 0 {
			queue = append(queue, node.id)
		}
	}
	order := make([]NodeID, 0, g.numLive)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, output := range g.nodes[id].outputs {
			if output == "" {
				continue
			}
			for _, e := range g.consumers[output] {
				inDegree[e.node]--
				if inDegree[e.node] == 0 {
					queue = append(queue, e.node)
				}
			}
		}
	}
	if len(order) != g.numLive {
		return nil, errors.Errorf("graph %q has a cycle", g.name)
	}
	return order, nil
}

// View returns the read-only query surface over the graph used by the
// matching phase. Views observe live graph state: they are facades, not
// snapshots.
func (g *Graph) View() *View {
	return &View{g: g}
}
