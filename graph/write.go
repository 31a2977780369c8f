package graph

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/nnquant/qdqfuse/internal/utils"
)

const indentationStep = "  "

// elementWriter represents graph elements that know how to write themselves.
type elementWriter interface {
	Write(w io.Writer, indentation string) error
}

// displayName renders a value name for the text dump: normalized and
// prefixed with "%". Absent optional inputs render as "_".
func displayName(name string) string {
	if name == "" {
		return "_"
	}
	return "%" + utils.NormalizeIdentifier(name)
}

// typeAnnotation renders ": dtype[dims]" for a declared value, or "" when
// the value has no type annotation.
func (g *Graph) typeAnnotation(name string) string {
	info, found := g.values[name]
	if !found {
		return ""
	}
	if info.Dims == nil {
		return fmt.Sprintf(": %s", utils.DTypeToONNX(info.DType))
	}
	dims := make([]string, len(info.Dims))
	for i, dim := range info.Dims {
		dims[i] = fmt.Sprintf("%d", dim)
	}
	return fmt.Sprintf(": %s[%s]", utils.DTypeToONNX(info.DType), strings.Join(dims, ","))
}

// Write renders a readable dump of the graph, for debugging.
//
// It writes incomplete graphs without an error to help debugging; use
// Validate to check structural completeness.
func (g *Graph) Write(writer io.Writer) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			// No op if an error was encountered earlier
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}
	we := func(e elementWriter, indentation string) {
		if err != nil {
			// No op if an error was encountered earlier
			return
		}
		err = e.Write(writer, indentation)
	}

	w("graph @%s opset %d {\n", utils.NormalizeIdentifier(g.name), g.opset)
	if len(g.inputs) > 0 {
		w("%sinputs:\n", indentationStep)
		for _, input := range g.inputs {
			w("%s%s%s\n", indentationStep+indentationStep, displayName(input), g.typeAnnotation(input))
		}
	}
	if len(g.initializers) > 0 {
		w("%sinitializers:\n", indentationStep)
		for _, name := range slices.Sorted(maps.Keys(g.initializers)) {
			tensor := g.initializers[name]
			extra := ""
			if tensor.IsScalar() {
				if value, ok := tensor.ScalarFloat(); ok {
					extra = fmt.Sprintf(" = %v", value)
				} else if value, ok := tensor.ScalarInt(); ok {
					extra = fmt.Sprintf(" = %d", value)
				}
			}
			w("%s%s%s%s\n", indentationStep+indentationStep, displayName(name), g.typeAnnotation(name), extra)
		}
	}
	w("%snodes:\n", indentationStep)
	for _, node := range g.nodes {
		if node == nil {
			continue
		}
		we(node, indentationStep+indentationStep)
		w("\n")
	}
	if len(g.outputs) > 0 {
		w("%soutputs:\n", indentationStep)
		for _, output := range g.outputs {
			w("%s%s%s\n", indentationStep+indentationStep, displayName(output), g.typeAnnotation(output))
		}
	}
	w("}\n")
	return err
}

// Write renders one node of the dump, with the given indentation.
func (n *Node) Write(writer io.Writer, indentation string) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			// No op if an error was encountered earlier
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}

	w("%s#%d", indentation, n.id)
	if n.name != "" {
		w(" %s", utils.NormalizeIdentifier(n.name))
	}
	w(" = %s(", n.opType)
	for i, input := range n.inputs {
		if i > 0 {
			w(", ")
		}
		w("%s", displayName(input))
	}
	w(") -> (")
	for i, output := range n.outputs {
		if i > 0 {
			w(", ")
		}
		w("%s", displayName(output))
	}
	w(")")
	return err
}

// String renders the graph dump as a string, ignoring write errors.
func (g *Graph) String() string {
	var buf bytes.Buffer
	_ = g.Write(&buf)
	return buf.String()
}
