// File: node.go
// Role: the gonum graph.Node/encoding.Attributer adapter for a single
// dagraph.Node, and the colour table the emitter renders nodes with.
package diagviz

import (
	"fmt"

	"gonum.org/v1/gonum/graph/encoding"

	"github.com/katalvlaran/symdiff/dagraph"
)

// fillColor maps a NodeType to the Graphviz fillcolor diagviz colours nodes
// by. Kept as a simple table rather than a switch so adding a NodeType only
// ever touches one line.
var fillColor = map[dagraph.NodeType]string{
	dagraph.Float:            "lightyellow",
	dagraph.Integer:          "lightyellow",
	dagraph.ConstInput:       "lightblue",
	dagraph.Parameter:        "lightsalmon",
	dagraph.ConstDerived:     "white",
	dagraph.ParameterDerived: "lightgreen",
}

// vizNode is the DOT-facing view of one occupied dagraph.Node: its gonum id
// is the dagraph id widened to int64 (ids are dense and never reused, so
// the identity map is exact and stable across a render).
type vizNode struct {
	id   int64
	name string
	kind string
	typ  dagraph.NodeType
}

// ID satisfies gonum/graph.Node.
func (n vizNode) ID() int64 { return n.id }

// DOTID satisfies gonum/graph/encoding/dot.Node, giving each rendered node a
// readable label instead of a bare numeric id.
func (n vizNode) DOTID() string {
	if n.kind == "" {
		return fmt.Sprintf("n%d_%s", n.id, n.name)
	}
	return fmt.Sprintf("n%d_%s_%s", n.id, n.kind, n.name)
}

// Attributes satisfies gonum/graph/encoding.Attributer, supplying the
// fillcolor for this node's NodeType.
func (n vizNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "style", Value: "filled"},
		{Key: "fillcolor", Value: fillColor[n.typ]},
		{Key: "label", Value: fmt.Sprintf("%q", n.name)},
	}
}

func newVizNode(n *dagraph.Node) vizNode {
	kind := ""
	if !n.NodeType().IsLeaf() {
		kind = n.Operator().Kind().String()
	}
	return vizNode{
		id:   int64(n.ID()),
		name: n.Name(),
		kind: kind,
		typ:  n.NodeType(),
	}
}
