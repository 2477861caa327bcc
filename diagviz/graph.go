// File: graph.go
// Role: Graph, the gonum graph.Directed adapter over a *dagraph.Graph, plus
// the per-grad-level clustering gonum's dot encoder renders as subgraphs.
package diagviz

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/iterator"

	"github.com/katalvlaran/symdiff/dagraph"
)

// edge is a plain From/To pair; dagraph carries no edge-level data (a child
// back-edge is just "this node depends on that ancestor"), so ReversedEdge
// is the only non-trivial method.
type edge struct{ from, to vizNode }

func (e edge) From() graph.Node         { return e.from }
func (e edge) To() graph.Node           { return e.to }
func (e edge) ReversedEdge() graph.Edge { return edge{from: e.to, to: e.from} }

// Graph adapts a *dagraph.Graph to gonum.org/v1/gonum/graph.Directed: each
// occupied dagraph node becomes a vizNode, and each operator-ancestor
// relationship becomes a directed edge from the ancestor to its dependent
// (data flows from operand to result, the natural reading order for a
// rendered expression DAG). Only nodes present in ids are included, which
// lets Structure() build one Graph per grad_level cluster over the same
// underlying *dagraph.Graph.
type Graph struct {
	g    *dagraph.Graph
	ids  []int
	name string
}

// New wraps g for rendering. The returned Graph covers every occupied node;
// use WriteDOT to render it, which internally partitions by grad_level via
// Structure().
func New(g *dagraph.Graph) *Graph {
	ids := make([]int, 0, g.NodeCount())
	for id := 0; id < g.NodeCount(); id++ {
		if _, err := g.GetNode(id); err == nil {
			ids = append(ids, id)
		}
	}
	return &Graph{g: g, ids: ids, name: g.Name()}
}

// DOTID satisfies gonum/graph/encoding/dot.Graph, naming the whole render.
func (a *Graph) DOTID() string { return a.name }

func (a *Graph) has(id int) bool {
	for _, v := range a.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Node satisfies graph.Graph. Returns nil if id is not part of this view.
func (a *Graph) Node(id int64) graph.Node {
	nid := int(id)
	if !a.has(nid) {
		return nil
	}
	n, err := a.g.GetNode(nid)
	if err != nil {
		return nil
	}
	return newVizNode(n)
}

// Nodes satisfies graph.Graph, returning every node in this view.
func (a *Graph) Nodes() graph.Nodes {
	out := make([]graph.Node, 0, len(a.ids))
	for _, id := range a.ids {
		n, err := a.g.GetNode(id)
		if err != nil {
			continue
		}
		out = append(out, newVizNode(n))
	}
	return iterator.NewOrderedNodes(out)
}

// From satisfies graph.Graph: the dependents of id (its children), filtered
// to this view.
func (a *Graph) From(id int64) graph.Nodes {
	n, err := a.g.GetNode(int(id))
	if err != nil {
		return iterator.NewOrderedNodes(nil)
	}
	out := make([]graph.Node, 0, len(n.Children()))
	for _, c := range n.Children() {
		if !a.has(c) {
			continue
		}
		cn, err := a.g.GetNode(c)
		if err != nil {
			continue
		}
		out = append(out, newVizNode(cn))
	}
	return iterator.NewOrderedNodes(out)
}

// To satisfies graph.Directed: the ancestors of id, filtered to this view.
func (a *Graph) To(id int64) graph.Nodes {
	n, err := a.g.GetNode(int(id))
	if err != nil {
		return iterator.NewOrderedNodes(nil)
	}
	out := make([]graph.Node, 0, 2)
	for _, anc := range n.Operator().Ancestors() {
		if !a.has(anc) {
			continue
		}
		an, err := a.g.GetNode(anc)
		if err != nil {
			continue
		}
		out = append(out, newVizNode(an))
	}
	return iterator.NewOrderedNodes(out)
}

// HasEdgeBetween satisfies graph.Graph.
func (a *Graph) HasEdgeBetween(xid, yid int64) bool {
	return a.HasEdgeFromTo(xid, yid) || a.HasEdgeFromTo(yid, xid)
}

// HasEdgeFromTo satisfies graph.Directed: true iff yid depends on xid
// directly (xid is one of yid's operator ancestors).
func (a *Graph) HasEdgeFromTo(xid, yid int64) bool {
	n, err := a.g.GetNode(int(yid))
	if err != nil {
		return false
	}
	for _, anc := range n.Operator().Ancestors() {
		if int64(anc) == xid {
			return true
		}
	}
	return false
}

// Edge satisfies graph.Graph.
func (a *Graph) Edge(uid, vid int64) graph.Edge {
	if !a.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return edge{from: a.Node(uid).(vizNode), to: a.Node(vid).(vizNode)}
}

// clusterLabel names a grad_level cluster: forward=0, gradient=1,
// Hessian=2+ (cluster_hessian_N, one cluster per level N).
func clusterLabel(level int) string {
	switch level {
	case 0:
		return "cluster_forward"
	case 1:
		return "cluster_gradient"
	default:
		return fmt.Sprintf("cluster_hessian_%d", level)
	}
}

// Structure satisfies gonum/graph/encoding/dot.Structurer: it partitions
// this view's nodes by grad_level and returns one sub-Graph per level, the
// mechanism dot.Marshal uses to emit `subgraph cluster_N { ... }` blocks.
func (a *Graph) Structure() []dot.Graph {
	byLevel := map[int][]int{}
	for _, id := range a.ids {
		n, err := a.g.GetNode(id)
		if err != nil {
			continue
		}
		lvl := n.GradLevel()
		byLevel[lvl] = append(byLevel[lvl], id)
	}

	out := make([]dot.Graph, 0, len(byLevel))
	for lvl, ids := range byLevel {
		out = append(out, &Graph{g: a.g, ids: ids, name: clusterLabel(lvl)})
	}
	return out
}

var (
	_ graph.Directed = (*Graph)(nil)
	_ dot.Structurer = (*Graph)(nil)
	_ dot.Graph      = (*Graph)(nil)
)
