// Package diagviz renders a finished dagraph.Graph as Graphviz DOT text, a
// downstream emitter built as an external collaborator of the core. It is a
// read-only consumer built entirely on dagraph's and operator's public
// surface: no internal access, one-way Graph -> DOT text.
//
// diagviz wraps *dagraph.Graph in an adapter implementing
// gonum.org/v1/gonum/graph.Directed, then delegates the actual text
// encoding to gonum.org/v1/gonum/graph/encoding/dot, clustering nodes by
// gradient level (forward=0, gradient=1, Hessian=2+) and colouring them by
// NodeType.
package diagviz
