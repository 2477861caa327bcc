// File: literals.go
// Role: literal-value extraction and construction helpers shared by every
// rewrite rule.
package fold

import (
	"math"

	"github.com/katalvlaran/symdiff/dagraph"
)

// literalValue returns (value, true) if n is a Float or Integer leaf,
// (0, false) otherwise.
func literalValue(n *dagraph.Node) (float64, bool) {
	switch n.NodeType() {
	case dagraph.Float:
		return n.FloatValue(), true
	case dagraph.Integer:
		return float64(n.IntValue()), true
	default:
		return 0, false
	}
}

// isLiteral reports whether n is a Float or Integer leaf.
func isLiteral(n *dagraph.Node) bool {
	_, ok := literalValue(n)
	return ok
}

// isIntegerLiteral reports whether n is specifically an Integer leaf.
func isIntegerLiteral(n *dagraph.Node) bool {
	return n.NodeType() == dagraph.Integer
}

// addLiteral materializes v as an Integer leaf if it is integer-valued,
// otherwise as a Float leaf, matching the "Integer if integer-valued, Float
// otherwise" rule every arithmetic fold obeys.
func addLiteral(g *dagraph.Graph, v float64) int {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return g.AddInt(int64(v))
	}
	return g.AddFloat(v)
}

// isZeroLiteral reports whether n is a literal equal to 0.
func isZeroLiteral(n *dagraph.Node) bool {
	v, ok := literalValue(n)
	return ok && v == 0
}

// isOneLiteral reports whether n is a literal equal to 1.
func isOneLiteral(n *dagraph.Node) bool {
	v, ok := literalValue(n)
	return ok && v == 1
}
