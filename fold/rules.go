// File: rules.go
// Role: the per-operator-kind rewrite rules, one attempt per visited node.
package fold

import (
	"errors"
	"math"

	"github.com/katalvlaran/symdiff/dagraph"
	"github.com/katalvlaran/symdiff/operator"
)

// ErrInvalidReplicateCount indicates ReplicateHorz/ReplicateVert was folded
// against a literal count of 0, which has no valid replicate semantics.
var ErrInvalidReplicateCount = errors.New("fold: replicate count must be >= 1")

// unaryLiteralFn computes a unary operator's value over a literal operand.
var unaryLiteralFn = map[operator.Kind]func(float64) float64{
	operator.KindSign:  signOf,
	operator.KindNeg:   func(v float64) float64 { return -v },
	operator.KindDiv:   func(v float64) float64 { return 1 / v },
	operator.KindCos:   math.Cos,
	operator.KindSin:   math.Sin,
	operator.KindTan:   math.Tan,
	operator.KindCosH:  math.Cosh,
	operator.KindSinH:  math.Sinh,
	operator.KindTanH:  math.Tanh,
	operator.KindLog:   math.Log,
	operator.KindExp:   math.Exp,
	operator.KindSqrt:  math.Sqrt,
	operator.KindSquare: func(v float64) float64 { return v * v },
	operator.KindSigmoid: func(v float64) float64 { return 1 / (1 + math.Exp(-v)) },
	operator.KindAbs:   math.Abs,
	operator.KindL1:    math.Abs,
	operator.KindL2:    math.Abs,
}

func signOf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

var comparisonLiteralFn = map[operator.Kind]func(a, b float64) bool{
	operator.KindLessThan:           func(a, b float64) bool { return a < b },
	operator.KindLessThanOrEqual:    func(a, b float64) bool { return a <= b },
	operator.KindGreaterThan:        func(a, b float64) bool { return a > b },
	operator.KindGreaterThanOrEqual: func(a, b float64) bool { return a >= b },
	operator.KindEquals:             func(a, b float64) bool { return a == b },
	operator.KindNotEquals:          func(a, b float64) bool { return a != b },
}

// tryFold attempts exactly one rewrite on n (occupying id), returning
// whether a rewrite was applied.
func tryFold(g *dagraph.Graph, n *dagraph.Node, id int) (bool, error) {
	op := n.Operator()
	kind := op.Kind()
	parents := op.Parents()

	switch {
	case kind == operator.KindConst:
		return foldConst(g, id, parents[0])

	case kind == operator.KindTranspose || kind == operator.KindMatrixDiag ||
		kind == operator.KindVectorDiag || kind == operator.KindSum:
		return foldScalarPassthrough(g, id, parents[0])

	case kind == operator.KindSize:
		return foldSizeOfScalar(g, id, parents[0])

	case unaryLiteralFn[kind] != nil:
		return foldUnaryLiteral(g, id, kind, parents[0])

	case comparisonLiteralFn[kind] != nil:
		return foldComparison(g, id, kind, parents[0], parents[1])

	case kind == operator.KindMax || kind == operator.KindMin:
		return foldMaxMin(g, id, kind, parents[0], parents[1])

	case kind == operator.KindPow:
		return foldPow(g, id, parents[0], parents[1])

	case kind == operator.KindQuadratic:
		return foldQuadratic(g, id, parents[0], parents[1])

	case kind == operator.KindReplicateHorz || kind == operator.KindReplicateVert:
		return foldReplicate(g, id, op)

	case kind == operator.KindAdd || kind == operator.KindMul || kind == operator.KindDot:
		return foldNary(g, id, kind, parents)
	}

	return false, nil
}

func foldConst(g *dagraph.Graph, id, parent int) (bool, error) {
	dep, err := g.IsDependable(parent)
	if err != nil {
		return false, err
	}
	if dep {
		return false, nil
	}
	return true, applyRewrite(g, id, parent, nil)
}

// foldScalarPassthrough implements "Transpose/MatrixDiag/VectorDiag/Sum of
// a scalar literal: collapse to the parent" — a literal is inherently
// 1x1, so every one of these ops is the identity on it.
func foldScalarPassthrough(g *dagraph.Graph, id, parent int) (bool, error) {
	pn, err := g.GetNode(parent)
	if err != nil {
		return false, err
	}
	if !isLiteral(pn) {
		return false, nil
	}
	return true, applyRewrite(g, id, parent, nil)
}

func foldSizeOfScalar(g *dagraph.Graph, id, parent int) (bool, error) {
	pn, err := g.GetNode(parent)
	if err != nil {
		return false, err
	}
	if !isLiteral(pn) {
		return false, nil
	}
	one := g.AddInt(1)
	return true, applyRewrite(g, id, one, []int{one})
}

func foldUnaryLiteral(g *dagraph.Graph, id int, kind operator.Kind, parent int) (bool, error) {
	pn, err := g.GetNode(parent)
	if err != nil {
		return false, err
	}
	v, ok := literalValue(pn)
	if !ok {
		return false, nil
	}
	result := unaryLiteralFn[kind](v)
	lit := addLiteral(g, result)
	return true, applyRewrite(g, id, lit, []int{lit})
}

func foldComparison(g *dagraph.Graph, id int, kind operator.Kind, p0, p1 int) (bool, error) {
	n0, err := g.GetNode(p0)
	if err != nil {
		return false, err
	}
	n1, err := g.GetNode(p1)
	if err != nil {
		return false, err
	}
	v0, ok0 := literalValue(n0)
	v1, ok1 := literalValue(n1)
	if !ok0 || !ok1 {
		return false, nil
	}
	result := int64(0)
	if comparisonLiteralFn[kind](v0, v1) {
		result = 1
	}
	lit := g.AddInt(result)
	return true, applyRewrite(g, id, lit, []int{lit})
}

func foldMaxMin(g *dagraph.Graph, id int, kind operator.Kind, p0, p1 int) (bool, error) {
	n0, err := g.GetNode(p0)
	if err != nil {
		return false, err
	}
	n1, err := g.GetNode(p1)
	if err != nil {
		return false, err
	}
	v0, ok0 := literalValue(n0)
	v1, ok1 := literalValue(n1)
	if !ok0 || !ok1 {
		return false, nil
	}
	var result float64
	if kind == operator.KindMax {
		result = math.Max(v0, v1)
	} else {
		result = math.Min(v0, v1)
	}
	lit := addLiteral(g, result)
	return true, applyRewrite(g, id, lit, []int{lit})
}

func foldPow(g *dagraph.Graph, id, base, exp int) (bool, error) {
	baseNode, err := g.GetNode(base)
	if err != nil {
		return false, err
	}
	expNode, err := g.GetNode(exp)
	if err != nil {
		return false, err
	}

	if isZeroLiteral(expNode) {
		one := g.AddInt(1)
		return true, applyRewrite(g, id, one, []int{one})
	}
	if isOneLiteral(expNode) {
		return true, applyRewrite(g, id, base, nil)
	}
	if v, ok := literalValue(expNode); ok && v == 2 {
		sq, err := g.AddOperation(operator.KindSquare, []int{base})
		if err != nil {
			return false, err
		}
		return true, applyRewrite(g, id, sq, []int{sq})
	}
	if isZeroLiteral(baseNode) {
		zero := g.AddInt(0)
		return true, applyRewrite(g, id, zero, []int{zero})
	}
	if isOneLiteral(baseNode) {
		one := g.AddInt(1)
		return true, applyRewrite(g, id, one, []int{one})
	}

	bv, bok := literalValue(baseNode)
	ev, eok := literalValue(expNode)
	if bok && eok {
		lit := addLiteral(g, math.Pow(bv, ev))
		return true, applyRewrite(g, id, lit, []int{lit})
	}
	return false, nil
}

// foldQuadratic implements Quadratic(p0,p1) = p0^T.p1.p0's identity/zero
// special cases: a Zeros or Eye parent (by operator kind, not literal value,
// since these are matrix-valued constants) lets the product collapse
// without any arithmetic.
func foldQuadratic(g *dagraph.Graph, id, p0, p1 int) (bool, error) {
	n0, err := g.GetNode(p0)
	if err != nil {
		return false, err
	}
	n1, err := g.GetNode(p1)
	if err != nil {
		return false, err
	}

	if n0.Operator().Kind() == operator.KindZeros {
		zero := g.AddInt(0)
		return true, applyRewrite(g, id, zero, []int{zero})
	}
	if n0.Operator().Kind() == operator.KindEye {
		return true, applyRewrite(g, id, p1, nil)
	}
	if n1.Operator().Kind() == operator.KindZeros {
		zero := g.AddInt(0)
		return true, applyRewrite(g, id, zero, []int{zero})
	}
	if n1.Operator().Kind() == operator.KindEye {
		dot, err := g.AddOperation(operator.KindDot, []int{p0, p0})
		if err != nil {
			return false, err
		}
		return true, applyRewrite(g, id, dot, []int{dot})
	}
	return false, nil
}

func foldReplicate(g *dagraph.Graph, id int, op operator.Operator) (bool, error) {
	parents := op.Parents()
	args := op.Args()
	countNode, err := g.GetNode(args[0])
	if err != nil {
		return false, err
	}
	v, ok := literalValue(countNode)
	if !ok {
		return false, nil
	}
	if v == 1 {
		return true, applyRewrite(g, id, parents[0], nil)
	}
	if v == 0 {
		return false, ErrInvalidReplicateCount
	}
	return false, nil
}

// foldNary coalesces literal-valued parents of an n-ary Add/Mul/Dot into a
// single literal, rebuilding the operator over the non-literal parents plus
// the combined literal. If every parent is literal the whole node collapses
// to one literal. Dot's literal coalescing is scalar-only: a fully literal
// Dot chain folds like Mul; a partially literal Dot chain is left alone,
// since coalescing a literal into a matrix-chain position without shape
// information could change the chain's dimensions.
func foldNary(g *dagraph.Graph, id int, kind operator.Kind, parents []int) (bool, error) {
	var literals []float64
	var nonLiteral []int

	for _, par := range parents {
		pn, err := g.GetNode(par)
		if err != nil {
			return false, err
		}
		if v, ok := literalValue(pn); ok {
			literals = append(literals, v)
		} else {
			nonLiteral = append(nonLiteral, par)
		}
	}

	if len(literals) < 2 {
		return false, nil
	}
	if kind == operator.KindDot && len(nonLiteral) > 0 {
		return false, nil
	}

	combined := combineLiterals(kind, literals)

	if len(nonLiteral) == 0 {
		lit := addLiteral(g, combined)
		return true, applyRewrite(g, id, lit, []int{lit})
	}

	// Only materialize the coalesced literal when the rewrite will actually
	// reference it: if it equals kind's identity element, dropping it
	// entirely (rather than creating it and then discarding it) avoids
	// leaving an unreferenced node behind in the arena.
	identity := identityElement(kind)
	var newParents []int
	var created []int
	if combined == identity {
		newParents = nonLiteral
	} else {
		lit := addLiteral(g, combined)
		newParents = append(append([]int{}, nonLiteral...), lit)
		created = append(created, lit)
	}

	if len(newParents) == 1 {
		return true, applyRewrite(g, id, newParents[0], created)
	}

	rebuilt, err := g.AddOperation(kind, newParents)
	if err != nil {
		return false, err
	}
	created = append(created, rebuilt)
	return true, applyRewrite(g, id, rebuilt, created)
}

func combineLiterals(kind operator.Kind, values []float64) float64 {
	result := values[0]
	for _, v := range values[1:] {
		switch kind {
		case operator.KindAdd:
			result += v
		case operator.KindMul, operator.KindDot:
			result *= v
		}
	}
	return result
}

func identityElement(kind operator.Kind) float64 {
	if kind == operator.KindAdd {
		return 0
	}
	return 1
}
