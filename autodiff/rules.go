// File: rules.go
// Role: the per-operator-kind local derivative rules the differentiation
// pass dispatches on. Each rule receives the node being visited and its
// already-resolved gradient id, and emits zero or more messages to the
// node's dependable ancestors.
package autodiff

import (
	"fmt"

	"github.com/katalvlaran/symdiff/dagraph"
	"github.com/katalvlaran/symdiff/operator"
)

// emitGradientMessages dispatches on n's operator kind and emits one
// gradient message per dependable ancestor, per the local derivative rules.
func emitGradientMessages(p *pass, n *dagraph.Node, nodeID, gradID int) error {
	op := n.Operator()
	kind := op.Kind()
	parents := op.Parents()
	g := p.graph

	switch kind {
	case operator.KindNone:
		// A leaf: Parameter has no ancestors to propagate to. Float, Integer,
		// and ConstInput leaves never carry an incoming message because a
		// constant ancestor is never marked dependable in the first place.
		return nil

	case operator.KindNeg:
		msg, err := g.AddOperation(operator.KindNeg, []int{gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindDiv:
		sq, err := g.AddOperation(operator.KindSquare, []int{parents[0]})
		if err != nil {
			return err
		}
		divSq, err := g.AddOperation(operator.KindDiv, []int{sq})
		if err != nil {
			return err
		}
		negDivSq, err := g.AddOperation(operator.KindNeg, []int{divSq})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{negDivSq, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindMatrixInverse:
		ct, err := g.AddOperation(operator.KindTranspose, []int{nodeID})
		if err != nil {
			return err
		}
		negCt, err := g.AddOperation(operator.KindNeg, []int{ct})
		if err != nil {
			return err
		}
		mid, err := g.AddOperation(operator.KindDot, []int{negCt, gradID})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindDot, []int{mid, ct})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindTranspose:
		msg, err := g.AddOperation(operator.KindTranspose, []int{gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindMatrixDiag:
		msg, err := g.AddOperation(operator.KindVectorDiag, []int{gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindVectorDiag:
		msg, err := g.AddOperation(operator.KindMatrixDiag, []int{gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindCos:
		s, err := g.AddOperation(operator.KindSin, []int{parents[0]})
		if err != nil {
			return err
		}
		negS, err := g.AddOperation(operator.KindNeg, []int{s})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{negS, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindSin:
		c, err := g.AddOperation(operator.KindCos, []int{parents[0]})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{c, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindTan:
		c, err := g.AddOperation(operator.KindCos, []int{parents[0]})
		if err != nil {
			return err
		}
		c2, err := g.AddOperation(operator.KindSquare, []int{c})
		if err != nil {
			return err
		}
		divC2, err := g.AddOperation(operator.KindDiv, []int{c2})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{divC2, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindCosH:
		s, err := g.AddOperation(operator.KindSinH, []int{parents[0]})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{s, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindSinH:
		c, err := g.AddOperation(operator.KindCosH, []int{parents[0]})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{c, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindTanH:
		sq, err := g.AddOperation(operator.KindSquare, []int{nodeID})
		if err != nil {
			return err
		}
		negSq, err := g.AddOperation(operator.KindNeg, []int{sq})
		if err != nil {
			return err
		}
		one := g.AddInt(1)
		oneMinusSq, err := g.AddOperation(operator.KindAdd, []int{one, negSq})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{oneMinusSq, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindAbs:
		sgn, err := g.AddOperation(operator.KindSign, []int{parents[0]})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{sgn, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindLog:
		recip, err := g.AddOperation(operator.KindDiv, []int{parents[0]})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{recip, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindExp:
		msg, err := g.AddOperation(operator.KindMul, []int{nodeID, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindSqrt:
		half := g.AddFloat(0.5)
		recipC, err := g.AddOperation(operator.KindDiv, []int{nodeID})
		if err != nil {
			return err
		}
		halfRecipC, err := g.AddOperation(operator.KindMul, []int{half, recipC})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{halfRecipC, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindSquare:
		two := g.AddInt(2)
		twoP, err := g.AddOperation(operator.KindMul, []int{two, parents[0]})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{twoP, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindSigmoid:
		one := g.AddInt(1)
		negC, err := g.AddOperation(operator.KindNeg, []int{nodeID})
		if err != nil {
			return err
		}
		oneMinusC, err := g.AddOperation(operator.KindAdd, []int{one, negC})
		if err != nil {
			return err
		}
		cTimesOneMinusC, err := g.AddOperation(operator.KindMul, []int{nodeID, oneMinusC})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{cTimesOneMinusC, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindRectifier:
		zero := g.AddInt(0)
		indicator, err := g.AddOperation(operator.KindGreaterThan, []int{parents[0], zero})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{indicator, gradID})
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindSum:
		return emitReductionGrad(p, parents[0], gradID, op.Dimension(), false)

	case operator.KindL2:
		p0 := parents[0]
		rep, err := replicateToShape(g, gradID, p0, op.Dimension())
		if err != nil {
			return err
		}
		two := g.AddInt(2)
		twoP, err := g.AddOperation(operator.KindMul, []int{two, p0})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{twoP, rep})
		if err != nil {
			return err
		}
		return p.emit(p0, msg)

	case operator.KindL1:
		p0 := parents[0]
		rep, err := replicateToShape(g, gradID, p0, op.Dimension())
		if err != nil {
			return err
		}
		sgn, err := g.AddOperation(operator.KindSign, []int{p0})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{sgn, rep})
		if err != nil {
			return err
		}
		return p.emit(p0, msg)

	case operator.KindMax, operator.KindMin:
		return emitMaxMinGrad(p, kind, parents, gradID)

	case operator.KindPow:
		return emitPowGrad(p, parents, nodeID, gradID)

	case operator.KindQuadratic:
		return emitQuadraticGrad(p, parents, gradID)

	case operator.KindAdd:
		for _, par := range parents {
			if err := p.emit(par, gradID); err != nil {
				return err
			}
		}
		return nil

	case operator.KindMul:
		return emitMulGrad(p, parents, nodeID, gradID)

	case operator.KindDot:
		return emitDotGrad(p, parents, gradID)

	case operator.KindHorzCat, operator.KindVertCat:
		return emitCatGrad(p, kind, parents, nodeID, gradID)

	case operator.KindSubIndex:
		args := op.Args()
		msg, err := g.AddOperation(operator.KindSubAssign, append([]int{gradID}, args...))
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindSubAssign:
		args := op.Args()
		msg, err := g.AddOperation(operator.KindSubIndex, append([]int{gradID}, args...))
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindReshape:
		p0 := parents[0]
		rows, err := g.AddOperation(operator.KindSize, []int{p0}, operator.First)
		if err != nil {
			return err
		}
		cols, err := g.AddOperation(operator.KindSize, []int{p0}, operator.Second)
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindReshape, []int{gradID, rows, cols})
		if err != nil {
			return err
		}
		return p.emit(p0, msg)

	case operator.KindReplicateHorz:
		msg, err := g.AddOperation(operator.KindSum, []int{gradID}, operator.Second)
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	case operator.KindReplicateVert:
		msg, err := g.AddOperation(operator.KindSum, []int{gradID}, operator.First)
		if err != nil {
			return err
		}
		return p.emit(parents[0], msg)

	default:
		if kind.IsConstantFamily() {
			return dagraph.ErrGradientOfConstant
		}
		return fmt.Errorf("autodiff: unhandled operator kind %s", kind)
	}
}

// replicateToShape tiles src back to p's shape along dim, mirroring Sum's
// reduction: Dim=First replicates down the rows, Dim=Second across the
// columns, Dim=All does both.
func replicateToShape(g *dagraph.Graph, src, shapeLike int, dim operator.Dimension) (int, error) {
	rows, err := g.AddOperation(operator.KindSize, []int{shapeLike}, operator.First)
	if err != nil {
		return 0, err
	}
	cols, err := g.AddOperation(operator.KindSize, []int{shapeLike}, operator.Second)
	if err != nil {
		return 0, err
	}

	switch dim {
	case operator.First:
		return g.AddOperation(operator.KindReplicateVert, []int{src, rows})
	case operator.Second:
		return g.AddOperation(operator.KindReplicateHorz, []int{src, cols})
	default: // All
		v, err := g.AddOperation(operator.KindReplicateVert, []int{src, rows})
		if err != nil {
			return 0, err
		}
		return g.AddOperation(operator.KindReplicateHorz, []int{v, cols})
	}
}

// emitReductionGrad implements Sum's reduction-inverse rule; its trailing
// bool parameter is unused. L1/L2 call replicateToShape directly since they
// also scale the replicated gradient.
func emitReductionGrad(p *pass, p0, gradID int, dim operator.Dimension, _ bool) error {
	rep, err := replicateToShape(p.graph, gradID, p0, dim)
	if err != nil {
		return err
	}
	return p.emit(p0, rep)
}

// emitMaxMinGrad implements the signed-difference selector: sign(p0-p1)
// picks out p0 when positive (Max) or p1 (Min); the other parent gets the
// negated sign.
func emitMaxMinGrad(p *pass, kind operator.Kind, parents []int, gradID int) error {
	g := p.graph
	p0, p1 := parents[0], parents[1]

	dep0, err := g.IsDependable(p0)
	if err != nil {
		return err
	}
	dep1, err := g.IsDependable(p1)
	if err != nil {
		return err
	}
	if !dep0 && !dep1 {
		return nil
	}

	negP1, err := g.AddOperation(operator.KindNeg, []int{p1})
	if err != nil {
		return err
	}
	diff, err := g.AddOperation(operator.KindAdd, []int{p0, negP1})
	if err != nil {
		return err
	}
	sgn, err := g.AddOperation(operator.KindSign, []int{diff})
	if err != nil {
		return err
	}

	p0Sign, p1Sign := sgn, sgn
	if kind == operator.KindMax {
		p1Sign, err = g.AddOperation(operator.KindNeg, []int{sgn})
		if err != nil {
			return err
		}
	} else {
		p0Sign, err = g.AddOperation(operator.KindNeg, []int{sgn})
		if err != nil {
			return err
		}
	}

	if dep0 {
		msg, err := g.AddOperation(operator.KindMul, []int{p0Sign, gradID})
		if err != nil {
			return err
		}
		if err := p.emit(p0, msg); err != nil {
			return err
		}
	}
	if dep1 {
		msg, err := g.AddOperation(operator.KindMul, []int{p1Sign, gradID})
		if err != nil {
			return err
		}
		if err := p.emit(p1, msg); err != nil {
			return err
		}
	}
	return nil
}

// emitPowGrad implements Pow(p0,p1): to p0 -> p1*c*g/p0; to p1 -> Log(p0)*c*g.
func emitPowGrad(p *pass, parents []int, nodeID, gradID int) error {
	g := p.graph
	p0, p1 := parents[0], parents[1]

	if dep0, err := g.IsDependable(p0); err != nil {
		return err
	} else if dep0 {
		t, err := g.AddOperation(operator.KindMul, []int{p1, nodeID})
		if err != nil {
			return err
		}
		tg, err := g.AddOperation(operator.KindMul, []int{t, gradID})
		if err != nil {
			return err
		}
		divP0, err := g.AddOperation(operator.KindDiv, []int{p0})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{tg, divP0})
		if err != nil {
			return err
		}
		if err := p.emit(p0, msg); err != nil {
			return err
		}
	}

	if dep1, err := g.IsDependable(p1); err != nil {
		return err
	} else if dep1 {
		lg, err := g.AddOperation(operator.KindLog, []int{p0})
		if err != nil {
			return err
		}
		t, err := g.AddOperation(operator.KindMul, []int{lg, nodeID})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{t, gradID})
		if err != nil {
			return err
		}
		if err := p.emit(p1, msg); err != nil {
			return err
		}
	}
	return nil
}

// emitQuadraticGrad implements Quadratic(p0,p1) = p0^T . p1 . p0:
// to p0 -> (p1^T . p0).g + p1.p0.g^T; to p1 -> p0.g.p0^T.
func emitQuadraticGrad(p *pass, parents []int, gradID int) error {
	g := p.graph
	p0, p1 := parents[0], parents[1]

	if dep0, err := g.IsDependable(p0); err != nil {
		return err
	} else if dep0 {
		p1t, err := g.AddOperation(operator.KindTranspose, []int{p1})
		if err != nil {
			return err
		}
		term1Base, err := g.AddOperation(operator.KindDot, []int{p1t, p0})
		if err != nil {
			return err
		}
		term1, err := g.AddOperation(operator.KindMul, []int{term1Base, gradID})
		if err != nil {
			return err
		}
		gt, err := g.AddOperation(operator.KindTranspose, []int{gradID})
		if err != nil {
			return err
		}
		term2a, err := g.AddOperation(operator.KindDot, []int{p1, p0})
		if err != nil {
			return err
		}
		term2, err := g.AddOperation(operator.KindMul, []int{term2a, gt})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindAdd, []int{term1, term2})
		if err != nil {
			return err
		}
		if err := p.emit(p0, msg); err != nil {
			return err
		}
	}

	if dep1, err := g.IsDependable(p1); err != nil {
		return err
	} else if dep1 {
		p0t, err := g.AddOperation(operator.KindTranspose, []int{p0})
		if err != nil {
			return err
		}
		t, err := g.AddOperation(operator.KindDot, []int{p0, gradID})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindDot, []int{t, p0t})
		if err != nil {
			return err
		}
		if err := p.emit(p1, msg); err != nil {
			return err
		}
	}
	return nil
}

// emitMulGrad implements elementwise Mul: the 2-ary case uses cross terms;
// the n-ary (n>2) case uses (c/p_i).g, equivalent to the product of every
// other factor times g.
func emitMulGrad(p *pass, parents []int, nodeID, gradID int) error {
	g := p.graph

	if len(parents) == 2 {
		p0, p1 := parents[0], parents[1]
		if dep0, err := g.IsDependable(p0); err != nil {
			return err
		} else if dep0 {
			msg, err := g.AddOperation(operator.KindMul, []int{p1, gradID})
			if err != nil {
				return err
			}
			if err := p.emit(p0, msg); err != nil {
				return err
			}
		}
		if dep1, err := g.IsDependable(p1); err != nil {
			return err
		} else if dep1 {
			msg, err := g.AddOperation(operator.KindMul, []int{p0, gradID})
			if err != nil {
				return err
			}
			if err := p.emit(p1, msg); err != nil {
				return err
			}
		}
		return nil
	}

	for _, pi := range parents {
		dep, err := g.IsDependable(pi)
		if err != nil {
			return err
		}
		if !dep {
			continue
		}
		divPi, err := g.AddOperation(operator.KindDiv, []int{pi})
		if err != nil {
			return err
		}
		t, err := g.AddOperation(operator.KindMul, []int{nodeID, divPi})
		if err != nil {
			return err
		}
		msg, err := g.AddOperation(operator.KindMul, []int{t, gradID})
		if err != nil {
			return err
		}
		if err := p.emit(pi, msg); err != nil {
			return err
		}
	}
	return nil
}

// emitDotGrad implements the matrix-chain rule for each dependable position
// i in a Dot(p0..p_{n-1}): gradient = (p0.....p_{i-1})^T . g . (p_{i+1}.....
// p_{n-1})^T, collapsing the transposed side to Transpose of the single
// adjacent factor when that side has exactly one factor.
func emitDotGrad(p *pass, parents []int, gradID int) error {
	g := p.graph
	for i, pi := range parents {
		dep, err := g.IsDependable(pi)
		if err != nil {
			return err
		}
		if !dep {
			continue
		}
		msg, err := dotChainGrad(g, parents, gradID, i)
		if err != nil {
			return err
		}
		if err := p.emit(pi, msg); err != nil {
			return err
		}
	}
	return nil
}

func dotChainGrad(g *dagraph.Graph, parents []int, gradID, i int) (int, error) {
	n := len(parents)
	chain := make([]int, 0, 3)

	if i > 0 {
		prefix := parents[0]
		if i > 1 {
			var err error
			prefix, err = g.AddOperation(operator.KindDot, append([]int(nil), parents[:i]...))
			if err != nil {
				return 0, err
			}
		}
		prefixT, err := g.AddOperation(operator.KindTranspose, []int{prefix})
		if err != nil {
			return 0, err
		}
		chain = append(chain, prefixT)
	}

	chain = append(chain, gradID)

	if i < n-1 {
		suffix := parents[n-1]
		if i < n-2 {
			var err error
			suffix, err = g.AddOperation(operator.KindDot, append([]int(nil), parents[i+1:]...))
			if err != nil {
				return 0, err
			}
		}
		suffixT, err := g.AddOperation(operator.KindTranspose, []int{suffix})
		if err != nil {
			return 0, err
		}
		chain = append(chain, suffixT)
	}

	if len(chain) == 1 {
		return chain[0], nil
	}
	return g.AddOperation(operator.KindDot, chain)
}

// emitCatGrad implements HorzCat/VertCat's inverse: slice g into the band
// matching each dependable parent's width (HorzCat) or height (VertCat),
// tracking a running offset, and stopping after the last dependable parent.
func emitCatGrad(p *pass, kind operator.Kind, parents []int, nodeID, gradID int) error {
	g := p.graph

	deps := make([]bool, len(parents))
	lastDep := -1
	for i, par := range parents {
		dep, err := g.IsDependable(par)
		if err != nil {
			return err
		}
		deps[i] = dep
		if dep {
			lastDep = i
		}
	}
	if lastDep < 0 {
		return nil
	}

	zero := g.AddInt(0)
	var fixedExtent int // rows(c) for HorzCat, cols(c) for VertCat
	var err error
	if kind == operator.KindHorzCat {
		fixedExtent, err = g.AddOperation(operator.KindSize, []int{nodeID}, operator.First)
	} else {
		fixedExtent, err = g.AddOperation(operator.KindSize, []int{nodeID}, operator.Second)
	}
	if err != nil {
		return err
	}

	accum := zero
	for i := 0; i <= lastDep; i++ {
		par := parents[i]

		var band operator.Dimension
		if kind == operator.KindHorzCat {
			band = operator.Second
		} else {
			band = operator.First
		}
		size, err := g.AddOperation(operator.KindSize, []int{par}, band)
		if err != nil {
			return err
		}

		if deps[i] {
			var args []int
			if kind == operator.KindHorzCat {
				args = []int{gradID, zero, fixedExtent, accum, size}
			} else {
				args = []int{gradID, accum, size, zero, fixedExtent}
			}
			msg, err := g.AddOperation(operator.KindSubIndex, args)
			if err != nil {
				return err
			}
			if err := p.emit(par, msg); err != nil {
				return err
			}
		}

		if i < lastDep {
			newAccum, err := g.AddOperation(operator.KindAdd, []int{accum, size})
			if err != nil {
				return err
			}
			accum = newAccum
		}
	}
	return nil
}
