// File: dispatch.go
// Role: StringToOperator — the textual dispatch table a parser drives,
// covering the recognized operator name surface.
package dagraph

import (
	"fmt"

	"github.com/katalvlaran/symdiff/operator"
)

// OperatorNames lists every name StringToOperator recognizes. The parser
// rejects any variable declaration that collides with one of these.
var OperatorNames = []string{
	"const", "eye", "sign", "rows", "cols",
	"ones", "zeros", "lt", "lte", "gt", "gte", "eq", "neq",
	"neg", "div", "minv", "tr", "mdiag", "vdiag",
	"cos", "sin", "tan", "cosh", "sinh", "tanh",
	"abs", "log", "exp", "sqrt", "square", "sigm", "rect",
	"sum", "l1", "l2",
	"max", "min", "pow", "quad",
	"subind", "subasign", "reshape", "replicateH", "replicateV",
	"add", "mul", "dot", "horzcat", "vertcat",
}

// IsOperatorName reports whether name collides with a recognized operator
// name; the parser uses this to reject variable declarations.
func IsOperatorName(name string) bool {
	for _, n := range OperatorNames {
		if n == name {
			return true
		}
	}
	return false
}

var fixedKind = map[string]operator.Kind{
	"const": operator.KindConst,
	"eye":   operator.KindEye,
	"sign":  operator.KindSign,

	"ones": operator.KindOnes, "zeros": operator.KindZeros,
	"lt": operator.KindLessThan, "lte": operator.KindLessThanOrEqual,
	"gt": operator.KindGreaterThan, "gte": operator.KindGreaterThanOrEqual,
	"eq": operator.KindEquals, "neq": operator.KindNotEquals,

	"neg": operator.KindNeg, "div": operator.KindDiv, "minv": operator.KindMatrixInverse,
	"tr": operator.KindTranspose, "mdiag": operator.KindMatrixDiag, "vdiag": operator.KindVectorDiag,
	"cos": operator.KindCos, "sin": operator.KindSin, "tan": operator.KindTan,
	"cosh": operator.KindCosH, "sinh": operator.KindSinH, "tanh": operator.KindTanH,
	"abs": operator.KindAbs, "log": operator.KindLog, "exp": operator.KindExp,
	"sqrt": operator.KindSqrt, "square": operator.KindSquare,
	"sigm": operator.KindSigmoid, "rect": operator.KindRectifier,

	"max": operator.KindMax, "min": operator.KindMin, "pow": operator.KindPow, "quad": operator.KindQuadratic,

	"subind": operator.KindSubIndex, "subasign": operator.KindSubAssign,
	"reshape": operator.KindReshape,
	"replicateH": operator.KindReplicateHorz, "replicateV": operator.KindReplicateVert,

	"add": operator.KindAdd, "mul": operator.KindMul, "dot": operator.KindDot,
	"horzcat": operator.KindHorzCat, "vertcat": operator.KindVertCat,
}

var dimReducers = map[string]operator.Kind{
	"sum": operator.KindSum,
	"l1":  operator.KindL1,
	"l2":  operator.KindL2,
}

// rows/cols are sugar over Size(First)/Size(Second); the dispatch table
// resolves them to operator.KindSize with the corresponding Dimension rather
// than exposing a distinct operator kind.

// StringToOperator dispatches a textual operator name and its operand ids
// through AddOperation, following the recognized name surface. For the
// reducers sum/l1/l2 the final operand must be a literal Integer node with
// value in {0,1,2} (mapped 0->All, 1->First, 2->Second); if that node has no
// other children and is the graph's current tail, it is elided via
// RemoveLast before the dimension-specialized operation is issued.
func (g *Graph) StringToOperator(name string, args []int) (int, error) {
	switch name {
	case "rows":
		return g.addDimensionless(operator.KindSize, args, operator.First)
	case "cols":
		return g.addDimensionless(operator.KindSize, args, operator.Second)
	case "sum", "l1", "l2":
		return g.addDimReducer(dimReducers[name], args)
	}

	kind, ok := fixedKind[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return g.AddOperation(kind, args)
}

// addDimensionless handles rows/cols sugar: Size carries a fixed Dimension
// regardless of the literal argument scheme reducers use.
func (g *Graph) addDimensionless(kind operator.Kind, args []int, dim operator.Dimension) (int, error) {
	return g.AddOperation(kind, args, dim)
}

// addDimReducer implements the sum/l1/l2 dim-argument elision rule.
func (g *Graph) addDimReducer(kind operator.Kind, args []int) (int, error) {
	if len(args) != 2 {
		return 0, fmt.Errorf("dagraph: %s: %w", kind, operator.ErrInvalidNumberOfArguments)
	}
	operand, dimArgID := args[0], args[1]

	dimNode, err := g.GetNode(dimArgID)
	if err != nil {
		return 0, err
	}
	if dimNode.nodeType != Integer {
		return 0, fmt.Errorf("%w: dimension argument must be an integer literal", operator.ErrInvalidDimensionArgument)
	}
	dim, err := operator.DimensionFromInt(dimNode.intValue)
	if err != nil {
		return 0, err
	}

	if dimArgID == len(g.nodes)-1 && !dimNode.HasChildren() {
		if _, rerr := g.RemoveLast(); rerr != nil {
			return 0, rerr
		}
	}

	return g.AddOperation(kind, []int{operand}, dim)
}
