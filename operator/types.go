// File: types.go
// Role: Dimension and Kind enums, and the arity table every constructor
// validates against.
package operator

// Dimension tags the axis a reductive operator (Sum, L1, L2, Size) collapses
// or replicates along.
type Dimension uint8

const (
	// First is the row axis.
	First Dimension = iota
	// Second is the column axis.
	Second
	// All collapses/replicates across both axes.
	All
)

// String renders the Dimension for diagnostics and emitter labels.
func (d Dimension) String() string {
	switch d {
	case First:
		return "First"
	case Second:
		return "Second"
	case All:
		return "All"
	default:
		return "Dimension(?)"
	}
}

// DimensionFromInt maps the literal integer values a parser produces (0, 1,
// 2) onto Dimension: 0->All, 1->First, 2->Second. It returns
// ErrInvalidDimensionArgument for any other value.
func DimensionFromInt(v int64) (Dimension, error) {
	switch v {
	case 0:
		return All, nil
	case 1:
		return First, nil
	case 2:
		return Second, nil
	default:
		return 0, ErrInvalidDimensionArgument
	}
}

// Kind is a tagged variant over the closed operator taxonomy: Constant,
// Unary, Binary, N-ary, and Special families. The zero value, KindNone, is
// the sentinel "no operator" used by leaf nodes.
type Kind uint8

const (
	// KindNone is the Constant-None family: leaves carry no operator.
	KindNone Kind = iota

	// Constant-Unary family (1 parent, 0 args, Dimension embedded for Size).
	KindConst
	KindEye
	KindSign
	KindSize

	// Constant-Binary family (2 parents, 0 args).
	KindOnes
	KindZeros
	KindLessThan
	KindLessThanOrEqual
	KindGreaterThan
	KindGreaterThanOrEqual
	KindEquals
	KindNotEquals

	// Unary family (1 parent, 0 args; Dimension embedded for Sum/L1/L2).
	KindNeg
	KindDiv
	KindMatrixInverse
	KindTranspose
	KindMatrixDiag
	KindVectorDiag
	KindCos
	KindSin
	KindTan
	KindCosH
	KindSinH
	KindTanH
	KindAbs
	KindLog
	KindExp
	KindSqrt
	KindSquare
	KindSigmoid
	KindRectifier
	KindSum
	KindL2
	KindL1

	// Binary family (2 parents, 0 args).
	KindMax
	KindMin
	KindPow
	KindQuadratic

	// N-ary family (>= 2 parents, 0 args).
	KindAdd
	KindMul
	KindDot
	KindHorzCat
	KindVertCat

	// Special-unary family (1 parent, fixed argument count).
	KindSubIndex   // 4 args: startX, sizeX, startY, sizeY
	KindSubAssign  // 4 args: startX, sizeX, startY, sizeY
	KindReshape    // 2 args: rows, cols
	KindReplicateHorz // 1 arg: count
	KindReplicateVert // 1 arg: count
)

// kindNames backs Kind.String; index == Kind value.
var kindNames = [...]string{
	"None",
	"Const", "Eye", "Sign", "Size",
	"Ones", "Zeros", "LessThan", "LessThanOrEqual", "GreaterThan", "GreaterThanOrEqual", "Equals", "NotEquals",
	"Neg", "Div", "MatrixInverse", "Transpose", "MatrixDiag", "VectorDiag",
	"Cos", "Sin", "Tan", "CosH", "SinH", "TanH",
	"Abs", "Log", "Exp", "Sqrt", "Square", "Sigmoid", "Rectifier",
	"Sum", "L2", "L1",
	"Max", "Min", "Pow", "Quadratic",
	"Add", "Mul", "Dot", "HorzCat", "VertCat",
	"SubIndex", "SubAssign", "Reshape", "ReplicateHorz", "ReplicateVert",
}

// String renders the Kind's name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// arity describes how many parents and arguments a Kind requires. A
// negative parents count means "variadic" (n-ary family); -2 is used as the
// sentinel for "at least 2".
type arity struct {
	parents   int // exact count, or -2 meaning "at least 2"
	arguments int
	hasDim    bool // Kind embeds a Dimension (Size, Sum, L2, L1)
}

// arityTable is the single source of truth every constructor validates
// against; it mirrors the parent/argument contract for each operator family.
var arityTable = map[Kind]arity{
	KindNone: {0, 0, false},

	KindConst: {1, 0, false},
	KindEye:   {1, 0, false},
	KindSign:  {1, 0, false},
	KindSize:  {1, 0, true},

	KindOnes:               {2, 0, false},
	KindZeros:              {2, 0, false},
	KindLessThan:           {2, 0, false},
	KindLessThanOrEqual:    {2, 0, false},
	KindGreaterThan:        {2, 0, false},
	KindGreaterThanOrEqual: {2, 0, false},
	KindEquals:             {2, 0, false},
	KindNotEquals:          {2, 0, false},

	KindNeg:           {1, 0, false},
	KindDiv:           {1, 0, false},
	KindMatrixInverse: {1, 0, false},
	KindTranspose:     {1, 0, false},
	KindMatrixDiag:    {1, 0, false},
	KindVectorDiag:    {1, 0, false},
	KindCos:           {1, 0, false},
	KindSin:           {1, 0, false},
	KindTan:           {1, 0, false},
	KindCosH:          {1, 0, false},
	KindSinH:          {1, 0, false},
	KindTanH:          {1, 0, false},
	KindAbs:           {1, 0, false},
	KindLog:           {1, 0, false},
	KindExp:           {1, 0, false},
	KindSqrt:          {1, 0, false},
	KindSquare:        {1, 0, false},
	KindSigmoid:       {1, 0, false},
	KindRectifier:     {1, 0, false},
	KindSum:           {1, 0, true},
	KindL2:            {1, 0, true},
	KindL1:            {1, 0, true},

	KindMax:       {2, 0, false},
	KindMin:       {2, 0, false},
	KindPow:       {2, 0, false},
	KindQuadratic: {2, 0, false},

	KindAdd:     {-2, 0, false},
	KindMul:     {-2, 0, false},
	KindDot:     {-2, 0, false},
	KindHorzCat: {-2, 0, false},
	KindVertCat: {-2, 0, false},

	KindSubIndex:      {1, 4, false},
	KindSubAssign:     {1, 4, false},
	KindReshape:       {1, 2, false},
	KindReplicateHorz: {1, 1, false},
	KindReplicateVert: {1, 1, false},
}

// IsConstantFamily reports whether k is Constant-None, Constant-Unary, or
// Constant-Binary: these always classify as ConstDerived regardless of
// their parents' classification.
func (k Kind) IsConstantFamily() bool {
	switch k {
	case KindNone, KindConst, KindEye, KindSign, KindSize,
		KindOnes, KindZeros, KindLessThan, KindLessThanOrEqual,
		KindGreaterThan, KindGreaterThanOrEqual, KindEquals, KindNotEquals:
		return true
	default:
		return false
	}
}

// IsSpecial reports whether k is a special-unary operator (one parent plus
// fixed arguments): SubIndex, SubAssign, Reshape, ReplicateHorz,
// ReplicateVert.
func (k Kind) IsSpecial() bool {
	switch k {
	case KindSubIndex, KindSubAssign, KindReshape, KindReplicateHorz, KindReplicateVert:
		return true
	default:
		return false
	}
}

// IsNary reports whether k belongs to the n-ary family (Add, Mul, Dot,
// HorzCat, VertCat): those accept any number of parents >= 2.
func (k Kind) IsNary() bool {
	a, ok := arityTable[k]
	return ok && a.parents == -2
}

// HasDimension reports whether k embeds a Dimension tag (Size, Sum, L2, L1).
func (k Kind) HasDimension() bool {
	a, ok := arityTable[k]
	return ok && a.hasDim
}
