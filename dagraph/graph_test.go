package dagraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/symdiff/dagraph"
	"github.com/katalvlaran/symdiff/operator"
)

func TestLeafConstructors(t *testing.T) {
	g := dagraph.New()

	p := g.AddParameter("w")
	ci := g.AddConstInput("x")
	f := g.AddFloat(3.5)
	i := g.AddInt(2)

	assert.Equal(t, 4, g.Len())

	pn, err := g.GetNode(p)
	require.NoError(t, err)
	assert.Equal(t, dagraph.Parameter, pn.NodeType())
	assert.Equal(t, "w", pn.Name())

	cn, err := g.GetNode(ci)
	require.NoError(t, err)
	assert.Equal(t, dagraph.ConstInput, cn.NodeType())

	fn, err := g.GetNode(f)
	require.NoError(t, err)
	assert.Equal(t, 3.5, fn.FloatValue())

	in, err := g.GetNode(i)
	require.NoError(t, err)
	assert.Equal(t, int64(2), in.IntValue())
}

func TestAddOperation_ClassificationRule(t *testing.T) {
	g := dagraph.New()
	a := g.AddConstInput("a")
	b := g.AddParameter("b")

	sumConst, err := g.AddOperation(operator.KindAdd, []int{a, a})
	require.NoError(t, err)
	sn, err := g.GetNode(sumConst)
	require.NoError(t, err)
	assert.Equal(t, dagraph.ConstDerived, sn.NodeType())

	sumParam, err := g.AddOperation(operator.KindAdd, []int{a, b})
	require.NoError(t, err)
	pn, err := g.GetNode(sumParam)
	require.NoError(t, err)
	assert.Equal(t, dagraph.ParameterDerived, pn.NodeType())
}

func TestAddOperation_WiresChildBackEdges(t *testing.T) {
	g := dagraph.New()
	a := g.AddConstInput("a")
	b := g.AddConstInput("b")

	sum, err := g.AddOperation(operator.KindAdd, []int{a, b})
	require.NoError(t, err)

	an, err := g.GetNode(a)
	require.NoError(t, err)
	assert.Contains(t, an.Children(), sum)

	bn, err := g.GetNode(b)
	require.NoError(t, err)
	assert.Contains(t, bn.Children(), sum)
}

func TestAddOperation_ConstantFamilyNeverPromotes(t *testing.T) {
	g := dagraph.New()
	p := g.AddParameter("p")

	// Const is Constant-Unary: always ConstDerived, even over a Parameter.
	id, err := g.AddOperation(operator.KindConst, []int{p})
	require.NoError(t, err)
	n, err := g.GetNode(id)
	require.NoError(t, err)
	assert.Equal(t, dagraph.ConstDerived, n.NodeType())
}

func TestGetNode_VacantAndOutOfBounds(t *testing.T) {
	g := dagraph.New()
	g.AddConstInput("a")

	_, err := g.GetNode(99)
	assert.ErrorIs(t, err, dagraph.ErrIndexOutOfBounds)

	id, err := g.PopNode(0)
	require.NoError(t, err)
	assert.Equal(t, 0, id.ID())

	_, err = g.GetNode(0)
	assert.ErrorIs(t, err, dagraph.ErrAccessNone)
}

func TestRemoveLast(t *testing.T) {
	g := dagraph.New()
	a := g.AddConstInput("a")
	b := g.AddConstInput("b")
	_, err := g.AddOperation(operator.KindAdd, []int{a, b})
	require.NoError(t, err)

	// The sum node is the tail and has no children, so it can be removed.
	before := g.Len()
	pos, err := g.RemoveLast()
	require.NoError(t, err)
	assert.Equal(t, before-1, g.Len())
	assert.Equal(t, 2, pos)

	// b is now the tail, and removing sum pruned it from b's children, so
	// b can be removed too.
	_, err = g.RemoveLast()
	require.NoError(t, err)
}

func TestGenerateOrdering_SpanningAncestry(t *testing.T) {
	g := dagraph.New()
	a := g.AddConstInput("a")
	b := g.AddConstInput("b")
	c := g.AddConstInput("unrelated")
	sum, err := g.AddOperation(operator.KindAdd, []int{a, b})
	require.NoError(t, err)

	order, err := g.GenerateOrdering([]int{sum})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{a, b, sum}, order)
	assert.NotContains(t, order, c)

	// ordering sequence is preserved: ancestors precede the sum.
	posA, posB, posSum := indexOf(order, a), indexOf(order, b), indexOf(order, sum)
	assert.Less(t, posA, posSum)
	assert.Less(t, posB, posSum)
}

func TestSwapChildConnections(t *testing.T) {
	g := dagraph.New()
	a := g.AddConstInput("a")
	b := g.AddConstInput("b")
	neg, err := g.AddOperation(operator.KindNeg, []int{a})
	require.NoError(t, err)

	require.NoError(t, g.SwapChildConnections(a, b))

	negNode, err := g.GetNode(neg)
	require.NoError(t, err)
	assert.Equal(t, []int{b}, negNode.Operator().Parents())

	bn, err := g.GetNode(b)
	require.NoError(t, err)
	assert.Contains(t, bn.Children(), neg)
}

func TestStringToOperator_DimReducerElision(t *testing.T) {
	g := dagraph.New()
	p := g.AddConstInput("c")
	before := g.Len()
	dim := g.AddInt(1) // First, tail node, no other children

	id, err := g.StringToOperator("sum", []int{p, dim})
	require.NoError(t, err)

	// The literal dimension node was elided: Len grew by exactly 1 (the sum
	// node), not 2.
	assert.Equal(t, before+1, g.Len())

	n, err := g.GetNode(id)
	require.NoError(t, err)
	assert.Equal(t, operator.KindSum, n.Operator().Kind())
	assert.Equal(t, operator.First, n.Operator().Dimension())
}

func TestStringToOperator_UnknownName(t *testing.T) {
	g := dagraph.New()
	a := g.AddConstInput("a")
	_, err := g.StringToOperator("bogus", []int{a})
	assert.ErrorIs(t, err, dagraph.ErrUnknownFunction)
}

func TestIsOperatorName(t *testing.T) {
	assert.True(t, dagraph.IsOperatorName("sum"))
	assert.True(t, dagraph.IsOperatorName("dot"))
	assert.False(t, dagraph.IsOperatorName("my_var"))
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
