package dagraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/symdiff/dagraph"
	"github.com/katalvlaran/symdiff/operator"
)

// TestStringToOperator_InvalidDimensionArgument covers the negative case
// "sum(x, 3) -> InvalidDimensionArgument": the dim-reducer dispatch only
// accepts a literal in {0,1,2}.
func TestStringToOperator_InvalidDimensionArgument(t *testing.T) {
	g := dagraph.New()
	x := g.AddConstInput("x")
	three := g.AddInt(3)

	_, err := g.StringToOperator("sum", []int{x, three})
	assert.ErrorIs(t, err, operator.ErrInvalidDimensionArgument)
}

// TestStringToOperator_HorzCatSingleParentRejected covers the negative case
// "horzcat(x) -> InvalidNumberOfParents": the n-ary family requires at
// least 2 parents.
func TestStringToOperator_HorzCatSingleParentRejected(t *testing.T) {
	g := dagraph.New()
	x := g.AddConstInput("x")

	_, err := g.StringToOperator("horzcat", []int{x})
	assert.ErrorIs(t, err, operator.ErrInvalidNumberOfParents)
}

// TestStringToOperator_DimReducerRejectsNonLiteralDim covers the dispatch
// rule that sum/l1/l2's final operand must itself be an Integer literal,
// not merely integer-valued.
func TestStringToOperator_DimReducerRejectsNonLiteralDim(t *testing.T) {
	g := dagraph.New()
	x := g.AddConstInput("x")
	dimFloat := g.AddFloat(1.0)

	_, err := g.StringToOperator("sum", []int{x, dimFloat})
	require.Error(t, err)
}
