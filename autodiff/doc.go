// Package autodiff implements reverse-mode differentiation over a
// dagraph.Graph: the message-passing pass that, given a target node, walks
// the spanning ancestry in reverse topological order and emits a gradient
// subgraph encoding d(target)/d(p) for every Parameter p that influences it.
//
// What:
//
//   - Gradient(g, target, opts...): the single public entry point. Seeds a
//     constant 1 at target, walks rev_order, accumulates incoming messages
//     per node (summed via an n-ary Add when more than one arrives), and
//     dispatches on the node's operator kind to emit local derivative rules.
//   - HessianVectorProduct(g, target, params, opts...): re-invokes Gradient
//     on a scalar built from the inner product of the first gradient with a
//     fresh ConstInput vector, producing a second-order pass.
//
// Why:
//
//   - Message passing (rather than direct symbolic substitution) lets each
//     node accumulate contributions from every path that reaches it exactly
//     once, which is what reverse-mode differentiation requires for correct
//     results on a DAG rather than a tree.
//
// Key Types:
//
//   - GradientOption: functional options (e.g. WithAppendOutputs).
//
// Complexity: O(V+E) over the spanning ancestry of target — one visit per
// node, one emitted message per dependable ancestor.
//
// Errors:
//
//   - dagraph.ErrGradientOfConstant, dagraph.ErrNoGradientMessages, and any
//     error surfaced by the graph operations a gradient rule invokes.
package autodiff
