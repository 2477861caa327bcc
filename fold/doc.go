// Package fold implements constant folding: a deterministic, local
// algebraic simplifier over a dagraph.Graph that collapses operators whose
// parents are literal constants (or identity/zero operands) and patches
// every cross-reference the rewrite invalidates.
//
// What:
//
//   - Fold(g): one pass over occupied slots in ascending id order, at most
//     one rewrite per visited node. Returns whether anything changed.
//   - FoldToFixedPoint(g, opts...): repeats Fold until a pass changes
//     nothing (or a configured pass budget is exhausted).
//
// Why:
//
//   - A gradient pass emits many literal-valued subexpressions (seed
//     constants, exponents, reduction dimensions); folding them away keeps
//     downstream emitters and any future numeric backend working on a
//     graph proportional to the real computation, not to how verbosely the
//     differentiation pass expressed it.
//
// Key Types:
//
//   - FoldOption: functional options (WithMaxPasses).
//
// Complexity: Fold is O(N) per pass (single id-ordered walk, O(1) rewrite
// check per node save for the n-ary literal-coalescing scan, which is
// O(len(parents))). FoldToFixedPoint is O(N) per pass times the number of
// passes to convergence.
//
// Errors: any error surfaced by the graph operations a rewrite rule
// invokes (AddOperation, SwapChildConnections, PopNode).
package fold
