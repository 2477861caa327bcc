// Package dagraph implements the expression graph: an append-only DAG of
// typed operation nodes with child/parent back-edges, node classification,
// and eagerly maintained topological ordering.
//
// What:
//
//   - Node: owns id, NodeType, name, children, gradient linkage, and the
//     Operator labelling it (operator.KindNone for leaves).
//   - Graph: the process-scoped owner of all nodes. Leaves are created by
//     AddParameter/AddConstInput/AddFloat/AddInt; derived nodes by
//     AddOperation or the textual dispatch table StringToOperator.
//   - GenerateOrdering: computes the spanning ancestry of a target set and
//     returns it intersected with the graph's topological ordering.
//   - SwapChildConnections: redirects every child of one node onto a
//     replacement, used by folding and nowhere else.
//
// Why:
//
//   - Back-edges (child lists) let a differentiation pass walk forward from
//     a node to everything depending on it without a second index.
//   - Ids never get reused or renumbered (tombstones), so a pass that holds
//     an id across calls into the graph never dereferences the wrong node.
//
// Key Types & Constants:
//
//   - NodeType: Float, Integer, ConstInput, Parameter, ConstDerived,
//     ParameterDerived.
//   - Node, Graph, GraphOption.
//
// Complexity:
//
//   - AddParameter/AddConstInput/AddFloat/AddInt/AddOperation: O(len(ancestors)).
//   - GenerateOrdering: O(V+E) via a worklist over ancestor edges.
//   - SwapChildConnections: O(len(old.children)).
//
// Errors:
//
//   - ErrAccessNone, ErrIndexOutOfBounds, ErrUnknownFunction,
//     ErrLastHasChildren, ErrGradientOfConstant, ErrNoGradientMessages, and
//     wrapped operator errors.
package dagraph
