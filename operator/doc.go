// Package operator defines the closed taxonomy of operation kinds that can
// label a node in an expression graph, together with the arity contracts
// that every constructor enforces and the ancestor-swap primitives the
// graph and the differentiation/folding passes build on.
//
// An Operator never holds a pointer to a node; it holds the positional ids
// of its parents and, for the special unary family, its fixed arguments.
// This keeps swapping a pure, allocation-light rewrite of a small slice,
// while referential integrity (do the ids still exist?) is the graph's job,
// not the operator's.
//
// Complexity: every operation here is O(len(parents)+len(args)), i.e. O(1)
// for all kinds except the n-ary family, where it is O(number of parents).
package operator
