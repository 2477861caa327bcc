// File: errors.go
// Role: sentinel errors for the graph package, matching the failure taxonomy
// the differentiation and folding passes branch on with errors.Is.
package dagraph

import "errors"

// ErrAccessNone indicates a lookup targeted a tombstoned or never-occupied slot.
var ErrAccessNone = errors.New("dagraph: access of vacant slot")

// ErrIndexOutOfBounds indicates an id outside [0, counter).
var ErrIndexOutOfBounds = errors.New("dagraph: index out of bounds")

// ErrUnknownFunction indicates StringToOperator received a name outside the
// recognized dispatch surface.
var ErrUnknownFunction = errors.New("dagraph: unknown function name")

// ErrLastHasChildren indicates RemoveLast was called on a tail node that
// already has children.
var ErrLastHasChildren = errors.New("dagraph: last node has children")

// ErrGradientOfConstant indicates gradient flow reached a node that is
// provably constant (Constant-family operator, or a leaf that is not a
// Parameter); constants must never receive an incoming gradient message.
var ErrGradientOfConstant = errors.New("dagraph: gradient flow reached a constant node")

// ErrNoGradientMessages indicates the differentiation pass reached a node in
// the spanning set that received no incoming message; this signals a defect
// in ordering, not a property of the expression itself.
var ErrNoGradientMessages = errors.New("dagraph: node received no gradient messages")
