// File: errors.go
// Role: sentinel errors for the operator package.
//
// Error policy (explicit and strict, matching lvlath's builder/errors.go):
//   - Only sentinel variables (package-level) are exposed.
//   - Callers MUST use errors.Is to branch on semantics.
//   - Sentinels are never wrapped with formatted strings at definition site;
//     constructors attach context with fmt.Errorf("%w: ...").

package operator

import "errors"

// ErrParentNotFound indicates a swap targeted a parent id that is not
// present in the operator's parent list.
var ErrParentNotFound = errors.New("operator: parent not found")

// ErrArgumentNotFound indicates a swap targeted an argument id that is not
// present in the operator's argument list.
var ErrArgumentNotFound = errors.New("operator: argument not found")

// ErrAncestorNotFound indicates a swap-ancestor call targeted an id that is
// neither a parent nor an argument.
var ErrAncestorNotFound = errors.New("operator: ancestor not found")

// ErrInvalidNumberOfParents indicates a constructor received a parent count
// that does not match Kind's arity contract.
var ErrInvalidNumberOfParents = errors.New("operator: invalid number of parents")

// ErrInvalidNumberOfArguments indicates a constructor received an argument
// count that does not match Kind's arity contract.
var ErrInvalidNumberOfArguments = errors.New("operator: invalid number of arguments")

// ErrInvalidDimensionArgument indicates a Dimension-carrying constructor
// received a raw integer outside {0,1,2} (All, First, Second).
var ErrInvalidDimensionArgument = errors.New("operator: invalid dimension argument")

// ErrUnknownKind indicates a Kind value outside the closed taxonomy was
// passed to New.
var ErrUnknownKind = errors.New("operator: unknown kind")
