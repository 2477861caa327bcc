// File: errors.go
// Role: sentinel errors the folding pass can surface.
package fold

import "errors"

// ErrFoldingGradientNode indicates a rewrite rule attempted to tombstone a
// node that is itself recorded as another node's gradient (grad_parents is
// non-empty); folding a node still referenced by gradient linkage would
// silently corrupt that linkage, so this is refused instead.
var ErrFoldingGradientNode = errors.New("fold: cannot fold a node with non-empty grad_parents")
