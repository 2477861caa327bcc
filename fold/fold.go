// File: fold.go
// Role: the Fold/FoldToFixedPoint driver and the shared rewrite-application
// epilogue every rule in rules.go funnels through.
package fold

import (
	"github.com/katalvlaran/symdiff/dagraph"
)

// FoldOption configures FoldToFixedPoint.
type FoldOption func(*foldConfig)

type foldConfig struct {
	maxPasses int // 0 means unbounded
}

// WithMaxPasses bounds FoldToFixedPoint to at most n passes, guarding
// against a rewrite rule cycle that never settles. 0 (the default) means
// unbounded: iterate until a pass changes nothing.
func WithMaxPasses(n int) FoldOption {
	return func(c *foldConfig) { c.maxPasses = n }
}

// Fold walks occupied slots in ascending id order, attempting exactly one
// rewrite per visited node, and returns whether anything changed.
//
// Folding a node shifts ids below it that the loop has not reached yet only
// in the sense that new literal/operation nodes are appended beyond the
// current counter and then spliced earlier in ordering; id order iteration
// here is over the node store directly (by index), which folding never
// reorders, so a single forward sweep sees every originally-occupied slot
// exactly once.
func Fold(g *dagraph.Graph) (bool, error) {
	changed := false

	id := 0
	for id < g.NodeCount() {
		n, err := g.GetNode(id)
		if err != nil {
			id++
			continue // tombstoned or never occupied; nothing to fold
		}

		rewrote, err := tryFold(g, n, id)
		if err != nil {
			return changed, err
		}
		if rewrote {
			changed = true
		}
		id++
	}

	return changed, nil
}

// FoldToFixedPoint repeats Fold until a pass reports no change, or until
// maxPasses is exhausted (WithMaxPasses), and returns the number of passes
// that made at least one change.
func FoldToFixedPoint(g *dagraph.Graph, opts ...FoldOption) (int, error) {
	cfg := foldConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	passes := 0
	for {
		changed, err := Fold(g)
		if err != nil {
			return passes, err
		}
		if !changed {
			return passes, nil
		}
		passes++
		if cfg.maxPasses > 0 && passes >= cfg.maxPasses {
			return passes, nil
		}
	}
}

// applyRewrite performs the shared epilogue every rule uses once it has
// decided on a replacement id and the (possibly empty) set of brand-new
// nodes it created along the way: redirect old's children onto replacement,
// prune old from its ancestors' children lists, tombstone old, splice
// created into old's former ordering position, and fix up outputs.
func applyRewrite(g *dagraph.Graph, old, replacement int, created []int) error {
	oldNode, err := g.GetNode(old)
	if err != nil {
		return err
	}
	if len(oldNode.GradParents()) > 0 {
		return ErrFoldingGradientNode
	}
	ancestors := oldNode.Operator().Ancestors()

	if err := g.SwapChildConnections(old, replacement); err != nil {
		return err
	}

	for _, a := range ancestors {
		if err := g.PruneChild(a, old); err != nil {
			return err
		}
	}

	if _, err := g.PopNode(old); err != nil {
		return err
	}

	if err := g.SpliceOrdering(old, created); err != nil {
		return err
	}

	g.ReplaceOutput(old, replacement)
	return nil
}
