// File: gradient.go
// Role: the Gradient entry point and the pass driver it builds on — message
// accumulation, dynamic span tracking, and the reverse walk over the
// graph's topological ordering.
package autodiff

import (
	"fmt"

	"github.com/katalvlaran/symdiff/dagraph"
	"github.com/katalvlaran/symdiff/operator"
)

// GradientOption configures a differentiation pass.
type GradientOption func(*config)

type config struct {
	appendOutputs bool
}

func newConfig(opts ...GradientOption) config {
	c := config{appendOutputs: true}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithAppendOutputs controls whether Gradient appends every reached
// Parameter's grad_child to the graph's output list after the pass
// completes. Defaults to true: a differentiation pass that doesn't expose
// its results as outputs would be unreachable from any later emitter or
// higher-order pass.
func WithAppendOutputs(append bool) GradientOption {
	return func(c *config) { c.appendOutputs = append }
}

// pass carries the per-invocation mutable state the dispatch rules in
// rules.go read and write: the graph being extended, the accumulated
// incoming-message lists, and the dynamically-discovered spanning set.
type pass struct {
	graph    *dagraph.Graph
	messages map[int][]int
	span     map[int]bool
}

// emit records msg as an incoming gradient message for ancestor, provided
// ancestor is dependable (Parameter or ParameterDerived); constants receive
// no message and are never added to span, matching "skip non-dependable
// ancestors" exactly.
func (p *pass) emit(ancestor, msg int) error {
	dep, err := p.graph.IsDependable(ancestor)
	if err != nil {
		return err
	}
	if !dep {
		return nil
	}
	p.messages[ancestor] = append(p.messages[ancestor], msg)
	p.span[ancestor] = true
	return nil
}

// Gradient extends g with a gradient subgraph encoding d(target)/d(p) for
// every Parameter p that transitively influences target.
//
// Preconditions: target must name an occupied slot. If target is not
// Parameter or ParameterDerived the pass is a no-op (gradient is zero
// everywhere) and returns nil without adding any node.
//
// Algorithm: increments g's grad level, seeds a fresh Integer(1) as
// target's sole incoming message, then walks g's topological ordering in
// reverse starting from target's position, processing only nodes the
// dynamically growing span set has marked reachable. Each visited node's
// messages are summed (via an n-ary Add when more than one arrived), linked
// as its grad_child, and dispatched per rules.go to propagate messages
// further back.
func Gradient(g *dagraph.Graph, target int, opts ...GradientOption) error {
	cfg := newConfig(opts...)

	targetNode, err := g.GetNode(target)
	if err != nil {
		return err
	}
	if !targetNode.NodeType().IsDependable() {
		return nil
	}

	g.IncrementGradLevel()

	ordering := g.Ordering()
	targetPos := -1
	for i, id := range ordering {
		if id == target {
			targetPos = i
			break
		}
	}
	if targetPos < 0 {
		return fmt.Errorf("autodiff: target %d not present in graph ordering", target)
	}

	seed := g.AddInt(1)

	p := &pass{
		graph:    g,
		messages: map[int][]int{target: {seed}},
		span:     map[int]bool{target: true},
	}

	reached := make(map[int]int, 8) // node id -> grad_child id, for output designation

	for i := targetPos; i >= 0; i-- {
		id := ordering[i]
		if !p.span[id] {
			continue
		}

		msgs := p.messages[id]
		if len(msgs) == 0 {
			return dagraph.ErrNoGradientMessages
		}

		gradID := msgs[0]
		if len(msgs) > 1 {
			gradID, err = g.AddOperation(operator.KindAdd, msgs)
			if err != nil {
				return err
			}
		}

		node, err := g.GetMutNode(id)
		if err != nil {
			return err
		}
		node.SetGradChild(gradID)
		gradNode, err := g.GetMutNode(gradID)
		if err != nil {
			return err
		}
		gradNode.AddGradParent(id)

		if node.NodeType() == dagraph.Parameter {
			reached[id] = gradID
		}

		if err := emitGradientMessages(p, node, id, gradID); err != nil {
			return err
		}
	}

	if cfg.appendOutputs {
		for _, id := range ordering {
			if gradID, ok := reached[id]; ok {
				g.AppendOutput(gradID)
			}
		}
	}

	return nil
}

// HessianVectorProduct computes a second-order differentiation pass: it
// builds the inner product of target's first gradient (w.r.t. each id in
// params, summed) with a fresh ConstInput vector v, then differentiates
// that scalar, producing the Hessian-vector product subgraph. Each
// parameter's resulting grad_child at the new grad level is its
// contribution to H.v.
func HessianVectorProduct(g *dagraph.Graph, target int, params []int, opts ...GradientOption) error {
	if err := Gradient(g, target, WithAppendOutputs(false)); err != nil {
		return err
	}

	gradIDs := make([]int, 0, len(params))
	for _, p := range params {
		pn, err := g.GetNode(p)
		if err != nil {
			return err
		}
		if pn.GradChild() == noGradChildPlaceholder {
			continue
		}
		gradIDs = append(gradIDs, pn.GradChild())
	}
	if len(gradIDs) == 0 {
		return nil
	}

	v := g.AddConstInput("")
	var scalar int
	var err error
	if len(gradIDs) == 1 {
		scalar, err = g.AddOperation(operator.KindDot, []int{gradIDs[0], v})
	} else {
		terms := make([]int, 0, len(gradIDs))
		for _, gid := range gradIDs {
			t, terr := g.AddOperation(operator.KindDot, []int{gid, v})
			if terr != nil {
				return terr
			}
			terms = append(terms, t)
		}
		scalar, err = g.AddOperation(operator.KindAdd, terms)
	}
	if err != nil {
		return err
	}

	return Gradient(g, scalar, opts...)
}

// noGradChildPlaceholder mirrors dagraph's internal "no gradient yet"
// sentinel; kept local since Node does not export it directly.
const noGradChildPlaceholder = -1
