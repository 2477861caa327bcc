// File: graph.go
// Role: Graph — the process-scoped owner of all nodes. Leaf constructors,
// AddOperation with its classification rule, the id/slot accessors, ordering
// maintenance, and swap-child-connections.
//
// Concurrency: Graph has exclusive-write semantics and carries no lock; the
// single-threaded cooperative model (one mutator at a time, no aliasing
// across operations) is a property callers must honor, not one this package
// enforces at runtime.
package dagraph

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/katalvlaran/symdiff/operator"
)

// GraphOption configures a Graph at construction.
type GraphOption func(g *Graph)

// WithName sets the Graph's display name.
func WithName(name string) GraphOption {
	return func(g *Graph) { g.name = name }
}

// Graph is the expression graph described in the package doc: a sparse,
// append-only node store plus an eagerly maintained topological ordering.
type Graph struct {
	name     string
	counter  int // next id to assign; also len(nodes) before any tombstoning
	gradLevel int

	outputs []int

	// nodes is indexed by id; a nil entry is a tombstoned or not-yet-assigned
	// slot. Occupied iff nodes[id] != nil.
	nodes []*Node

	// ordering holds each occupied id exactly once, in a topological order.
	ordering []int
}

// New returns an empty Graph with counter = 0 and grad_level = 0. A caller
// that does not supply WithName gets a uuid-suffixed default ("graph-xxxx"),
// so graphs printed side by side in logs or diagviz output are distinguishable
// without requiring every call site to invent a name.
func New(opts ...GraphOption) *Graph {
	g := &Graph{}
	for _, opt := range opts {
		opt(g)
	}
	if g.name == "" {
		g.name = "graph-" + uuid.NewString()[:8]
	}
	return g
}

// Name returns the graph's display name.
func (g *Graph) Name() string { return g.name }

// NodeCount returns the raw length of the node store, including tombstoned
// slots; it is the upper bound folding iterates id 0..NodeCount() over.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Len returns the number of occupied slots.
func (g *Graph) Len() int {
	n := 0
	for _, slot := range g.nodes {
		if slot != nil {
			n++
		}
	}
	return n
}

// GradLevel returns the current differentiation depth; incremented once per
// call to a differentiation pass.
func (g *Graph) GradLevel() int { return g.gradLevel }

// Outputs returns a defensive copy of the designated output ids.
func (g *Graph) Outputs() []int {
	out := make([]int, len(g.outputs))
	copy(out, g.outputs)
	return out
}

// AppendOutput designates id as an additional output.
func (g *Graph) AppendOutput(id int) {
	g.outputs = append(g.outputs, id)
}

// Ordering returns a defensive copy of the current topological ordering.
func (g *Graph) Ordering() []int {
	out := make([]int, len(g.ordering))
	copy(out, g.ordering)
	return out
}

// appendNode pushes node into both nodes and ordering, assigning it id ==
// g.counter, and increments counter. Every leaf/operation constructor funnels
// through here so the two stores never drift out of sync.
func (g *Graph) appendNode(node Node) int {
	id := g.counter
	node.id = id
	g.nodes = append(g.nodes, &node)
	g.ordering = append(g.ordering, id)
	g.counter++
	return id
}

// AddParameter creates a Parameter leaf and returns its id.
func (g *Graph) AddParameter(name string) int {
	if name == "" {
		name = defaultName(Parameter, g.gradLevel)
	}
	node := newLeafNode(g.counter, Parameter, name)
	node.gradLevel = g.gradLevel
	return g.appendNode(node)
}

// AddConstInput creates a ConstInput leaf and returns its id.
func (g *Graph) AddConstInput(name string) int {
	if name == "" {
		name = defaultName(ConstInput, g.gradLevel)
	}
	node := newLeafNode(g.counter, ConstInput, name)
	node.gradLevel = g.gradLevel
	return g.appendNode(node)
}

// AddFloat creates a Float literal leaf and returns its id.
func (g *Graph) AddFloat(v float64) int {
	node := newLeafNode(g.counter, Float, defaultName(Float, g.gradLevel))
	node.floatValue = v
	node.gradLevel = g.gradLevel
	return g.appendNode(node)
}

// AddInt creates an Integer literal leaf and returns its id.
func (g *Graph) AddInt(v int64) int {
	node := newLeafNode(g.counter, Integer, defaultName(Integer, g.gradLevel))
	node.intValue = v
	node.gradLevel = g.gradLevel
	return g.appendNode(node)
}

// IncrementGradLevel bumps the graph's differentiation depth and returns the
// new level. Called once per differentiation pass, before any node it
// creates.
func (g *Graph) IncrementGradLevel() int {
	g.gradLevel++
	return g.gradLevel
}

// GetNode returns a read-only pointer to the occupied slot at id, or
// ErrAccessNone if vacant, or ErrIndexOutOfBounds if id is out of range.
func (g *Graph) GetNode(id int) (*Node, error) {
	if id < 0 || id >= len(g.nodes) {
		return nil, fmt.Errorf("%w: id %d", ErrIndexOutOfBounds, id)
	}
	n := g.nodes[id]
	if n == nil {
		return nil, fmt.Errorf("%w: id %d", ErrAccessNone, id)
	}
	return n, nil
}

// GetMutNode returns a mutable pointer to the occupied slot at id. Callers
// may only perform these append-paths: extend children, set grad_child,
// append a grad_parent.
func (g *Graph) GetMutNode(id int) (*Node, error) {
	return g.GetNode(id)
}

// PopNode tombstones the slot at id, returning the node that occupied it.
// It does not touch ordering or any other node's children; callers
// (exclusively the folding pass) are responsible for that bookkeeping.
func (g *Graph) PopNode(id int) (*Node, error) {
	n, err := g.GetNode(id)
	if err != nil {
		return nil, err
	}
	g.nodes[id] = nil
	return n, nil
}

// InsertNode occupies the slot at id with node, overwriting any prior
// occupant (or tombstone). It does not touch ordering.
func (g *Graph) InsertNode(id int, node *Node) error {
	if id < 0 || id >= len(g.nodes) {
		return fmt.Errorf("%w: id %d", ErrIndexOutOfBounds, id)
	}
	node.id = id
	g.nodes[id] = node
	return nil
}

// IsDependable reports whether id names a Parameter or ParameterDerived
// node.
func (g *Graph) IsDependable(id int) (bool, error) {
	n, err := g.GetNode(id)
	if err != nil {
		return false, err
	}
	return n.nodeType.IsDependable(), nil
}

// RemoveLast removes the tail of nodes provided it has no children,
// returning its former position, and prunes it from its ancestors'
// children lists. It is used exclusively by StringToOperator's dim-argument
// elision. Returns ErrLastHasChildren if the tail node has dependents,
// ErrAccessNone if the store is empty.
func (g *Graph) RemoveLast() (int, error) {
	if len(g.nodes) == 0 {
		return 0, ErrAccessNone
	}
	last := len(g.nodes) - 1
	n := g.nodes[last]
	if n == nil {
		return 0, fmt.Errorf("%w: id %d", ErrAccessNone, last)
	}
	if n.HasChildren() {
		return 0, fmt.Errorf("%w: id %d", ErrLastHasChildren, last)
	}
	for _, a := range n.op.Ancestors() {
		if an := g.nodes[a]; an != nil {
			an.removeChild(last)
		}
	}
	g.nodes = g.nodes[:last]
	g.ordering = g.ordering[:len(g.ordering)-1]
	g.counter--
	return last, nil
}

// splitAncestors separates a supplied ancestor-id list into (parents, args)
// per the classification rule's argument-splitting clause: Special
// operators take their first id as parent and the rest as arguments;
// Constant and all other kinds take every supplied id as a parent.
func splitAncestors(kind operator.Kind, ancestorIDs []int) (parents, args []int) {
	if kind.IsSpecial() {
		if len(ancestorIDs) == 0 {
			return nil, nil
		}
		return ancestorIDs[:1], ancestorIDs[1:]
	}
	return ancestorIDs, nil
}

// AddOperation validates and constructs an operator of kind over
// ancestorIDs (optionally carrying dim for Dimension-bearing kinds), wires
// child back-edges from every ancestor, classifies the new node, and
// appends it to nodes/ordering. Returns the new id, or a wrapped operator
// error, or ErrAccessNone/ErrIndexOutOfBounds if an ancestor id is invalid.
func (g *Graph) AddOperation(kind operator.Kind, ancestorIDs []int, dim ...operator.Dimension) (int, error) {
	parents, args := splitAncestors(kind, ancestorIDs)

	op, err := operator.New(kind, parents, args, dim...)
	if err != nil {
		return 0, fmt.Errorf("dagraph: add_operation: %w", err)
	}

	for _, a := range ancestorIDs {
		if _, gerr := g.GetNode(a); gerr != nil {
			return 0, gerr
		}
	}

	nodeType := ConstDerived
	if !kind.IsConstantFamily() {
		for _, p := range parents {
			pn, _ := g.GetNode(p)
			if pn.nodeType.IsDependable() {
				nodeType = ParameterDerived
				break
			}
		}
	}

	node := Node{
		nodeType:  nodeType,
		name:      defaultName(nodeType, g.gradLevel),
		op:        op,
		gradLevel: g.gradLevel,
		gradChild: noGradChild,
	}
	id := g.appendNode(node)

	for _, a := range ancestorIDs {
		// Presence already verified above; GetMutNode cannot fail here.
		an, _ := g.GetMutNode(a)
		an.addChild(id)
	}

	return id, nil
}

// GenerateOrdering computes the spanning ancestry reachable backward from
// targets through operator ancestors, via a worklist, and returns the
// intersection of ordering with that set, preserving ordering's sequence.
func (g *Graph) GenerateOrdering(targets []int) ([]int, error) {
	span := make(map[int]bool, len(targets))
	worklist := make([]int, 0, len(targets))
	for _, t := range targets {
		if !span[t] {
			span[t] = true
			worklist = append(worklist, t)
		}
	}

	for len(worklist) > 0 {
		id := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		n, err := g.GetNode(id)
		if err != nil {
			return nil, err
		}
		for _, a := range n.op.Ancestors() {
			if !span[a] {
				span[a] = true
				worklist = append(worklist, a)
			}
		}
	}

	out := make([]int, 0, len(span))
	for _, id := range g.ordering {
		if span[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

// PruneChild removes childID from parentID's children list. Used by folding
// after a node is tombstoned, to keep its former parents' back-edges
// consistent with the referential-integrity invariant.
func (g *Graph) PruneChild(parentID, childID int) error {
	n, err := g.GetMutNode(parentID)
	if err != nil {
		return err
	}
	n.removeChild(childID)
	return nil
}

// SpliceOrdering removes old's entry from ordering together with every id
// in created (which folding rules append at the tail via AddOperation
// before calling this), then reinserts created, in the given order, at the
// position old occupied. This is the ordering half of a folding rewrite:
// newly minted replacement nodes must precede everything old used to
// precede, not trail at the end where they were appended.
func (g *Graph) SpliceOrdering(old int, created []int) error {
	pos := -1
	for i, id := range g.ordering {
		if id == old {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("%w: id %d not present in ordering", ErrIndexOutOfBounds, old)
	}

	createdSet := make(map[int]bool, len(created))
	for _, id := range created {
		createdSet[id] = true
	}

	kept := make([]int, 0, len(g.ordering))
	for i, id := range g.ordering {
		if i == pos || createdSet[id] {
			continue
		}
		kept = append(kept, id)
	}

	next := make([]int, 0, len(kept)+len(created))
	next = append(next, kept[:pos]...)
	next = append(next, created...)
	next = append(next, kept[pos:]...)
	g.ordering = next
	return nil
}

// ReplaceOutput rewrites every occurrence of old in the outputs list to new.
func (g *Graph) ReplaceOutput(old, new int) {
	for i, id := range g.outputs {
		if id == old {
			g.outputs[i] = new
		}
	}
}

// SwapChildConnections redirects every child of old onto new: each child's
// operator has old replaced by new via SwapParentInPlace/SwapArgumentInPlace
// as appropriate, then new.children is extended with old.children. No-op if
// old == new.
func (g *Graph) SwapChildConnections(old, new int) error {
	if old == new {
		return nil
	}

	oldNode, err := g.GetNode(old)
	if err != nil {
		return err
	}
	newNode, err := g.GetMutNode(new)
	if err != nil {
		return err
	}

	for _, childID := range oldNode.children {
		child, cerr := g.GetMutNode(childID)
		if cerr != nil {
			return cerr
		}
		if serr := child.op.SwapAncestorInPlace(old, new); serr != nil {
			return fmt.Errorf("dagraph: swap_child_connections: %w", serr)
		}
		newNode.addChild(childID)
	}

	return nil
}
