// Package solver implements the recursive belief-propagation core: forward
// deduction, backward induction, and the evidence-conditioned solve that
// combines them.
//
// The solver is purely functional. Sessions are threaded by return value, so
// a Solver bound to an immutable node mapping may be used from any number of
// goroutines without coordination. Termination relies on the forward
// dependency graph being acyclic; that is a precondition of the whole engine,
// not something the solver checks at runtime.
package solver

import (
	"sort"

	"github.com/aretw0/credence/pkg/belief"
	"github.com/aretw0/credence/pkg/domain"
)

// Solver binds a node mapping and a prior table for the duration of a solve.
type Solver struct {
	nodes  map[string]domain.Node
	priors map[string]belief.Belief
}

// New creates a solver over the given nodes and priors. Both maps are read
// only; nil priors means an empty table.
func New(nodes map[string]domain.Node, priors map[string]belief.Belief) *Solver {
	return &Solver{nodes: nodes, priors: priors}
}

// Deduce propagates beliefs forward to name, returning the session extended
// with every belief computed along the way. A session entry short-circuits
// recomputation, which is also how pre-seeded evidence overrides rules. An
// unresolvable variable leaves the session without an entry for it.
func (s *Solver) Deduce(name string, sess Session) Session {
	return s.deduce(name, sess, map[string]bool{})
}

// active tracks the deduction call chain. A forward rule asking for a
// variable that is already being deduced resolves to nothing instead of
// recursing forever; on acyclic input the guard never fires.
func (s *Solver) deduce(name string, sess Session, active map[string]bool) Session {
	if _, done := sess.Get(name); done {
		return sess
	}
	node, ok := s.nodes[name]
	if !ok || node.Forward == nil || active[name] {
		return sess
	}
	active[name] = true
	defer delete(active, name)

	cur := sess
	resolve := func(parent string) (belief.Belief, bool) {
		if b, ok := cur.Get(parent); ok {
			return b, true
		}
		cur = s.deduce(parent, cur, active)
		return cur.Get(parent)
	}

	if b, ok := node.Forward(resolve); ok {
		return cur.With(name, b)
	}
	return cur
}

// Induce propagates evidence backward from the downstream set of name,
// returning the partial mapping of re-derived beliefs (name's own update
// included when its rule succeeds). visited guards against reprocessing a
// node reachable via multiple paths within one call tree, e.g. a diamond
// with a shared descendant; it does not make cyclic graphs safe.
func (s *Solver) Induce(name string, sess Session, visited map[string]bool) map[string]belief.Belief {
	if visited[name] {
		return nil
	}
	node, ok := s.nodes[name]
	if !ok || node.Backward == nil {
		return nil
	}

	nested := make(map[string]bool, len(visited)+1)
	for k := range visited {
		nested[k] = true
	}
	nested[name] = true

	children := map[string]belief.Belief{}
	for _, end := range node.Backward.Ends {
		for k, v := range s.Induce(end, sess, nested) {
			children[k] = v
		}
	}

	cur := sess
	resolve := func(n string) (belief.Belief, bool) {
		if b, ok := children[n]; ok {
			return b, true
		}
		cur = s.Deduce(n, cur)
		return cur.Get(n)
	}

	if b, ok := node.Backward.Update(resolve); ok {
		out := make(map[string]belief.Belief, len(children)+1)
		for k, v := range children {
			out[k] = v
		}
		out[name] = b
		return out
	}
	return children
}

// Apply runs one complete solve: the session is seeded with priors overridden
// by evidence, then every variable is deduced and induced from that same
// seed. The exhaustive walk guarantees a posterior reachable only through a
// different starting variable is still discovered. Evidence always survives
// into the result: an observed variable stays clamped.
func (s *Solver) Apply(evidence map[string]belief.Belief) map[string]belief.Belief {
	seed := NewSession(s.priors, evidence)

	total := map[string]belief.Belief{}
	for name, b := range seed {
		total[name] = b
	}

	for _, name := range s.names() {
		for k, v := range s.Deduce(name, seed) {
			total[k] = v
		}
		for k, v := range s.Induce(name, seed, map[string]bool{}) {
			total[k] = v
		}
	}

	for name, b := range evidence {
		total[name] = b
	}
	return total
}

// Evaluate runs a forward rule against the session, resolving parents through
// Deduce. The iteration engine uses this to compute one-step-ahead beliefs
// for temporal nodes whose present belief is already seeded (plain Deduce
// would short-circuit on the seeded entry).
func (s *Solver) Evaluate(rule domain.ForwardRule, sess Session) (belief.Belief, bool) {
	cur := sess
	active := map[string]bool{}
	resolve := func(parent string) (belief.Belief, bool) {
		if b, ok := cur.Get(parent); ok {
			return b, true
		}
		cur = s.deduce(parent, cur, active)
		return cur.Get(parent)
	}
	return rule(resolve)
}

// names returns the node names in a stable order. Iteration order cannot
// change the mathematical result, but a stable order keeps solves
// bit-for-bit reproducible.
func (s *Solver) names() []string {
	names := make([]string, 0, len(s.nodes))
	for name := range s.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
