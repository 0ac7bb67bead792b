// Package compiler turns a declarative network description into the compiled
// graph the solver runs: one Node per variable, an initial prior table, and
// the per-variable outcome domains.
//
// Relations are consumed by exhaustive case analysis. FeedsInto links are
// normalized into the child's DependsOn form first, so a network can be
// authored from either end of an edge.
package compiler

import (
	"fmt"
	"sort"

	"github.com/aretw0/credence/pkg/belief"
	"github.com/aretw0/credence/pkg/domain"
)

// Graph is a compiled, immutable network: ready for the solver.
type Graph struct {
	Nodes  map[string]domain.Node
	Priors map[string]belief.Belief
	Cases  map[string][]string
}

// conditional is the normalized forward definition of one variable.
type conditional struct {
	parent string // single-parent form
	table  belief.Table

	first, second string // two-parent form
	joint         belief.JointTable
	isJoint       bool
}

// edge records, from a parent's point of view, one child conditioned on it.
type edge struct {
	child string
	cond  conditional
	// second is true when the parent is the joint table's second key.
	second bool
}

// Compile builds the node mapping, prior table and outcome domains from a
// description. The forward-dependency relation of the result must be acyclic;
// the compiler does not detect cycles (see the solver's contract).
func Compile(desc *domain.Description) (*Graph, error) {
	g := &Graph{
		Nodes:  map[string]domain.Node{},
		Priors: map[string]belief.Belief{},
		Cases:  map[string][]string{},
	}
	if desc == nil {
		return g, nil
	}

	conds := map[string]conditional{}
	edges := map[string][]edge{}

	for _, name := range sortedKeys(desc.Variables) {
		for _, rel := range desc.Variables[name] {
			switch r := rel.(type) {
			case domain.Prior:
				if _, dup := g.Priors[name]; dup {
					return nil, fmt.Errorf("variable %q declares more than one prior", name)
				}
				g.Priors[name] = r.Belief
				g.addCases(name, r.Belief.Outcomes())

			case domain.DependsOn:
				if err := g.setConditional(conds, name, conditional{parent: r.Parent, table: r.Table}); err != nil {
					return nil, err
				}

			case domain.DependsOnJoint:
				if err := g.setConditional(conds, name, conditional{
					first: r.First, second: r.Second, joint: r.Table, isJoint: true,
				}); err != nil {
					return nil, err
				}

			case domain.FeedsInto:
				// Normalized to the child's single-parent form.
				if err := g.setConditional(conds, r.Child, conditional{parent: name, table: r.Table}); err != nil {
					return nil, err
				}

			default:
				return nil, fmt.Errorf("variable %q carries unsupported relation %T", name, rel)
			}
		}
	}

	for name, cond := range conds {
		if _, hasPrior := g.Priors[name]; hasPrior {
			return nil, fmt.Errorf("variable %q declares both a prior and a conditional definition", name)
		}
		if cond.isJoint {
			g.addCases(name, cond.joint.Outcomes())
			g.addCases(cond.first, cond.joint.FirstKeys())
			g.addCases(cond.second, cond.joint.SecondKeys())
			edges[cond.first] = append(edges[cond.first], edge{child: name, cond: cond})
			edges[cond.second] = append(edges[cond.second], edge{child: name, cond: cond, second: true})
		} else {
			g.addCases(name, cond.table.Outcomes())
			g.addCases(cond.parent, cond.table.Keys())
			edges[cond.parent] = append(edges[cond.parent], edge{child: name, cond: cond})
		}
	}

	// Every variable touched by a relation gets a node so inspection sees the
	// whole network, including roots defined only by a prior.
	for name := range g.Cases {
		node := domain.Node{Name: name}
		if cond, ok := conds[name]; ok {
			node.Forward = forwardRule(cond)
			node.Parents = cond.parents()
		}
		if outgoing := edges[name]; len(outgoing) > 0 {
			node.Backward = backwardRule(name, outgoing)
		}
		g.Nodes[name] = node
	}

	return g, nil
}

func (g *Graph) setConditional(conds map[string]conditional, name string, c conditional) error {
	if _, dup := conds[name]; dup {
		return fmt.Errorf("variable %q declares more than one conditional definition", name)
	}
	conds[name] = c
	return nil
}

func (g *Graph) addCases(name string, outcomes []string) {
	seen := map[string]bool{}
	for _, o := range g.Cases[name] {
		seen[o] = true
	}
	for _, o := range outcomes {
		seen[o] = true
	}
	merged := make([]string, 0, len(seen))
	for o := range seen {
		merged = append(merged, o)
	}
	sort.Strings(merged)
	g.Cases[name] = merged
}

func (c conditional) parents() []string {
	if c.isJoint {
		return []string{c.first, c.second}
	}
	return []string{c.parent}
}

// forwardRule closes over the conditional and mixes the CPT by the parents'
// resolved beliefs. An unresolvable parent makes the whole rule unresolvable.
func forwardRule(c conditional) domain.ForwardRule {
	if c.isJoint {
		return func(resolve domain.Resolver) (belief.Belief, bool) {
			first, ok := resolve(c.first)
			if !ok {
				return belief.Belief{}, false
			}
			second, ok := resolve(c.second)
			if !ok {
				return belief.Belief{}, false
			}
			return c.joint.Mix(first, second)
		}
	}
	return func(resolve domain.Resolver) (belief.Belief, bool) {
		parent, ok := resolve(c.parent)
		if !ok {
			return belief.Belief{}, false
		}
		return c.table.Mix(parent)
	}
}

// backwardRule folds evidence from every child conditioned on the variable
// back into it. Each child contributes a likelihood factor: the ratio of its
// re-derived downstream belief to its forward prediction, pushed through the
// child's CPT. Factors multiply across children and reweigh the variable's
// forward belief, which for polytree structures is the exact posterior.
func backwardRule(name string, outgoing []edge) *domain.BackwardRule {
	sort.Slice(outgoing, func(i, j int) bool { return outgoing[i].child < outgoing[j].child })
	ends := make([]string, 0, len(outgoing))
	for _, e := range outgoing {
		ends = append(ends, e.child)
	}

	update := func(resolve domain.Resolver) (belief.Belief, bool) {
		base, ok := resolve(name)
		if !ok {
			return belief.Belief{}, false
		}
		var factors []map[string]float64
		for _, e := range outgoing {
			if factor, ok := e.likelihoods(base, resolve); ok {
				factors = append(factors, factor)
			}
		}
		if len(factors) == 0 {
			return belief.Belief{}, false
		}
		return belief.Reweigh(base, factors...)
	}

	return &domain.BackwardRule{Ends: ends, Update: update}
}

// likelihoods computes one child's likelihood factor over the parent's
// outcomes. Children that cannot be resolved (or predicted) contribute
// nothing rather than failing the update.
func (e edge) likelihoods(base belief.Belief, resolve domain.Resolver) (map[string]float64, bool) {
	down, ok := resolve(e.child)
	if !ok {
		return nil, false
	}
	if !e.cond.isJoint {
		pred, ok := e.cond.table.Mix(base)
		if !ok {
			return nil, false
		}
		return e.cond.table.Likelihoods(belief.Ratio(down, pred)), true
	}

	other := e.cond.first
	if !e.second {
		other = e.cond.second
	}
	co, ok := resolve(other)
	if !ok {
		return nil, false
	}
	var pred belief.Belief
	if e.second {
		pred, ok = e.cond.joint.Mix(co, base)
	} else {
		pred, ok = e.cond.joint.Mix(base, co)
	}
	if !ok {
		return nil, false
	}
	ratio := belief.Ratio(down, pred)
	if e.second {
		return e.cond.joint.LikelihoodsSecond(ratio, co), true
	}
	return e.cond.joint.LikelihoodsFirst(ratio, co), true
}

func sortedKeys(m map[string][]domain.Relation) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
