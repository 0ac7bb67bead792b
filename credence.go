package credence

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/aretw0/credence/internal/compiler"
	"github.com/aretw0/credence/internal/solver"
	"github.com/aretw0/credence/pkg/belief"
	"github.com/aretw0/credence/pkg/domain"
)

// Network is an immutable snapshot of a Bayesian network: the present-time
// node mapping, the optional next-time-step node mapping, the per-variable
// outcome domains, and a lazily-materialized prior table.
//
// A snapshot is never mutated. Solving returns a Result carrying the next
// snapshot, so one snapshot may be solved concurrently from any number of
// goroutines.
type Network struct {
	name    string
	present map[string]domain.Node
	future  map[string]domain.Node
	cases   map[string][]string
	priors  *solver.Deferred
	logger  *slog.Logger

	// construction-only; consumed by New.
	futureDesc *domain.Description
}

// Result is the outcome of one solve: the target's belief (OK reports
// whether it was resolvable) and the next snapshot for the following time
// step.
type Result struct {
	Belief belief.Belief
	OK     bool
	Next   *Network
}

// Option configures a Network during construction.
type Option func(*Network)

// WithName labels the network; the label shows up in logs and the banner.
func WithName(name string) Option {
	return func(n *Network) {
		n.name = name
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Network) {
		n.logger = logger
	}
}

// WithFuture attaches the next-time-step description, turning the network
// into a simple dynamic Bayesian network: after each solve, variables defined
// in the future description carry their one-step-ahead belief into the next
// snapshot's priors.
func WithFuture(desc *domain.Description) Option {
	return func(n *Network) {
		n.futureDesc = desc
	}
}

// New compiles a declarative description into an immutable network snapshot.
func New(present *domain.Description, opts ...Option) (*Network, error) {
	n := &Network{}
	for _, opt := range opts {
		opt(n)
	}

	g, err := compiler.Compile(present)
	if err != nil {
		return nil, fmt.Errorf("compile network: %w", err)
	}
	n.present = g.Nodes
	n.cases = g.Cases
	n.priors = solver.Materialized(g.Priors)

	if n.futureDesc != nil {
		fg, err := compiler.Compile(n.futureDesc)
		if err != nil {
			return nil, fmt.Errorf("compile future network: %w", err)
		}
		if len(fg.Priors) > 0 {
			return nil, fmt.Errorf("future description must not declare priors")
		}
		n.future = fg.Nodes
		for name, outcomes := range fg.Cases {
			if _, ok := n.cases[name]; !ok {
				n.cases[name] = outcomes
			}
		}
		n.futureDesc = nil
	}

	if n.logger == nil {
		n.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if n.name != "" {
		n.logger = n.logger.With("network", n.name)
	}

	return n, nil
}

// Solve computes the target's belief with no evidence attached and rolls the
// network one step forward.
func (n *Network) Solve(target string) (Result, error) {
	return n.solve(target, nil)
}

// Observation is an evidence set bound to a snapshot, ready to solve.
type Observation struct {
	net      *Network
	evidence map[string]belief.Belief
}

// Evidences builds an evidence set for one solve. Bare values are converted
// to deterministic beliefs scoped to the variable's declared outcome domain;
// unknown variables and out-of-domain outcomes are rejected.
func (n *Network) Evidences(evs ...domain.Evidence) (*Observation, error) {
	set := make(map[string]belief.Belief, len(evs))
	for _, ev := range evs {
		outcomes, ok := n.cases[ev.Name]
		if !ok {
			return nil, fmt.Errorf("evidence for %q: %w", ev.Name, domain.ErrUnknownVariable)
		}
		if ev.Belief != nil {
			for _, o := range ev.Belief.Outcomes() {
				if !contains(outcomes, o) {
					return nil, fmt.Errorf("evidence for %q, outcome %q: %w", ev.Name, o, domain.ErrOutcomeNotInDomain)
				}
			}
			set[ev.Name] = *ev.Belief
			continue
		}
		b, err := belief.Sure(outcomes, ev.Value)
		if err != nil {
			return nil, fmt.Errorf("evidence for %q: %w", ev.Name, domain.ErrOutcomeNotInDomain)
		}
		set[ev.Name] = b
	}
	return &Observation{net: n, evidence: set}, nil
}

// Solve computes the target's belief under the observation's evidence.
func (o *Observation) Solve(target string) (Result, error) {
	return o.net.solve(target, o.evidence)
}

/// solve is the iteration engine: one evidence-conditioned solve over the
// present network, then the temporal roll-forward producing the next
// snapshot.
func (n *Network) solve(target string, evidence map[string]belief.Belief) (Result, error) {
	if _, ok := n.cases[target]; !ok {
		return Result{}, fmt.Errorf("solve %q: %w", target, domain.ErrUnknownVariable)
	}

	priors := n.priors.Get()
	post := solver.New(n.present, priors).Apply(evidence)
	b, ok := post[target]

	futures := n.rollForward(target, post)

	next := &Network{
		name:    n.name,
		present: n.present,
		future:  n.future,
		cases:   n.cases,
		logger:  n.logger,
		priors: solver.Defer(func() map[string]belief.Belief {
			out := make(map[string]belief.Belief, len(priors)+len(futures))
			for k, v := range priors {
				out[k] = v
			}
			for k, v := range futures {
				out[k] = v
			}
			// The solved variable is reset: its belief is re-derived fresh
			// next round instead of being carried as a fixed prior.
			delete(out, target)
			return out
		}),
	}

	n.logger.Debug("solved",
		"target", target,
		"resolved", ok,
		"evidence", len(evidence),
		"futures", len(futures),
	)

	return Result{Belief: b, OK: ok, Next: next}, nil
}

// rollForward computes the one-step-ahead belief of every future variable
// that has no backward rule of its own, evaluating its forward rule against
// the solved posterior (minus the just-solved variable).
func (n *Network) rollForward(target string, post map[string]belief.Belief) map[string]belief.Belief {
	if len(n.future) == 0 {
		return nil
	}

	combined := make(map[string]domain.Node, len(n.present)+len(n.future))
	for k, v := range n.present {
		combined[k] = v
	}
	for k, v := range n.future {
		combined[k] = v
	}
	roll := solver.New(combined, nil)

	seed := make(map[string]belief.Belief, len(post))
	for k, v := range post {
		if k != target {
			seed[k] = v
		}
	}
	sess := solver.NewSession(seed)

	futures := map[string]belief.Belief{}
	for _, name := range sortedNodeNames(n.future) {
		node := n.future[name]
		if node.Forward == nil || node.Backward != nil {
			// A future node with its own backward rule opted out of the
			// automatic roll-forward.
			continue
		}
		if b, ok := roll.Evaluate(node.Forward, sess); ok {
			futures[name] = b
		}
	}
	return futures
}

// Name returns the network's label.
func (n *Network) Name() string {
	return n.name
}

// Variables returns every known variable name, sorted.
func (n *Network) Variables() []string {
	names := make([]string, 0, len(n.cases))
	for name := range n.cases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cases returns the declared outcome domain of a variable.
func (n *Network) Cases(name string) ([]string, error) {
	outcomes, ok := n.cases[name]
	if !ok {
		return nil, fmt.Errorf("cases for %q: %w", name, domain.ErrUnknownVariable)
	}
	return append([]string(nil), outcomes...), nil
}

// Priors materializes the snapshot's prior table and returns a copy.
func (n *Network) Priors() map[string]belief.Belief {
	src := n.priors.Get()
	out := make(map[string]belief.Belief, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// WithPriors derives a snapshot identical to n but with the prior table
// replaced. Stores use this to rehydrate a stepped session.
func (n *Network) WithPriors(priors map[string]belief.Belief) *Network {
	copied := make(map[string]belief.Belief, len(priors))
	for k, v := range priors {
		copied[k] = v
	}
	return &Network{
		name:    n.name,
		present: n.present,
		future:  n.future,
		cases:   n.cases,
		logger:  n.logger,
		priors:  solver.Materialized(copied),
	}
}

// VariableInfo describes one variable for introspection and visualization.
type VariableInfo struct {
	Name     string   `json:"name"`
	Outcomes []string `json:"outcomes"`
	Parents  []string `json:"parents,omitempty"`
	HasPrior bool     `json:"has_prior"`
	Temporal bool     `json:"temporal"`
}

// Inspect returns the full network structure, sorted by variable name.
func (n *Network) Inspect() []VariableInfo {
	priors := n.priors.Get()
	out := make([]VariableInfo, 0, len(n.cases))
	for _, name := range n.Variables() {
		info := VariableInfo{Name: name, Outcomes: append([]string(nil), n.cases[name]...)}
		if node, ok := n.present[name]; ok {
			info.Parents = append([]string(nil), node.Parents...)
		}
		_, info.HasPrior = priors[name]
		_, info.Temporal = n.future[name]
		out = append(out, info)
	}
	return out
}

func sortedNodeNames(nodes map[string]domain.Node) []string {
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}
