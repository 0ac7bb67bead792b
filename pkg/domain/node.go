package domain

import "github.com/aretw0/credence/pkg/belief"

// Resolver resolves another variable's current belief by name.
// The solver supplies implementations that consult the session first and fall
// back to forward computation; rules never see where a value came from.
type Resolver func(name string) (belief.Belief, bool)

// ForwardRule computes a variable's belief from its parents.
// It reports false when a required parent is unresolvable.
type ForwardRule func(resolve Resolver) (belief.Belief, bool)

// BackwardRule folds evidence observed downstream back into a variable.
type BackwardRule struct {
	// Ends lists the downstream variable names this rule depends on, sorted.
	Ends []string

	// Update produces the updated belief. The resolver prefers beliefs already
	// re-derived downstream within the same backward pass, falling back to
	// forward computation. Reports false when nothing resolves.
	Update func(resolve Resolver) (belief.Belief, bool)
}

// Node is the per-variable bundle of inference rules and dependency metadata.
// Root variables have no forward rule (their belief comes from the prior
// table); leaf variables have no backward rule (no evidence flows back
// through them).
type Node struct {
	Name     string
	Forward  ForwardRule
	Backward *BackwardRule

	// Parents names the variables the forward rule queries. Kept for
	// introspection and visualization; the rules themselves are closures.
	Parents []string
}
