package domain

import "github.com/aretw0/credence/pkg/belief"

// Evidence is an externally asserted fact about one variable for one solve.
// Either Value (a bare outcome, converted to a deterministic belief scoped to
// the variable's declared domain) or Belief is set, never both.
type Evidence struct {
	Name   string
	Value  string
	Belief *belief.Belief
}

// Value asserts that the variable was observed at the given outcome.
func Value(name, outcome string) Evidence {
	return Evidence{Name: name, Value: outcome}
}

// Observed asserts a full (possibly soft) belief for the variable.
func Observed(name string, b belief.Belief) Evidence {
	return Evidence{Name: name, Belief: &b}
}
