package domain

import "github.com/aretw0/credence/pkg/belief"

// State is the persisted progress of one inference session: the prior table
// of the network snapshot reached after some number of solve steps.
type State struct {
	// Network labels the snapshot the session runs against.
	Network string `json:"network"`
	// Step counts completed solves.
	Step int `json:"step"`
	// Priors is the session's current prior table.
	Priors map[string]belief.Belief `json:"priors"`
}

// NewState starts a fresh session for the named network.
func NewState(network string, priors map[string]belief.Belief) *State {
	return &State{Network: network, Priors: copyPriors(priors)}
}

// Advance returns the state after one more solve, carrying the next
// snapshot's priors. The receiver is not modified.
func (s *State) Advance(priors map[string]belief.Belief) *State {
	return &State{Network: s.Network, Step: s.Step + 1, Priors: copyPriors(priors)}
}

func copyPriors(priors map[string]belief.Belief) map[string]belief.Belief {
	out := make(map[string]belief.Belief, len(priors))
	for k, v := range priors {
		out[k] = v
	}
	return out
}
