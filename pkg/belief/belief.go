package belief

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Outcome labels for boolean variables. Most networks in practice are built
// from two-outcome variables, so these get first-class names.
const (
	True  = "true"
	False = "false"
)

// Belief is an immutable probability distribution over a variable's discrete
// outcome domain. The zero value is "no belief" and reports Valid() == false.
type Belief struct {
	probs map[string]float64
}

// New builds a normalized Belief from outcome weights.
// Weights must be non-negative and sum to a positive value.
func New(weights map[string]float64) (Belief, error) {
	if len(weights) == 0 {
		return Belief{}, fmt.Errorf("belief needs at least one outcome")
	}
	var sum float64
	for outcome, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return Belief{}, fmt.Errorf("invalid weight %v for outcome %q", w, outcome)
		}
		sum += w
	}
	if sum == 0 {
		return Belief{}, fmt.Errorf("belief weights sum to zero")
	}
	probs := make(map[string]float64, len(weights))
	for outcome, w := range weights {
		probs[outcome] = w / sum
	}
	return Belief{probs: probs}, nil
}

// Sure returns the deterministic belief assigning probability 1 to outcome,
// scoped to the given outcome domain.
func Sure(domain []string, outcome string) (Belief, error) {
	probs := make(map[string]float64, len(domain))
	found := false
	for _, o := range domain {
		if o == outcome {
			probs[o] = 1
			found = true
		} else {
			probs[o] = 0
		}
	}
	if !found {
		return Belief{}, fmt.Errorf("outcome %q is not in domain %v", outcome, domain)
	}
	return Belief{probs: probs}, nil
}

// Bernoulli returns a boolean belief with P(true) = p.
func Bernoulli(p float64) Belief {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return Belief{probs: map[string]float64{True: p, False: 1 - p}}
}

// Valid reports whether the belief carries a distribution.
func (b Belief) Valid() bool {
	return b.probs != nil
}

// Prob returns the probability mass assigned to outcome.
// Outcomes outside the domain carry zero mass.
func (b Belief) Prob(outcome string) float64 {
	return b.probs[outcome]
}

// Outcomes returns the outcome domain in sorted order.
func (b Belief) Outcomes() []string {
	out := make([]string, 0, len(b.probs))
	for o := range b.probs {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// Map returns a copy of the distribution as a plain map.
func (b Belief) Map() map[string]float64 {
	out := make(map[string]float64, len(b.probs))
	for o, p := range b.probs {
		out[o] = p
	}
	return out
}

func (b Belief) String() string {
	s := "{"
	for i, o := range b.Outcomes() {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s: %.4f", o, b.probs[o])
	}
	return s + "}"
}

// MarshalJSON encodes the distribution as an outcome→probability object.
func (b Belief) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.probs)
}

// UnmarshalJSON decodes and re-normalizes an outcome→probability object.
func (b *Belief) UnmarshalJSON(data []byte) error {
	var probs map[string]float64
	if err := json.Unmarshal(data, &probs); err != nil {
		return err
	}
	nb, err := New(probs)
	if err != nil {
		return fmt.Errorf("invalid belief: %w", err)
	}
	*b = nb
	return nil
}

// Ratio returns the pointwise down/base ratios used as likelihood weights
// when evidence observed downstream is folded back into an upstream variable.
// Outcomes with no forward mass are skipped: they cannot carry evidence.
func Ratio(down, base Belief) map[string]float64 {
	out := make(map[string]float64, len(base.probs))
	for o, p := range base.probs {
		if p == 0 {
			continue
		}
		out[o] = down.Prob(o) / p
	}
	return out
}

// Reweigh scales base pointwise by the product of the factor maps and
// normalizes the result. It reports false when the reweighed mass vanishes,
// meaning the factors are incompatible with the base distribution.
func Reweigh(base Belief, factors ...map[string]float64) (Belief, bool) {
	weights := make(map[string]float64, len(base.probs))
	for o, p := range base.probs {
		w := p
		for _, f := range factors {
			w *= f[o]
		}
		weights[o] = w
	}
	nb, err := New(weights)
	if err != nil {
		return Belief{}, false
	}
	return nb, true
}
