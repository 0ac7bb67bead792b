/*
Package belief implements the probability algebra used by the Credence engine.

It defines an immutable distribution over a variable's discrete outcome domain
(Belief) and conditional-probability tables keyed by one (Table) or two
(JointTable) parent outcomes, together with the arithmetic the solver composes:

  - Mix: forward marginalization of a CPT over its parent beliefs.
  - Ratio / Likelihoods / Reweigh: the backward combination that folds evidence
    observed downstream into an upstream variable via likelihood weights.

All values are immutable; every operation returns a new Belief. This is what
makes network snapshots safely shareable across goroutines without locks.

"No value" conditions (a parent assigning zero mass to every table key, factors
incompatible with a base distribution) are reported as a false second return,
never as an error: absence is an expected outcome of inference, not a failure.
*/
package belief
