/*
Package credence is an exact inference engine for discrete Bayesian networks.

A network is built declaratively, as a graph of random variables connected by
conditional-probability tables, and frozen into an immutable snapshot. The
engine computes forward (prior) and backward (posterior) belief distributions
for any variable, optionally conditioned on observed evidence, and can step
a network forward in discrete time (a simple dynamic Bayesian network).

# Concept

Solving is a pure function of a snapshot: it returns the target's belief plus
the next snapshot, never mutating the one it read. Snapshots are therefore
safely shareable across goroutines, and time-series use is just repeated
stepping:

	result.Next.Solve("rain") // tomorrow, from today's posterior

# Usage

Networks are usually authored with the fluent builder in pkg/dsl:

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/credence"
		"github.com/aretw0/credence/pkg/belief"
		"github.com/aretw0/credence/pkg/domain"
		"github.com/aretw0/credence/pkg/dsl"
	)

	func main() {
		b := dsl.New()
		b.Var("burglar").Bernoulli(0.001)
		b.Var("earthquake").Bernoulli(0.002)
		b.Var("alarm").DependsOnJoint("burglar", "earthquake",
			belief.BernoulliJointTable(map[belief.Pair]float64{
				{belief.True, belief.True}:   0.95,
				{belief.True, belief.False}:  0.94,
				{belief.False, belief.True}:  0.29,
				{belief.False, belief.False}: 0.001,
			}))

		present, future := b.Build()
		net, err := credence.New(present, credence.WithFuture(future))
		if err != nil {
			log.Fatal(err)
		}

		obs, _ := net.Evidences(domain.Value("alarm", belief.True))
		res, _ := obs.Solve("burglar")
		fmt.Println(res.Belief)
	}

Descriptions can also be loaded from YAML files (pkg/adapters/file) or from a
directory of markdown documents (pkg/adapters/loam), which is what the
credence CLI does.

# Guarantees

  - Deterministic: the same snapshot and evidence yield bit-identical beliefs.
  - Domain-closed: every produced belief sums to 1 over the variable's
    declared outcomes.
  - Acyclic forward dependencies are a precondition, not a runtime check.
*/
package credence
