/*
Package dsl provides a fluent Go builder for programmatically constructing
Credence networks.

It replaces authoring networks in YAML or markdown with a type-safe builder,
which is particularly useful for dynamic network generation, unit tests, and
IDE autocompletion.

Example usage:

	b := dsl.New()
	b.Var("rain").Bernoulli(0.3)
	b.Var("sprinkler").DependsOn("rain", belief.BernoulliTable(map[string]float64{
		belief.True:  0.01,
		belief.False: 0.4,
	}))
	b.Step("rain").DependsOn("rain", belief.BernoulliTable(map[string]float64{
		belief.True:  0.7,
		belief.False: 0.3,
	}))

	present, future := b.Build()
	net, err := credence.New(present, credence.WithFuture(future))

Builders are construction-phase only: Build freezes the declarations into
immutable descriptions, and the builder can be discarded.
*/
package dsl
