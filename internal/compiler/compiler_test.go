package compiler

import (
	"testing"

	"github.com/aretw0/credence/pkg/belief"
	"github.com/aretw0/credence/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBelief(t *testing.T, weights map[string]float64) belief.Belief {
	t.Helper()
	b, err := belief.New(weights)
	require.NoError(t, err)
	return b
}

func coinTable(pIfTrue, pIfFalse float64) belief.Table {
	return belief.BernoulliTable(map[string]float64{
		belief.True:  pIfTrue,
		belief.False: pIfFalse,
	})
}

func TestCompile_NilDescription(t *testing.T) {
	g, err := Compile(nil)
	require.NoError(t, err)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Priors)
}

func TestCompile_Prior(t *testing.T) {
	desc := domain.NewDescription()
	desc.Declare("rain", domain.Prior{Belief: belief.Bernoulli(0.3)})

	g, err := Compile(desc)
	require.NoError(t, err)

	require.Contains(t, g.Priors, "rain")
	assert.InDelta(t, 0.3, g.Priors["rain"].Prob(belief.True), 1e-12)
	assert.Equal(t, []string{belief.False, belief.True}, g.Cases["rain"])

	node := g.Nodes["rain"]
	assert.Nil(t, node.Forward, "a pure prior has no forward rule")
	assert.Nil(t, node.Backward)
}

func TestCompile_DependsOn(t *testing.T) {
	desc := domain.NewDescription()
	desc.Declare("rain", domain.Prior{Belief: belief.Bernoulli(0.3)})
	desc.Declare("umbrella", domain.DependsOn{Parent: "rain", Table: coinTable(0.9, 0.2)})

	g, err := Compile(desc)
	require.NoError(t, err)

	node := g.Nodes["umbrella"]
	require.NotNil(t, node.Forward)
	assert.Equal(t, []string{"rain"}, node.Parents)

	resolve := func(string) (belief.Belief, bool) { return belief.Bernoulli(0.3), true }
	b, ok := node.Forward(resolve)
	require.True(t, ok)
	assert.InDelta(t, 0.41, b.Prob(belief.True), 1e-9)

	parent := g.Nodes["rain"]
	require.NotNil(t, parent.Backward, "a conditioned-on variable gets a backward rule")
	assert.Equal(t, []string{"umbrella"}, parent.Backward.Ends)
}

func TestCompile_FeedsIntoEqualsDependsOn(t *testing.T) {
	table := coinTable(0.9, 0.2)

	fromChild := domain.NewDescription()
	fromChild.Declare("rain", domain.Prior{Belief: belief.Bernoulli(0.3)})
	fromChild.Declare("umbrella", domain.DependsOn{Parent: "rain", Table: table})

	fromParent := domain.NewDescription()
	fromParent.Declare("rain",
		domain.Prior{Belief: belief.Bernoulli(0.3)},
		domain.FeedsInto{Child: "umbrella", Table: table},
	)

	a, err := Compile(fromChild)
	require.NoError(t, err)
	b, err := Compile(fromParent)
	require.NoError(t, err)

	assert.Equal(t, a.Cases, b.Cases)
	assert.Equal(t, a.Nodes["umbrella"].Parents, b.Nodes["umbrella"].Parents)

	resolve := func(string) (belief.Belief, bool) { return belief.Bernoulli(0.3), true }
	ba, _ := a.Nodes["umbrella"].Forward(resolve)
	bb, _ := b.Nodes["umbrella"].Forward(resolve)
	assert.Equal(t, ba.Map(), bb.Map())
}

func TestCompile_JointParentsAndEdges(t *testing.T) {
	desc := domain.NewDescription()
	desc.Declare("burglar", domain.Prior{Belief: belief.Bernoulli(0.001)})
	desc.Declare("earthquake", domain.Prior{Belief: belief.Bernoulli(0.002)})
	desc.Declare("alarm", domain.DependsOnJoint{
		First:  "burglar",
		Second: "earthquake",
		Table: belief.BernoulliJointTable(map[belief.Pair]float64{
			{belief.True, belief.True}:   0.95,
			{belief.True, belief.False}:  0.94,
			{belief.False, belief.True}:  0.29,
			{belief.False, belief.False}: 0.001,
		}),
	})

	g, err := Compile(desc)
	require.NoError(t, err)

	assert.Equal(t, []string{"burglar", "earthquake"}, g.Nodes["alarm"].Parents)
	require.NotNil(t, g.Nodes["burglar"].Backward)
	require.NotNil(t, g.Nodes["earthquake"].Backward)
	assert.Equal(t, []string{"alarm"}, g.Nodes["burglar"].Backward.Ends)
}

func TestCompile_DomainSeededFromTableKeys(t *testing.T) {
	// The parent is never declared on its own; its domain comes from the
	// child's CPT row keys.
	desc := domain.NewDescription()
	desc.Declare("mood", domain.DependsOn{
		Parent: "weather",
		Table: belief.NewTable(map[string]belief.Belief{
			"sunny": mustBelief(t, map[string]float64{"happy": 0.9, "grumpy": 0.1}),
			"rainy": mustBelief(t, map[string]float64{"happy": 0.3, "grumpy": 0.7}),
		}),
	})

	g, err := Compile(desc)
	require.NoError(t, err)

	assert.Equal(t, []string{"rainy", "sunny"}, g.Cases["weather"])
	assert.Equal(t, []string{"grumpy", "happy"}, g.Cases["mood"])
	assert.Contains(t, g.Nodes, "weather", "a variable known only as a CPT key still gets a node")
}

func TestCompile_DuplicatePrior(t *testing.T) {
	desc := domain.NewDescription()
	desc.Declare("x",
		domain.Prior{Belief: belief.Bernoulli(0.1)},
		domain.Prior{Belief: belief.Bernoulli(0.2)},
	)

	_, err := Compile(desc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one prior")
}

func TestCompile_DuplicateConditional(t *testing.T) {
	desc := domain.NewDescription()
	desc.Declare("x",
		domain.DependsOn{Parent: "a", Table: coinTable(0.5, 0.5)},
		domain.DependsOn{Parent: "b", Table: coinTable(0.5, 0.5)},
	)

	_, err := Compile(desc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one conditional")
}

func TestCompile_PriorAndConditionalConflict(t *testing.T) {
	desc := domain.NewDescription()
	desc.Declare("a", domain.Prior{Belief: belief.Bernoulli(0.5)})
	desc.Declare("x",
		domain.Prior{Belief: belief.Bernoulli(0.1)},
		domain.DependsOn{Parent: "a", Table: coinTable(0.5, 0.5)},
	)

	_, err := Compile(desc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both a prior and a conditional")
}

func TestCompile_BackwardRuleRecoversCause(t *testing.T) {
	desc := domain.NewDescription()
	desc.Declare("rain", domain.Prior{Belief: belief.Bernoulli(0.3)})
	desc.Declare("umbrella", domain.DependsOn{Parent: "rain", Table: coinTable(0.9, 0.2)})

	g, err := Compile(desc)
	require.NoError(t, err)

	// Child observed true; the update reweighs the prior by the likelihood
	// ratio: P(rain|umbrella) = 0.27/0.41.
	resolve := func(name string) (belief.Belief, bool) {
		switch name {
		case "rain":
			return belief.Bernoulli(0.3), true
		case "umbrella":
			return belief.Bernoulli(1), true
		}
		return belief.Belief{}, false
	}

	b, ok := g.Nodes["rain"].Backward.Update(resolve)
	require.True(t, ok)
	assert.InDelta(t, 0.27/0.41, b.Prob(belief.True), 1e-9)
}
