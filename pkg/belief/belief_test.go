package belief_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/credence/pkg/belief"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Normalizes(t *testing.T) {
	b, err := belief.New(map[string]float64{"a": 2, "b": 6})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, b.Prob("a"), 1e-12)
	assert.InDelta(t, 0.75, b.Prob("b"), 1e-12)
	assert.Equal(t, []string{"a", "b"}, b.Outcomes())
}

func TestNew_Rejects(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := belief.New(nil)
		assert.Error(t, err)
	})
	t.Run("Negative", func(t *testing.T) {
		_, err := belief.New(map[string]float64{"a": -1, "b": 2})
		assert.Error(t, err)
	})
	t.Run("ZeroMass", func(t *testing.T) {
		_, err := belief.New(map[string]float64{"a": 0, "b": 0})
		assert.Error(t, err)
	})
}

func TestSure(t *testing.T) {
	b, err := belief.Sure([]string{"red", "green", "blue"}, "green")
	require.NoError(t, err)
	assert.Equal(t, 1.0, b.Prob("green"))
	assert.Equal(t, 0.0, b.Prob("red"))
	assert.Equal(t, []string{"blue", "green", "red"}, b.Outcomes())

	_, err = belief.Sure([]string{"red", "green"}, "purple")
	assert.Error(t, err, "outcome outside the domain must be rejected")
}

func TestBernoulli(t *testing.T) {
	b := belief.Bernoulli(0.2)
	assert.InDelta(t, 0.2, b.Prob(belief.True), 1e-12)
	assert.InDelta(t, 0.8, b.Prob(belief.False), 1e-12)
}

func TestTable_Mix(t *testing.T) {
	// P(B|A): chain scenario.
	table := belief.BernoulliTable(map[string]float64{
		belief.True:  0.9,
		belief.False: 0.2,
	})
	b, ok := table.Mix(belief.Bernoulli(0.9))
	require.True(t, ok)
	// 0.9*0.9 + 0.1*0.2 = 0.83
	assert.InDelta(t, 0.83, b.Prob(belief.True), 1e-12)
}

func TestTable_Mix_NoMassOnKeys(t *testing.T) {
	table := belief.BernoulliTable(map[string]float64{"hot": 0.9, "cold": 0.2})
	parent, err := belief.New(map[string]float64{"lukewarm": 1})
	require.NoError(t, err)
	_, ok := table.Mix(parent)
	assert.False(t, ok, "parent without mass on any table key is unresolvable")
}

func TestJointTable_Mix(t *testing.T) {
	// Burglary alarm CPT.
	table := belief.BernoulliJointTable(map[belief.Pair]float64{
		{belief.True, belief.True}:   0.95,
		{belief.True, belief.False}:  0.94,
		{belief.False, belief.True}:  0.29,
		{belief.False, belief.False}: 0.001,
	})
	b, ok := table.Mix(belief.Bernoulli(0.001), belief.Bernoulli(0.002))
	require.True(t, ok)
	assert.InDelta(t, 0.002516, b.Prob(belief.True), 1e-4)
}

func TestTable_KeySeeding(t *testing.T) {
	table := belief.BernoulliTable(map[string]float64{"sunny": 0.1, "rainy": 0.8})
	assert.Equal(t, []string{"rainy", "sunny"}, table.Keys())
	assert.Equal(t, []string{belief.False, belief.True}, table.Outcomes())
}

func TestReweigh_BayesUpdate(t *testing.T) {
	// Observing alarm=true updates the burglar prior through the likelihood
	// ratio: a single-parent chain reproduces Bayes' rule exactly.
	prior := belief.Bernoulli(0.001)
	table := belief.BernoulliTable(map[string]float64{
		belief.True:  0.94,
		belief.False: 0.001,
	})
	forward, ok := table.Mix(prior)
	require.True(t, ok)

	observed, err := belief.Sure([]string{belief.True, belief.False}, belief.True)
	require.NoError(t, err)

	ratio := belief.Ratio(observed, forward)
	post, ok := belief.Reweigh(prior, table.Likelihoods(ratio))
	require.True(t, ok)

	// P(b|a) = 0.94*0.001 / (0.94*0.001 + 0.001*0.999)
	assert.InDelta(t, 0.48478, post.Prob(belief.True), 1e-4)
}

func TestReweigh_IncompatibleFactors(t *testing.T) {
	base := belief.Bernoulli(1) // all mass on true
	_, ok := belief.Reweigh(base, map[string]float64{belief.True: 0})
	assert.False(t, ok)
}

func TestBelief_DomainClosure(t *testing.T) {
	table := belief.BernoulliJointTable(map[belief.Pair]float64{
		{belief.True, belief.True}:   0.95,
		{belief.True, belief.False}:  0.94,
		{belief.False, belief.True}:  0.29,
		{belief.False, belief.False}: 0.001,
	})
	b, ok := table.Mix(belief.Bernoulli(0.5), belief.Bernoulli(0.5))
	require.True(t, ok)
	var sum float64
	for _, o := range b.Outcomes() {
		sum += b.Prob(o)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestBelief_JSONRoundTrip(t *testing.T) {
	b := belief.Bernoulli(0.3)
	data, err := json.Marshal(b)
	require.NoError(t, err)

	var back belief.Belief
	require.NoError(t, json.Unmarshal(data, &back))
	assert.InDelta(t, 0.3, back.Prob(belief.True), 1e-12)
}
