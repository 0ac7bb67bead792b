package credence_test

import (
	"testing"

	"github.com/aretw0/credence"
	"github.com/aretw0/credence/pkg/belief"
	"github.com/aretw0/credence/pkg/domain"
	"github.com/aretw0/credence/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// burglary builds the classic alarm network, optionally extended with the
// john/mary call variables.
func burglary(t *testing.T, extended bool) *credence.Network {
	t.Helper()
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
	if extended {
		b.Var("john").DependsOn("alarm", belief.BernoulliTable(map[string]float64{
			belief.True:  0.9,
			belief.False: 0.05,
		}))
		b.Var("mary").DependsOn("alarm", belief.BernoulliTable(map[string]float64{
			belief.True:  0.7,
			belief.False: 0.01,
		}))
	}
	present, _ := b.Build()
	net, err := credence.New(present)
	require.NoError(t, err)
	return net
}

func TestSolve_PriorOnly(t *testing.T) {
	b := dsl.New()
	b.Var("coin").Bernoulli(0.2)
	present, _ := b.Build()
	net, err := credence.New(present)
	require.NoError(t, err)

	res, err := net.Solve("coin")
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.InDelta(t, 0.2, res.Belief.Prob(belief.True), 1e-12)
}

func TestSolve_Chain(t *testing.T) {
	b := dsl.New()
	b.Var("a").Bernoulli(0.9)
	b.Var("b").DependsOn("a", belief.BernoulliTable(map[string]float64{
		belief.True:  0.9,
		belief.False: 0.2,
	}))
	present, _ := b.Build()
	net, err := credence.New(present)
	require.NoError(t, err)

	res, err := net.Solve("b")
	require.NoError(t, err)
	require.True(t, res.OK)
	// 0.9*0.9 + 0.1*0.2 = 0.83
	assert.Greater(t, res.Belief.Prob(belief.True), 0.8)
	assert.InDelta(t, 0.83, res.Belief.Prob(belief.True), 1e-9)
}

func TestSolve_ColliderForward(t *testing.T) {
	net := burglary(t, false)

	res, err := net.Solve("alarm")
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.InDelta(t, 0.0025, res.Belief.Prob(belief.True), 1e-4)
}

func TestSolve_ColliderPosterior(t *testing.T) {
	net := burglary(t, false)

	obs, err := net.Evidences(
		domain.Value("alarm", belief.True),
		domain.Value("earthquake", belief.False),
	)
	require.NoError(t, err)

	res, err := obs.Solve("burglar")
	require.NoError(t, err)
	require.True(t, res.OK)
	// Exact conditional: 0.94·0.001 / (0.94·0.001 + 0.001·0.999).
	assert.InDelta(t, 0.4848, res.Belief.Prob(belief.True), 1e-3)
}

func TestSolve_ExtendedPosterior(t *testing.T) {
	t.Run("BothCalled", func(t *testing.T) {
		net := burglary(t, true)
		obs, err := net.Evidences(
			domain.Value("john", belief.True),
			domain.Value("mary", belief.True),
		)
		require.NoError(t, err)

		res, err := obs.Solve("burglar")
		require.NoError(t, err)
		require.True(t, res.OK)
		assert.InDelta(t, 0.284, res.Belief.Prob(belief.True), 0.01)
	})

	t.Run("MaryStaysQuiet", func(t *testing.T) {
		net := burglary(t, true)
		obs, err := net.Evidences(
			domain.Value("john", belief.True),
			domain.Value("mary", belief.False),
		)
		require.NoError(t, err)

		res, err := obs.Solve("burglar")
		require.NoError(t, err)
		require.True(t, res.OK)
		assert.InDelta(t, 0.005, res.Belief.Prob(belief.True), 0.001)
	})
}

func TestSolve_EvidenceOverride(t *testing.T) {
	net := burglary(t, false)

	obs, err := net.Evidences(domain.Value("earthquake", belief.True))
	require.NoError(t, err)

	res, err := obs.Solve("earthquake")
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, 1.0, res.Belief.Prob(belief.True), "evidence must override the prior")
}

func TestSolve_Determinism(t *testing.T) {
	net := burglary(t, true)

	solveOnce := func() map[string]float64 {
		obs, err := net.Evidences(domain.Value("john", belief.True))
		require.NoError(t, err)
		res, err := obs.Solve("burglar")
		require.NoError(t, err)
		require.True(t, res.OK)
		return res.Belief.Map()
	}

	first := solveOnce()
	second := solveOnce()
	assert.Equal(t, first, second, "same snapshot, same evidence, bit-identical result")
}

func TestSolve_UnknownVariable(t *testing.T) {
	net := burglary(t, false)

	_, err := net.Solve("meteor")
	assert.ErrorIs(t, err, domain.ErrUnknownVariable)

	_, err = net.Evidences(domain.Value("meteor", belief.True))
	assert.ErrorIs(t, err, domain.ErrUnknownVariable)
}

func TestEvidences_OutOfDomain(t *testing.T) {
	net := burglary(t, false)

	_, err := net.Evidences(domain.Value("alarm", "loudly"))
	assert.ErrorIs(t, err, domain.ErrOutcomeNotInDomain)
}

func TestEvidences_SoftBelief(t *testing.T) {
	net := burglary(t, false)

	obs, err := net.Evidences(domain.Observed("earthquake", belief.Bernoulli(0.5)))
	require.NoError(t, err)

	res, err := obs.Solve("earthquake")
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.InDelta(t, 0.5, res.Belief.Prob(belief.True), 1e-12)
}

func weatherDBN(t *testing.T) *credence.Network {
	t.Helper()
	b := dsl.New()
	b.Var("rain").Bernoulli(0.3)
	b.Var("umbrella").DependsOn("rain", belief.BernoulliTable(map[string]float64{
		belief.True:  0.9,
		belief.False: 0.2,
	}))
	b.Step("rain").DependsOn("rain", belief.BernoulliTable(map[string]float64{
		belief.True:  0.7,
		belief.False: 0.3,
	}))
	present, future := b.Build()
	net, err := credence.New(present, credence.WithFuture(future), credence.WithName("weather"))
	require.NoError(t, err)
	return net
}

func TestSolve_TemporalRollForward(t *testing.T) {
	net := weatherDBN(t)

	res, err := net.Solve("umbrella")
	require.NoError(t, err)
	require.True(t, res.OK)
	// 0.3*0.9 + 0.7*0.2
	assert.InDelta(t, 0.41, res.Belief.Prob(belief.True), 1e-9)

	next := res.Next.Priors()
	_, hasUmbrella := next["umbrella"]
	assert.False(t, hasUmbrella, "the solved variable is reset, not carried over")

	rain, ok := next["rain"]
	require.True(t, ok, "temporal variable carries its one-step-ahead belief")
	// 0.3*0.7 + 0.7*0.3 = 0.42
	assert.InDelta(t, 0.42, rain.Prob(belief.True), 1e-9)
}

func TestSolve_TemporalStepping(t *testing.T) {
	net := weatherDBN(t)

	// Observing the umbrella today raises the chance of rain tomorrow.
	obs, err := net.Evidences(domain.Value("umbrella", belief.True))
	require.NoError(t, err)
	res, err := obs.Solve("umbrella")
	require.NoError(t, err)

	// P(rain|umbrella) = 0.27/0.41; tomorrow = 0.7p + 0.3(1-p).
	p := 0.27 / 0.41
	tomorrow := 0.7*p + 0.3*(1-p)

	res2, err := res.Next.Solve("rain")
	require.NoError(t, err)
	require.True(t, res2.OK)
	assert.InDelta(t, tomorrow, res2.Belief.Prob(belief.True), 1e-9)
}

func TestNetwork_SnapshotImmutability(t *testing.T) {
	net := weatherDBN(t)

	// Two independent solves of the same snapshot see the same priors.
	first, err := net.Solve("umbrella")
	require.NoError(t, err)
	second, err := net.Solve("umbrella")
	require.NoError(t, err)
	assert.Equal(t, first.Belief.Map(), second.Belief.Map())

	// Advancing never mutates the original.
	_, err = first.Next.Solve("rain")
	require.NoError(t, err)
	third, err := net.Solve("umbrella")
	require.NoError(t, err)
	assert.Equal(t, first.Belief.Map(), third.Belief.Map())
}

func TestNetwork_PriorsReferentialTransparency(t *testing.T) {
	net := weatherDBN(t)
	res, err := net.Solve("umbrella")
	require.NoError(t, err)

	first := res.Next.Priors()
	second := res.Next.Priors()
	assert.Equal(t, first, second, "materializing twice before a transition yields equal tables")
}

func TestNetwork_WithPriors(t *testing.T) {
	net := weatherDBN(t)

	rehydrated := net.WithPriors(map[string]belief.Belief{
		"rain": belief.Bernoulli(0.9),
	})
	res, err := rehydrated.Solve("umbrella")
	require.NoError(t, err)
	require.True(t, res.OK)
	// 0.9*0.9 + 0.1*0.2
	assert.InDelta(t, 0.83, res.Belief.Prob(belief.True), 1e-9)

	// The source snapshot is untouched.
	orig, err := net.Solve("umbrella")
	require.NoError(t, err)
	assert.InDelta(t, 0.41, orig.Belief.Prob(belief.True), 1e-9)
}

func TestNetwork_Inspect(t *testing.T) {
	net := weatherDBN(t)

	infos := net.Inspect()
	require.Len(t, infos, 2)

	assert.Equal(t, "rain", infos[0].Name)
	assert.True(t, infos[0].HasPrior)
	assert.True(t, infos[0].Temporal)

	assert.Equal(t, "umbrella", infos[1].Name)
	assert.Equal(t, []string{"rain"}, infos[1].Parents)
	assert.False(t, infos[1].HasPrior)
}
