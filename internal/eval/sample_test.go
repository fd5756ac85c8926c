package eval

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plankit/internal/dist"
	"plankit/internal/outcome"
	"plankit/internal/plan"
)

func TestSampleOutcomeSuccessRate(t *testing.T) {
	for _, p := range []float64{0.1, 0.5, 0.85} {
		a := act("a", p, 1)
		r := rand.New(rand.NewPCG(1, 2))
		successes, failures := 0, 0
		for range 1000 {
			o, err := SampleOutcome(a, WithRand(r))
			require.NoError(t, err)
			if o.Status.OK() {
				successes++
			} else {
				failures++
			}
		}
		assert.InDelta(t, p, float64(successes)/1000, 0.1, "p=%v", p)
		assert.Positive(t, successes)
		assert.Positive(t, failures)
	}
}

func TestSampleOutcomeSeedIsReproducible(t *testing.T) {
	p := plan.NewSteps("s",
		plan.NewAction("a", plan.WithSuccessProb(0.7), plan.WithDuration(dist.Uniform(1, 20))),
		plan.NewLoop(plan.NewAction("b", plan.WithSuccessProb(0.3), plan.WithDuration(dist.Uniform(0, 5))), 4),
	)
	first, err := SampleOutcome(p, WithSeed(99))
	require.NoError(t, err)
	second, err := SampleOutcome(p, WithSeed(99))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSampleOutcomeDeterministic(t *testing.T) {
	ok := func(name string, d int) plan.Plan { return act(name, 1, d) }
	bad := func(name string, d int) plan.Plan { return act(name, 0, d) }

	tests := []struct {
		name string
		plan plan.Plan
		want outcome.Outcome
	}{
		{"steps all succeed", plan.NewSteps("s", ok("a", 1), ok("b", 3)), outcome.Outcome{Status: outcome.Success, Duration: 4}},
		{"steps stop at failure", plan.NewSteps("s", ok("a", 1), bad("b", 2), ok("c", 10)), outcome.Outcome{Status: outcome.Failure, Duration: 3}},
		{"requirements succeed at latest", plan.NewRequirements("r", ok("a", 1), ok("b", 6)), outcome.Outcome{Status: outcome.Success, Duration: 6}},
		{"requirements fail at earliest failure", plan.NewRequirements("r", ok("a", 1), bad("b", 6), bad("c", 4)), outcome.Outcome{Status: outcome.Failure, Duration: 4}},
		{"options stop at success", plan.NewOptions("o", bad("a", 2), ok("b", 3), ok("c", 10)), outcome.Outcome{Status: outcome.Success, Duration: 5}},
		{"options exhausted", plan.NewOptions("o", bad("a", 2), bad("b", 3)), outcome.Outcome{Status: outcome.Failure, Duration: 5}},
		{"alternatives first success", plan.NewAlternatives("alt", ok("a", 8), bad("b", 1), ok("c", 3)), outcome.Outcome{Status: outcome.Success, Duration: 3}},
		{"alternatives all fail", plan.NewAlternatives("alt", bad("a", 8), bad("b", 1)), outcome.Outcome{Status: outcome.Failure, Duration: 8}},
		{"loop exhausted", plan.NewLoop(bad("a", 2), 3), outcome.Outcome{Status: outcome.Failure, Duration: 6}},
		{"loop first try", plan.NewLoop(ok("a", 2), 3), outcome.Outcome{Status: outcome.Success, Duration: 2}},
		{"ifelse consequent", plan.NewIfElse(ok("t", 1), ok("c", 2), bad("a", 7)), outcome.Outcome{Status: outcome.Success, Duration: 3}},
		{"ifelse alternate", plan.NewIfElse(bad("t", 1), ok("c", 2), bad("a", 7)), outcome.Outcome{Status: outcome.Failure, Duration: 8}},
		{"fail", plan.NewFail(), outcome.Outcome{Status: outcome.Failure}},
		{"optional", plan.NewOptional(bad("a", 5)), outcome.Outcome{Status: outcome.Success, Duration: 5}},
		{"ensure", plan.NewEnsure(ok("a", 5)), outcome.Outcome{Status: outcome.Success, Duration: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SampleOutcome(tt.plan, WithSeed(1))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSampleOutcomeEnsureSumsAttempts(t *testing.T) {
	e := plan.NewEnsure(act("a", 0.25, 2))
	for seed := range uint64(50) {
		o, err := SampleOutcome(e, WithSeed(seed))
		require.NoError(t, err)
		assert.Equal(t, outcome.Success, o.Status)
		assert.Positive(t, o.Duration)
		assert.Zero(t, o.Duration%2, "every attempt takes 2")
	}
}

func TestSampleOutcomeEnsureOverImpossibleChild(t *testing.T) {
	_, err := SampleOutcome(plan.NewEnsure(plan.NewFail()))
	assert.ErrorIs(t, err, plan.ErrUsage)
}

func TestSampleOutcomeChoices(t *testing.T) {
	c := plan.NewChoices("c", act("a", 1, 1), act("b", 0, 9))

	_, err := SampleOutcome(c)
	assert.ErrorIs(t, err, plan.ErrNotImplemented)

	second := ChooserFunc(func(*plan.Choices, *rand.Rand) int { return 1 })
	o, err := SampleOutcome(c, WithChooser(second))
	require.NoError(t, err)
	assert.Equal(t, outcome.Outcome{Status: outcome.Failure, Duration: 9}, o)

	outOfRange := ChooserFunc(func(*plan.Choices, *rand.Rand) int { return 5 })
	_, err = SampleOutcome(c, WithChooser(outOfRange))
	assert.ErrorIs(t, err, plan.ErrUsage)
}

func TestReadyMadeChoosers(t *testing.T) {
	c := plan.NewChoices("c", act("a", 1, 1), act("b", 1, 2), act("c", 1, 3))

	o, err := SampleOutcome(c, WithChooser(FirstChooser))
	require.NoError(t, err)
	assert.Equal(t, 1, o.Duration)

	seen := map[int]bool{}
	r := rand.New(rand.NewPCG(5, 6))
	for range 200 {
		o, err := SampleOutcome(c, WithChooser(UniformChooser), WithRand(r))
		require.NoError(t, err)
		seen[o.Duration] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, seen)

	_, err = SampleOutcome(plan.NewChoices("empty"), WithChooser(UniformChooser))
	assert.ErrorIs(t, err, plan.ErrUsage)

	ch, err := ParseChooser("")
	require.NoError(t, err)
	assert.Nil(t, ch)
	_, err = ParseChooser("weighted")
	assert.ErrorIs(t, err, plan.ErrUsage)
}
