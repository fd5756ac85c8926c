package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plankit/internal/dist"
	"plankit/internal/plan"
)

func TestMaxDuration(t *testing.T) {
	tests := []struct {
		name string
		plan plan.Plan
		want dist.Bound
	}{
		{"action", act("a", 0.5, 4), dist.Known(4)},
		{"uniform action", plan.NewAction("a", plan.WithDuration(dist.Uniform(2, 9))), dist.Known(9)},
		{"steps", plan.NewSteps("s", act("a", 1, 1), act("b", 1, 3)), dist.Known(4)},
		{"options", plan.NewOptions("o", act("a", 1, 1), act("b", 1, 3)), dist.Known(4)},
		{"alternatives", plan.NewAlternatives("alt", act("a", 1, 1), act("b", 1, 3)), dist.Known(4)},
		{"requirements", plan.NewRequirements("r", act("a", 1, 1), act("b", 1, 3)), dist.Known(3)},
		{"choices", plan.NewChoices("c", act("a", 1, 1), act("b", 1, 3)), dist.Known(3)},
		{"loop", plan.NewLoop(act("a", 0.5, 3), 4), dist.Known(12)},
		{"ifelse", plan.NewIfElse(act("t", 1, 1), act("c", 1, 5), act("a", 1, 2)), dist.Known(6)},
		{"fail", plan.NewFail(), dist.Known(0)},
		{"optional", plan.NewOptional(act("a", 0.2, 7)), dist.Known(7)},
		{"ensure certain", plan.NewEnsure(act("a", 1, 5)), dist.Known(5)},
		{"ensure uncertain", plan.NewEnsure(act("a", 0.9, 5)), dist.Unknown()},
		{"unknown poisons sum", plan.NewSteps("s", act("a", 1, 1), plan.NewEnsure(act("b", 0.5, 1))), dist.Unknown()},
		{"unknown poisons max", plan.NewRequirements("r", act("a", 1, 100), plan.NewEnsure(act("b", 0.5, 1))), dist.Unknown()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MaxDuration(tt.plan)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaxDurationEnsureOverImpossibleChild(t *testing.T) {
	_, err := MaxDuration(plan.NewEnsure(plan.NewFail()))
	assert.ErrorIs(t, err, plan.ErrUsage)
}

func TestAverageDurationConstantIsExact(t *testing.T) {
	a := act("a", 0.4, 7)
	for _, n := range []int{1, 10, 250} {
		got, err := AverageDuration(a, n, WithSeed(uint64(n)))
		require.NoError(t, err)
		assert.Equal(t, 7.0, got)
	}
}

func TestAverageDurationRejectsNonPositiveSamples(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := AverageDuration(act("a", 1, 1), n)
		assert.ErrorIs(t, err, plan.ErrUsage)
	}
}

func TestAverageDurationSteps(t *testing.T) {
	// The second step runs only when the first succeeds: 0.5*1 + 0.5*4.
	p := plan.NewSteps("s", act("a", 0.5, 1), act("b", 0.5, 3))
	got, err := AverageDuration(p, 4000, WithSeed(42))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, got, 0.1)
}

func TestAverageDurationRequirements(t *testing.T) {
	// A failure of the fast child ends the node at 1, otherwise it ends at 3.
	p := plan.NewRequirements("r", act("a", 0.5, 1), act("b", 0.5, 3))
	got, err := AverageDuration(p, 4000, WithSeed(42))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 0.1)
}

func TestAverageDurationUniform(t *testing.T) {
	a := plan.NewAction("a", plan.WithDuration(dist.Uniform(0, 10)))
	got, err := AverageDuration(a, 4000, WithSeed(3))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 0.3)
}
