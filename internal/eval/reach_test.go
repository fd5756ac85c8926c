package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plankit/internal/dist"
	"plankit/internal/outcome"
	"plankit/internal/plan"
)

func TestReachability(t *testing.T) {
	tests := []struct {
		name string
		plan plan.Plan
		want reach
	}{
		{"certain action", act("a", 1, 1), reach{can: true, always: true}},
		{"uncertain action", act("a", 0.5, 1), reach{can: true}},
		{"impossible action", act("a", 0, 1), reach{}},
		{"fail", plan.NewFail(), reach{}},
		{"steps with impossible step", plan.NewSteps("s", act("a", 1, 1), act("b", 0, 1)), reach{}},
		{"options with certain option", plan.NewOptions("o", act("a", 0, 1), act("b", 1, 1)), reach{can: true, always: true}},
		{"choices any can", plan.NewChoices("c", act("a", 0, 1), act("b", 1, 1)), reach{can: true}},
		{"choices all certain", plan.NewChoices("c", act("a", 1, 1), act("b", 1, 1)), reach{can: true, always: true}},
		{"empty choices", plan.NewChoices("c"), reach{}},
		{"zero loops", plan.NewLoop(act("a", 1, 1), 0), reach{}},
		{"ensure over choices", plan.NewEnsure(plan.NewChoices("c", act("a", 0.2, 1))), reach{can: true, always: true}},
		{"optional", plan.NewOptional(plan.NewFail()), reach{can: true, always: true}},
		{"ifelse test always fails", plan.NewIfElse(act("t", 0, 1), act("c", 0, 1), act("a", 1, 1)), reach{can: true, always: true}},
		{"ifelse both branches possible", plan.NewIfElse(act("t", 0.5, 1), act("c", 1, 1), act("a", 0, 1)), reach{can: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reachability(tt.plan)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnsureOverChoicesWithChooser(t *testing.T) {
	e := plan.NewEnsure(plan.NewChoices("c", act("a", 1, 3), act("b", 0, 9)))

	o, err := SampleOutcome(e, WithChooser(FirstChooser))
	require.NoError(t, err)
	assert.Equal(t, outcome.Outcome{Status: outcome.Success, Duration: 3}, o)

	h, err := SampleHistory(e, WithChooser(FirstChooser))
	require.NoError(t, err)
	assert.Equal(t, outcome.Success, h.Result().Status)
	assert.Equal(t, 3, h.End())

	prob, err := SuccessProbability(e)
	require.NoError(t, err)
	assert.Equal(t, 1.0, prob)

	bound, err := MaxDuration(e)
	require.NoError(t, err)
	assert.Equal(t, dist.Unknown(), bound)

	bound, err = MaxDuration(plan.NewEnsure(plan.NewChoices("sure", act("a", 1, 3), act("b", 1, 9))))
	require.NoError(t, err)
	assert.Equal(t, dist.Known(9), bound)
}

func TestEnsureOverImpossibleChoices(t *testing.T) {
	e := plan.NewEnsure(plan.NewChoices("c", act("a", 0, 1), plan.NewFail()))

	_, err := SampleOutcome(e, WithChooser(FirstChooser))
	assert.ErrorIs(t, err, plan.ErrUsage)
	_, err = SampleHistory(e, WithChooser(FirstChooser))
	assert.ErrorIs(t, err, plan.ErrUsage)
	_, err = MaxDuration(e)
	assert.ErrorIs(t, err, plan.ErrUsage)
}

func TestActionOutOfRangeIsRejected(t *testing.T) {
	bad := []*plan.Action{
		plan.NewAction("too likely", plan.WithSuccessProb(1.7)),
		plan.NewAction("negative prob", plan.WithSuccessProb(-0.1)),
		plan.NewAction("negative duration", plan.WithFixedDuration(-3)),
		plan.NewAction("empty range", plan.WithDuration(dist.Uniform(4, 1))),
	}
	for _, a := range bad {
		t.Run(a.Name(), func(t *testing.T) {
			wrapped := plan.NewSteps("s", act("ok", 1, 1), a)

			_, err := SuccessProbability(wrapped)
			assert.ErrorIs(t, err, plan.ErrUsage)
			_, err = MaxDuration(wrapped)
			assert.ErrorIs(t, err, plan.ErrUsage)
			_, err = SampleOutcome(wrapped, WithSeed(1))
			assert.ErrorIs(t, err, plan.ErrUsage)
			_, err = SampleHistory(wrapped, WithSeed(1))
			assert.ErrorIs(t, err, plan.ErrUsage)
			assert.NotErrorIs(t, err, plan.ErrInvariant)
		})
	}
}
