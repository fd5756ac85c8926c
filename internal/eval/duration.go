package eval

import (
	"fmt"

	"plankit/internal/dist"
	"plankit/internal/outcome"
	"plankit/internal/plan"
)

// MaxDuration is a conservative worst-case duration for p. The bound is
// unknown when p can retry without limit.
func MaxDuration(p plan.Plan) (dist.Bound, error) {
	return plan.Evaluate[dist.Bound](maxDurationEvaluator{}, p)
}

// AverageDuration estimates the mean duration of p from n sampled outcomes.
func AverageDuration(p plan.Plan, n int, opts ...Option) (float64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("average duration over %d samples: %w", n, plan.ErrUsage)
	}
	s := newOutcomeSampler(newConfig(opts))
	total := 0.0
	for range n {
		o, err := plan.Evaluate[outcome.Outcome](s, p)
		if err != nil {
			return 0, err
		}
		total += float64(o.Duration)
	}
	return total / float64(n), nil
}

type maxDurationEvaluator struct {
	plan.Unimplemented[dist.Bound]
}

func (m maxDurationEvaluator) children(p plan.Plan) ([]dist.Bound, error) {
	return plan.EvaluateAll[dist.Bound](m, p.Children())
}

func (m maxDurationEvaluator) sum(p plan.Plan) (dist.Bound, error) {
	bounds, err := m.children(p)
	if err != nil {
		return dist.Unknown(), err
	}
	total := dist.Known(0)
	for _, b := range bounds {
		total = total.Add(b)
	}
	return total, nil
}

func (m maxDurationEvaluator) longest(p plan.Plan) (dist.Bound, error) {
	bounds, err := m.children(p)
	if err != nil {
		return dist.Unknown(), err
	}
	total := dist.Known(0)
	for _, b := range bounds {
		total = total.Max(b)
	}
	return total, nil
}

func (maxDurationEvaluator) EvalAction(a *plan.Action) (dist.Bound, error) {
	if err := checkAction(a); err != nil {
		return dist.Unknown(), err
	}
	return a.Duration().MaxValue(), nil
}

func (m maxDurationEvaluator) EvalSteps(p *plan.Steps) (dist.Bound, error) {
	return m.sum(p)
}

func (m maxDurationEvaluator) EvalRequirements(p *plan.Requirements) (dist.Bound, error) {
	return m.longest(p)
}

func (m maxDurationEvaluator) EvalOptions(p *plan.Options) (dist.Bound, error) {
	return m.sum(p)
}

func (m maxDurationEvaluator) EvalAlternatives(p *plan.Alternatives) (dist.Bound, error) {
	return m.sum(p)
}

// Exactly one child runs, whatever the selection policy.
func (m maxDurationEvaluator) EvalChoices(p *plan.Choices) (dist.Bound, error) {
	return m.longest(p)
}

// EvalEnsure is bounded only when the child cannot fail. A child that can
// never succeed is a usage error, as it is when sampled.
func (m maxDurationEvaluator) EvalEnsure(p *plan.Ensure) (dist.Bound, error) {
	child, err := reachability(p.Child())
	if err != nil {
		return dist.Unknown(), err
	}
	if !child.can {
		return dist.Unknown(), fmt.Errorf("ensure %q: child %q can never succeed: %w", p.Name(), p.Child().Name(), plan.ErrUsage)
	}
	if !child.always {
		return dist.Unknown(), nil
	}
	return plan.Evaluate[dist.Bound](m, p.Child())
}

func (m maxDurationEvaluator) EvalLoop(p *plan.Loop) (dist.Bound, error) {
	child, err := plan.Evaluate[dist.Bound](m, p.Child())
	if err != nil {
		return dist.Unknown(), err
	}
	return child.Scale(max(p.MaxLoops(), 0)), nil
}

func (m maxDurationEvaluator) EvalIfElse(p *plan.IfElse) (dist.Bound, error) {
	bounds, err := m.children(p)
	if err != nil {
		return dist.Unknown(), err
	}
	return bounds[0].Add(bounds[1].Max(bounds[2])), nil
}

func (maxDurationEvaluator) EvalFail(*plan.Fail) (dist.Bound, error) {
	return dist.Known(0), nil
}

func (m maxDurationEvaluator) EvalOptional(p *plan.Optional) (dist.Bound, error) {
	return plan.Evaluate[dist.Bound](m, p.Child())
}
