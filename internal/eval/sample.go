package eval

import (
	"fmt"
	"math/rand/v2"

	"plankit/internal/outcome"
	"plankit/internal/plan"
)

// SampleOutcome simulates one execution of p and reports its status and
// duration. Every draw in the run comes from a single random source.
func SampleOutcome(p plan.Plan, opts ...Option) (outcome.Outcome, error) {
	return plan.Evaluate[outcome.Outcome](newOutcomeSampler(newConfig(opts)), p)
}

type outcomeSampler struct {
	rng     *rand.Rand
	chooser Chooser
}

func newOutcomeSampler(c config) *outcomeSampler {
	return &outcomeSampler{rng: c.rng, chooser: c.chooser}
}

// sampleAction draws the success test before the duration.
func sampleAction(a *plan.Action, r *rand.Rand) (outcome.Outcome, error) {
	if err := checkAction(a); err != nil {
		return outcome.Outcome{}, err
	}
	p := r.Float64()
	d := a.Duration().Sample(r)
	if d < 0 {
		return outcome.Outcome{}, fmt.Errorf("action %q: sampled negative duration %d: %w", a.Name(), d, plan.ErrUsage)
	}
	return outcome.Outcome{Status: outcome.Of(p <= a.SuccessProb()), Duration: d}, nil
}

func choose(ch Chooser, c *plan.Choices, r *rand.Rand) (plan.Plan, error) {
	if ch == nil {
		return nil, fmt.Errorf("choices %q: no chooser configured: %w", c.Name(), plan.ErrNotImplemented)
	}
	children := c.Children()
	idx := ch.Choose(c, r)
	if idx < 0 || idx >= len(children) {
		return nil, fmt.Errorf("choices %q: chooser picked %d of %d children: %w", c.Name(), idx, len(children), plan.ErrUsage)
	}
	return children[idx], nil
}

func (s *outcomeSampler) EvalAction(a *plan.Action) (outcome.Outcome, error) {
	return sampleAction(a, s.rng)
}

func (s *outcomeSampler) EvalSteps(p *plan.Steps) (outcome.Outcome, error) {
	result := outcome.Outcome{Status: outcome.Success}
	for _, child := range p.Children() {
		o, err := plan.Evaluate[outcome.Outcome](s, child)
		if err != nil {
			return outcome.Outcome{}, err
		}
		result.Status = result.Status.And(o.Status)
		result.Duration += o.Duration
		if !result.Status.OK() {
			break
		}
	}
	return result, nil
}

// EvalRequirements reports the earliest failure if any child fails, and the
// latest completion otherwise. Ties between failures resolve to the same
// minimum.
func (s *outcomeSampler) EvalRequirements(p *plan.Requirements) (outcome.Outcome, error) {
	outcomes, err := plan.EvaluateAll[outcome.Outcome](s, p.Children())
	if err != nil {
		return outcome.Outcome{}, err
	}
	firstFailure, failed := -1, false
	latest := 0
	for _, o := range outcomes {
		latest = max(latest, o.Duration)
		if !o.Status.OK() && (!failed || o.Duration < firstFailure) {
			firstFailure, failed = o.Duration, true
		}
	}
	if failed {
		return outcome.Outcome{Status: outcome.Failure, Duration: firstFailure}, nil
	}
	return outcome.Outcome{Status: outcome.Success, Duration: latest}, nil
}

func (s *outcomeSampler) EvalOptions(p *plan.Options) (outcome.Outcome, error) {
	result := outcome.Outcome{Status: outcome.Failure}
	for _, child := range p.Children() {
		o, err := plan.Evaluate[outcome.Outcome](s, child)
		if err != nil {
			return outcome.Outcome{}, err
		}
		result.Status = result.Status.Or(o.Status)
		result.Duration += o.Duration
		if result.Status.OK() {
			break
		}
	}
	return result, nil
}

func (s *outcomeSampler) EvalAlternatives(p *plan.Alternatives) (outcome.Outcome, error) {
	outcomes, err := plan.EvaluateAll[outcome.Outcome](s, p.Children())
	if err != nil {
		return outcome.Outcome{}, err
	}
	firstSuccess, succeeded := -1, false
	latest := 0
	for _, o := range outcomes {
		latest = max(latest, o.Duration)
		if o.Status.OK() && (!succeeded || o.Duration < firstSuccess) {
			firstSuccess, succeeded = o.Duration, true
		}
	}
	if succeeded {
		return outcome.Outcome{Status: outcome.Success, Duration: firstSuccess}, nil
	}
	return outcome.Outcome{Status: outcome.Failure, Duration: latest}, nil
}

func (s *outcomeSampler) EvalEnsure(p *plan.Ensure) (outcome.Outcome, error) {
	if _, err := reachability(p); err != nil {
		return outcome.Outcome{}, err
	}
	total := 0
	for {
		o, err := plan.Evaluate[outcome.Outcome](s, p.Child())
		if err != nil {
			return outcome.Outcome{}, err
		}
		total += o.Duration
		if o.Status.OK() {
			return outcome.Outcome{Status: outcome.Success, Duration: total}, nil
		}
	}
}

func (s *outcomeSampler) EvalLoop(p *plan.Loop) (outcome.Outcome, error) {
	total := 0
	for range p.MaxLoops() {
		o, err := plan.Evaluate[outcome.Outcome](s, p.Child())
		if err != nil {
			return outcome.Outcome{}, err
		}
		total += o.Duration
		if o.Status.OK() {
			return outcome.Outcome{Status: outcome.Success, Duration: total}, nil
		}
	}
	return outcome.Outcome{Status: outcome.Failure, Duration: total}, nil
}

func (s *outcomeSampler) EvalIfElse(p *plan.IfElse) (outcome.Outcome, error) {
	test, err := plan.Evaluate[outcome.Outcome](s, p.Test())
	if err != nil {
		return outcome.Outcome{}, err
	}
	branch := p.Alternate()
	if test.Status.OK() {
		branch = p.Consequent()
	}
	o, err := plan.Evaluate[outcome.Outcome](s, branch)
	if err != nil {
		return outcome.Outcome{}, err
	}
	return outcome.Outcome{Status: o.Status, Duration: test.Duration + o.Duration}, nil
}

func (s *outcomeSampler) EvalFail(*plan.Fail) (outcome.Outcome, error) {
	return outcome.Outcome{Status: outcome.Failure}, nil
}

func (s *outcomeSampler) EvalOptional(p *plan.Optional) (outcome.Outcome, error) {
	o, err := plan.Evaluate[outcome.Outcome](s, p.Child())
	if err != nil {
		return outcome.Outcome{}, err
	}
	return outcome.Outcome{Status: outcome.Success, Duration: o.Duration}, nil
}

func (s *outcomeSampler) EvalChoices(p *plan.Choices) (outcome.Outcome, error) {
	child, err := choose(s.chooser, p, s.rng)
	if err != nil {
		return outcome.Outcome{}, err
	}
	return plan.Evaluate[outcome.Outcome](s, child)
}
