package eval

import (
	"fmt"

	"plankit/internal/dist"
	"plankit/internal/plan"
)

// checkAction rejects actions whose success probability lies outside
// [0, 1] or whose duration could be negative.
func checkAction(a *plan.Action) error {
	if p := a.SuccessProb(); !(p >= 0 && p <= 1) {
		return fmt.Errorf("action %q: success probability %v outside [0, 1]: %w", a.Name(), p, plan.ErrUsage)
	}
	if err := dist.Validate(a.Duration()); err != nil {
		return fmt.Errorf("action %q: duration: %v: %w", a.Name(), err, plan.ErrUsage)
	}
	return nil
}

// reach records whether some execution of a plan can succeed and whether
// every execution does. Choices count under any selection policy.
type reach struct {
	can    bool
	always bool
}

// reachability decides reach statically. It is defined for every variant,
// Choices included, and fails with ErrUsage for an Ensure whose child can
// never succeed.
func reachability(p plan.Plan) (reach, error) {
	return plan.Evaluate[reach](reachEvaluator{}, p)
}

type reachEvaluator struct{}

func (e reachEvaluator) all(p plan.Plan) (reach, error) {
	rs, err := plan.EvaluateAll[reach](e, p.Children())
	if err != nil {
		return reach{}, err
	}
	out := reach{can: true, always: true}
	for _, r := range rs {
		out.can = out.can && r.can
		out.always = out.always && r.always
	}
	return out, nil
}

func (e reachEvaluator) some(p plan.Plan) (reach, error) {
	rs, err := plan.EvaluateAll[reach](e, p.Children())
	if err != nil {
		return reach{}, err
	}
	var out reach
	for _, r := range rs {
		out.can = out.can || r.can
		out.always = out.always || r.always
	}
	return out, nil
}

func (reachEvaluator) EvalAction(a *plan.Action) (reach, error) {
	if err := checkAction(a); err != nil {
		return reach{}, err
	}
	return reach{can: a.SuccessProb() > 0, always: a.SuccessProb() >= 1}, nil
}

func (e reachEvaluator) EvalSteps(p *plan.Steps) (reach, error)               { return e.all(p) }
func (e reachEvaluator) EvalRequirements(p *plan.Requirements) (reach, error) { return e.all(p) }
func (e reachEvaluator) EvalOptions(p *plan.Options) (reach, error)           { return e.some(p) }
func (e reachEvaluator) EvalAlternatives(p *plan.Alternatives) (reach, error) { return e.some(p) }

// EvalChoices: some choice may succeed when any child can; every choice
// succeeds only when all children always do.
func (e reachEvaluator) EvalChoices(p *plan.Choices) (reach, error) {
	rs, err := plan.EvaluateAll[reach](e, p.Children())
	if err != nil {
		return reach{}, err
	}
	out := reach{always: len(rs) > 0}
	for _, r := range rs {
		out.can = out.can || r.can
		out.always = out.always && r.always
	}
	return out, nil
}

func (e reachEvaluator) EvalEnsure(p *plan.Ensure) (reach, error) {
	child, err := plan.Evaluate[reach](e, p.Child())
	if err != nil {
		return reach{}, err
	}
	if !child.can {
		return reach{}, fmt.Errorf("ensure %q: child %q can never succeed: %w", p.Name(), p.Child().Name(), plan.ErrUsage)
	}
	return reach{can: true, always: true}, nil
}

func (e reachEvaluator) EvalLoop(p *plan.Loop) (reach, error) {
	child, err := plan.Evaluate[reach](e, p.Child())
	if err != nil {
		return reach{}, err
	}
	if p.MaxLoops() <= 0 {
		return reach{}, nil
	}
	return child, nil
}

func (e reachEvaluator) EvalIfElse(p *plan.IfElse) (reach, error) {
	rs, err := plan.EvaluateAll[reach](e, p.Children())
	if err != nil {
		return reach{}, err
	}
	test, cons, alt := rs[0], rs[1], rs[2]
	return reach{
		can:    (test.can && cons.can) || (!test.always && alt.can),
		always: (!test.can || cons.always) && (test.always || alt.always),
	}, nil
}

func (reachEvaluator) EvalFail(*plan.Fail) (reach, error) { return reach{}, nil }

func (e reachEvaluator) EvalOptional(p *plan.Optional) (reach, error) {
	if _, err := plan.Evaluate[reach](e, p.Child()); err != nil {
		return reach{}, err
	}
	return reach{can: true, always: true}, nil
}
