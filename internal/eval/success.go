package eval

import (
	"math"

	"plankit/internal/plan"
)

// SuccessProbability is the static probability that p succeeds, assuming
// children succeed independently.
func SuccessProbability(p plan.Plan) (float64, error) {
	return plan.Evaluate[float64](successEvaluator{}, p)
}

type successEvaluator struct {
	plan.Unimplemented[float64]
}

func (successEvaluator) EvalAction(a *plan.Action) (float64, error) {
	if err := checkAction(a); err != nil {
		return 0, err
	}
	return a.SuccessProb(), nil
}

func (s successEvaluator) conjunction(p plan.Plan) (float64, error) {
	probs, err := plan.EvaluateAll[float64](s, p.Children())
	if err != nil {
		return 0, err
	}
	total := 1.0
	for _, v := range probs {
		total *= v
	}
	return total, nil
}

func (s successEvaluator) disjunction(p plan.Plan) (float64, error) {
	probs, err := plan.EvaluateAll[float64](s, p.Children())
	if err != nil {
		return 0, err
	}
	none := 1.0
	for _, v := range probs {
		none *= 1.0 - v
	}
	return 1.0 - none, nil
}

func (s successEvaluator) EvalSteps(p *plan.Steps) (float64, error) {
	return s.conjunction(p)
}

func (s successEvaluator) EvalRequirements(p *plan.Requirements) (float64, error) {
	return s.conjunction(p)
}

func (s successEvaluator) EvalOptions(p *plan.Options) (float64, error) {
	return s.disjunction(p)
}

func (s successEvaluator) EvalAlternatives(p *plan.Alternatives) (float64, error) {
	return s.disjunction(p)
}

// EvalEnsure is certain once the child can succeed at all, whatever its
// own probability, so a Choices beneath it needs no policy.
func (successEvaluator) EvalEnsure(p *plan.Ensure) (float64, error) {
	if _, err := reachability(p); err != nil {
		return 0, err
	}
	return 1.0, nil
}

func (s successEvaluator) EvalLoop(p *plan.Loop) (float64, error) {
	child, err := plan.Evaluate[float64](s, p.Child())
	if err != nil {
		return 0, err
	}
	if p.MaxLoops() <= 0 {
		return 0, nil
	}
	return 1.0 - math.Pow(1.0-child, float64(p.MaxLoops())), nil
}

func (s successEvaluator) EvalIfElse(p *plan.IfElse) (float64, error) {
	probs, err := plan.EvaluateAll[float64](s, p.Children())
	if err != nil {
		return 0, err
	}
	test, cons, alt := probs[0], probs[1], probs[2]
	return test*cons + (1.0-test)*alt, nil
}

func (successEvaluator) EvalFail(*plan.Fail) (float64, error) { return 0, nil }

func (successEvaluator) EvalOptional(*plan.Optional) (float64, error) { return 1.0, nil }
