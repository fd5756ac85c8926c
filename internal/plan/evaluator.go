package plan

import "fmt"

// Evaluator computes a value of type T from a plan, one method per variant.
//
// Evaluators must not mutate the nodes they are given. Embed
// Unimplemented to supply only the variants an evaluator understands.
type Evaluator[T any] interface {
	EvalAction(*Action) (T, error)
	EvalSteps(*Steps) (T, error)
	EvalRequirements(*Requirements) (T, error)
	EvalOptions(*Options) (T, error)
	EvalAlternatives(*Alternatives) (T, error)
	EvalEnsure(*Ensure) (T, error)
	EvalLoop(*Loop) (T, error)
	EvalIfElse(*IfElse) (T, error)
	EvalFail(*Fail) (T, error)
	EvalOptional(*Optional) (T, error)
	EvalChoices(*Choices) (T, error)
}

// Evaluate dispatches p to the matching method of ev.
func Evaluate[T any](ev Evaluator[T], p Plan) (T, error) {
	switch n := p.(type) {
	case *Action:
		return ev.EvalAction(n)
	case *Steps:
		return ev.EvalSteps(n)
	case *Requirements:
		return ev.EvalRequirements(n)
	case *Options:
		return ev.EvalOptions(n)
	case *Alternatives:
		return ev.EvalAlternatives(n)
	case *Ensure:
		return ev.EvalEnsure(n)
	case *Loop:
		return ev.EvalLoop(n)
	case *IfElse:
		return ev.EvalIfElse(n)
	case *Fail:
		return ev.EvalFail(n)
	case *Optional:
		return ev.EvalOptional(n)
	case *Choices:
		return ev.EvalChoices(n)
	default:
		var zero T
		return zero, fmt.Errorf("evaluate %T: %w", p, ErrUsage)
	}
}

// EvaluateAll evaluates each plan in order and stops at the first error.
func EvaluateAll[T any](ev Evaluator[T], plans []Plan) ([]T, error) {
	out := make([]T, 0, len(plans))
	for _, p := range plans {
		v, err := Evaluate(ev, p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Unimplemented answers every variant with ErrNotImplemented.
type Unimplemented[T any] struct{}

func notImplemented[T any](p Plan) (T, error) {
	var zero T
	return zero, fmt.Errorf("%s %q: %w", p.Kind(), p.Name(), ErrNotImplemented)
}

func (Unimplemented[T]) EvalAction(p *Action) (T, error)             { return notImplemented[T](p) }
func (Unimplemented[T]) EvalSteps(p *Steps) (T, error)               { return notImplemented[T](p) }
func (Unimplemented[T]) EvalRequirements(p *Requirements) (T, error) { return notImplemented[T](p) }
func (Unimplemented[T]) EvalOptions(p *Options) (T, error)           { return notImplemented[T](p) }
func (Unimplemented[T]) EvalAlternatives(p *Alternatives) (T, error) { return notImplemented[T](p) }
func (Unimplemented[T]) EvalEnsure(p *Ensure) (T, error)             { return notImplemented[T](p) }
func (Unimplemented[T]) EvalLoop(p *Loop) (T, error)                 { return notImplemented[T](p) }
func (Unimplemented[T]) EvalIfElse(p *IfElse) (T, error)             { return notImplemented[T](p) }
func (Unimplemented[T]) EvalFail(p *Fail) (T, error)                 { return notImplemented[T](p) }
func (Unimplemented[T]) EvalOptional(p *Optional) (T, error)         { return notImplemented[T](p) }
func (Unimplemented[T]) EvalChoices(p *Choices) (T, error)           { return notImplemented[T](p) }
