package plan

import "fmt"

// Rebuild constructs a new node of the same kind as p, with the given
// children and p's name and variant fields. Options override name and
// action fields. The result has a fresh identity.
func Rebuild(p Plan, children []Plan, opts ...Option) (Plan, error) {
	want := -1
	switch p.(type) {
	case *Action, *Fail:
		want = 0
	case *Ensure, *Loop, *Optional:
		want = 1
	case *IfElse:
		want = 3
	}
	if want >= 0 && len(children) != want {
		return nil, fmt.Errorf("rebuild %s %q: want %d children, got %d: %w",
			p.Kind(), p.Name(), want, len(children), ErrUsage)
	}

	named := append([]Option{WithName(p.Name())}, opts...)

	switch n := p.(type) {
	case *Action:
		base := []Option{
			WithName(n.Name()),
			WithDescription(n.description),
			WithSuccessProb(n.successProb),
			WithDuration(n.duration),
		}
		return NewAction(n.Name(), append(base, opts...)...), nil
	case *Steps:
		return NewSteps(resolve(n.Name(), opts).name, children...), nil
	case *Requirements:
		return NewRequirements(resolve(n.Name(), opts).name, children...), nil
	case *Options:
		return NewOptions(resolve(n.Name(), opts).name, children...), nil
	case *Alternatives:
		return NewAlternatives(resolve(n.Name(), opts).name, children...), nil
	case *Choices:
		return NewChoices(resolve(n.Name(), opts).name, children...), nil
	case *Ensure:
		return NewEnsure(children[0], named...), nil
	case *Loop:
		return NewLoop(children[0], n.maxLoops, named...), nil
	case *IfElse:
		return NewIfElse(children[0], children[1], children[2], named...), nil
	case *Optional:
		return NewOptional(children[0], named...), nil
	case *Fail:
		return NewFail(named...), nil
	default:
		return nil, fmt.Errorf("rebuild %T: %w", p, ErrUsage)
	}
}

// Rename returns a copy of p under a new name, sharing p's children.
func Rename(p Plan, name string) (Plan, error) {
	return Rebuild(p, p.Children(), WithName(name))
}
