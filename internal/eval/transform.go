package eval

import (
	"fmt"

	"plankit/internal/plan"
)

// Transformer rewrites a plan tree bottom-up. With no hooks set it rebuilds
// an equivalent tree: every composite is reconstructed from its transformed
// children with its kind, name and variant fields intact, and leaves are
// shared with the input.
type Transformer struct {
	// Action replaces a leaf action. The returned plan may be any variant.
	Action func(a *plan.Action) (plan.Plan, error)
	// Node runs after a node has been rebuilt, with the original node and
	// its rebuilt form. Whatever it returns takes the node's place.
	Node func(orig, rebuilt plan.Plan) (plan.Plan, error)
}

// Transform applies t to p and returns the new tree. p is not modified.
func (t Transformer) Transform(p plan.Plan) (plan.Plan, error) {
	return plan.Evaluate[plan.Plan](t, p)
}

func (t Transformer) finish(orig, rebuilt plan.Plan) (plan.Plan, error) {
	if t.Node == nil {
		return rebuilt, nil
	}
	out, err := t.Node(orig, rebuilt)
	if err != nil {
		return nil, fmt.Errorf("transform %s %q: %w", orig.Kind(), orig.Name(), err)
	}
	return out, nil
}

func (t Transformer) composite(p plan.Plan) (plan.Plan, error) {
	children, err := plan.EvaluateAll[plan.Plan](t, p.Children())
	if err != nil {
		return nil, err
	}
	rebuilt, err := plan.Rebuild(p, children)
	if err != nil {
		return nil, err
	}
	return t.finish(p, rebuilt)
}

func (t Transformer) EvalAction(a *plan.Action) (plan.Plan, error) {
	var out plan.Plan = a
	if t.Action != nil {
		replaced, err := t.Action(a)
		if err != nil {
			return nil, fmt.Errorf("transform action %q: %w", a.Name(), err)
		}
		out = replaced
	}
	return t.finish(a, out)
}

func (t Transformer) EvalFail(f *plan.Fail) (plan.Plan, error) { return t.finish(f, f) }

func (t Transformer) EvalSteps(p *plan.Steps) (plan.Plan, error) { return t.composite(p) }

func (t Transformer) EvalRequirements(p *plan.Requirements) (plan.Plan, error) {
	return t.composite(p)
}

func (t Transformer) EvalOptions(p *plan.Options) (plan.Plan, error) { return t.composite(p) }

func (t Transformer) EvalAlternatives(p *plan.Alternatives) (plan.Plan, error) {
	return t.composite(p)
}

func (t Transformer) EvalEnsure(p *plan.Ensure) (plan.Plan, error)     { return t.composite(p) }
func (t Transformer) EvalLoop(p *plan.Loop) (plan.Plan, error)         { return t.composite(p) }
func (t Transformer) EvalIfElse(p *plan.IfElse) (plan.Plan, error)     { return t.composite(p) }
func (t Transformer) EvalOptional(p *plan.Optional) (plan.Plan, error) { return t.composite(p) }
func (t Transformer) EvalChoices(p *plan.Choices) (plan.Plan, error)   { return t.composite(p) }

// EnsureActions wraps every leaf action in an Ensure, so each one is
// retried until it succeeds.
func EnsureActions() Transformer {
	return Transformer{
		Action: func(a *plan.Action) (plan.Plan, error) {
			return plan.NewEnsure(a), nil
		},
	}
}

// NumberSteps prefixes the name of each child of every Steps node with its
// one-based position, as in "1. Boil water".
func NumberSteps() Transformer {
	return Transformer{
		Node: func(orig, rebuilt plan.Plan) (plan.Plan, error) {
			if _, ok := orig.(*plan.Steps); !ok {
				return rebuilt, nil
			}
			children := rebuilt.Children()
			for i, c := range children {
				renamed, err := plan.Rename(c, fmt.Sprintf("%d. %s", i+1, c.Name()))
				if err != nil {
					return nil, err
				}
				children[i] = renamed
			}
			return plan.Rebuild(rebuilt, children)
		},
	}
}

// Chain runs each transformer in turn over the output of the previous one.
func Chain(p plan.Plan, ts ...Transformer) (plan.Plan, error) {
	var err error
	for _, t := range ts {
		if p, err = t.Transform(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}
