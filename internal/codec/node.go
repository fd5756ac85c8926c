// Package codec converts plan trees to and from a tagged, nested document
// form that serializes as JSON or YAML.
package codec

import (
	"errors"
	"fmt"

	"plankit/internal/dist"
	"plankit/internal/plan"
)

// ErrUnknownType is returned for an unrecognized node or distribution type.
var ErrUnknownType = errors.New("unknown type")

// Node is the serialized form of a plan node. Action fields are set only on
// actions and MaxLoops only on loops.
type Node struct {
	Type        string    `json:"type" yaml:"type"`
	Name        string    `json:"name" yaml:"name"`
	Children    []Node    `json:"children" yaml:"children"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	SuccessProb *float64  `json:"success_prob,omitempty" yaml:"success_prob,omitempty"`
	Duration    *DistNode `json:"duration,omitempty" yaml:"duration,omitempty"`
	MaxLoops    *int      `json:"max_loops,omitempty" yaml:"max_loops,omitempty"`
}

// Distribution type tags.
const (
	DistConstant     = "Constant"
	DistUniformRange = "UniformRange"
	DistSum          = "Sum"
)

// DistNode is the serialized form of a duration distribution.
type DistNode struct {
	Type  string     `json:"type" yaml:"type"`
	Value *int       `json:"value,omitempty" yaml:"value,omitempty"`
	Min   *int       `json:"min,omitempty" yaml:"min,omitempty"`
	Max   *int       `json:"max,omitempty" yaml:"max,omitempty"`
	Terms []DistNode `json:"terms,omitempty" yaml:"terms,omitempty"`
}

// Encode converts p into its serialized form.
func Encode(p plan.Plan) (Node, error) {
	return plan.Evaluate[Node](encoder{}, p)
}

// Decode validates n and builds the plan tree it describes. Node identities
// are fresh.
func Decode(n Node) (plan.Plan, error) {
	if errs := Validate(n); len(errs) > 0 {
		return nil, errs
	}
	return decode(n)
}

type encoder struct{}

func (e encoder) node(p plan.Plan) (Node, error) {
	children, err := plan.EvaluateAll[Node](e, p.Children())
	if err != nil {
		return Node{}, err
	}
	if children == nil {
		children = []Node{}
	}
	return Node{Type: string(p.Kind()), Name: p.Name(), Children: children}, nil
}

func (e encoder) EvalAction(a *plan.Action) (Node, error) {
	n, err := e.node(a)
	if err != nil {
		return Node{}, err
	}
	d, err := EncodeDist(a.Duration())
	if err != nil {
		return Node{}, fmt.Errorf("action %q: %w", a.Name(), err)
	}
	prob := a.SuccessProb()
	n.Description = a.Description()
	n.SuccessProb = &prob
	n.Duration = &d
	return n, nil
}

func (e encoder) EvalLoop(l *plan.Loop) (Node, error) {
	n, err := e.node(l)
	if err != nil {
		return Node{}, err
	}
	loops := l.MaxLoops()
	n.MaxLoops = &loops
	return n, nil
}

func (e encoder) EvalSteps(p *plan.Steps) (Node, error)               { return e.node(p) }
func (e encoder) EvalRequirements(p *plan.Requirements) (Node, error) { return e.node(p) }
func (e encoder) EvalOptions(p *plan.Options) (Node, error)           { return e.node(p) }
func (e encoder) EvalAlternatives(p *plan.Alternatives) (Node, error) { return e.node(p) }
func (e encoder) EvalEnsure(p *plan.Ensure) (Node, error)             { return e.node(p) }
func (e encoder) EvalIfElse(p *plan.IfElse) (Node, error)             { return e.node(p) }
func (e encoder) EvalFail(p *plan.Fail) (Node, error)                 { return e.node(p) }
func (e encoder) EvalOptional(p *plan.Optional) (Node, error)         { return e.node(p) }
func (e encoder) EvalChoices(p *plan.Choices) (Node, error)           { return e.node(p) }

// EncodeDist converts a distribution into its serialized form.
func EncodeDist(d dist.IntDist) (DistNode, error) {
	switch v := d.(type) {
	case dist.Constant:
		return DistNode{Type: DistConstant, Value: intPtr(v.Value)}, nil
	case dist.UniformRange:
		return DistNode{Type: DistUniformRange, Min: intPtr(v.Min), Max: intPtr(v.Max)}, nil
	case dist.Sum:
		terms := make([]DistNode, 0, len(v.Terms()))
		for _, t := range v.Terms() {
			tn, err := EncodeDist(t)
			if err != nil {
				return DistNode{}, err
			}
			terms = append(terms, tn)
		}
		return DistNode{Type: DistSum, Terms: terms}, nil
	default:
		return DistNode{}, fmt.Errorf("distribution %T: %w", d, ErrUnknownType)
	}
}

// DecodeDist builds the distribution d describes. It assumes d is valid.
func DecodeDist(d DistNode) (dist.IntDist, error) {
	switch d.Type {
	case DistConstant:
		return dist.Const(deref(d.Value)), nil
	case DistUniformRange:
		return dist.Uniform(deref(d.Min), deref(d.Max)), nil
	case DistSum:
		terms := make([]dist.IntDist, 0, len(d.Terms))
		for _, t := range d.Terms {
			td, err := DecodeDist(t)
			if err != nil {
				return nil, err
			}
			terms = append(terms, td)
		}
		return dist.Plus(terms...), nil
	default:
		return nil, fmt.Errorf("distribution %q: %w", d.Type, ErrUnknownType)
	}
}

func decode(n Node) (plan.Plan, error) {
	children := make([]plan.Plan, 0, len(n.Children))
	for _, c := range n.Children {
		p, err := decode(c)
		if err != nil {
			return nil, err
		}
		children = append(children, p)
	}

	var named []plan.Option
	if n.Name != "" {
		named = append(named, plan.WithName(n.Name))
	}

	switch plan.Kind(n.Type) {
	case plan.KindAction:
		opts := []plan.Option{plan.WithDescription(n.Description)}
		if n.SuccessProb != nil {
			opts = append(opts, plan.WithSuccessProb(*n.SuccessProb))
		}
		if n.Duration != nil {
			d, err := DecodeDist(*n.Duration)
			if err != nil {
				return nil, err
			}
			opts = append(opts, plan.WithDuration(d))
		}
		return plan.NewAction(n.Name, opts...), nil
	case plan.KindSteps:
		return plan.NewSteps(n.Name, children...), nil
	case plan.KindRequirements:
		return plan.NewRequirements(n.Name, children...), nil
	case plan.KindOptions:
		return plan.NewOptions(n.Name, children...), nil
	case plan.KindAlternatives:
		return plan.NewAlternatives(n.Name, children...), nil
	case plan.KindChoices:
		return plan.NewChoices(n.Name, children...), nil
	case plan.KindEnsure:
		return plan.NewEnsure(children[0], named...), nil
	case plan.KindLoop:
		return plan.NewLoop(children[0], deref(n.MaxLoops), named...), nil
	case plan.KindIfElse:
		return plan.NewIfElse(children[0], children[1], children[2], named...), nil
	case plan.KindOptional:
		return plan.NewOptional(children[0], named...), nil
	case plan.KindFail:
		return plan.NewFail(named...), nil
	default:
		return nil, fmt.Errorf("node %q: %w", n.Type, ErrUnknownType)
	}
}

func intPtr(v int) *int { return &v }

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
