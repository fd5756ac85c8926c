// Package plan defines the tree of plan combinators, the evaluator protocol
// used to walk it, and the Event/History model of a simulated execution.
//
// Plans are immutable once built. Node identity is assigned at construction
// and is the only basis for equality: two nodes built from identical content
// are still distinct.
package plan

import (
	"fmt"

	"github.com/google/uuid"

	"plankit/internal/dist"
)

// Kind tags each Plan variant.
type Kind string

const (
	KindAction       Kind = "Action"
	KindSteps        Kind = "Steps"
	KindRequirements Kind = "Requirements"
	KindOptions      Kind = "Options"
	KindAlternatives Kind = "Alternatives"
	KindEnsure       Kind = "Ensure"
	KindLoop         Kind = "Loop"
	KindIfElse       Kind = "IfElse"
	KindFail         Kind = "Fail"
	KindOptional     Kind = "Optional"
	KindChoices      Kind = "Choices"
)

// Kinds lists every variant in declaration order.
var Kinds = []Kind{
	KindAction, KindSteps, KindRequirements, KindOptions, KindAlternatives,
	KindEnsure, KindLoop, KindIfElse, KindFail, KindOptional, KindChoices,
}

// Plan is a node in the plan tree. The set of implementations is closed.
type Plan interface {
	ID() string
	Name() string
	Kind() Kind
	// Children returns a copy of the ordered child list.
	Children() []Plan

	sealed()
}

type node struct {
	id       string
	name     string
	children []Plan
}

func newNode(name string, children []Plan) node {
	kids := make([]Plan, len(children))
	copy(kids, children)
	return node{id: uuid.NewString(), name: name, children: kids}
}

func (n *node) ID() string   { return n.id }
func (n *node) Name() string { return n.name }
func (n *node) sealed()      {}

func (n *node) Children() []Plan {
	out := make([]Plan, len(n.children))
	copy(out, n.children)
	return out
}

// Action is the only leaf with stochastic primitives: a success probability
// and a duration distribution.
type Action struct {
	node
	description string
	successProb float64
	duration    dist.IntDist
}

// NewAction builds an action. Without options it always succeeds instantly.
func NewAction(name string, opts ...Option) *Action {
	o := resolve(name, opts)
	return &Action{
		node:        newNode(o.name, nil),
		description: o.description,
		successProb: o.successProb,
		duration:    o.duration,
	}
}

func (a *Action) Kind() Kind             { return KindAction }
func (a *Action) Description() string    { return a.description }
func (a *Action) SuccessProb() float64   { return a.successProb }
func (a *Action) Duration() dist.IntDist { return a.duration }
func (a *Action) String() string         { return describe(a) }

// Steps executes its children in order and stops at the first failure.
type Steps struct{ node }

func NewSteps(name string, children ...Plan) *Steps {
	return &Steps{newNode(name, children)}
}

func (s *Steps) Kind() Kind     { return KindSteps }
func (s *Steps) String() string { return describe(s) }

// Requirements executes its children in parallel; all must succeed.
type Requirements struct{ node }

func NewRequirements(name string, children ...Plan) *Requirements {
	return &Requirements{newNode(name, children)}
}

func (r *Requirements) Kind() Kind     { return KindRequirements }
func (r *Requirements) String() string { return describe(r) }

// Options tries its children in order until one succeeds.
type Options struct{ node }

func NewOptions(name string, children ...Plan) *Options {
	return &Options{newNode(name, children)}
}

func (o *Options) Kind() Kind     { return KindOptions }
func (o *Options) String() string { return describe(o) }

// Alternatives starts all children together and succeeds with the first
// success, aborting the rest.
type Alternatives struct{ node }

func NewAlternatives(name string, children ...Plan) *Alternatives {
	return &Alternatives{newNode(name, children)}
}

func (a *Alternatives) Kind() Kind     { return KindAlternatives }
func (a *Alternatives) String() string { return describe(a) }

// Ensure repeats its child until it succeeds.
type Ensure struct{ node }

func NewEnsure(child Plan, opts ...Option) *Ensure {
	o := resolve("Ensure "+child.Name(), opts)
	return &Ensure{newNode(o.name, []Plan{child})}
}

func (e *Ensure) Kind() Kind     { return KindEnsure }
func (e *Ensure) Child() Plan    { return e.children[0] }
func (e *Ensure) String() string { return describe(e) }

// Loop repeats its child until it succeeds, at most MaxLoops times.
type Loop struct {
	node
	maxLoops int
}

func NewLoop(child Plan, maxLoops int, opts ...Option) *Loop {
	o := resolve("Loop "+child.Name(), opts)
	return &Loop{node: newNode(o.name, []Plan{child}), maxLoops: maxLoops}
}

func (l *Loop) Kind() Kind     { return KindLoop }
func (l *Loop) Child() Plan    { return l.children[0] }
func (l *Loop) MaxLoops() int  { return l.maxLoops }
func (l *Loop) String() string { return describe(l) }

// IfElse runs Test, then Consequent on success or Alternate on failure.
type IfElse struct{ node }

func NewIfElse(test, consequent, alternate Plan, opts ...Option) *IfElse {
	o := resolve("IfElse", opts)
	return &IfElse{newNode(o.name, []Plan{test, consequent, alternate})}
}

func (i *IfElse) Kind() Kind       { return KindIfElse }
func (i *IfElse) Test() Plan       { return i.children[0] }
func (i *IfElse) Consequent() Plan { return i.children[1] }
func (i *IfElse) Alternate() Plan  { return i.children[2] }
func (i *IfElse) String() string   { return describe(i) }

// Fail never succeeds and takes no time.
type Fail struct{ node }

func NewFail(opts ...Option) *Fail {
	o := resolve("FAIL", opts)
	return &Fail{newNode(o.name, nil)}
}

func (f *Fail) Kind() Kind     { return KindFail }
func (f *Fail) String() string { return describe(f) }

// Optional runs its child and succeeds regardless of the child's status.
type Optional struct{ node }

func NewOptional(child Plan, opts ...Option) *Optional {
	o := resolve("Optional "+child.Name(), opts)
	return &Optional{newNode(o.name, []Plan{child})}
}

func (o *Optional) Kind() Kind     { return KindOptional }
func (o *Optional) Child() Plan    { return o.children[0] }
func (o *Optional) String() string { return describe(o) }

// Choices executes exactly one of its children. Which one is decided by
// the evaluator's chooser.
type Choices struct{ node }

func NewChoices(name string, children ...Plan) *Choices {
	return &Choices{newNode(name, children)}
}

func (c *Choices) Kind() Kind     { return KindChoices }
func (c *Choices) String() string { return describe(c) }

func describe(p Plan) string {
	return fmt.Sprintf("%s(%s, %s)", p.Kind(), p.ID(), p.Name())
}

// FiniteLoop returns an Options holding n fresh plans from factory.
func FiniteLoop(n int, factory func() Plan) *Options {
	children := make([]Plan, 0, max(n, 0))
	for range n {
		children = append(children, factory())
	}
	return NewOptions(fmt.Sprintf("Loop%d", n), children...)
}

// Descendants lists p and everything beneath it in post-order: children
// before their parent, siblings in order.
func Descendants(p Plan) []Plan {
	var out []Plan
	var walk func(Plan)
	walk = func(n Plan) {
		for _, c := range n.Children() {
			walk(c)
		}
		out = append(out, n)
	}
	walk(p)
	return out
}

// Find returns the node with the given id beneath root, if any.
func Find(root Plan, id string) (Plan, bool) {
	for _, p := range Descendants(root) {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}
