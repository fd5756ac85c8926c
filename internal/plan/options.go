package plan

import "plankit/internal/dist"

// Option configures a plan constructor. Options a variant does not use are
// ignored.
type Option func(*options)

type options struct {
	name        string
	description string
	successProb float64
	duration    dist.IntDist
}

// WithName overrides the default name of Ensure, Loop, Optional, IfElse and
// Fail nodes, or renames an Action.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithDescription sets an action's free-form description.
func WithDescription(desc string) Option {
	return func(o *options) {
		o.description = desc
	}
}

// WithSuccessProb sets an action's probability of success.
func WithSuccessProb(p float64) Option {
	return func(o *options) {
		o.successProb = p
	}
}

// WithDuration sets an action's duration distribution.
//
// A nil distribution is treated as a constant zero.
func WithDuration(d dist.IntDist) Option {
	return func(o *options) {
		if d == nil {
			d = dist.Const(0)
		}
		o.duration = d
	}
}

// WithFixedDuration is shorthand for WithDuration(dist.Const(n)).
func WithFixedDuration(n int) Option {
	return WithDuration(dist.Const(n))
}

func resolve(name string, opts []Option) options {
	o := options{
		name:        name,
		successProb: 1.0,
		duration:    dist.Const(0),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
