// Package eval implements the evaluators over plan trees: static success
// probability, duration bounds, stochastic outcome and history sampling,
// and tree rewriting.
package eval

import (
	"fmt"
	"math/rand/v2"

	"plankit/internal/plan"
)

// Chooser selects which child of a Choices node executes. It returns an
// index into c.Children().
type Chooser interface {
	Choose(c *plan.Choices, r *rand.Rand) int
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(c *plan.Choices, r *rand.Rand) int

func (f ChooserFunc) Choose(c *plan.Choices, r *rand.Rand) int { return f(c, r) }

// UniformChooser picks every child with equal probability.
var UniformChooser Chooser = ChooserFunc(func(c *plan.Choices, r *rand.Rand) int {
	n := len(c.Children())
	if n == 0 {
		return -1
	}
	return r.IntN(n)
})

// FirstChooser always picks the first child.
var FirstChooser Chooser = ChooserFunc(func(*plan.Choices, *rand.Rand) int { return 0 })

// ParseChooser maps a policy name to a Chooser: "uniform" or "first". The
// empty name means no chooser.
func ParseChooser(name string) (Chooser, error) {
	switch name {
	case "":
		return nil, nil
	case "uniform":
		return UniformChooser, nil
	case "first":
		return FirstChooser, nil
	default:
		return nil, fmt.Errorf("unknown choice policy %q (want uniform or first): %w", name, plan.ErrUsage)
	}
}

// Option configures a sampling run.
type Option func(*config)

type config struct {
	rng     *rand.Rand
	chooser Chooser
	start   int
}

// WithRand makes the run draw from r.
func WithRand(r *rand.Rand) Option {
	return func(c *config) {
		if r != nil {
			c.rng = r
		}
	}
}

// WithSeed makes the run reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.rng = NewRand(seed)
	}
}

// NewRand returns the source WithSeed would use for seed. Passing it to
// several runs through WithRand continues one stream across them.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// WithChooser installs the selection policy for Choices nodes. Without
// one, sampling a Choices node fails with plan.ErrNotImplemented.
func WithChooser(ch Chooser) Option {
	return func(c *config) {
		c.chooser = ch
	}
}

// WithStart sets the simulated clock value a sampled history starts at.
func WithStart(t int) Option {
	return func(c *config) {
		c.start = t
	}
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}
