// Package dist implements the integer duration distributions attached to
// plan actions.
package dist

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// IntDist is an integer-valued probability distribution.
type IntDist interface {
	// Sample draws one value from r.
	Sample(r *rand.Rand) int
	// IsDeterministic reports whether every sample yields the same value.
	IsDeterministic() bool
	// MaxValue is a conservative upper bound on any sample.
	MaxValue() Bound
}

// Constant always yields Value.
type Constant struct {
	Value int
}

// Const is shorthand for Constant{Value: v}.
func Const(v int) Constant { return Constant{Value: v} }

func (c Constant) Sample(*rand.Rand) int { return c.Value }
func (c Constant) IsDeterministic() bool { return true }
func (c Constant) MaxValue() Bound       { return Known(c.Value) }
func (c Constant) String() string        { return fmt.Sprintf("%d", c.Value) }

// UniformRange yields an integer drawn uniformly from [Min, Max].
type UniformRange struct {
	Min int
	Max int
}

// Uniform returns the uniform distribution over [lo, hi].
func Uniform(lo, hi int) UniformRange { return UniformRange{Min: lo, Max: hi} }

func (u UniformRange) Sample(r *rand.Rand) int {
	if u.Max <= u.Min {
		return u.Min
	}
	return u.Min + r.IntN(u.Max-u.Min+1)
}

func (u UniformRange) IsDeterministic() bool { return u.Min >= u.Max }

func (u UniformRange) MaxValue() Bound { return Known(max(u.Min, u.Max)) }

func (u UniformRange) String() string { return fmt.Sprintf("U[%d,%d]", u.Min, u.Max) }

// Sum is the distribution of the sum of independent samples of its terms.
type Sum struct {
	terms []IntDist
}

// Plus adds distributions. Nested sums are flattened, so Plus is
// associative in structure as well as in value.
func Plus(ds ...IntDist) Sum {
	var terms []IntDist
	for _, d := range ds {
		switch v := d.(type) {
		case nil:
			continue
		case Sum:
			terms = append(terms, v.terms...)
		case *Sum:
			terms = append(terms, v.terms...)
		default:
			terms = append(terms, d)
		}
	}
	return Sum{terms: terms}
}

// Terms returns a copy of the summands.
func (s Sum) Terms() []IntDist {
	out := make([]IntDist, len(s.terms))
	copy(out, s.terms)
	return out
}

// Plus appends more distributions to the sum.
func (s Sum) Plus(ds ...IntDist) Sum {
	return Plus(append([]IntDist{s}, ds...)...)
}

func (s Sum) Sample(r *rand.Rand) int {
	total := 0
	for _, t := range s.terms {
		total += t.Sample(r)
	}
	return total
}

func (s Sum) IsDeterministic() bool {
	for _, t := range s.terms {
		if !t.IsDeterministic() {
			return false
		}
	}
	return true
}

func (s Sum) MaxValue() Bound {
	b := Known(0)
	for _, t := range s.terms {
		b = b.Add(t.MaxValue())
	}
	return b
}

func (s Sum) String() string {
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = fmt.Sprint(t)
	}
	return "(" + strings.Join(parts, " + ") + ")"
}

// Validate reports a distribution that could yield a negative value or
// whose range is empty. Distributions of other types are accepted.
func Validate(d IntDist) error {
	switch v := d.(type) {
	case nil:
		return fmt.Errorf("missing distribution")
	case Constant:
		if v.Value < 0 {
			return fmt.Errorf("constant %d is negative", v.Value)
		}
	case UniformRange:
		if v.Min < 0 {
			return fmt.Errorf("range %s starts below zero", v)
		}
		if v.Max < v.Min {
			return fmt.Errorf("range %s is empty", v)
		}
	case Sum:
		for _, t := range v.terms {
			if err := Validate(t); err != nil {
				return err
			}
		}
	}
	return nil
}
