package dist

import "strconv"

// Bound is an upper bound on an integer quantity that may be unknown.
//
// The zero value is Unknown. An unknown bound absorbs every arithmetic
// operation: it is never coerced to zero.
type Bound struct {
	value int
	known bool
}

// Known returns a bound with the given value.
func Known(v int) Bound { return Bound{value: v, known: true} }

// Unknown returns the unbounded sentinel.
func Unknown() Bound { return Bound{} }

// Value returns the bound and whether it is known.
func (b Bound) Value() (int, bool) { return b.value, b.known }

// IsKnown reports whether the bound is finite.
func (b Bound) IsKnown() bool { return b.known }

// Add sums two bounds.
func (b Bound) Add(other Bound) Bound {
	if !b.known || !other.known {
		return Unknown()
	}
	return Known(b.value + other.value)
}

// Max returns the larger of two bounds.
func (b Bound) Max(other Bound) Bound {
	if !b.known || !other.known {
		return Unknown()
	}
	return Known(max(b.value, other.value))
}

// Scale multiplies the bound by a non-negative factor.
func (b Bound) Scale(n int) Bound {
	if !b.known {
		return Unknown()
	}
	return Known(b.value * n)
}

func (b Bound) String() string {
	if !b.known {
		return "unknown"
	}
	return strconv.Itoa(b.value)
}
