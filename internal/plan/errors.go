package plan

import "errors"

var (
	// ErrUsage marks a violated precondition on the caller's side.
	ErrUsage = errors.New("usage error")

	// ErrInvariant marks a structural check that failed while building a
	// value. It indicates a modeling bug rather than bad input.
	ErrInvariant = errors.New("invariant violation")

	// ErrNotImplemented is returned when an evaluator reaches a variant it
	// has no semantics for.
	ErrNotImplemented = errors.New("not implemented")
)
