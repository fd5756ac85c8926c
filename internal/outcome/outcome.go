// Package outcome holds the two-valued success semiring shared by every
// evaluator, and the (status, duration) result of a single sampled execution.
package outcome

import (
	"cmp"
	"fmt"
	"strings"
)

// Status is the result of a single execution attempt.
//
// Failure orders before Success.
type Status int

const (
	Failure Status = iota
	Success
)

// Of converts a boolean into a Status.
func Of(ok bool) Status {
	if ok {
		return Success
	}
	return Failure
}

// OK reports whether the status is Success.
func (s Status) OK() bool { return s == Success }

// And is the semiring product.
func (s Status) And(other Status) Status { return Of(s.OK() && other.OK()) }

// Or is the semiring sum.
func (s Status) Or(other Status) Status { return Of(s.OK() || other.OK()) }

// Not inverts the status.
func (s Status) Not() Status { return Of(!s.OK()) }

func (s Status) String() string {
	if s.OK() {
		return "SUCCESS"
	}
	return "FAILURE"
}

// ParseStatus accepts the names produced by String, case-insensitively.
func ParseStatus(v string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "SUCCESS":
		return Success, nil
	case "FAILURE":
		return Failure, nil
	default:
		return Failure, fmt.Errorf("unknown status %q", v)
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Outcome is one sampled execution: a status and a non-negative duration.
type Outcome struct {
	Status   Status `json:"status" yaml:"status"`
	Duration int    `json:"duration" yaml:"duration"`
}

// Compare orders outcomes lexicographically by (status, duration).
func Compare(a, b Outcome) int {
	if c := cmp.Compare(a.Status, b.Status); c != 0 {
		return c
	}
	return cmp.Compare(a.Duration, b.Duration)
}

// Less reports whether o orders before other.
func (o Outcome) Less(other Outcome) bool { return Compare(o, other) < 0 }

func (o Outcome) String() string {
	return fmt.Sprintf("%s (duration: %d)", o.Status, o.Duration)
}
