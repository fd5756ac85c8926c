package plan

import (
	"cmp"
	"fmt"

	"plankit/internal/outcome"
)

// Event records one execution attempt of a plan node over [Start, End].
type Event struct {
	Plan   Plan
	Start  int
	End    int
	Status outcome.Status
}

// NewEvent returns the completed attempt of p.
func NewEvent(p Plan, start, end int, status outcome.Status) Event {
	return Event{Plan: p, Start: start, End: end, Status: status}
}

// Duration is End - Start.
func (e Event) Duration() int { return e.End - e.Start }

// Outcome returns the status and duration of the attempt.
func (e Event) Outcome() outcome.Outcome {
	return outcome.Outcome{Status: e.Status, Duration: e.Duration()}
}

// Abort cuts the event off at time cut.
//
// A cut at or after End leaves the event unchanged. A cut inside the event
// ends it at cut with Failure. A cut before Start is an error.
func (e Event) Abort(cut int) (Event, error) {
	if cut < e.Start {
		return Event{}, fmt.Errorf("abort %s at %d before its start %d: %w", e.planName(), cut, e.Start, ErrUsage)
	}
	if cut >= e.End {
		return e, nil
	}
	return NewEvent(e.Plan, e.Start, cut, outcome.Failure), nil
}

// ContainsTime reports whether t lies in [Start, End].
func (e Event) ContainsTime(t int) bool { return e.Start <= t && t <= e.End }

// ContainsEvent reports whether other lies entirely within e.
func (e Event) ContainsEvent(other Event) bool {
	return e.ContainsTime(other.Start) && e.ContainsTime(other.End)
}

// Overlaps reports whether the two closed intervals intersect.
func (e Event) Overlaps(other Event) bool {
	return e.ContainsTime(other.Start) || other.ContainsTime(e.Start)
}

// Precedes reports whether e ends strictly before other starts.
func (e Event) Precedes(other Event) bool { return e.End < other.Start }

func (e Event) String() string {
	return fmt.Sprintf("%s [%d, %d] %s", e.planName(), e.Start, e.End, e.Status)
}

func (e Event) planName() string {
	if e.Plan == nil {
		return "<nil>"
	}
	return e.Plan.Name()
}

func (e Event) planID() string {
	if e.Plan == nil {
		return ""
	}
	return e.Plan.ID()
}

// CompareEvents orders events by start (time, then plan id) and then by
// end (time, then status).
func CompareEvents(a, b Event) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(a.planID(), b.planID()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.End, b.End); c != 0 {
		return c
	}
	return cmp.Compare(a.Status, b.Status)
}
