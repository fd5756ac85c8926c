package plan

import (
	"fmt"
	"slices"
)

// History is the record of one simulated execution of a (sub)plan: the
// top-level result event and every descendant event, in order.
//
// No descendant event starts before the result starts or ends after it
// ends; construction fails otherwise.
type History struct {
	result   Event
	events   []Event
	children []*History
}

// NewHistory validates and builds a History.
func NewHistory(result Event, events ...Event) (*History, error) {
	if result.Plan == nil {
		return nil, fmt.Errorf("history result event has no plan: %w", ErrInvariant)
	}
	if result.End < result.Start {
		return nil, fmt.Errorf("history result %s ends before it starts: %w", result, ErrInvariant)
	}
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, CompareEvents)
	for _, e := range sorted {
		if e.Start < result.Start {
			return nil, fmt.Errorf("sub-event %s starts before %s: %w", e, result, ErrInvariant)
		}
		if e.End > result.End {
			return nil, fmt.Errorf("sub-event %s ends after %s: %w", e, result, ErrInvariant)
		}
	}
	return &History{result: result, events: sorted}, nil
}

// WithChildren nests the complete event sets of children under result and
// keeps the children themselves, in the order given.
func WithChildren(result Event, children ...*History) (*History, error) {
	h, err := NewHistory(result, collect(children)...)
	if err != nil {
		return nil, err
	}
	h.children = slices.DeleteFunc(slices.Clone(children), func(c *History) bool { return c == nil })
	return h, nil
}

// WithAbortableChildren nests children under result, cutting everything off
// at result.End.
//
// When any child event runs past the cut, each event that started by the
// cut is aborted there and events that start later are dropped. The result
// event keeps the status the caller gave it.
func WithAbortableChildren(result Event, children ...*History) (*History, error) {
	cut := result.End
	overrun := slices.ContainsFunc(collect(children), func(e Event) bool { return e.End > cut })
	if !overrun {
		return WithChildren(result, children...)
	}
	kept := make([]*History, 0, len(children))
	for _, c := range children {
		if c == nil {
			continue
		}
		t, ok, err := c.truncate(cut)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, t)
		}
	}
	return WithChildren(result, kept...)
}

// truncate aborts h and everything in it at cut. It reports false when h
// starts after the cut.
func (h *History) truncate(cut int) (*History, bool, error) {
	if h.result.Start > cut {
		return nil, false, nil
	}
	result, err := h.result.Abort(cut)
	if err != nil {
		return nil, false, err
	}
	if len(h.children) > 0 {
		kept := make([]*History, 0, len(h.children))
		for _, c := range h.children {
			t, ok, err := c.truncate(cut)
			if err != nil {
				return nil, false, err
			}
			if ok {
				kept = append(kept, t)
			}
		}
		t, err := WithChildren(result, kept...)
		return t, err == nil, err
	}
	events := make([]Event, 0, len(h.events))
	for _, e := range h.events {
		if e.Start > cut {
			continue
		}
		aborted, err := e.Abort(cut)
		if err != nil {
			return nil, false, err
		}
		events = append(events, aborted)
	}
	t, err := NewHistory(result, events...)
	return t, err == nil, err
}

func collect(children []*History) []Event {
	var out []Event
	for _, h := range children {
		if h == nil {
			continue
		}
		out = append(out, h.AllEvents()...)
	}
	return out
}

// Result is the top-level event.
func (h *History) Result() Event { return h.result }

// Events returns the descendant events, sorted.
func (h *History) Events() []Event { return slices.Clone(h.events) }

// AllEvents returns the descendant events followed by the result.
func (h *History) AllEvents() []Event {
	out := make([]Event, 0, len(h.events)+1)
	out = append(out, h.events...)
	return append(out, h.result)
}

// Children returns the histories nested under the result, in execution
// order. Histories built from bare events have none.
func (h *History) Children() []*History { return slices.Clone(h.children) }

func (h *History) Start() int { return h.result.Start }
func (h *History) End() int   { return h.result.End }

// EventsFor returns every recorded attempt of p, sorted.
func (h *History) EventsFor(p Plan) []Event {
	var out []Event
	for _, e := range h.AllEvents() {
		if e.Plan != nil && e.Plan.ID() == p.ID() {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, CompareEvents)
	return out
}

// SubHistory extracts the latest attempt of p together with the events of
// p's descendants that fall inside it.
func (h *History) SubHistory(p Plan) (*History, error) {
	top := h.EventsFor(p)
	if len(top) == 0 {
		return nil, fmt.Errorf("no event in history for %s %q: %w", p.Kind(), p.Name(), ErrUsage)
	}
	latest := top[len(top)-1]
	if sub := h.find(latest); sub != nil {
		return sub, nil
	}

	below := make(map[string]bool)
	for _, d := range Descendants(p) {
		if d.ID() != p.ID() {
			below[d.ID()] = true
		}
	}
	var sub []Event
	for _, e := range h.events {
		if e.Plan != nil && below[e.Plan.ID()] && latest.ContainsEvent(e) {
			sub = append(sub, e)
		}
	}
	return NewHistory(latest, sub...)
}

// find returns the nested history whose result is e.
func (h *History) find(e Event) *History {
	if h.result == e {
		return h
	}
	for _, c := range h.children {
		if found := c.find(e); found != nil {
			return found
		}
	}
	return nil
}
