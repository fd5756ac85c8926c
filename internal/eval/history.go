package eval

import (
	"math/rand/v2"

	"plankit/internal/outcome"
	"plankit/internal/plan"
)

// SampleHistory simulates one execution of p and records a timestamped
// event for every attempt of every node that ran.
//
// The simulated clock is carried by value: each node starts at the clock
// of the sampler it is evaluated with, and its History's End is the clock
// after it. Parallel combinators evaluate every child from the same start.
func SampleHistory(p plan.Plan, opts ...Option) (*plan.History, error) {
	c := newConfig(opts)
	s := historySampler{now: c.start, rng: c.rng, chooser: c.chooser}
	return plan.Evaluate[*plan.History](s, p)
}

type historySampler struct {
	now     int
	rng     *rand.Rand
	chooser Chooser
}

func (s historySampler) at(t int) historySampler {
	s.now = t
	return s
}

func (s historySampler) run(p plan.Plan, start int) (*plan.History, error) {
	return plan.Evaluate[*plan.History](s.at(start), p)
}

// fork runs every child from the sampler's own start time.
func (s historySampler) fork(children []plan.Plan) ([]*plan.History, error) {
	out := make([]*plan.History, 0, len(children))
	for _, c := range children {
		h, err := s.run(c, s.now)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

func (s historySampler) EvalAction(a *plan.Action) (*plan.History, error) {
	o, err := sampleAction(a, s.rng)
	if err != nil {
		return nil, err
	}
	return plan.NewHistory(plan.NewEvent(a, s.now, s.now+o.Duration, o.Status))
}

func (s historySampler) EvalSteps(p *plan.Steps) (*plan.History, error) {
	status, clock := outcome.Success, s.now
	var done []*plan.History
	for _, child := range p.Children() {
		h, err := s.run(child, clock)
		if err != nil {
			return nil, err
		}
		done = append(done, h)
		status = status.And(h.Result().Status)
		clock = h.End()
		if !status.OK() {
			break
		}
	}
	return plan.WithChildren(plan.NewEvent(p, s.now, clock, status), done...)
}

func (s historySampler) EvalRequirements(p *plan.Requirements) (*plan.History, error) {
	children, err := s.fork(p.Children())
	if err != nil {
		return nil, err
	}
	if cut, ok := earliestEnd(children, outcome.Failure); ok {
		return plan.WithAbortableChildren(plan.NewEvent(p, s.now, cut, outcome.Failure), children...)
	}
	return plan.WithChildren(plan.NewEvent(p, s.now, latestEnd(children, s.now), outcome.Success), children...)
}

func (s historySampler) EvalOptions(p *plan.Options) (*plan.History, error) {
	status, clock := outcome.Failure, s.now
	var done []*plan.History
	for _, child := range p.Children() {
		h, err := s.run(child, clock)
		if err != nil {
			return nil, err
		}
		done = append(done, h)
		status = status.Or(h.Result().Status)
		clock = h.End()
		if status.OK() {
			break
		}
	}
	return plan.WithChildren(plan.NewEvent(p, s.now, clock, status), done...)
}

func (s historySampler) EvalAlternatives(p *plan.Alternatives) (*plan.History, error) {
	children, err := s.fork(p.Children())
	if err != nil {
		return nil, err
	}
	if cut, ok := earliestEnd(children, outcome.Success); ok {
		return plan.WithAbortableChildren(plan.NewEvent(p, s.now, cut, outcome.Success), children...)
	}
	return plan.WithChildren(plan.NewEvent(p, s.now, latestEnd(children, s.now), outcome.Failure), children...)
}

func (s historySampler) EvalEnsure(p *plan.Ensure) (*plan.History, error) {
	if _, err := reachability(p); err != nil {
		return nil, err
	}
	clock := s.now
	var attempts []*plan.History
	for {
		h, err := s.run(p.Child(), clock)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, h)
		clock = h.End()
		if h.Result().Status.OK() {
			break
		}
	}
	return plan.WithChildren(plan.NewEvent(p, s.now, clock, outcome.Success), attempts...)
}

func (s historySampler) EvalLoop(p *plan.Loop) (*plan.History, error) {
	status, clock := outcome.Failure, s.now
	var attempts []*plan.History
	for range p.MaxLoops() {
		h, err := s.run(p.Child(), clock)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, h)
		clock = h.End()
		if h.Result().Status.OK() {
			status = outcome.Success
			break
		}
	}
	return plan.WithChildren(plan.NewEvent(p, s.now, clock, status), attempts...)
}

func (s historySampler) EvalIfElse(p *plan.IfElse) (*plan.History, error) {
	test, err := s.run(p.Test(), s.now)
	if err != nil {
		return nil, err
	}
	branch := p.Alternate()
	if test.Result().Status.OK() {
		branch = p.Consequent()
	}
	taken, err := s.run(branch, test.End())
	if err != nil {
		return nil, err
	}
	return plan.WithChildren(plan.NewEvent(p, s.now, taken.End(), taken.Result().Status), test, taken)
}

func (s historySampler) EvalFail(p *plan.Fail) (*plan.History, error) {
	return plan.NewHistory(plan.NewEvent(p, s.now, s.now, outcome.Failure))
}

func (s historySampler) EvalOptional(p *plan.Optional) (*plan.History, error) {
	inner, err := s.run(p.Child(), s.now)
	if err != nil {
		return nil, err
	}
	return plan.WithChildren(plan.NewEvent(p, s.now, inner.End(), outcome.Success), inner)
}

func (s historySampler) EvalChoices(p *plan.Choices) (*plan.History, error) {
	child, err := choose(s.chooser, p, s.rng)
	if err != nil {
		return nil, err
	}
	h, err := s.run(child, s.now)
	if err != nil {
		return nil, err
	}
	return plan.WithChildren(plan.NewEvent(p, s.now, h.End(), h.Result().Status), h)
}

// earliestEnd is the first end time among children that finished with
// status.
func earliestEnd(children []*plan.History, status outcome.Status) (int, bool) {
	end, found := 0, false
	for _, h := range children {
		if h.Result().Status != status {
			continue
		}
		if !found || h.End() < end {
			end, found = h.End(), true
		}
	}
	return end, found
}

func latestEnd(children []*plan.History, floor int) int {
	end := floor
	for _, h := range children {
		end = max(end, h.End())
	}
	return end
}
