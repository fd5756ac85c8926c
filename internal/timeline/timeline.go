// Package timeline lays time intervals out on horizontal tracks and draws
// them as text.
package timeline

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"plankit/internal/plan"
)

// Interval is a closed span [Start, End] with an optional label.
type Interval struct {
	Start int
	End   int
	Label string
}

// Overlaps reports whether the two closed intervals share a point.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start <= o.End && o.Start <= i.End
}

func compareIntervals(a, b Interval) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.End, b.End)
}

// Layout assigns each interval to the lowest-numbered track on which it
// overlaps nothing. Intervals are placed in (start, end) order and each
// track lists its intervals in that order.
func Layout(intervals []Interval) [][]Interval {
	sorted := slices.Clone(intervals)
	slices.SortStableFunc(sorted, compareIntervals)

	var tracks [][]Interval
	for _, iv := range sorted {
		track := 0
		for track < len(tracks) && tracks[track][len(tracks[track])-1].Overlaps(iv) {
			track++
		}
		if track == len(tracks) {
			tracks = append(tracks, nil)
		}
		tracks[track] = append(tracks[track], iv)
	}
	return tracks
}

// Window maps the time range [T1, T2] onto the columns [X1, X2].
type Window struct {
	T1, T2 int
	X1, X2 int
}

// NewWindow validates the ranges of a window.
func NewWindow(t1, t2, x1, x2 int) (Window, error) {
	if t2 <= t1 {
		return Window{}, fmt.Errorf("window time range [%d, %d] is empty", t1, t2)
	}
	if x2 < x1 {
		return Window{}, fmt.Errorf("window column range [%d, %d] is negative", x1, x2)
	}
	return Window{T1: t1, T2: t2, X1: x1, X2: x2}, nil
}

// Column maps a time to a column, rounding to the nearest.
func (w Window) Column(t int) int {
	scale := float64(w.X2-w.X1) / float64(w.T2-w.T1)
	return w.X1 + int(math.Round(float64(t-w.T1)*scale))
}

// Map converts an interval from time to columns.
func (w Window) Map(i Interval) Interval {
	return Interval{Start: w.Column(i.Start), End: w.Column(i.End), Label: i.Label}
}

// Render draws intervals into lines of the given width, one line per track,
// track 0 first. Intervals are laid out after mapping to columns, so spans
// that would touch on screen never share a line.
func Render(intervals []Interval, width int) ([]string, error) {
	if width < 1 {
		return nil, fmt.Errorf("timeline width must be positive, got %d", width)
	}
	if len(intervals) == 0 {
		return nil, nil
	}
	lo, hi := intervals[0].Start, intervals[0].End
	for _, iv := range intervals {
		if iv.End < iv.Start {
			return nil, fmt.Errorf("interval %q ends at %d before it starts at %d", iv.Label, iv.End, iv.Start)
		}
		lo, hi = min(lo, iv.Start), max(hi, iv.End)
	}
	if hi == lo {
		hi = lo + 1
	}
	w, err := NewWindow(lo, hi, 0, width-1)
	if err != nil {
		return nil, err
	}

	mapped := make([]Interval, len(intervals))
	for i, iv := range intervals {
		mapped[i] = w.Map(iv)
	}

	var lines []string
	for _, track := range Layout(mapped) {
		cells := make([]string, width)
		for i := range cells {
			cells[i] = " "
		}
		for _, iv := range track {
			draw(cells, iv)
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, ""), " "))
	}
	return lines, nil
}

// draw paints one interval as |label---| across its columns. A single
// column interval is a bare bar.
func draw(cells []string, iv Interval) {
	if iv.Start == iv.End {
		cells[iv.Start] = "|"
		return
	}
	cells[iv.Start] = "|"
	cells[iv.End] = "|"
	for c := iv.Start + 1; c < iv.End; c++ {
		cells[c] = "-"
	}
	col, limit := iv.Start+1, iv.End
	for _, r := range iv.Label {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > limit {
			break
		}
		cells[col] = string(r)
		for k := 1; k < rw; k++ {
			cells[col+k] = ""
		}
		col += rw
	}
}

// FromHistory converts every event of h, the result included, into a
// labelled interval.
func FromHistory(h *plan.History) []Interval {
	events := h.AllEvents()
	out := make([]Interval, 0, len(events))
	for _, e := range events {
		label := ""
		if e.Plan != nil {
			label = e.Plan.Name()
		}
		out = append(out, Interval{Start: e.Start, End: e.End, Label: label})
	}
	return out
}
