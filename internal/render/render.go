// Package render draws plans and sampled histories as text trees.
package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"plankit/internal/dist"
	"plankit/internal/outcome"
	"plankit/internal/plan"
)

var (
	rootStyle   = lipgloss.NewStyle().Bold(true)
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Label is the one-line description of a single node.
func Label(p plan.Plan) string {
	switch n := p.(type) {
	case *plan.Action:
		return fmt.Sprintf("%s %s", n.Name(),
			mutedStyle.Render(fmt.Sprintf("(p=%.2f, d=%s)", n.SuccessProb(), distLabel(n.Duration()))))
	case *plan.Loop:
		return fmt.Sprintf("%s %s %s", kindStyle.Render(string(n.Kind())), n.Name(),
			mutedStyle.Render(fmt.Sprintf("(max %d)", n.MaxLoops())))
	default:
		return fmt.Sprintf("%s %s", kindStyle.Render(string(p.Kind())), p.Name())
	}
}

func distLabel(d dist.IntDist) string {
	if s, ok := d.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", d)
}

// Plan renders p and all of its descendants.
func Plan(p plan.Plan) string {
	return style(planTree(p)).String()
}

func planTree(p plan.Plan) *tree.Tree {
	t := tree.Root(Label(p))
	for _, c := range p.Children() {
		t.Child(planTree(c))
	}
	return t
}

// History renders h as a tree of attempts, each labelled with its interval
// and final status. Attempts nest under the attempt that ran them.
func History(h *plan.History) string {
	return style(historyTree(h)).String()
}

func historyTree(h *plan.History) *tree.Tree {
	t := tree.Root(eventLabel(h.Result()))
	children := h.Children()
	if len(children) == 0 {
		for _, e := range h.Events() {
			t.Child(eventLabel(e))
		}
		return t
	}
	for _, c := range children {
		t.Child(historyTree(c))
	}
	return t
}

func eventLabel(e plan.Event) string {
	status := failureStyle.Render(e.Status.String())
	if e.Status == outcome.Success {
		status = successStyle.Render(e.Status.String())
	}
	return fmt.Sprintf("%s %s",
		Label(e.Plan),
		mutedStyle.Render(fmt.Sprintf("[%d, %d]", e.Start, e.End))+" "+status)
}

func style(t *tree.Tree) *tree.Tree {
	return t.
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(branchStyle).
		RootStyle(rootStyle)
}
