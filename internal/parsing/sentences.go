// Package parsing turns prose into plans.
package parsing

import (
	"strings"

	"github.com/rivo/uniseg"

	"plankit/internal/plan"
)

// SplitText segments paragraph into sentences following Unicode sentence
// boundary rules. Sentences are trimmed and blank ones dropped.
func SplitText(paragraph string) []string {
	var out []string
	state := -1
	rest := paragraph
	for len(rest) > 0 {
		var sentence string
		sentence, rest, state = uniseg.FirstSentenceInString(rest, state)
		if s := strings.TrimSpace(sentence); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// StepsFromParagraph builds a Steps plan with one action per sentence of
// paragraph. Action options apply to every generated action.
func StepsFromParagraph(name, paragraph string, opts ...plan.Option) *plan.Steps {
	sentences := SplitText(paragraph)
	children := make([]plan.Plan, 0, len(sentences))
	for _, s := range sentences {
		children = append(children, plan.NewAction(s, opts...))
	}
	return plan.NewSteps(name, children...)
}
