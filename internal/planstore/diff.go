package planstore

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"plankit/internal/codec"
	"plankit/internal/plan"
)

// Diff renders a unified diff between the canonical documents of two plans
// in format f. Identical documents yield an empty string.
func Diff(from, to plan.Plan, fromName, toName string, f codec.Format) (string, error) {
	a, err := codec.Marshal(from, f)
	if err != nil {
		return "", err
	}
	b, err := codec.Marshal(to, f)
	if err != nil {
		return "", err
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", fromName, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, nil
}
