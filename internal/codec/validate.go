package codec

import (
	"errors"
	"fmt"
	"strings"

	"plankit/internal/plan"
)

// ValidationError captures a single field-specific problem in a document.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error { return e.Err }

// ValidationErrors aggregates every problem found in a document.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// AsValidationErrors extracts the aggregated problems from err, if any.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// arity is the fixed child count of each variant; variadic variants are
// absent.
var arity = map[plan.Kind]int{
	plan.KindAction:   0,
	plan.KindFail:     0,
	plan.KindEnsure:   1,
	plan.KindLoop:     1,
	plan.KindOptional: 1,
	plan.KindIfElse:   3,
}

// defaultNamed variants may omit their name.
var defaultNamed = map[plan.Kind]bool{
	plan.KindEnsure:   true,
	plan.KindLoop:     true,
	plan.KindOptional: true,
	plan.KindIfElse:   true,
	plan.KindFail:     true,
}

// Validate checks n and all of its descendants, reporting every problem
// with the path of the offending field.
func Validate(n Node) ValidationErrors {
	var errs ValidationErrors
	validateNode(n, "", &errs)
	return errs
}

func validateNode(n Node, path string, errs *ValidationErrors) {
	add := func(field, msg string, err error) {
		*errs = append(*errs, ValidationError{Field: join(path, field), Message: msg, Err: err})
	}

	kind := plan.Kind(n.Type)
	known := false
	for _, k := range plan.Kinds {
		if k == kind {
			known = true
			break
		}
	}
	if !known {
		add("type", fmt.Sprintf("unknown node type %q", n.Type), ErrUnknownType)
		return
	}

	if strings.TrimSpace(n.Name) == "" && !defaultNamed[kind] {
		add("name", "is required", nil)
	}
	if want, fixed := arity[kind]; fixed && len(n.Children) != want {
		add("children", fmt.Sprintf("%s takes %d children, got %d", kind, want, len(n.Children)), nil)
	}

	if kind == plan.KindAction {
		if n.SuccessProb != nil && (*n.SuccessProb < 0 || *n.SuccessProb > 1) {
			add("success_prob", fmt.Sprintf("must be within [0, 1], got %v", *n.SuccessProb), nil)
		}
		if n.Duration != nil {
			validateDist(*n.Duration, join(path, "duration"), errs)
		}
	} else {
		if n.Description != "" {
			add("description", "only valid on Action", nil)
		}
		if n.SuccessProb != nil {
			add("success_prob", "only valid on Action", nil)
		}
		if n.Duration != nil {
			add("duration", "only valid on Action", nil)
		}
	}

	if kind == plan.KindLoop {
		switch {
		case n.MaxLoops == nil:
			add("max_loops", "is required", nil)
		case *n.MaxLoops < 0:
			add("max_loops", fmt.Sprintf("must be non-negative, got %d", *n.MaxLoops), nil)
		}
	} else if n.MaxLoops != nil {
		add("max_loops", "only valid on Loop", nil)
	}

	for i, c := range n.Children {
		validateNode(c, join(path, fmt.Sprintf("children[%d]", i)), errs)
	}
}

func validateDist(d DistNode, path string, errs *ValidationErrors) {
	add := func(field, msg string, err error) {
		*errs = append(*errs, ValidationError{Field: join(path, field), Message: msg, Err: err})
	}
	switch d.Type {
	case DistConstant:
		if d.Value == nil {
			add("value", "is required", nil)
		} else if *d.Value < 0 {
			add("value", fmt.Sprintf("must be non-negative, got %d", *d.Value), nil)
		}
	case DistUniformRange:
		if d.Min == nil || d.Max == nil {
			add("", "min and max are required", nil)
			return
		}
		if *d.Min < 0 {
			add("min", fmt.Sprintf("must be non-negative, got %d", *d.Min), nil)
		}
		if *d.Max < *d.Min {
			add("max", fmt.Sprintf("must be at least min %d, got %d", *d.Min, *d.Max), nil)
		}
	case DistSum:
		for i, t := range d.Terms {
			validateDist(t, join(path, fmt.Sprintf("terms[%d]", i)), errs)
		}
	default:
		add("type", fmt.Sprintf("unknown distribution type %q", d.Type), ErrUnknownType)
	}
}

func join(path, field string) string {
	switch {
	case path == "":
		return field
	case field == "":
		return path
	default:
		return path + "." + field
	}
}
