package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plankit/internal/dist"
	"plankit/internal/plan"
)

func everyVariant() plan.Plan {
	walk := plan.NewAction("walk",
		plan.WithDescription("on foot"),
		plan.WithSuccessProb(0.75),
		plan.WithDuration(dist.Plus(dist.Const(2), dist.Uniform(1, 4))),
	)
	return plan.NewSteps("day",
		walk,
		plan.NewRequirements("ready", plan.NewAction("pack"), plan.NewOptional(plan.NewAction("snack"))),
		plan.NewOptions("lunch", plan.NewAction("cafe", plan.WithFixedDuration(30)), plan.NewFail()),
		plan.NewAlternatives("race", plan.NewAction("bus"), plan.NewAction("taxi")),
		plan.NewEnsure(plan.NewAction("call", plan.WithSuccessProb(0.5))),
		plan.NewLoop(plan.NewAction("retry", plan.WithSuccessProb(0.2)), 4, plan.WithName("a few times")),
		plan.NewIfElse(plan.NewAction("sunny"), plan.NewAction("park"), plan.NewAction("museum")),
		plan.NewChoices("dessert", plan.NewAction("cake"), plan.NewAction("fruit")),
		plan.NewFail(plan.WithName("give up")),
	)
}

// assertEquivalent compares kinds, names, variant fields and child order.
func assertEquivalent(t *testing.T, want, got plan.Plan) {
	t.Helper()
	require.Equal(t, want.Kind(), got.Kind())
	assert.Equal(t, want.Name(), got.Name())
	assert.NotEqual(t, want.ID(), got.ID())
	switch w := want.(type) {
	case *plan.Action:
		g := got.(*plan.Action)
		assert.Equal(t, w.Description(), g.Description())
		assert.Equal(t, w.SuccessProb(), g.SuccessProb())
		assert.Equal(t, w.Duration(), g.Duration())
	case *plan.Loop:
		assert.Equal(t, w.MaxLoops(), got.(*plan.Loop).MaxLoops())
	}
	wc, gc := want.Children(), got.Children()
	require.Len(t, gc, len(wc))
	for i := range wc {
		assertEquivalent(t, wc[i], gc[i])
	}
}

func TestJSONRoundTrip(t *testing.T) {
	orig := everyVariant()
	data, err := MarshalJSON(orig)
	require.NoError(t, err)
	got, err := UnmarshalJSON(data)
	require.NoError(t, err)
	assertEquivalent(t, orig, got)
}

func TestYAMLRoundTrip(t *testing.T) {
	orig := everyVariant()
	data, err := MarshalYAML(orig)
	require.NoError(t, err)
	got, err := UnmarshalYAML(data)
	require.NoError(t, err)
	assertEquivalent(t, orig, got)
}

func TestEncodeShape(t *testing.T) {
	n, err := Encode(plan.NewLoop(plan.NewAction("a", plan.WithFixedDuration(3)), 2))
	require.NoError(t, err)
	assert.Equal(t, "Loop", n.Type)
	assert.Equal(t, "Loop a", n.Name)
	require.NotNil(t, n.MaxLoops)
	assert.Equal(t, 2, *n.MaxLoops)
	require.Len(t, n.Children, 1)

	leaf := n.Children[0]
	assert.Equal(t, "Action", leaf.Type)
	assert.NotNil(t, leaf.Children)
	assert.Empty(t, leaf.Children)
	require.NotNil(t, leaf.SuccessProb)
	assert.Equal(t, 1.0, *leaf.SuccessProb)
	require.NotNil(t, leaf.Duration)
	assert.Equal(t, DistConstant, leaf.Duration.Type)
	require.NotNil(t, leaf.Duration.Value)
	assert.Equal(t, 3, *leaf.Duration.Value)
}

func TestMarshalJSONFieldNames(t *testing.T) {
	data, err := MarshalJSON(plan.NewAction("a", plan.WithSuccessProb(0.5), plan.WithDuration(dist.Uniform(1, 2))))
	require.NoError(t, err)
	s := string(data)
	for _, key := range []string{`"type": "Action"`, `"name": "a"`, `"children": []`, `"success_prob": 0.5`, `"type": "UniformRange"`, `"min": 1`, `"max": 2`} {
		assert.Contains(t, s, key)
	}
}

func TestDecodeDefaultsOmittedFields(t *testing.T) {
	p, err := UnmarshalYAML([]byte(`
type: Steps
name: s
children:
  - type: Action
    name: a
  - type: Ensure
    children:
      - type: Action
        name: b
        success_prob: 0.5
  - type: Fail
`))
	require.NoError(t, err)
	kids := p.Children()
	require.Len(t, kids, 3)
	a := kids[0].(*plan.Action)
	assert.Equal(t, 1.0, a.SuccessProb())
	assert.Equal(t, dist.Const(0), a.Duration())
	assert.Equal(t, "Ensure b", kids[1].Name())
	assert.Equal(t, "FAIL", kids[2].Name())
}

func TestUnknownTypeRejected(t *testing.T) {
	_, err := UnmarshalJSON([]byte(`{"type": "Parallel", "name": "x", "children": []}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = UnmarshalJSON([]byte(`{"type": "Action", "name": "x", "children": [], "duration": {"type": "Poisson"}}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = Decode(Node{Type: "Bogus"})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestValidateReportsFieldPaths(t *testing.T) {
	bad := 1.5
	negative := -1
	n := Node{
		Type: "Steps",
		Name: "root",
		Children: []Node{
			{Type: "Action", Name: "ok"},
			{Type: "Action", Name: "bad", SuccessProb: &bad},
			{Type: "Loop", Children: []Node{{Type: "Action", Name: "x"}}},
			{Type: "IfElse", Children: []Node{{Type: "Fail"}}},
			{Type: "Action", Name: "d", Duration: &DistNode{Type: DistUniformRange, Min: intPtr(5), Max: intPtr(2)}},
			{Type: "Loop", MaxLoops: &negative, Children: []Node{{Type: "Fail"}}},
			{Type: "Steps", MaxLoops: intPtr(3)},
		},
	}
	errs := Validate(n)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{
		"children[1].success_prob",
		"children[2].max_loops",
		"children[3].children",
		"children[4].duration.max",
		"children[5].max_loops",
		"children[6].name",
		"children[6].max_loops",
	}, fields)

	_, err := Decode(n)
	ve, ok := AsValidationErrors(err)
	require.True(t, ok)
	assert.Len(t, ve, len(errs))
	assert.True(t, strings.Contains(err.Error(), "children[1].success_prob: must be within [0, 1]"))
}

func TestUnmarshalRejectsUnknownFields(t *testing.T) {
	_, err := UnmarshalJSON([]byte(`{"type": "Fail", "name": "f", "children": [], "colour": "red"}`))
	ve, ok := AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, "json", ve[0].Field)

	_, err = UnmarshalYAML([]byte("type: Fail\nname: f\ncolour: red\n"))
	ve, ok = AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, "yaml", ve[0].Field)
}

func TestFormats(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("toml")
	assert.Error(t, err)

	assert.Equal(t, FormatYAML, FormatForPath("plans/a.yaml"))
	assert.Equal(t, FormatJSON, FormatForPath("plans/a.json"))
	assert.Equal(t, FormatJSON, FormatForPath("plans/a"))
}
