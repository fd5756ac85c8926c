package planstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plankit/internal/codec"
	"plankit/internal/plan"
)

func samplePlan() plan.Plan {
	return plan.NewSteps("tea",
		plan.NewAction("boil", plan.WithFixedDuration(3)),
		plan.NewLoop(plan.NewAction("steep", plan.WithSuccessProb(0.5)), 2),
	)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plan.json", "nested/plan.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, samplePlan()))

		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "tea", got.Name())
		require.Len(t, got.Children(), 2)
		assert.Equal(t, 2, got.Children()[1].(*plan.Loop).MaxLoops())
	}

	data, err := os.ReadFile(filepath.Join(dir, "nested/plan.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "type: Steps")
}

func TestLoadReportsValidationErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type": "Loop", "name": "l", "children": []}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	ve, ok := codec.AsValidationErrors(err)
	require.True(t, ok)
	assert.Len(t, ve, 2)
	assert.Contains(t, err.Error(), path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	got, err := ResolvePath(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFile), got)

	file := filepath.Join(dir, "x.yaml")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	got, err = ResolvePath(file)
	require.NoError(t, err)
	assert.Equal(t, file, got)

	_, err = ResolvePath("")
	assert.Error(t, err)
}

func TestDiff(t *testing.T) {
	p := samplePlan()
	same, err := Diff(p, p, "a", "b", codec.FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, same)

	renamed, err := plan.Rename(p, "coffee")
	require.NoError(t, err)
	text, err := Diff(p, renamed, "before.json", "after.json", codec.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, text, "--- before.json")
	assert.Contains(t, text, "+++ after.json")
	assert.Contains(t, text, `-  "name": "tea",`)
	assert.Contains(t, text, `+  "name": "coffee",`)
}
