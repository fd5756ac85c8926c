package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plankit/integration/harness"
)

func TestPlanSmoke(t *testing.T) {
	binPath := harness.BuildBinary(t)
	workspace := t.TempDir()
	runDir := t.TempDir()

	fixture := filepath.Join(harness.RepoRoot(t), "integration", "fixtures", "workspace-min")
	harness.CopyDir(t, fixture, workspace)

	historyArgs := []string{
		"history",
		"--workspace", workspace,
		"--timeline",
		"--seed", "3",
		"plans/commute.yaml",
	}
	stdout, stderr, code := harness.Run(t, binPath, runDir, historyArgs)
	if code != 0 {
		t.Fatalf("plankit history exit code %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	for _, want := range []string{"Commute", "Leave the house", "t=0 .. t="} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected history output to contain %q\nstdout:\n%s", want, stdout)
		}
	}
	again, _, _ := harness.Run(t, binPath, runDir, historyArgs)
	if again != stdout {
		t.Fatalf("history with a fixed seed is not reproducible\nfirst:\n%s\nsecond:\n%s", stdout, again)
	}

	stdout, stderr, code = harness.Run(t, binPath, runDir, []string{
		"transform", "--workspace", workspace, "--number-steps", "--diff", "plans/commute.yaml",
	})
	if code != 0 {
		t.Fatalf("plankit transform exit code %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	for _, want := range []string{"-name: Leave the house", "+name: 1. Leave the house"} {
		if !strings.Contains(strings.ReplaceAll(stdout, "  ", ""), want) {
			t.Fatalf("expected diff to contain %q\nstdout:\n%s", want, stdout)
		}
	}

	stdout, stderr, code = harness.Run(t, binPath, runDir, []string{
		"from-text", "--workspace", workspace,
		"--name", "Morning",
		"--duration", "5",
		"-o", "plans/morning.json",
		"Wake up. Make coffee! Read the news.",
	})
	if code != 0 {
		t.Fatalf("plankit from-text exit code %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	morningPath := filepath.Join(workspace, "plans", "morning.json")
	data, err := os.ReadFile(morningPath)
	if err != nil {
		t.Fatalf("from-text plan not written at %s: %v", morningPath, err)
	}
	for _, want := range []string{`"Wake up."`, `"Make coffee!"`, `"Read the news."`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected %s in generated plan\n%s", want, data)
		}
	}

	stdout, stderr, code = harness.Run(t, binPath, runDir, []string{
		"duration", "--workspace", workspace, "--max", "plans/morning.json",
	})
	if code != 0 {
		t.Fatalf("plankit duration exit code %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "max: 15") {
		t.Fatalf("expected max duration 15\nstdout:\n%s", stdout)
	}

	stdout, stderr, code = harness.Run(t, binPath, runDir, []string{
		"convert", "--workspace", workspace, "--to", "json", "plans/commute.yaml",
	})
	if code != 0 {
		t.Fatalf("plankit convert exit code %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, `"max_loops": 3`) {
		t.Fatalf("expected converted JSON\nstdout:\n%s", stdout)
	}

	requireAuditEvents(t, filepath.Join(workspace, "audit", "audit.sqlite"), []string{
		"history_started",
		"history_finished",
		"transform_finished",
		"from_text_finished",
		"convert_finished",
	})
}
