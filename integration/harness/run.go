package harness

import (
	"bytes"
	"errors"
	"maps"
	"os"
	"os/exec"
	"slices"
	"testing"
)

// Run executes the plankit binary in workDir and returns its stdout, stderr
// and exit code.
func Run(t *testing.T, binPath, workDir string, args []string) (string, string, int) {
	t.Helper()
	return run(t, binPath, workDir, args, nil)
}

// RunWithEnv is Run with PLANKIT_* style variables set on top of the
// inherited environment.
func RunWithEnv(t *testing.T, binPath, workDir string, args []string, env map[string]string) (string, string, int) {
	t.Helper()
	return run(t, binPath, workDir, args, env)
}

func run(t *testing.T, binPath, workDir string, args []string, env map[string]string) (string, string, int) {
	t.Helper()

	cmd := exec.Command(binPath, args...)
	cmd.Dir = workDir
	if len(env) > 0 {
		cmd.Env = withOverrides(os.Environ(), env)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			t.Fatalf("run %s %v: %v", binPath, args, err)
		}
		exitCode = ee.ExitCode()
	}
	return stdout.String(), stderr.String(), exitCode
}

// withOverrides appends overrides after base. exec keeps the last value of
// a duplicated key.
func withOverrides(base []string, overrides map[string]string) []string {
	out := slices.Clone(base)
	for _, k := range slices.Sorted(maps.Keys(overrides)) {
		out = append(out, k+"="+overrides[k])
	}
	return out
}
