// Package planstore reads and writes plan documents on disk.
package planstore

import (
	"fmt"
	"os"
	"path/filepath"

	"plankit/internal/codec"
	"plankit/internal/plan"
)

// DefaultFile is the document looked up when a directory is given.
const DefaultFile = "plan.json"

// Load reads and validates the plan document at path. The format follows
// the file extension.
func Load(path string) (plan.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	p, err := codec.Unmarshal(data, codec.FormatForPath(path))
	if err != nil {
		if ve, ok := codec.AsValidationErrors(err); ok {
			return nil, fmt.Errorf("%s:\n%w", path, ve)
		}
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path in the format its extension names, creating parent
// directories as needed.
func Save(path string, p plan.Plan) error {
	data, err := codec.Marshal(p, codec.FormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure plan dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}

// ResolvePath maps a plan argument to a file: directories resolve to the
// plan.json inside them.
func ResolvePath(inputPath string) (string, error) {
	if inputPath == "" {
		return "", fmt.Errorf("plan path is required")
	}
	info, err := os.Stat(inputPath)
	if err != nil {
		return "", fmt.Errorf("stat plan path: %w", err)
	}
	if info.IsDir() {
		return filepath.Join(inputPath, DefaultFile), nil
	}
	return inputPath, nil
}
