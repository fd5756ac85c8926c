// Package config loads plankit.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up in the workspace root.
const FileName = "plankit.toml"

// Config holds the settings shared by every command.
type Config struct {
	Eval   EvalConfig   `toml:"eval"`
	Output OutputConfig `toml:"output"`
	Audit  AuditConfig  `toml:"audit"`
}

// EvalConfig controls sampling.
type EvalConfig struct {
	// Samples is the default number of Monte Carlo draws.
	Samples int `toml:"samples"`
	// Seed makes sampling reproducible. Zero picks a random seed per run.
	Seed uint64 `toml:"seed"`
}

// OutputConfig controls how documents and timelines are printed.
type OutputConfig struct {
	Format        string `toml:"format"`
	TimelineWidth int    `toml:"timeline_width"`
}

// AuditConfig controls the audit log.
type AuditConfig struct {
	Enabled bool   `toml:"enabled"`
	DBPath  string `toml:"db_path"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Eval: EvalConfig{
			Samples: 1000,
		},
		Output: OutputConfig{
			Format:        "json",
			TimelineWidth: 60,
		},
		Audit: AuditConfig{
			Enabled: true,
		},
	}
}

// Load overlays the file at path onto the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("decode %s: %w", path, err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
			}
		}
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides reads PLANKIT_AUDIT_DB, PLANKIT_SEED and PLANKIT_FORMAT.
func (c *Config) ApplyEnvOverrides() error {
	if path := os.Getenv("PLANKIT_AUDIT_DB"); path != "" {
		c.Audit.DBPath = path
	}
	if seed := os.Getenv("PLANKIT_SEED"); seed != "" {
		v, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("PLANKIT_SEED: %w", err)
		}
		c.Eval.Seed = v
	}
	if format := os.Getenv("PLANKIT_FORMAT"); format != "" {
		c.Output.Format = format
	}
	return nil
}

// ValidationError is a problem with one setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every setting.
func (c *Config) Validate() error {
	var errs ValidationErrors
	if c.Eval.Samples <= 0 {
		errs = append(errs, ValidationError{"eval.samples", fmt.Sprintf("must be positive, got %d", c.Eval.Samples)})
	}
	switch strings.ToLower(c.Output.Format) {
	case "json", "yaml", "yml":
	default:
		errs = append(errs, ValidationError{"output.format", fmt.Sprintf("must be json or yaml, got %q", c.Output.Format)})
	}
	if c.Output.TimelineWidth < 10 {
		errs = append(errs, ValidationError{"output.timeline_width", fmt.Sprintf("must be at least 10, got %d", c.Output.TimelineWidth)})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Save writes c to path as TOML. The file is complete only when Save
// returns nil.
func Save(c *Config, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close config: %w", cerr)
		}
	}()

	if _, err := fmt.Fprint(file, "# plankit configuration\n\n"); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := toml.NewEncoder(file).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
