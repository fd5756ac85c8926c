package main

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"plankit/internal/audit"
	"plankit/internal/config"
	"plankit/internal/workspace"
)

// globalFlags are shared by every command.
var globalFlags struct {
	Workspace string
	Config    string
	Verbose   bool
}

// app is the environment resolved before each command runs.
var app struct {
	ws    *workspace.Workspace
	cfg   *config.Config
	log   *slog.Logger
	audit *audit.Logger
}

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Model, evaluate and simulate executable plans",
	Long: `plankit models plans as trees of combinators (steps, requirements,
options, alternatives, retries, conditionals) and answers questions about
them: how likely they are to succeed, how long they take, and what a
sampled execution looks like.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.Workspace, "workspace", "w", ".", "Path to workspace root")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Config, "config", "", "Path to config file (default: <workspace>/plankit.toml)")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(successCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(durationCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(fromTextCmd)
	rootCmd.AddCommand(auditCmd)
}

// setup resolves the workspace, configuration, logger and audit log.
// init resolves its own workspace since the root may not exist yet.
func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if globalFlags.Verbose {
		level = slog.LevelDebug
	}
	app.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(app.log)

	if cmd.Name() == "init" || cmd.Name() == "help" {
		return nil
	}

	ws, err := workspace.Resolve(globalFlags.Workspace)
	if err != nil {
		return err
	}
	return bindWorkspace(ws)
}

func bindWorkspace(ws *workspace.Workspace) error {
	cfgPath := ws.ConfigPath
	if globalFlags.Config != "" {
		resolved, err := ws.ResolvePath(globalFlags.Config)
		if err != nil {
			return err
		}
		cfgPath = resolved
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	app.ws = ws
	app.cfg = cfg
	app.audit = audit.Disabled()
	if cfg.Audit.Enabled {
		dbPath := ws.AuditDBPath
		if cfg.Audit.DBPath != "" {
			if dbPath, err = ws.ResolvePath(cfg.Audit.DBPath); err != nil {
				return err
			}
		}
		app.audit = audit.NewLogger(dbPath)
	}
	app.log.Debug("workspace resolved",
		"root", ws.Root,
		"config", cfgPath,
		"audit", app.audit.Enabled(),
	)
	return nil
}

// audited records <name>_started and <name>_finished around fn. The
// finished event carries the error, if any, and whatever fn added to the
// result payload.
func audited(name string, payload map[string]any, fn func(result map[string]any) error) error {
	if payload == nil {
		payload = map[string]any{}
	}
	if err := app.audit.LogEvent("cli", name+"_started", payload); err != nil {
		app.log.Warn("audit log failed", "event", name+"_started", "error", err)
	}

	result := maps.Clone(payload)
	err := fn(result)
	if err != nil {
		result["error"] = err.Error()
		app.log.Debug("command failed", "command", name, "error", err)
	}
	if logErr := app.audit.LogEvent("cli", name+"_finished", result); logErr != nil {
		app.log.Warn("audit log failed", "event", name+"_finished", "error", logErr)
	}
	return err
}

func writeFileIfMissing(path string, contents []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
