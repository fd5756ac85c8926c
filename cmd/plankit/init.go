package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"plankit/internal/codec"
	"plankit/internal/config"
	"plankit/internal/dist"
	"plankit/internal/plan"
	"plankit/internal/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a workspace with a config file and an example plan",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(globalFlags.Workspace) == "" {
		return fmt.Errorf("--workspace is required")
	}
	root, err := workspace.ResolveRoot(globalFlags.Workspace)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create workspace root: %w", err)
	}
	ws, err := workspace.Resolve(root)
	if err != nil {
		return err
	}
	if err := ws.EnsureDirs(); err != nil {
		return err
	}
	if err := bindWorkspace(ws); err != nil {
		return err
	}

	return audited("workspace_init", map[string]any{"workspace": ws.Root}, func(result map[string]any) error {
		if _, err := os.Stat(ws.ConfigPath); os.IsNotExist(err) {
			if err := config.Save(config.Default(), ws.ConfigPath); err != nil {
				return err
			}
		}
		example, err := codec.MarshalJSON(examplePlan())
		if err != nil {
			return err
		}
		examplePath := filepath.Join(ws.PlansDir, "example.json")
		created, err := writeFileIfMissing(examplePath, example)
		if err != nil {
			return err
		}
		result["example_created"] = created

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Initialized workspace: %s\n", ws.Root)
		fmt.Fprintln(out, "Next steps:")
		fmt.Fprintf(out, "  %s render --workspace %s plans/example.json\n", appName, ws.Root)
		fmt.Fprintf(out, "  %s success --workspace %s plans/example.json\n", appName, ws.Root)
		fmt.Fprintf(out, "  %s history --workspace %s --timeline plans/example.json\n", appName, ws.Root)
		return nil
	})
}

func examplePlan() plan.Plan {
	return plan.NewSteps("Make tea",
		plan.NewAction("Boil water",
			plan.WithSuccessProb(0.95),
			plan.WithDuration(dist.Uniform(3, 5)),
		),
		plan.NewAlternatives("Find a cup",
			plan.NewAction("Check the cupboard", plan.WithSuccessProb(0.7), plan.WithFixedDuration(1)),
			plan.NewAction("Check the dishwasher", plan.WithSuccessProb(0.5), plan.WithFixedDuration(2)),
		),
		plan.NewLoop(plan.NewAction("Steep", plan.WithSuccessProb(0.8), plan.WithFixedDuration(4)), 2),
		plan.NewOptional(plan.NewAction("Add milk", plan.WithSuccessProb(0.9), plan.WithFixedDuration(1))),
	)
}
