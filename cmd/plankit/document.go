package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"plankit/internal/eval"
	"plankit/internal/parsing"
	"plankit/internal/plan"
	"plankit/internal/planstore"
	"plankit/internal/render"
)

var convertCmd = &cobra.Command{
	Use:   "convert PLAN",
	Short: "Rewrite a plan document as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var transformCmd = &cobra.Command{
	Use:   "transform PLAN",
	Short: "Apply tree rewrites to a plan",
	Long: `Apply tree rewrites to a plan. --ensure-actions wraps every action in
an Ensure; --number-steps prefixes the children of every Steps node with
their position. Rewrites run in that order.`,
	Args: cobra.ExactArgs(1),
	RunE: runTransform,
}

var renderCmd = &cobra.Command{
	Use:   "render PLAN",
	Short: "Draw a plan as a tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var fromTextCmd = &cobra.Command{
	Use:   "from-text [TEXT...]",
	Short: "Build a Steps plan with one action per sentence",
	Long: `Build a Steps plan with one action per sentence of the given text.
With no arguments, or "-", the text is read from stdin.`,
	RunE: runFromText,
}

var (
	convertTo  string
	convertOut string

	transformEnsure bool
	transformNumber bool
	transformDiff   bool
	transformTo     string
	transformOut    string

	fromTextName     string
	fromTextProb     float64
	fromTextDuration int
	fromTextTo       string
	fromTextOut      string
)

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "", "Output format (json|yaml, default: config output.format)")
	convertCmd.Flags().StringVarP(&convertOut, "output", "o", "", "Write to this file instead of stdout (format follows its extension)")

	transformCmd.Flags().BoolVar(&transformEnsure, "ensure-actions", false, "Wrap every action in an Ensure")
	transformCmd.Flags().BoolVar(&transformNumber, "number-steps", false, "Number the children of every Steps node")
	transformCmd.Flags().BoolVar(&transformDiff, "diff", false, "Print a unified diff instead of the rewritten plan")
	transformCmd.Flags().StringVar(&transformTo, "to", "", "Output format (json|yaml, default: config output.format)")
	transformCmd.Flags().StringVarP(&transformOut, "output", "o", "", "Write to this file instead of stdout")

	fromTextCmd.Flags().StringVar(&fromTextName, "name", "", "Name of the Steps node (required)")
	fromTextCmd.Flags().Float64Var(&fromTextProb, "success-prob", 1.0, "Success probability of each action")
	fromTextCmd.Flags().IntVar(&fromTextDuration, "duration", 0, "Fixed duration of each action")
	fromTextCmd.Flags().StringVar(&fromTextTo, "to", "", "Output format (json|yaml, default: config output.format)")
	fromTextCmd.Flags().StringVarP(&fromTextOut, "output", "o", "", "Write to this file instead of stdout")
	_ = fromTextCmd.MarkFlagRequired("name")
}

func runConvert(cmd *cobra.Command, args []string) error {
	payload := map[string]any{"plan": args[0], "to": convertTo, "output": convertOut}
	return audited("convert", payload, func(result map[string]any) error {
		format, err := outputFormat(convertTo)
		if err != nil {
			return err
		}
		p, _, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		written, err := emitPlan(cmd.OutOrStdout(), p, convertOut, format)
		if written != "" {
			result["written"] = written
		}
		return err
	})
}

func runTransform(cmd *cobra.Command, args []string) error {
	payload := map[string]any{
		"plan":           args[0],
		"ensure_actions": transformEnsure,
		"number_steps":   transformNumber,
	}
	return audited("transform", payload, func(result map[string]any) error {
		var rewrites []eval.Transformer
		if transformEnsure {
			rewrites = append(rewrites, eval.EnsureActions())
		}
		if transformNumber {
			rewrites = append(rewrites, eval.NumberSteps())
		}
		if len(rewrites) == 0 {
			return fmt.Errorf("choose at least one of --ensure-actions, --number-steps")
		}
		format, err := outputFormat(transformTo)
		if err != nil {
			return err
		}
		p, path, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		rewritten, err := eval.Chain(p, rewrites...)
		if err != nil {
			return err
		}

		if transformDiff {
			diff, err := planstore.Diff(p, rewritten, path, path+" (transformed)", format)
			if err != nil {
				return err
			}
			result["changed"] = diff != ""
			fmt.Fprint(cmd.OutOrStdout(), diff)
			return nil
		}
		written, err := emitPlan(cmd.OutOrStdout(), rewritten, transformOut, format)
		if written != "" {
			result["written"] = written
		}
		return err
	})
}

func runRender(cmd *cobra.Command, args []string) error {
	return audited("render", map[string]any{"plan": args[0]}, func(map[string]any) error {
		p, _, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Plan(p))
		return nil
	})
}

func runFromText(cmd *cobra.Command, args []string) error {
	payload := map[string]any{"name": fromTextName, "output": fromTextOut}
	return audited("from_text", payload, func(result map[string]any) error {
		if strings.TrimSpace(fromTextName) == "" {
			return fmt.Errorf("--name is required")
		}
		if !(fromTextProb >= 0 && fromTextProb <= 1) {
			return fmt.Errorf("--success-prob must be within [0, 1], got %v: %w", fromTextProb, plan.ErrUsage)
		}
		if fromTextDuration < 0 {
			return fmt.Errorf("--duration must be non-negative, got %d: %w", fromTextDuration, plan.ErrUsage)
		}
		text, err := readText(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		format, err := outputFormat(fromTextTo)
		if err != nil {
			return err
		}
		steps := parsing.StepsFromParagraph(fromTextName, text,
			plan.WithSuccessProb(fromTextProb),
			plan.WithFixedDuration(fromTextDuration),
		)
		result["actions"] = len(steps.Children())
		written, err := emitPlan(cmd.OutOrStdout(), steps, fromTextOut, format)
		if written != "" {
			result["written"] = written
		}
		return err
	})
}

func readText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return string(data), nil
}

