package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plankit/internal/eval"
	"plankit/internal/outcome"
	"plankit/internal/plan"
)

var validateCmd = &cobra.Command{
	Use:   "validate PLAN",
	Short: "Check that a plan document is well formed",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var successCmd = &cobra.Command{
	Use:   "success PLAN",
	Short: "Print the static probability that a plan succeeds",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuccess,
}

var sampleCmd = &cobra.Command{
	Use:   "sample PLAN",
	Short: "Simulate executions and print their outcomes",
	Args:  cobra.ExactArgs(1),
	RunE:  runSample,
}

var durationCmd = &cobra.Command{
	Use:   "duration PLAN",
	Short: "Print the worst-case and average duration of a plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runDuration,
}

var (
	sampleN        int
	sampleSampling samplingFlags

	durationMax      bool
	durationAvg      bool
	durationN        int
	durationSampling samplingFlags
)

func init() {
	sampleCmd.Flags().IntVarP(&sampleN, "n", "n", 1, "Number of executions to simulate")
	sampleSampling.register(sampleCmd)

	durationCmd.Flags().BoolVar(&durationMax, "max", false, "Print only the worst-case duration")
	durationCmd.Flags().BoolVar(&durationAvg, "avg", false, "Print only the average duration")
	durationCmd.Flags().IntVarP(&durationN, "n", "n", 0, "Samples for the average (default: config eval.samples)")
	durationSampling.register(durationCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	return audited("validate", map[string]any{"plan": args[0]}, func(result map[string]any) error {
		p, path, err := loadPlan(args[0])
		if err != nil {
			if path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "invalid: %s\n", path)
				printValidation(cmd.OutOrStdout(), err)
			}
			return err
		}
		nodes := len(plan.Descendants(p))
		result["nodes"] = nodes
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (%d nodes)\n", path, nodes)
		return nil
	})
}

func runSuccess(cmd *cobra.Command, args []string) error {
	return audited("success", map[string]any{"plan": args[0]}, func(result map[string]any) error {
		p, _, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		prob, err := eval.SuccessProbability(p)
		if err != nil {
			return err
		}
		result["probability"] = prob
		fmt.Fprintf(cmd.OutOrStdout(), "%.4f\n", prob)
		return nil
	})
}

func runSample(cmd *cobra.Command, args []string) error {
	payload := map[string]any{"plan": args[0], "n": sampleN}
	return audited("sample", payload, func(result map[string]any) error {
		if sampleN <= 0 {
			return fmt.Errorf("-n must be positive, got %d: %w", sampleN, plan.ErrUsage)
		}
		p, _, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		opts, err := sampleSampling.options()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		successes, total := 0, 0
		for range sampleN {
			o, err := eval.SampleOutcome(p, opts...)
			if err != nil {
				return err
			}
			if o.Status == outcome.Success {
				successes++
			}
			total += o.Duration
			fmt.Fprintln(out, o)
		}
		rate := float64(successes) / float64(sampleN)
		mean := float64(total) / float64(sampleN)
		result["success_rate"] = rate
		result["mean_duration"] = mean
		if sampleN > 1 {
			fmt.Fprintf(out, "success rate %.3f, mean duration %.2f over %d runs\n", rate, mean, sampleN)
		}
		return nil
	})
}

func runDuration(cmd *cobra.Command, args []string) error {
	n := sampleCount(durationN)
	payload := map[string]any{"plan": args[0], "n": n}
	return audited("duration", payload, func(result map[string]any) error {
		p, _, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		showMax, showAvg := durationMax || !durationAvg, durationAvg || !durationMax
		out := cmd.OutOrStdout()
		if showMax {
			bound, err := eval.MaxDuration(p)
			if err != nil {
				return err
			}
			result["max"] = bound.String()
			fmt.Fprintf(out, "max: %s\n", bound)
		}
		if showAvg {
			opts, err := durationSampling.options()
			if err != nil {
				return err
			}
			avg, err := eval.AverageDuration(p, n, opts...)
			if err != nil {
				return err
			}
			result["avg"] = avg
			fmt.Fprintf(out, "avg: %.2f (%d samples)\n", avg, n)
		}
		return nil
	})
}
