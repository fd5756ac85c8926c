package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plankit/internal/eval"
	"plankit/internal/render"
	"plankit/internal/timeline"
)

var historyCmd = &cobra.Command{
	Use:   "history PLAN",
	Short: "Simulate one execution and print every timed event",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

var (
	historyTimeline bool
	historyWidth    int
	historyStart    int
	historySampling samplingFlags
)

func init() {
	historyCmd.Flags().BoolVar(&historyTimeline, "timeline", false, "Also draw the events on a timeline")
	historyCmd.Flags().IntVar(&historyWidth, "width", 0, "Timeline width in columns (default: config output.timeline_width)")
	historyCmd.Flags().IntVar(&historyStart, "start", 0, "Simulated clock value the execution starts at")
	historySampling.register(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	return audited("history", map[string]any{"plan": args[0]}, func(result map[string]any) error {
		p, _, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		opts, err := historySampling.options()
		if err != nil {
			return err
		}
		h, err := eval.SampleHistory(p, append(opts, eval.WithStart(historyStart))...)
		if err != nil {
			return err
		}
		res := h.Result()
		result["status"] = res.Status.String()
		result["start"] = res.Start
		result["end"] = res.End
		result["events"] = len(h.AllEvents())

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, render.History(h))
		if !historyTimeline {
			return nil
		}
		width := historyWidth
		if width <= 0 {
			width = app.cfg.Output.TimelineWidth
		}
		lines, err := timeline.Render(timeline.FromHistory(h), width)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "t=%d .. t=%d\n", res.Start, res.End)
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
		return nil
	})
}
