package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"plankit/internal/codec"
	"plankit/internal/eval"
	"plankit/internal/plan"
	"plankit/internal/planstore"
)

// loadPlan reads the plan named by arg, relative to the workspace. A
// directory stands for the plan.json inside it.
func loadPlan(arg string) (plan.Plan, string, error) {
	abs, err := app.ws.ResolvePath(arg)
	if err != nil {
		return nil, "", err
	}
	path, err := planstore.ResolvePath(abs)
	if err != nil {
		return nil, "", err
	}
	p, err := planstore.Load(path)
	if err != nil {
		return nil, path, err
	}
	app.log.Debug("plan loaded", "path", path, "root", p.Name(), "nodes", len(plan.Descendants(p)))
	return p, path, nil
}

// emitPlan saves p to out when set, otherwise prints it to w in format.
func emitPlan(w io.Writer, p plan.Plan, out string, format codec.Format) (string, error) {
	if out == "" {
		data, err := codec.Marshal(p, format)
		if err != nil {
			return "", err
		}
		_, err = w.Write(data)
		return "", err
	}
	path, err := app.ws.ResolvePath(out)
	if err != nil {
		return "", err
	}
	if err := planstore.Save(path, p); err != nil {
		return "", err
	}
	app.log.Debug("plan written", "path", path)
	return path, nil
}

// outputFormat is the --to flag when given, else the configured format.
func outputFormat(flag string) (codec.Format, error) {
	if flag != "" {
		return codec.ParseFormat(flag)
	}
	return codec.ParseFormat(app.cfg.Output.Format)
}

// samplingFlags are shared by the commands that simulate a plan.
type samplingFlags struct {
	seed    uint64
	choices string
}

func (f *samplingFlags) register(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Random seed (default: config eval.seed, 0 for random)")
	cmd.Flags().StringVar(&f.choices, "choices", "", "Selection policy for Choices nodes (uniform|first)")
}

// options builds one random source for the whole command, so repeated
// samples continue the same stream instead of replaying it.
func (f *samplingFlags) options() ([]eval.Option, error) {
	seed := f.seed
	if seed == 0 {
		seed = app.cfg.Eval.Seed
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	app.log.Debug("sampling", "seed", seed)
	opts := []eval.Option{eval.WithRand(eval.NewRand(seed))}
	chooser, err := eval.ParseChooser(f.choices)
	if err != nil {
		return nil, err
	}
	if chooser != nil {
		opts = append(opts, eval.WithChooser(chooser))
	}
	return opts, nil
}

// sampleCount is n when positive, else the configured default.
func sampleCount(n int) int {
	if n > 0 {
		return n
	}
	return app.cfg.Eval.Samples
}

func printValidation(w io.Writer, err error) {
	ve, ok := codec.AsValidationErrors(err)
	if !ok {
		return
	}
	for _, e := range ve {
		fmt.Fprintf(w, "  - %s\n", e.Error())
	}
}
