package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/petal-labs/coulomb/core"
	"github.com/petal-labs/coulomb/eval"
)

func (a *App) newEvalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <x>...",
		Short: "Evaluate F, F', G, G' on a grid of x values",
		Long: `Evaluate the Coulomb wave functions for every x and every l in the range.

Each output row holds x, l, F, F' and, unless --no-g is given, G and G'.

Examples:
  coulomb eval 1 2.5 10 --eta 0.5 --lmax 4
  coulomb eval 3 --eta -1 --lmin 2 --nl 5 --format json
  coulomb eval 0.5 1 --no-g --format csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runEval,
	}

	cmd.Flags().Float64Var(&a.evalEta, "eta", 0, "Sommerfeld parameter")
	cmd.Flags().IntVar(&a.evalLMin, "lmin", 0, "lowest angular momentum")
	cmd.Flags().IntVar(&a.evalLMax, "lmax", 0, "highest angular momentum")
	cmd.Flags().IntVar(&a.evalNL, "nl", 0, "number of angular momenta from --lmin (overrides --lmax)")
	cmd.Flags().BoolVar(&a.evalNoG, "no-g", false, "skip the irregular solution G, G'")
	cmd.Flags().StringVar(&a.evalTimeout, "timeout", "", "abort after this duration, e.g. 5s (default from config)")
	cmd.Flags().StringVar(&a.evalMetricsOut, "metrics-out", "", "write Prometheus metrics to this textfile")

	return cmd
}

// evalRow is one (x, l) record of the eval output.
type evalRow struct {
	X  float64 `json:"x" yaml:"x"`
	L  int     `json:"l" yaml:"l"`
	F  number  `json:"f" yaml:"f"`
	Fp number  `json:"fp" yaml:"fp"`
	G  *number `json:"g,omitempty" yaml:"g,omitempty"`
	Gp *number `json:"gp,omitempty" yaml:"gp,omitempty"`
}

type evalAdvisory struct {
	Kind    string `json:"kind" yaml:"kind"`
	Level   string `json:"level" yaml:"level"`
	X       string `json:"x" yaml:"x"`
	L       int    `json:"l" yaml:"l"`
	Message string `json:"message" yaml:"message"`
}

type evalDocument struct {
	RunID      string         `json:"run_id" yaml:"run_id"`
	Eta        float64        `json:"eta" yaml:"eta"`
	LMin       int            `json:"lmin" yaml:"lmin"`
	LMax       int            `json:"lmax" yaml:"lmax"`
	Converged  bool           `json:"converged" yaml:"converged"`
	Unreliable bool           `json:"unreliable" yaml:"unreliable"`
	Results    []evalRow      `json:"results" yaml:"results"`
	Advisories []evalAdvisory `json:"advisories,omitempty" yaml:"advisories,omitempty"`
}

func (a *App) runEval(cmd *cobra.Command, args []string) error {
	xs, err := parseFloats(args)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	lmax := a.evalLMax
	if a.evalNL > 0 {
		lmax = a.evalLMin + a.evalNL - 1
	} else if lmax < a.evalLMin {
		lmax = a.evalLMin
	}
	lr, err := core.Range(a.evalLMin, lmax)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	format, err := a.resolveFormat()
	if err != nil {
		return err
	}
	timeout, err := a.timeout()
	if err != nil {
		return err
	}

	solver, err := a.newSolver()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	middlewares := []eval.Middleware{
		eval.WithLogging(a.logger),
		eval.WithMetrics(eval.NewPrometheusCollector(reg, "coulomb")),
		eval.WithValidation(eval.Limits{}),
	}
	if timeout > 0 {
		middlewares = append(middlewares, eval.WithTimeout(timeout))
	}
	run := eval.New(eval.Handler(solver), middlewares...)

	ec := &eval.EvalContext{}
	ctx := eval.ContextWithEvalContext(context.Background(), ec)
	resp, err := run(ctx, eval.Request{Xs: xs, Eta: a.evalEta, Range: lr, SkipG: a.evalNoG})

	if a.evalMetricsOut != "" {
		if werr := prometheus.WriteToTextfile(a.evalMetricsOut, reg); werr != nil {
			a.logger.WithError(werr).Warn("failed to write metrics")
		}
	}
	if err != nil {
		return classify(err)
	}

	rows := collectRows(xs, lr, resp.Values)
	switch format {
	case FormatJSON, FormatYAML:
		doc := evalDocument{
			RunID:      ec.RunID,
			Eta:        a.evalEta,
			LMin:       lr.Min,
			LMax:       lr.Max,
			Converged:  resp.Report.Converged(),
			Unreliable: resp.Report.Unreliable(),
			Results:    rows,
		}
		for _, adv := range resp.Report.Advisories() {
			doc.Advisories = append(doc.Advisories, evalAdvisory{
				Kind:    string(adv.Kind),
				Level:   adv.Level.String(),
				X:       formatX(adv.X),
				L:       adv.L,
				Message: adv.Message,
			})
		}
		return writeDocument(a.stdout, format, doc)
	default:
		return writeRecords(a.stdout, format, evalHeader(!a.evalNoG), evalRecords(rows))
	}
}

func (a *App) timeout() (time.Duration, error) {
	if a.evalTimeout == "" {
		return a.cfg.Timeout, nil
	}
	d, err := time.ParseDuration(a.evalTimeout)
	if err != nil {
		return 0, exitWithCode(ExitValidation, fmt.Errorf("invalid --timeout: %w", err))
	}
	return d, nil
}

func parseFloats(args []string) ([]float64, error) {
	xs := make([]float64, len(args))
	for i, s := range args {
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid x %q: %w", s, err)
		}
		xs[i] = x
	}
	return xs, nil
}

func collectRows(xs []float64, lr core.LRange, m *core.Matrices) []evalRow {
	rows := make([]evalRow, 0, len(xs)*lr.Len())
	for i, x := range xs {
		for j := 0; j < lr.Len(); j++ {
			r := evalRow{
				X:  x,
				L:  lr.Min + j,
				F:  number(m.F.At(i, j)),
				Fp: number(m.Fp.At(i, j)),
			}
			if m.G != nil {
				g, gp := number(m.G.At(i, j)), number(m.Gp.At(i, j))
				r.G, r.Gp = &g, &gp
			}
			rows = append(rows, r)
		}
	}
	return rows
}

func evalHeader(withG bool) []string {
	h := []string{"x", "l", "F", "F'"}
	if withG {
		h = append(h, "G", "G'")
	}
	return h
}

func evalRecords(rows []evalRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		rec := []string{
			formatFloat(r.X),
			strconv.Itoa(r.L),
			formatFloat(float64(r.F)),
			formatFloat(float64(r.Fp)),
		}
		if r.G != nil {
			rec = append(rec, formatFloat(float64(*r.G)), formatFloat(float64(*r.Gp)))
		}
		out[i] = rec
	}
	return out
}
