package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/ghodss/yaml"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jmhorcas/coredead/pkg/bench"
	"github.com/jmhorcas/coredead/pkg/cnf"
	"github.com/jmhorcas/coredead/pkg/coredead"
	"github.com/jmhorcas/coredead/pkg/featuremodel"
	"github.com/jmhorcas/coredead/pkg/lib/filemonitor"
	"github.com/jmhorcas/coredead/pkg/lib/signals"
	"github.com/jmhorcas/coredead/pkg/metrics"
	"github.com/jmhorcas/coredead/pkg/sat"
	"github.com/jmhorcas/coredead/pkg/version"
)

// report is the machine readable form of one analysis.
type report struct {
	Model     string           `json:"model"`
	Solver    string           `json:"solver"`
	Core      []cnf.Identifier `json:"coreFeatures"`
	Dead      []cnf.Identifier `json:"deadFeatures"`
	Variable  []cnf.Identifier `json:"variableFeatures"`
	Undecided []cnf.Identifier `json:"undecidedFeatures,omitempty"`
	Complete  bool             `json:"complete"`
	VoidModel bool             `json:"voidModel"`
	Seconds   float64          `json:"elapsedSeconds"`
	Queries   int              `json:"queries"`
}

func newReport(model string, r *coredead.Result) report {
	return report{
		Model:     model,
		Solver:    r.Solver,
		Core:      orEmpty(r.Core),
		Dead:      orEmpty(r.Dead),
		Variable:  orEmpty(r.Variable),
		Undecided: r.Undecided,
		Complete:  r.Complete,
		VoidModel: r.VoidModel,
		Seconds:   r.ElapsedSeconds(),
		Queries:   r.Queries,
	}
}

func orEmpty(ids []cnf.Identifier) []cnf.Identifier {
	if ids == nil {
		return []cnf.Identifier{}
	}
	return ids
}

func newAnalyzeCmd() *cobra.Command {
	var (
		solver      string
		timeout     int
		output      string
		noColor     bool
		watch       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "analyze MODEL",
		Short: "Find the core and dead features of a model",
		Long: `Find the core and dead features of a model.

The model is a DIMACS CNF file (.cnf, .dimacs) naming its variables with
"c <id> <name>" comment lines, or a YAML/JSON document (.yaml, .yml, .json).

    $ coredead analyze models/pizzas.cnf --solver gophersat --timeout 2000

With --watch the model is analysed again every time its file changes,
until the command is interrupted.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := signals.Context()
			g := gauges{enabled: metricsAddr != ""}
			if g.enabled {
				if err := serveMetrics(metricsAddr); err != nil {
					return err
				}
			}
			analyze := func() error {
				m, err := featuremodel.Load(args[0])
				if err != nil {
					g.forget()
					return err
				}
				result, err := coredead.Analyze(ctx, m.CNF, solver,
					coredead.WithTimeout(timeoutOf(timeout)),
					coredead.WithLogger(log.WithField("model", m.Name)),
				)
				if err != nil {
					g.fail(solver)
					return errors.Wrapf(err, "analyzing %s", m.Name)
				}
				g.emit(m.Name, result)
				return render(cmd.OutOrStdout(), output, !noColor, m, result)
			}
			if err := analyze(); err != nil || !watch {
				return err
			}

			err := filemonitor.WatchFile(ctx, log.StandardLogger(), args[0], func() {
				if err := analyze(); err != nil {
					log.Error(err.Error())
				}
			})
			if err != nil {
				return errors.Wrapf(err, "watching %s", args[0])
			}
			log.Infof("watching %s for changes", args[0])
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&solver, "solver", "s", sat.DefaultSolver, fmt.Sprintf("SAT solver, one of %v", sat.Solvers()))
	addTimeoutFlag(cmd, &timeout)
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format, one of text, json, yaml, csv")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "never color text output")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "analyze again every time the model file changes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics of the latest analysis on this address, e.g. :8080")
	return cmd
}

// gauges keeps the feature gauges in line with the model analysed last.
// Under --watch the model may be renamed or break between analyses.
type gauges struct {
	enabled bool
	model   string
}

func (g *gauges) emit(model string, r *coredead.Result) {
	if !g.enabled {
		return
	}
	if g.model != "" && g.model != model {
		metrics.DeleteModelMetrics(g.model)
	}
	metrics.EmitAnalysis(model, r)
	g.model = model
}

func (g *gauges) fail(solver string) {
	if g.enabled {
		metrics.EmitAnalysisFailure(solver)
	}
}

func (g *gauges) forget() {
	if g.enabled && g.model != "" {
		metrics.DeleteModelMetrics(g.model)
		g.model = ""
	}
}

func render(w io.Writer, format string, colored bool, m *featuremodel.Model, r *coredead.Result) error {
	switch format {
	case "text":
		return renderText(w, colored && isTerminal(w), m, r)
	case "json":
		data, err := json.MarshalIndent(newReport(m.Name, r), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(newReport(m.Name, r))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "csv":
		bw := bench.NewWriter(w)
		if err := bw.Write(bench.NewRecord(m.Name, version.Tool, r)); err != nil {
			return err
		}
		return bw.Flush()
	}
	return errors.Errorf("unknown output format %q", format)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func renderText(w io.Writer, colored bool, m *featuremodel.Model, r *coredead.Result) error {
	paint := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	bold := paint(color.Bold)
	core := paint(color.FgGreen, color.Bold)
	dead := paint(color.FgRed, color.Bold)
	warn := paint(color.FgYellow)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%d features, %d clauses)\n", bold.Sprint("Model:"), m.Name, m.CNF.NumVars(), m.CNF.NumClauses())
	fmt.Fprintf(&b, "%s %s\n", bold.Sprint("Solver:"), r.Solver)
	if r.VoidModel {
		fmt.Fprintln(&b, warn.Sprint("void model: no valid configuration exists, every feature is both core and dead"))
	}
	fmt.Fprintf(&b, "%s %s\n", core.Sprintf("Core (%d):", len(r.Core)), join(r.Core))
	fmt.Fprintf(&b, "%s %s\n", dead.Sprintf("Dead (%d):", len(r.Dead)), join(r.Dead))
	if !r.VoidModel {
		fmt.Fprintf(&b, "%s %s\n", bold.Sprintf("Variable (%d):", len(r.Variable)), join(r.Variable))
	}
	if !r.Complete {
		fmt.Fprintln(&b, warn.Sprintf("timeout: %d features undecided: %s", len(r.Undecided), join(r.Undecided)))
	}
	fmt.Fprintf(&b, "%s %.6f (%d queries)\n", bold.Sprint("Seconds:"), r.ElapsedSeconds(), r.Queries)

	_, err := io.WriteString(w, b.String())
	return err
}

func join(ids []cnf.Identifier) string {
	if len(ids) == 0 {
		return "-"
	}
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = string(id)
	}
	return strings.Join(s, ", ")
}
