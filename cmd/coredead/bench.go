package main

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jmhorcas/coredead/pkg/bench"
	"github.com/jmhorcas/coredead/pkg/lib/signals"
	"github.com/jmhorcas/coredead/pkg/sat"
)

func newBenchCmd() *cobra.Command {
	var (
		dir         string
		runs        int
		solvers     []string
		timeout     int
		workers     int
		out         string
		noCounts    bool
		phases      bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "bench [MODEL...]",
		Short: "Benchmark the analysis over many models and solvers",
		Long: `Benchmark the analysis over many models and solvers.

Every model is analysed --runs times with every solver in --solvers. One
';' separated line is written per run:

    Model;Tool;SAT-solver;CoreCount;DeadCount;Seconds

A run that exceeds --timeout reports "timeout" instead of its seconds and
the remaining runs of that model and solver are skipped.

--phases appends the seconds spent reading the model and building the
oracle, and the bytes allocated while reading, building and analysing.
Allocations are counted process wide, so they are only meaningful with
--workers 1.

    $ coredead bench --dir models --runs 30 --solvers gini,gophersat --timeout 2000 --out result.csv
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := modelPaths(dir, args)
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				if err := serveMetrics(metricsAddr); err != nil {
					return err
				}
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			writer := bench.NewWriter(w, bench.WithCounts(!noCounts), bench.WithPhases(phases))

			runner := bench.Runner{
				Runs:    runs,
				Solvers: solvers,
				Workers: workers,
				Timeout: timeoutOf(timeout),
				Metrics: metricsAddr != "",
				Log:     log.StandardLogger(),
			}
			log.Infof("benchmarking %d models", len(paths))
			err = runner.Run(signals.Context(), paths, writer.Write)
			if ferr := writer.Flush(); err == nil {
				err = ferr
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory searched recursively for model files")
	cmd.Flags().IntVarP(&runs, "runs", "r", 1, "number of runs per model and solver")
	cmd.Flags().StringSliceVar(&solvers, "solvers", []string{sat.DefaultSolver}, "SAT solvers to benchmark")
	addTimeoutFlag(cmd, &timeout)
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "number of models analysed concurrently")
	cmd.Flags().StringVar(&out, "out", "", "write records to this file instead of stdout")
	cmd.Flags().BoolVar(&noCounts, "no-counts", false, "leave out the CoreCount and DeadCount columns")
	cmd.Flags().BoolVar(&phases, "phases", false, "append per-phase timings and allocated bytes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics and pprof on this address, e.g. :8080")
	return cmd
}
