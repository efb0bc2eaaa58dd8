package bench

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/utils/clock"

	"github.com/jmhorcas/coredead/pkg/coredead"
	"github.com/jmhorcas/coredead/pkg/featuremodel"
	"github.com/jmhorcas/coredead/pkg/metrics"
	"github.com/jmhorcas/coredead/pkg/sat"
	"github.com/jmhorcas/coredead/pkg/version"
)

// Runner analyses a set of model files with every configured solver,
// several times each. Models are analysed concurrently, but each run
// owns its oracle and records come out in a fixed order: by model path,
// then solver, then run.
type Runner struct {
	Runs    int
	Solvers []string
	Workers int
	// Timeout bounds each analysis run. Negative means no limit.
	Timeout time.Duration
	Tool    string
	// Metrics wraps every oracle to feed the prometheus collectors.
	Metrics bool
	Clock   clock.PassiveClock
	Log     logrus.FieldLogger
}

func (r *Runner) setDefaults() {
	if r.Runs < 1 {
		r.Runs = 1
	}
	if len(r.Solvers) == 0 {
		r.Solvers = []string{sat.DefaultSolver}
	}
	if r.Workers < 1 {
		r.Workers = 1
	}
	if r.Tool == "" {
		r.Tool = version.Tool
	}
	if r.Clock == nil {
		r.Clock = clock.RealClock{}
	}
	if r.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		r.Log = l
	}
}

// Run benchmarks every model in paths and hands the records to emit.
// A model that fails to load or whose oracle fails is logged and
// skipped; the returned error aggregates every such failure. An error
// from emit stops the run.
func (r *Runner) Run(ctx context.Context, paths []string, emit func(Record) error) error {
	r.setDefaults()

	records := make([][]Record, len(paths))
	failures := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(r.Workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				failures[i] = err
				return nil
			}
			records[i], failures[i] = r.model(ctx, path)
			if failures[i] != nil {
				r.Log.WithError(failures[i]).WithField("model", path).Error("benchmark failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, rs := range records {
		for _, record := range rs {
			if err := emit(record); err != nil {
				return err
			}
		}
	}
	return utilerrors.NewAggregate(failures)
}

func (r *Runner) model(ctx context.Context, path string) ([]Record, error) {
	start, before := r.Clock.Now(), allocated()
	m, err := featuremodel.Load(path)
	if err != nil {
		return nil, err
	}
	reading, readingBytes := r.Clock.Since(start), allocated()-before

	log := r.Log.WithFields(logrus.Fields{
		"model":    m.Name,
		"features": m.CNF.NumVars(),
		"clauses":  m.CNF.NumClauses(),
	})
	log.Info("benchmarking model")

	var records []Record
	for _, solver := range r.Solvers {
		for run := 1; run <= r.Runs; run++ {
			record, err := r.analyze(ctx, m, solver, log)
			if err != nil {
				if r.Metrics {
					metrics.EmitAnalysisFailure(solver)
				}
				return nil, errors.Wrapf(err, "%s with %s, run %d", m.Name, solver, run)
			}
			record.Run = run
			record.Reading = reading
			record.ReadingBytes = readingBytes
			records = append(records, record)
			// Later runs would hit the same budget.
			if !record.Complete {
				log.WithField("solver", solver).Warn("timeout, skipping remaining runs")
				break
			}
		}
	}
	return records, nil
}

func (r *Runner) analyze(ctx context.Context, m *featuremodel.Model, solver string, log logrus.FieldLogger) (Record, error) {
	start, before := r.Clock.Now(), allocated()
	oracle, err := sat.New(solver, m.CNF)
	if err != nil {
		return Record{}, err
	}
	if r.Metrics {
		success, failure := metrics.QueryEmitters(oracle.Name())
		oracle = sat.NewInstrumentedOracle(oracle, success, failure)
	}
	defer oracle.Close()
	transformation, transformationBytes := r.Clock.Since(start), allocated()-before

	a, err := coredead.New(m.CNF, oracle,
		coredead.WithTimeout(r.Timeout),
		coredead.WithClock(r.Clock),
		coredead.WithLogger(log),
	)
	if err != nil {
		return Record{}, err
	}
	before = allocated()
	result, err := a.Run(ctx)
	if err != nil {
		return Record{}, err
	}
	analysisBytes := allocated() - before
	if r.Metrics {
		metrics.EmitAnalysis(m.Name, result)
	}

	record := NewRecord(m.Name, r.Tool, result)
	record.Transformation = transformation
	record.TransformationBytes = transformationBytes
	record.AnalysisBytes = analysisBytes
	return record, nil
}

// allocated returns the bytes allocated by the process so far.
func allocated() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.TotalAlloc
}

// ModelFiles returns every model file below dir, sorted by path.
func ModelFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && featuremodel.FormatOf(path) != featuremodel.Unsupported {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing models in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}
