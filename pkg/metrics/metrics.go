package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmhorcas/coredead/pkg/coredead"
	"github.com/jmhorcas/coredead/pkg/sat"
)

const (
	SolverLabel   = "solver"
	OutcomeLabel  = "outcome"
	CompleteLabel = "complete"
	ModelLabel    = "model"
	ClassLabel    = "class"
	Failed        = "failed"
)

// To add new metrics:
// 1. Register new metrics in RegisterAnalysis() below.
// 2. Add an Emit function used by the bench runner or the CLI.
var (
	oracleQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coredead_oracle_queries_total",
			Help: "Monotonic count of satisfiability queries by solver and outcome",
		},
		[]string{SolverLabel, OutcomeLabel},
	)

	oracleQuerySummary = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "coredead_oracle_query_duration_seconds",
			Help:       "The duration of a single satisfiability query",
			Objectives: map[float64]float64{0.95: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{SolverLabel, OutcomeLabel},
	)

	analysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coredead_analysis_duration_seconds",
			Help:    "The duration of a core/dead analysis run",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{SolverLabel, CompleteLabel},
	)

	analysisFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coredead_analysis_failures_total",
			Help: "Monotonic count of analysis runs aborted by an oracle error",
		},
		[]string{SolverLabel},
	)

	features = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coredead_features",
			Help: "Number of features of a model per class, from its latest analysis",
		},
		[]string{ModelLabel, ClassLabel},
	)

	registerOnce sync.Once
)

// RegisterAnalysis registers every collector with the default registry.
// Calls after the first do nothing.
func RegisterAnalysis() {
	registerOnce.Do(func() {
		prometheus.MustRegister(oracleQueriesTotal)
		prometheus.MustRegister(oracleQuerySummary)
		prometheus.MustRegister(analysisDuration)
		prometheus.MustRegister(analysisFailuresTotal)
		prometheus.MustRegister(features)
	})
}

// QueryEmitters returns the success and failure emitters expected by
// sat.NewInstrumentedOracle for the given solver.
func QueryEmitters(solver string) (func(sat.Outcome, time.Duration), func(time.Duration)) {
	success := func(outcome sat.Outcome, d time.Duration) {
		oracleQueriesTotal.WithLabelValues(solver, outcome.String()).Inc()
		oracleQuerySummary.WithLabelValues(solver, outcome.String()).Observe(d.Seconds())
	}
	failure := func(d time.Duration) {
		oracleQueriesTotal.WithLabelValues(solver, Failed).Inc()
		oracleQuerySummary.WithLabelValues(solver, Failed).Observe(d.Seconds())
	}
	return success, failure
}

// EmitAnalysis records a finished run of model.
func EmitAnalysis(model string, r *coredead.Result) {
	analysisDuration.WithLabelValues(r.Solver, strconv.FormatBool(r.Complete)).Observe(r.ElapsedSeconds())

	features.WithLabelValues(model, coredead.Core.String()).Set(float64(len(r.Core)))
	features.WithLabelValues(model, coredead.Dead.String()).Set(float64(len(r.Dead)))
	features.WithLabelValues(model, coredead.Variable.String()).Set(float64(len(r.Variable)))
	features.WithLabelValues(model, coredead.Unknown.String()).Set(float64(len(r.Undecided)))
}

func EmitAnalysisFailure(solver string) {
	analysisFailuresTotal.WithLabelValues(solver).Inc()
}

// DeleteModelMetrics drops the feature gauges of model, for when it is
// renamed or can no longer be loaded.
func DeleteModelMetrics(model string) {
	for _, c := range []coredead.Class{coredead.Core, coredead.Dead, coredead.Variable, coredead.Unknown} {
		features.DeleteLabelValues(model, c.String())
	}
}
