package coredead

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/jmhorcas/coredead/pkg/cnf"
	"github.com/jmhorcas/coredead/pkg/sat"
)

// Analyzer classifies every feature of a CNF as core, dead or variable
// by querying a single Oracle, one query at a time.
type Analyzer struct {
	cnf     *cnf.CNF
	oracle  sat.Oracle
	timeout time.Duration
	clock   clock.PassiveClock
	log     logrus.FieldLogger
}

func New(f *cnf.CNF, oracle sat.Oracle, options ...Option) (*Analyzer, error) {
	if f == nil {
		return nil, errors.Wrap(cnf.ErrInvalidInput, "nil CNF")
	}
	if oracle == nil {
		return nil, errors.New("nil oracle")
	}
	a := Analyzer{cnf: f, oracle: oracle, timeout: -1}
	for _, option := range append(options, defaults...) {
		if err := option(&a); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

type Option func(a *Analyzer) error

// WithTimeout bounds a run. Negative means no limit, zero stops before
// the first query.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) error {
		a.timeout = d
		return nil
	}
}

func WithClock(c clock.PassiveClock) Option {
	return func(a *Analyzer) error {
		a.clock = c
		return nil
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Analyzer) error {
		a.log = log
		return nil
	}
}

var defaults = []Option{
	func(a *Analyzer) error {
		if a.clock == nil {
			a.clock = clock.RealClock{}
		}
		return nil
	},
	func(a *Analyzer) error {
		if a.log == nil {
			l := logrus.New()
			l.SetOutput(io.Discard)
			a.log = l
		}
		return nil
	},
}

// Run performs one analysis. Only the queries are timed; building the
// CNF and the oracle is up to the caller.
//
// Running out of budget, or ctx being done, is not an error: the
// partial Result has Complete set to false. Any oracle error aborts the
// run and is returned wrapped.
func (a *Analyzer) Run(ctx context.Context) (*Result, error) {
	s := analysis{
		Analyzer: a,
		gov:      NewGovernor(a.clock, a.timeout),
		classes:  make([]Class, a.cnf.NumVars()+1),
		seen:     make([]polarity, a.cnf.NumVars()+1),
	}
	log := a.log.WithField("solver", a.oracle.Name())

	result, err := s.run(ctx)
	if err != nil {
		log.WithError(err).WithField("queries", s.queries).Warn("analysis failed")
		return nil, err
	}
	result.Elapsed = s.gov.Elapsed()
	result.Queries = s.queries

	core, dead, variable := result.Counts()
	log.WithFields(logrus.Fields{
		"core":     core,
		"dead":     dead,
		"variable": variable,
		"complete": result.Complete,
		"void":     result.VoidModel,
		"queries":  result.Queries,
		"elapsed":  result.Elapsed,
	}).Info("analysis finished")
	return result, nil
}

// Analyze creates an oracle of the named backend over f, runs one
// analysis with it and closes it again.
func Analyze(ctx context.Context, f *cnf.CNF, solver string, options ...Option) (*Result, error) {
	oracle, err := sat.New(solver, f)
	if err != nil {
		return nil, err
	}
	defer oracle.Close()

	a, err := New(f, oracle, options...)
	if err != nil {
		return nil, err
	}
	return a.Run(ctx)
}

// polarity records which values of a variable have been observed in
// some satisfying assignment.
type polarity uint8

const (
	seenTrue polarity = 1 << iota
	seenFalse
)

type analysis struct {
	*Analyzer
	gov     *Governor
	classes []Class
	seen    []polarity
	queries int
}

func (s *analysis) run(ctx context.Context) (*Result, error) {
	r := s.cnf.Registry()
	name := s.oracle.Name()

	outcome, err := s.query(ctx)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case sat.Unsatisfiable:
		return newVoidResult(name, r), nil
	case sat.Unknown:
		return newResult(name, r, s.classes), nil
	}

	for v := cnf.Var(1); int(v) <= s.cnf.NumVars(); v++ {
		c, err := s.classify(ctx, v)
		if err != nil {
			return nil, err
		}
		if c == Unknown {
			return newResult(name, r, s.classes), nil
		}
		s.classes[v] = c
	}

	result := newResult(name, r, s.classes)
	result.Complete = true
	return result, nil
}

// classify decides v, skipping each polarity check already witnessed
// by an earlier satisfying assignment. It returns Unknown if the run
// has to stop.
func (s *analysis) classify(ctx context.Context, v cnf.Var) (Class, error) {
	if s.seen[v]&seenFalse == 0 {
		outcome, err := s.query(ctx, v.Neg())
		if err != nil {
			return Unknown, err
		}
		switch outcome {
		case sat.Unsatisfiable:
			return Core, nil
		case sat.Unknown:
			return Unknown, nil
		}
	}
	if s.seen[v]&seenTrue == 0 {
		outcome, err := s.query(ctx, v.Pos())
		if err != nil {
			return Unknown, err
		}
		switch outcome {
		case sat.Unsatisfiable:
			return Dead, nil
		case sat.Unknown:
			return Unknown, nil
		}
	}
	return Variable, nil
}

// query asks the oracle unless the budget is spent, in which case it
// answers Unknown without querying.
func (s *analysis) query(ctx context.Context, assumptions ...cnf.Lit) (sat.Outcome, error) {
	if s.gov.Expired() || ctx.Err() != nil {
		return sat.Unknown, nil
	}
	if !s.gov.Unlimited() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.gov.Remaining())
		defer cancel()
	}

	s.queries++
	answer, err := s.oracle.Query(ctx, assumptions...)
	if err != nil {
		return sat.Unknown, errors.Wrapf(err, "query %d with assumptions %v", s.queries, assumptions)
	}
	s.log.WithFields(logrus.Fields{
		"query":       s.queries,
		"assumptions": assumptions,
		"outcome":     answer.Outcome,
	}).Debug("oracle answered")

	if answer.Outcome == sat.Satisfiable {
		s.witness(answer.Assignment)
	}
	return answer.Outcome, nil
}

func (s *analysis) witness(a sat.Assignment) {
	for v := 1; v < len(s.seen); v++ {
		if a.Value(cnf.Var(v).Pos()) {
			s.seen[v] |= seenTrue
		} else if v < len(a) {
			s.seen[v] |= seenFalse
		}
	}
}
