package sat

import (
	"context"

	"github.com/crillab/gophersat/solver"

	"github.com/jmhorcas/coredead/pkg/cnf"
)

// gophersatOracle answers each query with a fresh gophersat solver
// over the CNF plus one unit clause per assumption. Nothing is shared
// between queries, which makes it a slow but simple reference for the
// incremental gini backend. gophersat has no per-call time limit, so
// the deadline hint is ignored.
type gophersatOracle struct {
	cnf     *cnf.CNF
	clauses [][]int
}

var _ Oracle = &gophersatOracle{}

func newGophersatOracle(f *cnf.CNF) (Oracle, error) {
	clauses := make([][]int, 0, f.NumClauses())
	for _, c := range f.Clauses() {
		clause := make([]int, len(c))
		for i, m := range c {
			clause[i] = int(m)
		}
		clauses = append(clauses, clause)
	}
	return &gophersatOracle{cnf: f, clauses: clauses}, nil
}

func (o *gophersatOracle) Name() string {
	return "gophersat"
}

func (o *gophersatOracle) Query(_ context.Context, assumptions ...cnf.Lit) (answer Answer, err error) {
	if o.clauses == nil {
		return Answer{}, ErrClosed
	}
	if err := check(o.cnf, assumptions); err != nil {
		return Answer{}, err
	}

	defer recoverFault(o.Name(), &answer, &err)

	// gophersat may reorder clause literals while parsing, so every
	// query gets its own copy.
	problem := make([][]int, 0, len(o.clauses)+len(assumptions))
	for _, c := range o.clauses {
		problem = append(problem, append([]int(nil), c...))
	}
	for _, m := range assumptions {
		problem = append(problem, []int{int(m)})
	}

	s := solver.New(solver.ParseSlice(problem))
	switch s.Solve() {
	case solver.Sat:
		model := s.Model()
		a := make(Assignment, o.cnf.NumVars()+1)
		for v := 1; v < len(a); v++ {
			if v-1 < len(model) {
				a[v] = model[v-1]
			}
		}
		return Answer{Outcome: Satisfiable, Assignment: a}, nil
	case solver.Unsat:
		return Answer{Outcome: Unsatisfiable}, nil
	}
	return Answer{Outcome: Unknown}, nil
}

func (o *gophersatOracle) Close() error {
	o.clauses = nil
	return nil
}
