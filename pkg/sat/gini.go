package sat

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/jmhorcas/coredead/pkg/cnf"
)

// giniOracle keeps one incremental gini instance loaded with the CNF,
// so clauses learned while answering one query speed up the next.
type giniOracle struct {
	g      *gini.Gini
	cnf    *cnf.CNF
	buffer []z.Lit
}

var _ Oracle = &giniOracle{}

func newGiniOracle(f *cnf.CNF) (o Oracle, err error) {
	defer func() {
		if r := recover(); r != nil {
			o = nil
			err = &Fault{Solver: "gini", Cause: r}
		}
	}()

	g := gini.NewVc(f.NumVars(), f.NumClauses())
	for _, c := range f.Clauses() {
		for _, m := range c {
			g.Add(z.Dimacs2Lit(int(m)))
		}
		g.Add(z.LitNull)
	}
	// Variables that occur in no clause still need to exist in the
	// solver so they can be assumed and read back.
	for g.MaxVar() < z.Var(f.NumVars()) {
		g.Lit()
	}
	return &giniOracle{g: g, cnf: f}, nil
}

func (o *giniOracle) Name() string {
	return "gini"
}

func (o *giniOracle) Query(ctx context.Context, assumptions ...cnf.Lit) (answer Answer, err error) {
	if o.g == nil {
		return Answer{}, ErrClosed
	}
	if err := check(o.cnf, assumptions); err != nil {
		return Answer{}, err
	}

	var timeout time.Duration
	deadline, bounded := ctx.Deadline()
	if bounded {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return Answer{Outcome: Unknown}, nil
		}
	}

	defer recoverFault(o.Name(), &answer, &err)

	o.buffer = o.buffer[:0]
	for _, m := range assumptions {
		o.buffer = append(o.buffer, z.Dimacs2Lit(int(m)))
	}
	o.g.Assume(o.buffer...)

	var result int
	if bounded {
		result = o.g.Try(timeout)
	} else {
		result = o.g.Solve()
	}

	switch Outcome(result) {
	case Satisfiable:
		a := make(Assignment, o.cnf.NumVars()+1)
		for v := 1; v < len(a); v++ {
			a[v] = o.g.Value(z.Var(v).Pos())
		}
		return Answer{Outcome: Satisfiable, Assignment: a}, nil
	case Unsatisfiable:
		return Answer{Outcome: Unsatisfiable}, nil
	}
	return Answer{Outcome: Unknown}, nil
}

func (o *giniOracle) Close() error {
	o.g = nil
	o.buffer = nil
	return nil
}
