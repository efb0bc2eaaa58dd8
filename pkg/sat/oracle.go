//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -o satfakes/fake_oracle.go . Oracle

package sat

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jmhorcas/coredead/pkg/cnf"
)

// Outcome is the answer of a single satisfiability query. The values
// match the int results of gini's Solve and Try.
type Outcome int

const (
	Unsatisfiable Outcome = -1
	Unknown       Outcome = 0
	Satisfiable   Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case Satisfiable:
		return "sat"
	case Unsatisfiable:
		return "unsat"
	default:
		return "unknown"
	}
}

// Assignment is a snapshot of a satisfying assignment indexed by
// variable. Index 0 is unused.
type Assignment []bool

// Value returns the truth value of m under a. Literals of variables
// outside a are false.
func (a Assignment) Value(m cnf.Lit) bool {
	v := int(m.Var())
	if v <= 0 || v >= len(a) {
		return false
	}
	if m.IsPos() {
		return a[v]
	}
	return !a[v]
}

// Answer pairs an Outcome with the assignment witnessing it. The
// Assignment is only set when the Outcome is Satisfiable.
type Answer struct {
	Outcome    Outcome
	Assignment Assignment
}

// Oracle decides satisfiability of a fixed CNF under unit assumptions.
// Answers are deterministic for identical assumptions. An Oracle is
// owned by one analysis at a time and is not safe for concurrent use.
type Oracle interface {
	// Query decides the CNF with every literal of assumptions
	// asserted for this call only. If ctx carries a deadline the
	// Oracle may give up once it passes and answer Unknown.
	// Assumptions outside the variable range fail with an error
	// matching cnf.ErrInvalidInput; solver failures unrelated to
	// satisfiability fail with a *Fault.
	Query(ctx context.Context, assumptions ...cnf.Lit) (Answer, error)
	// Name identifies the solver backend.
	Name() string
	// Close releases the solver. The Oracle must not be used
	// afterwards.
	Close() error
}

// ErrFault is matched by every *Fault.
var ErrFault = errors.New("oracle fault")

// Fault reports a solver failure unrelated to satisfiability, such as
// resource exhaustion inside the backend.
type Fault struct {
	Solver string
	Cause  interface{}
}

func (e *Fault) Error() string {
	return fmt.Sprintf("%s: internal solver failure: %v", e.Solver, e.Cause)
}

func (e *Fault) Is(target error) bool {
	return target == ErrFault
}

// recoverFault turns a panic inside a backend into a *Fault. It must be
// deferred directly by Query.
func recoverFault(solver string, answer *Answer, err *error) {
	if r := recover(); r != nil {
		*answer = Answer{}
		*err = &Fault{Solver: solver, Cause: r}
	}
}

// ErrClosed is returned by Query after Close.
var ErrClosed = errors.New("oracle closed")

// check validates assumptions against the registry of f.
func check(f *cnf.CNF, assumptions []cnf.Lit) error {
	return errors.Wrap(f.Registry().Check(assumptions...), "invalid assumption")
}
