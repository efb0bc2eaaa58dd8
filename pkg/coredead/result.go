package coredead

import (
	"time"

	"github.com/jmhorcas/coredead/pkg/cnf"
)

// Class is the verdict for one feature.
type Class int

const (
	Unknown Class = iota
	Core
	Dead
	Variable
)

func (c Class) String() string {
	switch c {
	case Core:
		return "core"
	case Dead:
		return "dead"
	case Variable:
		return "variable"
	default:
		return "unknown"
	}
}

// Result is the outcome of one analysis run. Every name list follows
// variable order.
//
// When VoidModel is set the formula has no valid configuration and
// every feature is listed in both Core and Dead. When Complete is false
// the run stopped early: the lists hold only what was decided before
// the stop and the remaining features are listed in Undecided.
type Result struct {
	Solver    string
	Core      []cnf.Identifier
	Dead      []cnf.Identifier
	Variable  []cnf.Identifier
	Undecided []cnf.Identifier
	Complete  bool
	VoidModel bool
	Elapsed   time.Duration
	Queries   int

	classes map[cnf.Identifier]Class
}

func newResult(solver string, r *cnf.Registry, classes []Class) *Result {
	result := &Result{
		Solver:  solver,
		classes: make(map[cnf.Identifier]Class, r.Len()),
	}
	for _, v := range r.Variables() {
		c := classes[v.ID]
		result.classes[v.Name] = c
		switch c {
		case Core:
			result.Core = append(result.Core, v.Name)
		case Dead:
			result.Dead = append(result.Dead, v.Name)
		case Variable:
			result.Variable = append(result.Variable, v.Name)
		default:
			result.Undecided = append(result.Undecided, v.Name)
		}
	}
	return result
}

func newVoidResult(solver string, r *cnf.Registry) *Result {
	result := &Result{
		Solver:    solver,
		Complete:  true,
		VoidModel: true,
		classes:   make(map[cnf.Identifier]Class, r.Len()),
	}
	for _, v := range r.Variables() {
		result.Core = append(result.Core, v.Name)
		result.Dead = append(result.Dead, v.Name)
		result.classes[v.Name] = Unknown
	}
	return result
}

// Class returns the verdict for id. Features of a void model and
// features the run did not reach are Unknown.
func (r *Result) Class(id cnf.Identifier) Class {
	return r.classes[id]
}

// Classification returns a copy of the verdict of every feature.
func (r *Result) Classification() map[cnf.Identifier]Class {
	out := make(map[cnf.Identifier]Class, len(r.classes))
	for id, c := range r.classes {
		out[id] = c
	}
	return out
}

func (r *Result) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// Counts returns the sizes of the core and dead lists and the number
// of remaining features, undecided ones included.
func (r *Result) Counts() (core, dead, variable int) {
	if r.VoidModel {
		return len(r.Core), len(r.Dead), 0
	}
	return len(r.Core), len(r.Dead), len(r.Variable) + len(r.Undecided)
}
