package cnf

import (
	"sort"
	"strings"
)

// Clause is a disjunction of literals.
type Clause []Lit

func (c Clause) String() string {
	s := make([]string, len(c))
	for i, m := range c {
		s[i] = m.String()
	}
	return "(" + strings.Join(s, " ") + ")"
}

// normalize sorts c by variable, drops repeated literals and reports
// whether c is a tautology.
func normalize(c Clause) (Clause, bool) {
	sorted := make(Clause, len(c))
	copy(sorted, c)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Var() != sorted[j].Var() {
			return sorted[i].Var() < sorted[j].Var()
		}
		return sorted[i] < sorted[j]
	})
	out := sorted[:0]
	for _, m := range sorted {
		if n := len(out); n > 0 {
			last := out[n-1]
			if last == m {
				continue
			}
			if last == m.Not() {
				return nil, true
			}
		}
		out = append(out, m)
	}
	return out, false
}

// CNF is a conjunction of clauses over the variables of a Registry. A
// CNF never changes after Build returns it, so a single CNF may back
// any number of concurrent analyses.
type CNF struct {
	registry *Registry
	clauses  []Clause
}

// Registry returns the variable universe of f.
func (f *CNF) Registry() *Registry {
	return f.registry
}

// Clauses returns the clauses of f. The returned slice is shared and
// must not be modified.
func (f *CNF) Clauses() []Clause {
	return f.clauses
}

// NumClauses returns the number of clauses.
func (f *CNF) NumClauses() int {
	return len(f.clauses)
}

// NumVars returns the number of variables of the underlying Registry.
func (f *CNF) NumVars() int {
	return f.registry.Len()
}
