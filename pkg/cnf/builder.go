package cnf

import (
	"strings"

	"github.com/pkg/errors"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// ErrEmptyClause is returned by Build when an empty clause was added.
// An empty clause is a contradiction and never part of a well-formed
// encoding.
var ErrEmptyClause = errors.New("empty clause")

// Builder accumulates clauses over a fixed Registry. Problems found
// while adding are collected and reported together by Build, so a
// loader can add everything first and check once.
type Builder struct {
	registry *Registry
	clauses  []Clause
	added    int
	errs     []error
}

func NewBuilder(r *Registry) *Builder {
	return &Builder{registry: r}
}

// Add appends the clause ms.
func (b *Builder) Add(ms ...Lit) *Builder {
	b.added++
	if len(ms) == 0 {
		b.errs = append(b.errs, errors.Wrapf(ErrEmptyClause, "clause %d", b.added))
		return b
	}
	if err := b.registry.Check(ms...); err != nil {
		b.errs = append(b.errs, errors.Wrapf(err, "clause %d", b.added))
		return b
	}
	c, tautology := normalize(ms)
	if tautology {
		return b
	}
	b.clauses = append(b.clauses, c)
	return b
}

// AddNamed appends a clause given by feature names. A name prefixed
// with "!" stands for the negated feature.
func (b *Builder) AddNamed(names ...string) *Builder {
	ms := make([]Lit, 0, len(names))
	for _, name := range names {
		value := true
		if strings.HasPrefix(name, "!") {
			value = false
			name = strings.TrimPrefix(name, "!")
		}
		m, err := b.registry.LitOf(Identifier(strings.TrimSpace(name)), value)
		if err != nil {
			b.errs = append(b.errs, err)
			return b
		}
		ms = append(ms, m)
	}
	return b.Add(ms...)
}

// Apply adds the clauses of each constraint on the named subject.
func (b *Builder) Apply(subject Identifier, constraints ...Constraint) *Builder {
	s, err := b.registry.VarOf(subject)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	for _, c := range constraints {
		ms, err := c.apply(b.registry, s)
		if err != nil {
			b.errs = append(b.errs, errors.Wrapf(err, "%s", c.String(subject)))
			continue
		}
		b.Add(ms...)
	}
	return b
}

// Build returns the accumulated CNF, or an aggregate of every error
// encountered while adding.
func (b *Builder) Build() (*CNF, error) {
	if len(b.errs) > 0 {
		return nil, utilerrors.NewAggregate(b.errs)
	}
	clauses := make([]Clause, len(b.clauses))
	copy(clauses, b.clauses)
	return &CNF{
		registry: b.registry,
		clauses:  clauses,
	}, nil
}
