package cnf

import (
	"fmt"
	"strings"
)

// Constraint implementations restrict the configurations in which a
// particular feature may be selected. Each one contributes a single
// clause.
type Constraint interface {
	String(subject Identifier) string
	apply(r *Registry, subject Var) ([]Lit, error)
}

type mandatory struct{}

func (constraint mandatory) String(subject Identifier) string {
	return fmt.Sprintf("%s is mandatory", subject)
}

func (constraint mandatory) apply(_ *Registry, subject Var) ([]Lit, error) {
	return []Lit{subject.Pos()}, nil
}

// Mandatory returns a Constraint that selects its subject in every
// configuration.
func Mandatory() Constraint {
	return mandatory{}
}

type prohibited struct{}

func (constraint prohibited) String(subject Identifier) string {
	return fmt.Sprintf("%s is prohibited", subject)
}

func (constraint prohibited) apply(_ *Registry, subject Var) ([]Lit, error) {
	return []Lit{subject.Neg()}, nil
}

// Prohibited returns a Constraint that excludes its subject from every
// configuration.
func Prohibited() Constraint {
	return prohibited{}
}

type requires []Identifier

func (constraint requires) String(subject Identifier) string {
	s := make([]string, len(constraint))
	for i, each := range constraint {
		s[i] = string(each)
	}
	return fmt.Sprintf("%s requires at least one of %s", subject, strings.Join(s, ", "))
}

func (constraint requires) apply(r *Registry, subject Var) ([]Lit, error) {
	ms := []Lit{subject.Neg()}
	for _, id := range constraint {
		v, err := r.VarOf(id)
		if err != nil {
			return nil, err
		}
		ms = append(ms, v.Pos())
	}
	return ms, nil
}

// Requires returns a Constraint that permits its subject only in
// configurations that also select at least one of the given features.
// With no features the subject can never be selected.
func Requires(ids ...Identifier) Constraint {
	return requires(ids)
}

type excludes Identifier

func (constraint excludes) String(subject Identifier) string {
	return fmt.Sprintf("%s excludes %s", subject, Identifier(constraint))
}

func (constraint excludes) apply(r *Registry, subject Var) ([]Lit, error) {
	v, err := r.VarOf(Identifier(constraint))
	if err != nil {
		return nil, err
	}
	return []Lit{subject.Neg(), v.Neg()}, nil
}

// Excludes returns a Constraint that forbids selecting its subject
// together with the given feature.
func Excludes(id Identifier) Constraint {
	return excludes(id)
}
