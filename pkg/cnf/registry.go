package cnf

import (
	"fmt"

	"github.com/pkg/errors"
)

// Identifier is the display name of a feature. Identifiers are unique
// within a Registry.
type Identifier string

func (id Identifier) String() string {
	return string(id)
}

// Var is a dense, 1-based variable index assigned by a Registry.
type Var int

// Pos returns the literal asserting v true.
func (v Var) Pos() Lit {
	return Lit(v)
}

// Neg returns the literal asserting v false.
func (v Var) Neg() Lit {
	return Lit(-v)
}

// Lit is a signed reference to a Var: positive asserts the variable
// true, negative asserts it false. The zero Lit is not a literal.
type Lit int

// Var returns the variable referenced by m.
func (m Lit) Var() Var {
	if m < 0 {
		return Var(-m)
	}
	return Var(m)
}

// Not returns the opposite literal.
func (m Lit) Not() Lit {
	return -m
}

// IsPos reports whether m asserts its variable true.
func (m Lit) IsPos() bool {
	return m > 0
}

func (m Lit) String() string {
	return fmt.Sprintf("%d", int(m))
}

// Variable pairs a Var with the name of the feature it stands for.
type Variable struct {
	ID   Var
	Name Identifier
}

// ErrInvalidInput is matched by every error reporting a name or
// variable that does not belong to a Registry.
var ErrInvalidInput = errors.New("invalid input")

type DuplicateIdentifier Identifier

func (e DuplicateIdentifier) Error() string {
	return fmt.Sprintf("duplicate identifier %q in input", Identifier(e))
}

// UnknownIdentifier is returned when a feature name is referenced but
// was never declared.
type UnknownIdentifier Identifier

func (e UnknownIdentifier) Error() string {
	return fmt.Sprintf("feature %q referenced but not declared", Identifier(e))
}

func (e UnknownIdentifier) Is(target error) bool {
	return target == ErrInvalidInput
}

// OutOfRange is returned when a Var or Lit does not address a
// variable of the Registry.
type OutOfRange struct {
	Lit Lit
	Max Var
}

func (e OutOfRange) Error() string {
	return fmt.Sprintf("literal %d out of range [1, %d]", int(e.Lit), int(e.Max))
}

func (e OutOfRange) Is(target error) bool {
	return target == ErrInvalidInput
}

// Registry is the bidirectional mapping between feature names and
// variables. Variables are numbered in declaration order, which fixes
// the order every analysis visits them in. A Registry is read-only
// once constructed.
type Registry struct {
	inorder []Variable
	vars    map[Identifier]Var
}

// NewRegistry assigns variables 1..len(names) to names, in order.
func NewRegistry(names ...Identifier) (*Registry, error) {
	r := Registry{
		inorder: make([]Variable, 0, len(names)),
		vars:    make(map[Identifier]Var, len(names)),
	}
	for _, name := range names {
		if name == "" {
			return nil, errors.Errorf("empty feature name at position %d", len(r.inorder)+1)
		}
		if _, ok := r.vars[name]; ok {
			return nil, DuplicateIdentifier(name)
		}
		v := Var(len(r.inorder) + 1)
		r.vars[name] = v
		r.inorder = append(r.inorder, Variable{ID: v, Name: name})
	}
	return &r, nil
}

// Len returns the number of variables.
func (r *Registry) Len() int {
	return len(r.inorder)
}

// MaxVar returns the highest variable, or 0 for an empty Registry.
func (r *Registry) MaxVar() Var {
	return Var(len(r.inorder))
}

// VarOf returns the variable of the feature with the given name.
func (r *Registry) VarOf(id Identifier) (Var, error) {
	v, ok := r.vars[id]
	if !ok {
		return 0, UnknownIdentifier(id)
	}
	return v, nil
}

// LitOf returns the literal asserting that the named feature has the
// given value.
func (r *Registry) LitOf(id Identifier, value bool) (Lit, error) {
	v, err := r.VarOf(id)
	if err != nil {
		return 0, err
	}
	if value {
		return v.Pos(), nil
	}
	return v.Neg(), nil
}

// Valid reports whether m addresses a variable of r.
func (r *Registry) Valid(m Lit) bool {
	v := m.Var()
	return v >= 1 && int(v) <= len(r.inorder)
}

// Check returns an OutOfRange error for the first literal in ms that
// does not address a variable of r.
func (r *Registry) Check(ms ...Lit) error {
	for _, m := range ms {
		if !r.Valid(m) {
			return OutOfRange{Lit: m, Max: r.MaxVar()}
		}
	}
	return nil
}

// Variable returns the Variable with ID v.
func (r *Registry) Variable(v Var) (Variable, error) {
	if !r.Valid(v.Pos()) {
		return Variable{}, OutOfRange{Lit: v.Pos(), Max: r.MaxVar()}
	}
	return r.inorder[v-1], nil
}

// Name returns the name of v. It panics if v is out of range; use
// Variable when v comes from untrusted input.
func (r *Registry) Name(v Var) Identifier {
	x, err := r.Variable(v)
	if err != nil {
		panic(err)
	}
	return x.Name
}

// Variables returns every variable in ascending ID order.
func (r *Registry) Variables() []Variable {
	result := make([]Variable, len(r.inorder))
	copy(result, r.inorder)
	return result
}
