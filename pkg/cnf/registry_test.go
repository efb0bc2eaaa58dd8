package cnf

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	type tc struct {
		Name  string
		Input []Identifier
		Error error
		Len   int
	}

	for _, tt := range []tc{
		{
			Name: "empty",
		},
		{
			Name:  "declaration order",
			Input: []Identifier{"a", "b", "c"},
			Len:   3,
		},
		{
			Name:  "duplicate identifier",
			Input: []Identifier{"a", "b", "a"},
			Error: DuplicateIdentifier("a"),
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			r, err := NewRegistry(tt.Input...)
			if tt.Error != nil {
				require.Equal(t, tt.Error, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.Len, r.Len())
			for i, id := range tt.Input {
				v, err := r.VarOf(id)
				require.NoError(t, err)
				assert.Equal(t, Var(i+1), v)
				assert.Equal(t, id, r.Name(v))
			}
		})
	}
}

func TestRegistryEmptyName(t *testing.T) {
	_, err := NewRegistry("a", "")
	require.Error(t, err)
}

func TestRegistryInvalidInput(t *testing.T) {
	r, err := NewRegistry("a", "b")
	require.NoError(t, err)

	_, err = r.VarOf("x")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.EqualError(t, err, `feature "x" referenced but not declared`)

	_, err = r.Variable(3)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	assert.True(t, errors.Is(r.Check(1, -2, 3), ErrInvalidInput))
	assert.NoError(t, r.Check(1, -2))
	assert.False(t, r.Valid(0))

	assert.Panics(t, func() { r.Name(0) })
}

func TestRegistryLitOf(t *testing.T) {
	r, err := NewRegistry("a", "b")
	require.NoError(t, err)

	m, err := r.LitOf("b", true)
	require.NoError(t, err)
	assert.Equal(t, Lit(2), m)

	m, err = r.LitOf("b", false)
	require.NoError(t, err)
	assert.Equal(t, Lit(-2), m)
	assert.Equal(t, Var(2), m.Var())
	assert.False(t, m.IsPos())
	assert.Equal(t, Lit(2), m.Not())
}

func TestRegistryVariablesIsACopy(t *testing.T) {
	r, err := NewRegistry("a", "b")
	require.NoError(t, err)

	vs := r.Variables()
	vs[0].Name = "changed"
	assert.Equal(t, Identifier("a"), r.Name(1))
}
