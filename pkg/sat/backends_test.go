package sat

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmhorcas/coredead/pkg/cnf"
)

func TestBackendRegistry(t *testing.T) {
	f := build(t, []cnf.Identifier{"a"})

	Shutdown()
	_, err := New("", f)
	assert.Equal(t, ErrNotInitialized, err)
	assert.Equal(t, ErrNotInitialized, Register("noop", newGophersatOracle))
	assert.Empty(t, Solvers())

	Init()
	Init()
	assert.Equal(t, []string{"gini", "gophersat"}, Solvers())

	o, err := New("", f)
	require.NoError(t, err)
	assert.Equal(t, DefaultSolver, o.Name())
	require.NoError(t, o.Close())

	_, err = New("minisat", f)
	assert.Equal(t, UnknownSolver("minisat"), err)
	assert.EqualError(t, err, `unknown SAT solver "minisat"`)

	broken := errors.New("broken")
	require.NoError(t, Register("broken", func(*cnf.CNF) (Oracle, error) { return nil, broken }))
	defer func() {
		Shutdown()
		Init()
	}()
	_, err = New("broken", f)
	assert.True(t, errors.Is(err, broken))
	assert.Contains(t, Solvers(), "broken")
}

func TestInstrumentedOracle(t *testing.T) {
	Init()
	f := build(t, []cnf.Identifier{"a"}, []cnf.Lit{1})
	o, err := New("gini", f)
	require.NoError(t, err)

	var outcomes []Outcome
	failures := 0
	in := NewInstrumentedOracle(o,
		func(outcome Outcome, d time.Duration) {
			assert.True(t, d >= 0)
			outcomes = append(outcomes, outcome)
		},
		func(time.Duration) { failures++ },
	)
	assert.Equal(t, "gini", in.Name())

	_, err = in.Query(context.Background())
	require.NoError(t, err)
	_, err = in.Query(context.Background(), -1)
	require.NoError(t, err)
	_, err = in.Query(context.Background(), 7)
	require.Error(t, err)

	assert.Equal(t, []Outcome{Satisfiable, Unsatisfiable}, outcomes)
	assert.Equal(t, 1, failures)

	require.NoError(t, in.Close())
	_, err = in.Query(context.Background())
	assert.Equal(t, ErrClosed, err)
	assert.Equal(t, 2, failures)
}
