package sat

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/jmhorcas/coredead/pkg/cnf"
)

// DefaultSolver is the backend used when none is named.
const DefaultSolver = "gini"

// Factory builds an Oracle over f.
type Factory func(f *cnf.CNF) (Oracle, error)

// ErrNotInitialized is returned by New before Init has been called.
var ErrNotInitialized = errors.New("sat backends not initialized, call sat.Init first")

type UnknownSolver string

func (e UnknownSolver) Error() string {
	return fmt.Sprintf("unknown SAT solver %q", string(e))
}

var (
	mu       sync.RWMutex
	backends map[string]Factory
)

// Init registers the built-in backends. It must run once before any
// Oracle is created; later calls do nothing.
func Init() {
	mu.Lock()
	defer mu.Unlock()
	if backends != nil {
		return
	}
	backends = map[string]Factory{
		"gini":      newGiniOracle,
		"gophersat": newGophersatOracle,
	}
}

// Shutdown forgets every registered backend. Oracles already created
// stay usable.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	backends = nil
}

// Register adds or replaces a backend. Init must have been called.
func Register(name string, factory Factory) error {
	mu.Lock()
	defer mu.Unlock()
	if backends == nil {
		return ErrNotInitialized
	}
	backends[name] = factory
	return nil
}

// Solvers returns the registered backend names, sorted.
func Solvers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns a fresh Oracle of the named backend over f. An empty
// name selects DefaultSolver.
func New(name string, f *cnf.CNF) (Oracle, error) {
	if name == "" {
		name = DefaultSolver
	}
	mu.RLock()
	if backends == nil {
		mu.RUnlock()
		return nil, ErrNotInitialized
	}
	factory, ok := backends[name]
	mu.RUnlock()
	if !ok {
		return nil, UnknownSolver(name)
	}
	o, err := factory(f)
	if err != nil {
		return nil, errors.Wrapf(err, "initializing %s", name)
	}
	return o, nil
}
