package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmhorcas/coredead/pkg/cnf"
	"github.com/jmhorcas/coredead/pkg/featuremodel"
	"github.com/jmhorcas/coredead/pkg/sat"
	"github.com/jmhorcas/coredead/pkg/version"
)

var (
	models = filepath.Join("..", "..", "pkg", "bench", "testdata", "models")
	abc    = filepath.Join(models, "abc.yaml")
	pizzas = filepath.Join(models, "pizzas.cnf")
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	sat.Init()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeJSON(t *testing.T) {
	for _, solver := range []string{"gini", "gophersat"} {
		t.Run(solver, func(t *testing.T) {
			out, err := execute(t, "analyze", pizzas, "--solver", solver, "-o", "json")
			require.NoError(t, err)

			var got report
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, "pizzas", got.Model)
			assert.Equal(t, solver, got.Solver)
			assert.Equal(t, []cnf.Identifier{"Pizza", "Topping", "Size", "Dough"}, got.Core)
			assert.Equal(t, []cnf.Identifier{"CheesyCrust"}, got.Dead)
			assert.Len(t, got.Variable, 7)
			assert.Empty(t, got.Undecided)
			assert.True(t, got.Complete)
			assert.False(t, got.VoidModel)
		})
	}
}

func TestAnalyzeYAML(t *testing.T) {
	out, err := execute(t, "analyze", abc, "-o", "yaml")
	require.NoError(t, err)

	var got report
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, []cnf.Identifier{"A"}, got.Core)
	assert.Equal(t, []cnf.Identifier{"C"}, got.Dead)
	assert.Equal(t, []cnf.Identifier{"B"}, got.Variable)
}

func TestAnalyzeText(t *testing.T) {
	out, err := execute(t, "analyze", abc)
	require.NoError(t, err)
	assert.Contains(t, out, "Model: abc (3 features, 3 clauses)\n")
	assert.Contains(t, out, "Core (1): A\n")
	assert.Contains(t, out, "Dead (1): C\n")
	assert.Contains(t, out, "Variable (1): B\n")
	assert.NotContains(t, out, "\x1b[")

	out, err = execute(t, "analyze", filepath.Join(models, "nested", "void.cnf"))
	require.NoError(t, err)
	assert.Contains(t, out, "void model")
	assert.NotContains(t, out, "Variable")
}

func TestAnalyzeTimeout(t *testing.T) {
	out, err := execute(t, "analyze", abc, "--timeout", "0", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Model;Tool;SAT-solver;CoreCount;DeadCount;Seconds\nabc;coredead;gini;0;0;timeout\n", out)
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := execute(t, "analyze", abc, "--solver", "minisat")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "minisat")

	_, err = execute(t, "analyze", abc, "-o", "xml")
	assert.EqualError(t, err, `unknown output format "xml"`)

	_, err = execute(t, "analyze")
	assert.Error(t, err)
}

func TestBench(t *testing.T) {
	out, err := execute(t, "bench", "--dir", models, "--solvers", "gini,gophersat", "--runs", "2", "--workers", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "Model;Tool;SAT-solver;CoreCount;DeadCount;Seconds", lines[0])
	for i, prefix := range []string{
		"abc;coredead;gini;1;1;", "abc;coredead;gini;1;1;",
		"abc;coredead;gophersat;1;1;", "abc;coredead;gophersat;1;1;",
		"void;coredead;gini;2;2;", "void;coredead;gini;2;2;",
		"void;coredead;gophersat;2;2;", "void;coredead;gophersat;2;2;",
		"pizzas;coredead;gini;4;1;", "pizzas;coredead;gini;4;1;",
		"pizzas;coredead;gophersat;4;1;", "pizzas;coredead;gophersat;4;1;",
	} {
		assert.True(t, strings.HasPrefix(lines[i+1], prefix), "line %d: %s", i+1, lines[i+1])
	}
}

func TestBenchToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	out, err := execute(t, "bench", pizzas, "--timeout", "0", "--no-counts", "--out", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Model;Tool;SAT-solver;Seconds\npizzas;coredead;gini;timeout\n", string(data))
}

func TestBenchPhases(t *testing.T) {
	out, err := execute(t, "bench", pizzas, "--phases")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Model;Tool;SAT-solver;CoreCount;DeadCount;Seconds;Reading;Transformation;Reading(B);Transformation(B);Analysis(B)", lines[0])
	fields := strings.Split(lines[1], ";")
	require.Len(t, fields, 11)
	assert.Equal(t, []string{"pizzas", "coredead", "gini", "4", "1"}, fields[:5])
}

func TestBenchWithoutModels(t *testing.T) {
	_, err := execute(t, "bench")
	assert.Equal(t, errNoModels, err)
}

func TestStats(t *testing.T) {
	out, err := execute(t, "stats", "--dir", models)
	require.NoError(t, err)
	assert.Equal(t, "Model;|F|;|Clauses|\nabc;3;3\nvoid;2;3\npizzas;12;21\n", out)
}

func TestConvert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abc.cnf")
	_, err := execute(t, "convert", abc, "-o", path)
	require.NoError(t, err)

	m, err := featuremodel.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []cnf.Identifier{"A", "B", "C"}, m.Features())
	assert.Equal(t, 3, m.CNF.NumClauses())

	_, err = execute(t, "convert", abc)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	version.Version, version.GitCommit = "v0.1.0", "abc123"
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "coredead version: v0.1.0\n      git commit: abc123\n", out)
}
