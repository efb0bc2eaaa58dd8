package featuremodel

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/go-air/gini/dimacs"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"

	"github.com/jmhorcas/coredead/pkg/cnf"
)

// clauseReader collects the clauses reported by dimacs.ReadCnf.
type clauseReader struct {
	clauses [][]cnf.Lit
	current []cnf.Lit
	maxVar  int
}

var _ dimacs.CnfVis = &clauseReader{}

func (r *clauseReader) Init(_, c int) {
	if c > 0 && c < 1<<20 {
		r.clauses = make([][]cnf.Lit, 0, c)
	}
}

func (r *clauseReader) Add(m z.Lit) {
	if m == z.LitNull {
		r.clauses = append(r.clauses, r.current)
		r.current = nil
		return
	}
	d := m.Dimacs()
	v := d
	if v < 0 {
		v = -v
	}
	if v > r.maxVar {
		r.maxVar = v
	}
	r.current = append(r.current, cnf.Lit(d))
}

// Eof is never called by dimacs.ReadCnf; ParseDimacs checks for an
// unterminated clause itself.
func (r *clauseReader) Eof() {}

// header holds what the comment filter of the dimacs reader discards:
// the variable names and the declared variable count.
type header struct {
	vars  int
	names map[int]string
}

func scanHeader(data []byte) (header, error) {
	h := header{names: map[int]string{}}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "p "):
			fields := strings.Fields(line)
			if len(fields) != 4 || fields[1] != "cnf" {
				return h, errors.Errorf("malformed problem line %q", line)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return h, errors.Wrapf(err, "malformed problem line %q", line)
			}
			h.vars = n
		case strings.HasPrefix(line, "c "):
			fields := strings.SplitN(strings.TrimPrefix(line, "c "), " ", 2)
			if len(fields) != 2 {
				continue
			}
			// FeatureIDE marks auxiliary variables with a trailing $.
			id, err := strconv.Atoi(strings.TrimSuffix(fields[0], "$"))
			if err != nil || id <= 0 {
				continue
			}
			if name := strings.TrimSpace(fields[1]); name != "" {
				h.names[id] = name
			}
		}
	}
	return h, scanner.Err()
}

// ParseDimacs reads a DIMACS CNF. Every comment line of the form
// "c <id> <name>" names variable id, so free-text comments must not
// start with a number. Unnamed variables are named "_<id>". Every
// clause, the last one included, must be terminated by 0.
func ParseDimacs(name string, data []byte) (*Model, error) {
	h, err := scanHeader(data)
	if err != nil {
		return nil, err
	}
	var r clauseReader
	if err := dimacs.ReadCnf(bytes.NewReader(data), &r); err != nil {
		return nil, errors.Wrap(err, "parsing DIMACS")
	}
	if len(r.current) > 0 {
		return nil, errors.Errorf("clause %d not terminated by 0", len(r.clauses)+1)
	}

	n := h.vars
	if r.maxVar > n {
		n = r.maxVar
	}
	for id := range h.names {
		if id > n {
			n = id
		}
	}

	names := make([]cnf.Identifier, n)
	for i := range names {
		if s, ok := h.names[i+1]; ok {
			names[i] = cnf.Identifier(s)
		} else {
			names[i] = cnf.Identifier("_" + strconv.Itoa(i+1))
		}
	}
	registry, err := cnf.NewRegistry(names...)
	if err != nil {
		return nil, err
	}
	b := cnf.NewBuilder(registry)
	for _, c := range r.clauses {
		b.Add(c...)
	}
	f, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &Model{Name: name, CNF: f}, nil
}
