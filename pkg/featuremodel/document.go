package featuremodel

import (
	"io"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/jmhorcas/coredead/pkg/cnf"
)

// document is the YAML (or JSON) form of a feature model:
//
//	name: pizzas
//	features: [Pizza, Salami, Ham]
//	constraints:
//	- feature: Pizza
//	  mandatory: true
//	- feature: Ham
//	  excludes: [Salami]
//	clauses:
//	- [Pizza, "!Salami"]
type document struct {
	Name        string       `json:"name,omitempty"`
	Features    []string     `json:"features"`
	Constraints []constraint `json:"constraints,omitempty"`
	Clauses     [][]string   `json:"clauses,omitempty"`
}

type constraint struct {
	Feature    string   `json:"feature"`
	Mandatory  bool     `json:"mandatory,omitempty"`
	Prohibited bool     `json:"prohibited,omitempty"`
	Requires   []string `json:"requires,omitempty"`
	Excludes   []string `json:"excludes,omitempty"`
}

func (c constraint) constraints() []cnf.Constraint {
	var result []cnf.Constraint
	if c.Mandatory {
		result = append(result, cnf.Mandatory())
	}
	if c.Prohibited {
		result = append(result, cnf.Prohibited())
	}
	if len(c.Requires) > 0 {
		ids := make([]cnf.Identifier, len(c.Requires))
		for i, r := range c.Requires {
			ids[i] = cnf.Identifier(r)
		}
		result = append(result, cnf.Requires(ids...))
	}
	for _, e := range c.Excludes {
		result = append(result, cnf.Excludes(cnf.Identifier(e)))
	}
	return result
}

// ParseDocument reads a YAML or JSON feature model. A name inside the
// document wins over the given one.
func ParseDocument(name string, data []byte) (*Model, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing model document")
	}
	if doc.Name != "" {
		name = doc.Name
	}

	ids := make([]cnf.Identifier, len(doc.Features))
	for i, f := range doc.Features {
		ids[i] = cnf.Identifier(strings.TrimSpace(f))
	}
	r, err := cnf.NewRegistry(ids...)
	if err != nil {
		return nil, err
	}
	b := cnf.NewBuilder(r)
	for _, c := range doc.Constraints {
		b.Apply(cnf.Identifier(c.Feature), c.constraints()...)
	}
	for _, c := range doc.Clauses {
		b.AddNamed(c...)
	}
	f, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &Model{Name: name, CNF: f}, nil
}

// WriteDocument writes m as YAML, or JSON if asJSON is set, with every
// clause spelled out by feature names.
func WriteDocument(w io.Writer, m *Model, asJSON bool) error {
	doc := document{Name: m.Name}
	r := m.CNF.Registry()
	for _, id := range m.Features() {
		doc.Features = append(doc.Features, string(id))
	}
	for _, c := range m.CNF.Clauses() {
		names := make([]string, len(c))
		for i, l := range c {
			names[i] = string(r.Name(l.Var()))
			if !l.IsPos() {
				names[i] = "!" + names[i]
			}
		}
		doc.Clauses = append(doc.Clauses, names)
	}
	data, err := yaml.Marshal(doc)
	if err == nil && asJSON {
		data, err = yaml.YAMLToJSON(data)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
