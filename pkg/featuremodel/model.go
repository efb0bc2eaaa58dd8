package featuremodel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/jmhorcas/coredead/pkg/cnf"
)

// Model is a named feature model reduced to its CNF.
type Model struct {
	Name string
	CNF  *cnf.CNF
}

// Features returns the feature names in variable order.
func (m *Model) Features() []cnf.Identifier {
	vars := m.CNF.Registry().Variables()
	names := make([]cnf.Identifier, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return names
}

type Format int

const (
	Unsupported Format = iota
	Dimacs
	Document
)

// FormatOf picks the format from the extension of path.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cnf", ".dimacs":
		return Dimacs
	case ".yaml", ".yml", ".json":
		return Document
	}
	return Unsupported
}

type UnsupportedFormat string

func (e UnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported model file %q, expected .cnf, .dimacs, .yaml, .yml or .json", string(e))
}

// NameOf returns the base name of path up to its first dot.
func NameOf(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i > 0 {
		return base[:i]
	}
	return base
}

// Load reads the model at path.
func Load(path string) (*Model, error) {
	format := FormatOf(path)
	if format == Unsupported {
		return nil, UnsupportedFormat(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading model %s", path)
	}

	var m *Model
	switch format {
	case Dimacs:
		m, err = ParseDimacs(NameOf(path), data)
	case Document:
		m, err = ParseDocument(NameOf(path), data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading model %s", path)
	}
	return m, nil
}

// Save writes m to path in the format its extension names.
func Save(path string, m *Model) (err error) {
	format := FormatOf(path)
	if format == Unsupported {
		return UnsupportedFormat(path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	switch format {
	case Dimacs:
		err = cnf.WriteDimacs(f, m.CNF)
	case Document:
		err = WriteDocument(f, m, strings.EqualFold(filepath.Ext(path), ".json"))
	}
	return errors.Wrapf(err, "writing %s", path)
}
