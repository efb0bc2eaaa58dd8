package bench

import (
	"encoding/csv"
	"io"
	"strconv"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/jmhorcas/coredead/pkg/featuremodel"
)

// Stats describes the size of one model.
type Stats struct {
	Model    string
	Features int
	Clauses  int
}

// CollectStats loads every model in paths. Models that fail to load
// are left out and their errors aggregated.
func CollectStats(paths []string) ([]Stats, error) {
	var (
		stats []Stats
		errs  []error
	)
	for _, path := range paths {
		m, err := featuremodel.Load(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		stats = append(stats, Stats{
			Model:    m.Name,
			Features: m.CNF.NumVars(),
			Clauses:  m.CNF.NumClauses(),
		})
	}
	return stats, utilerrors.NewAggregate(errs)
}

// WriteStats renders stats as ';' separated lines behind a header.
func WriteStats(w io.Writer, stats []Stats) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write([]string{"Model", "|F|", "|Clauses|"}); err != nil {
		return err
	}
	for _, s := range stats {
		if err := cw.Write([]string{s.Model, strconv.Itoa(s.Features), strconv.Itoa(s.Clauses)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
