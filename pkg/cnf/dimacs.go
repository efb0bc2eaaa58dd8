package cnf

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDimacs writes f in DIMACS CNF format. Every variable is named
// by a "c <id> <name>" comment line ahead of the problem line, the
// convention FeatureIDE and flamapy use for feature models.
func WriteDimacs(w io.Writer, f *CNF) error {
	bw := bufio.NewWriter(w)
	for _, v := range f.registry.inorder {
		if _, err := fmt.Fprintf(bw, "c %d %s\n", v.ID, v.Name); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", f.registry.Len(), len(f.clauses)); err != nil {
		return err
	}
	for _, c := range f.clauses {
		for _, m := range c {
			if _, err := fmt.Fprintf(bw, "%d ", int(m)); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
