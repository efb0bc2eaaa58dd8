package bench

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Timeout replaces the seconds column of runs that did not finish.
const Timeout = "timeout"

// Writer renders Records as ';' separated lines behind a single header
// line.
type Writer struct {
	csv         *csv.Writer
	counts      bool
	phases      bool
	wroteHeader bool
}

type WriterOption func(w *Writer)

// WithCounts controls the CoreCount and DeadCount columns. They are on
// by default.
func WithCounts(enabled bool) WriterOption {
	return func(w *Writer) {
		w.counts = enabled
	}
}

// WithPhases appends the Reading and Transformation timings and the
// bytes allocated by each phase.
func WithPhases(enabled bool) WriterOption {
	return func(w *Writer) {
		w.phases = enabled
	}
}

func NewWriter(w io.Writer, options ...WriterOption) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	writer := &Writer{csv: cw, counts: true}
	for _, option := range options {
		option(writer)
	}
	return writer
}

func (w *Writer) Header() []string {
	header := []string{"Model", "Tool", "SAT-solver"}
	if w.counts {
		header = append(header, "CoreCount", "DeadCount")
	}
	header = append(header, "Seconds")
	if w.phases {
		header = append(header, "Reading", "Transformation", "Reading(B)", "Transformation(B)", "Analysis(B)")
	}
	return header
}

// Write writes r, preceded by the header on first use.
func (w *Writer) Write(r Record) error {
	if !w.wroteHeader {
		if err := w.csv.Write(w.Header()); err != nil {
			return err
		}
		w.wroteHeader = true
	}

	line := []string{r.Model, r.Tool, r.Solver}
	if w.counts {
		line = append(line, strconv.Itoa(r.Core), strconv.Itoa(r.Dead))
	}
	if r.Complete {
		line = append(line, seconds(r.Seconds))
	} else {
		line = append(line, Timeout)
	}
	if w.phases {
		line = append(line,
			seconds(r.Reading.Seconds()),
			seconds(r.Transformation.Seconds()),
			strconv.FormatUint(r.ReadingBytes, 10),
			strconv.FormatUint(r.TransformationBytes, 10),
			strconv.FormatUint(r.AnalysisBytes, 10),
		)
	}
	return w.csv.Write(line)
}

// Flush writes any buffered lines to the underlying io.Writer.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

func seconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 6, 64)
}
