package bench

import (
	"time"

	"github.com/jmhorcas/coredead/pkg/coredead"
)

// Record is one benchmark line: the outcome of a single analysis run of
// one model with one solver.
type Record struct {
	Model     string
	Tool      string
	Solver    string
	Run       int
	Core      int
	Dead      int
	// Variable counts the remaining features, undecided ones included.
	Variable  int
	Seconds   float64
	Complete  bool
	VoidModel bool

	// Reading and Transformation time the phases before the analysis:
	// loading the model file and building the oracle.
	Reading        time.Duration
	Transformation time.Duration

	// The Bytes fields hold the bytes allocated by the process during
	// loading, oracle building and the analysis itself. Allocations are
	// process wide, so they only belong to this run with one worker.
	ReadingBytes        uint64
	TransformationBytes uint64
	AnalysisBytes       uint64
}

func NewRecord(model, tool string, r *coredead.Result) Record {
	core, dead, variable := r.Counts()
	return Record{
		Model:     model,
		Tool:      tool,
		Solver:    r.Solver,
		Run:       1,
		Core:      core,
		Dead:      dead,
		Variable:  variable,
		Seconds:   r.ElapsedSeconds(),
		Complete:  r.Complete,
		VoidModel: r.VoidModel,
	}
}
