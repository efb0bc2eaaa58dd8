package sat

import (
	"context"
	"time"

	"github.com/jmhorcas/coredead/pkg/cnf"
)

// InstrumentedOracle reports the outcome and duration of every query
// answered by the wrapped Oracle. Failed queries are reported to the
// failure emitter instead.
type InstrumentedOracle struct {
	oracle                Oracle
	successMetricsEmitter func(Outcome, time.Duration)
	failureMetricsEmitter func(time.Duration)
}

var _ Oracle = &InstrumentedOracle{}

func NewInstrumentedOracle(oracle Oracle, successMetricsEmitter func(Outcome, time.Duration), failureMetricsEmitter func(time.Duration)) *InstrumentedOracle {
	return &InstrumentedOracle{
		oracle:                oracle,
		successMetricsEmitter: successMetricsEmitter,
		failureMetricsEmitter: failureMetricsEmitter,
	}
}

func (in *InstrumentedOracle) Query(ctx context.Context, assumptions ...cnf.Lit) (Answer, error) {
	start := time.Now()
	answer, err := in.oracle.Query(ctx, assumptions...)
	if err != nil {
		in.failureMetricsEmitter(time.Since(start))
	} else {
		in.successMetricsEmitter(answer.Outcome, time.Since(start))
	}
	return answer, err
}

func (in *InstrumentedOracle) Name() string {
	return in.oracle.Name()
}

func (in *InstrumentedOracle) Close() error {
	return in.oracle.Close()
}
