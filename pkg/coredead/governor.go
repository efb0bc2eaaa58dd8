package coredead

import (
	"math"
	"time"

	"k8s.io/utils/clock"
)

// Governor tracks a wall-clock budget started when it was created. It
// never interrupts anything; callers ask it between steps.
type Governor struct {
	clock  clock.PassiveClock
	budget time.Duration
	start  time.Time
}

// NewGovernor starts a budget on c. A negative budget never expires and
// a zero budget is expired from the start.
func NewGovernor(c clock.PassiveClock, budget time.Duration) *Governor {
	return &Governor{
		clock:  c,
		budget: budget,
		start:  c.Now(),
	}
}

func (g *Governor) Unlimited() bool {
	return g.budget < 0
}

func (g *Governor) Elapsed() time.Duration {
	return g.clock.Since(g.start)
}

// Remaining is never negative. Unlimited governors report the largest
// representable duration.
func (g *Governor) Remaining() time.Duration {
	if g.Unlimited() {
		return time.Duration(math.MaxInt64)
	}
	if left := g.budget - g.Elapsed(); left > 0 {
		return left
	}
	return 0
}

func (g *Governor) Expired() bool {
	return !g.Unlimited() && g.Remaining() == 0
}
