package signals

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

	signalCtx context.Context
	once      sync.Once
)

// Context returns a Context cancelled by the first SIGINT or SIGTERM.
// An analysis seeing it done stops at its next query and reports a
// partial result. A second signal exits with status 1 at once, for
// when a single solver call does not return.
func Context() context.Context {
	once.Do(func() {
		c := make(chan os.Signal, 2)
		signal.Notify(c, shutdownSignals...)
		var cancel context.CancelFunc
		signalCtx, cancel = context.WithCancel(context.Background())
		go func() {
			<-c
			cancel()
			<-c
			os.Exit(1)
		}()
	})
	return signalCtx
}
