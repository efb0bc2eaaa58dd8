package main

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jmhorcas/coredead/pkg/bench"
	"github.com/jmhorcas/coredead/pkg/lib/server"
	"github.com/jmhorcas/coredead/pkg/metrics"
)

var errNoModels = errors.New("no models given, pass model files or --dir")

// timeoutOf converts the --timeout flag, in milliseconds, to a budget.
// Negative values mean no limit.
func timeoutOf(ms int) time.Duration {
	if ms < 0 {
		return -1
	}
	return time.Duration(ms) * time.Millisecond
}

func addTimeoutFlag(cmd *cobra.Command, ms *int) {
	cmd.Flags().IntVar(ms, "timeout", -1, "time budget of each analysis in milliseconds, negative for no limit")
}

// modelPaths resolves the model arguments of a command: the files given
// as arguments, or every model file below --dir.
func modelPaths(dir string, args []string) ([]string, error) {
	if dir == "" {
		if len(args) == 0 {
			return nil, errNoModels
		}
		return args, nil
	}
	paths, err := bench.ModelFiles(dir)
	if err != nil {
		return nil, err
	}
	return append(paths, args...), nil
}

// serveMetrics exposes prometheus metrics on addr until the process
// exits. With --debug the pprof handlers are served too.
func serveMetrics(addr string) error {
	metrics.RegisterAnalysis()
	listenAndServe, err := server.GetListenAndServeFunc(
		server.WithAddress(addr),
		server.WithLogger(log.StandardLogger()),
		server.WithDebug(log.IsLevelEnabled(log.DebugLevel)),
	)
	if err != nil {
		return errors.Wrap(err, "metrics server")
	}
	go func() {
		if err := listenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("metrics serving failed: %v", err)
		}
	}()
	return nil
}
