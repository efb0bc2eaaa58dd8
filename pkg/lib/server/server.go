package server

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/jmhorcas/coredead/pkg/lib/profile"
)

// Option applies a configuration option to the given config.
type Option func(s *serverConfig)

// GetListenAndServeFunc returns a func that serves /healthz, /metrics
// and, in debug mode, the pprof handlers.
func GetListenAndServeFunc(options ...Option) (func() error, error) {
	sc := defaultServerConfig()
	sc.apply(options)

	return sc.getListenAndServeFunc()
}

func WithAddress(addr string) Option {
	return func(sc *serverConfig) {
		sc.addr = addr
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(sc *serverConfig) {
		sc.logger = logger
	}
}

// WithDebug enables the pprof handlers.
func WithDebug(debug bool) Option {
	return func(sc *serverConfig) {
		sc.debug = debug
	}
}

type serverConfig struct {
	logger logrus.FieldLogger
	addr   string
	debug  bool
}

func (sc *serverConfig) apply(options []Option) {
	for _, o := range options {
		o(sc)
	}
}

func defaultServerConfig() serverConfig {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return serverConfig{
		logger: l,
		addr:   ":8080",
		debug:  false,
	}
}

func (sc serverConfig) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())
	if sc.debug {
		profile.RegisterHandlers(mux)
	}
	return mux
}

func (sc serverConfig) getListenAndServeFunc() (func() error, error) {
	if sc.addr == "" {
		return nil, errors.New("no address to serve metrics on")
	}

	s := http.Server{
		Handler: sc.handler(),
		Addr:    sc.addr,
	}
	return func() error {
		sc.logger.WithField("addr", sc.addr).Info("serving metrics")
		return s.ListenAndServe()
	}, nil
}
