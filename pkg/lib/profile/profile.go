package profile

import (
	"net/http"
	"net/http/pprof"
)

// RegisterHandlers registers the pprof index, cmdline, CPU profile,
// symbol and trace handlers with the given ServeMux. The named runtime
// profiles (heap, goroutine, ...) are served below the index.
func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}
