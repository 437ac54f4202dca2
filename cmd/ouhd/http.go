package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// lifecycle is the slice of server.Server the probes read.
type lifecycle interface {
	State() string
	Committed() uint64
}

func newRouter(srv lifecycle) chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	// Live always reports OK while the process is up.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Ready once the host has completed the handshake.
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		state := srv.State()
		status := http.StatusOK
		if state == "Init" {
			status = http.StatusServiceUnavailable
		}
		respondJSON(w, status, map[string]any{"state": state, "height": srv.Committed()})
	})
	return r
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
