// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package logrouter

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/afkwarden/internal/middleware"
	"github.com/tomtom215/afkwarden/internal/models"
	"github.com/tomtom215/afkwarden/internal/validation"
)

// maxPayloadBytes bounds a POST /log body.
const maxPayloadBytes = 64 << 10

// HandlerConfig configures the ingest HTTP handler.
type HandlerConfig struct {
	// RateLimitReqs per RateLimitWindow per client IP. Zero disables the limit.
	RateLimitReqs   int
	RateLimitWindow time.Duration
}

// NewHandler returns the ingest router:
//
//	POST /log      {"message": "...", "type": "INFO"}  -> 200 "OK" | 400 "Bad Request"
//	GET  /healthz  sink readiness
//	GET  /metrics  Prometheus exposition
//
// Anything else is a bare 404.
func NewHandler(router *Router, cfg HandlerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	if cfg.RateLimitReqs > 0 {
		window := cfg.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, window))
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Post("/log", logHandler(router))
	r.Get("/healthz", healthHandler(router))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}

func logHandler(router *Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
		if err == nil {
			var ev models.LogEvent
			if err = json.Unmarshal(body, &ev); err == nil {
				ev = ev.Normalized()
				if err = validation.ValidateStruct(&ev); err == nil {
					router.Log(ev)
					_, _ = io.WriteString(w, "OK")
					return
				}
			}
		}

		router.Fallback(models.LogEvent{
			Message: "Invalid log payload: " + err.Error(),
			Type:    models.LogError,
		})
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "Bad Request")
	}
}

type healthResponse struct {
	Status    string `json:"status"`
	SinkReady bool   `json:"sink_ready"`
}

// healthHandler always answers 200: the fallback path keeps ingest working
// while the sink is down, so readiness is reported, not enforced.
func healthHandler(router *Router) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := healthResponse{Status: "ok", SinkReady: router.SinkReady()}
		if !resp.SinkReady {
			resp.Status = "degraded"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
