// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package connection

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/afkwarden/internal/middleware"
)

type statusResponse struct {
	Phase                    string     `json:"phase"`
	Connected                bool       `json:"connected"`
	ReconnectAttempts        int        `json:"reconnect_attempts"`
	IsConnecting             bool       `json:"is_connecting"`
	Episode                  string     `json:"episode,omitempty"`
	LastDisconnectTime       *time.Time `json:"last_disconnect_time,omitempty"`
	LastSuccessfulConnection *time.Time `json:"last_successful_connection,omitempty"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// NewHandler returns the afkbot introspection router:
//
//	GET /healthz  supervisor snapshot as JSON, 503 once Stopped
//	GET /metrics  Prometheus exposition
func NewHandler(s *Supervisor) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		st := s.Snapshot()
		resp := statusResponse{
			Phase:                    st.Phase.String(),
			Connected:                st.Phase == PhaseConnected,
			ReconnectAttempts:        st.ReconnectAttempts,
			IsConnecting:             st.IsConnecting,
			Episode:                  st.Episode,
			LastDisconnectTime:       optionalTime(st.LastDisconnectTime),
			LastSuccessfulConnection: optionalTime(st.LastSuccessfulConnection),
		}

		w.Header().Set("Content-Type", "application/json")
		// Stopped never recovers on its own.
		if st.Phase == PhaseStopped {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
