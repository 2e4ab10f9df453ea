package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/devices", s.handleListDevices)
		r.Get("/schema", s.handleGetSchema)

		// The bridge runs on a trusted home LAN; sessions attach without
		// credentials, same as the zigbee2mqtt frontend it sits beside.
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"devices":  s.registry.Count(),
		"sessions": s.hub.ClientCount(),
	})
}

// handleListDevices returns the current device roster.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Snapshot())
}

// handleGetSchema returns the loaded capability model.
func (s *Server) handleGetSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.schema.Schema())
}
