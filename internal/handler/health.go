package handler

import (
	"context"
	"net/http"
	"time"
)

// Health handles GET /healthz. It pings the database with a short timeout
// so a wedged pool turns the instance unhealthy instead of hanging probes.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "unavailable", "database unreachable")
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
