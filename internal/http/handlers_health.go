package http

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: now.UTC().Format(time.RFC3339),
		Uptime:    now.Sub(s.startedAt).String(),
	})
}

// handleReady reports ready only when the database answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{"database": "ok"}

	switch {
	case s.db == nil:
		checks["database"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	default:
		if err := s.db.Ping(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", "check", "database", "error", err)
			checks["database"] = "failed"
			status, code = "not_ready", http.StatusServiceUnavailable
		}
	}
	checks["rate_limiter_clients"] = strconv.Itoa(s.rateLimiter.ActiveClients())
	metrics := s.tracer.GetMetrics()
	checks["requests_total"] = strconv.FormatInt(metrics.TotalRequests, 10)
	checks["server_errors"] = strconv.FormatInt(metrics.ServerErrors, 10)

	writeJSON(w, code, healthResponse{
		Status:    status,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}
