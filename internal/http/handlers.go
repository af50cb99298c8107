package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).Round(time.Second).String(),
	})
}

// handleReady reports whether the server can render and hold sessions
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil || s.templates.Lookup("results") == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.sessions == nil || s.calculator == nil {
		checks["sessions"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["sessions"] = map[string]any{
			"active": s.sessions.Size(),
			"status": "ok",
		}
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.GetMetrics().ClientCount,
		"status":         "ok",
	}

	_ = writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

type metric struct {
	name, help, kind string
	value            any
}

// handleMetrics writes counters in Prometheus text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.traceMiddleware.GetMetrics()
	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()

	metrics := []metric{
		{"http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests},
		{"http_server_errors_total", "Responses with a 5xx status", "counter", traceMetrics.ServerErrors},
		{"http_response_time_avg_seconds", "Mean response time", "gauge", fmt.Sprintf("%.6f", traceMetrics.AverageResponseTime.Seconds())},
		{"calculator_sessions_active", "Live calculator sessions", "gauge", s.sessions.Size()},
		{"calculator_sessions_created_total", "Calculator sessions started", "counter", atomic.LoadInt64(&s.appMetrics.sessionsCreated)},
		{"calculator_edits_accepted_total", "Edits that recomputed the payment", "counter", atomic.LoadInt64(&s.appMetrics.editsAccepted)},
		{"calculator_edits_rejected_total", "Edits ignored as non-numeric", "counter", atomic.LoadInt64(&s.appMetrics.editsRejected)},
		{"api_calculations_total", "JSON API calculations", "counter", atomic.LoadInt64(&s.appMetrics.apiCalculations)},
		{"rate_limit_rejections_total", "Requests rejected by the rate limiter", "counter", rateLimitMetrics.Rejected},
		{"rate_limit_clients", "Currently tracked rate limit clients", "gauge", rateLimitMetrics.ClientCount},
		{"suspicious_requests_total", "Suspicious requests detected", "counter", securityMetrics.SuspiciousRequests},
		{"uptime_seconds", "Application uptime in seconds", "gauge", fmt.Sprintf("%.0f", time.Since(s.appMetrics.uptime).Seconds())},
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	for _, m := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", m.name, m.help, m.name, m.kind, m.name, m.value)
	}
}
