package http

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"finances/internal/log"
)

// appMetrics counts API outcomes for /metrics.
type appMetrics struct {
	uptime        time.Time
	registrations int64
	logins        int64
	failedLogins  int64
	creates       int64
	updates       int64
	deletes       int64
}

func newAppMetrics() *appMetrics {
	return &appMetrics{uptime: time.Now()}
}

func (m *appMetrics) registration() { atomic.AddInt64(&m.registrations, 1) }

func (m *appMetrics) login(ok bool) {
	if ok {
		atomic.AddInt64(&m.logins, 1)
		return
	}
	atomic.AddInt64(&m.failedLogins, 1)
}

func (m *appMetrics) mutation(op string) {
	switch op {
	case log.OpCreate:
		atomic.AddInt64(&m.creates, 1)
	case log.OpUpdate:
		atomic.AddInt64(&m.updates, 1)
	case log.OpDelete:
		atomic.AddInt64(&m.deletes, 1)
	}
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.metrics.uptime).Round(time.Second).String(),
	})
}

// handleReady checks that the store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{"store": "ok"}
	if s.store == nil {
		checks["store"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else if err := s.store.Ping(ctx); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err.Error())
		checks["store"] = "failed"
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters in Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	trace := s.trace.GetMetrics()
	sec := s.detector.GetMetrics()

	counter(w, "http_requests_total", "Total number of HTTP requests", trace.TotalRequests)
	counter(w, "http_client_errors_total", "Responses with a 4xx status", trace.ClientErrors)
	counter(w, "http_server_errors_total", "Responses with a 5xx status", trace.ServerErrors)
	gauge(w, "http_response_time_avg_microseconds", "Average response time", float64(trace.AverageResponseTime))

	counter(w, "users_registered_total", "Users registered", atomic.LoadInt64(&s.metrics.registrations))
	counter(w, "logins_total", "Successful logins", atomic.LoadInt64(&s.metrics.logins))
	counter(w, "logins_failed_total", "Rejected logins", atomic.LoadInt64(&s.metrics.failedLogins))

	fmt.Fprintf(w, "# HELP resource_mutations_total Successful resource writes by operation\n")
	fmt.Fprintf(w, "# TYPE resource_mutations_total counter\n")
	fmt.Fprintf(w, "resource_mutations_total{op=\"create\"} %d\n", atomic.LoadInt64(&s.metrics.creates))
	fmt.Fprintf(w, "resource_mutations_total{op=\"update\"} %d\n", atomic.LoadInt64(&s.metrics.updates))
	fmt.Fprintf(w, "resource_mutations_total{op=\"delete\"} %d\n\n", atomic.LoadInt64(&s.metrics.deletes))

	counter(w, "suspicious_requests_total", "Total suspicious requests detected", sec.SuspiciousRequests)
	counter(w, "invalid_ip_attempts_total", "Unparseable client addresses", sec.InvalidIPAttempts)
	gauge(w, "uptime_seconds", "Application uptime in seconds", time.Since(s.metrics.uptime).Seconds())
}

func counter(w http.ResponseWriter, name, help string, v int64) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n\n", name, help, name, name, v)
}

func gauge(w http.ResponseWriter, name, help string, v float64) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n%s %.0f\n\n", name, help, name, name, v)
}
