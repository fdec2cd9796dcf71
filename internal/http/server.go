package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"finances/internal/core"
	"finances/internal/log"
	"finances/internal/middleware/security"
	"finances/internal/middleware/trace"
	"finances/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the listener settings.
type Config struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

type Server struct {
	http.Server

	store    Pinger
	services *services.Registry
	logger   *log.Logger

	trace    *trace.Middleware
	detector *security.Detector
	headers  *security.HeadersMiddleware
	metrics  *appMetrics

	allowedOrigins map[string]bool
	allowAnyOrigin bool

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(cfg Config, store Pinger, svc *services.Registry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	detector := security.NewDetector(logger)
	s := &Server{
		store:          store,
		services:       svc,
		logger:         logger,
		detector:       detector,
		trace:          trace.NewMiddleware(logger, detector.ExtractClientIP),
		headers:        security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		metrics:        newAppMetrics(),
		allowedOrigins: make(map[string]bool),
	}
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			s.allowAnyOrigin = true
			continue
		}
		s.allowedOrigins[strings.TrimRight(o, "/")] = true
	}

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.middleware(s.routes()),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = NotFoundError("not found").Write(w)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = MethodNotAllowedError().Write(w)
	})

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.requireAuth)

	svc := s.services
	mountResource[core.User](protected, svc.Users, s.metrics)
	mountResource[core.Account](protected, svc.Accounts, s.metrics)
	mountResource[core.Category](protected, svc.Categories, s.metrics)
	mountResource[core.Fund](protected, svc.Funds, s.metrics)
	mountResource[core.Year](protected, svc.Years, s.metrics)
	mountResource[core.MonthlyRecord](protected, svc.MonthlyRecords, s.metrics)
	mountResource[core.MonthlyBalance](protected, svc.MonthlyBalances, s.metrics)
	mountResource[core.CategoryAllocation](protected, svc.CategoryAllocations, s.metrics)
	mountResource[core.FundContribution](protected, svc.FundContributions, s.metrics)

	return r
}

// middleware wraps the router outermost first: CORS answers preflights
// before routing, tracing sees every response.
func (s *Server) middleware(next http.Handler) http.Handler {
	h := s.cors(next)
	h = s.headers.Middleware(h)
	h = s.detector.Middleware(h)
	h = log.RequestIDMiddleware(trace.RequestID)(h)
	h = log.Middleware(s.logger)(h)
	return s.trace.Middleware(h)
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (s.allowAnyOrigin || s.allowedOrigins[origin]) {
			h := w.Header()
			if s.allowAnyOrigin {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Expose-Headers", "X-Request-ID")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
		err = s.Server.Shutdown(ctx)
	})
	return err
}
