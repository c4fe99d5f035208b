// Package http exposes the ledger over a JSON API. Routing is chi based;
// every response body is JSON, errors included.
package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"budget/internal/ledger"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/trace"
	"budget/internal/rates"
	"budget/internal/services"
)

type Server struct {
	http.Server
	service  *services.TransactionService
	settings ledger.SettingsStore
	rates    *rates.Client

	rateLimiter  *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. The rates client may be nil when conversion is disabled.
func NewServer(addr string, service *services.TransactionService, settings ledger.SettingsStore, ratesClient *rates.Client) *Server {
	s := &Server{
		service:     service,
		settings:    settings,
		rates:       ratesClient,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	tracer := trace.NewMiddleware(clientIP)
	limit := s.rateLimiter.Middleware(clientIP, nil)

	r := chi.NewRouter()
	r.Use(tracer.Middleware)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/transactions", s.handleListTransactions)
		r.With(limit).Post("/transactions", s.handleCreateTransaction)
		r.With(limit).Delete("/transactions/{id}", s.handleDeleteTransaction)
		r.Get("/summary", s.handleSummary)
		r.Get("/reports/categories", s.handleCategoryReport)
		r.Get("/settings", s.handleGetSettings)
		r.With(limit).Put("/settings", s.handlePutSettings)
		r.Get("/rates", s.handleRates)
	})

	s.Server = http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// clientIP extracts the client address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if i := strings.IndexByte(ip, ','); i >= 0 {
			ip = ip[:i]
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
