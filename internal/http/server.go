// Package http exposes the tracker as a JSON API. Every /api route is
// scoped to the caller identified by the X-User-ID header; records of
// other users are invisible, including on delete.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/services"
)

type ctxKey string

const (
	ctxKeyOwner     ctxKey = "owner"
	ctxKeyRequestID ctxKey = "request_id"

	ownerHeader = "X-User-ID"
)

type Server struct {
	http.Server
	tracker      *services.Tracker
	rateLimiter  *rateLimiter
	metrics      *securityMetrics
	shutdownOnce sync.Once
}

// NewServer configures all routes and returns a ready-to-run server.
func NewServer(addr string, tracker *services.Tracker) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		tracker:     tracker,
		rateLimiter: newRateLimiter(defaultWriteLimit, defaultWriteWindow),
		metrics:     &securityMetrics{},
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/incomes", s.api(s.handleCreateIncome))
	mux.HandleFunc("GET /api/incomes", s.api(s.handleListIncomes))
	mux.HandleFunc("DELETE /api/incomes/{id}", s.api(s.handleDeleteIncome))

	mux.HandleFunc("POST /api/expenses", s.api(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses", s.api(s.handleListExpenses))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.api(s.handleDeleteExpense))
	mux.HandleFunc("POST /api/expenses/voice", s.api(s.handleCreateVoiceExpense))

	mux.HandleFunc("PUT /api/budgets", s.api(s.handleSetBudget))
	mux.HandleFunc("GET /api/budgets/status", s.api(s.handleBudgetStatus))
	mux.HandleFunc("GET /api/budgets/alerts", s.api(s.handleBudgetAlerts))

	mux.HandleFunc("GET /api/summary", s.api(s.handleSummary))
	mux.HandleFunc("GET /api/recommendations", s.api(s.handleRecommendations))

	return s
}

// api wraps a handler with request logging, security headers, write
// rate limiting and owner authentication.
func (s *Server) api(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			slog.WarnContext(ctx, "Suspicious request",
				"request_id", requestID,
				"client_ip", clientIP,
				"url", r.URL.String())
		}

		if isWrite(r.Method) && !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		owner := sanitizeInput(r.Header.Get(ownerHeader))
		if owner == "" {
			writeError(w, http.StatusUnauthorized, "missing "+ownerHeader+" header")
			return
		}
		r = r.WithContext(context.WithValue(r.Context(), ctxKeyOwner, owner))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// owner returns the authenticated user id set by the api middleware.
func owner(r *http.Request) string {
	if v, ok := r.Context().Value(ctxKeyOwner).(string); ok {
		return v
	}
	return ""
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the server and its background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
