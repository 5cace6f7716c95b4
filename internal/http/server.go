// Package http exposes the ledger over a JSON REST API. The route set
// mirrors the original web app an embedded Telegram web view talks to.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"finguide/internal/config"
	applog "finguide/internal/log"
	"finguide/internal/services"
)

type Server struct {
	http.Server
	svc      *services.Ledger
	logger   *applog.Logger
	origin   string
	currency string
	botName  string

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a
// ready-to-run server.
func NewServer(addr string, svc *services.Ledger, cfg *config.Config, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:           addr,
			Handler:        mux,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		svc:      svc,
		logger:   logger.WithComponent(applog.ComponentHTTP),
		origin:   cfg.AllowedOrigin,
		currency: cfg.Currency,
		botName:  cfg.BotUsername,
	}

	mux.HandleFunc("/", s.withMiddleware(s.handleRoot))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/user_data", s.withMiddleware(s.handleUserData))
	mux.HandleFunc("/api/update_transaction", s.withMiddleware(s.handleUpdateTransaction))
	mux.HandleFunc("/api/update_goal", s.withMiddleware(s.handleUpdateGoal))
	mux.HandleFunc("/api/update_investment", s.withMiddleware(s.handleUpdateInvestment))
	mux.HandleFunc("/api/delete_item", s.withMiddleware(s.handleDeleteItem))
	mux.HandleFunc("/api/export_data", s.withMiddleware(s.handleExportData))
	mux.HandleFunc("/api/monthly_report", s.withMiddleware(s.handleMonthlyReport))
	mux.HandleFunc("/api/get_referral_link", s.withMiddleware(s.handleReferralLink))

	return s
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// withMiddleware adds CORS, security headers and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := r.Context()

		if s.origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.logger.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, duration.Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
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

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "online",
		"service": "FinGuide API",
		"version": "1.0",
	})
}
