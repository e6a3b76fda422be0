// Package chi exposes the HTTP API: the chat endpoint, health and
// metrics, and the static frontend.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/poshan-labs/poshan/internal/domain"
	logpkg "github.com/poshan-labs/poshan/internal/logger"
	"github.com/poshan-labs/poshan/internal/metrics"
	chatuc "github.com/poshan-labs/poshan/internal/usecase/chat"
	healthuc "github.com/poshan-labs/poshan/internal/usecase/health"
)

// User-facing error messages. Kept fixed so internals never leak.
const (
	msgEmptyMessage   = "Please enter a message."
	msgInvalidRequest = "Invalid request format. Please send JSON data."
	msgRateLimited    = "Too many requests. Please wait a moment before trying again."
	msgNotReady       = "The knowledge base is still loading. Please try again shortly."
	msgInternal       = "I'm having trouble generating a response. Please try again."
)

// ChatService handles one chat turn.
type ChatService interface {
	Handle(ctx context.Context, query domain.Query) (chatuc.Reply, error)
}

// HealthService reports aggregated component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server is the HTTP API server.
type Server struct {
	chat          ChatService
	health        HealthService
	staticDir     string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. staticDir may be empty to
// disable frontend serving.
func NewServer(chat ChatService, health HealthService, staticDir string, logger *zap.Logger) *Server {
	s := &Server{
		chat:      chat,
		health:    health,
		staticDir: staticDir,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, msgEmptyMessage, "invalid"),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, msgRateLimited, "rate_limited"),
		sentinelHandler(domain.ErrNotReady, http.StatusServiceUnavailable, msgNotReady, "not_ready"),
	}
	return s
}

// Register mounts all routes on r. Middleware must be installed on r
// before calling.
func (s *Server) Register(r chi.Router) {
	r.Post("/api/chat", s.handleChat)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	if s.staticDir != "" {
		r.Get("/", s.handleIndex)
		r.Get("/*", s.handleStatic)
	}
}

type chatRequest struct {
	Message string `json:"message"`
	Lang    string `json:"lang"`
}

// errorReply mirrors the chat response shape so clients render failures
// the same way as answers.
type errorReply struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

// handleChat handles POST /api/chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logpkg.FromContext(r.Context()).Debug("Malformed chat request", zap.Error(err))
		metrics.ChatRequestsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	query := domain.Query{
		Text:     req.Message,
		Lang:     normalizeLang(req.Lang),
		ClientID: clientID(r),
	}

	reply, err := s.chat.Handle(r.Context(), query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	metrics.ChatRequestsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, reply)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status":    report.Status,
		"documents": report.Documents,
		"checks":    report.Checks,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}

// handleStatic serves frontend assets, falling back to index.html so
// client-side routes resolve after a reload.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	if strings.Contains(name, "..") {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.staticDir, filepath.FromSlash(name))
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		s.handleIndex(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// handleDomainError maps sentinel errors onto fixed client messages,
// everything else onto a generic 500. Expected failures are logged with
// the request-scoped logger so the entry carries the request id.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logpkg.FromContext(r.Context()).Warn("Chat request failed", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("Internal error", zap.Error(err))
	metrics.ChatRequestsTotal.WithLabelValues("error").Inc()
	writeError(w, http.StatusInternalServerError, msgInternal)
}

func sentinelHandler(sentinel error, status int, message, metric string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		metrics.ChatRequestsTotal.WithLabelValues(metric).Inc()
		writeError(w, status, message)
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorReply{Response: message, Sources: []string{}})
}

// normalizeLang reduces the requested language to a two-letter code,
// defaulting to English.
func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if len(lang) > 2 {
		lang = lang[:2]
	}
	if lang == "" {
		return "en"
	}
	return lang
}

// clientID identifies the caller for rate limiting and conversation
// history. Remote address without the port.
func clientID(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
