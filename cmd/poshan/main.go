package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/poshan-labs/poshan/internal/cache"
	"github.com/poshan-labs/poshan/internal/config"
	"github.com/poshan-labs/poshan/internal/corpus"
	"github.com/poshan-labs/poshan/internal/domain"
	logpkg "github.com/poshan-labs/poshan/internal/logger"
	"github.com/poshan-labs/poshan/internal/metrics"
	"github.com/poshan-labs/poshan/internal/ratelimit"
	"github.com/poshan-labs/poshan/internal/repository/embcache"
	"github.com/poshan-labs/poshan/internal/repository/learning"
	chiTransport "github.com/poshan-labs/poshan/internal/transport/chi"
	openaiTransport "github.com/poshan-labs/poshan/internal/transport/openai"
	"github.com/poshan-labs/poshan/internal/usecase/chat"
	"github.com/poshan-labs/poshan/internal/usecase/compose"
	"github.com/poshan-labs/poshan/internal/usecase/health"
	"github.com/poshan-labs/poshan/internal/usecase/retrieval"
	"github.com/poshan-labs/poshan/internal/version"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting poshan API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("knowledge_base", cfg.Corpus.KnowledgeBasePath),
	)

	metrics.Register()

	// Load the knowledge base up front. The server still comes up on a
	// load failure and answers 503 until the corpus is present.
	kb := corpus.New()
	loader := corpus.NewLoader(cfg.Corpus.KnowledgeBasePath, cfg.Corpus.ExtraPath, logger)
	docs, err := loader.Load()
	if err != nil {
		logger.Error("Knowledge base load failed", zap.Error(err))
	} else {
		if cfg.Corpus.EmbeddingsPath != "" {
			if err := corpus.LoadEmbeddings(cfg.Corpus.EmbeddingsPath, docs, logger); err != nil {
				logger.Warn("Embeddings snapshot not loaded", zap.Error(err))
			}
		}
		kb.Replace(docs)
		logger.Info("Knowledge base loaded", zap.Int("documents", kb.Len()))
	}

	caches := cache.NewManager(metrics.CacheTotal, cache.WithTTLs(
		time.Duration(cfg.Cache.SearchTTLSec)*time.Second,
		time.Duration(cfg.Cache.ResponseTTLSec)*time.Second,
		time.Duration(cfg.Cache.ResearchTTLSec)*time.Second,
	))
	boosts := learning.NewBoostStore(cfg.Learning.Path, logger)
	history := learning.NewHistoryStore()
	limiter := ratelimit.New(cfg.RateLimit.PerMinute)

	embedder, completer := buildProviders(cfg, caches, logger)

	engine := retrieval.New(kb, boosts, embedder, logger).
		WithRetry(cfg.Embedding.MaxAttempts,
			time.Duration(cfg.Embedding.RetryDelayMs)*time.Millisecond)
	composer := compose.New(kb, completer, logger)
	chatSvc := chat.New(engine, composer, history, boosts, limiter, kb, caches, logger)
	healthSvc := health.New(kb, embeddingHealthChecker(embedder))

	server := chiTransport.NewServer(chatSvc, healthSvc, cfg.HTTP.StaticDir, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildProviders assembles the embedder chain (OpenAI -> cached) and
// the answer-polishing completer. Without an API key both are nil and
// the service runs lexical-only with templated answers.
func buildProviders(cfg config.Config, caches *cache.Manager, logger *zap.Logger) (domain.Embedder, compose.Completer) {
	if cfg.Embedding.APIKey == "" {
		logger.Info("No embedding API key configured, running lexical-only")
		return nil, nil
	}

	providerCfg := &openaiTransport.Config{
		APIKey:          cfg.Embedding.APIKey,
		BaseURL:         cfg.Embedding.BaseURL,
		Model:           cfg.Embedding.Model,
		Dimensions:      cfg.Embedding.Dimensions,
		CompletionModel: cfg.Embedding.CompletionModel,
		Logger:          logger,
	}

	var embedder domain.Embedder = openaiTransport.NewEmbedder(providerCfg)
	embedder = embcache.New(embedder, caches.Research, logger)

	var completer compose.Completer
	if cfg.Embedding.CompletionModel != "" {
		completer = openaiTransport.NewCompleter(providerCfg)
	}

	logger.Info("Embedding provider configured",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.String("completion_model", cfg.Embedding.CompletionModel),
	)
	return embedder, completer
}

// embeddingHealthChecker adapts the embedder chain to the health
// contract. A nil embedder reports nothing.
func embeddingHealthChecker(embedder domain.Embedder) health.EmbeddingChecker {
	if hc, ok := embedder.(health.EmbeddingChecker); ok {
		return hc
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a
// plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"response": "An unexpected error occurred. Please try again later.",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and
// propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
