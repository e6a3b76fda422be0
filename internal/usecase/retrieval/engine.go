// Package retrieval scores and ranks corpus documents against free-text
// queries. One engine exposes both scoring strategies; the vector path is
// enabled by supplying an embedder at construction and degrades to lexical
// scoring when the provider fails.
package retrieval

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/poshan-labs/poshan/internal/domain"
)

// Default thresholds per strategy.
const (
	DefaultLexicalThreshold = 0.0
	DefaultVectorThreshold  = 0.5

	defaultMaxAttempts = 3
	defaultRetryDelay  = 200 * time.Millisecond
)

// Engine is the retrieval engine. Construct once and share.
type Engine struct {
	corpus CorpusReader
	boost  BoostReader
	embed  Embedder // nil disables the vector strategy

	maxAttempts int
	retryDelay  time.Duration
	sleep       func(time.Duration)
	logger      *zap.Logger
}

// New creates an engine. embed may be nil for a lexical-only engine.
func New(corpus CorpusReader, boost BoostReader, embed Embedder, logger *zap.Logger) *Engine {
	return &Engine{
		corpus:      corpus,
		boost:       boost,
		embed:       embed,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		sleep:       time.Sleep,
		logger:      logger,
	}
}

// WithRetry overrides the external-call retry policy.
func (e *Engine) WithRetry(attempts int, delay time.Duration) *Engine {
	if attempts > 0 {
		e.maxAttempts = attempts
	}
	if delay >= 0 {
		e.retryDelay = delay
	}
	return e
}

// Search ranks the corpus against query and returns at most topK results in
// descending similarity, ties kept in corpus order. The vector strategy is
// attempted first when an embedder is configured, with per-strategy default
// thresholds; on provider failure the engine transparently falls back to
// lexical scoring. Callers see only the final list with its strategy tags.
func (e *Engine) Search(ctx context.Context, query string, topK int) []domain.ScoredResult {
	if e.embed != nil {
		results, err := e.ScoreVector(ctx, query, topK, DefaultVectorThreshold)
		if err == nil {
			return results
		}
		e.logger.Warn("Vector scoring unavailable, falling back to lexical",
			zap.String("query", query), zap.Error(err))
	}
	return e.ScoreLexical(query, topK, DefaultLexicalThreshold)
}

// embedWithRetry calls the embedder up to maxAttempts times with a fixed
// short delay between attempts.
func (e *Engine) embedWithRetry(ctx context.Context, query string) ([]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		result, err := e.embed.Embed(ctx, query)
		if err == nil {
			return result.Embedding, nil
		}
		lastErr = err
		e.logger.Debug("Query embedding attempt failed",
			zap.Int("attempt", attempt), zap.Error(err))
		if attempt < e.maxAttempts {
			e.sleep(e.retryDelay)
		}
	}
	return nil, lastErr
}
