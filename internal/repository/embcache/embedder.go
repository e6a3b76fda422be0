// Package embcache caches query embeddings so repeated questions skip
// the embedding provider entirely.
package embcache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/poshan-labs/poshan/internal/cache"
	"github.com/poshan-labs/poshan/internal/domain"
)

// store is the consumer interface for the embedding cache.
type store interface {
	Get(key string) (any, bool)
	Put(key string, value any)
}

// CachedEmbedder is a caching decorator around an embedding provider.
type CachedEmbedder struct {
	inner  domain.Embedder
	store  store
	logger *zap.Logger
}

// New creates a caching decorator. The store's own TTL governs how long
// vectors are reused.
func New(inner domain.Embedder, s store, logger *zap.Logger) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, store: s, logger: logger}
}

// Embed returns a cached embedding or calls the inner embedder.
// Cache hits report zero token usage since no real tokens are consumed.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := cache.Key(text, "embedding")

	if value, ok := c.store.Get(key); ok {
		if vec, ok := value.([]float32); ok {
			return domain.EmbeddingResult{Embedding: vec}, nil
		}
		c.logger.Warn("Unexpected cached embedding type, re-embedding",
			zap.String("key", key))
	}

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}
	c.store.Put(key, result.Embedding)
	return result, nil
}

// HealthCheck delegates to the inner provider when it supports checks.
func (c *CachedEmbedder) HealthCheck(ctx context.Context) error {
	if checker, ok := c.inner.(domain.HealthChecker); ok {
		return checker.HealthCheck(ctx)
	}
	return nil
}
