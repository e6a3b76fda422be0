package retrieval

import (
	"context"

	"github.com/poshan-labs/poshan/internal/domain"
)

// CorpusReader exposes the immutable document set to score against.
type CorpusReader interface {
	Docs() []*domain.Document
}

// BoostReader reads learned term weights feeding the lexical strategy.
type BoostReader interface {
	Boost(term string) float64
}

// Embedder vectorizes query text. May be absent (nil) when no provider is
// configured, disabling the vector strategy.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
