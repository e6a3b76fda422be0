package health

import "context"

// CorpusReader reports knowledge base readiness.
type CorpusReader interface {
	Loaded() bool
	Len() int
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
