package domain

import "errors"

var (
	// ErrInvalidQuery signals an empty or malformed request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrNotReady signals that the corpus has not been loaded yet.
	ErrNotReady = errors.New("knowledge base not ready")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding quota.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCompletionProviderError signals a completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
)
