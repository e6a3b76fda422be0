package chat

import (
	"context"

	"github.com/poshan-labs/poshan/internal/domain"
)

// Searcher ranks corpus documents against a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) []domain.ScoredResult
}

// Composer renders ranked documents into the final answer text.
type Composer interface {
	Answer(ctx context.Context, query string, results []domain.ScoredResult, lang string) string
}

// HistoryStore tracks per-client conversation turns.
type HistoryStore interface {
	Append(client, query, response string)
	Context(client string) string
}

// BoostObserver records query terms for learned relevance boosts.
type BoostObserver interface {
	Observe(terms []string)
}

// Limiter admits or rejects a request for a client.
type Limiter interface {
	Allow(client string) bool
}

// ReadinessReader reports whether the corpus has been loaded.
type ReadinessReader interface {
	Loaded() bool
}

// Source describes one document backing an answer.
type Source struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Source     string `json:"source"`
	Strategy   string `json:"strategy"`
	Similarity string `json:"similarity"`
}

// Reply is the full chat answer returned to the client.
type Reply struct {
	Response       string   `json:"response"`
	Sources        []Source `json:"sources"`
	ProcessingTime string   `json:"processing_time"`
}
