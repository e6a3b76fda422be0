package compose

import (
	"context"

	"github.com/poshan-labs/poshan/internal/domain"
)

// CorpusReader supplies the documents the diet planner draws meals from.
type CorpusReader interface {
	Docs() []*domain.Document
}

// Completer optionally rewrites a templated answer into conversational
// prose. The service works without one.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
