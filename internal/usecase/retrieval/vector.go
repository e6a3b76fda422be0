package retrieval

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/poshan-labs/poshan/internal/domain"
	"github.com/poshan-labs/poshan/internal/text"
)

// titleMatchBonus is added to the cosine similarity when any raw query
// term appears in the document title.
const titleMatchBonus = 0.2

// Cosine computes the cosine similarity of two vectors: dot(a,b)/(‖a‖‖b‖).
// Returns 0 when either magnitude is zero or lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ScoreVector embeds the query and ranks documents by cosine similarity.
// Documents without an embedding are skipped, never substituted with
// guessed scores. Results below threshold are dropped.
func (e *Engine) ScoreVector(ctx context.Context, query string, topK int, threshold float64) ([]domain.ScoredResult, error) {
	if e.embed == nil {
		return nil, fmt.Errorf("vector strategy: %w", domain.ErrEmbeddingProviderError)
	}

	queryVec, err := e.embedWithRetry(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rawTerms := text.Tokenize(query)

	results := make([]domain.ScoredResult, 0, topK)
	for _, doc := range e.corpus.Docs() {
		if len(doc.Embedding) == 0 {
			continue
		}
		score := Cosine(queryVec, doc.Embedding)
		if titleContainsAny(doc.Title, rawTerms) {
			score += titleMatchBonus
		}
		if score < threshold {
			continue
		}
		results = append(results, domain.ScoredResult{
			Doc:        doc,
			Similarity: clamp01(score),
			Strategy:   domain.StrategyVector,
		})
	}

	sortStable(results)
	return truncate(results, topK), nil
}

func titleContainsAny(title string, terms []string) bool {
	title = strings.ToLower(title)
	for _, t := range terms {
		if t != "" && strings.Contains(title, t) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
