package retrieval

import (
	"sort"
	"strings"

	"github.com/poshan-labs/poshan/internal/domain"
	"github.com/poshan-labs/poshan/internal/text"
)

// Lexical scoring weights.
const (
	titleWeight      = 3.0
	categoryWeight   = 2.0
	occurrenceWeight = 0.5

	// scoreScale maps a raw lexical score onto the [0,1] similarity range.
	scoreScale = 10.0
)

// ScoreLexical ranks documents by keyword scoring with synonym expansion
// and learned boosts. Only documents with score strictly above threshold
// are kept, so zero-score documents never appear.
func (e *Engine) ScoreLexical(query string, topK int, threshold float64) []domain.ScoredResult {
	terms := text.Expand(text.Tokenize(query))

	docs := e.corpus.Docs()
	results := make([]domain.ScoredResult, 0, topK)
	for _, doc := range docs {
		score := e.lexicalScore(doc, terms)
		if score > threshold {
			results = append(results, domain.ScoredResult{
				Doc:        doc,
				Similarity: min(score/scoreScale, 1.0),
				Strategy:   domain.StrategyLexical,
			})
		}
	}

	sortStable(results)
	return truncate(results, topK)
}

// lexicalScore sums per-term contributions: title and category hits weigh
// most, every occurrence across title+content+category adds a little, and
// previously observed query terms add their learned weight.
func (e *Engine) lexicalScore(doc *domain.Document, terms []string) float64 {
	title := strings.ToLower(doc.Title)
	category := strings.ToLower(doc.Category)
	full := strings.ToLower(doc.Title + " " + doc.Content + " " + doc.Category)

	score := 0.0
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(title, term) {
			score += titleWeight
		}
		if strings.Contains(category, term) {
			score += categoryWeight
		}
		score += float64(strings.Count(full, term)) * occurrenceWeight
		if e.boost != nil {
			score += e.boost.Boost(term)
		}
	}
	return score
}

// sortStable orders results by descending similarity, keeping corpus order
// for ties.
func sortStable(results []domain.ScoredResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
}

func truncate(results []domain.ScoredResult, topK int) []domain.ScoredResult {
	if topK > 0 && len(results) > topK {
		return results[:topK]
	}
	return results
}
