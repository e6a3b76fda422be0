package retrieval

import (
	"github.com/poshan-labs/poshan/internal/domain"
	"github.com/poshan-labs/poshan/internal/text"
)

// Single-item promotion thresholds.
const (
	promoteMinSimilarity = 0.4
	promoteMinMargin     = 0.1
)

// signalTerms mark a query asking about one item's attributes.
var signalTerms = map[string]struct{}{
	"nutrition": {}, "calories": {}, "ayurveda": {},
	"protein": {}, "carbs": {}, "fats": {},
	"rasa": {}, "virya": {}, "guna": {}, "vipaka": {},
}

// productTerms name specific foods; their presence alone promotes.
var productTerms = map[string]struct{}{
	"toor": {}, "tur": {}, "arhar": {}, "तूर": {}, "अरहर": {},
	"moong": {}, "मूंग": {},
	"urad": {}, "उड़द": {},
	"chana": {}, "चना": {},
	"masoor": {}, "मसूर": {},
}

// PromoteSingle collapses ranked results to the top hit when the query
// clearly targets one item. A post-ranking filter: scores are untouched.
func PromoteSingle(query string, results []domain.ScoredResult) []domain.ScoredResult {
	if len(results) == 0 || !isSingleItemQuery(query, results) {
		return results
	}
	return results[:1]
}

func isSingleItemQuery(query string, results []domain.ScoredResult) bool {
	tokens := text.TokenSet(query)
	for t := range tokens {
		if _, ok := productTerms[t]; ok {
			return true
		}
	}

	top := results[0]
	if top.Similarity < promoteMinSimilarity {
		return false
	}
	if len(results) > 1 && top.Similarity-results[1].Similarity < promoteMinMargin {
		return false
	}

	titleTokens := text.TokenSet(top.Doc.Title)
	sharesTitleToken := false
	for t := range tokens {
		if _, ok := titleTokens[t]; ok {
			sharesTitleToken = true
			break
		}
	}
	hasSignal := false
	for t := range tokens {
		if _, ok := signalTerms[t]; ok {
			hasSignal = true
			break
		}
	}
	return sharesTitleToken || hasSignal
}
