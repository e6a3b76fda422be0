package domain

// Document is one retrievable record of the food knowledge corpus.
// The document set is built once at load time and treated as immutable;
// a reload replaces it wholesale.
type Document struct {
	ID       string
	Title    string
	Category string
	Content  string

	// Nutrition maps attribute name to value string, e.g. "protein" -> "24g".
	Nutrition map[string]string
	// Ayurveda maps property name to value string, e.g. "rasa" -> "Sweet".
	Ayurveda map[string]string

	// Source names the dataset the document came from.
	Source string

	// Embedding is optional. All present embeddings share one dimension.
	Embedding []float32

	// Tokens is the derived token list over title+category+content.
	Tokens []string
}

// Strategy tags which scoring path produced a result.
type Strategy string

const (
	// StrategyLexical is keyword scoring with synonym expansion.
	StrategyLexical Strategy = "lexical"
	// StrategyVector is embedding cosine-similarity scoring.
	StrategyVector Strategy = "vector"
)

// Query is a free-text question from one client.
type Query struct {
	Text     string
	Lang     string // "en" or "hi"
	ClientID string
}

// ScoredResult is one ranked retrieval hit. Similarity is normalized to [0,1].
type ScoredResult struct {
	Doc        *Document
	Similarity float64
	Strategy   Strategy
}
