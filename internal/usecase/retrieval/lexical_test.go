package retrieval

import (
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/poshan-labs/poshan/internal/domain"
)

func lexicalTestEngine(docs []*domain.Document, boost staticBoost) *Engine {
	return New(&staticCorpus{docs: docs}, boost, nil, zap.NewNop())
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScoreLexical_Weights(t *testing.T) {
	docs := []*domain.Document{{
		ID:       "quinoa",
		Title:    "Quinoa",
		Category: "Grains",
		Content:  "Quinoa facts.",
	}}
	e := lexicalTestEngine(docs, nil)

	t.Run("title hit", func(t *testing.T) {
		// 3.0 title + 0.5 per occurrence (title + content) = 4.0
		results := e.ScoreLexical("quinoa", 5, 0)
		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
		if !almostEqual(results[0].Similarity, 0.4) {
			t.Errorf("similarity = %v, want 0.4", results[0].Similarity)
		}
	})

	t.Run("category hit", func(t *testing.T) {
		// 2.0 category + 0.5 one occurrence = 2.5
		results := e.ScoreLexical("grains", 5, 0)
		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
		if !almostEqual(results[0].Similarity, 0.25) {
			t.Errorf("similarity = %v, want 0.25", results[0].Similarity)
		}
	})

	t.Run("no match excluded", func(t *testing.T) {
		if results := e.ScoreLexical("rice", 5, 0); len(results) != 0 {
			t.Fatalf("zero-score document must be excluded, got %v", results)
		}
	})
}

func TestScoreLexical_LearnedBoost(t *testing.T) {
	docs := []*domain.Document{{ID: "quinoa", Title: "Quinoa", Category: "Grains", Content: "Quinoa facts."}}

	plain := lexicalTestEngine(docs, nil).ScoreLexical("quinoa", 5, 0)
	boosted := lexicalTestEngine(docs, staticBoost{"quinoa": 0.5}).ScoreLexical("quinoa", 5, 0)

	if len(plain) != 1 || len(boosted) != 1 {
		t.Fatal("expected one result from each engine")
	}
	if !almostEqual(boosted[0].Similarity-plain[0].Similarity, 0.05) {
		t.Errorf("boost of 0.5 must add 0.05 similarity, got delta %v",
			boosted[0].Similarity-plain[0].Similarity)
	}
}

func TestScoreLexical_SynonymExpansion(t *testing.T) {
	docs := []*domain.Document{{ID: "dal", Title: "Dal"}}
	e := lexicalTestEngine(docs, nil)

	// "pulse" does not appear in the document; its synonym "dal" does.
	results := e.ScoreLexical("pulse", 5, 0)
	if len(results) != 1 {
		t.Fatalf("expected synonym expansion to match, got %d results", len(results))
	}
}

func TestScoreLexical_StrictThreshold(t *testing.T) {
	docs := []*domain.Document{{ID: "quinoa", Title: "Quinoa"}}
	e := lexicalTestEngine(docs, nil)

	// Title hit + one occurrence = 3.5. A threshold equal to the score
	// must exclude the document.
	if results := e.ScoreLexical("quinoa", 5, 3.5); len(results) != 0 {
		t.Fatalf("score equal to threshold must be excluded, got %v", results)
	}
	if results := e.ScoreLexical("quinoa", 5, 3.4); len(results) != 1 {
		t.Fatal("score above threshold must be kept")
	}
}

func TestScoreLexical_SimilarityClamped(t *testing.T) {
	docs := []*domain.Document{{
		ID:      "dal",
		Title:   "Dal",
		Content: "dal dal dal dal dal dal dal dal dal dal dal dal dal dal dal dal dal dal dal dal",
	}}
	e := lexicalTestEngine(docs, nil)

	results := e.ScoreLexical("dal", 5, 0)
	if len(results) != 1 {
		t.Fatal("expected 1 result")
	}
	if results[0].Similarity != 1.0 {
		t.Errorf("similarity must clamp at 1.0, got %v", results[0].Similarity)
	}
}

func TestScoreLexical_StableTieOrder(t *testing.T) {
	docs := []*domain.Document{
		{ID: "first", Title: "Ragi"},
		{ID: "second", Title: "Ragi"},
	}
	e := lexicalTestEngine(docs, nil)

	results := e.ScoreLexical("ragi", 5, 0)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Doc.ID != "first" || results[1].Doc.ID != "second" {
		t.Errorf("ties must keep corpus order, got %s, %s",
			results[0].Doc.ID, results[1].Doc.ID)
	}
}

func TestScoreLexical_TopK(t *testing.T) {
	docs := []*domain.Document{
		{ID: "a", Title: "Dal"},
		{ID: "b", Title: "Dal"},
		{ID: "c", Title: "Dal"},
	}
	e := lexicalTestEngine(docs, nil)

	if results := e.ScoreLexical("dal", 2, 0); len(results) != 2 {
		t.Fatalf("expected topK=2 results, got %d", len(results))
	}
}

func TestScoreLexical_TypicalQuery(t *testing.T) {
	docs := []*domain.Document{{
		ID:       "moong-dal",
		Title:    "Moong Dal",
		Category: "Lentils",
		Content:  "Moong dal is a light, easily digestible lentil rich in protein.",
	}}
	e := lexicalTestEngine(docs, nil)

	results := e.ScoreLexical("moong dal nutrition", 5, 0)
	if len(results) != 1 {
		t.Fatal("expected a match")
	}
	if results[0].Similarity < 0.4 {
		t.Errorf("strong match should score at least 0.4, got %v", results[0].Similarity)
	}
}
