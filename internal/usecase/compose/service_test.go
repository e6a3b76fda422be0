package compose

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/poshan-labs/poshan/internal/domain"
)

type fixedCorpus struct {
	docs []*domain.Document
}

func (c *fixedCorpus) Docs() []*domain.Document { return c.docs }

type stubCompleter struct {
	answer string
	err    error
}

func (s *stubCompleter) Complete(context.Context, string, string) (string, error) {
	return s.answer, s.err
}

func moongDoc() *domain.Document {
	return &domain.Document{
		ID:       "moong-dal",
		Title:    "Moong Dal",
		Category: "Lentils",
		Content:  "Moong dal is light and easy to digest.",
		Nutrition: map[string]string{
			"calories": "347", "protein": "24g",
		},
		Ayurveda: map[string]string{
			"rasa": "Madhura", "virya": "Shita",
		},
		Source: "knowledge_base",
	}
}

func result(doc *domain.Document, sim float64) domain.ScoredResult {
	return domain.ScoredResult{Doc: doc, Similarity: sim, Strategy: domain.StrategyLexical}
}

func newTestService(docs ...*domain.Document) *Service {
	return New(&fixedCorpus{docs: docs}, nil, zap.NewNop())
}

func TestAnswer_StructuredSingleDoc(t *testing.T) {
	s := newTestService()
	got := s.Answer(context.Background(), "moong dal nutrition",
		[]domain.ScoredResult{result(moongDoc(), 0.9)}, "en")

	for _, want := range []string{
		"Question: moong dal nutrition",
		"Moong Dal (knowledge_base)",
		"Nutritional Information (per 100g):",
		"- Calories: 347",
		"- Protein: 24g",
		"Ayurvedic Properties:",
		"- Rasa: Madhura",
		"Moong dal is light and easy to digest.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("answer missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "General Insights") {
		t.Error("single-document answer must not carry general sections")
	}
}

func TestAnswer_GeneralSectionsMultiDoc(t *testing.T) {
	s := newTestService()
	other := &domain.Document{Title: "Toor Dal", Content: "Toor dal facts."}
	got := s.Answer(context.Background(), "dal protein",
		[]domain.ScoredResult{result(moongDoc(), 0.9), result(other, 0.5)}, "en")

	if !strings.Contains(got, "General Insights") {
		t.Fatalf("multi-document answer must carry general sections:\n%s", got)
	}
	if !strings.Contains(got, "Lentils are rich in plant protein") {
		t.Error("expected lentil guidance for a dal query")
	}
}

func TestAnswer_DedupeByTitle(t *testing.T) {
	s := newTestService()
	got := s.Answer(context.Background(), "dal facts", []domain.ScoredResult{
		result(moongDoc(), 0.9),
		result(moongDoc(), 0.7),
	}, "en")

	if n := strings.Count(got, "Moong Dal (knowledge_base)"); n != 1 {
		t.Errorf("duplicate titles must collapse to one, got %d headers", n)
	}
}

func TestAnswer_SnippetTruncation(t *testing.T) {
	s := newTestService()
	doc := &domain.Document{
		Title:   "Rice",
		Content: strings.Repeat("a", 700),
	}
	got := s.Answer(context.Background(), "rice", []domain.ScoredResult{result(doc, 0.8)}, "en")

	if !strings.Contains(got, strings.Repeat("a", 600)+"...") {
		t.Error("long content must be truncated with an ellipsis")
	}
	if strings.Contains(got, strings.Repeat("a", 601)) {
		t.Error("snippet must not exceed the limit")
	}
}

func TestAnswer_DevanagariSnippetRuneTruncation(t *testing.T) {
	s := newTestService()
	doc := &domain.Document{
		Title:   "मूंग दाल",
		Content: strings.Repeat("मूंगदाल", 100), // 700 runes, 3 bytes each
	}
	got := s.Answer(context.Background(), "मूंग दाल", []domain.ScoredResult{result(doc, 0.8)}, "hi")

	if !utf8.ValidString(got) {
		t.Fatalf("answer contains invalid UTF-8: %q", got)
	}
	want := string([]rune(doc.Content)[:600]) + "..."
	if !strings.Contains(got, want) {
		t.Error("snippet not cut at 600 runes")
	}
}

func TestAnswer_HindiSkipsLatinSnippet(t *testing.T) {
	s := newTestService()
	doc := &domain.Document{Title: "Rice", Content: "Latin only content."}
	got := s.Answer(context.Background(), "rice", []domain.ScoredResult{result(doc, 0.8)}, "hi")

	if strings.Contains(got, "Latin only content.") {
		t.Error("hindi answers must suppress latin-only snippets")
	}
	if !strings.Contains(got, "प्रश्न: rice") {
		t.Errorf("expected hindi question label:\n%s", got)
	}
}

func TestAnswer_RoutesToDietPlan(t *testing.T) {
	s := newTestService(
		&domain.Document{Title: "Brown Rice", Category: "Cereals", Nutrition: map[string]string{"calories": "360"}},
		&domain.Document{Title: "Moong Dal", Category: "Pulses", Nutrition: map[string]string{"calories": "347"}},
	)
	got := s.Answer(context.Background(), "diet plan 2200 kcal", nil, "en")

	if !strings.Contains(got, "Diet Plan (~2200 kcal)") {
		t.Fatalf("expected a diet plan header:\n%s", got)
	}
	for _, meal := range []string{"Breakfast", "Lunch", "Snack", "Dinner"} {
		if !strings.Contains(got, meal) {
			t.Errorf("plan missing %s section", meal)
		}
	}
}

func TestAnswer_RoutesToSmalltalk(t *testing.T) {
	s := newTestService()

	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"greeting", "hello there", "Hello! I can help"},
		{"thanks", "thanks a lot", "You're welcome!"},
		{"help", "what can you do", "I can help you with"},
		{"fallback", "xyzzy", "I couldn't find a specific match"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Answer(context.Background(), tc.query, nil, "en")
			if !strings.Contains(got, tc.want) {
				t.Errorf("query %q: got %q, want substring %q", tc.query, got, tc.want)
			}
		})
	}
}

func TestAnswer_CompleterPolish(t *testing.T) {
	t.Run("success replaces template", func(t *testing.T) {
		s := New(&fixedCorpus{}, &stubCompleter{answer: "Polished answer."}, zap.NewNop())
		got := s.Answer(context.Background(), "moong dal",
			[]domain.ScoredResult{result(moongDoc(), 0.9)}, "en")
		if got != "Polished answer." {
			t.Errorf("got %q, want polished answer", got)
		}
	})

	t.Run("failure falls back to template", func(t *testing.T) {
		s := New(&fixedCorpus{}, &stubCompleter{err: errors.New("quota")}, zap.NewNop())
		got := s.Answer(context.Background(), "moong dal",
			[]domain.ScoredResult{result(moongDoc(), 0.9)}, "en")
		if !strings.Contains(got, "Moong Dal (knowledge_base)") {
			t.Errorf("expected templated fallback, got %q", got)
		}
	})

	t.Run("empty completion falls back", func(t *testing.T) {
		s := New(&fixedCorpus{}, &stubCompleter{answer: "  "}, zap.NewNop())
		got := s.Answer(context.Background(), "moong dal",
			[]domain.ScoredResult{result(moongDoc(), 0.9)}, "en")
		if !strings.Contains(got, "Moong Dal (knowledge_base)") {
			t.Errorf("expected templated fallback, got %q", got)
		}
	})
}
