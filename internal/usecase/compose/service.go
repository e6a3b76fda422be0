// Package compose turns ranked documents into the final answer text.
// Answers are fully templated and bilingual; an optional completion
// provider may rewrite the template into prose, with the template kept
// as the fallback.
package compose

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/poshan-labs/poshan/internal/domain"
	"github.com/poshan-labs/poshan/internal/text"
)

const snippetLimit = 600

// Service composes answers. Construct once and share.
type Service struct {
	corpus    CorpusReader
	completer Completer // nil keeps answers fully templated
	logger    *zap.Logger
}

func New(corpus CorpusReader, completer Completer, logger *zap.Logger) *Service {
	return &Service{corpus: corpus, completer: completer, logger: logger}
}

// Answer builds the response text for query. With no matching documents
// the query is routed to the diet planner or the smalltalk handler; with
// matches a structured answer is rendered per document. When a completion
// provider is configured it may polish the structured answer, and any
// provider failure silently falls back to the template.
func (s *Service) Answer(ctx context.Context, query string, results []domain.ScoredResult, lang string) string {
	if len(results) == 0 {
		if wantsDietPlan(query) {
			return s.DietPlan(query, lang)
		}
		return smalltalkOrHelp(query, lang)
	}

	body := s.render(query, results, lang)
	if s.completer == nil {
		return body
	}
	polished, err := s.polish(ctx, query, body, lang)
	if err != nil {
		s.logger.Warn("Answer polishing unavailable, using templated answer",
			zap.Error(err))
		return body
	}
	return polished
}

func wantsDietPlan(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(q, "diet plan") ||
		(strings.Contains(q, "diet") && strings.Contains(q, "plan")) ||
		strings.Contains(q, "meal plan")
}

// render produces the structured per-document answer. Single-document
// answers skip the general insight sections.
func (s *Service) render(query string, results []domain.ScoredResult, lang string) string {
	L := labelsFor(lang)
	singleMode := len(results) == 1

	var lines []string
	lines = append(lines, fmt.Sprintf("%s: %s", L.question, query))

	for _, doc := range dedupeByTitle(results) {
		source := doc.Source
		if source == "" {
			source = "knowledge_base"
		}
		lines = append(lines, fmt.Sprintf("\n%s (%s)", doc.Title, source))
		if len(doc.Nutrition) > 0 {
			lines = append(lines, L.nutrition+":")
			lines = append(lines, factLines(doc.Nutrition)...)
		}
		if len(doc.Ayurveda) > 0 {
			lines = append(lines, L.ayurveda+":")
			lines = append(lines, factLines(doc.Ayurveda)...)
		}
		if snippet := contentSnippet(doc.Content, lang); snippet != "" {
			lines = append(lines, snippet)
		}
	}

	if !singleMode {
		if sections := generalSections(query, lang); len(sections) > 0 {
			lines = append(lines, "\n"+L.general)
			for _, section := range sections {
				lines = append(lines, "- "+section)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (s *Service) polish(ctx context.Context, query, body, lang string) (string, error) {
	system := "You are a nutrition and Ayurveda assistant. Rewrite the given facts " +
		"as a concise, friendly answer. Keep every number and property unchanged. " +
		"Answer in " + languageName(lang) + "."
	user := fmt.Sprintf("Question: %s\n\nFacts:\n%s", query, body)
	answer, err := s.completer.Complete(ctx, system, user)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("empty completion")
	}
	return answer, nil
}

func languageName(lang string) string {
	if lang == "hi" {
		return "Hindi"
	}
	return "English"
}

// dedupeByTitle drops repeated items pulled in from multiple sources,
// keeping the first (highest ranked) occurrence.
func dedupeByTitle(results []domain.ScoredResult) []*domain.Document {
	seen := make(map[string]struct{}, len(results))
	docs := make([]*domain.Document, 0, len(results))
	for _, r := range results {
		key := strings.ToLower(strings.TrimSpace(r.Doc.Title))
		if key != "" {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}
		docs = append(docs, r.Doc)
	}
	return docs
}

// factLines renders a fact map as sorted bullet lines. Maps iterate in
// random order, so keys are sorted for stable output.
func factLines(facts map[string]string) []string {
	keys := make([]string, 0, len(facts))
	for k := range facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("- %s: %s", capitalize(k), facts[k]))
	}
	return lines
}

// contentSnippet truncates long content on a rune boundary and
// suppresses Latin-only snippets in Hindi answers.
func contentSnippet(content, lang string) string {
	if content == "" {
		return ""
	}
	if lang == "hi" && !text.HasDevanagari(content) {
		return ""
	}
	if utf8.RuneCountInString(content) > snippetLimit {
		return string([]rune(content)[:snippetLimit]) + "..."
	}
	return content
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// generalSections adds topic-level guidance driven by query tokens.
func generalSections(query, lang string) []string {
	tokens := text.TokenSet(query)
	hasAny := func(terms ...string) bool {
		for _, t := range terms {
			if _, ok := tokens[t]; ok {
				return true
			}
		}
		return false
	}

	var general []string
	if hasAny("dal", "lentil", "pulse", "moong", "toor", "arhar", "chana", "urad", "masoor") {
		if lang == "hi" {
			general = append(general,
				"दालें पौध प्रोटीन और फाइबर का अच्छा स्रोत हैं। भिगोना एंटी-न्यूट्रिएंट्स कम करता है; अंकुरण से विटामिन और पाचन में सुधार होता है। जीरा, अदरक, हींग और हल्दी के साथ पकाना पाचन में सहायक है। अनाज के साथ मिलाने से अमीनो एसिड संतुलन बेहतर होता है।",
				"सामान्य मात्रा: प्रति भोजन लगभग 150–200 ग्राम पकी हुई दाल, सब्जियों के साथ लें।")
		} else {
			general = append(general,
				"Lentils are rich in plant protein and fiber. Soaking reduces antinutrients; sprouting improves vitamins and digestibility. Cooking with cumin, ginger, asafoetida, and turmeric supports digestion. Pair with cereals to improve amino acid balance.",
				"Typical portions: ~150–200 g cooked dal per meal, combine with vegetables.")
		}
	}
	if hasAny("cereal", "grain", "rice", "wheat", "millet", "oats") {
		if lang == "hi" {
			general = append(general,
				"साबुत अनाज जटिल कार्बोहाइड्रेट, फाइबर और बी-विटामिन प्रदान करते हैं। परिष्कृत के बजाय साबुत रूप चुनें। अनाज और दाल साथ लेने से प्रोटीन गुणवत्ता बेहतर होती है।",
				"सामान्य मात्रा: प्रति भोजन ~150–200 ग्राम पका हुआ अनाज, गतिविधि के अनुसार समायोजित करें।")
		} else {
			general = append(general,
				"Whole grains provide complex carbs, fiber, and B-vitamins. Prefer whole/minimally processed forms. Mixing grains with pulses yields more complete protein.",
				"Common portions: ~150–200 g cooked grain per meal, adjust for activity.")
		}
	}
	if hasAny("vegetable", "veg", "greens", "leafy") {
		if lang == "hi" {
			general = append(general, "सब्जियाँ विटामिन, खनिज, एंटीऑक्सिडेंट और फाइबर देती हैं। मौसमी और विविध रंगों को प्राथमिकता दें। हल्की भाप या सौटे पोषक तत्व बनाए रखते हैं।")
		} else {
			general = append(general, "Vegetables supply vitamins, minerals, antioxidants, and fiber. Prefer seasonal diversity. Light steaming or sautéing preserves nutrients.")
		}
	}
	if hasAny("ayurveda", "dosha", "vata", "pitta", "kapha") {
		if lang == "hi" {
			general = append(general, "आयुर्वेद में रस, वीर्य और विपाक के आधार पर दोष संतुलन पर जोर है। वात के लिए गर्म और नम; पित्त के लिए शीतल और मधुर/तिक्त; कफ के लिए हल्का, गरम और कषाय/कटु खाद्य। व्यक्तिगत अन्तर होता है।")
		} else {
			general = append(general, "Ayurveda balances doshas using rasa, virya, vipaka. Vata often benefits from warm, moist foods; Pitta from cooling, mildly sweet/bitter; Kapha from light, warming, pungent foods.")
		}
	}
	if hasAny("protein", "carb", "fat", "fiber", "vitamin", "mineral", "glycemic") {
		if lang == "hi" {
			general = append(general,
				"संतुलित थाली: दाल (प्रोटीन+फाइबर), अनाज (कार्ब), और सब्जियाँ (माइक्रोन्यूट्रिएंट्स)। फाइबर और जल सेवन पर ध्यान दें।",
				"सामान्यतः: प्रोटीन 20–30%, कार्ब 40–55%, वसा 25–35% (लक्ष्य/गतिविधि अनुसार)।")
		} else {
			general = append(general,
				"Balanced plate: pulse (protein+fiber), grain (carbs), vegetables (micronutrients). Consider fiber and hydration.",
				"Typical ranges: protein 20–30%, carbs 40–55%, fats 25–35% (adjust for goals/activity).")
		}
	}
	if lang == "hi" {
		general = append(general, "सामान्य मार्गदर्शन: साबुत खाद्य, पर्याप्त जल, नियमित भोजन समय और विविधता। विशेष स्थितियों में विशेषज्ञ से सलाह लें।")
	} else {
		general = append(general, "General guidance: whole foods, hydration, regular meal timing, and variety. Consult a professional for specific conditions.")
	}
	return general
}
