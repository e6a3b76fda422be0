package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

const primaryCSV = `id,title,category,content,nutrition,ayurveda
moong-dal,Moong Dal,Pulses,Easily digestible split green gram.,"{'protein': '24g', 'fiber': '16g'}","{'rasa': 'Sweet', 'virya': 'Cooling'}"
,Toor Dal,Pulses,Staple pigeon pea dal.,{'protein': '22g'},{}
`

const extraCSV = `Food Item (खाद्य पदार्थ),Category,Calories (per 100g),Protein (g),Carbs(g),Fats(g),Rasa (Taste) (रस),Virya (Potency) (वीर्य),Guna (Quality) (गुण),Vipaka (Post-digestive) (विपाक),Suitable for (Vata/Pitta/Kapha),Notes (Digestion / Special Effects)
Brown Rice,Cereals,111,2.6,23,0.9,Sweet,Cooling,Heavy,Sweet,Vata Pitta,Whole grain with intact bran.
,Cereals,100,2,20,1,,,,,,Missing title row should be skipped
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_PrimarySource(t *testing.T) {
	dir := t.TempDir()
	kb := writeFile(t, dir, "kb.csv", primaryCSV)

	l := NewLoader(kb, "", zap.NewNop())
	docs, err := l.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}

	moong := docs[0]
	if moong.ID != "moong-dal" || moong.Title != "Moong Dal" {
		t.Errorf("unexpected first doc: %+v", moong)
	}
	if moong.Nutrition["protein"] != "24g" {
		t.Errorf("nutrition not parsed: %v", moong.Nutrition)
	}
	if moong.Ayurveda["rasa"] != "Sweet" {
		t.Errorf("ayurveda not parsed: %v", moong.Ayurveda)
	}
	if len(moong.Tokens) == 0 {
		t.Error("tokens not derived")
	}

	// Document without an id gets a title slug.
	if docs[1].ID != "toor-dal" {
		t.Errorf("expected slug id, got %q", docs[1].ID)
	}
}

func TestLoad_ExtraSourceMapped(t *testing.T) {
	dir := t.TempDir()
	kb := writeFile(t, dir, "kb.csv", primaryCSV)
	extra := writeFile(t, dir, "extra.csv", extraCSV)

	l := NewLoader(kb, extra, zap.NewNop())
	docs, err := l.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents (titleless extra row skipped), got %d", len(docs))
	}

	rice := docs[2]
	if rice.ID != "brown-rice" || rice.Source != "extra_csv" {
		t.Errorf("unexpected extra doc: %+v", rice)
	}
	if rice.Nutrition["calories"] != "111" || rice.Nutrition["protein"] != "2.6" {
		t.Errorf("mapped nutrition wrong: %v", rice.Nutrition)
	}
	if rice.Ayurveda["dosha_effects"] != "Vata Pitta" {
		t.Errorf("mapped ayurveda wrong: %v", rice.Ayurveda)
	}
	if rice.Content == "" {
		t.Error("content not synthesized")
	}
}

func TestLoad_MissingSourceIsNotFatal(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "absent.csv"), "", zap.NewNop())
	docs, err := l.Load()
	if err != nil {
		t.Fatalf("missing source must not fail: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty corpus, got %d docs", len(docs))
	}
}

func TestParseMapLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{"single quotes", "{'protein': '24g'}", map[string]string{"protein": "24g"}},
		{"double quotes", `{"rasa": "Sweet"}`, map[string]string{"rasa": "Sweet"}},
		{"empty braces", "{}", map[string]string{}},
		{"garbage", "not a map", map[string]string{}},
		{"blank", "", map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseMapLiteral(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("key %q: got %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestCorpusReplace(t *testing.T) {
	c := New()
	if c.Loaded() {
		t.Fatal("new corpus must not report loaded")
	}
	dir := t.TempDir()
	kb := writeFile(t, dir, "kb.csv", primaryCSV)
	docs, err := NewLoader(kb, "", zap.NewNop()).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.Replace(docs)
	if !c.Loaded() || c.Len() != 2 {
		t.Fatalf("expected loaded corpus of 2, got %d", c.Len())
	}
}
