package indexer

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/poshan-labs/poshan/internal/domain"
	"github.com/poshan-labs/poshan/internal/text"
)

func testDocs() []*domain.Document {
	docs := []*domain.Document{
		{ID: "moong-dal", Title: "Moong Dal", Category: "Pulses",
			Content: "Moong dal is light and rich in protein."},
		{ID: "toor-dal", Title: "Toor Dal", Category: "Pulses",
			Content: "Toor dal suits everyday cooking."},
		{ID: "spinach", Title: "Spinach", Category: "Vegetables",
			Content: "Spinach carries iron and fiber."},
	}
	for _, d := range docs {
		d.Tokens = text.Tokenize(d.Title + " " + d.Category + " " + d.Content)
	}
	return docs
}

func TestBuild_Meta(t *testing.T) {
	docs := testDocs()
	ix := Build(docs, 0, 0)

	if ix.Meta.N != 3 {
		t.Errorf("N = %d, want 3", ix.Meta.N)
	}
	if ix.Meta.K1 != DefaultK1 || ix.Meta.B != DefaultB {
		t.Errorf("parameters = %v/%v, want defaults", ix.Meta.K1, ix.Meta.B)
	}

	total := 0
	for _, d := range docs {
		total += len(d.Tokens)
	}
	want := float64(total) / 3
	if math.Abs(ix.Meta.AvgDL-want) > 1e-9 {
		t.Errorf("avgdl = %v, want %v", ix.Meta.AvgDL, want)
	}
}

func TestBuild_IDFFormula(t *testing.T) {
	ix := Build(testDocs(), 0, 0)

	// "dal" appears in 2 of 3 documents.
	want := math.Log((3-2+0.5)/(2+0.5) + 1.0)
	if got := ix.IDF["dal"]; math.Abs(got-want) > 1e-9 {
		t.Errorf("idf(dal) = %v, want %v", got, want)
	}

	// A term unique to one document is weighted higher.
	if ix.IDF["spinach"] <= ix.IDF["dal"] {
		t.Error("rarer term must carry higher idf")
	}
}

func TestBuild_TermFrequencies(t *testing.T) {
	ix := Build(testDocs(), 0, 0)

	var moong *IndexedDoc
	for i := range ix.Docs {
		if ix.Docs[i].ID == "moong-dal" {
			moong = &ix.Docs[i]
		}
	}
	if moong == nil {
		t.Fatal("moong-dal missing from index")
	}
	if moong.TF["moong"] != 2 {
		t.Errorf("tf(moong) = %d, want 2 (title + content)", moong.TF["moong"])
	}
	if moong.Len != len(text.Tokenize("Moong Dal Pulses Moong dal is light and rich in protein.")) {
		t.Errorf("doc length = %d does not match token count", moong.Len)
	}
}

func TestScore_RanksByRelevance(t *testing.T) {
	ix := Build(testDocs(), 0, 0)

	scores := ix.Score([]string{"moong", "dal"})
	if len(scores) != 2 {
		t.Fatalf("expected 2 scored docs, got %d", len(scores))
	}
	if scores[0].ID != "moong-dal" {
		t.Errorf("top doc = %s, want moong-dal", scores[0].ID)
	}

	if scores := ix.Score([]string{"quinoa"}); len(scores) != 0 {
		t.Errorf("unknown term must score nothing, got %v", scores)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trained_model.json")
	ix := Build(testDocs(), 1.2, 0.6)

	if err := Save(path, ix); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Meta != ix.Meta {
		t.Errorf("meta mismatch: %+v vs %+v", loaded.Meta, ix.Meta)
	}
	if len(loaded.Docs) != len(ix.Docs) {
		t.Errorf("doc count mismatch: %d vs %d", len(loaded.Docs), len(ix.Docs))
	}
	if loaded.IDF["dal"] != ix.IDF["dal"] {
		t.Errorf("idf mismatch for dal")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
