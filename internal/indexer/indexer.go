// Package indexer builds an offline BM25 model of the corpus for batch
// analysis and export.
package indexer

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/poshan-labs/poshan/internal/domain"
)

// Default BM25 parameters.
const (
	DefaultK1 = 1.5
	DefaultB  = 0.75
)

// Meta carries corpus-level statistics and model parameters.
type Meta struct {
	N     int     `json:"N"`
	AvgDL float64 `json:"avgdl"`
	K1    float64 `json:"k1"`
	B     float64 `json:"b"`
}

// IndexedDoc is one document with its term statistics.
type IndexedDoc struct {
	ID        string            `json:"id"`
	Len       int               `json:"len"`
	TF        map[string]int    `json:"tf"`
	Title     string            `json:"title"`
	Category  string            `json:"category"`
	Content   string            `json:"content"`
	Nutrition map[string]string `json:"nutrition"`
	Ayurveda  map[string]string `json:"ayurveda"`
}

// Index is the serialized BM25 model.
type Index struct {
	Meta Meta               `json:"meta"`
	IDF  map[string]float64 `json:"idf"`
	Docs []IndexedDoc       `json:"docs"`
}

// Build computes a BM25 model over docs. Non-positive parameters fall
// back to the defaults.
func Build(docs []*domain.Document, k1, b float64) *Index {
	if k1 <= 0 {
		k1 = DefaultK1
	}
	if b <= 0 {
		b = DefaultB
	}

	n := len(docs)
	df := make(map[string]int)
	indexed := make([]IndexedDoc, 0, n)
	totalLen := 0

	for _, doc := range docs {
		tf := make(map[string]int, len(doc.Tokens))
		for _, t := range doc.Tokens {
			tf[t]++
		}
		length := len(doc.Tokens)
		totalLen += length
		for t := range tf {
			df[t]++
		}
		indexed = append(indexed, IndexedDoc{
			ID:        doc.ID,
			Len:       length,
			TF:        tf,
			Title:     doc.Title,
			Category:  doc.Category,
			Content:   doc.Content,
			Nutrition: doc.Nutrition,
			Ayurveda:  doc.Ayurveda,
		})
	}

	avgdl := 0.0
	if n > 0 {
		avgdl = float64(totalLen) / float64(n)
	}
	idf := make(map[string]float64, len(df))
	for t, d := range df {
		idf[t] = math.Log((float64(n)-float64(d)+0.5)/(float64(d)+0.5) + 1.0)
	}

	return &Index{
		Meta: Meta{N: n, AvgDL: avgdl, K1: k1, B: b},
		IDF:  idf,
		Docs: indexed,
	}
}

// Score ranks a tokenized query against the model, highest first. Meant
// for offline evaluation of the exported model.
func (ix *Index) Score(terms []string) []DocScore {
	scores := make([]DocScore, 0, len(ix.Docs))
	for _, doc := range ix.Docs {
		score := 0.0
		for _, t := range terms {
			tf := float64(doc.TF[t])
			if tf == 0 {
				continue
			}
			idf := ix.IDF[t]
			norm := ix.Meta.K1 * (1 - ix.Meta.B + ix.Meta.B*float64(doc.Len)/ix.Meta.AvgDL)
			score += idf * tf * (ix.Meta.K1 + 1) / (tf + norm)
		}
		if score > 0 {
			scores = append(scores, DocScore{ID: doc.ID, Score: score})
		}
	}
	sortScores(scores)
	return scores
}

// DocScore pairs a document with its BM25 score.
type DocScore struct {
	ID    string
	Score float64
}

func sortScores(scores []DocScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
}

// Save writes the model as a single JSON document.
func Save(path string, ix *Index) error {
	data, err := json.Marshal(ix)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// Load reads a model written by Save.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var ix Index
	if err := json.Unmarshal(data, &ix); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return &ix, nil
}
