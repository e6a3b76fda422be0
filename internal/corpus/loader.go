package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/poshan-labs/poshan/internal/domain"
	"github.com/poshan-labs/poshan/internal/text"
)

// Loader reads CSV knowledge base sources into canonical documents.
// A missing source is a warning, not an error: the service starts with an
// empty or partial corpus and reports not-ready until documents exist.
type Loader struct {
	kbPath    string
	extraPath string
	logger    *zap.Logger
}

// NewLoader creates a corpus loader.
func NewLoader(kbPath, extraPath string, logger *zap.Logger) *Loader {
	return &Loader{kbPath: kbPath, extraPath: extraPath, logger: logger}
}

// Load reads all configured sources and returns the canonical document set.
func (l *Loader) Load() ([]*domain.Document, error) {
	var docs []*domain.Document

	primary, err := l.loadPrimary()
	if err != nil {
		return nil, err
	}
	docs = append(docs, primary...)

	if l.extraPath != "" {
		extra, err := l.loadExtra()
		if err != nil {
			return nil, err
		}
		docs = append(docs, extra...)
	}

	for _, d := range docs {
		d.Tokens = text.Tokenize(strings.Join([]string{d.Title, d.Category, d.Content}, " "))
	}

	l.logger.Info("Knowledge base loaded", zap.Int("documents", len(docs)))
	return docs, nil
}

// loadPrimary reads the canonical CSV: id, title, category, content plus
// nutrition and ayurveda cells holding brace-style maps.
func (l *Loader) loadPrimary() ([]*domain.Document, error) {
	rows, err := l.readCSV(l.kbPath)
	if err != nil || rows == nil {
		return nil, err
	}

	docs := make([]*domain.Document, 0, len(rows))
	for _, row := range rows {
		title := strings.TrimSpace(row["title"])
		id := strings.TrimSpace(row["id"])
		if id == "" {
			id = slugify(title)
		}
		docs = append(docs, &domain.Document{
			ID:        id,
			Title:     title,
			Category:  strings.TrimSpace(row["category"]),
			Content:   strings.TrimSpace(row["content"]),
			Nutrition: parseMapLiteral(row["nutrition"]),
			Ayurveda:  parseMapLiteral(row["ayurveda"]),
			Source:    "knowledge_base",
		})
	}
	return docs, nil
}

// extraFieldNames maps the secondary dataset's column headers onto the
// canonical document shape.
var extraFieldNames = struct {
	title, category, categoryAlt               string
	calories, protein, carbs, fats             string
	rasa, virya, guna, vipaka, suitable, notes string
}{
	title:       "Food Item (खाद्य पदार्थ)",
	category:    "Cereals,Pulses,Lentils & Legumes",
	categoryAlt: "Category",
	calories:    "Calories (per 100g)",
	protein:     "Protein (g)",
	carbs:       "Carbs(g)",
	fats:        "Fats(g)",
	rasa:        "Rasa (Taste) (रस)",
	virya:       "Virya (Potency) (वीर्य)",
	guna:        "Guna (Quality) (गुण)",
	vipaka:      "Vipaka (Post-digestive) (विपाक)",
	suitable:    "Suitable for (Vata/Pitta/Kapha)",
	notes:       "Notes (Digestion / Special Effects)",
}

// loadExtra reads the secondary dataset and synthesizes content from its
// notes plus compact nutrition/ayurveda summaries.
func (l *Loader) loadExtra() ([]*domain.Document, error) {
	rows, err := l.readCSV(l.extraPath)
	if err != nil || rows == nil {
		return nil, err
	}

	f := extraFieldNames
	docs := make([]*domain.Document, 0, len(rows))
	for _, row := range rows {
		title := strings.TrimSpace(row[f.title])
		if title == "" {
			continue
		}
		category := strings.TrimSpace(row[f.category])
		if category == "" {
			category = strings.TrimSpace(row[f.categoryAlt])
		}

		nutrition := map[string]string{}
		putIfSet(nutrition, "calories", row[f.calories])
		putIfSet(nutrition, "protein", row[f.protein])
		putIfSet(nutrition, "carbs", row[f.carbs])
		putIfSet(nutrition, "fats", row[f.fats])

		ayurveda := map[string]string{}
		putIfSet(ayurveda, "rasa", row[f.rasa])
		putIfSet(ayurveda, "virya", row[f.virya])
		putIfSet(ayurveda, "guna", row[f.guna])
		putIfSet(ayurveda, "vipaka", row[f.vipaka])
		putIfSet(ayurveda, "dosha_effects", row[f.suitable])

		var parts []string
		if notes := strings.TrimSpace(row[f.notes]); notes != "" {
			parts = append(parts, notes)
		}
		if len(nutrition) > 0 {
			parts = append(parts, "Nutritional (per 100g): "+summarize(nutrition))
		}
		if len(ayurveda) > 0 {
			parts = append(parts, "Ayurvedic: "+summarize(ayurveda))
		}

		docs = append(docs, &domain.Document{
			ID:        slugify(title),
			Title:     title,
			Category:  category,
			Content:   strings.Join(parts, "\n"),
			Nutrition: nutrition,
			Ayurveda:  ayurveda,
			Source:    "extra_csv",
		})
	}
	return docs, nil
}

// readCSV reads a CSV file into header-keyed rows. A missing file yields
// (nil, nil) and a warning.
func (l *Loader) readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("Knowledge base source not found", zap.String("path", path))
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.logger.Warn("Skipping malformed CSV row", zap.String("path", path), zap.Error(err))
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func putIfSet(m map[string]string, key, val string) {
	if v := strings.TrimSpace(val); v != "" {
		m[key] = v
	}
}

func summarize(m map[string]string) string {
	order := []string{
		"calories", "protein", "carbs", "fats",
		"rasa", "virya", "guna", "vipaka", "dosha_effects",
	}
	var parts []string
	for _, k := range order {
		if v, ok := m[k]; ok {
			parts = append(parts, capitalize(k)+": "+v)
		}
	}
	return strings.Join(parts, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func slugify(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}
