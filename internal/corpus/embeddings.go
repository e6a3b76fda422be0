package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/poshan-labs/poshan/internal/domain"
)

// LoadEmbeddings merges a precomputed doc id -> vector snapshot onto the
// document set. All vectors must share one dimension; mismatched vectors
// are dropped with a warning. A missing snapshot is not an error.
func LoadEmbeddings(path string, docs []*domain.Document, logger *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("No embedding snapshot found", zap.String("path", path))
			return nil
		}
		return fmt.Errorf("read embedding snapshot %s: %w", path, err)
	}

	var vectors map[string][]float32
	if err := json.Unmarshal(data, &vectors); err != nil {
		return fmt.Errorf("parse embedding snapshot %s: %w", path, err)
	}

	dim := 0
	attached := 0
	for _, doc := range docs {
		vec, ok := vectors[doc.ID]
		if !ok || len(vec) == 0 {
			continue
		}
		if dim == 0 {
			dim = len(vec)
		}
		if len(vec) != dim {
			logger.Warn("Dropping embedding with mismatched dimension",
				zap.String("doc_id", doc.ID),
				zap.Int("dim", len(vec)),
				zap.Int("want", dim),
			)
			continue
		}
		doc.Embedding = vec
		attached++
	}

	logger.Info("Embedding snapshot applied",
		zap.Int("vectors", attached),
		zap.Int("dimension", dim),
	)
	return nil
}
