// Command indexer builds the offline BM25 model from the CSV knowledge
// base and writes it as a single JSON file.
package main

import (
	"flag"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/poshan-labs/poshan/internal/config"
	"github.com/poshan-labs/poshan/internal/corpus"
	"github.com/poshan-labs/poshan/internal/indexer"
	logpkg "github.com/poshan-labs/poshan/internal/logger"
)

func main() {
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	kbPath := flag.String("kb", cfg.Corpus.KnowledgeBasePath, "primary knowledge base CSV")
	extraPath := flag.String("extra", cfg.Corpus.ExtraPath, "supplementary CSV source")
	outPath := flag.String("out", cfg.Index.OutputPath, "output model path")
	k1 := flag.Float64("k1", cfg.Index.K1, "BM25 k1 parameter")
	b := flag.Float64("b", cfg.Index.B, "BM25 b parameter")
	flag.Parse()

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	docs, err := corpus.NewLoader(*kbPath, *extraPath, logger).Load()
	if err != nil {
		logger.Fatal("Knowledge base load failed", zap.Error(err))
	}
	if len(docs) == 0 {
		logger.Fatal("No documents to index",
			zap.String("kb", *kbPath), zap.String("extra", *extraPath))
	}

	ix := indexer.Build(docs, *k1, *b)
	if err := indexer.Save(*outPath, ix); err != nil {
		logger.Fatal("Model write failed", zap.Error(err))
	}

	logger.Info("BM25 model saved",
		zap.String("path", *outPath),
		zap.Int("documents", ix.Meta.N),
		zap.Int("terms", len(ix.IDF)),
		zap.Float64("avgdl", ix.Meta.AvgDL),
	)
}
