// Package chat orchestrates a single chat turn: admission, caching,
// retrieval, answer composition, and conversation learning.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/poshan-labs/poshan/internal/cache"
	"github.com/poshan-labs/poshan/internal/domain"
	"github.com/poshan-labs/poshan/internal/metrics"
	"github.com/poshan-labs/poshan/internal/text"
	"github.com/poshan-labs/poshan/internal/usecase/retrieval"
)

const (
	topK               = 5
	sourceContentLimit = 200
)

// Service handles chat turns. Construct once and share.
type Service struct {
	searcher  Searcher
	composer  Composer
	history   HistoryStore
	boost     BoostObserver
	limiter   Limiter
	readiness ReadinessReader
	caches    *cache.Manager
	logger    *zap.Logger
	now       func() time.Time
}

func New(
	searcher Searcher,
	composer Composer,
	history HistoryStore,
	boost BoostObserver,
	limiter Limiter,
	readiness ReadinessReader,
	caches *cache.Manager,
	logger *zap.Logger,
) *Service {
	return &Service{
		searcher:  searcher,
		composer:  composer,
		history:   history,
		boost:     boost,
		limiter:   limiter,
		readiness: readiness,
		caches:    caches,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Handle runs one chat turn. Admission order is rate limit, input
// validation, readiness; a repeated question from the same conversation
// state is answered from the response cache without touching the engine.
// History and learned boosts are updated for every served reply, cached
// or not.
func (s *Service) Handle(ctx context.Context, query domain.Query) (Reply, error) {
	start := s.now()

	if !s.limiter.Allow(query.ClientID) {
		metrics.RateLimitedTotal.Inc()
		return Reply{}, fmt.Errorf("client %s: %w", query.ClientID, domain.ErrRateLimited)
	}

	message := strings.TrimSpace(query.Text)
	if message == "" {
		return Reply{}, domain.ErrInvalidQuery
	}
	if !s.readiness.Loaded() {
		return Reply{}, domain.ErrNotReady
	}

	if removed := s.caches.Sweep(); removed > 0 {
		s.logger.Info("Cache sweep completed", zap.Int("removed", removed))
	}

	lang := query.Lang
	if lang == "" {
		lang = "en"
	}

	conversation := s.history.Context(query.ClientID)
	replyKey := cache.Key(message, conversation)
	if cached, ok := s.caches.Response.Get(replyKey); ok {
		reply := cached.(Reply)
		reply.ProcessingTime = s.elapsed(start)
		s.recordInteraction(query.ClientID, message, reply.Response)
		return reply, nil
	}

	results := s.search(ctx, message)
	results = retrieval.PromoteSingle(message, results)
	if len(results) > 0 {
		metrics.SearchStrategyTotal.WithLabelValues(string(results[0].Strategy)).Inc()
	}

	answer := s.composer.Answer(ctx, message, results, lang)
	s.recordInteraction(query.ClientID, message, answer)

	reply := Reply{
		Response:       answer,
		Sources:        buildSources(results),
		ProcessingTime: s.elapsed(start),
	}
	s.caches.Response.Put(replyKey, reply)
	return reply, nil
}

// recordInteraction updates the conversation history and the learned
// boost table. Runs for every served reply, cached or computed.
func (s *Service) recordInteraction(client, message, answer string) {
	s.history.Append(client, message, answer)
	s.boost.Observe(text.Tokenize(message))
}

// search consults the search cache before running the engine. Cached
// rankings are keyed by the raw query, independent of conversation
// state.
func (s *Service) search(ctx context.Context, message string) []domain.ScoredResult {
	key := cache.Key(message, "")
	if cached, ok := s.caches.Search.Get(key); ok {
		return cached.([]domain.ScoredResult)
	}
	results := s.searcher.Search(ctx, message, topK)
	s.caches.Search.Put(key, results)
	return results
}

func (s *Service) elapsed(start time.Time) string {
	return fmt.Sprintf("%.2fs", s.now().Sub(start).Seconds())
}

func buildSources(results []domain.ScoredResult) []Source {
	sources := make([]Source, 0, len(results))
	for _, r := range results {
		// Truncate on rune boundaries: content is routinely Devanagari.
		content := r.Doc.Content
		if utf8.RuneCountInString(content) > sourceContentLimit {
			content = string([]rune(content)[:sourceContentLimit]) + "..."
		}
		origin := r.Doc.Source
		if origin == "" {
			origin = "knowledge_base"
		}
		sources = append(sources, Source{
			Title:      r.Doc.Title,
			Content:    content,
			Source:     origin,
			Strategy:   string(r.Strategy),
			Similarity: fmt.Sprintf("%.2f", r.Similarity),
		})
	}
	return sources
}
