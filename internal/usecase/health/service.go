package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot answer questions.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status    Status
	Documents int
	Checks    map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	corpus    CorpusReader
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil.
func New(corpus CorpusReader, embedding EmbeddingChecker) *Service {
	return &Service{corpus: corpus, embedding: embedding}
}

// Check runs health checks against all components. An unloaded corpus
// makes the whole service unhealthy; a failing embedding provider only
// degrades it since lexical answers still work.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.corpus.Loaded() {
		checks["corpus"] = CheckOK
	} else {
		checks["corpus"] = CheckError
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	if checks["corpus"] == CheckError {
		status = Unhealthy
	} else if checks["embedding"] == CheckError {
		status = Degraded
	}

	return Report{Status: status, Documents: s.corpus.Len(), Checks: checks}
}
