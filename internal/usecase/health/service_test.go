package health

import (
	"context"
	"errors"
	"testing"
)

type mockCorpus struct {
	loaded bool
	n      int
}

func (m *mockCorpus) Loaded() bool { return m.loaded }
func (m *mockCorpus) Len() int     { return m.n }

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockCorpus{loaded: true, n: 42}, &mockEmbeddingChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Documents != 42 {
		t.Errorf("expected 42 documents, got %d", r.Documents)
	}
	if r.Checks["corpus"] != CheckOK {
		t.Errorf("expected corpus %q, got %q", CheckOK, r.Checks["corpus"])
	}
	if r.Checks["embedding"] != CheckOK {
		t.Errorf("expected embedding %q, got %q", CheckOK, r.Checks["embedding"])
	}
}

func TestCheck_EmbeddingDownDegrades(t *testing.T) {
	svc := New(&mockCorpus{loaded: true, n: 42},
		&mockEmbeddingChecker{err: errors.New("provider down")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["embedding"] != CheckError {
		t.Errorf("expected embedding %q, got %q", CheckError, r.Checks["embedding"])
	}
}

func TestCheck_EmptyCorpusUnhealthy(t *testing.T) {
	svc := New(&mockCorpus{loaded: false}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if _, ok := r.Checks["embedding"]; ok {
		t.Error("nil embedding checker must not report a check")
	}
}
