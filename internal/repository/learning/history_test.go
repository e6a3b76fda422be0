package learning

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestHistory_CapAtFive(t *testing.T) {
	h := NewHistoryStore()
	for i := 0; i < 8; i++ {
		h.Append("client-a", fmt.Sprintf("q%d", i), fmt.Sprintf("r%d", i))
	}

	if got := h.Len("client-a"); got != 5 {
		t.Fatalf("expected history capped at 5, got %d", got)
	}

	// Oldest entries dropped: context window holds the last three.
	ctx := h.Context("client-a")
	for _, want := range []string{"q5", "q6", "q7"} {
		if !strings.Contains(ctx, want) {
			t.Errorf("context missing %s:\n%s", want, ctx)
		}
	}
	if strings.Contains(ctx, "q4") {
		t.Errorf("context includes entry outside the window:\n%s", ctx)
	}
}

func TestHistory_ContextTruncatesResponses(t *testing.T) {
	h := NewHistoryStore()
	long := strings.Repeat("x", 500)
	h.Append("client-a", "q", long)

	ctx := h.Context("client-a")
	if strings.Contains(ctx, strings.Repeat("x", 101)) {
		t.Error("response excerpt not truncated to 100 chars")
	}
	if !strings.HasSuffix(ctx, "...") {
		t.Errorf("excerpt should end with ellipsis:\n%s", ctx)
	}
}

func TestHistory_ContextKeepsDevanagariIntact(t *testing.T) {
	h := NewHistoryStore()
	long := strings.Repeat("मूंगदाल", 40) // 280 runes, 3 bytes each
	h.Append("client-a", "मूंग दाल", long)

	ctx := h.Context("client-a")
	if !utf8.ValidString(ctx) {
		t.Fatalf("context window contains invalid UTF-8: %q", ctx)
	}
	want := string([]rune(long)[:100])
	if !strings.Contains(ctx, "Previous answer: "+want+"...") {
		t.Errorf("excerpt not cut at 100 runes:\n%s", ctx)
	}
}

func TestHistory_UnknownClient(t *testing.T) {
	h := NewHistoryStore()
	if ctx := h.Context("nobody"); ctx != "" {
		t.Fatalf("expected empty context, got %q", ctx)
	}
}

func TestHistory_IdleClientsPruned(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	h := NewHistoryStore().WithClock(func() time.Time { return now })

	h.Append("client-a", "q", "r")
	now = now.Add(2 * time.Hour)
	h.Append("client-b", "q", "r")

	if h.Len("client-a") != 0 {
		t.Fatal("idle client should be pruned")
	}
	if h.Len("client-b") != 1 {
		t.Fatal("active client lost history")
	}
}
