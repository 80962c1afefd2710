package internal

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestStoreAddAndHistory(t *testing.T) {
	store := NewConversationStore(10, time.Hour)

	store.AddExchange("vid1", "sess", "q1", "a1")
	store.AddExchange("vid1", "sess", "q2", "a2")

	history := store.History("vid1", "sess", 0)
	if len(history) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(history))
	}
	if history[0].Question != "q1" || history[1].Question != "q2" {
		t.Errorf("history out of order: %+v", history)
	}
	if history[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestStoreHistoryLimit(t *testing.T) {
	store := NewConversationStore(10, time.Hour)
	for i := 0; i < 5; i++ {
		store.AddExchange("vid1", "", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	history := store.History("vid1", "", 2)
	if len(history) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(history))
	}
	// Limit keeps the newest entries
	if history[0].Question != "q3" || history[1].Question != "q4" {
		t.Errorf("limit should keep newest entries, got %+v", history)
	}
}

func TestStoreTrimsToMaxHistory(t *testing.T) {
	store := NewConversationStore(3, time.Hour)
	for i := 0; i < 7; i++ {
		store.AddExchange("vid1", "", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	history := store.History("vid1", "", 0)
	if len(history) != 3 {
		t.Fatalf("expected history capped at 3, got %d", len(history))
	}
	if history[0].Question != "q4" || history[2].Question != "q6" {
		t.Errorf("trim should drop oldest entries, got %+v", history)
	}
}

func TestStoreDefaultSessionAliasing(t *testing.T) {
	store := NewConversationStore(10, time.Hour)

	// Empty session ID and the explicit default share the same conversation
	store.AddExchange("vid1", "", "q1", "a1")
	store.AddExchange("vid1", DefaultSession, "q2", "a2")

	if got := store.Len("vid1", ""); got != 2 {
		t.Errorf("expected shared session with 2 exchanges, got %d", got)
	}

	// A named session is independent
	store.AddExchange("vid1", "other", "q3", "a3")
	if got := store.Len("vid1", "other"); got != 1 {
		t.Errorf("expected independent session with 1 exchange, got %d", got)
	}
	if got := store.Len("vid1", ""); got != 2 {
		t.Errorf("default session should be unaffected, got %d", got)
	}
}

func TestStoreSessionsIsolatedByVideo(t *testing.T) {
	store := NewConversationStore(10, time.Hour)

	store.AddExchange("vid1", "sess", "q1", "a1")
	store.AddExchange("vid2", "sess", "q2", "a2")

	if got := store.Len("vid1", "sess"); got != 1 {
		t.Errorf("vid1 session should have 1 exchange, got %d", got)
	}
	if got := store.Len("vid2", "sess"); got != 1 {
		t.Errorf("vid2 session should have 1 exchange, got %d", got)
	}
}

func TestStoreExpiry(t *testing.T) {
	store := NewConversationStore(10, time.Hour)
	now := time.Now()
	store.now = func() time.Time { return now }

	store.AddExchange("vid1", "", "q1", "a1")
	store.AddExchange("vid2", "", "q2", "a2")

	// vid1's last write moves past the TTL, vid2 stays fresh
	now = now.Add(30 * time.Minute)
	store.AddExchange("vid2", "", "q3", "a3")
	now = now.Add(45 * time.Minute)

	if got := store.Len("vid1", ""); got != 0 {
		t.Errorf("expected vid1 session expired, got %d exchanges", got)
	}
	if got := store.Len("vid2", ""); got != 2 {
		t.Errorf("expected vid2 session retained, got %d exchanges", got)
	}
}

func TestStoreReadsDoNotRefreshExpiry(t *testing.T) {
	store := NewConversationStore(10, time.Hour)
	now := time.Now()
	store.now = func() time.Time { return now }

	store.AddExchange("vid1", "", "q1", "a1")

	// Reads just before the deadline must not keep the session alive
	now = now.Add(59 * time.Minute)
	if got := store.Len("vid1", ""); got != 1 {
		t.Fatalf("session should still be alive, got %d", got)
	}
	now = now.Add(2 * time.Minute)
	if got := store.Len("vid1", ""); got != 0 {
		t.Errorf("expected session expired despite recent read, got %d", got)
	}
}

func TestStoreClear(t *testing.T) {
	store := NewConversationStore(10, time.Hour)
	store.AddExchange("vid1", "", "q1", "a1")

	store.Clear("vid1", "")
	if got := store.Len("vid1", ""); got != 0 {
		t.Errorf("expected cleared session, got %d", got)
	}

	// Clearing a missing session is a no-op
	store.Clear("vid1", "")
	store.Clear("nope", "nothing")
}

func TestStoreHistoryReturnsCopy(t *testing.T) {
	store := NewConversationStore(10, time.Hour)
	store.AddExchange("vid1", "", "q1", "a1")

	history := store.History("vid1", "", 0)
	history[0].Answer = "mutated"

	fresh := store.History("vid1", "", 0)
	if fresh[0].Answer != "a1" {
		t.Error("History should return a copy, not the internal slice")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewConversationStore(3, 50*time.Millisecond)
	videos := []string{"vid1", "vid2", "vid3"}

	var wg sync.WaitGroup
	for _, videoID := range videos {
		for i := range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := range 25 {
					q := fmt.Sprintf("q%d-%d", i, j)
					store.AddExchange(videoID, "sess", q, "a")
					store.History(videoID, "sess", 0)
					store.Len(videoID, "sess")
					if j%10 == 0 {
						store.Clear(videoID, "sess")
					}
				}
			}()
		}
	}
	wg.Wait()

	// Sessions survived the churn and the history cap still holds
	for _, videoID := range videos {
		if got := store.Len(videoID, "sess"); got > 3 {
			t.Errorf("history for %s exceeded cap: %d", videoID, got)
		}
	}
}

func TestFormatHistory(t *testing.T) {
	if got := FormatHistory(nil); got != "" {
		t.Errorf("FormatHistory(nil) = %q, want empty", got)
	}

	history := []Exchange{
		{Question: "first?", Answer: "one"},
		{Question: "second?", Answer: "two"},
	}
	got := FormatHistory(history)

	if !strings.HasPrefix(got, "\n\nPrevious conversation:\n") {
		t.Errorf("missing header: %q", got)
	}
	want := "\n\nPrevious conversation:\n\nQ1: first?\nA1: one\n\nQ2: second?\nA2: two\n"
	if got != want {
		t.Errorf("FormatHistory() = %q, want %q", got, want)
	}
}
