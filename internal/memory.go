package internal

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultSession is the session identifier used when a request does
	// not supply one, so all anonymous callers on a video share history.
	DefaultSession = "default"

	defaultMaxHistory = 10
	defaultHistoryTTL = 24 * time.Hour
)

// ConversationStore keeps bounded, expiring Q&A history per video session.
// All state is in memory; history is meant as short-lived context for
// follow-up questions, not durable storage. Expiry is lazy: expired
// sessions are swept at the start of each read and write instead of by a
// background goroutine.
type ConversationStore struct {
	mu            sync.Mutex
	conversations map[string][]Exchange
	touched       map[string]time.Time
	maxHistory    int
	ttl           time.Duration
	now           func() time.Time
}

// NewConversationStore creates a store keeping at most maxHistory exchanges
// per session, expiring sessions untouched for ttl. Non-positive values
// fall back to the defaults.
func NewConversationStore(maxHistory int, ttl time.Duration) *ConversationStore {
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	if ttl <= 0 {
		ttl = defaultHistoryTTL
	}
	return &ConversationStore{
		conversations: make(map[string][]Exchange),
		touched:       make(map[string]time.Time),
		maxHistory:    maxHistory,
		ttl:           ttl,
		now:           time.Now,
	}
}

// sessionKey builds the composite key for a video session
func sessionKey(videoID, sessionID string) string {
	if sessionID == "" {
		sessionID = DefaultSession
	}
	return videoID + ":" + sessionID
}

// AddExchange appends a Q&A pair to the session, trimming the oldest
// entries beyond the history cap. This is the only operation that
// refreshes the session's expiry clock.
func (s *ConversationStore) AddExchange(videoID, sessionID, question, answer string) {
	key := sessionKey(videoID, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	history := append(s.conversations[key], Exchange{
		Question:  question,
		Answer:    answer,
		Timestamp: s.now(),
	})
	if len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}
	s.conversations[key] = history
	s.touched[key] = s.now()
}

// History returns up to limit of the most recent exchanges for a session,
// oldest first. A non-positive limit returns everything retained. The
// returned slice is a copy; reads do not refresh the expiry clock.
func (s *ConversationStore) History(videoID, sessionID string, limit int) []Exchange {
	key := sessionKey(videoID, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	history := s.conversations[key]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	out := make([]Exchange, len(history))
	copy(out, history)
	return out
}

// Len reports the number of retained exchanges for a session
func (s *ConversationStore) Len(videoID, sessionID string) int {
	key := sessionKey(videoID, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	return len(s.conversations[key])
}

// Clear removes a session's history. Clearing an unknown session is a no-op.
func (s *ConversationStore) Clear(videoID, sessionID string) {
	key := sessionKey(videoID, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conversations, key)
	delete(s.touched, key)
}

// sweepLocked drops every session whose last write is older than the TTL.
// Callers must hold s.mu.
func (s *ConversationStore) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for key, last := range s.touched {
		if last.Before(cutoff) {
			delete(s.conversations, key)
			delete(s.touched, key)
		}
	}
}

// FormatHistory renders exchanges as a text block for prompt injection.
// Returns the empty string when there is no history.
func FormatHistory(history []Exchange) string {
	if len(history) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nPrevious conversation:\n")
	for i, exchange := range history {
		sb.WriteString(fmt.Sprintf("\nQ%d: %s\nA%d: %s\n", i+1, exchange.Question, i+1, exchange.Answer))
	}
	return sb.String()
}
