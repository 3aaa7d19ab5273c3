// Package conversation keeps short per-user chat history used to build
// language-model prompts. History is process-lifetime, in-memory only.
package conversation

import (
	"strings"
	"sync"
)

// MaxHistory is the maximum number of rendered lines kept per user.
// Each exchange contributes two lines, so ten lines cover the five most
// recent exchanges.
const MaxHistory = 10

// Store holds a bounded FIFO history of "speaker: text" lines per user.
// Entries are created lazily on first interaction and never expire on
// their own; Reset clears a user explicitly.
type Store struct {
	mu        sync.RWMutex
	limit     int
	histories map[string][]string
}

// NewStore creates a store bounded to MaxHistory lines per user.
func NewStore() *Store {
	return NewStoreWithLimit(MaxHistory)
}

// NewStoreWithLimit creates a store with a custom per-user line bound.
func NewStoreWithLimit(limit int) *Store {
	if limit < 1 {
		limit = MaxHistory
	}
	return &Store{
		limit:     limit,
		histories: make(map[string][]string),
	}
}

// AppendExchange records one user line followed by one assistant line,
// then evicts the oldest lines so at most the bound remains.
func (s *Store) AppendExchange(userID, userLine, assistantLine string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.histories[userID], userLine, assistantLine)
	if len(history) > s.limit {
		history = history[len(history)-s.limit:]
	}
	s.histories[userID] = history
}

// Render joins the user's stored lines in order, one per line. Returns
// the empty string when the user has no history.
func (s *Store) Render(userID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return strings.Join(s.histories[userID], "\n")
}

// Reset clears the user's history. Resetting an absent user is a no-op.
func (s *Store) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.histories, userID)
}

// Len returns the number of stored lines for the user.
func (s *Store) Len(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.histories[userID])
}
