// Package memory provides in-memory storage adapters, used primarily in tests
// and for ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory implementation of driven.CorpusStore.
type CorpusStore struct {
	mu      sync.RWMutex
	text    string
	written bool
}

// NewCorpusStore creates a new in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{}
}

// Read returns the current corpus text.
func (s *CorpusStore) Read(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.written {
		return "", domain.ErrNotFound
	}
	return s.text, nil
}

// Write replaces the corpus text.
func (s *CorpusStore) Write(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.written = true
	return nil
}
