package memory

import (
	"context"
	"sync"

	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/core/ports/driven"
)

// Ensure ExecutionStore implements the interface.
var _ driven.ExecutionStore = (*ExecutionStore)(nil)

// ExecutionStore is an in-memory implementation of driven.ExecutionStore.
// Records are held newest first.
type ExecutionStore struct {
	mu      sync.RWMutex
	records []domain.ExecutionRecord
}

// NewExecutionStore creates a new in-memory execution store.
func NewExecutionStore() *ExecutionStore {
	return &ExecutionStore{}
}

// Save stores or updates an execution record.
func (s *ExecutionStore) Save(_ context.Context, record domain.ExecutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.records {
		if existing.ID == record.ID {
			s.records[i] = record
			return nil
		}
	}
	s.records = append([]domain.ExecutionRecord{record}, s.records...)
	return nil
}

// Recent returns the most recent executions for a department, newest first.
// An empty department returns executions across all departments.
func (s *ExecutionStore) Recent(_ context.Context, department string, limit int) ([]domain.ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(department, limit, false), nil
}

// RecentWithFeedback returns the most recent rated executions, newest first.
func (s *ExecutionStore) RecentWithFeedback(_ context.Context, department string, limit int) ([]domain.ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(department, limit, true), nil
}

// filter selects matching records (caller must hold lock).
func (s *ExecutionStore) filter(department string, limit int, ratedOnly bool) []domain.ExecutionRecord {
	var out []domain.ExecutionRecord
	for _, rec := range s.records {
		if department != "" && rec.Department != department {
			continue
		}
		if ratedOnly && rec.Feedback == nil {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out
}

// SetFeedback attaches CEO feedback to an execution.
func (s *ExecutionStore) SetFeedback(_ context.Context, id string, feedback domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			fb := feedback
			s.records[i].Feedback = &fb
			return nil
		}
	}
	return domain.ErrNotFound
}

// Close releases resources.
func (s *ExecutionStore) Close() error {
	return nil
}
