package driven

import (
	"context"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// ExecutionStore persists completed execution records and their feedback.
//
// This port is optional: a nil store means runs execute without feedback
// context and nothing is recorded.
type ExecutionStore interface {
	// Save persists a completed execution record.
	Save(ctx context.Context, record domain.ExecutionRecord) error

	// Recent returns the most recent records for a department, newest
	// first, up to limit.
	Recent(ctx context.Context, department string, limit int) ([]domain.ExecutionRecord, error)

	// RecentWithFeedback returns the most recent rated records for a
	// department, newest first, up to limit.
	RecentWithFeedback(ctx context.Context, department string, limit int) ([]domain.ExecutionRecord, error)

	// SetFeedback attaches a rating and optional comment to a record.
	// Returns domain.ErrNotFound when the record does not exist.
	SetFeedback(ctx context.Context, id string, feedback domain.Feedback) error

	// Close releases store resources.
	Close() error
}
