package driving

import (
	"context"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// RouterService classifies free-text messages and decomposes work requests
// into routed tasks.
type RouterService interface {
	// Classify detects the intent of a message. It never fails; an
	// unmatched message classifies as task execution.
	Classify(message string) domain.Classification

	// Decompose splits a work request into tasks routed to departments.
	// It always returns at least one task when the roster is non-empty,
	// falling back to a single task for the best-matching department.
	// Returns domain.ErrNoDepartments on an empty roster.
	Decompose(ctx context.Context, message string, departments []domain.Department) ([]domain.ProposedTask, error)
}
