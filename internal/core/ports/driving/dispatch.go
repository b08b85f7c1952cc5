package driving

import (
	"context"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// DispatchService is the top-level entry point: it takes a raw user
// message, classifies it, applies the matching workflow, and streams the
// combined event output of any executions it triggers.
type DispatchService interface {
	// Dispatch processes a message end to end. Task requests fan out to
	// sequential per-department executions; failures in one task do not
	// stop the rest. The returned channel carries the merged event
	// stream and is closed when all work is done.
	Dispatch(ctx context.Context, message string) (<-chan domain.Event, error)

	// Departments returns the current roster, derived from the corpus.
	Departments(ctx context.Context) ([]domain.Department, error)
}
