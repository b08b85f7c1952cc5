package driving

import (
	"context"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// ExecutionService runs one task through a bounded model/tool loop.
type ExecutionService interface {
	// Execute runs the request and streams lifecycle events. The channel
	// is closed after the terminal complete event. Every run emits
	// exactly one active event, exactly one of result or error, and
	// exactly one complete event, in that relative order.
	Execute(ctx context.Context, req domain.ExecutionRequest) <-chan domain.Event
}
