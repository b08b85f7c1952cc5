package driving

import "context"

// KnowledgeService owns all mutations of the shared knowledge corpus.
// Every mutation invalidates the retrieval index.
type KnowledgeService interface {
	// Read returns the full corpus text.
	Read(ctx context.Context) (string, error)

	// SetOverview replaces the company overview fields. Empty values
	// leave the existing field untouched.
	SetOverview(ctx context.Context, industry, mission string) error

	// AddDepartment creates an empty department block. Adding an
	// existing department is a no-op.
	AddDepartment(ctx context.Context, name string) error

	// AppendPastWork records a completed work entry for a department,
	// newest first, bounded by the past-work cap.
	AppendPastWork(ctx context.Context, department, entry string) error

	// AppendNote records a shared note, newest first, bounded by the
	// notes cap.
	AppendNote(ctx context.Context, note string) error
}
