package driven

import "context"

// CorpusStore provides serialised access to the raw knowledge corpus text.
//
// Implementations must serialise Write against concurrent Write and Read
// calls so read-modify-write cycles in the knowledge service never observe
// a torn document.
type CorpusStore interface {
	// Read returns the full corpus text. A store with no corpus yet
	// returns domain.ErrNotFound.
	Read(ctx context.Context) (string, error)

	// Write replaces the full corpus text.
	Write(ctx context.Context, text string) error
}
