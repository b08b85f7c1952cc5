package driving

import (
	"context"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// RetrievalService provides lexical search over the knowledge corpus.
type RetrievalService interface {
	// Search returns corpus chunks relevant to the query, ordered by
	// descending similarity. An empty result is not an error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Chunk, error)

	// Stats reports the size of the current index, building it first if
	// needed.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Invalidate discards the cached index. The next Search rebuilds it
	// from the current corpus.
	Invalidate()
}
