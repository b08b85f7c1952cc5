package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/core/ports/driven"
	"github.com/operand-hq/crewd/internal/core/ports/driving"
	"github.com/operand-hq/crewd/internal/knowledge/chunker"
	"github.com/operand-hq/crewd/internal/knowledge/index"
	"github.com/operand-hq/crewd/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService provides lexical search over the knowledge corpus.
//
// It owns the TF-IDF index as cached derived state: the index is built
// lazily from the corpus on first search and discarded on Invalidate.
// Rebuilds happen outside the lock and the finished index is swapped in,
// so concurrent searches keep serving the old index during a rebuild.
type RetrievalService struct {
	corpusStore driven.CorpusStore
	chunker     *chunker.Chunker

	mu    sync.RWMutex
	index *index.Index
}

// NewRetrievalService creates a retrieval service over the given corpus store.
func NewRetrievalService(corpusStore driven.CorpusStore) *RetrievalService {
	return &RetrievalService{
		corpusStore: corpusStore,
		chunker:     chunker.New(),
	}
}

// Search returns corpus chunks relevant to the query, ordered by descending
// cosine similarity. An empty query or an empty corpus returns no results
// without error.
func (s *RetrievalService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.Chunk, error) {
	logger.Section("Knowledge Search")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.Chunk{}, nil
	}

	ix, err := s.currentIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := ix.Search(query, opts)
	logger.Debug("Results: %d chunks (department=%q, type=%q)",
		len(results), opts.Department, opts.Type)
	return results, nil
}

// Stats reports the size of the current index, building it first if needed.
func (s *RetrievalService) Stats(ctx context.Context) (domain.IndexStats, error) {
	ix, err := s.currentIndex(ctx)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("index stats: %w", err)
	}
	return ix.Stats(), nil
}

// Invalidate discards the cached index. The next search rebuilds it from
// the current corpus.
func (s *RetrievalService) Invalidate() {
	s.mu.Lock()
	s.index = nil
	s.mu.Unlock()
	logger.Debug("Retrieval index invalidated")
}

// currentIndex returns the cached index, rebuilding it when invalidated.
// Concurrent rebuilds are harmless: each produces an index over some
// recent corpus state, and the last swap wins.
func (s *RetrievalService) currentIndex(ctx context.Context) (*index.Index, error) {
	s.mu.RLock()
	ix := s.index
	s.mu.RUnlock()
	if ix != nil {
		return ix, nil
	}

	text, err := s.corpusStore.Read(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No corpus yet means an empty index, not a failure.
			text = ""
		} else {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorpusUnavailable, err)
		}
	}

	chunks := s.chunker.Chunk(text)
	ix = index.Build(chunks)
	logger.Info("Index rebuilt: %d chunks, %d terms",
		ix.Stats().TotalDocuments, ix.Stats().VocabularySize)

	s.mu.Lock()
	s.index = ix
	s.mu.Unlock()
	return ix, nil
}
