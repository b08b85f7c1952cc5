package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/core/ports/driven"
	"github.com/operand-hq/crewd/internal/core/ports/driving"
	"github.com/operand-hq/crewd/internal/knowledge/corpus"
	"github.com/operand-hq/crewd/internal/logger"
)

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeService = (*KnowledgeService)(nil)

// KnowledgeService owns all mutations of the shared knowledge corpus.
//
// Mutations are serialised read-modify-write cycles: parse the current
// text, apply the change, write the canonical serialisation back, then
// invalidate the retrieval index. The mutex guarantees no two mutations
// interleave even when the store itself would allow it.
type KnowledgeService struct {
	corpusStore driven.CorpusStore
	retrieval   driving.RetrievalService

	mu sync.Mutex
}

// NewKnowledgeService creates a knowledge service over the given corpus store.
func NewKnowledgeService(corpusStore driven.CorpusStore) *KnowledgeService {
	return &KnowledgeService{corpusStore: corpusStore}
}

// SetRetrievalService sets the retrieval service to invalidate on mutation.
// Optional; without it mutations still persist but searches may serve a
// stale index.
func (s *KnowledgeService) SetRetrievalService(retrieval driving.RetrievalService) {
	s.retrieval = retrieval
}

// Read returns the full corpus text.
func (s *KnowledgeService) Read(ctx context.Context) (string, error) {
	text, err := s.corpusStore.Read(ctx)
	if err != nil {
		return "", fmt.Errorf("read corpus: %w", err)
	}
	return text, nil
}

// SetOverview replaces the company overview fields. Empty values leave the
// existing field untouched. A missing corpus is created.
func (s *KnowledgeService) SetOverview(ctx context.Context, industry, mission string) error {
	logger.Debug("Set overview: industry=%q mission=%q", industry, mission)
	return s.mutate(ctx, func(doc *corpus.Document) {
		doc.SetIndustry(industry)
		doc.SetMission(mission)
	})
}

// AddDepartment creates an empty department block with the placeholder
// past-work entry. Adding an existing department is a no-op.
func (s *KnowledgeService) AddDepartment(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty department name", domain.ErrInvalidInput)
	}
	logger.Debug("Add department: %q", name)
	return s.mutate(ctx, func(doc *corpus.Document) {
		doc.EnsureDepartment(name)
	})
}

// AppendPastWork records a completed work entry for a department, newest
// first. The department is created when absent.
func (s *KnowledgeService) AppendPastWork(ctx context.Context, department, entry string) error {
	if department == "" || entry == "" {
		return fmt.Errorf("%w: department and entry required", domain.ErrInvalidInput)
	}
	logger.Debug("Append past work: department=%q", department)
	return s.mutate(ctx, func(doc *corpus.Document) {
		doc.AppendPastWork(department, entry)
	})
}

// AppendNote records a shared note, newest first.
func (s *KnowledgeService) AppendNote(ctx context.Context, note string) error {
	if note == "" {
		return fmt.Errorf("%w: empty note", domain.ErrInvalidInput)
	}
	logger.Debug("Append note")
	return s.mutate(ctx, func(doc *corpus.Document) {
		doc.AppendNote(note)
	})
}

// mutate runs one serialised read-modify-write cycle and invalidates the
// retrieval index on success.
func (s *KnowledgeService) mutate(ctx context.Context, apply func(*corpus.Document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := s.corpusStore.Read(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("read corpus: %w", err)
	}

	doc := corpus.Parse(text)
	apply(doc)

	if err := s.corpusStore.Write(ctx, doc.String()); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}

	if s.retrieval != nil {
		s.retrieval.Invalidate()
	}
	return nil
}
