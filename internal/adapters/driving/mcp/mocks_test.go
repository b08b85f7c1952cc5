package mcp

import (
	"context"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	chunks []domain.Chunk
	err    error
}

func (m *mockRetrievalService) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockRetrievalService) Stats(_ context.Context) (domain.IndexStats, error) {
	return domain.IndexStats{TotalDocuments: len(m.chunks)}, m.err
}

func (m *mockRetrievalService) Invalidate() {}

// mockDispatchService is a mock implementation of driving.DispatchService.
type mockDispatchService struct {
	events      []domain.Event
	departments []domain.Department
	err         error
}

func (m *mockDispatchService) Dispatch(_ context.Context, _ string) (<-chan domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan domain.Event, len(m.events))
	for _, event := range m.events {
		ch <- event
	}
	close(ch)
	return ch, nil
}

func (m *mockDispatchService) Departments(_ context.Context) ([]domain.Department, error) {
	return m.departments, m.err
}

// mockKnowledgeService is a mock implementation of driving.KnowledgeService.
type mockKnowledgeService struct {
	text string
	err  error
}

func (m *mockKnowledgeService) Read(_ context.Context) (string, error) {
	return m.text, m.err
}

func (m *mockKnowledgeService) SetOverview(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockKnowledgeService) AddDepartment(_ context.Context, _ string) error {
	return m.err
}

func (m *mockKnowledgeService) AppendPastWork(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockKnowledgeService) AppendNote(_ context.Context, _ string) error {
	return m.err
}
