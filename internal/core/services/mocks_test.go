package services

import (
	"context"
	"sync"

	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockCorpusStore implements driven.CorpusStore for testing.
type mockCorpusStore struct {
	mu       sync.Mutex
	text     string
	hasText  bool
	readErr  error
	writeErr error
	writes   int
}

func (m *mockCorpusStore) Read(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return "", m.readErr
	}
	if !m.hasText {
		return "", domain.ErrNotFound
	}
	return m.text, nil
}

func (m *mockCorpusStore) Write(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.text = text
	m.hasText = true
	m.writes++
	return nil
}

func (m *mockCorpusStore) seed(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.hasText = true
}

// mockLLMService implements driven.LLMService for testing. Generate
// replies are consumed in order; ChatWithTools responses likewise.
type mockLLMService struct {
	generateReplies []string
	generateErr     error
	generateCalls   []string

	chatResponses []*driven.ToolChatResponse
	chatErr       error
	chatCalls     int
	lastSystem    string
	lastTools     []domain.ToolDef
	lastTurns     []driven.Turn
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.generateCalls = append(m.generateCalls, prompt)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	if len(m.generateReplies) == 0 {
		return "", nil
	}
	reply := m.generateReplies[0]
	m.generateReplies = m.generateReplies[1:]
	return reply, nil
}

func (m *mockLLMService) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return "", nil
}

func (m *mockLLMService) ChatWithTools(
	_ context.Context, system string, turns []driven.Turn, tools []domain.ToolDef, _ driven.ChatOptions,
) (*driven.ToolChatResponse, error) {
	m.chatCalls++
	m.lastSystem = system
	m.lastTools = tools
	m.lastTurns = turns
	if m.chatErr != nil {
		return nil, m.chatErr
	}
	if len(m.chatResponses) == 0 {
		return &driven.ToolChatResponse{
			Blocks:     []driven.ContentBlock{{Type: driven.BlockText, Text: "done"}},
			StopReason: driven.StopReasonEndTurn,
		}, nil
	}
	resp := m.chatResponses[0]
	m.chatResponses = m.chatResponses[1:]
	return resp, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockRetrieval implements driving.RetrievalService for testing.
type mockRetrieval struct {
	chunks      []domain.Chunk
	searchErr   error
	invalidated int
}

func (m *mockRetrieval) Search(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.Chunk, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.chunks, nil
}

func (m *mockRetrieval) Stats(_ context.Context) (domain.IndexStats, error) {
	return domain.IndexStats{TotalDocuments: len(m.chunks)}, nil
}

func (m *mockRetrieval) Invalidate() {
	m.invalidated++
}

// mockExecutionStore implements driven.ExecutionStore for testing.
type mockExecutionStore struct {
	saved    []domain.ExecutionRecord
	rated    []domain.ExecutionRecord
	saveErr  error
	queryErr error
}

func (m *mockExecutionStore) Save(_ context.Context, record domain.ExecutionRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, record)
	return nil
}

func (m *mockExecutionStore) Recent(_ context.Context, _ string, _ int) ([]domain.ExecutionRecord, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.saved, nil
}

func (m *mockExecutionStore) RecentWithFeedback(_ context.Context, _ string, _ int) ([]domain.ExecutionRecord, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.rated, nil
}

func (m *mockExecutionStore) SetFeedback(_ context.Context, _ string, _ domain.Feedback) error {
	return nil
}

func (m *mockExecutionStore) Close() error { return nil }

// --- Test helpers ---

func textResponse(text string) *driven.ToolChatResponse {
	return &driven.ToolChatResponse{
		Blocks:     []driven.ContentBlock{{Type: driven.BlockText, Text: text}},
		StopReason: driven.StopReasonEndTurn,
	}
}

func toolUseResponse(id, name string, input map[string]any) *driven.ToolChatResponse {
	return &driven.ToolChatResponse{
		Blocks: []driven.ContentBlock{
			{Type: driven.BlockToolUse, ToolUseID: id, ToolName: name, ToolInput: input},
		},
		StopReason: driven.StopReasonToolUse,
	}
}

const testCorpus = `# Company Overview

Industry: software
Mission: Ship useful tools.

## Marketing

Owns campaigns and brand voice for the software product line.

### Past work
- Launched the spring campaign targeting enterprise customers
- Ran a webinar series about the new release

## Engineering

Builds and maintains the product platform.

### Past work
- No work completed yet
`
