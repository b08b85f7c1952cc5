package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// fakeRetrieval is a fake driving.RetrievalService.
type fakeRetrieval struct {
	chunks []domain.Chunk
	stats  domain.IndexStats
	err    error
}

func (f *fakeRetrieval) Search(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.Chunk, error) {
	return f.chunks, f.err
}

func (f *fakeRetrieval) Stats(_ context.Context) (domain.IndexStats, error) {
	return f.stats, f.err
}

func (f *fakeRetrieval) Invalidate() {}

// fakeKnowledge is a fake driving.KnowledgeService.
type fakeKnowledge struct {
	text     string
	readErr  error
	industry string
	mission  string
	notes    []string
}

func (f *fakeKnowledge) Read(_ context.Context) (string, error) {
	return f.text, f.readErr
}

func (f *fakeKnowledge) SetOverview(_ context.Context, industry, mission string) error {
	f.industry, f.mission = industry, mission
	return nil
}

func (f *fakeKnowledge) AddDepartment(_ context.Context, _ string) error { return nil }

func (f *fakeKnowledge) AppendPastWork(_ context.Context, _, _ string) error { return nil }

func (f *fakeKnowledge) AppendNote(_ context.Context, note string) error {
	f.notes = append(f.notes, note)
	return nil
}

// fakeDispatch is a fake driving.DispatchService.
type fakeDispatch struct {
	events   []domain.Event
	err      error
	received string
}

func (f *fakeDispatch) Dispatch(_ context.Context, message string) (<-chan domain.Event, error) {
	f.received = message
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan domain.Event, len(f.events))
	for _, event := range f.events {
		ch <- event
	}
	close(ch)
	return ch, nil
}

func (f *fakeDispatch) Departments(_ context.Context) ([]domain.Department, error) {
	return nil, nil
}

// fakeHistory is a fake driven.ExecutionStore.
type fakeHistory struct {
	records  []domain.ExecutionRecord
	feedback map[string]domain.Feedback
	err      error
}

func (f *fakeHistory) Save(_ context.Context, _ domain.ExecutionRecord) error { return f.err }

func (f *fakeHistory) Recent(_ context.Context, _ string, _ int) ([]domain.ExecutionRecord, error) {
	return f.records, f.err
}

func (f *fakeHistory) RecentWithFeedback(_ context.Context, _ string, _ int) ([]domain.ExecutionRecord, error) {
	return f.records, f.err
}

func (f *fakeHistory) SetFeedback(_ context.Context, id string, feedback domain.Feedback) error {
	if f.err != nil {
		return f.err
	}
	for _, rec := range f.records {
		if rec.ID == id {
			if f.feedback == nil {
				f.feedback = make(map[string]domain.Feedback)
			}
			f.feedback[id] = feedback
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeHistory) Close() error { return nil }

// injectServices installs fakes so initServices is a no-op, and restores
// the previous state when the test ends.
func injectServices(t *testing.T, retrieval *fakeRetrieval, knowledge *fakeKnowledge, dispatch *fakeDispatch, history *fakeHistory) {
	t.Helper()

	prevRetrieval := retrievalService
	prevKnowledge := knowledgeService
	prevDispatch := dispatchService
	prevHistory := historyStore
	prevWired := wired

	retrievalService = retrieval
	knowledgeService = knowledge
	dispatchService = dispatch
	historyStore = history
	wired = true

	t.Cleanup(func() {
		retrievalService = prevRetrieval
		knowledgeService = prevKnowledge
		dispatchService = prevDispatch
		historyStore = prevHistory
		wired = prevWired
	})
}

// executeCommand runs the root command with args and captures output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
