package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/core/ports/driven"
	"github.com/operand-hq/crewd/internal/core/ports/driving"
	"github.com/operand-hq/crewd/internal/logger"
	"github.com/operand-hq/crewd/internal/tools"
)

// Ensure ExecutionService implements the interface.
var _ driving.ExecutionService = (*ExecutionService)(nil)

const (
	// DefaultMaxTurns bounds the model/tool loop of one run.
	DefaultMaxTurns = 10

	// MaxSubAgentDepth caps sub-agent nesting. A run at the cap gets a
	// fast failure from create_sub_agent instead of runaway recursion.
	MaxSubAgentDepth = 2

	// contextChunkLimit is the top-K of retrieved knowledge injected
	// into the system prompt.
	contextChunkLimit = 3

	// feedbackLimit is how many rated past executions are injected.
	feedbackLimit = 3

	// noResponsePlaceholder stands in when the model produced no final
	// text, including turn cap exits.
	noResponsePlaceholder = "No response"
)

// ExecutionService runs one task through a bounded model/tool loop and
// streams lifecycle events.
//
// The retrieval service is optional: without it, runs execute with empty
// knowledge context. A corpus read failure likewise degrades to empty
// context rather than aborting the run.
type ExecutionService struct {
	llmService driven.LLMService
	registry   *tools.Registry
	retrieval  driving.RetrievalService

	maxTurns int
	now      func() time.Time
}

// NewExecutionService creates an execution service.
func NewExecutionService(llmService driven.LLMService, registry *tools.Registry) *ExecutionService {
	return &ExecutionService{
		llmService: llmService,
		registry:   registry,
		maxTurns:   DefaultMaxTurns,
		now:        time.Now,
	}
}

// SetRetrievalService sets the knowledge retrieval service. Optional.
func (s *ExecutionService) SetRetrievalService(retrieval driving.RetrievalService) {
	s.retrieval = retrieval
}

// SetMaxTurns overrides the loop turn cap.
func (s *ExecutionService) SetMaxTurns(n int) {
	if n > 0 {
		s.maxTurns = n
	}
}

// depthKey threads the sub-agent nesting depth through the context.
type depthKey struct{}

func depthFrom(ctx context.Context) int {
	depth, _ := ctx.Value(depthKey{}).(int)
	return depth
}

// Execute runs the request and streams lifecycle events. The channel is
// closed after the terminal complete event.
func (s *ExecutionService) Execute(ctx context.Context, req domain.ExecutionRequest) <-chan domain.Event {
	events := make(chan domain.Event, 16)
	go func() {
		defer close(events)
		s.run(ctx, req, events)
	}()
	return events
}

// RunSubAgent executes a task with an ephemeral agent and returns its
// final text. It is wired into the tool registry as the create_sub_agent
// runner. Nesting beyond MaxSubAgentDepth fails fast.
func (s *ExecutionService) RunSubAgent(ctx context.Context, role, task string) (string, error) {
	depth := depthFrom(ctx)
	if depth >= MaxSubAgentDepth {
		return "", fmt.Errorf("%w: depth %d", domain.ErrDepthExceeded, depth)
	}

	agent := domain.Agent{
		Name:         "Sub-agent: " + role,
		Instructions: fmt.Sprintf("You are a %s. Complete the assigned task thoroughly and return a clear, complete answer.", role),
		ToolsEnabled: true,
	}
	logger.Info("Spawning sub-agent %q (depth %d)", role, depth+1)

	var result string
	var runErr error
	events := s.Execute(context.WithValue(ctx, depthKey{}, depth+1), domain.ExecutionRequest{
		TaskText: task,
		Agent:    agent,
	})
	for event := range events {
		switch event.Type {
		case domain.EventResult:
			result = event.Text
		case domain.EventError:
			runErr = fmt.Errorf("sub-agent failed: %s", event.Err)
		}
	}
	if runErr != nil {
		return "", runErr
	}
	return result, nil
}

// run drives the state machine. Whatever happens, exactly one of
// result/error is emitted, then the terminal complete event.
func (s *ExecutionService) run(ctx context.Context, req domain.ExecutionRequest, events chan<- domain.Event) {
	runID := uuid.NewString()
	logger.Section("Agent Execution")
	logger.Info("Run %s: agent=%q department=%q", runID, req.Agent.Name, req.Department)

	emit := func(event domain.Event) {
		event.RunID = runID
		event.AgentName = req.Agent.Name
		event.Timestamp = s.now()
		events <- event
	}

	emit(domain.Event{Type: domain.EventActive, TaskText: req.TaskText})

	defer emit(domain.Event{Type: domain.EventComplete})

	if s.llmService == nil {
		emit(domain.Event{Type: domain.EventError, Err: domain.ErrLLMUnavailable.Error()})
		return
	}

	systemPrompt := s.buildSystemPrompt(ctx, req)

	var declarations []domain.ToolDef
	if req.Agent.ToolsEnabled && s.registry != nil {
		declarations = s.registry.Declarations(req.CustomTools)
	}

	conversation := []driven.Turn{{
		Role:   "user",
		Blocks: []driven.ContentBlock{{Type: driven.BlockText, Text: req.TaskText}},
	}}

	lastText := ""
	for turn := 0; turn < s.maxTurns; turn++ {
		resp, err := s.llmService.ChatWithTools(ctx, systemPrompt, conversation, declarations, driven.ChatOptions{MaxTokens: 1024})
		if err != nil {
			logger.Warn("Run %s: model call failed: %v", runID, err)
			emit(domain.Event{Type: domain.EventError, Err: err.Error()})
			return
		}

		if text := resp.Text(); text != "" {
			lastText = text
		}

		uses := resp.ToolUses()
		if len(uses) == 0 {
			text := lastText
			if text == "" {
				text = noResponsePlaceholder
			}
			logger.Info("Run %s: completed in %d turn(s)", runID, turn+1)
			emit(domain.Event{Type: domain.EventResult, Text: text})
			return
		}

		conversation = append(conversation, driven.Turn{Role: "assistant", Blocks: resp.Blocks})

		results := make([]driven.ContentBlock, 0, len(uses))
		for _, use := range uses {
			emit(domain.Event{Type: domain.EventToolCall, ToolName: use.ToolName})

			output, err := s.registry.Dispatch(ctx, use.ToolName, use.ToolInput, req.CustomTools)
			block := driven.ContentBlock{
				Type:      driven.BlockToolResult,
				ToolUseID: use.ToolUseID,
				Content:   output,
			}
			if err != nil {
				// Fed back to the model so it can adapt, not fatal.
				block.Content = err.Error()
				block.IsError = true
				emit(domain.Event{Type: domain.EventToolResult, ToolName: use.ToolName, Err: err.Error()})
			} else {
				emit(domain.Event{Type: domain.EventToolResult, ToolName: use.ToolName})
			}
			results = append(results, block)
		}
		conversation = append(conversation, driven.Turn{Role: "user", Blocks: results})
	}

	// Turn cap reached; exit with whatever text the model produced.
	logger.Warn("Run %s: turn cap %d reached", runID, s.maxTurns)
	if lastText == "" {
		lastText = noResponsePlaceholder
	}
	emit(domain.Event{Type: domain.EventResult, Text: lastText})
}

// buildSystemPrompt assembles agent instructions, feedback context,
// strategy guidance, and retrieved knowledge.
func (s *ExecutionService) buildSystemPrompt(ctx context.Context, req domain.ExecutionRequest) string {
	var b strings.Builder
	b.WriteString(req.Agent.Instructions)

	if fb := feedbackContext(req.PastFeedback); fb != "" {
		b.WriteString(fb)
	}

	if req.StrategyPlan != "" {
		b.WriteString("\n\nWORKFLOW STRATEGY:\n")
		b.WriteString(req.StrategyPlan)
	}

	if kc := s.knowledgeContext(ctx, req); kc != "" {
		b.WriteString(kc)
	}

	return b.String()
}

// feedbackContext renders up to feedbackLimit rated past executions.
func feedbackContext(past []domain.ExecutionRecord) string {
	var rated []domain.ExecutionRecord
	for _, record := range past {
		if record.Feedback != nil {
			rated = append(rated, record)
		}
	}
	if len(rated) == 0 {
		return ""
	}
	if len(rated) > feedbackLimit {
		rated = rated[:feedbackLimit]
	}

	var b strings.Builder
	b.WriteString("\n\nPAST CEO FEEDBACK (Learn from this to improve your work):\n")
	for i, record := range rated {
		fmt.Fprintf(&b, "\n%d. Previous task: %q\n", i+1, record.Input)
		fmt.Fprintf(&b, "   CEO Rating: %d/5 stars\n", record.Feedback.Rating)
		if record.Feedback.Comment != "" {
			fmt.Fprintf(&b, "   CEO Comment: %q\n", record.Feedback.Comment)
		}
	}
	b.WriteString("\nUse this feedback to improve your current work.\n")
	return b.String()
}

// knowledgeContext retrieves top-K corpus chunks for the task. Retrieval
// failures degrade to empty context.
func (s *ExecutionService) knowledgeContext(ctx context.Context, req domain.ExecutionRequest) string {
	if s.retrieval == nil {
		return ""
	}

	chunks, err := s.retrieval.Search(ctx, req.TaskText, domain.SearchOptions{
		Department: req.Department,
		Limit:      contextChunkLimit,
	})
	if err != nil {
		logger.Warn("Knowledge retrieval failed: %v (continuing without context)", err)
		return ""
	}
	if len(chunks) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nRELEVANT COMPANY KNOWLEDGE:\n")
	for _, chunk := range chunks {
		fmt.Fprintf(&b, "\n[%s] %s\n", chunk.Section, chunk.Content)
	}
	return b.String()
}
