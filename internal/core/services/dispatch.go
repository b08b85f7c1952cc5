package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/core/ports/driven"
	"github.com/operand-hq/crewd/internal/core/ports/driving"
	"github.com/operand-hq/crewd/internal/knowledge/corpus"
	"github.com/operand-hq/crewd/internal/logger"
)

// Ensure DispatchService implements the interface.
var _ driving.DispatchService = (*DispatchService)(nil)

// pastWorkEntryLimit truncates long task texts in past-work entries.
const pastWorkEntryLimit = 120

// DispatchService is the top-level orchestrator: it classifies a raw
// message, applies the matching workflow, and streams the merged event
// output of the executions it triggers.
//
// The execution store is optional. Without it, runs lose feedback context
// and history but still execute.
type DispatchService struct {
	router    driving.RouterService
	execution driving.ExecutionService
	knowledge driving.KnowledgeService
	history   driven.ExecutionStore
}

// NewDispatchService creates a dispatch service.
func NewDispatchService(
	router driving.RouterService,
	execution driving.ExecutionService,
	knowledge driving.KnowledgeService,
) *DispatchService {
	return &DispatchService{
		router:    router,
		execution: execution,
		knowledge: knowledge,
	}
}

// SetExecutionStore sets the history store. Optional.
func (s *DispatchService) SetExecutionStore(store driven.ExecutionStore) {
	s.history = store
}

// Departments derives the current roster from the corpus. Each department
// block becomes a roster entry with a generated agent.
func (s *DispatchService) Departments(ctx context.Context) ([]domain.Department, error) {
	text, err := s.knowledge.Read(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load roster: %w", err)
	}

	doc := corpus.Parse(text)
	departments := make([]domain.Department, 0, len(doc.Departments))
	for _, dept := range doc.Departments {
		departments = append(departments, departmentEntry(doc, dept))
	}
	return departments, nil
}

// departmentEntry builds a roster entry from a corpus department block.
// The first intro line doubles as the routing description.
func departmentEntry(doc *corpus.Document, dept *corpus.Department) domain.Department {
	description := "Handles " + dept.Name + " work."
	if len(dept.Intro) > 0 {
		description = dept.Intro[0]
	}

	instructions := fmt.Sprintf(
		"You are the %s department of a %s company. Mission: %s\n\nHandle assigned tasks within your department's area of responsibility. Be concrete and actionable.",
		dept.Name, doc.Industry, doc.Mission)

	return domain.Department{
		Name:        dept.Name,
		Description: description,
		Agent: domain.Agent{
			Name:         dept.Name + " Agent",
			Instructions: instructions,
			ToolsEnabled: true,
		},
	}
}

// Dispatch processes a message end to end.
func (s *DispatchService) Dispatch(ctx context.Context, message string) (<-chan domain.Event, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}

	classification := s.router.Classify(message)
	logger.Section("Dispatch")
	logger.Info("Intent: %s", classification.Intent)

	events := make(chan domain.Event, 16)
	go func() {
		defer close(events)
		switch classification.Intent {
		case domain.IntentCompanyCreation:
			s.createCompany(ctx, classification, events)
		case domain.IntentOrgUnitCreation:
			s.createDepartment(ctx, classification, events)
		case domain.IntentTaskGeneration:
			s.generateTasks(ctx, classification, events)
		case domain.IntentTaskExecution:
			s.executeTasks(ctx, classification, events)
		default:
			s.answerQuery(ctx, classification, events)
		}
	}()
	return events, nil
}

// createCompany bootstraps the corpus overview for a new company.
func (s *DispatchService) createCompany(
	ctx context.Context, c domain.Classification, events chan<- domain.Event,
) {
	if err := s.knowledge.SetOverview(ctx, c.Industry, c.Description); err != nil {
		s.emitOutcome(events, "", fmt.Errorf("create company: %w", err))
		return
	}
	s.emitOutcome(events, fmt.Sprintf(
		"Created a %s company. Add departments with messages like \"create a marketing department\".",
		c.Industry), nil)
}

// createDepartment adds a department block named by the message. The name
// is extracted with a lightweight model call, falling back to the raw
// message on failure.
func (s *DispatchService) createDepartment(
	ctx context.Context, c domain.Classification, events chan<- domain.Event,
) {
	name := extractDepartmentName(c.Description)
	if name == "" {
		s.emitOutcome(events, "", fmt.Errorf("%w: could not determine department name", domain.ErrInvalidInput))
		return
	}
	if err := s.knowledge.AddDepartment(ctx, name); err != nil {
		s.emitOutcome(events, "", fmt.Errorf("create department: %w", err))
		return
	}
	s.emitOutcome(events, fmt.Sprintf("Created the %s department.", name), nil)
}

// generateTasks asks each department's agent for suggested next work and
// reports the combined proposals.
func (s *DispatchService) generateTasks(
	ctx context.Context, c domain.Classification, events chan<- domain.Event,
) {
	departments, err := s.Departments(ctx)
	if err != nil {
		s.emitOutcome(events, "", err)
		return
	}
	if len(departments) == 0 {
		s.emitOutcome(events, "", domain.ErrNoDepartments)
		return
	}

	agent := domain.Agent{
		Name: "Planning Agent",
		Instructions: "You are a planning assistant. Given the company's departments, propose a short list of concrete, actionable tasks per department. Keep each task one sentence.",
	}

	var roster strings.Builder
	for _, dept := range departments {
		fmt.Fprintf(&roster, "- %s: %s\n", dept.Name, dept.Description)
	}
	task := fmt.Sprintf("Departments:\n%s\nRequest: %s", roster.String(), c.Description)

	s.forward(ctx, domain.ExecutionRequest{TaskText: task, Agent: agent}, events)
}

// answerQuery answers a question using a tool-less agent grounded in
// retrieved knowledge.
func (s *DispatchService) answerQuery(
	ctx context.Context, c domain.Classification, events chan<- domain.Event,
) {
	agent := domain.Agent{
		Name: "CEO Assistant",
		Instructions: "You are the CEO's assistant. Answer questions about the company using the provided company knowledge. Be direct and concise. If the knowledge does not cover the question, say so.",
	}
	s.forward(ctx, domain.ExecutionRequest{TaskText: c.Description, Agent: agent}, events)
}

// executeTasks decomposes the message into routed tasks and runs them
// sequentially, continuing past failures.
func (s *DispatchService) executeTasks(
	ctx context.Context, c domain.Classification, events chan<- domain.Event,
) {
	departments, err := s.Departments(ctx)
	if err != nil {
		s.emitOutcome(events, "", err)
		return
	}

	tasks, err := s.router.Decompose(ctx, c.Description, departments)
	if err != nil {
		s.emitOutcome(events, "", fmt.Errorf("route tasks: %w", err))
		return
	}
	logger.Info("Executing %d task(s) sequentially", len(tasks))

	index := make(map[string]domain.Department, len(departments))
	for _, dept := range departments {
		index[dept.Name] = dept
	}

	for _, task := range tasks {
		dept := index[task.TargetDepartment]

		req := domain.ExecutionRequest{
			TaskText:   task.TaskText,
			Agent:      dept.Agent,
			Department: dept.Name,
		}
		if s.history != nil {
			past, err := s.history.RecentWithFeedback(ctx, dept.Name, feedbackLimit)
			if err != nil {
				logger.Warn("Feedback lookup failed: %v", err)
			} else {
				req.PastFeedback = past
			}
		}

		output, errText := s.forward(ctx, req, events)
		s.record(ctx, req, output, errText)

		if errText == "" && output != "" {
			entry := fmt.Sprintf("%s (completed by %s)", truncate(task.TaskText, pastWorkEntryLimit), dept.Agent.Name)
			if err := s.knowledge.AppendPastWork(ctx, dept.Name, entry); err != nil {
				logger.Warn("Past-work append failed: %v", err)
			}
		}
	}
}

// forward runs one execution and relays its events, returning the final
// output text and error message.
func (s *DispatchService) forward(
	ctx context.Context, req domain.ExecutionRequest, events chan<- domain.Event,
) (output, errText string) {
	for event := range s.execution.Execute(ctx, req) {
		switch event.Type {
		case domain.EventResult:
			output = event.Text
		case domain.EventError:
			errText = event.Err
		}
		events <- event
	}
	return output, errText
}

// record persists one completed execution when a store is configured.
func (s *DispatchService) record(ctx context.Context, req domain.ExecutionRequest, output, errText string) {
	if s.history == nil {
		return
	}

	status := domain.StatusCompleted
	if errText != "" {
		status = domain.StatusError
		output = errText
	}
	record := domain.ExecutionRecord{
		ID:         uuid.NewString(),
		Department: req.Department,
		AgentName:  req.Agent.Name,
		Input:      req.TaskText,
		Output:     output,
		Status:     status,
		CreatedAt:  time.Now(),
	}
	if err := s.history.Save(ctx, record); err != nil {
		logger.Warn("History save failed: %v", err)
	}
}

// emitOutcome emits the full lifecycle for workflows that never enter the
// execution loop, so callers see the same event contract everywhere.
func (s *DispatchService) emitOutcome(events chan<- domain.Event, text string, err error) {
	runID := uuid.NewString()
	now := time.Now()
	events <- domain.Event{Type: domain.EventActive, RunID: runID, Timestamp: now}
	if err != nil {
		events <- domain.Event{Type: domain.EventError, RunID: runID, Err: err.Error(), Timestamp: time.Now()}
	} else {
		events <- domain.Event{Type: domain.EventResult, RunID: runID, Text: text, Timestamp: time.Now()}
	}
	events <- domain.Event{Type: domain.EventComplete, RunID: runID, Timestamp: time.Now()}
}

// extractDepartmentName pulls the department name out of a creation
// request like "create a marketing department".
func extractDepartmentName(message string) string {
	lower := strings.ToLower(message)
	idx := strings.Index(lower, "department")
	if idx < 0 {
		return ""
	}

	before := strings.TrimSpace(message[:idx])
	words := strings.Fields(before)

	// Take the trailing words up to the last verb or article.
	stop := map[string]struct{}{
		"a": {}, "an": {}, "new": {}, "the": {}, "create": {}, "make": {},
		"build": {}, "add": {}, "start": {}, "need": {}, "want": {},
		"we": {}, "i": {}, "please": {},
	}
	var name []string
	for i := len(words) - 1; i >= 0; i-- {
		if _, isStop := stop[strings.ToLower(words[i])]; isStop {
			break
		}
		name = append([]string{words[i]}, name...)
	}
	if len(name) == 0 {
		return ""
	}
	return titleCase(strings.Join(name, " "))
}

// titleCase uppercases the first letter of every word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
