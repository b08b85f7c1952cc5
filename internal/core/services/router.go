package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/core/ports/driven"
	"github.com/operand-hq/crewd/internal/core/ports/driving"
	"github.com/operand-hq/crewd/internal/logger"
)

// Ensure RouterService implements the interface.
var _ driving.RouterService = (*RouterService)(nil)

// bestDepartmentNone is the sentinel the routing prompt returns when no
// department fits a task.
const bestDepartmentNone = "NONE"

// jsonObjectPattern recovers a JSON object embedded in surrounding prose.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// RouterService classifies messages and decomposes work requests into
// routed tasks. The LLM service is optional: without one, decomposition
// degrades to routing the whole message to the first department.
type RouterService struct {
	llmService driven.LLMService
}

// NewRouterService creates a router service. llmService may be nil.
func NewRouterService(llmService driven.LLMService) *RouterService {
	return &RouterService{llmService: llmService}
}

// decomposition mirrors the JSON shape the decomposition prompt requests.
type decomposition struct {
	Tasks []struct {
		Task       string `json:"task"`
		Department string `json:"department"`
		Reasoning  string `json:"reasoning"`
	} `json:"tasks"`
}

// Decompose splits a work request into tasks routed to departments.
//
// Three tiers, each falling through to the next on failure so no task is
// ever dropped silently: LLM decomposition into per-department tasks, then
// single best-department selection, then the first department in the roster.
func (s *RouterService) Decompose(
	ctx context.Context, message string, departments []domain.Department,
) ([]domain.ProposedTask, error) {
	logger.Section("Task Routing")

	if len(departments) == 0 {
		return nil, domain.ErrNoDepartments
	}

	if s.llmService != nil {
		tasks, err := s.decomposeLLM(ctx, message, departments)
		if err != nil {
			logger.Warn("Decomposition failed: %v (falling back)", err)
		} else if len(tasks) > 0 {
			logger.Info("Decomposed into %d task(s)", len(tasks))
			return tasks, nil
		}
	}

	if s.llmService != nil {
		if dept := s.bestDepartment(ctx, message, departments); dept != "" {
			logger.Info("Routed whole message to %q", dept)
			return []domain.ProposedTask{{
				TaskText:         message,
				TargetDepartment: dept,
				Reasoning:        fmt.Sprintf("Task routed to %s department.", dept),
			}}, nil
		}
	}

	// Last resort keeps the task alive rather than dropping it.
	logger.Info("Routed whole message to first department %q", departments[0].Name)
	return []domain.ProposedTask{{
		TaskText:         message,
		TargetDepartment: departments[0].Name,
		Reasoning:        "No department matched; assigned to first available.",
	}}, nil
}

// decomposeLLM asks the model to split the message into routed tasks and
// parses its JSON reply. Tasks naming unknown departments are dropped.
func (s *RouterService) decomposeLLM(
	ctx context.Context, message string, departments []domain.Department,
) ([]domain.ProposedTask, error) {
	prompt := decompositionPrompt(message, departments)

	reply, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 1024})
	if err != nil {
		return nil, fmt.Errorf("decomposition call: %w", err)
	}

	// The model sometimes wraps the object in prose; recover the JSON
	// rather than failing hard.
	raw := jsonObjectPattern.FindString(reply)
	if raw == "" {
		return nil, fmt.Errorf("decomposition reply has no JSON object")
	}

	var parsed decomposition
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse decomposition: %w", err)
	}

	known := make(map[string]string, len(departments))
	for _, dept := range departments {
		known[strings.ToLower(dept.Name)] = dept.Name
	}

	tasks := make([]domain.ProposedTask, 0, len(parsed.Tasks))
	for _, t := range parsed.Tasks {
		name, ok := known[strings.ToLower(strings.TrimSpace(t.Department))]
		if !ok || strings.TrimSpace(t.Task) == "" {
			logger.Debug("Dropping task for unknown department %q", t.Department)
			continue
		}
		tasks = append(tasks, domain.ProposedTask{
			TaskText:         strings.TrimSpace(t.Task),
			TargetDepartment: name,
			Reasoning:        t.Reasoning,
		})
	}
	return tasks, nil
}

// bestDepartment asks the model to pick a single department for the whole
// message. Returns "" when the model answers the NONE sentinel, fails, or
// names an unknown department.
func (s *RouterService) bestDepartment(
	ctx context.Context, message string, departments []domain.Department,
) string {
	prompt := bestDepartmentPrompt(message, departments)

	reply, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 100})
	if err != nil {
		logger.Warn("Best-department call failed: %v", err)
		return ""
	}

	answer := strings.TrimSpace(reply)
	if strings.EqualFold(answer, bestDepartmentNone) {
		return ""
	}
	for _, dept := range departments {
		if strings.EqualFold(dept.Name, answer) {
			return dept.Name
		}
	}
	return ""
}

func decompositionPrompt(message string, departments []domain.Department) string {
	var list strings.Builder
	for _, dept := range departments {
		fmt.Fprintf(&list, "- %s: %s\n", dept.Name, dept.Description)
	}

	return fmt.Sprintf(`You are an intelligent task router for a company. Analyze the user's message and break it down into individual tasks that should be sent to different departments.

Company Departments:
%s
User Message:
%q

Your task:
1. Identify each distinct task or request in the message
2. For each task, determine which department should handle it
3. Extract ONLY the relevant portion of the message for each department

Respond in JSON format:
{
  "tasks": [
    {
      "task": "the specific task description to send to the department",
      "department": "exact department name from the list above",
      "reasoning": "brief explanation of why this department"
    }
  ]
}

Rules:
- If the message is a single task, return one item
- If the message contains multiple tasks for different departments, return multiple items
- Each "task" field should be a complete, standalone description that the department can act on
- Do NOT include parts meant for other departments in each task
- Use the EXACT department name from the list above`, list.String(), message)
}

func bestDepartmentPrompt(message string, departments []domain.Department) string {
	var list strings.Builder
	for _, dept := range departments {
		fmt.Fprintf(&list, "- %s: %s\n", dept.Name, dept.Description)
	}

	return fmt.Sprintf(`A task has come in that needs to be assigned to the appropriate department. Here are our departments:

%s
Task: %q

Analyze this task and determine which department is best suited to handle it. Consider:
1. The department's description and area of responsibility
2. The nature of the task

Respond with ONLY the department name of the best department to handle this task. Do not include any explanation, just the name.

If no department is suitable, respond with "NONE".`, list.String(), message)
}
