package domain

import "time"

// EventType tags a lifecycle event emitted by the execution loop.
type EventType string

// Lifecycle event types. Every run emits exactly one EventActive, then
// zero or more tool events, then exactly one of EventResult/EventError,
// then exactly one EventComplete.
const (
	EventActive     EventType = "active"
	EventToolCall   EventType = "tool_call"
	EventToolResult EventType = "tool_result"
	EventResult     EventType = "result"
	EventError      EventType = "error"
	EventComplete   EventType = "complete"
)

// Event is one entry in the execution lifecycle stream. The wire encoding
// (SSE, JSON lines, ...) is a transport concern; the core only deals in
// this struct.
type Event struct {
	// Type is the lifecycle tag.
	Type EventType

	// RunID identifies the execution the event belongs to.
	RunID string

	// AgentName is the executing agent.
	AgentName string

	// TaskText is the task being executed, set on EventActive.
	TaskText string

	// Text carries the final output on EventResult.
	Text string

	// ToolName is set on tool events.
	ToolName string

	// Err carries the failure message on EventError and error-flagged
	// tool results.
	Err string

	// Timestamp is when the event was emitted.
	Timestamp time.Time
}

// ExecutionRequest is the input the core accepts from the outer layer for
// one agent run.
type ExecutionRequest struct {
	// TaskText is the task to execute.
	TaskText string

	// Agent executes the task.
	Agent Agent

	// Department scopes knowledge retrieval and past-work recording.
	Department string

	// PastFeedback holds prior rated executions used to build feedback
	// context. Optional.
	PastFeedback []ExecutionRecord

	// StrategyPlan is optional workflow-strategy guidance appended to the
	// system prompt.
	StrategyPlan string

	// CustomTools are user-defined HTTP tools merged into the registry
	// for this run. Optional.
	CustomTools []CustomTool
}

// Execution statuses recorded in history.
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Feedback is a rating attached to a past execution.
type Feedback struct {
	// Rating is 1-5.
	Rating int

	// Comment is optional free text.
	Comment string
}

// ExecutionRecord is a persisted past execution. Records with feedback are
// injected into later runs so agents can adapt.
type ExecutionRecord struct {
	ID         string
	Department string
	AgentName  string
	Input      string
	Output     string
	Status     string
	Feedback   *Feedback
	CreatedAt  time.Time
}
