package domain

// Agent is a named instruction set bound to the LLM backend.
// The core treats it as an immutable value for the duration of one
// execution; the roster that owns agents lives outside the core.
type Agent struct {
	// Name is the display name, used in events and past-work entries.
	Name string

	// Instructions is the system prompt for the agent.
	Instructions string

	// ToolsEnabled exposes the tool registry to the model when true.
	ToolsEnabled bool
}

// Department is a roster entry tasks can be routed to.
type Department struct {
	// Name identifies the department; it doubles as the corpus block name.
	Name string

	// Description is used by the router to pick a target department.
	Description string

	// Agent handles tasks routed to this department.
	Agent Agent
}

// ProposedTask is one unit of routed work produced by task decomposition.
type ProposedTask struct {
	// TaskText is the standalone task description for the department.
	TaskText string

	// TargetDepartment is the department name the task was routed to.
	TargetDepartment string

	// Reasoning is the router's short justification, informational only.
	Reasoning string
}

// Intent is the classification of a free-text message.
type Intent string

// Intents, in routing priority order. Strong question signals always win
// and force IntentQuery regardless of task verbs in the message.
const (
	IntentQuery           Intent = "query"
	IntentCompanyCreation Intent = "company_creation"
	IntentOrgUnitCreation Intent = "org_unit_creation"
	IntentTaskGeneration  Intent = "task_generation"
	IntentTaskExecution   Intent = "task_execution"
)

// Classification is the outcome of intent classification, including
// auxiliary fields extracted from the message.
type Classification struct {
	// Intent is the detected intent.
	Intent Intent

	// Industry is extracted for company_creation requests.
	Industry string

	// Description is the original message, kept for downstream prompts.
	Description string
}
