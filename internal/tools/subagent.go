package tools

import (
	"context"
	"fmt"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// SubAgentToolName is the tool the model calls to spawn an ephemeral
// specialist agent for a focused sub-task.
const SubAgentToolName = "create_sub_agent"

func (r *Registry) registerSubAgent() {
	r.Register(domain.ToolDef{
		Name:        SubAgentToolName,
		Description: "Create a specialist sub-agent to handle a focused sub-task. The sub-agent runs independently and returns its final answer. Use this to delegate a well-scoped piece of work that benefits from a dedicated role.",
		InputSchema: objectSchema(map[string]any{
			"role": stringProp("The specialist role for the sub-agent, e.g. \"financial analyst\""),
			"task": stringProp("The complete, standalone task for the sub-agent"),
		}, "role", "task"),
	}, r.runSubAgent)
}

func (r *Registry) runSubAgent(ctx context.Context, input map[string]any) (string, error) {
	if r.subAgent == nil {
		return "", fmt.Errorf("%s: sub-agent execution not available", SubAgentToolName)
	}

	role := stringInput(input, "role")
	task := stringInput(input, "task")
	if role == "" || task == "" {
		return "", fmt.Errorf("%s: role and task are required", SubAgentToolName)
	}
	return r.subAgent(ctx, role, task)
}
