package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the search query to run against the company knowledge corpus"`
	Department string `json:"department,omitempty" jsonschema:"restrict results to a single department"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ChunkID    string `json:"chunk_id"`
	Section    string `json:"section"`
	Department string `json:"department,omitempty"`
	Type       string `json:"type"`
	Content    string `json:"content"`
}

// RunTaskInput is the input schema for the run_task tool.
type RunTaskInput struct {
	Message string `json:"message" jsonschema:"the CEO message or task to dispatch to the department agents"`
}

// RunTaskOutput is the output schema for the run_task tool.
type RunTaskOutput struct {
	Results []TaskResultOutput `json:"results"`
}

// TaskResultOutput is the outcome of one agent execution.
type TaskResultOutput struct {
	Agent  string `json:"agent"`
	Task   string `json:"task,omitempty"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the company knowledge corpus",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "run_task",
		Description: "Dispatch a message or task to the company's department agents",
	}, s.handleRunTask)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	opts := domain.SearchOptions{
		Department: input.Department,
		Limit:      limit,
	}
	chunks, err := s.ports.Retrieval.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(chunks)),
		Count:   len(chunks),
	}

	for i := range chunks {
		output.Results[i] = SearchResultOutput{
			ChunkID:    chunks[i].ID,
			Section:    chunks[i].Section,
			Department: chunks[i].Department,
			Type:       string(chunks[i].Type),
			Content:    chunks[i].Content,
		}
	}

	return nil, output, nil
}

// handleRunTask handles the run_task tool invocation. It drains the
// dispatch event stream and returns the terminal outcome per execution.
func (s *Server) handleRunTask(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunTaskInput,
) (*mcp.CallToolResult, RunTaskOutput, error) {
	if s.ports.Dispatch == nil {
		return nil, RunTaskOutput{}, errors.New("mcp: dispatch service not configured")
	}

	events, err := s.ports.Dispatch.Dispatch(ctx, input.Message)
	if err != nil {
		return nil, RunTaskOutput{}, err
	}

	var output RunTaskOutput
	var current TaskResultOutput
	for event := range events {
		switch event.Type {
		case domain.EventActive:
			current = TaskResultOutput{Agent: event.AgentName, Task: event.TaskText}
		case domain.EventResult:
			current.Output = event.Text
		case domain.EventError:
			current.Error = event.Err
		case domain.EventComplete:
			output.Results = append(output.Results, current)
		}
	}

	return nil, output, nil
}
