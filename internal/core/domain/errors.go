package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates no LLM service is configured.
	// Routing decomposition and agent execution require one.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrCorpusUnavailable indicates the knowledge corpus cannot be read.
	// Execution continues with empty retrieved context in this case.
	ErrCorpusUnavailable = errors.New("knowledge corpus unavailable")

	// ErrNoDepartments indicates routing was attempted with an empty roster.
	ErrNoDepartments = errors.New("no departments available")

	// ErrUnknownTool indicates a tool name is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrDepthExceeded indicates the sub-agent nesting cap was reached.
	ErrDepthExceeded = errors.New("sub-agent depth exceeded")
)
