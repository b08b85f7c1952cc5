package mcp

import (
	"github.com/operand-hq/crewd/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval provides knowledge corpus search.
	Retrieval driving.RetrievalService

	// Dispatch routes messages and tasks to department agents.
	Dispatch driving.DispatchService

	// Knowledge exposes the corpus text.
	Knowledge driving.KnowledgeService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Dispatch and Knowledge are optional; tools and resources that need
	// them degrade gracefully.
	return nil
}
