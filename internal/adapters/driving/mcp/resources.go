package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/operand-hq/crewd/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for crewd resources.
	uriScheme = "crewd://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "knowledge",
		Name:        "knowledge",
		Description: "The full company knowledge corpus in markdown",
		MIMEType:    "text/markdown",
	}, s.handleKnowledgeResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "departments",
		Name:        "departments",
		Description: "The current department roster",
		MIMEType:    "application/json",
	}, s.handleDepartmentsResource)
}

// handleKnowledgeResource returns the corpus text.
func (s *Server) handleKnowledgeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	text := ""
	if s.ports.Knowledge != nil {
		var err error
		text, err = s.ports.Knowledge.Read(ctx)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("reading corpus: %w", err)
		}
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     text,
		}},
	}, nil
}

// handleDepartmentsResource returns the department roster.
func (s *Server) handleDepartmentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type departmentInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	infos := []departmentInfo{}
	if s.ports.Dispatch != nil {
		departments, err := s.ports.Dispatch.Departments(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing departments: %w", err)
		}
		infos = make([]departmentInfo, len(departments))
		for i, dept := range departments {
			infos[i] = departmentInfo{
				Name:        dept.Name,
				Description: dept.Description,
			}
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling departments: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
