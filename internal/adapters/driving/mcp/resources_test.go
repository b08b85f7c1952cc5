package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operand-hq/crewd/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestServer_handleKnowledgeResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns corpus text", func(t *testing.T) {
		ports := &Ports{
			Retrieval: &mockRetrievalService{},
			Knowledge: &mockKnowledgeService{text: "# Company Overview\nIndustry: retail\n"},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleKnowledgeResource(ctx, readRequest("crewd://knowledge"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "crewd://knowledge", result.Contents[0].URI)
		assert.Equal(t, "text/markdown", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "Industry: retail")
	})

	t.Run("missing corpus yields empty text", func(t *testing.T) {
		ports := &Ports{
			Retrieval: &mockRetrievalService{},
			Knowledge: &mockKnowledgeService{err: domain.ErrNotFound},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleKnowledgeResource(ctx, readRequest("crewd://knowledge"))

		require.NoError(t, err)
		assert.Equal(t, "", result.Contents[0].Text)
	})

	t.Run("no knowledge service yields empty text", func(t *testing.T) {
		ports := &Ports{Retrieval: &mockRetrievalService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleKnowledgeResource(ctx, readRequest("crewd://knowledge"))

		require.NoError(t, err)
		assert.Equal(t, "", result.Contents[0].Text)
	})
}

func TestServer_handleDepartmentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns roster", func(t *testing.T) {
		ports := &Ports{
			Retrieval: &mockRetrievalService{},
			Dispatch: &mockDispatchService{
				departments: []domain.Department{
					{Name: "Marketing", Description: "Handles Marketing work."},
				},
			},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleDepartmentsResource(ctx, readRequest("crewd://departments"))

		require.NoError(t, err)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "Marketing")
	})

	t.Run("no dispatch service yields empty list", func(t *testing.T) {
		ports := &Ports{Retrieval: &mockRetrievalService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleDepartmentsResource(ctx, readRequest("crewd://departments"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}
