package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operand-hq/crewd/internal/core/domain"
)

func TestSearchCmd_PrintsResults(t *testing.T) {
	retrieval := &fakeRetrieval{
		chunks: []domain.Chunk{
			{
				ID:         "chunk_0",
				Content:    "Launched the spring campaign",
				Section:    "Marketing - Past work",
				Department: "Marketing",
				Type:       domain.ChunkTypeLearning,
			},
		},
	}
	injectServices(t, retrieval, &fakeKnowledge{}, &fakeDispatch{}, &fakeHistory{})

	out, err := executeCommand(t, "search", "campaign")

	require.NoError(t, err)
	assert.Contains(t, out, "Marketing - Past work")
	assert.Contains(t, out, "Launched the spring campaign")
}

func TestSearchCmd_NoResults(t *testing.T) {
	injectServices(t, &fakeRetrieval{}, &fakeKnowledge{}, &fakeDispatch{}, &fakeHistory{})

	out, err := executeCommand(t, "search", "nothing")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	retrieval := &fakeRetrieval{
		chunks: []domain.Chunk{
			{ID: "chunk_0", Content: "content", Section: "Notes", Type: domain.ChunkTypeGeneral},
		},
	}
	injectServices(t, retrieval, &fakeKnowledge{}, &fakeDispatch{}, &fakeHistory{})

	out, err := executeCommand(t, "search", "content", "--json")
	t.Cleanup(func() { searchJSON = false })

	require.NoError(t, err)
	assert.Contains(t, out, `"chunk_0"`)
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	injectServices(t, &fakeRetrieval{}, &fakeKnowledge{}, &fakeDispatch{}, &fakeHistory{})

	_, err := executeCommand(t, "search")

	require.Error(t, err)
}
