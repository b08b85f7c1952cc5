package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operand-hq/crewd/internal/core/domain"
)

func TestKnowledgeShowCmd_PrintsCorpus(t *testing.T) {
	knowledge := &fakeKnowledge{text: "# Company Overview\nIndustry: retail\n"}
	injectServices(t, &fakeRetrieval{}, knowledge, &fakeDispatch{}, &fakeHistory{})

	out, err := executeCommand(t, "knowledge", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Industry: retail")
}

func TestKnowledgeShowCmd_MissingCorpus(t *testing.T) {
	knowledge := &fakeKnowledge{readErr: domain.ErrNotFound}
	injectServices(t, &fakeRetrieval{}, knowledge, &fakeDispatch{}, &fakeHistory{})

	out, err := executeCommand(t, "knowledge", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "No knowledge corpus yet")
}

func TestKnowledgeInitCmd_SetsOverview(t *testing.T) {
	knowledge := &fakeKnowledge{}
	injectServices(t, &fakeRetrieval{}, knowledge, &fakeDispatch{}, &fakeHistory{})

	out, err := executeCommand(t, "knowledge", "init",
		"--industry", "dog grooming", "--mission", "Happy dogs")
	t.Cleanup(func() { knowledgeIndustry, knowledgeMission = "", "" })

	require.NoError(t, err)
	assert.Equal(t, "dog grooming", knowledge.industry)
	assert.Equal(t, "Happy dogs", knowledge.mission)
	assert.Contains(t, out, "initialised")
}

func TestKnowledgeNoteCmd_AppendsNote(t *testing.T) {
	knowledge := &fakeKnowledge{}
	injectServices(t, &fakeRetrieval{}, knowledge, &fakeDispatch{}, &fakeHistory{})

	_, err := executeCommand(t, "knowledge", "note", "prefer", "short", "emails")

	require.NoError(t, err)
	require.Len(t, knowledge.notes, 1)
	assert.Equal(t, "prefer short emails", knowledge.notes[0])
}

func TestKnowledgeStatsCmd(t *testing.T) {
	retrieval := &fakeRetrieval{stats: domain.IndexStats{TotalDocuments: 4, VocabularySize: 31}}
	injectServices(t, retrieval, &fakeKnowledge{}, &fakeDispatch{}, &fakeHistory{})

	out, err := executeCommand(t, "knowledge", "stats")

	require.NoError(t, err)
	assert.Contains(t, out, "Chunks: 4")
	assert.Contains(t, out, "Terms:  31")
}
