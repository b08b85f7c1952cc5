package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/knowledge/corpus"
)

func TestKnowledgeService_SetOverview_CreatesCorpus(t *testing.T) {
	store := &mockCorpusStore{}
	service := NewKnowledgeService(store)
	ctx := context.Background()

	err := service.SetOverview(ctx, "logistics", "Move things fast.")

	require.NoError(t, err)
	text, err := service.Read(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "# Company Overview")
	assert.Contains(t, text, "Industry: logistics")
	assert.Contains(t, text, "Mission: Move things fast.")
}

func TestKnowledgeService_SetOverview_EmptyValuesKeepExisting(t *testing.T) {
	store := &mockCorpusStore{}
	service := NewKnowledgeService(store)
	ctx := context.Background()

	require.NoError(t, service.SetOverview(ctx, "logistics", "Move things fast."))
	require.NoError(t, service.SetOverview(ctx, "", ""))

	text, err := service.Read(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "Industry: logistics")
	assert.Contains(t, text, "Mission: Move things fast.")
}

func TestKnowledgeService_AddDepartment_Idempotent(t *testing.T) {
	store := &mockCorpusStore{}
	service := NewKnowledgeService(store)
	ctx := context.Background()

	require.NoError(t, service.AddDepartment(ctx, "Marketing"))
	require.NoError(t, service.AddDepartment(ctx, "Marketing"))

	text, err := service.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(text, "## Marketing"))
	assert.Contains(t, text, corpus.PastWorkPlaceholder)
}

func TestKnowledgeService_AddDepartment_EmptyName(t *testing.T) {
	service := NewKnowledgeService(&mockCorpusStore{})

	err := service.AddDepartment(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKnowledgeService_AppendPastWork_ReplacesPlaceholder(t *testing.T) {
	store := &mockCorpusStore{}
	service := NewKnowledgeService(store)
	ctx := context.Background()

	require.NoError(t, service.AddDepartment(ctx, "Sales"))
	require.NoError(t, service.AppendPastWork(ctx, "Sales", "Closed the Acme deal"))

	text, err := service.Read(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "- Closed the Acme deal")
	assert.NotContains(t, text, corpus.PastWorkPlaceholder)
}

func TestKnowledgeService_AppendPastWork_RetentionCap(t *testing.T) {
	store := &mockCorpusStore{}
	service := NewKnowledgeService(store)
	ctx := context.Background()

	for i := 1; i <= corpus.PastWorkCap+1; i++ {
		require.NoError(t, service.AppendPastWork(ctx, "Sales", fmt.Sprintf("entry %d", i)))
	}

	text, err := service.Read(ctx)
	require.NoError(t, err)
	doc := corpus.Parse(text)
	dept := doc.Department("Sales")
	require.NotNil(t, dept)
	require.Len(t, dept.PastWork, corpus.PastWorkCap)

	// Newest first, oldest evicted.
	assert.Equal(t, fmt.Sprintf("entry %d", corpus.PastWorkCap+1), dept.PastWork[0])
	assert.Equal(t, "entry 2", dept.PastWork[corpus.PastWorkCap-1])
	assert.NotContains(t, text, "- entry 1\n")
}

func TestKnowledgeService_AppendPastWork_CreatesMissingDepartment(t *testing.T) {
	store := &mockCorpusStore{}
	service := NewKnowledgeService(store)
	ctx := context.Background()

	require.NoError(t, service.AppendPastWork(ctx, "Support", "Resolved a ticket backlog"))

	text, err := service.Read(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "## Support")
	assert.Contains(t, text, "- Resolved a ticket backlog")
}

func TestKnowledgeService_AppendNote_RetentionCap(t *testing.T) {
	store := &mockCorpusStore{}
	service := NewKnowledgeService(store)
	ctx := context.Background()

	for i := 1; i <= corpus.NotesCap+2; i++ {
		require.NoError(t, service.AppendNote(ctx, fmt.Sprintf("note %d", i)))
	}

	text, err := service.Read(ctx)
	require.NoError(t, err)
	doc := corpus.Parse(text)
	require.Len(t, doc.Notes, corpus.NotesCap)
	assert.Equal(t, fmt.Sprintf("note %d", corpus.NotesCap+2), doc.Notes[0])
}

func TestKnowledgeService_MutationInvalidatesIndex(t *testing.T) {
	store := &mockCorpusStore{}
	retrieval := &mockRetrieval{}
	service := NewKnowledgeService(store)
	service.SetRetrievalService(retrieval)
	ctx := context.Background()

	require.NoError(t, service.SetOverview(ctx, "retail", "Sell well."))
	require.NoError(t, service.AddDepartment(ctx, "Ops"))
	require.NoError(t, service.AppendPastWork(ctx, "Ops", "Did the thing"))
	require.NoError(t, service.AppendNote(ctx, "remember this"))

	assert.Equal(t, 4, retrieval.invalidated)
}

func TestKnowledgeService_MutationKeepsCorpusParseable(t *testing.T) {
	store := &mockCorpusStore{}
	service := NewKnowledgeService(store)
	ctx := context.Background()

	require.NoError(t, service.SetOverview(ctx, "media", "Publish daily."))
	require.NoError(t, service.AddDepartment(ctx, "Editorial"))
	require.NoError(t, service.AppendPastWork(ctx, "Editorial", "Shipped the spring issue"))
	require.NoError(t, service.AppendNote(ctx, "print deadline moved"))

	text, err := service.Read(ctx)
	require.NoError(t, err)

	doc := corpus.Parse(text)
	assert.Equal(t, "media", doc.Industry)
	require.NotNil(t, doc.Department("Editorial"))
	assert.Equal(t, []string{"Shipped the spring issue"}, doc.Department("Editorial").PastWork)
	assert.Equal(t, []string{"print deadline moved"}, doc.Notes)
}
