package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operand-hq/crewd/internal/core/domain"
)

func TestCorpusStore_ReadBeforeWrite(t *testing.T) {
	store := NewCorpusStore()

	_, err := store.Read(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCorpusStore_WriteThenRead(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "# Company Overview\n"))

	text, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "# Company Overview\n", text)
}

func TestCorpusStore_WriteReplaces(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "first"))
	require.NoError(t, store.Write(ctx, "second"))

	text, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", text)
}

func TestCorpusStore_EmptyWriteIsNotMissing(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, ""))

	text, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}
