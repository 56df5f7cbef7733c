package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerStore(t *testing.T) {
	store := NewBadgerStore(t.TempDir())
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestBadgerStoreInMemory(t *testing.T) {
	store := NewBadgerStore("")
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestBadgerStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := NewBadgerStore(dir)
	require.NoError(t, store.Init(ctx))
	require.NoError(t, store.SaveSummary(ctx, testSummary("run", 1, 2)))
	require.NoError(t, store.Close())

	reopened := NewBadgerStore(dir)
	require.NoError(t, reopened.Init(ctx))
	t.Cleanup(func() { _ = reopened.Close() })
	summaries, err := reopened.ListSummaries(ctx, "run")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2.0, summaries[0].Best)
}

func TestBadgerStoreRequiresInit(t *testing.T) {
	_, err := NewBadgerStore(t.TempDir()).ListRuns(context.Background())
	assert.Error(t, err)
}
