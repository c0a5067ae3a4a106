package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giraffingoutloud/fftool/internal/domain"
	"github.com/giraffingoutloud/fftool/internal/storage"
)

func TestProjectionStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProjectionStore(pool)
	ctx := context.Background()

	projections := []*domain.SourceProjection{
		{SourceName: "fantasypros", PlayerID: "jj1", Weight: 0.40, ProjectedPoints: 290, MatchConfidence: 1.0},
		{SourceName: "cbs", PlayerID: "jj1", Weight: 0.35, ProjectedPoints: 280, MatchConfidence: 0.95},
		{SourceName: "cbs", PlayerID: "br2", Weight: 0.35, ProjectedPoints: 310, MatchConfidence: 1.0},
	}
	for _, p := range projections {
		require.NoError(t, store.Insert(ctx, p))
	}

	// Duplicate (source, player) pair
	err := store.Insert(ctx, projections[0])
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	assert.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Insert(ctx, &domain.SourceProjection{PlayerID: "x"}), storage.ErrInvalidInput)

	byPlayer, err := store.GetByPlayer(ctx, "jj1")
	require.NoError(t, err)
	require.Len(t, byPlayer, 2)
	assert.Equal(t, "cbs", byPlayer[0].SourceName)
	assert.Equal(t, "fantasypros", byPlayer[1].SourceName)
	assert.Equal(t, 280.0, byPlayer[0].ProjectedPoints)
	assert.Equal(t, 0.95, byPlayer[0].MatchConfidence)

	bySource, err := store.GetBySource(ctx, "cbs")
	require.NoError(t, err)
	require.Len(t, bySource, 2)
	assert.Equal(t, "br2", bySource[0].PlayerID)
	assert.Equal(t, "jj1", bySource[1].PlayerID)

	empty, err := store.GetByPlayer(ctx, "nonexistent")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
