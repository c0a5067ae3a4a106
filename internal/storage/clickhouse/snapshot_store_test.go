package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giraffingoutloud/fftool/internal/domain"
)

func TestSnapshotStore_AppendAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSnapshotStore(conn)
	ctx := context.Background()

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	results := []*domain.ValuationResult{
		{
			PlayerID: "a", PlayerName: "Bijan Robinson", Position: domain.PositionRB, Team: "ATL",
			ProjectedPoints: 300, PositionRank: 1, AuctionValue: 85, Confidence: 0.9,
		},
		{
			PlayerID: "b", PlayerName: "Justin Jefferson", Position: domain.PositionWR, Team: "MIN",
			ProjectedPoints: 280, PositionRank: 1, AuctionValue: 70, Confidence: 0.9,
		},
	}

	require.NoError(t, store.AppendSnapshot(ctx, day, results))

	got, err := store.GetSnapshot(ctx, day)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "a", got[0].PlayerID) // 85 before 70
	assert.Equal(t, domain.PositionRB, got[0].Position)
	assert.Equal(t, 85, got[0].AuctionValue)
	assert.Equal(t, 300.0, got[0].ProjectedPoints)

	// A different date is a separate snapshot.
	other, err := store.GetSnapshot(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSnapshotStore_EmptyAppendIsNoop(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSnapshotStore(conn)
	require.NoError(t, store.AppendSnapshot(context.Background(), time.Now(), nil))
}
