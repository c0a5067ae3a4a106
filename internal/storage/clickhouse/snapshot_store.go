package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/giraffingoutloud/fftool/internal/domain"
	"github.com/giraffingoutloud/fftool/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using ClickHouse. Each
// pipeline run appends one dated snapshot row per valued player, giving a
// season-over-season history of how the market priced the pool.
type SnapshotStore struct {
	conn *Conn
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(conn *Conn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// AppendSnapshot records every result under the given snapshot date.
func (s *SnapshotStore) AppendSnapshot(ctx context.Context, date time.Time, results []*domain.ValuationResult) error {
	if len(results) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO valuation_snapshots (
			snapshot_date, player_id, player_name, position, team,
			projected_points, position_rank, auction_value, confidence
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare snapshot batch: %w", err)
	}

	day := date.Truncate(24 * time.Hour)
	for _, r := range results {
		err := batch.Append(
			day,
			r.PlayerID,
			r.PlayerName,
			string(r.Position),
			r.Team,
			r.ProjectedPoints,
			int32(r.PositionRank),
			int32(r.AuctionValue),
			r.Confidence,
		)
		if err != nil {
			return fmt.Errorf("append snapshot row: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send snapshot batch: %w", err)
	}
	return nil
}

// GetSnapshot retrieves one date's snapshot, ordered by auction value DESC.
func (s *SnapshotStore) GetSnapshot(ctx context.Context, date time.Time) ([]*domain.ValuationResult, error) {
	query := `
		SELECT player_id, player_name, position, team,
		       projected_points, position_rank, auction_value, confidence
		FROM valuation_snapshots
		WHERE snapshot_date = ?
		ORDER BY auction_value DESC, player_name ASC
	`

	rows, err := s.conn.Query(ctx, query, date.Truncate(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	var result []*domain.ValuationResult
	for rows.Next() {
		var r domain.ValuationResult
		var position string
		var rank, value int32
		err := rows.Scan(
			&r.PlayerID,
			&r.PlayerName,
			&position,
			&r.Team,
			&r.ProjectedPoints,
			&rank,
			&value,
			&r.Confidence,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		r.Position = domain.Position(position)
		r.PositionRank = int(rank)
		r.AuctionValue = int(value)
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return result, nil
}
