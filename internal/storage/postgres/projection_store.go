package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/giraffingoutloud/fftool/internal/domain"
	"github.com/giraffingoutloud/fftool/internal/storage"
)

// ProjectionStore implements storage.ProjectionStore using PostgreSQL.
// Stats are a run-local parsing artifact and are not persisted.
type ProjectionStore struct {
	pool *Pool
}

// NewProjectionStore creates a new ProjectionStore.
func NewProjectionStore(pool *Pool) *ProjectionStore {
	return &ProjectionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProjectionStore = (*ProjectionStore)(nil)

const projectionColumns = `source_name, player_id, weight, projected_points, match_confidence`

// Insert adds a projection. Returns ErrDuplicateKey if (source, player_id) exists.
func (s *ProjectionStore) Insert(ctx context.Context, p *domain.SourceProjection) error {
	if p == nil || p.SourceName == "" || p.PlayerID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO projections (` + projectionColumns + `)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		p.SourceName,
		p.PlayerID,
		p.Weight,
		p.ProjectedPoints,
		p.MatchConfidence,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert projection: %w", err)
	}
	return nil
}

// GetByPlayer retrieves all projections for a player, ordered by source name ASC.
func (s *ProjectionStore) GetByPlayer(ctx context.Context, playerID string) ([]*domain.SourceProjection, error) {
	query := `
		SELECT ` + projectionColumns + `
		FROM projections
		WHERE player_id = $1
		ORDER BY source_name ASC
	`

	rows, err := s.pool.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("get projections by player: %w", err)
	}
	defer rows.Close()
	return scanProjections(rows)
}

// GetBySource retrieves all projections from one source, ordered by player ID ASC.
func (s *ProjectionStore) GetBySource(ctx context.Context, source string) ([]*domain.SourceProjection, error) {
	query := `
		SELECT ` + projectionColumns + `
		FROM projections
		WHERE source_name = $1
		ORDER BY player_id ASC
	`

	rows, err := s.pool.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("get projections by source: %w", err)
	}
	defer rows.Close()
	return scanProjections(rows)
}

func scanProjections(rows pgx.Rows) ([]*domain.SourceProjection, error) {
	var result []*domain.SourceProjection
	for rows.Next() {
		var p domain.SourceProjection
		err := rows.Scan(
			&p.SourceName,
			&p.PlayerID,
			&p.Weight,
			&p.ProjectedPoints,
			&p.MatchConfidence,
		)
		if err != nil {
			return nil, fmt.Errorf("scan projection: %w", err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projections: %w", err)
	}
	return result, nil
}
