package storage

import (
	"context"
	"time"

	"github.com/giraffingoutloud/fftool/internal/domain"
)

// PlayerStore provides persistence for canonical player identities.
type PlayerStore interface {
	// Insert adds a new identity. Returns ErrDuplicateKey if player_id exists.
	Insert(ctx context.Context, p *domain.PlayerIdentity) error

	// GetByID retrieves an identity by player ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, playerID string) (*domain.PlayerIdentity, error)

	// List retrieves all identities, ordered by canonical name ASC.
	List(ctx context.Context) ([]*domain.PlayerIdentity, error)

	// UpdateTeam moves a player to a new team code. Returns ErrNotFound if not exists.
	UpdateTeam(ctx context.Context, playerID, team string) error
}

// ProjectionStore provides persistence for per-source projections.
type ProjectionStore interface {
	// Insert adds a projection. Returns ErrDuplicateKey if (source, player_id) exists.
	Insert(ctx context.Context, p *domain.SourceProjection) error

	// GetByPlayer retrieves all projections for a player, ordered by source name ASC.
	GetByPlayer(ctx context.Context, playerID string) ([]*domain.SourceProjection, error)

	// GetBySource retrieves all projections from one source, ordered by player ID ASC.
	GetBySource(ctx context.Context, source string) ([]*domain.SourceProjection, error)
}

// ValuationStore provides persistence for valuation results.
type ValuationStore interface {
	// InsertBulk adds multiple results. Fails the whole batch on any duplicate player_id.
	InsertBulk(ctx context.Context, results []*domain.ValuationResult) error

	// GetByID retrieves a result by player ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, playerID string) (*domain.ValuationResult, error)

	// GetByPosition retrieves results at one position, ordered by auction value DESC.
	GetByPosition(ctx context.Context, pos domain.Position) ([]*domain.ValuationResult, error)

	// List retrieves all results, ordered by auction value DESC then player name ASC.
	List(ctx context.Context) ([]*domain.ValuationResult, error)
}

// SnapshotStore appends dated valuation snapshots for season-over-season
// analysis. Snapshots are append-only.
type SnapshotStore interface {
	// AppendSnapshot records every result under the given snapshot date.
	AppendSnapshot(ctx context.Context, date time.Time, results []*domain.ValuationResult) error

	// GetSnapshot retrieves one date's snapshot, ordered by auction value DESC.
	GetSnapshot(ctx context.Context, date time.Time) ([]*domain.ValuationResult, error)
}
