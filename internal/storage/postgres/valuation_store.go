package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/giraffingoutloud/fftool/internal/domain"
	"github.com/giraffingoutloud/fftool/internal/storage"
)

// ValuationStore implements storage.ValuationStore using PostgreSQL.
type ValuationStore struct {
	pool *Pool
}

// NewValuationStore creates a new ValuationStore.
func NewValuationStore(pool *Pool) *ValuationStore {
	return &ValuationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ValuationStore = (*ValuationStore)(nil)

const valuationColumns = `
	player_id, player_name, position, team,
	projected_points, position_rank, replacement_points, value_over_replacement,
	base_value, market_adjustment, tier_adjustment,
	auction_value, confidence, max_bid, target_bid, min_bid
`

// InsertBulk adds multiple results in one transaction. Fails the whole batch
// on any duplicate player_id.
func (s *ValuationStore) InsertBulk(ctx context.Context, results []*domain.ValuationResult) error {
	if len(results) == 0 {
		return nil
	}
	for _, r := range results {
		if r == nil || r.PlayerID == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin valuation batch: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO valuations (` + valuationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	for _, r := range results {
		_, err := tx.Exec(ctx, query,
			r.PlayerID,
			r.PlayerName,
			string(r.Position),
			r.Team,
			r.ProjectedPoints,
			r.PositionRank,
			r.ReplacementPoints,
			r.ValueOverReplacement,
			r.BaseValue,
			r.MarketAdjustment,
			r.TierAdjustment,
			r.AuctionValue,
			r.Confidence,
			r.MaxBid,
			r.TargetBid,
			r.MinBid,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert valuation: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit valuation batch: %w", err)
	}
	return nil
}

// GetByID retrieves a result by player ID. Returns ErrNotFound if not exists.
func (s *ValuationStore) GetByID(ctx context.Context, playerID string) (*domain.ValuationResult, error) {
	query := `SELECT ` + valuationColumns + ` FROM valuations WHERE player_id = $1`

	row := s.pool.QueryRow(ctx, query, playerID)
	r, err := scanValuation(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get valuation by id: %w", err)
	}
	return r, nil
}

// GetByPosition retrieves results at one position, ordered by auction value DESC.
func (s *ValuationStore) GetByPosition(ctx context.Context, pos domain.Position) ([]*domain.ValuationResult, error) {
	query := `
		SELECT ` + valuationColumns + `
		FROM valuations
		WHERE position = $1
		ORDER BY auction_value DESC, player_name ASC
	`

	rows, err := s.pool.Query(ctx, query, string(pos))
	if err != nil {
		return nil, fmt.Errorf("get valuations by position: %w", err)
	}
	defer rows.Close()

	return scanValuations(rows)
}

// List retrieves all results, ordered by auction value DESC then player name ASC.
func (s *ValuationStore) List(ctx context.Context) ([]*domain.ValuationResult, error) {
	query := `
		SELECT ` + valuationColumns + `
		FROM valuations
		ORDER BY auction_value DESC, player_name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list valuations: %w", err)
	}
	defer rows.Close()

	return scanValuations(rows)
}

func scanValuation(row pgx.Row) (*domain.ValuationResult, error) {
	var r domain.ValuationResult
	var position string
	err := row.Scan(
		&r.PlayerID,
		&r.PlayerName,
		&position,
		&r.Team,
		&r.ProjectedPoints,
		&r.PositionRank,
		&r.ReplacementPoints,
		&r.ValueOverReplacement,
		&r.BaseValue,
		&r.MarketAdjustment,
		&r.TierAdjustment,
		&r.AuctionValue,
		&r.Confidence,
		&r.MaxBid,
		&r.TargetBid,
		&r.MinBid,
	)
	if err != nil {
		return nil, err
	}
	r.Position = domain.Position(position)
	return &r, nil
}

func scanValuations(rows pgx.Rows) ([]*domain.ValuationResult, error) {
	var result []*domain.ValuationResult
	for rows.Next() {
		r, err := scanValuation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan valuation: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate valuations: %w", err)
	}
	return result, nil
}
