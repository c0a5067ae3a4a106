package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/giraffingoutloud/fftool/internal/domain"
	"github.com/giraffingoutloud/fftool/internal/storage"
)

// PlayerStore implements storage.PlayerStore using PostgreSQL.
type PlayerStore struct {
	pool *Pool
}

// NewPlayerStore creates a new PlayerStore.
func NewPlayerStore(pool *Pool) *PlayerStore {
	return &PlayerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PlayerStore = (*PlayerStore)(nil)

// Insert adds a new identity. Returns ErrDuplicateKey if player_id exists.
func (s *PlayerStore) Insert(ctx context.Context, p *domain.PlayerIdentity) error {
	if p == nil || p.PlayerID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO players (
			player_id, canonical_name, position, team, age, is_provisional, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		p.PlayerID,
		p.CanonicalName,
		string(p.Position),
		p.Team,
		p.Age,
		p.IsProvisional,
		p.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

// GetByID retrieves an identity by player ID. Returns ErrNotFound if not exists.
func (s *PlayerStore) GetByID(ctx context.Context, playerID string) (*domain.PlayerIdentity, error) {
	query := `
		SELECT player_id, canonical_name, position, team, age, is_provisional, created_at
		FROM players
		WHERE player_id = $1
	`

	row := s.pool.QueryRow(ctx, query, playerID)
	p, err := scanPlayer(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get player by id: %w", err)
	}
	return p, nil
}

// List retrieves all identities, ordered by canonical name ASC.
func (s *PlayerStore) List(ctx context.Context) ([]*domain.PlayerIdentity, error) {
	query := `
		SELECT player_id, canonical_name, position, team, age, is_provisional, created_at
		FROM players
		ORDER BY canonical_name ASC, player_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var result []*domain.PlayerIdentity
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return result, nil
}

// UpdateTeam moves a player to a new team code. Returns ErrNotFound if not exists.
func (s *PlayerStore) UpdateTeam(ctx context.Context, playerID, team string) error {
	if team == "" {
		return storage.ErrInvalidInput
	}

	tag, err := s.pool.Exec(ctx, `UPDATE players SET team = $2 WHERE player_id = $1`, playerID, team)
	if err != nil {
		return fmt.Errorf("update player team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanPlayer(row pgx.Row) (*domain.PlayerIdentity, error) {
	var p domain.PlayerIdentity
	var position string
	err := row.Scan(
		&p.PlayerID,
		&p.CanonicalName,
		&position,
		&p.Team,
		&p.Age,
		&p.IsProvisional,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Position = domain.Position(position)
	return &p, nil
}
