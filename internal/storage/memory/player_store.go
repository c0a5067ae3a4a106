package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/giraffingoutloud/fftool/internal/domain"
	"github.com/giraffingoutloud/fftool/internal/storage"
)

// PlayerStore is an in-memory implementation of storage.PlayerStore.
type PlayerStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PlayerIdentity // keyed by player_id
}

// NewPlayerStore creates a new in-memory player store.
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{
		data: make(map[string]*domain.PlayerIdentity),
	}
}

// Compile-time interface check.
var _ storage.PlayerStore = (*PlayerStore)(nil)

// Insert adds a new identity. Returns ErrDuplicateKey if player_id exists.
func (s *PlayerStore) Insert(_ context.Context, p *domain.PlayerIdentity) error {
	if p == nil || p.PlayerID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.PlayerID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	identityCopy := *p
	s.data[p.PlayerID] = &identityCopy
	return nil
}

// GetByID retrieves an identity by player ID. Returns ErrNotFound if not exists.
func (s *PlayerStore) GetByID(_ context.Context, playerID string) (*domain.PlayerIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[playerID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	identityCopy := *p
	return &identityCopy, nil
}

// List retrieves all identities, ordered by canonical name ASC.
func (s *PlayerStore) List(_ context.Context) ([]*domain.PlayerIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.PlayerIdentity, 0, len(s.data))
	for _, p := range s.data {
		identityCopy := *p
		result = append(result, &identityCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CanonicalName != result[j].CanonicalName {
			return result[i].CanonicalName < result[j].CanonicalName
		}
		return result[i].PlayerID < result[j].PlayerID
	})

	return result, nil
}

// UpdateTeam moves a player to a new team code. Returns ErrNotFound if not exists.
func (s *PlayerStore) UpdateTeam(_ context.Context, playerID, team string) error {
	if team == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.data[playerID]
	if !exists {
		return storage.ErrNotFound
	}
	p.Team = team
	return nil
}
