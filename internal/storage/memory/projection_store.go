package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/giraffingoutloud/fftool/internal/domain"
	"github.com/giraffingoutloud/fftool/internal/storage"
)

type projectionKey struct {
	source   string
	playerID string
}

// ProjectionStore is an in-memory implementation of storage.ProjectionStore.
type ProjectionStore struct {
	mu   sync.RWMutex
	data map[projectionKey]*domain.SourceProjection
}

// NewProjectionStore creates a new in-memory projection store.
func NewProjectionStore() *ProjectionStore {
	return &ProjectionStore{
		data: make(map[projectionKey]*domain.SourceProjection),
	}
}

// Compile-time interface check.
var _ storage.ProjectionStore = (*ProjectionStore)(nil)

// Insert adds a projection. Returns ErrDuplicateKey if (source, player_id) exists.
func (s *ProjectionStore) Insert(_ context.Context, p *domain.SourceProjection) error {
	if p == nil || p.SourceName == "" || p.PlayerID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := projectionKey{source: p.SourceName, playerID: p.PlayerID}
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[key] = copyProjection(p)
	return nil
}

// GetByPlayer retrieves all projections for a player, ordered by source name ASC.
func (s *ProjectionStore) GetByPlayer(_ context.Context, playerID string) ([]*domain.SourceProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SourceProjection
	for key, p := range s.data {
		if key.playerID == playerID {
			result = append(result, copyProjection(p))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SourceName < result[j].SourceName
	})

	return result, nil
}

// GetBySource retrieves all projections from one source, ordered by player ID ASC.
func (s *ProjectionStore) GetBySource(_ context.Context, source string) ([]*domain.SourceProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SourceProjection
	for key, p := range s.data {
		if key.source == source {
			result = append(result, copyProjection(p))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PlayerID < result[j].PlayerID
	})

	return result, nil
}

// copyProjection deep-copies a projection, stats map included.
func copyProjection(p *domain.SourceProjection) *domain.SourceProjection {
	projCopy := *p
	if p.Stats != nil {
		projCopy.Stats = make(map[string]float64, len(p.Stats))
		for k, v := range p.Stats {
			projCopy.Stats[k] = v
		}
	}
	return &projCopy
}
