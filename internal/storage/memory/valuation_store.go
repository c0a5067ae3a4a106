package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/giraffingoutloud/fftool/internal/domain"
	"github.com/giraffingoutloud/fftool/internal/storage"
)

// ValuationStore is an in-memory implementation of storage.ValuationStore.
type ValuationStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ValuationResult // keyed by player_id
}

// NewValuationStore creates a new in-memory valuation store.
func NewValuationStore() *ValuationStore {
	return &ValuationStore{
		data: make(map[string]*domain.ValuationResult),
	}
}

// Compile-time interface check.
var _ storage.ValuationStore = (*ValuationStore)(nil)

// InsertBulk adds multiple results. Fails the whole batch on any duplicate player_id.
func (s *ValuationStore) InsertBulk(_ context.Context, results []*domain.ValuationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range results {
		if r == nil || r.PlayerID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[r.PlayerID]; exists {
			return storage.ErrDuplicateKey
		}
	}
	for _, r := range results {
		resultCopy := *r
		s.data[r.PlayerID] = &resultCopy
	}
	return nil
}

// GetByID retrieves a result by player ID. Returns ErrNotFound if not exists.
func (s *ValuationStore) GetByID(_ context.Context, playerID string) (*domain.ValuationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[playerID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	resultCopy := *r
	return &resultCopy, nil
}

// GetByPosition retrieves results at one position, ordered by auction value DESC.
func (s *ValuationStore) GetByPosition(_ context.Context, pos domain.Position) ([]*domain.ValuationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ValuationResult
	for _, r := range s.data {
		if r.Position == pos {
			resultCopy := *r
			result = append(result, &resultCopy)
		}
	}

	sortByValue(result)
	return result, nil
}

// List retrieves all results, ordered by auction value DESC then player name ASC.
func (s *ValuationStore) List(_ context.Context) ([]*domain.ValuationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ValuationResult, 0, len(s.data))
	for _, r := range s.data {
		resultCopy := *r
		result = append(result, &resultCopy)
	}

	sortByValue(result)
	return result, nil
}

func sortByValue(results []*domain.ValuationResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].AuctionValue != results[j].AuctionValue {
			return results[i].AuctionValue > results[j].AuctionValue
		}
		return results[i].PlayerName < results[j].PlayerName
	})
}
