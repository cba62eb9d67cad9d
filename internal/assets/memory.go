package assets

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps assets in memory. It backs tests and runs where no asset
// directory is configured.
type MemoryStore struct {
	mu     sync.Mutex
	assets map[string][]Asset
}

// NewMemoryStore constructs an empty in-memory asset store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{assets: make(map[string][]Asset)}
}

func (s *MemoryStore) Store(ctx context.Context, canvasID, url string, cost float64) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	asset := Asset{
		ID:        uuid.NewString(),
		CanvasID:  canvasID,
		URL:       url,
		Cost:      cost,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.assets[canvasID] = append(s.assets[canvasID], asset)
	s.mu.Unlock()
	return asset, nil
}

func (s *MemoryStore) ForCanvas(ctx context.Context, canvasID string) ([]Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.assets[canvasID]
	cp := make([]Asset, len(stored))
	copy(cp, stored)
	return cp, nil
}

func (s *MemoryStore) RemoveForCanvas(ctx context.Context, canvasID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	count := len(s.assets[canvasID])
	delete(s.assets, canvasID)
	return count, nil
}

var _ Store = (*MemoryStore)(nil)
