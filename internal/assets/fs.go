package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FSStore keeps asset records as JSON documents under a root directory, one
// subdirectory per canvas id.
type FSStore struct {
	root string
}

// NewFSStore constructs a filesystem-backed asset store rooted at dir.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, errors.New("asset store: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("asset store: create root: %w", err)
	}
	return &FSStore{root: dir}, nil
}

func (s *FSStore) canvasDir(canvasID string) string {
	return filepath.Join(s.root, canvasID)
}

// Store persists one asset record for a canvas.
func (s *FSStore) Store(ctx context.Context, canvasID, url string, cost float64) (Asset, error) {
	if canvasID == "" {
		return Asset{}, errors.New("asset store: canvas id required")
	}
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

	dir := s.canvasDir(canvasID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Asset{}, fmt.Errorf("asset store: create canvas dir: %w", err)
	}
	encoded, err := json.MarshalIndent(asset, "", "  ")
	if err != nil {
		return Asset{}, fmt.Errorf("asset store: encode asset: %w", err)
	}
	path := filepath.Join(dir, asset.ID+".json")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return Asset{}, fmt.Errorf("asset store: write asset: %w", err)
	}
	return asset, nil
}

// ForCanvas lists the stored assets for a canvas, oldest first.
func (s *FSStore) ForCanvas(ctx context.Context, canvasID string) ([]Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.canvasDir(canvasID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("asset store: read canvas dir: %w", err)
	}

	var result []Asset
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.canvasDir(canvasID), entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("asset store: read asset: %w", err)
		}
		var asset Asset
		if err := json.Unmarshal(data, &asset); err != nil {
			return nil, fmt.Errorf("asset store: decode asset %s: %w", entry.Name(), err)
		}
		result = append(result, asset)
	}
	sortByCreation(result)
	return result, nil
}

// RemoveForCanvas deletes every stored asset for a canvas and reports how
// many were removed. Unknown canvas ids remove nothing.
func (s *FSStore) RemoveForCanvas(ctx context.Context, canvasID string) (int, error) {
	if canvasID == "" {
		return 0, nil
	}
	existing, err := s.ForCanvas(ctx, canvasID)
	if err != nil {
		return 0, err
	}
	if len(existing) == 0 {
		return 0, nil
	}
	if err := os.RemoveAll(s.canvasDir(canvasID)); err != nil {
		return 0, fmt.Errorf("asset store: remove canvas dir: %w", err)
	}
	return len(existing), nil
}

func sortByCreation(assets []Asset) {
	for i := 1; i < len(assets); i++ {
		for j := i; j > 0 && assets[j].CreatedAt.Before(assets[j-1].CreatedAt); j-- {
			assets[j], assets[j-1] = assets[j-1], assets[j]
		}
	}
}

var _ Store = (*FSStore)(nil)
