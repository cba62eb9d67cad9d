package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"socialmediagen/internal/canvas"
	"socialmediagen/internal/config"
)

const (
	projectFileName = "project.json"
	lockFileName    = "workspace.lock"
)

// ErrLocked is returned when another session already holds the workspace.
var ErrLocked = errors.New("workspace is locked by another session")

// Store persists the editing session's project under the workspace
// directory so consecutive command invocations operate on the same state.
// A file lock guards against two sessions editing the same workspace.
type Store struct {
	dir  string
	lock *flock.Flock
}

// NewStore builds a store rooted at the configured workspace directory.
func NewStore(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	dir := cfg.Paths.WorkspaceDir
	return &Store{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, lockFileName)),
	}, nil
}

// Acquire takes the workspace lock. It fails fast instead of blocking when
// another session holds it.
func (s *Store) Acquire() error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Release drops the workspace lock.
func (s *Store) Release() error {
	return s.lock.Unlock()
}

// ProjectPath returns the location of the persisted project file.
func (s *Store) ProjectPath() string {
	return filepath.Join(s.dir, projectFileName)
}

// SaveProject writes the project atomically so a crash mid-write never
// leaves a truncated file behind.
func (s *Store) SaveProject(project canvas.Project) error {
	payload, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}

	target := s.ProjectPath()
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace project: %w", err)
	}
	return nil
}

// LoadProject reads the persisted project. The second return value reports
// whether a project exists at all.
func (s *Store) LoadProject() (canvas.Project, bool, error) {
	payload, err := os.ReadFile(s.ProjectPath())
	if err != nil {
		if os.IsNotExist(err) {
			return canvas.Project{}, false, nil
		}
		return canvas.Project{}, false, fmt.Errorf("read project: %w", err)
	}

	var project canvas.Project
	if err := json.Unmarshal(payload, &project); err != nil {
		return canvas.Project{}, false, fmt.Errorf("decode project: %w", err)
	}
	return project, true, nil
}

// Clear removes the persisted project.
func (s *Store) Clear() error {
	if err := os.Remove(s.ProjectPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove project: %w", err)
	}
	return nil
}
