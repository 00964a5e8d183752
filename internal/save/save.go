// Package save persists run snapshots to disk as JSON.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/samdwyer/delve/internal/game"
)

// ErrNoSave is returned by Load when no save file exists.
var ErrNoSave = errors.New("save: no save file")

// Storage reads and writes snapshots. The simulation never touches disk
// itself; the frontend decides when to save and hands the snapshot here.
type Storage interface {
	Save(snap *game.Snapshot) error
	Load() (*game.Snapshot, error)
	Exists() bool
	Delete() error
}

// JSONStore keeps one snapshot at a fixed path. Writes go through a
// temporary file and a rename so a crash mid-save never corrupts an
// existing save.
type JSONStore struct {
	path string
}

// NewJSONStore creates a store backed by the given path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Save writes the snapshot, replacing any previous save atomically.
func (s *JSONStore) Save(snap *game.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot.
func (s *JSONStore) Load() (*game.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Exists reports whether a save file is present.
func (s *JSONStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Delete removes the save file. Deleting a missing file is not an error.
func (s *JSONStore) Delete() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
