package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SchemaVersion marks the snapshot layout. Files with a different version are
// ignored so old installs never produce half-parsed state.
const SchemaVersion = 1

// Snapshot is the persisted view state of one document.
type Snapshot struct {
	Version     int            `json:"version"`
	Page        int            `json:"page"`
	Scale       float64        `json:"scale"`
	Dark        bool           `json:"dark"`
	Marks       map[string]int `json:"marks,omitempty"`
	NamedMarks  map[string]int `json:"named_marks,omitempty"`
	JumpHistory []int          `json:"jump_history,omitempty"`
	ViewportX   float64        `json:"viewport_x,omitempty"`
	ViewportY   float64        `json:"viewport_y,omitempty"`
}

// FileStore keeps one JSON file per document id inside a directory. Writes go
// through a temp file and a rename so a crash mid-write never corrupts the
// previous snapshot.
type FileStore struct {
	dir string
}

// DefaultDir returns the platform state directory for snapshots.
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tpdf", "state"), nil
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load reads the snapshot for id. A missing file is not an error: the second
// return is false and the caller starts fresh. Version mismatches and corrupt
// files also start fresh.
func (s *FileStore) Load(id string) (Snapshot, bool, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("read snapshot %s: %w", id, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, nil
	}
	if snap.Version != SchemaVersion {
		return Snapshot{}, false, nil
	}
	return snap, true, nil
}

// Save atomically replaces the snapshot for id.
func (s *FileStore) Save(id string, snap Snapshot) error {
	snap.Version = SchemaVersion
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", id, err)
	}
	path := s.path(id)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write snapshot %s: %w", id, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit snapshot %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
