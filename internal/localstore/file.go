package localstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// FilePersister stores cache snapshots as a single JSON document on disk.
type FilePersister struct {
	path string
}

// NewFilePersister creates the snapshot's parent directory if needed.
func NewFilePersister(path string) (*FilePersister, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &FilePersister{path: path}, nil
}

// Load reads the snapshot. A missing file returns (nil, nil).
func (p *FilePersister) Load(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save writes the snapshot via a temp file rename so a crash mid-write
// never leaves a truncated snapshot behind.
func (p *FilePersister) Save(_ context.Context, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p.path)
}
