package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File is the on-disk persistence adapter. Saves replace the target with a
// rename so an interrupted write leaves either the old document or the new
// one, never a truncated mix.
type File struct {
	path string
}

// NewFile creates an adapter for the given data file path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the data file location.
func (f *File) Path() string {
	return f.path
}

// Load reads the most recent snapshot. A missing file is a first run and
// yields the empty snapshot, not an error. A document that fails to parse,
// fails schema validation, or carries an unknown version yields a
// PersistenceError.
func (f *File) Load() (*Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, &PersistenceError{Op: "load", Path: f.path, Err: err}
	}

	if err := validate(data); err != nil {
		return nil, &PersistenceError{Op: "load", Path: f.path, Err: err}
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &PersistenceError{Op: "load", Path: f.path, Err: err}
	}
	if err := checkVersion(&s); err != nil {
		return nil, &PersistenceError{Op: "load", Path: f.path, Err: err}
	}
	s.normalize()
	return &s, nil
}

// Save writes a complete new snapshot. The document is written to a
// temporary file in the same directory, synced, and renamed over the target.
func (f *File) Save(s *Snapshot) error {
	s.normalize()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &PersistenceError{Op: "save", Path: f.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return &PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	tmpPath := tmp.Name()
	if err := writeAndClose(tmp, data); err != nil {
		os.Remove(tmpPath)
		return &PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return &PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return &PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	return nil
}

func writeAndClose(tmp *os.File, data []byte) error {
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}
