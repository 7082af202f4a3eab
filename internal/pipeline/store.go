package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// Artifact keys within a run's scoped working directory.
const (
	KeyAudio       = "audio.wav"
	KeyDiarization = "diarization.rttm"
)

// ClipsDirName holds the per-turn audio clips; it is cleared and recreated
// at the start of every transcription stage.
const ClipsDirName = "clips"

// Store persists run artifacts for reuse across runs (skip flags).
type Store interface {
	// Get returns the artifact bytes and whether the artifact exists.
	Get(key string) ([]byte, bool, error)

	// Put writes an artifact, replacing any previous value.
	Put(key string, data []byte) error

	// Path returns the filesystem location of an artifact, which may not
	// exist yet. Stages that stream large audio use the path directly.
	Path(key string) string
}

// DirStore is a Store backed by a working directory.
type DirStore struct {
	dir string
}

// NewDirStore creates the working directory if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the working directory root.
func (s *DirStore) Dir() string { return s.dir }

func (s *DirStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read artifact %s: %w", key, err)
	}
	return data, true, nil
}

func (s *DirStore) Put(key string, data []byte) error {
	if err := os.WriteFile(s.Path(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", key, err)
	}
	return nil
}

func (s *DirStore) Path(key string) string {
	return filepath.Join(s.dir, key)
}

// Has reports whether an artifact exists without reading it.
func (s *DirStore) Has(key string) bool {
	info, err := os.Stat(s.Path(key))
	return err == nil && info.Size() > 0
}

// ResetClipsDir clears stale clips from previous runs and recreates the
// directory.
func (s *DirStore) ResetClipsDir() (string, error) {
	dir := filepath.Join(s.dir, ClipsDirName)
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("failed to clear clips directory: %w", err)
	}
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create clips directory: %w", err)
	}
	return dir, nil
}
