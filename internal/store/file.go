package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/rajnandniparmar/Event-Finder/internal/apperrors"
	"github.com/rajnandniparmar/Event-Finder/internal/models"
)

const (
	tmpSuffix       = ".tmp"
	filePermissions = 0o644
)

// FileStore keeps events in memory and mirrors them to a JSON array file.
// Every append rewrites the whole file.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	events []models.Event
}

// NewFileStore loads path once. A missing file yields an empty store; the
// file is created on the first append.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("events file not found, starting empty")
		s.events = []models.Event{}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}

	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse events file %s: %w", path, err)
	}
	if events == nil {
		events = []models.Event{}
	}
	s.events = events

	log.Info().Str("path", path).Int("events", len(events)).Msg("events loaded")
	return s, nil
}

// List returns a copy of the events in insertion order.
func (s *FileStore) List(_ context.Context) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out, nil
}

// Append adds e and rewrites the file. If the write fails the event stays in
// memory and a PERSISTENCE error is returned.
func (s *FileStore) Append(_ context.Context, e models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, e)

	if err := s.saveLocked(); err != nil {
		return apperrors.NewPersistenceError("write events file", err)
	}
	return nil
}

// Ping checks that the directory holding the events file still exists.
func (s *FileStore) Ping(_ context.Context) error {
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filepath.Dir(s.path))
	}
	return nil
}

// saveLocked writes the whole collection to a temp file and renames it over
// the events file. Caller must hold the write lock.
func (s *FileStore) saveLocked() error {
	data, err := json.MarshalIndent(s.events, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := s.path + tmpSuffix
	if err := os.WriteFile(tmpFile, data, filePermissions); err != nil {
		return err
	}
	if err := os.Rename(tmpFile, s.path); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}
	return nil
}
