package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"wealthwatcher/internal/core"
	"wealthwatcher/internal/store"
)

// SeedFile is the name of the optional seed document inside the data directory.
const SeedFile = "seed_records.json"

// Store keeps one record per user in process memory.
type Store struct {
	mu      sync.RWMutex
	records map[string]core.UserRecord
}

func New() *Store {
	return &Store{records: make(map[string]core.UserRecord)}
}

// NewFromFiles loads base/seed_records.json when present. The file is an
// object keyed by user id whose values are stored documents. A missing file
// yields an empty store.
func NewFromFiles(base string) (*Store, error) {
	s := New()
	path := filepath.Join(base, SeedFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var docs map[string]json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for userID, doc := range docs {
		rec, err := core.DecodeUserRecord(doc)
		if err != nil {
			slog.Warn("Skipping malformed seed record", "user_id", userID, "error", err)
			continue
		}
		s.records[userID] = rec
	}
	slog.Info("Loaded seed records", "path", path, "users", len(s.records))
	return s, nil
}

func (s *Store) Fetch(_ context.Context, userID string) (core.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[userID]
	if !ok {
		return core.UserRecord{}, store.ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *Store) ReplaceCollection(_ context.Context, userID string, c core.Collection, from core.UserRecord) error {
	if _, err := store.Column(c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return store.ErrNotFound
	}
	switch c {
	case core.Expenses:
		rec.Expenses = append([]core.Expense{}, from.Expenses...)
	case core.Budgets:
		rec.Budgets = append([]core.Budget{}, from.Budgets...)
	case core.Goals:
		rec.Goals = append([]core.Goal{}, from.Goals...)
	}
	s.records[userID] = rec
	return nil
}

func (s *Store) Create(_ context.Context, userID string, rec core.UserRecord) error {
	if err := store.CheckUserID(userID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[userID]; ok {
		return store.ErrAlreadyExists
	}
	s.records[userID] = rec.Clone()
	return nil
}

func (s *Store) UpdateProfile(_ context.Context, userID string, p core.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return store.ErrNotFound
	}
	rec.Profile = p
	s.records[userID] = rec
	return nil
}

func (s *Store) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[userID]; !ok {
		return store.ErrNotFound
	}
	delete(s.records, userID)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
