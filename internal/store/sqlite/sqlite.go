// Package sqlite stores user records in a local SQLite file, one row per user
// with a JSON text column per collection.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"wealthwatcher/internal/core"
	"wealthwatcher/internal/store"
)

type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and migrates it.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite serializes writers; keep a single connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("SQLite record store ready", "db_path", dbPath)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Fetch(ctx context.Context, userID string) (core.UserRecord, error) {
	var profile, expenses, budgets, goals []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT profile, expenses, budgets, goals FROM user_records WHERE user_id = ?`, userID,
	).Scan(&profile, &expenses, &budgets, &goals)
	if errors.Is(err, sql.ErrNoRows) {
		return core.UserRecord{}, store.ErrNotFound
	}
	if err != nil {
		return core.UserRecord{}, fmt.Errorf("fetch user record: %w", err)
	}
	return core.DecodeColumns(profile, expenses, budgets, goals), nil
}

func (s *Store) ReplaceCollection(ctx context.Context, userID string, c core.Collection, from core.UserRecord) error {
	column, err := store.Column(c)
	if err != nil {
		return err
	}
	data, err := core.EncodeCollection(from, c)
	if err != nil {
		return err
	}

	// column comes from a closed set, never from the caller.
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_records SET `+column+` = ?, updated_at = ? WHERE user_id = ?`,
		string(data), time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("replace %s: %w", c, err)
	}
	return expectRow(res)
}

func (s *Store) Create(ctx context.Context, userID string, rec core.UserRecord) error {
	if err := store.CheckUserID(userID); err != nil {
		return err
	}
	profile, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	cols := make([]string, 0, 3)
	for _, c := range []core.Collection{core.Expenses, core.Budgets, core.Goals} {
		data, err := core.EncodeCollection(rec, c)
		if err != nil {
			return err
		}
		cols = append(cols, string(data))
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO user_records (user_id, profile, expenses, budgets, goals, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO NOTHING`,
		userID, string(profile), cols[0], cols[1], cols[2], now, now)
	if err != nil {
		return fmt.Errorf("create user record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, userID string, p core.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_records SET profile = ?, updated_at = ? WHERE user_id = ?`,
		string(data), time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return expectRow(res)
}

func (s *Store) Delete(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_records WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete user record: %w", err)
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
