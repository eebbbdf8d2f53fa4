// Package postgres stores user records in PostgreSQL with one jsonb column per
// collection.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wealthwatcher/internal/core"
	"wealthwatcher/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_records (
    user_id    TEXT PRIMARY KEY,
    profile    JSONB NOT NULL DEFAULT '{}'::jsonb,
    expenses   JSONB NOT NULL DEFAULT '[]'::jsonb,
    budgets    JSONB NOT NULL DEFAULT '[]'::jsonb,
    goals      JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Store struct {
	pool *pgxpool.Pool
}

// New connects to dsn and creates the schema when missing.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	slog.Info("PostgreSQL record store ready")
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Fetch(ctx context.Context, userID string) (core.UserRecord, error) {
	var profile, expenses, budgets, goals []byte
	err := s.pool.QueryRow(ctx,
		`SELECT profile, expenses, budgets, goals FROM user_records WHERE user_id = $1`, userID,
	).Scan(&profile, &expenses, &budgets, &goals)
	if errors.Is(err, pgx.ErrNoRows) {
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

	tag, err := s.pool.Exec(ctx,
		`UPDATE user_records SET `+column+` = $1::jsonb, updated_at = now() WHERE user_id = $2`,
		string(data), userID)
	if err != nil {
		return fmt.Errorf("replace %s: %w", c, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
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

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO user_records (user_id, profile, expenses, budgets, goals)
		 VALUES ($1, $2::jsonb, $3::jsonb, $4::jsonb, $5::jsonb)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, string(profile), cols[0], cols[1], cols[2])
	if err != nil {
		return fmt.Errorf("create user record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, userID string, p core.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE user_records SET profile = $1::jsonb, updated_at = now() WHERE user_id = $2`,
		string(data), userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, userID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM user_records WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
