// Package store defines the record store port and the helpers shared by its
// adapters. Each user owns exactly one document; the only mutation of its
// collections is whole-collection replacement.
package store

import (
	"context"
	"errors"
	"fmt"

	"wealthwatcher/internal/core"
)

var (
	ErrNotFound      = errors.New("user record not found")
	ErrAlreadyExists = errors.New("user record already exists")
	ErrEmptyUserID   = errors.New("empty user id")
)

// Ports implemented by every adapter.
type (
	RecordFetcher interface {
		// Fetch returns the user's record or ErrNotFound.
		Fetch(ctx context.Context, userID string) (core.UserRecord, error)
	}

	CollectionReplacer interface {
		// ReplaceCollection overwrites the named collection with the one held by from.
		ReplaceCollection(ctx context.Context, userID string, c core.Collection, from core.UserRecord) error
	}

	AccountStore interface {
		Create(ctx context.Context, userID string, rec core.UserRecord) error
		UpdateProfile(ctx context.Context, userID string, p core.Profile) error
		Delete(ctx context.Context, userID string) error
	}

	Store interface {
		RecordFetcher
		CollectionReplacer
		AccountStore
		Ping(ctx context.Context) error
		Close() error
	}
)

// Column returns the storage column of a collection.
func Column(c core.Collection) (string, error) {
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %s", core.ErrUnknownCollection, c)
	}
	return string(c), nil
}

// CheckUserID rejects blank identifiers before they reach an adapter.
func CheckUserID(userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	return nil
}
