package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"wealthwatcher/internal/core"
	"wealthwatcher/internal/store"
	"wealthwatcher/internal/store/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, New())
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	seed := `{
		"alice": {
			"expenses": [{"id": "e1", "category": "Food", "amount": "12,50", "date": "06/01/2024"}],
			"goals": [{"id": "g1", "description": "Trip", "amount": 500, "currentAmount": "oops"}]
		},
		"bob": "not a document"
	}`
	if err := os.WriteFile(filepath.Join(dir, SeedFile), []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s, err := NewFromFiles(dir)
	if err != nil {
		t.Fatalf("NewFromFiles: %v", err)
	}

	rec, err := s.Fetch(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Fetch alice: %v", err)
	}
	if len(rec.Expenses) != 1 || rec.Expenses[0].Amount.String() != "12.5" || rec.Expenses[0].Date.String() != "2024-06-01" {
		t.Errorf("expenses = %+v", rec.Expenses)
	}
	if len(rec.Goals) != 1 || !rec.Goals[0].CurrentAmount.IsZero() {
		t.Errorf("goals = %+v", rec.Goals)
	}

	if _, err := s.Fetch(context.Background(), "bob"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("malformed seed record should be skipped, got %v", err)
	}
}

func TestNewFromFiles_MissingSeed(t *testing.T) {
	s, err := NewFromFiles(t.TempDir())
	if err != nil {
		t.Fatalf("NewFromFiles: %v", err)
	}
	if _, err := s.Fetch(context.Background(), "anyone"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected empty store, got %v", err)
	}
}

func TestNewFromFiles_BadJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SeedFile), []byte("{"), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if _, err := NewFromFiles(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestFetchReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	seed := core.EmptyRecord()
	seed.Budgets = []core.Budget{{ID: "b1", Category: "Food"}}
	if err := s.Create(ctx, "u", seed); err != nil {
		t.Fatalf("Create: %v", err)
	}
	seed.Budgets[0].Category = "changed by caller"

	rec, _ := s.Fetch(ctx, "u")
	rec.Budgets[0].Category = "changed by reader"

	again, _ := s.Fetch(ctx, "u")
	if again.Budgets[0].Category != "Food" {
		t.Errorf("stored record leaked to callers: %q", again.Budgets[0].Category)
	}
}
