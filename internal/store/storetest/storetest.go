// Package storetest holds the behaviour every store adapter must share.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"wealthwatcher/internal/core"
	"wealthwatcher/internal/store"
)

// Run exercises s against the store contract. s must start empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("fetch missing", func(t *testing.T) {
		if _, err := s.Fetch(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("Fetch missing user = %v, want ErrNotFound", err)
		}
	})

	t.Run("create and fetch", func(t *testing.T) {
		rec := core.EmptyRecord()
		rec.Profile = core.Profile{DisplayName: "Ada", Email: "ada@example.com"}
		rec.Goals = append(rec.Goals, core.Goal{ID: "g1", Description: "Bike", Amount: decimal.NewFromInt(200), CurrentAmount: decimal.NewFromInt(150)})

		if err := s.Create(ctx, "u1", rec); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := s.Create(ctx, "u1", rec); !errors.Is(err, store.ErrAlreadyExists) {
			t.Fatalf("second Create = %v, want ErrAlreadyExists", err)
		}

		got, err := s.Fetch(ctx, "u1")
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if got.Profile != rec.Profile {
			t.Errorf("profile = %+v, want %+v", got.Profile, rec.Profile)
		}
		if len(got.Goals) != 1 || !got.Goals[0].CurrentAmount.Equal(decimal.NewFromInt(150)) {
			t.Errorf("goals = %+v", got.Goals)
		}
		if got.Expenses == nil || got.Budgets == nil {
			t.Error("empty collections must be non-nil")
		}
	})

	t.Run("create rejects empty id", func(t *testing.T) {
		if err := s.Create(ctx, "", core.EmptyRecord()); !errors.Is(err, store.ErrEmptyUserID) {
			t.Fatalf("Create(\"\") = %v, want ErrEmptyUserID", err)
		}
	})

	t.Run("replace collection keeps order and others", func(t *testing.T) {
		rec, err := s.Fetch(ctx, "u1")
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		rec.Expenses = []core.Expense{
			{ID: "e2", Category: "Rent", Amount: decimal.RequireFromString("700.5"), Date: core.NewDate(2024, 6, 2)},
			{ID: "e1", Category: "Food", Amount: decimal.RequireFromString("12.25"), Date: core.ParseDate("bad date")},
		}
		rec.Goals = nil
		if err := s.ReplaceCollection(ctx, "u1", core.Expenses, rec); err != nil {
			t.Fatalf("ReplaceCollection: %v", err)
		}

		got, err := s.Fetch(ctx, "u1")
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if len(got.Expenses) != 2 || got.Expenses[0].ID != "e2" || got.Expenses[1].ID != "e1" {
			t.Fatalf("expenses = %+v", got.Expenses)
		}
		if !got.Expenses[0].Amount.Equal(decimal.RequireFromString("700.5")) || got.Expenses[0].Date.String() != "2024-06-02" {
			t.Errorf("expense 0 = %+v", got.Expenses[0])
		}
		if got.Expenses[1].Date.Valid() || got.Expenses[1].Date.String() != "bad date" {
			t.Errorf("invalid date should round-trip as raw text, got %q", got.Expenses[1].Date.String())
		}
		if len(got.Goals) != 1 {
			t.Errorf("goals changed by an expenses replacement: %+v", got.Goals)
		}
	})

	t.Run("replace collection errors", func(t *testing.T) {
		if err := s.ReplaceCollection(ctx, "nobody", core.Goals, core.EmptyRecord()); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("missing user = %v, want ErrNotFound", err)
		}
		if err := s.ReplaceCollection(ctx, "u1", core.Collection("incomes"), core.EmptyRecord()); !errors.Is(err, core.ErrUnknownCollection) {
			t.Errorf("bad collection = %v, want ErrUnknownCollection", err)
		}
	})

	t.Run("update profile", func(t *testing.T) {
		p := core.Profile{DisplayName: "Grace"}
		if err := s.UpdateProfile(ctx, "u1", p); err != nil {
			t.Fatalf("UpdateProfile: %v", err)
		}
		got, _ := s.Fetch(ctx, "u1")
		if got.Profile != p {
			t.Errorf("profile = %+v, want %+v", got.Profile, p)
		}
		if err := s.UpdateProfile(ctx, "nobody", p); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("missing user = %v, want ErrNotFound", err)
		}
	})

	t.Run("concurrent writers", func(t *testing.T) {
		if err := s.Create(ctx, "u2", core.EmptyRecord()); err != nil {
			t.Fatalf("Create: %v", err)
		}
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rec := core.EmptyRecord()
				rec.Budgets = []core.Budget{{ID: core.NewID(), Category: "Food", BudgetedAmount: decimal.NewFromInt(int64(i))}}
				if err := s.ReplaceCollection(ctx, "u2", core.Budgets, rec); err != nil {
					t.Errorf("ReplaceCollection: %v", err)
				}
			}(i)
		}
		wg.Wait()
		got, err := s.Fetch(ctx, "u2")
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if len(got.Budgets) != 1 {
			t.Errorf("last writer should win with one budget, got %d", len(got.Budgets))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.Delete(ctx, "u1"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Fetch(ctx, "u1"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Fetch after delete = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, "u1"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("second Delete = %v, want ErrNotFound", err)
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := s.Ping(ctx); err != nil {
			t.Errorf("Ping: %v", err)
		}
	})
}
