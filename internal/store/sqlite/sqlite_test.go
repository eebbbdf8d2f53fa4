package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"wealthwatcher/internal/store/storetest"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "records.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestStoreContract(t *testing.T) {
	s, _ := newTestStore(t)
	storetest.Run(t, s)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	_, path := newTestStore(t)
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second RunMigrations: %v", err)
	}
}

func TestFetchDegradesMalformedColumns(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_records (user_id, profile, expenses, budgets, goals) VALUES (?, ?, ?, ?, ?)`,
		"legacy",
		`not json`,
		`[{"id":"e1","category":"Food","amount":"abc","date":"Invalid Date"},{"id":"e2","amount":7,"date":"06/02/2024"}]`,
		`{"oops":true}`,
		`[{"id":"g1","description":"Car","amount":"1000","currentAmount":250.5}]`,
	)
	if err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	rec, err := s.Fetch(ctx, "legacy")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rec.Expenses) != 2 {
		t.Fatalf("expenses = %+v", rec.Expenses)
	}
	if !rec.Expenses[0].Amount.IsZero() || rec.Expenses[0].Date.Valid() {
		t.Errorf("malformed expense should degrade: %+v", rec.Expenses[0])
	}
	if rec.Expenses[1].Category != "" || rec.Expenses[1].Date.String() != "2024-06-02" {
		t.Errorf("expense 1 = %+v", rec.Expenses[1])
	}
	if len(rec.Budgets) != 0 || rec.Budgets == nil {
		t.Errorf("non-array budgets should read as empty, got %+v", rec.Budgets)
	}
	if len(rec.Goals) != 1 || rec.Goals[0].CurrentAmount.String() != "250.5" {
		t.Errorf("goals = %+v", rec.Goals)
	}
}
