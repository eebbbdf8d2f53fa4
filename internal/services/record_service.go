// Package services runs the fetch, compute, replace cycle behind every user
// action and the report lookups built on top of it.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/badoux/checkmail"
	"github.com/shopspring/decimal"

	"wealthwatcher/internal/core"
	"wealthwatcher/internal/report"
	"wealthwatcher/internal/store"
)

var ErrInvalidEmail = errors.New("invalid email address")

// EventPublisher announces replaced collections.
type EventPublisher interface {
	PublishRecordChanged(ctx context.Context, userID string, c core.Collection) error
}

// Invalidator drops derived data cached for a user.
type Invalidator interface {
	InvalidateUser(userID string)
}

// BudgetStatus is a budget with the all-time spend of its category.
type BudgetStatus struct {
	core.Budget
	CurrentSpend    decimal.Decimal `json:"currentSpend"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

// RecordService owns every mutation of a user's record.
type RecordService struct {
	store       store.Store
	publisher   EventPublisher
	invalidator Invalidator

	// locks serializes read-modify-write cycles per user.
	locks sync.Map // map[string]*sync.Mutex
}

// NewRecordService wires the service. publisher and invalidator may be nil.
func NewRecordService(s store.Store, publisher EventPublisher, invalidator Invalidator) *RecordService {
	return &RecordService{
		store:       s,
		publisher:   publisher,
		invalidator: invalidator,
	}
}

func (s *RecordService) lock(userID string) func() {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// EnsureRecord creates an empty record for userID on first access.
func (s *RecordService) EnsureRecord(ctx context.Context, userID string) error {
	_, err := s.store.Fetch(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("fetch record: %w", err)
	}
	if err := s.store.Create(ctx, userID, core.EmptyRecord()); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
		return fmt.Errorf("create record: %w", err)
	}
	slog.InfoContext(ctx, "Created user record", "component", "records", "user_id", userID)
	return nil
}

// Expenses

func (s *RecordService) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	rec, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	return rec.Expenses, nil
}

func (s *RecordService) AddExpense(ctx context.Context, userID string, e core.Expense) (core.Expense, error) {
	e.ID = core.NewID()
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	err := s.mutate(ctx, userID, core.Expenses, func(rec *core.UserRecord) error {
		rec.Expenses = core.AppendItem(rec.Expenses, e)
		return nil
	})
	return e, err
}

func (s *RecordService) UpdateExpense(ctx context.Context, userID string, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	err := s.mutate(ctx, userID, core.Expenses, func(rec *core.UserRecord) error {
		items, err := core.UpdateItem(rec.Expenses, e)
		rec.Expenses = items
		return err
	})
	return e, err
}

func (s *RecordService) DeleteExpense(ctx context.Context, userID, id string) error {
	return s.mutate(ctx, userID, core.Expenses, func(rec *core.UserRecord) error {
		items, err := core.RemoveItem(rec.Expenses, id)
		rec.Expenses = items
		return err
	})
}

// Budgets

// ListBudgets returns the budgets in stored order together with the spend
// recorded against each category.
func (s *RecordService) ListBudgets(ctx context.Context, userID string) ([]BudgetStatus, error) {
	rec, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows := report.BudgetAdherenceReport(rec.Budgets, rec.Expenses)
	out := make([]BudgetStatus, 0, len(rec.Budgets))
	for i, b := range rec.Budgets {
		out = append(out, BudgetStatus{
			Budget:          b,
			CurrentSpend:    rows[i].ActualSpend,
			RemainingAmount: rows[i].RemainingAmount,
		})
	}
	return out, nil
}

func (s *RecordService) AddBudget(ctx context.Context, userID string, b core.Budget) (core.Budget, error) {
	b.ID = core.NewID()
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	err := s.mutate(ctx, userID, core.Budgets, func(rec *core.UserRecord) error {
		rec.Budgets = core.AppendItem(rec.Budgets, b)
		return nil
	})
	return b, err
}

func (s *RecordService) UpdateBudget(ctx context.Context, userID string, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	err := s.mutate(ctx, userID, core.Budgets, func(rec *core.UserRecord) error {
		items, err := core.UpdateItem(rec.Budgets, b)
		rec.Budgets = items
		return err
	})
	return b, err
}

func (s *RecordService) DeleteBudget(ctx context.Context, userID, id string) error {
	return s.mutate(ctx, userID, core.Budgets, func(rec *core.UserRecord) error {
		items, err := core.RemoveItem(rec.Budgets, id)
		rec.Budgets = items
		return err
	})
}

// Goals

func (s *RecordService) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rec, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	return rec.Goals, nil
}

func (s *RecordService) AddGoal(ctx context.Context, userID string, g core.Goal) (core.Goal, error) {
	g.ID = core.NewID()
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	err := s.mutate(ctx, userID, core.Goals, func(rec *core.UserRecord) error {
		rec.Goals = core.AppendItem(rec.Goals, g)
		return nil
	})
	return g, err
}

// UpdateGoal applies a direct edit. Edits keep the goal's position. When
// setCurrent is false the stored progress is kept and g.CurrentAmount is
// ignored.
func (s *RecordService) UpdateGoal(ctx context.Context, userID string, g core.Goal, setCurrent bool) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	err := s.mutate(ctx, userID, core.Goals, func(rec *core.UserRecord) error {
		if !setCurrent {
			stored, ok := core.FindGoal(rec.Goals, g.ID)
			if !ok {
				return core.ErrItemNotFound
			}
			g.CurrentAmount = stored.CurrentAmount
		}
		items, err := core.UpdateItem(rec.Goals, g)
		rec.Goals = items
		return err
	})
	return g, err
}

func (s *RecordService) DeleteGoal(ctx context.Context, userID, id string) error {
	return s.mutate(ctx, userID, core.Goals, func(rec *core.UserRecord) error {
		items, err := core.RemoveItem(rec.Goals, id)
		rec.Goals = items
		return err
	})
}

// AdjustGoal adds a positive delta to the goal's progress or removes a
// negative one, clamping at zero. The adjusted goal replaces the old one as a
// single remove-then-insert and therefore moves to the end of the sequence.
func (s *RecordService) AdjustGoal(ctx context.Context, userID, goalID string, delta decimal.Decimal) (core.Goal, error) {
	if delta.IsZero() {
		return core.Goal{}, core.ErrInvalidAmount
	}
	var adjusted core.Goal
	err := s.mutate(ctx, userID, core.Goals, func(rec *core.UserRecord) error {
		g, ok := core.FindGoal(rec.Goals, goalID)
		if !ok {
			return core.ErrItemNotFound
		}
		adjusted = core.AdjustGoal(g, delta)
		items, err := core.ReplaceGoal(rec.Goals, adjusted)
		rec.Goals = items
		return err
	})
	return adjusted, err
}

// Account

func (s *RecordService) Profile(ctx context.Context, userID string) (core.Profile, error) {
	rec, err := s.fetch(ctx, userID)
	if err != nil {
		return core.Profile{}, err
	}
	return rec.Profile, nil
}

// UpdateProfile changes the non-empty fields of update.
func (s *RecordService) UpdateProfile(ctx context.Context, userID string, update core.Profile) (core.Profile, error) {
	update.DisplayName = strings.TrimSpace(update.DisplayName)
	update.Email = strings.TrimSpace(update.Email)
	if update.Email != "" {
		if err := checkmail.ValidateFormat(update.Email); err != nil {
			return core.Profile{}, fmt.Errorf("%w: %v", ErrInvalidEmail, err)
		}
	}

	unlock := s.lock(userID)
	defer unlock()

	rec, err := s.fetch(ctx, userID)
	if err != nil {
		return core.Profile{}, err
	}
	p := rec.Profile
	if update.DisplayName != "" {
		p.DisplayName = update.DisplayName
	}
	if update.Email != "" {
		p.Email = update.Email
	}
	if err := s.store.UpdateProfile(ctx, userID, p); err != nil {
		return core.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

// DeleteAccount removes the user's record and everything derived from it.
func (s *RecordService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if s.invalidator != nil {
		s.invalidator.InvalidateUser(userID)
	}
	slog.InfoContext(ctx, "Deleted user record", "component", "records", "user_id", userID)
	return nil
}

func (s *RecordService) fetch(ctx context.Context, userID string) (core.UserRecord, error) {
	rec, err := s.store.Fetch(ctx, userID)
	if err != nil {
		return core.UserRecord{}, fmt.Errorf("fetch record: %w", err)
	}
	return rec, nil
}

// mutate fetches the record, lets apply rewrite collection c, replaces it in
// the store, then invalidates caches and publishes the change. Publish
// failures are logged and never fail the write. Cycles for the same user run
// one at a time within this process.
func (s *RecordService) mutate(ctx context.Context, userID string, c core.Collection, apply func(*core.UserRecord) error) error {
	unlock := s.lock(userID)
	defer unlock()

	rec, err := s.fetch(ctx, userID)
	if err != nil {
		return err
	}
	if err := apply(&rec); err != nil {
		return err
	}
	if err := s.store.ReplaceCollection(ctx, userID, c, rec); err != nil {
		slog.ErrorContext(ctx, "Failed to replace collection",
			"component", "records", "user_id", userID, "collection", c, "error", err)
		return fmt.Errorf("replace %s: %w", c, err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateUser(userID)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishRecordChanged(ctx, userID, c); err != nil {
			slog.ErrorContext(ctx, "Failed to publish record changed",
				"component", "records", "user_id", userID, "collection", c, "error", err)
		}
	}
	return nil
}
