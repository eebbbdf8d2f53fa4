package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wealthwatcher/internal/core"
)

// Kind selects one of the generated reports.
type Kind string

const (
	KindMonthlyExpenses Kind = "monthlyExpenses"
	KindGoalProgress    Kind = "goalProgress"
	KindBudgetAdherence Kind = "budgetAdherence"
)

var ErrUnknownKind = errors.New("unknown report kind")

// Kinds lists every report kind in display order.
func Kinds() []Kind {
	return []Kind{KindMonthlyExpenses, KindGoalProgress, KindBudgetAdherence}
}

// ParseKind validates a report kind received from a caller.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Report is a generated report. Exactly one of the row slices is set,
// matching Kind.
type Report struct {
	Kind        Kind
	GeneratedAt time.Time
	Monthly     []MonthlyTotal
	Goals       []GoalProgress
	Budgets     []BudgetAdherence
}

// Rows returns the populated row slice.
func (r Report) Rows() any {
	switch r.Kind {
	case KindMonthlyExpenses:
		return r.Monthly
	case KindGoalProgress:
		return r.Goals
	case KindBudgetAdherence:
		return r.Budgets
	default:
		return []any{}
	}
}

// Len returns the number of rows.
func (r Report) Len() int {
	return len(r.Monthly) + len(r.Goals) + len(r.Budgets)
}

func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind        Kind      `json:"kind"`
		GeneratedAt time.Time `json:"generatedAt"`
		Rows        any       `json:"rows"`
	}{r.Kind, r.GeneratedAt, r.Rows()})
}

// Generate runs the report selected by kind over rec.
func Generate(kind Kind, rec core.UserRecord, now time.Time) (Report, error) {
	out := Report{Kind: kind, GeneratedAt: now}
	switch kind {
	case KindMonthlyExpenses:
		out.Monthly = MonthlyExpensesReport(rec.Expenses, now)
	case KindGoalProgress:
		out.Goals = GoalProgressReport(rec.Goals)
	case KindBudgetAdherence:
		out.Budgets = BudgetAdherenceReport(rec.Budgets, rec.Expenses)
	default:
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return out, nil
}
