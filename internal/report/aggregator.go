// Package report derives summary views from a user's record collections.
//
// Every function here is pure: it reads already-fetched snapshots, never
// mutates them, and returns the same output for the same input and reference
// time. Malformed values have already been degraded to zero or to the invalid
// date sentinel by the core ingestion boundary, so nothing here can fail.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"wealthwatcher/internal/core"
)

// MonthLayout formats the month label of the monthly report, e.g. "June 2024".
const MonthLayout = "January 2006"

var hundred = decimal.NewFromInt(100)

type (
	MonthlyTotal struct {
		Month string          `json:"month"`
		Total decimal.Decimal `json:"total"`
	}

	// GoalProgress is one goal row. Amount is the progress so far, not the target.
	GoalProgress struct {
		Goal     string          `json:"goal"`
		Amount   decimal.Decimal `json:"amount"`
		Progress decimal.Decimal `json:"progress"`
	}

	BudgetAdherence struct {
		Category        string          `json:"category"`
		BudgetedAmount  decimal.Decimal `json:"budgetedAmount"`
		ActualSpend     decimal.Decimal `json:"actualSpend"`
		RemainingAmount decimal.Decimal `json:"remainingAmount"`
	}

	// Dashboard holds the headline metrics.
	Dashboard struct {
		MonthToDateExpenses  decimal.Decimal `json:"monthToDateExpenses"`
		TotalBudgets         decimal.Decimal `json:"totalBudgets"`
		RecentGoalPercentage decimal.Decimal `json:"recentGoalPercentage"`
	}
)

// MonthlyExpensesReport totals the expenses dated in the calendar month of
// now. It always returns exactly one row, with a zero total when nothing
// matched.
func MonthlyExpensesReport(expenses []core.Expense, now time.Time) []MonthlyTotal {
	return []MonthlyTotal{{
		Month: now.Format(MonthLayout),
		Total: monthTotal(expenses, now).Round(2),
	}}
}

// GoalProgressReport returns one row per goal, in input order. Progress is
// the unrounded percentage of the target reached, or zero when the target is
// not positive.
func GoalProgressReport(goals []core.Goal) []GoalProgress {
	rows := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		rows = append(rows, GoalProgress{
			Goal:     g.Description,
			Amount:   g.CurrentAmount,
			Progress: percentage(g),
		})
	}
	return rows
}

// BudgetAdherenceReport compares each budget with the summed spend of its
// category. Matching is exact string equality; an empty category on either
// side is read as core.UnknownCategory. Overspend shows up as a negative
// RemainingAmount.
func BudgetAdherenceReport(budgets []core.Budget, expenses []core.Expense) []BudgetAdherence {
	spend := SpendByCategory(expenses)

	rows := make([]BudgetAdherence, 0, len(budgets))
	for _, b := range budgets {
		category := categoryOf(b.Category)
		actual := spend[category]
		rows = append(rows, BudgetAdherence{
			Category:        category,
			BudgetedAmount:  b.BudgetedAmount,
			ActualSpend:     actual,
			RemainingAmount: b.BudgetedAmount.Sub(actual),
		})
	}
	return rows
}

// SpendByCategory sums expense amounts per category over all dates.
func SpendByCategory(expenses []core.Expense) map[string]decimal.Decimal {
	spend := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		category := categoryOf(e.Category)
		spend[category] = spend[category].Add(e.Amount)
	}
	return spend
}

// DashboardMetrics computes the dashboard headline numbers. The goal
// percentage comes from whichever goal sits last in the stored sequence.
func DashboardMetrics(rec core.UserRecord, now time.Time) Dashboard {
	total := decimal.Zero
	for _, b := range rec.Budgets {
		total = total.Add(b.BudgetedAmount)
	}

	recent := decimal.Zero
	if n := len(rec.Goals); n > 0 {
		recent = percentage(rec.Goals[n-1]).Round(2)
	}

	return Dashboard{
		MonthToDateExpenses:  monthTotal(rec.Expenses, now).Round(2),
		TotalBudgets:         total,
		RecentGoalPercentage: recent,
	}
}

func monthTotal(expenses []core.Expense, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.Date.SameMonth(now) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func percentage(g core.Goal) decimal.Decimal {
	if !g.Amount.IsPositive() {
		return decimal.Zero
	}
	return g.CurrentAmount.Mul(hundred).Div(g.Amount)
}

func categoryOf(c string) string {
	if c == "" {
		return core.UnknownCategory
	}
	return c
}
