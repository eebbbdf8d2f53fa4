package export

import (
	"github.com/shopspring/decimal"

	"wealthwatcher/internal/report"
)

// Table is a titled grid of display strings.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

var titles = map[report.Kind]string{
	report.KindMonthlyExpenses: "Monthly Expenses",
	report.KindGoalProgress:    "Goal Progress",
	report.KindBudgetAdherence: "Budget Adherence",
}

// Title returns the display name of a report kind.
func Title(k report.Kind) string {
	if t, ok := titles[k]; ok {
		return t
	}
	return string(k)
}

// BuildTable lays out a report the way it is shown to users: money with a
// dollar sign and two decimals, progress as a two-decimal percentage.
func BuildTable(r report.Report) Table {
	t := Table{Title: Title(r.Kind)}
	switch r.Kind {
	case report.KindMonthlyExpenses:
		t.Headers = []string{"Month", "Total Expenses"}
		for _, row := range r.Monthly {
			t.Rows = append(t.Rows, []string{row.Month, Money(row.Total)})
		}
	case report.KindGoalProgress:
		t.Headers = []string{"Goal", "Amount", "Progress"}
		for _, row := range r.Goals {
			t.Rows = append(t.Rows, []string{row.Goal, Money(row.Amount), Percent(row.Progress)})
		}
	case report.KindBudgetAdherence:
		t.Headers = []string{"Category", "Budgeted Amount", "Actual Spend", "Remaining Amount"}
		for _, row := range r.Budgets {
			t.Rows = append(t.Rows, []string{
				row.Category,
				Money(row.BudgetedAmount),
				Money(row.ActualSpend),
				Money(row.RemainingAmount),
			})
		}
	}
	return t
}

// DashboardTable lays out the headline metrics as a two-column table.
func DashboardTable(d report.Dashboard) Table {
	return Table{
		Title:   "Dashboard",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Month-to-date Expenses", Money(d.MonthToDateExpenses)},
			{"Total Budgets", Money(d.TotalBudgets)},
			{"Recent Goal Progress", Percent(d.RecentGoalPercentage)},
		},
	}
}

// Money renders d in dollars with the sign ahead of the symbol.
func Money(d decimal.Decimal) string {
	d = d.Round(2)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func Percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
