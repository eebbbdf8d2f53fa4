package report

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wealthwatcher/internal/core"
)

var june2024 = time.Date(2024, time.June, 20, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func expense(category, amount, date string) core.Expense {
	return core.Expense{ID: core.NewID(), Category: category, Amount: d(amount), Date: core.ParseDate(date)}
}

func TestMonthlyExpensesReport(t *testing.T) {
	tests := []struct {
		name      string
		expenses  []core.Expense
		wantTotal string
	}{
		{
			name:      "empty input still yields a row",
			expenses:  nil,
			wantTotal: "0",
		},
		{
			name: "only current month counted",
			expenses: []core.Expense{
				expense("Food", "50", "2024-06-01"),
				expense("Food", "30", "2024-06-15"),
				expense("Food", "999", "2024-05-31"),
				expense("Rent", "700", "2023-06-10"),
				expense("Rent", "12", "07/01/2024"),
			},
			wantTotal: "80",
		},
		{
			name: "invalid dates never match",
			expenses: []core.Expense{
				expense("Food", "10", "Invalid Date"),
				expense("Food", "5.255", "06/30/2024"),
			},
			wantTotal: "5.26",
		},
		{
			name: "rounded to two places",
			expenses: []core.Expense{
				expense("Food", "0.333", "2024-06-02"),
				expense("Food", "0.333", "2024-06-03"),
			},
			wantTotal: "0.67",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := MonthlyExpensesReport(tt.expenses, june2024)
			if len(rows) != 1 {
				t.Fatalf("rows = %d, want 1", len(rows))
			}
			if rows[0].Month != "June 2024" {
				t.Errorf("month = %q, want \"June 2024\"", rows[0].Month)
			}
			if !rows[0].Total.Equal(d(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", rows[0].Total, tt.wantTotal)
			}
		})
	}
}

func TestMonthlyExpensesReport_OnlyMonthMembersAffectTotal(t *testing.T) {
	base := []core.Expense{
		expense("Food", "20", "2024-06-05"),
		expense("Fun", "15.5", "2024-06-25"),
	}
	want := MonthlyExpensesReport(base, june2024)[0].Total

	noise := append(append([]core.Expense{}, base...),
		expense("Food", "1000", "2024-07-01"),
		expense("Food", "1000", "2024-05-01"),
		expense("Food", "1000", "garbage"),
	)
	got := MonthlyExpensesReport(noise, june2024)[0].Total
	if !got.Equal(want) {
		t.Errorf("total with out-of-month noise = %s, want %s", got, want)
	}
}

func TestGoalProgressReport(t *testing.T) {
	goals := []core.Goal{
		{ID: "1", Description: "Bike", Amount: d("200"), CurrentAmount: d("150")},
		{ID: "2", Description: "Nothing yet", Amount: d("0"), CurrentAmount: d("40")},
		{ID: "3", Description: "Thirds", Amount: d("3"), CurrentAmount: d("1")},
		{ID: "4", Description: "Over", Amount: d("100"), CurrentAmount: d("250")},
	}

	rows := GoalProgressReport(goals)
	if len(rows) != len(goals) {
		t.Fatalf("rows = %d, want %d", len(rows), len(goals))
	}
	for i, g := range goals {
		if rows[i].Goal != g.Description {
			t.Errorf("row %d goal = %q, want %q", i, rows[i].Goal, g.Description)
		}
		if !rows[i].Amount.Equal(g.CurrentAmount) {
			t.Errorf("row %d amount = %s, want current amount %s", i, rows[i].Amount, g.CurrentAmount)
		}
	}

	if !rows[0].Progress.Equal(d("75")) {
		t.Errorf("progress[0] = %s, want 75", rows[0].Progress)
	}
	if !rows[1].Progress.IsZero() {
		t.Errorf("zero target progress = %s, want 0", rows[1].Progress)
	}
	if !strings.HasPrefix(rows[2].Progress.String(), "33.3333") {
		t.Errorf("progress[2] = %s, want unrounded 33.33...", rows[2].Progress)
	}
	if !rows[3].Progress.Equal(d("250")) {
		t.Errorf("progress[3] = %s, want 250", rows[3].Progress)
	}

	if got := GoalProgressReport(nil); got == nil || len(got) != 0 {
		t.Errorf("nil goals = %#v, want empty non-nil slice", got)
	}
}

func TestBudgetAdherenceReport(t *testing.T) {
	t.Run("worked example", func(t *testing.T) {
		expenses := []core.Expense{
			expense("Food", "50", "2024-06-01"),
			expense("Food", "30", "2024-06-15"),
		}
		budgets := []core.Budget{{ID: "b1", Category: "Food", BudgetedAmount: d("100")}}

		got := BudgetAdherenceReport(budgets, expenses)
		want := BudgetAdherence{Category: "Food", BudgetedAmount: d("100"), ActualSpend: d("80"), RemainingAmount: d("20")}
		if len(got) != 1 {
			t.Fatalf("rows = %d, want 1", len(got))
		}
		if got[0].Category != want.Category ||
			!got[0].BudgetedAmount.Equal(want.BudgetedAmount) ||
			!got[0].ActualSpend.Equal(want.ActualSpend) ||
			!got[0].RemainingAmount.Equal(want.RemainingAmount) {
			t.Errorf("row = %+v, want %+v", got[0], want)
		}
	})

	t.Run("category without expenses", func(t *testing.T) {
		budgets := []core.Budget{{Category: "Travel", BudgetedAmount: d("300")}}
		got := BudgetAdherenceReport(budgets, []core.Expense{expense("Food", "10", "2024-06-01")})
		if !got[0].ActualSpend.IsZero() || !got[0].RemainingAmount.Equal(d("300")) {
			t.Errorf("row = %+v, want actual 0 and remaining 300", got[0])
		}
	})

	t.Run("overspend is negative", func(t *testing.T) {
		budgets := []core.Budget{{Category: "Fun", BudgetedAmount: d("20")}}
		got := BudgetAdherenceReport(budgets, []core.Expense{expense("Fun", "35", "2024-01-01")})
		if !got[0].RemainingAmount.Equal(d("-15")) {
			t.Errorf("remaining = %s, want -15", got[0].RemainingAmount)
		}
	})

	t.Run("case sensitive match and unknown category", func(t *testing.T) {
		budgets := []core.Budget{
			{Category: "food", BudgetedAmount: d("10")},
			{Category: "", BudgetedAmount: d("5")},
		}
		expenses := []core.Expense{
			expense("Food", "7", "2024-06-01"),
			expense("", "3", "2024-06-01"),
		}
		got := BudgetAdherenceReport(budgets, expenses)
		if !got[0].ActualSpend.IsZero() {
			t.Errorf("\"food\" should not match \"Food\": %+v", got[0])
		}
		if got[1].Category != core.UnknownCategory || !got[1].ActualSpend.Equal(d("3")) {
			t.Errorf("unknown row = %+v", got[1])
		}
	})

	t.Run("preserves order", func(t *testing.T) {
		budgets := []core.Budget{{Category: "C"}, {Category: "A"}, {Category: "B"}}
		got := BudgetAdherenceReport(budgets, nil)
		for i, b := range budgets {
			if got[i].Category != b.Category {
				t.Errorf("row %d = %s, want %s", i, got[i].Category, b.Category)
			}
		}
	})
}

func TestDashboardMetrics(t *testing.T) {
	rec := core.UserRecord{
		Expenses: []core.Expense{
			expense("Food", "10.005", "2024-06-02"),
			expense("Food", "99", "2024-04-02"),
		},
		Budgets: []core.Budget{
			{Category: "Food", BudgetedAmount: d("100")},
			{Category: "Rent", BudgetedAmount: d("650.50")},
			{Category: "Zero"},
		},
		Goals: []core.Goal{
			{Description: "First", Amount: d("100"), CurrentAmount: d("100")},
			{Description: "Last", Amount: d("3"), CurrentAmount: d("2")},
		},
	}

	got := DashboardMetrics(rec, june2024)
	if !got.MonthToDateExpenses.Equal(d("10.01")) {
		t.Errorf("monthToDate = %s, want 10.01", got.MonthToDateExpenses)
	}
	if !got.TotalBudgets.Equal(d("750.5")) {
		t.Errorf("totalBudgets = %s, want 750.5", got.TotalBudgets)
	}
	if !got.RecentGoalPercentage.Equal(d("66.67")) {
		t.Errorf("recentGoalPercentage = %s, want 66.67 from the last goal", got.RecentGoalPercentage)
	}
}

func TestDashboardMetrics_Empty(t *testing.T) {
	got := DashboardMetrics(core.EmptyRecord(), june2024)
	if !got.MonthToDateExpenses.IsZero() || !got.TotalBudgets.IsZero() || !got.RecentGoalPercentage.IsZero() {
		t.Errorf("empty record metrics = %+v, want zeros", got)
	}

	zeroTarget := core.UserRecord{Goals: []core.Goal{{Description: "x", CurrentAmount: d("5")}}}
	if got := DashboardMetrics(zeroTarget, june2024); !got.RecentGoalPercentage.IsZero() {
		t.Errorf("zero target percentage = %s, want 0", got.RecentGoalPercentage)
	}
}

func TestReportsArePure(t *testing.T) {
	rec := core.UserRecord{
		Expenses: []core.Expense{expense("Food", "12", "2024-06-01"), expense("", "3", "bad")},
		Budgets:  []core.Budget{{Category: "Food", BudgetedAmount: d("40")}},
		Goals:    []core.Goal{{Description: "g", Amount: d("7"), CurrentAmount: d("2")}},
	}
	snapshot := rec.Clone()

	for _, kind := range Kinds() {
		first, err := Generate(kind, rec, june2024)
		if err != nil {
			t.Fatalf("Generate(%s): %v", kind, err)
		}
		second, _ := Generate(kind, rec, june2024)
		a, _ := json.Marshal(first)
		b, _ := json.Marshal(second)
		if string(a) != string(b) {
			t.Errorf("%s not idempotent:\n%s\n%s", kind, a, b)
		}
	}
	m1, _ := json.Marshal(DashboardMetrics(rec, june2024))
	m2, _ := json.Marshal(DashboardMetrics(rec, june2024))
	if string(m1) != string(m2) {
		t.Errorf("dashboard metrics not idempotent: %s vs %s", m1, m2)
	}
	if !reflect.DeepEqual(rec, snapshot) {
		t.Error("reports mutated their input")
	}
}

func TestGenerate(t *testing.T) {
	rec := core.UserRecord{Goals: []core.Goal{{Description: "g", Amount: d("10"), CurrentAmount: d("5")}}}

	r, err := Generate(KindGoalProgress, rec, june2024)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if r.Len() != 1 || len(r.Goals) != 1 || r.Monthly != nil || r.Budgets != nil {
		t.Errorf("unexpected report shape: %+v", r)
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"goalProgress"`) || !strings.Contains(string(data), `"rows":[{"goal":"g"`) {
		t.Errorf("unexpected JSON: %s", data)
	}

	if _, err := Generate(Kind("yearly"), rec, june2024); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("error = %v, want ErrUnknownKind", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%s) = %s, %v", k, got, err)
		}
	}
	if _, err := ParseKind("MonthlyExpenses"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("kinds are case sensitive, got %v", err)
	}
}
