package core

import (
	"errors"
	"strings"
	"testing"
)

func TestExpense_Validate(t *testing.T) {
	valid := Expense{Category: "Food", Amount: dec("10"), Date: NewDate(2024, 6, 1)}

	tests := []struct {
		name   string
		mutate func(*Expense)
		want   error
	}{
		{"valid", func(*Expense) {}, nil},
		{"zero amount allowed", func(e *Expense) { e.Amount = dec("0") }, nil},
		{"blank category", func(e *Expense) { e.Category = "  " }, ErrEmptyCategory},
		{"negative amount", func(e *Expense) { e.Amount = dec("-1") }, ErrInvalidAmount},
		{"invalid date", func(e *Expense) { e.Date = ParseDate("nope") }, ErrInvalidDate},
		{"long description", func(e *Expense) { e.Description = strings.Repeat("x", 201) }, ErrDescriptionTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			if err := e.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBudget_Validate(t *testing.T) {
	if err := (Budget{Category: "Food", BudgetedAmount: dec("100")}).Validate(); err != nil {
		t.Errorf("valid budget: %v", err)
	}
	if err := (Budget{BudgetedAmount: dec("100")}).Validate(); !errors.Is(err, ErrEmptyCategory) {
		t.Errorf("missing category: %v", err)
	}
	if err := (Budget{Category: "Food", BudgetedAmount: dec("-5")}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative budget: %v", err)
	}
}

func TestGoal_Validate(t *testing.T) {
	if err := (Goal{Description: "Car", Amount: dec("5000")}).Validate(); err != nil {
		t.Errorf("valid goal: %v", err)
	}
	if err := (Goal{Amount: dec("5000")}).Validate(); !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("missing description: %v", err)
	}
	if err := (Goal{Description: "Car", CurrentAmount: dec("-1")}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative progress: %v", err)
	}
}

func TestCollection_IsValid(t *testing.T) {
	for _, c := range []Collection{Expenses, Budgets, Goals} {
		if !c.IsValid() {
			t.Errorf("%s should be valid", c)
		}
	}
	if Collection("incomes").IsValid() {
		t.Error("incomes should not be valid")
	}
}

func TestUserRecord_Clone(t *testing.T) {
	rec := EmptyRecord()
	rec.Expenses = append(rec.Expenses, Expense{ID: "e1"})
	clone := rec.Clone()
	clone.Expenses[0].ID = "changed"
	if rec.Expenses[0].ID != "e1" {
		t.Error("Clone shares backing array with original")
	}
}

func TestCollectionHelpers(t *testing.T) {
	items := []Expense{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	updated, err := UpdateItem(items, Expense{ID: "b", Category: "Rent"})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated[1].Category != "Rent" || items[1].Category != "" {
		t.Errorf("UpdateItem should edit in place on a copy: %+v / %+v", updated, items)
	}
	if _, err := UpdateItem(items, Expense{ID: "x"}); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("UpdateItem unknown id: %v", err)
	}

	removed, err := RemoveItem(items, "a")
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(removed) != 2 || removed[0].ID != "b" || len(items) != 3 {
		t.Errorf("RemoveItem = %+v", removed)
	}
	if _, err := RemoveItem(items, "x"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("RemoveItem unknown id: %v", err)
	}

	appended := AppendItem(items[:1], Expense{ID: "z"})
	if len(appended) != 2 || appended[1].ID != "z" || items[1].ID != "b" {
		t.Errorf("AppendItem must not clobber the source backing array: %+v / %+v", appended, items)
	}
}
