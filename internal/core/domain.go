package core

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Collection names one of the child sequences of a UserRecord.
type Collection string

const (
	Expenses Collection = "expenses"
	Budgets  Collection = "budgets"
	Goals    Collection = "goals"
)

// UnknownCategory labels expenses and budgets stored without a category.
const UnknownCategory = "Unknown"

const maxDescriptionLen = 200

type (
	Expense struct {
		ID          string          `json:"id"`
		Category    string          `json:"category"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
	}

	Budget struct {
		ID             string          `json:"id"`
		Category       string          `json:"category"`
		Description    string          `json:"description"`
		BudgetedAmount decimal.Decimal `json:"budgetedAmount"`
	}

	// Goal is a savings target. Amount is the target, CurrentAmount the progress so far.
	Goal struct {
		ID            string          `json:"id"`
		Description   string          `json:"description"`
		Amount        decimal.Decimal `json:"amount"`
		CurrentAmount decimal.Decimal `json:"currentAmount"`
	}

	Profile struct {
		DisplayName string `json:"displayName,omitempty"`
		Email       string `json:"email,omitempty"`
	}

	// UserRecord is the aggregate document owned by one identity.
	UserRecord struct {
		Profile  Profile   `json:"profile"`
		Expenses []Expense `json:"expenses"`
		Budgets  []Budget  `json:"budgets"`
		Goals    []Goal    `json:"goals"`
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrItemNotFound       = errors.New("item not found")
	ErrUnknownCollection  = errors.New("unknown collection")
)

// NewID returns a fresh identifier for a collection item.
func NewID() string {
	return uuid.NewString()
}

// IsValid reports whether c names one of the three record collections.
func (c Collection) IsValid() bool {
	switch c {
	case Expenses, Budgets, Goals:
		return true
	default:
		return false
	}
}

func validateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func validateDescription(s string, required bool) error {
	if required && strings.TrimSpace(s) == "" {
		return ErrEmptyDescription
	}
	if len(s) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := validateAmount(e.Amount); err != nil {
		return err
	}
	if !e.Date.Valid() {
		return ErrInvalidDate
	}
	return validateDescription(e.Description, false)
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := validateAmount(b.BudgetedAmount); err != nil {
		return err
	}
	return validateDescription(b.Description, false)
}

func (g Goal) Validate() error {
	if err := validateDescription(g.Description, true); err != nil {
		return err
	}
	if err := validateAmount(g.Amount); err != nil {
		return err
	}
	return validateAmount(g.CurrentAmount)
}

// EmptyRecord returns a record with non-nil, empty collections.
func EmptyRecord() UserRecord {
	return UserRecord{
		Expenses: []Expense{},
		Budgets:  []Budget{},
		Goals:    []Goal{},
	}
}

// Clone returns a deep copy of the record's collections.
func (r UserRecord) Clone() UserRecord {
	return UserRecord{
		Profile:  r.Profile,
		Expenses: append([]Expense{}, r.Expenses...),
		Budgets:  append([]Budget{}, r.Budgets...),
		Goals:    append([]Goal{}, r.Goals...),
	}
}
