// Package http exposes the record operations and reports as a JSON API.
//
// This file decodes request bodies into the item types of a record. Amounts
// accept a JSON number or a string and go through the strict amount parser,
// so a bad amount is a validation failure rather than a malformed body.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"wealthwatcher/internal/core"
)

const maxBodyBytes = 1 << 20

var errMalformedBody = errors.New("malformed request body")

// decodeJSON reads exactly one JSON object into dst. Unknown fields, trailing
// data and oversized bodies are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after object", errMalformedBody)
	}
	return nil
}

// amountField holds the raw text of an amount until it is validated.
type amountField struct {
	raw string
	set bool
}

func (a *amountField) UnmarshalJSON(data []byte) error {
	a.set = true
	if string(data) == "null" {
		a.raw = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.raw = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	a.raw = n.String()
	return nil
}

func (a amountField) value() (decimal.Decimal, error) {
	return core.ParseAmount(a.raw)
}

// valueOr returns def when the field was omitted.
func (a amountField) valueOr(def decimal.Decimal) (decimal.Decimal, error) {
	if !a.set {
		return def, nil
	}
	return a.value()
}

type expenseRequest struct {
	Category    string      `json:"category"`
	Amount      amountField `json:"amount"`
	Description string      `json:"description"`
	Date        core.Date   `json:"date"`
}

func (req expenseRequest) expense(id string) (core.Expense, error) {
	amount, err := req.Amount.value()
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		ID:          id,
		Category:    sanitizeInput(req.Category),
		Amount:      amount,
		Description: sanitizeInput(req.Description),
		Date:        req.Date,
	}, nil
}

type budgetRequest struct {
	Category       string      `json:"category"`
	Description    string      `json:"description"`
	BudgetedAmount amountField `json:"budgetedAmount"`
}

func (req budgetRequest) budget(id string) (core.Budget, error) {
	amount, err := req.BudgetedAmount.value()
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		ID:             id,
		Category:       sanitizeInput(req.Category),
		Description:    sanitizeInput(req.Description),
		BudgetedAmount: amount,
	}, nil
}

// goalRequest is the body of a goal create or edit. An edit that omits
// currentAmount keeps the stored progress.
type goalRequest struct {
	Description   string      `json:"description"`
	Amount        amountField `json:"amount"`
	CurrentAmount amountField `json:"currentAmount"`
}

func (req goalRequest) goal(id string) (core.Goal, error) {
	amount, err := req.Amount.value()
	if err != nil {
		return core.Goal{}, err
	}
	current, err := req.CurrentAmount.valueOr(decimal.Zero)
	if err != nil {
		return core.Goal{}, err
	}
	return core.Goal{
		ID:            id,
		Description:   sanitizeInput(req.Description),
		Amount:        amount,
		CurrentAmount: current,
	}, nil
}

// adjustRequest carries the positive amount of a deposit or withdrawal.
type adjustRequest struct {
	Amount amountField `json:"amount"`
}

type profileRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// sanitizeInput trims whitespace and drops control characters other than
// tab and newlines.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
