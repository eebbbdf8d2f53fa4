package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// storedDocument mirrors the persisted document loosely; every field is
// decoded separately so one malformed collection does not poison the rest.
type storedDocument struct {
	Profile  json.RawMessage `json:"profile"`
	Expenses json.RawMessage `json:"expenses"`
	Budgets  json.RawMessage `json:"budgets"`
	Goals    json.RawMessage `json:"goals"`
}

// DecodeUserRecord turns a stored JSON document into a typed record. It only
// fails when data is not a JSON object; malformed fields degrade to zero
// values and malformed collections to empty ones.
func DecodeUserRecord(data []byte) (UserRecord, error) {
	var doc storedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return UserRecord{}, fmt.Errorf("decode user record: %w", err)
	}

	return DecodeColumns(doc.Profile, doc.Expenses, doc.Budgets, doc.Goals), nil
}

// DecodeColumns builds a record from the per-field JSON the SQL stores keep in
// separate columns. It never fails; see DecodeUserRecord.
func DecodeColumns(profile, expenses, budgets, goals []byte) UserRecord {
	rec := EmptyRecord()
	if len(profile) > 0 {
		_ = json.Unmarshal(profile, &rec.Profile)
	}
	for _, item := range decodeItems(expenses) {
		rec.Expenses = append(rec.Expenses, expenseFromMap(item))
	}
	for _, item := range decodeItems(budgets) {
		rec.Budgets = append(rec.Budgets, budgetFromMap(item))
	}
	for _, item := range decodeItems(goals) {
		rec.Goals = append(rec.Goals, goalFromMap(item))
	}
	return rec
}

// DecodeCollection decodes a single stored collection into rec, replacing
// whatever rec held for it.
func DecodeCollection(rec *UserRecord, c Collection, data []byte) error {
	items := decodeItems(data)
	switch c {
	case Expenses:
		rec.Expenses = make([]Expense, 0, len(items))
		for _, item := range items {
			rec.Expenses = append(rec.Expenses, expenseFromMap(item))
		}
	case Budgets:
		rec.Budgets = make([]Budget, 0, len(items))
		for _, item := range items {
			rec.Budgets = append(rec.Budgets, budgetFromMap(item))
		}
	case Goals:
		rec.Goals = make([]Goal, 0, len(items))
		for _, item := range items {
			rec.Goals = append(rec.Goals, goalFromMap(item))
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
	return nil
}

// EncodeCollection serializes the named collection of rec.
func EncodeCollection(rec UserRecord, c Collection) ([]byte, error) {
	switch c {
	case Expenses:
		return json.Marshal(nonNil(rec.Expenses))
	case Budgets:
		return json.Marshal(nonNil(rec.Budgets))
	case Goals:
		return json.Marshal(nonNil(rec.Goals))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func decodeItems(data []byte) []map[string]any {
	if len(data) == 0 {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		dec := json.NewDecoder(bytes.NewReader(r))
		dec.UseNumber()
		var m map[string]any
		if err := dec.Decode(&m); err != nil || m == nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func expenseFromMap(m map[string]any) Expense {
	return Expense{
		ID:          stringField(m, "id"),
		Category:    stringField(m, "category"),
		Amount:      LenientAmount(m["amount"]),
		Description: stringField(m, "description"),
		Date:        ParseDate(stringField(m, "date")),
	}
}

func budgetFromMap(m map[string]any) Budget {
	return Budget{
		ID:             stringField(m, "id"),
		Category:       stringField(m, "category"),
		Description:    stringField(m, "description"),
		BudgetedAmount: LenientAmount(m["budgetedAmount"]),
	}
}

func goalFromMap(m map[string]any) Goal {
	return Goal{
		ID:            stringField(m, "id"),
		Description:   stringField(m, "description"),
		Amount:        LenientAmount(m["amount"]),
		CurrentAmount: LenientAmount(m["currentAmount"]),
	}
}
