package core

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date layout used when serializing.
const DateLayout = "2006-01-02"

// Accepted input layouts. "01/02/2006" is what older clients stored.
var dateLayouts = []string{
	DateLayout,
	"01/02/2006",
	"1/2/2006",
	time.RFC3339,
	time.RFC3339Nano,
}

// Date is a calendar date. A Date that failed to parse keeps its raw text,
// reports Valid() == false and never matches a month filter.
type Date struct {
	time.Time
	raw   string
	valid bool
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), valid: true}
}

// ParseDate parses s against the accepted layouts. Unparsable input yields
// the invalid-date sentinel carrying s.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return NewDate(t.Year(), int(t.Month()), t.Day())
	}
	return Date{raw: s}
}

// Valid reports whether the date parsed. The zero Date is invalid, while
// a parsed 0001-01-01 is not.
func (d Date) Valid() bool {
	return d.valid
}

// SameMonth reports whether d falls in the calendar month and year of ref.
func (d Date) SameMonth(ref time.Time) bool {
	if !d.Valid() {
		return false
	}
	return d.Year() == ref.Year() && d.Month() == ref.Month()
}

func (d Date) String() string {
	if !d.Valid() {
		return d.raw
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Non-string dates are kept verbatim and treated as invalid.
		*d = Date{raw: strings.TrimSpace(string(data))}
		return nil
	}
	*d = ParseDate(s)
	return nil
}
