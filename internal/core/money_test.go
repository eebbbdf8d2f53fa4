package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12.34", "12.34", false},
		{"12,34", "12.34", false},
		{"0", "0", false},
		{"  7 ", "7", false},
		{"12.", "12", false},
		{".5", "0.5", false},
		{"1000000.01", "1000000.01", false},
		{"", "", true},
		{".", "", true},
		{"-1", "", true},
		{"+1", "", true},
		{"1e9", "", true},
		{"1.000,00", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.in, err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestLenientAmount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"json number", json.Number("42.5"), "42.5"},
		{"float", 3.25, "3.25"},
		{"numeric string", "19,99", "19.99"},
		{"negative string", "-4", "-4"},
		{"garbage string", "lots", "0"},
		{"nil", nil, "0"},
		{"bool", true, "0"},
		{"object", map[string]any{"v": 1}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LenientAmount(tt.in)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("LenientAmount(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
