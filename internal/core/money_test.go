package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "dot separator", input: "12.34", want: 1234},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "no fraction", input: "15", want: 1500},
		{name: "one fractional digit", input: "15.5", want: 1550},
		{name: "third decimal rounds down", input: "12.345", want: 1234},
		{name: "third decimal rounds up", input: "12.346", want: 1235},
		{name: "zero allowed", input: "0", want: 0},
		{name: "leading whitespace", input: " 80.00 ", want: 8000},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-5.00", wantErr: true},
		{name: "explicit plus", input: "+5.00", wantErr: true},
		{name: "letters", input: "abc", wantErr: true},
		{name: "two separators", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseDecimalToCents(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyFormat(t *testing.T) {
	tests := []struct {
		name  string
		cents int64
		want  string
	}{
		{name: "whole", cents: 50000, want: "500.00"},
		{name: "fraction", cents: 9550, want: "95.50"},
		{name: "under one", cents: 5, want: "0.05"},
		{name: "zero", cents: 0, want: "0.00"},
		{name: "negative", cents: -450, want: "-4.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Money{Cents: tt.cents}).Format(); got != tt.want {
				t.Errorf("Money{%d}.Format() = %q, want %q", tt.cents, got, tt.want)
			}
		})
	}
}
