package core

import (
	"encoding/json"
	"testing"
)

func TestParseISODate(t *testing.T) {
	d, err := ParseISODate("2024-05-02")
	if err != nil {
		t.Fatalf("ParseISODate: %v", err)
	}
	if got := d.ISO(); got != "2024-05-02" {
		t.Errorf("ISO() = %q, want %q", got, "2024-05-02")
	}
	if got := d.Display(); got != "02-05-2024" {
		t.Errorf("Display() = %q, want %q", got, "02-05-2024")
	}

	if _, err := ParseISODate("02/05/2024"); err == nil {
		t.Error("expected error for non-ISO input")
	}
}

func TestDateWithin(t *testing.T) {
	start, end := NewDate(2024, 5, 1), NewDate(2024, 5, 5)

	tests := []struct {
		name string
		day  Date
		want bool
	}{
		{name: "inside", day: NewDate(2024, 5, 3), want: true},
		{name: "on start", day: start, want: true},
		{name: "on end", day: end, want: true},
		{name: "before", day: NewDate(2024, 4, 30), want: false},
		{name: "after", day: NewDate(2024, 5, 6), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.day.Within(start, end); got != tt.want {
				t.Errorf("Within() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	in := NewDate(2024, 5, 2)
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-05-02"` {
		t.Errorf("marshal = %s, want %q", data, `"2024-05-02"`)
	}
	var out Date
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Equal(in) {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}
