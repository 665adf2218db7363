package uuid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("New() = %q, not a valid UUID", id)
	}
	if id[14] != '7' {
		t.Errorf("expected version 7, got %q", id)
	}
	if New() == id {
		t.Error("expected unique ids")
	}
}

func TestNew_Ordered(t *testing.T) {
	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		if next[:8] < prev[:8] {
			t.Fatalf("timestamp prefix went backwards: %s then %s", prev, next)
		}
		prev = next
	}
}

func TestParse(t *testing.T) {
	upper := strings.ToUpper(New())
	got, err := Parse(upper)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != strings.ToLower(upper) {
		t.Errorf("Parse = %q, want lowercase", got)
	}
	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0190a6b2-3c4d-7e8f-9a0b-1c2d3e4f5a6b", true},
		{"", false},
		{"123", false},
		{"0190a6b2-3c4d-7e8f-9a0b-1c2d3e4f5a6", false},
	}
	for _, tt := range tests {
		if got := IsValid(tt.in); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
