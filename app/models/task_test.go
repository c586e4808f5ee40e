package models

import (
	"errors"
	"testing"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"", PriorityLow, false},
		{"low", PriorityLow, false},
		{"Medium", PriorityMedium, false},
		{" HIGH ", PriorityHigh, false},
		{"urgent", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPriority) {
				t.Errorf("ParsePriority(%q): expected ErrInvalidPriority, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePriority(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestParseFilterAndSort(t *testing.T) {
	if f, err := ParseFilter("pending"); err != nil || f != FilterPending {
		t.Errorf("ParseFilter(pending) = %q, %v", f, err)
	}
	if _, err := ParseFilter("done"); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
	if s, err := ParseSortKey(""); err != nil || s != SortByDate {
		t.Errorf("ParseSortKey(\"\") = %q, %v", s, err)
	}
	if s, err := ParseSortKey("Priority"); err != nil || s != SortByPriority {
		t.Errorf("ParseSortKey(Priority) = %q, %v", s, err)
	}
	if _, err := ParseSortKey("name"); !errors.Is(err, ErrInvalidSort) {
		t.Errorf("expected ErrInvalidSort, got %v", err)
	}
}

func TestDue(t *testing.T) {
	if _, ok := (Task{Deadline: ""}).Due(); ok {
		t.Errorf("empty deadline parsed")
	}
	if _, ok := (Task{Deadline: "tomorrow"}).Due(); ok {
		t.Errorf("free text deadline parsed")
	}
	d, ok := (Task{Deadline: "2024-02-29"}).Due()
	if !ok || d.Year() != 2024 || d.Month() != 2 || d.Day() != 29 {
		t.Errorf("unexpected due %v ok=%v", d, ok)
	}
}

func TestDraftReset(t *testing.T) {
	d := Draft{Text: "x", Priority: PriorityHigh, Deadline: "2024-01-01"}
	d.Reset()
	if d != (Draft{Priority: PriorityLow}) {
		t.Errorf("unexpected draft after reset: %+v", d)
	}
}
