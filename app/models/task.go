package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EmptyTextNotice is shown to the user when an add is rejected.
const EmptyTextNotice = "Task name cannot be empty."

// DeleteQuestion is asked before a task is removed.
const DeleteQuestion = "Are you sure you want to delete this task?"

// Accepted deadline layouts, tried in order.
var deadlineLayouts = []string{"2006-01-02", time.RFC3339}

// Domain errors.
var (
	ErrEmptyText       = errors.New("task text is empty")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrInvalidSort     = errors.New("invalid sort key")
)

// Task represents a single to-do item.
type Task struct {
	ID        int64    `json:"id"`
	Text      string   `json:"text"`
	Priority  Priority `json:"priority"`
	Deadline  string   `json:"deadline"`
	Completed bool     `json:"completed"`
}

// Due parses the deadline. ok is false when the deadline is empty or
// does not match any accepted layout.
func (t Task) Due() (due time.Time, ok bool) {
	d := strings.TrimSpace(t.Deadline)
	if d == "" {
		return time.Time{}, false
	}
	for _, layout := range deadlineLayouts {
		if parsed, err := time.Parse(layout, d); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Priority is one of Low, Medium or High. Values read back from storage are
// kept as-is even when they are none of those.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Rank orders priorities for sorting. Unknown priorities rank below Low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// ParsePriority accepts the priority names case-insensitively.
// An empty string yields the default priority.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// Filter selects which tasks a view keeps.
type Filter string

const (
	FilterAll       Filter = "All"
	FilterCompleted Filter = "Completed"
	FilterPending   Filter = "Pending"
)

// ParseFilter accepts filter names case-insensitively. Empty means All.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "completed":
		return FilterCompleted, nil
	case "pending":
		return FilterPending, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
}

// Keep reports whether t passes the filter.
func (f Filter) Keep(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	}
	return true
}

// SortKey selects the ordering of a view.
type SortKey string

const (
	SortByDate     SortKey = "Date"
	SortByPriority SortKey = "Priority"
)

// ParseSortKey accepts sort key names case-insensitively. Empty means Date.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "date", "deadline":
		return SortByDate, nil
	case "priority":
		return SortByPriority, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
}

// Draft holds the input for a task that has not been added yet.
type Draft struct {
	Text     string   `json:"text"`
	Priority Priority `json:"priority"`
	Deadline string   `json:"deadline"`
}

// Reset clears the draft back to its defaults.
func (d *Draft) Reset() {
	d.Text = ""
	d.Priority = PriorityLow
	d.Deadline = ""
}
