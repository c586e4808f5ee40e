// Package storage keeps the serialized task collection in a single durable
// slot and provides the backends that can hold it.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"tasklist/app/models"
)

// Key names the slot holding the task collection.
const Key = "tasks"

// Slot is a single named value that survives restarts. Write replaces the
// whole value. Read returns nil, nil when nothing has been written yet.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, value []byte) error
	Close(ctx context.Context) error
}

// Encode serializes the collection in order.
func Encode(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return b, nil
}

// Decode parses a value written by Encode. An empty value or JSON null is an
// empty collection. The value must be a JSON array; its entries are taken
// best-effort: a field of the wrong type is left at its zero value and the
// rest of the entry is kept.
func Decode(value []byte) ([]models.Task, error) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return []models.Task{}, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(value, &entries); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	tasks := make([]models.Task, 0, len(entries))
	for _, entry := range entries {
		tasks = append(tasks, decodeTask(entry))
	}
	return tasks, nil
}

func decodeTask(entry json.RawMessage) models.Task {
	var t models.Task
	if err := json.Unmarshal(entry, &t); err == nil {
		return t
	}

	t = models.Task{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return t
	}
	targets := map[string]any{
		"id":        &t.ID,
		"text":      &t.Text,
		"priority":  &t.Priority,
		"deadline":  &t.Deadline,
		"completed": &t.Completed,
	}
	for name, target := range targets {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		// a failed unmarshal can leave a partial value behind
		if err := json.Unmarshal(raw, target); err != nil {
			reset(target)
		}
	}
	return t
}

func reset(target any) {
	switch v := target.(type) {
	case *int64:
		*v = 0
	case *string:
		*v = ""
	case *models.Priority:
		*v = ""
	case *bool:
		*v = false
	}
}
