// Package store holds the task collection and the rules for changing it and
// deriving views from it. It does no I/O; callers persist the collections it
// returns.
package store

import (
	"sort"
	"strings"

	"tasklist/app/models"
)

// Store is an ordered task collection. Slices returned by its methods are
// never modified afterwards, so callers may keep them.
type Store struct {
	tasks []models.Task
	ids   IDSource
}

// New returns a store holding tasks in the given order. No validation is done
// on the tasks. A nil ids uses NewClockIDs.
func New(tasks []models.Task, ids IDSource) *Store {
	if ids == nil {
		ids = NewClockIDs()
	}
	return &Store{tasks: clone(tasks), ids: ids}
}

// Tasks returns the collection in insertion order.
func (s *Store) Tasks() []models.Task {
	return s.tasks
}

// Get looks up a task by id.
func (s *Store) Get(id int64) (models.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// Add appends a task built from the draft. The draft text must contain
// something other than whitespace.
func (s *Store) Add(d models.Draft) ([]models.Task, models.Task, error) {
	if strings.TrimSpace(d.Text) == "" {
		return s.tasks, models.Task{}, models.ErrEmptyText
	}
	priority := d.Priority
	if priority == "" {
		priority = models.PriorityLow
	}
	task := models.Task{
		ID:        s.ids.Next(s.has),
		Text:      d.Text,
		Priority:  priority,
		Deadline:  d.Deadline,
		Completed: false,
	}
	next := make([]models.Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	s.tasks = append(next, task)
	return s.tasks, task, nil
}

// Toggle flips the completion flag of the task with the given id.
// ok is false, and nothing changes, when no task has that id.
func (s *Store) Toggle(id int64) ([]models.Task, bool) {
	return s.update(id, func(t *models.Task) { t.Completed = !t.Completed })
}

// EditText replaces the text of the task with the given id. Unlike Add, an
// empty text is accepted.
func (s *Store) EditText(id int64, text string) ([]models.Task, bool) {
	return s.update(id, func(t *models.Task) { t.Text = text })
}

// Remove drops the task with the given id when confirmed is true.
// ok reports whether the collection changed.
func (s *Store) Remove(id int64, confirmed bool) ([]models.Task, bool) {
	if !confirmed {
		return s.tasks, false
	}
	next := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	if len(next) == len(s.tasks) {
		return s.tasks, false
	}
	s.tasks = next
	return s.tasks, true
}

func (s *Store) update(id int64, fn func(*models.Task)) ([]models.Task, bool) {
	idx := -1
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.tasks, false
	}
	next := clone(s.tasks)
	fn(&next[idx])
	s.tasks = next
	return s.tasks, true
}

func (s *Store) has(id int64) bool {
	_, ok := s.Get(id)
	return ok
}

// DeriveView filters and orders tasks for display. The input is not modified.
//
// Priority order is High, Medium, Low, then unknown priorities. Date order is
// ascending by deadline with empty or unparsable deadlines last. Both sorts
// are stable.
func DeriveView(tasks []models.Task, filter models.Filter, by models.SortKey) []models.Task {
	view := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.Keep(t) {
			view = append(view, t)
		}
	}

	switch by {
	case models.SortByPriority:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Priority.Rank() > view[j].Priority.Rank()
		})
	case models.SortByDate:
		sort.SliceStable(view, func(i, j int) bool {
			di, okI := view[i].Due()
			dj, okJ := view[j].Due()
			switch {
			case okI && okJ:
				return di.Before(dj)
			case okI:
				return true
			default:
				return false
			}
		})
	}
	return view
}

func clone(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}
