package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"tasklist/app/models"
	"tasklist/app/prompt"
	"tasklist/app/storage"
	"tasklist/app/store"
)

// TaskService handles task operations and writes the collection to its slot
// after every change.
type TaskService struct {
	mu    sync.Mutex
	slot  storage.Slot
	store *store.Store
	ids   store.IDSource
	log   logr.Logger
	alert prompt.Alerter
}

// Option configures a TaskService.
type Option func(*TaskService)

// WithLogger sets the logger. The default discards.
func WithLogger(l logr.Logger) Option {
	return func(s *TaskService) { s.log = l }
}

// WithAlerter sets where rejected adds are reported.
func WithAlerter(a prompt.Alerter) Option {
	return func(s *TaskService) { s.alert = a }
}

// WithIDs sets the id source used for new tasks.
func WithIDs(ids store.IDSource) Option {
	return func(s *TaskService) { s.ids = ids }
}

// NewTaskService creates a new instance of TaskService. Call Load before use.
func NewTaskService(slot storage.Slot, opts ...Option) *TaskService {
	s := &TaskService{
		slot:  slot,
		log:   logr.Discard(),
		alert: prompt.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = store.NewClockIDs()
	}
	s.store = store.New(nil, s.ids)
	return s
}

// Load reads the persisted collection. An empty slot gives an empty
// collection.
func (s *TaskService) Load(ctx context.Context) error {
	value, err := s.slot.Read(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	tasks, err := storage.Decode(value)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store.New(tasks, s.ids)
	s.log.V(1).Info("loaded tasks", "count", len(tasks))
	return nil
}

// GetTasks returns the collection in insertion order.
func (s *TaskService) GetTasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Tasks()
}

// GetTaskByID retrieves a single task by its ID.
func (s *TaskService) GetTaskByID(id int64) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(id)
}

// View returns the filtered and sorted tasks for display.
func (s *TaskService) View(filter models.Filter, by models.SortKey) []models.Task {
	return store.DeriveView(s.GetTasks(), filter, by)
}

// CreateTask adds a task from the draft and resets the draft. An empty draft
// text is reported to the alerter and returned as models.ErrEmptyText.
func (s *TaskService) CreateTask(ctx context.Context, draft *models.Draft) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, task, err := s.store.Add(*draft)
	if errors.Is(err, models.ErrEmptyText) {
		s.alert.Alert(models.EmptyTextNotice)
		return models.Task{}, err
	}
	if err != nil {
		return models.Task{}, err
	}
	draft.Reset()

	s.log.Info("task created", "id", task.ID, "priority", task.Priority)
	return task, s.persist(ctx, tasks)
}

// ToggleTask flips the completion flag. ok is false when no task has the id.
func (s *TaskService) ToggleTask(ctx context.Context, id int64) (task models.Task, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, ok := s.store.Toggle(id)
	if !ok {
		return models.Task{}, false, nil
	}
	task, _ = s.store.Get(id)
	s.log.Info("task toggled", "id", id, "completed", task.Completed)
	return task, true, s.persist(ctx, tasks)
}

// UpdateTaskText replaces a task's text. Empty text is accepted.
func (s *TaskService) UpdateTaskText(ctx context.Context, id int64, text string) (task models.Task, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, ok := s.store.EditText(id, text)
	if !ok {
		return models.Task{}, false, nil
	}
	task, _ = s.store.Get(id)
	s.log.Info("task edited", "id", id)
	return task, true, s.persist(ctx, tasks)
}

// DeleteTask asks confirm before removing the task. removed is false when
// the user declines or no task has the id.
func (s *TaskService) DeleteTask(ctx context.Context, id int64, confirm prompt.Confirmer) (removed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Get(id); !ok {
		return false, nil
	}
	confirmed := confirm.Confirm(ctx, models.DeleteQuestion)
	tasks, removed := s.store.Remove(id, confirmed)
	if !removed {
		s.log.V(1).Info("task delete declined", "id", id)
		return false, nil
	}
	s.log.Info("task deleted", "id", id)
	return true, s.persist(ctx, tasks)
}

func (s *TaskService) persist(ctx context.Context, tasks []models.Task) error {
	value, err := storage.Encode(tasks)
	if err != nil {
		return err
	}
	if err := s.slot.Write(ctx, value); err != nil {
		s.log.Error(err, "failed to persist tasks", "count", len(tasks))
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}
