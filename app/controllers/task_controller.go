package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"tasklist/app/export"
	"tasklist/app/models"
	"tasklist/app/prompt"
	"tasklist/app/services"

	"github.com/gorilla/mux"
)

// TaskController handles HTTP requests for tasks.
type TaskController struct {
	Service *services.TaskService
}

// NewTaskController creates a new TaskController.
func NewTaskController(service *services.TaskService) *TaskController {
	return &TaskController{Service: service}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func taskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["taskID"], 10, 64)
	return id, err == nil
}

// viewParams reads the filter and sort query parameters.
func viewParams(r *http.Request) (models.Filter, models.SortKey, error) {
	q := r.URL.Query()
	filter, err := models.ParseFilter(q.Get("filter"))
	if err != nil {
		return "", "", err
	}
	by, err := models.ParseSortKey(q.Get("sort"))
	if err != nil {
		return "", "", err
	}
	return filter, by, nil
}

// GetTasks handles GET /tasks.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	filter, by, err := viewParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, c.Service.View(filter, by))
}

// ExportTasks handles GET /tasks/export.
func (c *TaskController) ExportTasks(w http.ResponseWriter, r *http.Request) {
	filter, by, err := viewParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	body, err := export.Export(c.Service.View(filter, by), format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Write(body)
}

// CreateTask handles POST /tasks.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	priority, err := models.ParsePriority(string(draft.Priority))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	draft.Priority = priority

	newTask, err := c.Service.CreateTask(r.Context(), &draft)
	if errors.Is(err, models.ErrEmptyText) {
		http.Error(w, models.EmptyTextNotice, http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, newTask)
}

// GetTaskByID handles GET /tasks/{taskID}.
func (c *TaskController) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}
	task, ok := c.Service.GetTaskByID(id)
	if !ok {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// ToggleTask handles PATCH /tasks/{taskID}/toggle.
func (c *TaskController) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}
	task, ok, err := c.Service.ToggleTask(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{taskID}.
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}
	var updates struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil || updates.Text == nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, ok, err := c.Service.UpdateTaskText(r.Context(), id, *updates.Text)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{taskID}. The client confirms the
// deletion with ?confirm=true; without it the task is kept and 409 returned.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}
	if _, ok := c.Service.GetTaskByID(id); !ok {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	var asked string
	confirm := prompt.ConfirmFunc(func(_ context.Context, question string) bool {
		asked = question
		return confirmed
	})

	removed, err := c.Service.DeleteTask(r.Context(), id, confirm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !removed {
		if asked == "" {
			http.Error(w, "Task not found", http.StatusNotFound)
			return
		}
		http.Error(w, asked+" Repeat the request with confirm=true.", http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
