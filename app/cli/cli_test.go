package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"tasklist/app/config"
	"tasklist/app/models"
	"tasklist/app/storage"
)

type harness struct {
	t       *testing.T
	dataDir string
	cfgPath string
}

func newHarness(t *testing.T) *harness {
	dir := t.TempDir()
	return &harness{
		t:       t,
		dataDir: filepath.Join(dir, "data"),
		cfgPath: filepath.Join(dir, "missing.json"),
	}
}

// run executes one command line with stdin set to input and returns stdout,
// stderr and the error.
func (h *harness) run(input string, args ...string) (string, string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(strings.NewReader(input), &out, &errOut)
	full := append([]string{"tasklist", "--config", h.cfgPath, "--backend", "file", "--data-dir", h.dataDir}, args...)
	err := app.Run(full)
	return out.String(), errOut.String(), err
}

func (h *harness) tasks() []models.Task {
	h.t.Helper()
	b, err := storage.NewFileSlot(h.dataDir, storage.Key).Read(context.Background())
	if err != nil {
		h.t.Fatalf("Read failed: %v", err)
	}
	tasks, err := storage.Decode(b)
	if err != nil {
		h.t.Fatalf("Decode failed: %v", err)
	}
	return tasks
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	if _, _, err := h.run("", "add", "--priority", "low", "Water", "plants"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, _, err := h.run("", "add", "-p", "high", "-d", "2024-03-01", "Pay", "rent"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	tasks := h.tasks()
	if len(tasks) != 2 || tasks[0].Text != "Water plants" || tasks[1].Priority != models.PriorityHigh {
		t.Fatalf("unexpected stored tasks %+v", tasks)
	}

	out, _, err := h.run("", "list", "--sort", "priority")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", out)
	}
	if !strings.Contains(lines[1], "Pay rent") || !strings.Contains(lines[2], "Water plants") {
		t.Errorf("unexpected order:\n%s", out)
	}
}

func TestAddBlankAlerts(t *testing.T) {
	h := newHarness(t)
	_, errOut, err := h.run("", "add", "   ")
	if !errors.Is(err, models.ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
	if !strings.Contains(errOut, "! Task name cannot be empty.") {
		t.Errorf("expected an alert, got %q", errOut)
	}
	if len(h.tasks()) != 0 {
		t.Errorf("blank add stored a task")
	}
}

func TestToggleEditRemove(t *testing.T) {
	h := newHarness(t)
	h.run("", "add", "first")
	h.run("", "add", "second")
	tasks := h.tasks()
	id := strconv.FormatInt(tasks[0].ID, 10)

	if out, _, err := h.run("", "done", id); err != nil || !strings.Contains(out, "completed") {
		t.Fatalf("done: %q %v", out, err)
	}
	if !h.tasks()[0].Completed {
		t.Errorf("task not completed")
	}

	if _, _, err := h.run("", "edit", id, "renamed", "task"); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if got := h.tasks()[0].Text; got != "renamed task" {
		t.Errorf("expected renamed task, got %q", got)
	}

	out, errOut, err := h.run("n\n", "rm", id)
	if err != nil {
		t.Fatalf("rm failed: %v", err)
	}
	if !strings.Contains(errOut, "Are you sure you want to delete this task?") || !strings.Contains(out, "Kept") {
		t.Errorf("unexpected declined output %q / %q", out, errOut)
	}
	if len(h.tasks()) != 2 {
		t.Errorf("declined rm removed a task")
	}

	if _, _, err := h.run("y\n", "rm", id); err != nil {
		t.Fatalf("rm failed: %v", err)
	}
	left := h.tasks()
	if len(left) != 1 || left[0].Text != "second" {
		t.Errorf("unexpected tasks after rm %+v", left)
	}

	if out, _, _ := h.run("", "rm", "--yes", id); !strings.Contains(out, "No task") {
		t.Errorf("expected no task message, got %q", out)
	}
}

func TestBadInput(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run("", "done", "abc"); err == nil {
		t.Errorf("expected an error for a bad id")
	}
	if _, _, err := h.run("", "add", "-p", "urgent", "x"); !errors.Is(err, models.ErrInvalidPriority) {
		t.Errorf("expected ErrInvalidPriority, got %v", err)
	}
	if _, _, err := h.run("", "list", "--filter", "done"); !errors.Is(err, models.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestExportToFile(t *testing.T) {
	h := newHarness(t)
	h.run("", "add", "a")
	path := filepath.Join(t.TempDir(), "tasks.csv")
	if _, _, err := h.run("", "export", "--format", "csv", "--out", path); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.HasPrefix(string(b), "id,text,priority,deadline,completed\n") {
		t.Errorf("unexpected export %q", b)
	}
}

func TestCorruptConfigFails(t *testing.T) {
	h := newHarness(t)
	os.WriteFile(h.cfgPath, []byte("{"), 0600)
	if _, _, err := h.run("", "list"); err == nil {
		t.Errorf("expected a decode error even with --backend set")
	}
}

func TestBackendFlagOverridesFile(t *testing.T) {
	h := newHarness(t)
	os.WriteFile(h.cfgPath, []byte(`{"backend":"bogus"}`), 0600)
	if _, _, err := h.run("", "list"); err != nil {
		t.Errorf("--backend should replace the file's backend: %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	t.Setenv("TASKLIST_BACKEND", "")
	t.Setenv("TASKLIST_DATA_DIR", "")
	h := newHarness(t)

	out, _, err := h.run("", "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, h.cfgPath) {
		t.Errorf("expected the path in %q", out)
	}
	cfg, err := config.Load(h.cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != config.BackendFile || cfg.DataDir != h.dataDir {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, _, err := h.run("", "config", "init"); err == nil {
		t.Errorf("expected an error when the file exists")
	}
	if _, _, err := h.run("", "config", "init", "--force"); err != nil {
		t.Errorf("config init --force failed: %v", err)
	}
}
