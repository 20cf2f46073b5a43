package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mytasks/internal/logger"
	"mytasks/internal/metrics"
	"mytasks/internal/task"
)

// Persister stores the whole collection after each change.
type Persister interface {
	SaveTasks([]task.Task) error
}

// Observer is told about every committed change.
type Observer interface {
	TasksChanged([]task.Task)
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Controller) { c.metrics = r }
}

// Controller owns the in-memory collection. A change is applied only
// after the store accepted it, so a failed save leaves state untouched.
type Controller struct {
	tasks     []task.Task
	store     Persister
	observers []Observer
	metrics   *metrics.Recorder
	now       func() time.Time
}

func New(store Persister, tasks []task.Task, opts ...Option) *Controller {
	if tasks == nil {
		tasks = []task.Task{}
	}
	c := &Controller{
		tasks: tasks,
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = metrics.New()
	}
	c.observers = append(c.observers, c.metrics)
	c.notify()
	return c
}

func (c *Controller) Now() time.Time {
	return c.now()
}

func (c *Controller) Today() task.Date {
	return task.DateOf(c.now())
}

func (c *Controller) Metrics() *metrics.Recorder {
	return c.metrics
}

// Tasks returns the current collection. Callers must not modify it.
func (c *Controller) Tasks() []task.Task {
	return c.tasks
}

func (c *Controller) Find(id int64) (task.Task, bool) {
	return task.Find(c.tasks, id)
}

func (c *Controller) Visible(mode task.FilterMode, query string) []task.Task {
	return task.Visible(c.tasks, mode, query, c.Today())
}

func (c *Controller) Add(f task.Fields) (task.Task, error) {
	started := time.Now()
	next, added, err := task.Add(c.tasks, f, c.now())
	if err != nil {
		c.metrics.Observe("add", "error", started)
		return task.Task{}, err
	}
	if err := c.commit("add", next, started); err != nil {
		return task.Task{}, err
	}
	logger.Debug(context.Background(), "task added", "id", added.ID)
	return added, nil
}

func (c *Controller) UpdateStatus(id int64, s task.Status) (bool, error) {
	started := time.Now()
	next, found := task.UpdateStatus(c.tasks, id, s, c.now())
	if !found {
		c.metrics.Observe("status", "noop", started)
		return false, nil
	}
	return true, c.commit("status", next, started)
}

func (c *Controller) Edit(id int64, f task.Fields) (bool, error) {
	started := time.Now()
	next, found, err := task.Edit(c.tasks, id, f)
	if err != nil {
		c.metrics.Observe("edit", "error", started)
		return false, err
	}
	if !found {
		c.metrics.Observe("edit", "noop", started)
		return false, nil
	}
	return true, c.commit("edit", next, started)
}

func (c *Controller) Duplicate(id int64) (task.Task, bool, error) {
	started := time.Now()
	next, dup, found := task.Duplicate(c.tasks, id, c.now())
	if !found {
		c.metrics.Observe("duplicate", "noop", started)
		return task.Task{}, false, nil
	}
	if err := c.commit("duplicate", next, started); err != nil {
		return task.Task{}, false, err
	}
	return dup, true, nil
}

func (c *Controller) Delete(id int64) (bool, error) {
	started := time.Now()
	next, found := task.Delete(c.tasks, id)
	if !found {
		c.metrics.Observe("delete", "noop", started)
		return false, nil
	}
	return true, c.commit("delete", next, started)
}

func (c *Controller) ClearAll() error {
	return c.commit("clear", []task.Task{}, time.Now())
}

// ParseImport checks an import payload without touching the collection,
// so the caller can confirm the count first.
func (c *Controller) ParseImport(data []byte) ([]task.Task, error) {
	imported, err := task.Decode(data)
	if err != nil {
		c.metrics.Observe("import", "error", time.Now())
		return nil, err
	}
	return imported, nil
}

// Import appends imported to the collection.
func (c *Controller) Import(imported []task.Task) error {
	if err := c.commit("import", task.Merge(c.tasks, imported), time.Now()); err != nil {
		return err
	}
	c.metrics.AddImported(len(imported))
	logger.Info(context.Background(), "tasks imported", "count", len(imported))
	return nil
}

func (c *Controller) ImportFile(path string) ([]task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c.ParseImport(data)
}

// Export returns the collection as indented JSON and a file name carrying
// today's date.
func (c *Controller) Export() ([]byte, string, error) {
	data, err := task.Encode(c.tasks)
	if err != nil {
		return nil, "", err
	}
	return data, task.ExportFileName(c.now()), nil
}

// ExportTo writes the export file into dir and returns its path.
func (c *Controller) ExportTo(dir string) (string, error) {
	data, name, err := c.Export()
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	logger.Info(context.Background(), "tasks exported", "path", path, "count", len(c.tasks))
	return path, nil
}

func (c *Controller) commit(op string, next []task.Task, started time.Time) error {
	if err := c.store.SaveTasks(next); err != nil {
		c.metrics.Observe(op, "error", started)
		logger.Error(context.Background(), err, "save failed", "op", op)
		return fmt.Errorf("save failed: %w", err)
	}
	c.tasks = next
	c.metrics.Observe(op, "success", started)
	c.notify()
	return nil
}

func (c *Controller) notify() {
	for _, o := range c.observers {
		o.TasksChanged(c.tasks)
	}
}
