package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"mytasks/internal/task"
)

func TestTasksChangedSetsGauge(t *testing.T) {
	r := New()
	r.TasksChanged([]task.Task{
		{ID: 1, Status: task.StatusDone},
		{ID: 2, Status: task.StatusDone},
		{ID: 3},
	})

	if got := testutil.ToFloat64(r.Tasks.WithLabelValues("done")); got != 2 {
		t.Errorf("Expected 2 done, got %v", got)
	}
	if got := testutil.ToFloat64(r.Tasks.WithLabelValues("in-progress")); got != 0 {
		t.Errorf("Expected 0 in progress, got %v", got)
	}

	r.TasksChanged(nil)
	if got := testutil.ToFloat64(r.Tasks.WithLabelValues("done")); got != 0 {
		t.Errorf("Expected gauge reset to 0, got %v", got)
	}
}

func TestObserveAndImported(t *testing.T) {
	r := New()
	r.Observe("add", "success", time.Now())
	r.Observe("add", "success", time.Now())
	r.Observe("add", "error", time.Now())
	r.AddImported(3)

	if got := testutil.ToFloat64(r.Ops.WithLabelValues("add", "success")); got != 2 {
		t.Errorf("Expected 2 successful adds, got %v", got)
	}
	if got := testutil.ToFloat64(r.Imported); got != 3 {
		t.Errorf("Expected 3 imported, got %v", got)
	}
	if got := testutil.CollectAndCount(r.Duration); got != 1 {
		t.Errorf("Expected one duration series, got %d", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.Observe("delete", "noop", time.Now())
	path := filepath.Join(t.TempDir(), "mytasks.prom")

	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `mytasks_operations_total{op="delete",result="noop"} 1`) {
		t.Errorf("Unexpected textfile:\n%s", data)
	}
}
