package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mytasks/internal/task"
)

// Recorder keeps per-operation counters and a snapshot of the collection
// on its own registry, so nothing leaks into the global default.
type Recorder struct {
	Registry *prometheus.Registry

	Ops      *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Tasks    *prometheus.GaugeVec
	Imported prometheus.Counter
}

func New() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		Ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mytasks_operations_total",
				Help: "Task operations by name and result",
			},
			[]string{"op", "result"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mytasks_operation_duration_seconds",
				Help:    "Duration of task operations including persistence",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		Tasks: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mytasks_tasks",
				Help: "Tasks in the collection by status",
			},
			[]string{"status"},
		),
		Imported: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mytasks_imported_tasks_total",
				Help: "Tasks appended by import",
			},
		),
	}
	r.Registry.MustRegister(r.Ops, r.Duration, r.Tasks, r.Imported)
	return r
}

// Observe records one operation. result is "success", "error" or "noop".
func (r *Recorder) Observe(op, result string, started time.Time) {
	r.Ops.WithLabelValues(op, result).Inc()
	r.Duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func (r *Recorder) AddImported(n int) {
	r.Imported.Add(float64(n))
}

// TasksChanged refreshes the per-status gauge.
func (r *Recorder) TasksChanged(tasks []task.Task) {
	counts := make(map[task.Status]int, len(task.Statuses))
	for _, t := range tasks {
		counts[t.Status]++
	}
	for _, s := range task.Statuses {
		r.Tasks.WithLabelValues(s.String()).Set(float64(counts[s]))
	}
}

// WriteTextfile writes the registry in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}
