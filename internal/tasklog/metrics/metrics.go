package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the task log module.
type Metrics struct {
	TasksDeleted   prometheus.Counter
	DeleteFailures prometheus.Counter
	ListDuration   prometheus.Histogram
}

// New creates a Metrics instance with all task log metrics registered.
func New() *Metrics {
	return &Metrics{
		TasksDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roomkeeper_tasks_deleted_total",
			Help: "Total number of tasks deleted from the log",
		}),
		DeleteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roomkeeper_task_delete_failures_total",
			Help: "Total number of failed task deletions",
		}),
		ListDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "roomkeeper_task_log_duration_seconds",
			Help:    "Duration of task log fetch-and-flatten operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveList records the duration of a task log fetch.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveList(start time.Time) {
	m.ListDuration.Observe(time.Since(start).Seconds())
}
