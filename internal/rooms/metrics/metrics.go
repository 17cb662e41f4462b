package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the rooms module: fetch latencies on the
// hot list path and save outcomes.
type Metrics struct {
	RoomsSaved   prometheus.Counter
	SaveFailures prometheus.Counter
	ListDuration prometheus.Histogram
	GetDuration  prometheus.Histogram
}

// New creates a Metrics instance with all rooms module metrics registered.
func New() *Metrics {
	return &Metrics{
		RoomsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roomkeeper_rooms_saved_total",
			Help: "Total number of successful room state saves",
		}),
		SaveFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roomkeeper_room_save_failures_total",
			Help: "Total number of failed room state saves",
		}),
		ListDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "roomkeeper_room_list_duration_seconds",
			Help:    "Duration of whole-collection room fetches",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		GetDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "roomkeeper_room_get_duration_seconds",
			Help:    "Duration of single room fetches",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveList records the duration of a whole-collection fetch.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveList(start time.Time) {
	m.ListDuration.Observe(time.Since(start).Seconds())
}

// ObserveGet records the duration of a single room fetch.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveGet(start time.Time) {
	m.GetDuration.Observe(time.Since(start).Seconds())
}
