package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Actor lifecycle metrics
	ActorsRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "statemesh_actors_running",
			Help: "Total number of actors currently running",
		},
	)

	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statemesh_transitions_total",
			Help: "Total number of state transitions by machine and target state",
		},
		[]string{"machine", "target"},
	)

	MailboxDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "statemesh_mailbox_depth",
			Help: "Number of events currently queued per actor",
		},
		[]string{"machine"},
	)

	// Resolver / handler metrics
	HandlerPanicsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statemesh_handler_panics_total",
			Help: "Total number of handler or action panics recovered",
		},
		[]string{"machine"},
	)

	NoMatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statemesh_no_match_total",
			Help: "Total number of events that matched no handler",
		},
		[]string{"machine", "event"},
	)

	// Scheduler / effect metrics
	ForksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statemesh_forks_total",
			Help: "Total number of entry/exit/run effects forked",
		},
		[]string{"machine", "kind"},
	)

	InterruptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statemesh_interrupts_total",
			Help: "Total number of state scopes closed on exit, interrupting their forked effects",
		},
		[]string{"machine"},
	)

	StreamFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statemesh_stream_failures_total",
			Help: "Total number of run-stream effects that failed to start",
		},
		[]string{"machine"},
	)

	InvokeOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statemesh_invoke_outcomes_total",
			Help: "Total number of one-shot invoke effects by outcome",
		},
		[]string{"machine", "outcome"},
	)

	// Child registry metrics
	ChildrenSpawnedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statemesh_children_spawned_total",
			Help: "Total number of children spawned",
		},
		[]string{"machine"},
	)

	ChildrenDespawnedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statemesh_children_despawned_total",
			Help: "Total number of children despawned",
		},
		[]string{"machine"},
	)

	// Persistence metrics
	PersistenceSaveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "statemesh_persistence_save_duration_seconds",
			Help:    "Time taken to save a row to the persistence store",
			Buckets: prometheus.DefBuckets,
		},
	)

	PersistenceLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "statemesh_persistence_load_duration_seconds",
			Help:    "Time taken to load a row from the persistence store",
			Buckets: prometheus.DefBuckets,
		},
	)

	DecodeErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statemesh_decode_errors_total",
			Help: "Total number of codec decode failures at the persistence boundary",
		},
		[]string{"machine"},
	)
)

func init() {
	prometheus.MustRegister(ActorsRunning)
	prometheus.MustRegister(TransitionsTotal)
	prometheus.MustRegister(MailboxDepth)
	prometheus.MustRegister(HandlerPanicsTotal)
	prometheus.MustRegister(NoMatchTotal)
	prometheus.MustRegister(ForksTotal)
	prometheus.MustRegister(InterruptsTotal)
	prometheus.MustRegister(StreamFailuresTotal)
	prometheus.MustRegister(InvokeOutcomesTotal)
	prometheus.MustRegister(ChildrenSpawnedTotal)
	prometheus.MustRegister(ChildrenDespawnedTotal)
	prometheus.MustRegister(PersistenceSaveDuration)
	prometheus.MustRegister(PersistenceLoadDuration)
	prometheus.MustRegister(DecodeErrorsTotal)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
