package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cull kinds used as the kind label of the culls counter.
const (
	CullFull    = "full"
	CullPartial = "partial"
)

// Manager manages all Prometheus metrics of a scenario run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Progress
	daysSimulated prometheus.Counter
	currentTick   prometheus.Gauge
	dayDuration   prometheus.Histogram

	// Spread
	transmissions   prometheus.Counter
	infectionBatch  prometheus.Counter
	infectedFarms   prometheus.Gauge
	infectedAnimals prometheus.Gauge

	// Surveillance
	detections         prometheus.Counter
	culls              *prometheus.CounterVec
	truePrevalence     prometheus.Gauge
	observedPrevalence prometheus.Gauge

	// Execution
	workerCount prometheus.Gauge

	// Status server
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "epiherd",
		subsystem:        "scenario",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500},
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.daysSimulated = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "days_simulated_total",
		Help:        "Total number of simulated days",
		ConstLabels: m.constLabels,
	})

	m.currentTick = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "current_tick",
		Help:        "Current scenario tick",
		ConstLabels: m.constLabels,
	})

	m.dayDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "day_duration_milliseconds",
		Help:        "Wall-clock time spent simulating one day",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.transmissions = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "transmissions_total",
		Help:        "Total number of between-herd transmissions",
		ConstLabels: m.constLabels,
	})

	m.infectionBatch = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "infection_batches_total",
		Help:        "Total number of emitted infection batches",
		ConstLabels: m.constLabels,
	})

	m.infectedFarms = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "infected_farms",
		Help:        "Number of farms with at least one infected animal",
		ConstLabels: m.constLabels,
	})

	m.infectedAnimals = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "infected_animals",
		Help:        "Number of infected animals across all farms",
		ConstLabels: m.constLabels,
	})

	m.detections = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "detections_total",
		Help:        "Total number of farms detected by active surveillance",
		ConstLabels: m.constLabels,
	})

	m.culls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "culls_total",
		Help:        "Total number of culls by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.truePrevalence = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "true_prevalence",
		Help:        "Share of farms that are infected",
		ConstLabels: m.constLabels,
	})

	m.observedPrevalence = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "observed_prevalence",
		Help:        "Share of farms observed infected by passive surveillance",
		ConstLabels: m.constLabels,
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "worker_count",
		Help:        "Number of workers used for parallel within-herd updates",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "Total number of status server requests",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_milliseconds",
		Help:        "Status server request duration",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordDay records one simulated day and its wall-clock duration.
func RecordDay(tick uint64, durationMs float64) {
	globalManager.daysSimulated.Inc()
	globalManager.currentTick.Set(float64(tick))
	globalManager.dayDuration.Observe(durationMs)
}

// RecordInfectionBatch records an emitted batch with the given number of transmissions.
func RecordInfectionBatch(transmissions int) {
	globalManager.infectionBatch.Inc()
	globalManager.transmissions.Add(float64(transmissions))
}

// RecordDetections adds to the detections counter.
func RecordDetections(count int) {
	globalManager.detections.Add(float64(count))
}

// RecordCulls adds to the culls counter of the given kind.
func RecordCulls(kind string, count int) error {
	if kind != CullFull && kind != CullPartial {
		return fmt.Errorf("%w: %q", ErrUnknownCullKind, kind)
	}
	globalManager.culls.WithLabelValues(kind).Add(float64(count))
	return nil
}

// UpdateInfection sets the infected farm and animal gauges.
func UpdateInfection(farms, animals int) {
	globalManager.infectedFarms.Set(float64(farms))
	globalManager.infectedAnimals.Set(float64(animals))
}

// UpdatePrevalence sets the prevalence gauges.
func UpdatePrevalence(truePrevalence, observedPrevalence float64) {
	globalManager.truePrevalence.Set(truePrevalence)
	globalManager.observedPrevalence.Set(observedPrevalence)
}

// UpdateWorkerCount sets the worker count gauge.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordHTTPRequest records one status server request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
