package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/cookiesession/pkg/session"
)

// Config configures the Prometheus session observer.
type Config struct {
	// Namespace is the metrics namespace (default: "cookiesession").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for load duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus session observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the load duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "cookiesession",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer records session outcomes as Prometheus metrics. It implements
// session.Observer.
//
// Metrics collected:
//   - cookiesession_loads_total: loads by outcome
//   - cookiesession_load_duration_seconds: time spent in Manager.Load
//   - cookiesession_key_attempt_failures_total: failed key attempts by key index and reason
//   - cookiesession_saves_total: saves by outcome
//   - cookiesession_cookie_bytes: encoded size of written cookies
type Observer struct {
	loads          *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	attemptsFailed *prometheus.CounterVec
	saves          *prometheus.CounterVec
	cookieBytes    prometheus.Histogram
}

var _ session.Observer = (*Observer)(nil)

// New registers the session metrics and returns the observer. It panics if
// the metrics are already registered with the same registry.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Observer{
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "loads_total",
			Help:        "Total number of session loads by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		loadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "load_duration_seconds",
			Help:        "Time spent loading a session, including all key attempts",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		attemptsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "key_attempt_failures_total",
			Help:        "Total number of failed decrypt attempts by key index and reason",
			ConstLabels: config.ConstLabels,
		}, []string{"key_index", "reason"}),

		saves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "saves_total",
			Help:        "Total number of session saves by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		cookieBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cookie_bytes",
			Help:        "Encoded size of written session cookies",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{256, 512, 1024, 2048, 3072, 4096},
		}),
	}
}

func (o *Observer) SessionLoaded(outcome session.LoadOutcome, elapsed time.Duration) {
	o.loads.WithLabelValues(string(outcome)).Inc()
	o.loadDuration.Observe(elapsed.Seconds())
}

func (o *Observer) KeyAttemptFailed(keyIndex int, reason string) {
	o.attemptsFailed.WithLabelValues(keyIndexLabel(keyIndex), reason).Inc()
}

func (o *Observer) SessionSaved(outcome session.SaveOutcome, size int) {
	o.saves.WithLabelValues(string(outcome)).Inc()
	if outcome == session.SaveWritten {
		o.cookieBytes.Observe(float64(size))
	}
}

// keyIndexLabel bounds label cardinality: positions past 9 share one label.
func keyIndexLabel(i int) string {
	if i >= 0 && i < 10 {
		return strconv.Itoa(i)
	}
	return "10+"
}
