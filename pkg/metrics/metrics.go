// Package metrics exports weft engine measurements to Prometheus.
//
// Metrics collected (with the default "weft" namespace):
//   - weft_passes_total: Counter of finished passes by status
//     (committed, aborted, discarded)
//   - weft_pass_aborts_total: Counter of aborted passes by reason
//   - weft_fibers_processed_total: Counter of fibers processed
//   - weft_slots_total: Counter of scheduler slots run
//   - weft_effects_total: Counter of committed effects by tag
//   - weft_commit_duration_seconds: Histogram of commit duration
//   - weft_hook_actions_total: Counter of dispatched hook actions
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	engine := weft.NewEngine(host, sched,
//	    weft.WithRecorder(metrics.New(metrics.WithRegistry(reg))),
//	)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/weft/pkg/weft"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "weft").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for commit duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collector.
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

// WithBuckets sets the histogram buckets.
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
		Namespace: "weft",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector implements weft.Recorder on Prometheus metrics.
type Collector struct {
	passesTotal     *prometheus.CounterVec
	abortsTotal     *prometheus.CounterVec
	fibersProcessed prometheus.Counter
	slotsTotal      prometheus.Counter
	effectsTotal    *prometheus.CounterVec
	commitDuration  prometheus.Histogram
	hookActions     prometheus.Counter
}

var _ weft.Recorder = (*Collector)(nil)

// New registers the engine metrics and returns a collector recording them.
// Registering twice on the same registry panics.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of render passes by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		abortsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_aborts_total",
			Help:        "Total number of aborted render passes by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		fibersProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fibers_processed_total",
			Help:        "Total number of fibers processed by the work loop",
			ConstLabels: config.ConstLabels,
		}),

		slotsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "slots_total",
			Help:        "Total number of scheduler slots run",
			ConstLabels: config.ConstLabels,
		}),

		effectsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_total",
			Help:        "Total number of committed effects by tag",
			ConstLabels: config.ConstLabels,
		}, []string{"tag"}),

		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Commit phase duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		hookActions: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hook_actions_total",
			Help:        "Total number of state actions dispatched through hooks",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// SlotRan implements weft.Recorder.
func (c *Collector) SlotRan(fibers int) {
	c.slotsTotal.Inc()
	c.fibersProcessed.Add(float64(fibers))
}

// PassCommitted implements weft.Recorder.
func (c *Collector) PassCommitted(stats weft.CommitStats) {
	c.passesTotal.WithLabelValues("committed").Inc()
	c.effectsTotal.WithLabelValues(weft.EffectPlacement.String()).Add(float64(stats.Placements))
	c.effectsTotal.WithLabelValues(weft.EffectUpdate.String()).Add(float64(stats.Updates))
	c.effectsTotal.WithLabelValues(weft.EffectDeletion.String()).Add(float64(stats.Deletions))
	c.commitDuration.Observe(stats.Duration.Seconds())
}

// PassAborted implements weft.Recorder.
func (c *Collector) PassAborted(reason string) {
	c.passesTotal.WithLabelValues("aborted").Inc()
	c.abortsTotal.WithLabelValues(reason).Inc()
}

// PassDiscarded implements weft.Recorder.
func (c *Collector) PassDiscarded() {
	c.passesTotal.WithLabelValues("discarded").Inc()
}

// HookAction implements weft.Recorder.
func (c *Collector) HookAction() {
	c.hookActions.Inc()
}
