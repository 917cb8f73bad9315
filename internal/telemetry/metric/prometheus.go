package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics.
type Registry struct {
	// Checkpoint metrics
	SnapshotWrites       prometheus.Counter
	SnapshotWriteSeconds prometheus.Histogram
	SnapshotBytes        prometheus.Gauge
	SnapshotsSkipped     *prometheus.CounterVec
	ChecksumMBPerSec     prometheus.Gauge
	Restarts             prometheus.Counter

	// Training metrics
	EpochsCompleted prometheus.Counter
	CurrentEpoch    prometheus.Gauge
	Loss            *prometheus.GaugeVec
	BestStat        prometheus.Gauge

	reg *prometheus.Registry
}

// NewRegistry creates a metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto(reg)

	return &Registry{
		SnapshotWrites: factory.counter(prometheus.CounterOpts{
			Namespace: "ckptkit",
			Subsystem: "snapshot",
			Name:      "writes_total",
			Help:      "Number of snapshots promoted to ckpt-good.",
		}),
		SnapshotWriteSeconds: factory.histogram(prometheus.HistogramOpts{
			Namespace: "ckptkit",
			Subsystem: "snapshot",
			Name:      "write_seconds",
			Help:      "Wall time of a full snapshot write, serialization through rotation.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		SnapshotBytes: factory.gauge(prometheus.GaugeOpts{
			Namespace: "ckptkit",
			Subsystem: "snapshot",
			Name:      "weights_bytes",
			Help:      "Size of the most recently written weights artifact.",
		}),
		SnapshotsSkipped: factory.counterVec(prometheus.CounterOpts{
			Namespace: "ckptkit",
			Subsystem: "snapshot",
			Name:      "skipped_total",
			Help:      "Epochs where the save policy declined to write.",
		}, []string{"reason"}),
		ChecksumMBPerSec: factory.gauge(prometheus.GaugeOpts{
			Namespace: "ckptkit",
			Subsystem: "checksum",
			Name:      "mb_per_sec",
			Help:      "Throughput of the most recent checksum pass.",
		}),
		Restarts: factory.counter(prometheus.CounterOpts{
			Namespace: "ckptkit",
			Subsystem: "restart",
			Name:      "total",
			Help:      "Number of successful restarts from a good snapshot.",
		}),
		EpochsCompleted: factory.counter(prometheus.CounterOpts{
			Namespace: "ckptkit",
			Subsystem: "train",
			Name:      "epochs_total",
			Help:      "Training epochs completed in this process.",
		}),
		CurrentEpoch: factory.gauge(prometheus.GaugeOpts{
			Namespace: "ckptkit",
			Subsystem: "train",
			Name:      "current_epoch",
			Help:      "Epoch currently being trained.",
		}),
		Loss: factory.gaugeVec(prometheus.GaugeOpts{
			Namespace: "ckptkit",
			Subsystem: "train",
			Name:      "metric",
			Help:      "Latest per-epoch metric values keyed by metric name.",
		}, []string{"name"}),
		BestStat: factory.gauge(prometheus.GaugeOpts{
			Namespace: "ckptkit",
			Subsystem: "train",
			Name:      "best_stat",
			Help:      "Best value of the tracked statistic so far.",
		}),
		reg: reg,
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// factory registers metrics on construction so a forgotten
// MustRegister cannot produce silent no-op metrics.
type factory struct {
	reg *prometheus.Registry
}

func promauto(reg *prometheus.Registry) factory {
	return factory{reg: reg}
}

func (f factory) counter(opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	f.reg.MustRegister(c)
	return c
}

func (f factory) counterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	f.reg.MustRegister(c)
	return c
}

func (f factory) gauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	g := prometheus.NewGauge(opts)
	f.reg.MustRegister(g)
	return g
}

func (f factory) gaugeVec(opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(opts, labels)
	f.reg.MustRegister(g)
	return g
}

func (f factory) histogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	f.reg.MustRegister(h)
	return h
}
