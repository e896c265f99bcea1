// Package metrics exposes Prometheus collectors for scans and clustering.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Option applies a configuration option to the Collector.
type Option func(*Collector)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(c *Collector) {
		if namespace != "" {
			c.namespace = namespace
		}
	}
}

// WithRegistry registers metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *Collector) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithHistogramBuckets sets custom buckets for the scan duration histogram.
func WithHistogramBuckets(buckets []float64) Option {
	return func(c *Collector) {
		if len(buckets) > 0 {
			c.buckets = buckets
		}
	}
}

// WithRuntimeMetrics adds the Go runtime and process collectors.
func WithRuntimeMetrics() Option {
	return func(c *Collector) {
		c.runtime = true
	}
}

// Collector records scan and clustering metrics. It satisfies faces.Observer.
type Collector struct {
	namespace string
	registry  *prometheus.Registry
	buckets   []float64
	runtime   bool

	photosScanned  prometheus.Counter
	photosSkipped  prometheus.Counter
	facesDetected  prometheus.Counter
	clustersFormed prometheus.Gauge
	scanDuration   prometheus.Histogram
}

// NewCollector creates and registers all metrics.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		namespace: "lifeline",
		buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = prometheus.NewRegistry()
	}
	if c.runtime {
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(c.registry)
	c.photosScanned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      "photos_scanned_total",
		Help:      "Total number of photos whose faces were extracted",
	})
	c.photosSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      "photos_skipped_total",
		Help:      "Total number of photos skipped because decoding or detection failed",
	})
	c.facesDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      "faces_detected_total",
		Help:      "Total number of faces extracted",
	})
	c.clustersFormed = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Name:      "clusters_formed",
		Help:      "Number of person clusters produced by the most recent clustering run",
	})
	c.scanDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Name:      "scan_duration_seconds",
		Help:      "Duration of complete face scans",
		Buckets:   c.buckets,
	})

	return c
}

// PhotoScanned records a successfully processed photo.
func (c *Collector) PhotoScanned(faces int) {
	c.photosScanned.Inc()
	c.facesDetected.Add(float64(faces))
}

// PhotoSkipped records a photo that failed extraction.
func (c *Collector) PhotoSkipped() {
	c.photosSkipped.Inc()
}

// ClustersFormed sets the cluster count of the latest clustering run.
func (c *Collector) ClustersFormed(n int) {
	c.clustersFormed.Set(float64(n))
}

// ObserveScan records the duration of a finished scan.
func (c *Collector) ObserveScan(d time.Duration) {
	c.scanDuration.Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
