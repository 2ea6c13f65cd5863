package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names understood by the Prometheus sink.
const (
	MetricJobListing  = "job.listing"
	MetricAuthResolve = "auth.resolve"
	MetricHTTPRequest = "http.request"
)

// metricLabels fixes the label set of every known metric. Tags outside the
// set are dropped; missing tags are exported as "".
var metricLabels = map[string][]string{
	MetricJobListing:  {"operation", "result", "error_class"},
	MetricAuthResolve: {"source", "result"},
	MetricHTTPRequest: {"method", "route", "status"},
}

// Prometheus is a Sink backed by Prometheus counters and histograms.
// Unknown metric names are ignored. The collector maps are fixed at
// construction, so it is safe for concurrent use.
type Prometheus struct {
	registry   *prometheus.Registry
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

var _ Sink = (*Prometheus)(nil)

// NewPrometheus registers the booking metrics under namespace on a fresh registry.
func NewPrometheus(namespace string) *Prometheus {
	p := &Prometheus{
		registry:   prometheus.NewRegistry(),
		counters:   make(map[string]*prometheus.CounterVec, len(metricLabels)),
		histograms: make(map[string]*prometheus.HistogramVec, len(metricLabels)),
	}
	p.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	for name, labels := range metricLabels {
		base := strings.ReplaceAll(name, ".", "_")
		counter := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      base + "_total",
			Help:      "Total number of " + strings.ReplaceAll(name, ".", " ") + " events",
		}, labels)
		// error_class is only meaningful on counters.
		histLabels := withoutLabel(labels, "error_class")
		hist := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      base + "_duration_seconds",
			Help:      "Duration of " + strings.ReplaceAll(name, ".", " ") + " in seconds",
			Buckets:   prometheus.DefBuckets,
		}, histLabels)
		p.registry.MustRegister(counter, hist)
		p.counters[name] = counter
		p.histograms[name] = hist
	}
	return p
}

// Count adds value to the counter for name.
func (p *Prometheus) Count(name string, value int64, tags map[string]string) {
	c, ok := p.counters[name]
	if !ok || value < 0 {
		return
	}
	c.With(labelValues(metricLabels[name], tags)).Add(float64(value))
}

// Timing observes value on the histogram for name.
func (p *Prometheus) Timing(name string, value time.Duration, tags map[string]string) {
	h, ok := p.histograms[name]
	if !ok {
		return
	}
	h.With(labelValues(withoutLabel(metricLabels[name], "error_class"), tags)).Observe(value.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

func labelValues(labels []string, tags map[string]string) prometheus.Labels {
	out := make(prometheus.Labels, len(labels))
	for _, l := range labels {
		out[l] = tags[l]
	}
	return out
}

func withoutLabel(labels []string, drop string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != drop {
			out = append(out, l)
		}
	}
	return out
}
