// Package metrics exposes Prometheus instrumentation for the probing core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the service's Prometheus metrics behind its own registry
// so repeated construction (tests) never double-registers.
type Collector struct {
	registry *prometheus.Registry

	probesTotal      *prometheus.CounterVec
	probeLatency     prometheus.Histogram
	monitorUp        *prometheus.GaugeVec
	transitionsTotal *prometheus.CounterVec
	connectedViewers prometheus.Gauge
}

// NewCollector creates and registers all collectors.
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.probesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netwatch_probes_total",
			Help: "Total number of probes by outcome.",
		},
		[]string{"result"},
	)
	c.probeLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netwatch_probe_latency_seconds",
			Help:    "Latency of successful probes.",
			Buckets: prometheus.DefBuckets,
		},
	)
	c.monitorUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netwatch_monitor_up",
			Help: "Confirmed status per monitor (1 up, 0 down).",
		},
		[]string{"id", "target"},
	)
	c.transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netwatch_transitions_total",
			Help: "Confirmed up/down transitions by direction.",
		},
		[]string{"direction"},
	)
	c.connectedViewers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "netwatch_connected_viewers",
			Help: "Number of attached websocket viewers.",
		},
	)

	c.registry.MustRegister(
		c.probesTotal,
		c.probeLatency,
		c.monitorUp,
		c.transitionsTotal,
		c.connectedViewers,
	)
	return c
}

// ObserveProbe records the outcome of one probe.
func (c *Collector) ObserveProbe(alive bool, latencyMs int64) {
	if alive {
		c.probesTotal.WithLabelValues("alive").Inc()
		c.probeLatency.Observe(float64(latencyMs) / 1000)
		return
	}
	c.probesTotal.WithLabelValues("dead").Inc()
}

// ObserveTransition records a confirmed status change.
func (c *Collector) ObserveTransition(id, target string, up bool) {
	value := 0.0
	direction := "down"
	if up {
		value = 1
		direction = "up"
	}
	c.monitorUp.WithLabelValues(id, target).Set(value)
	c.transitionsTotal.WithLabelValues(direction).Inc()
}

// ForgetMonitor drops the per-monitor gauge after removal.
func (c *Collector) ForgetMonitor(id string) {
	c.monitorUp.DeletePartialMatch(prometheus.Labels{"id": id})
}

// ViewerAttached adjusts the connected viewer gauge.
func (c *Collector) ViewerAttached(delta int) {
	c.connectedViewers.Add(float64(delta))
}

// Handler serves the metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
