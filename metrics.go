// metrics.go: Prometheus instrumentation mirroring the §3 Statistics

package simtemp

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// deviceMetrics wraps the same counters §3 defines (total_samples,
// threshold_crossings) plus a buffer-fill gauge, as Prometheus
// instruments. Each Device owns its own registry so multiple Devices in
// one process (e.g. under test) never collide on metric registration.
//
// The atomic fields are the source of truth for the control plane's
// "stats" attribute (§4.6): §5 specifies 64-bit atomic increments on the
// producer side and lock-free reads on the consumer side, which reading
// back through a prometheus.Counter cannot give directly. The Prometheus
// counters are incremented alongside them purely for the /metrics
// transport.
type deviceMetrics struct {
	registry           *prometheus.Registry
	totalSamples       prometheus.Counter
	thresholdCrossings prometheus.Counter
	bufferFill         prometheus.Gauge

	totalSamplesCount       atomic.Uint64
	thresholdCrossingsCount atomic.Uint64
}

func newDeviceMetrics() *deviceMetrics {
	registry := prometheus.NewRegistry()

	m := &deviceMetrics{
		registry: registry,
		totalSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simtemp",
			Name:      "total_samples",
			Help:      "Total samples produced, including those later overwritten.",
		}),
		thresholdCrossings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simtemp",
			Name:      "threshold_crossings_total",
			Help:      "Total threshold-crossing edges detected.",
		}),
		bufferFill: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simtemp",
			Name:      "ring_buffer_fill",
			Help:      "Number of samples currently buffered in the ring.",
		}),
	}

	registry.MustRegister(m.totalSamples, m.thresholdCrossings, m.bufferFill)
	return m
}

// Registry exposes the Prometheus registry so transport.Server can mount
// promhttp.HandlerFor at /metrics.
func (d *Device) Registry() *prometheus.Registry {
	return d.metrics.registry
}
