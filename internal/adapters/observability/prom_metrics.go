package observability

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/databroker/datahub/internal/ports"
)

// PromObs implements ports.Observability on top of the Prometheus client
// library, exposing the hub's counters/gauges/histograms at /metrics.
type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs() *PromObs {
	pushes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datahub_pushes_total",
		Help: "Total pushes that updated a resource's current value, after filtering.",
	})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datahub_pushes_rejected_total",
		Help: "Pushes silently dropped by the observation filter chain.",
	})
	resources := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "datahub_resources",
		Help: "Current number of live (non-tombstoned) resources in the tree.",
	})
	backupLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "datahub_backup_latency_seconds",
		Help:    "Latency of an observation buffer backup write.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
	snapshotDeltas := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datahub_snapshot_deltas_total",
		Help: "Total deltas streamed across all snapshot scans.",
	})

	prometheus.MustRegister(pushes, rejected, resources, backupLatency, snapshotDeltas)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			"datahub_pushes_total":          pushes,
			"datahub_pushes_rejected_total": rejected,
			"datahub_snapshot_deltas_total": snapshotDeltas,
		},
		gauges: map[string]prometheus.Gauge{
			"datahub_resources": resources,
		},
		histos: map[string]prometheus.Observer{
			"datahub_backup_latency_seconds": backupLatency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v", msg, err)
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("CRITICAL: %s: %v", msg, err)
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

// ServeMetrics starts an HTTP server exposing /metrics on addr. It runs
// until the process exits or the listener errors.
func ServeMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
