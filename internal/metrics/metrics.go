package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coning"

var (
	Calculations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calculations_total",
		Help:      "Single-well calculations by method.",
	}, []string{"method"})

	NonFinite = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "non_finite_results_total",
		Help:      "Results that came back NaN or infinite, by method.",
	}, []string{"method"})

	BatchRows = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_rows_total",
		Help:      "Well rows evaluated in batch mode.",
	})

	BatchRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_rejected_total",
		Help:      "Batch tables rejected for missing columns.",
	})
)

// Registry holds every collector of the service. Tests and the CLI never
// touch the global default registry.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(Calculations, NonFinite, BatchRows, BatchRejected)
}

// CacheStats is what the results repository reports about its cache.
type CacheStats interface {
	Hits() int64
	Misses() int64
	EvictedCount() int64
}

type cacheCollector struct {
	stats       func() CacheStats
	hitsDesc    *prometheus.Desc
	missesDesc  *prometheus.Desc
	evictedDesc *prometheus.Desc
}

// RegisterCache exposes hit/miss/eviction counts of the results cache.
func RegisterCache(stats func() CacheStats) error {
	return Registry.Register(&cacheCollector{
		stats: stats,
		hitsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "results", "hits"),
			"Number of results cache hits.", nil, nil),
		missesDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "results", "misses"),
			"Number of results cache misses.", nil, nil),
		evictedDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "results", "evicted_count"),
			"Number of processed tables evicted from the cache.", nil, nil),
	})
}

func (c *cacheCollector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.hitsDesc
	descs <- c.missesDesc
	descs <- c.evictedDesc
}

func (c *cacheCollector) Collect(metrics chan<- prometheus.Metric) {
	s := c.stats()
	metrics <- prometheus.MustNewConstMetric(c.hitsDesc, prometheus.CounterValue, float64(s.Hits()))
	metrics <- prometheus.MustNewConstMetric(c.missesDesc, prometheus.CounterValue, float64(s.Misses()))
	metrics <- prometheus.MustNewConstMetric(c.evictedDesc, prometheus.CounterValue, float64(s.EvictedCount()))
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
