package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"pokesearch/internal/query"
)

var (
	lookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pokesearch_lookups_total",
		Help: "Settled remote lookups by outcome",
	}, []string{"outcome"})

	searchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pokesearch_searches_total",
		Help: "Submitted searches with a non-empty term",
	})

	upstreamUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pokesearch_upstream_up",
		Help: "1 if the last upstream probe succeeded, 0 otherwise",
	})

	cacheEntriesDesc = prometheus.NewDesc(
		"pokesearch_cache_entries",
		"Lookup cache entries by status",
		[]string{"status"},
		nil,
	)
	cacheRequestsDesc = prometheus.NewDesc(
		"pokesearch_cache_requests_total",
		"Lookup cache requests by result",
		[]string{"result"},
		nil,
	)
)

// StatsSource reports cache statistics at scrape time.
type StatsSource interface {
	Stats() query.Stats
}

// CacheCollector is a custom Prometheus collector that reads lookup cache
// statistics on each scrape.
type CacheCollector struct {
	source StatsSource
}

// NewCacheCollector creates a collector over source.
func NewCacheCollector(source StatsSource) *CacheCollector {
	return &CacheCollector{source: source}
}

// Describe sends the metric descriptors to the channel.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cacheEntriesDesc
	ch <- cacheRequestsDesc
}

// Collect emits entry gauges and hit/miss counters.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(cacheEntriesDesc, prometheus.GaugeValue, float64(s.Loading), "loading")
	ch <- prometheus.MustNewConstMetric(cacheEntriesDesc, prometheus.GaugeValue, float64(s.Resolved), "resolved")
	ch <- prometheus.MustNewConstMetric(cacheEntriesDesc, prometheus.GaugeValue, float64(s.Failed), "failed")
	ch <- prometheus.MustNewConstMetric(cacheRequestsDesc, prometheus.CounterValue, float64(s.Hits), "hit")
	ch <- prometheus.MustNewConstMetric(cacheRequestsDesc, prometheus.CounterValue, float64(s.Misses), "miss")
}

var initOnce sync.Once

// Init registers all collectors with the default registry.
// Must be called once at startup.
func Init(source StatsSource) {
	initOnce.Do(func() {
		Register(prometheus.DefaultRegisterer, source)
	})
}

// Register registers all collectors with reg.
func Register(reg prometheus.Registerer, source StatsSource) {
	reg.MustRegister(lookupsTotal, searchesTotal, upstreamUp, NewCacheCollector(source))
}

// RecordLookup counts a settled lookup. Its signature matches query.Options.Observe.
func RecordLookup(name, outcome string) {
	lookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordSearch counts a submitted search.
func RecordSearch() {
	searchesTotal.Inc()
}

// SetUpstreamUp records the result of an upstream probe.
func SetUpstreamUp(up bool) {
	if up {
		upstreamUp.Set(1)
		return
	}
	upstreamUp.Set(0)
}
