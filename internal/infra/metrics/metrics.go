package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	ScansTotal           = prometheus.NewCounter(prometheus.CounterOpts{Name: "scans_total", Help: "Total arbitrage scans performed"})
	PathsEvaluatedTotal  = prometheus.NewCounter(prometheus.CounterOpts{Name: "paths_evaluated_total", Help: "Total round-trip paths fully priced and evaluated"})
	PathsSkippedTotal    = prometheus.NewCounter(prometheus.CounterOpts{Name: "paths_skipped_total", Help: "Paths skipped due to a missing rate on some hop"})
	OpportunitiesFound   = prometheus.NewCounter(prometheus.CounterOpts{Name: "arbitrage_opportunities_found", Help: "Scans that produced a round-trip factor above break-even"})
	RoundTripFactor      = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "round_trip_factor", Help: "Round-trip factor per evaluated path", Buckets: prometheus.LinearBuckets(0.5, 0.05, 21)})
	ScanDurationSeconds  = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "scan_duration_seconds", Help: "Wall time per scan", Buckets: prometheus.ExponentialBuckets(0.001, 2, 14)})
	BestRoundTripFactor  = prometheus.NewGauge(prometheus.GaugeOpts{Name: "best_round_trip_factor", Help: "Best round-trip factor seen in the latest scan"})
	WorstRoundTripFactor = prometheus.NewGauge(prometheus.GaugeOpts{Name: "worst_round_trip_factor", Help: "Worst round-trip factor seen in the latest scan"})
	ProviderRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "provider_requests_total", Help: "Outbound rate provider requests"})
	ProviderErrorsTotal   = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "provider_errors_total", Help: "Rate provider errors by reason"}, []string{"reason"})
	ProviderCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "provider_cache_hits_total", Help: "Snapshot cache hits"})
	WatchTicksTotal        = prometheus.NewCounter(prometheus.CounterOpts{Name: "watch_ticks_total", Help: "Periodic watch scans triggered"})
)

func Init(logger zerolog.Logger) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	toRegister := []prometheus.Collector{
		ScansTotal, PathsEvaluatedTotal, PathsSkippedTotal, OpportunitiesFound,
		RoundTripFactor, ScanDurationSeconds, BestRoundTripFactor, WorstRoundTripFactor,
		ProviderRequestsTotal, ProviderErrorsTotal, ProviderCacheHitsTotal, WatchTicksTotal,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range toRegister {
		_ = reg.Register(c)
	}
	logger.Info().Msg("Prometheus metrics initialized")
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
