package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the intake pipeline.
type Metrics struct {
	IntakeRequests *prometheus.CounterVec // labels: outcome={recorded,delete_requested,unrecognized,error}
	IntakeDuration prometheus.Histogram

	HazardsCreated *prometheus.CounterVec // labels: origin={remote,local}
	HazardsDeleted prometheus.Counter
	StoreFallbacks *prometheus.CounterVec // labels: op={list,create}

	FeedPublishErrors prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeDuration prometheus.Histogram
	GeocodeEnabled  prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		IntakeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_intake",
			Name:      "intake_requests_total",
			Help:      "Intake submissions by outcome.",
		}, []string{"outcome"}),
		IntakeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_intake",
			Name:      "intake_duration_seconds",
			Help:      "Duration of a complete interpret-build-store cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		HazardsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_intake",
			Name:      "hazards_created_total",
			Help:      "Hazard records created, by storage origin.",
		}, []string{"origin"}),
		HazardsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_intake",
			Name:      "hazards_deleted_total",
			Help:      "Hazard records deleted (single and bulk).",
		}),
		StoreFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_intake",
			Name:      "store_fallbacks_total",
			Help:      "Operations that degraded from the remote store to the local cache.",
		}, []string{"op"}),
		FeedPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_intake",
			Name:      "feed_publish_errors_total",
			Help:      "Best-effort hazard feed publishes that failed.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_intake",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_intake",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_intake",
			Name:      "geocode_duration_seconds",
			Help:      "Reverse geocoding request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_intake",
			Name:      "geocode_enabled",
			Help:      "1 when address resolution is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.IntakeRequests,
		m.IntakeDuration,
		m.HazardsCreated,
		m.HazardsDeleted,
		m.StoreFallbacks,
		m.FeedPublishErrors,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		IntakeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hazard_intake", Name: "intake_requests_total"}, []string{"outcome"}),
		IntakeDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "hazard_intake", Name: "intake_duration_seconds"}),
		HazardsCreated:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hazard_intake", Name: "hazards_created_total"}, []string{"origin"}),
		HazardsDeleted:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hazard_intake", Name: "hazards_deleted_total"}),
		StoreFallbacks:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hazard_intake", Name: "store_fallbacks_total"}, []string{"op"}),
		FeedPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hazard_intake", Name: "feed_publish_errors_total"}),
		GeocodeRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hazard_intake", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hazard_intake", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "hazard_intake", Name: "geocode_duration_seconds"}),
		GeocodeEnabled:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "hazard_intake", Name: "geocode_enabled"}),
	}
}
