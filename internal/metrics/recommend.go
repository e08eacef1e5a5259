package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
)

// Recommendation and catalog Prometheus metrics.
var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "recommendations_total",
			Help:      "Recommendation queries by outcome",
		},
		[]string{"outcome"}, // ok, no_signal, not_found, error
	)

	RecommendationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "recommendation_duration_seconds",
			Help:      "Time spent resolving and scoring a recommendation query",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	CatalogItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "catalog_items",
			Help:      "Items in the installed catalog snapshot",
		},
	)

	CatalogRatings = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "catalog_ratings",
			Help:      "Ratings in the installed catalog snapshot",
		},
	)

	CatalogUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "catalog_users",
			Help:      "Distinct users in the installed catalog snapshot",
		},
	)

	CatalogReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "catalog_reloads_total",
			Help:      "Catalog reload attempts by status",
		},
		[]string{"status"}, // success, error
	)

	CatalogReloadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "catalog_reload_duration_seconds",
			Help:      "Catalog load and preprocessing duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	CatalogLoadedTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "catalog_loaded_timestamp_seconds",
			Help:      "Unix time the installed snapshot was built",
		},
	)
)

var recMetricsRegistered bool

// RegisterRecommendMetrics registers recommendation and catalog metrics. Must be called once from main.
func RegisterRecommendMetrics() {
	if recMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(RecommendationDuration)
	prometheus.MustRegister(CatalogItems)
	prometheus.MustRegister(CatalogRatings)
	prometheus.MustRegister(CatalogUsers)
	prometheus.MustRegister(CatalogReloadsTotal)
	prometheus.MustRegister(CatalogReloadDuration)
	prometheus.MustRegister(CatalogLoadedTimestamp)
	recMetricsRegistered = true
}

// Recorder feeds query and reload observations into the package metrics.
type Recorder struct{}

// NewRecorder creates a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// ObserveQuery records one recommendation query.
func (*Recorder) ObserveQuery(outcome string, took time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(took.Seconds())
}

// ObserveReload records one reload attempt. Gauges change only on success.
func (*Recorder) ObserveReload(snap *domcat.Snapshot, took time.Duration, err error) {
	CatalogReloadDuration.Observe(took.Seconds())
	if err != nil || snap == nil {
		CatalogReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	CatalogReloadsTotal.WithLabelValues("success").Inc()

	stats := snap.Stats()
	CatalogItems.Set(float64(stats.Items))
	CatalogRatings.Set(float64(stats.Ratings))
	CatalogUsers.Set(float64(stats.Users))
	CatalogLoadedTimestamp.Set(float64(snap.LoadedAt().Unix()))
}
