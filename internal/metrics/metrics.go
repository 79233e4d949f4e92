package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the application.
// It includes counters and histograms for upstream directory calls,
// profile joins, served API requests, database queries and exports.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec   // Counter for requests sent to the directory service
	UpstreamDuration *prometheus.HistogramVec // Histogram for directory service round trips
	ProfilesJoined   *prometheus.CounterVec   // Counter for joined profiles by outcome
	APIRequests      *prometheus.CounterVec   // Counter for requests served by the directory API
	DBQueryDuration  *prometheus.HistogramVec // Histogram for database query durations
	ExportGeneration prometheus.Histogram     // Histogram for excel export durations
}

// NewMetrics creates a new Metrics instance with the provided Prometheus Registerer.
//
// Parameters:
//   - reg: A Prometheus Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		UpstreamRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_upstream_requests_total",
			Help: "Total number of requests sent to the directory service",
		}, []string{"op", "status"}), // op: get_person, list_departments; status: http code or "error"
		UpstreamDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atlas_upstream_request_duration_seconds",
			Help:    "Duration of directory service requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		ProfilesJoined: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_profiles_joined_total",
			Help: "Profiles produced from a staff record and the department table",
		}, []string{"outcome"}), // outcome: present, absent
		APIRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_api_requests_total",
			Help: "Total number of requests served by the directory API",
		}, []string{"method", "route", "status"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atlas_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'list_people', 'get_person', 'create_person'
		ExportGeneration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name: "atlas_export_generation_duration_seconds",
			Help: "Duration of directory excel generation.",
		}),
	}
}
