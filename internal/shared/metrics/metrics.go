// Package metrics exposes Prometheus collectors for the packaging service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RecommendationsTotal counts completed recommendations by fragility source.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packaging_recommendations_total",
			Help: "Total packaging recommendations by fragility source",
		},
		[]string{"fragility_source"},
	)

	// RecommendationDuration tracks end-to-end recommendation latency.
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "packaging_recommendation_duration_seconds",
			Help:    "Recommendation latency in seconds, excluding report rendering",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// ClassificationsTotal counts image assessments by suggested level.
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fragility_classifications_total",
			Help: "Image fragility assessments by suggested level",
		},
		[]string{"level", "fallback"},
	)

	// UploadsTotal counts image uploads by outcome.
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_uploads_total",
			Help: "Image uploads by outcome",
		},
		[]string{"outcome"},
	)

	// DecisionLogDroppedTotal counts records dropped because the log was full or closed.
	DecisionLogDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "decision_log_dropped_total",
			Help: "Decision records dropped before reaching a sink",
		},
	)

	// DecisionLogErrorsTotal counts sink write failures.
	DecisionLogErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "decision_log_errors_total",
			Help: "Decision record writes that failed",
		},
	)

	// HTTPRequestsTotal counts served requests by route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordRecommendation records one finished recommendation.
func RecordRecommendation(source string, elapsed time.Duration) {
	RecommendationsTotal.WithLabelValues(source).Inc()
	RecommendationDuration.Observe(elapsed.Seconds())
}

// RecordClassification records one image assessment.
func RecordClassification(level string, fallback bool) {
	ClassificationsTotal.WithLabelValues(level, strconv.FormatBool(fallback)).Inc()
}

// RecordHTTP records one served request. Unmatched routes share one label.
func RecordHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
