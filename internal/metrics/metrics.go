package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentlens_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "commentlens_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Completion service
	CompletionCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentlens_completion_calls_total",
			Help: "Completion requests by pipeline stage and outcome",
		},
		[]string{"stage", "outcome"},
	)

	CompletionRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentlens_completion_retries_total",
			Help: "Completion requests retried after a transient failure",
		},
		[]string{"stage"},
	)

	QuotaHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentlens_quota_exceeded_total",
			Help: "Quota exhaustion reported by an upstream service",
		},
		[]string{"service"},
	)

	// Sentiment
	SentimentLabels = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentlens_sentiment_labels_total",
			Help: "Comments counted per sentiment bucket",
		},
		[]string{"label"},
	)

	SentimentErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "commentlens_sentiment_errors_total",
			Help: "Comments the classifier failed on and that were counted neutral",
		},
	)

	// Pipeline
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentlens_analyses_total",
			Help: "Video analyses by outcome",
		},
		[]string{"outcome"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "commentlens_analysis_duration_seconds",
			Help:    "End-to-end analysis duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
	)

	CompletionHealthy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "commentlens_completion_healthy",
			Help: "1 when the last completion health check succeeded",
		},
	)

	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "commentlens_application_info",
			Help: "Application information",
		},
		[]string{"version", "environment"},
	)
)

func Init(version, environment string) {
	ApplicationInfo.WithLabelValues(version, environment).Set(1)
}
