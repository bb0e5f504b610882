package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics surface used by handlers and the classifier.
// Init returns either a Prometheus-backed implementation or a noop one.
type Recorder interface {
	RecordAuthorizeRedirect()
	RecordCallback(result string)
	RecordTokenRefresh(result string)
	RecordTokenRevoked()
	RecordClassification(result string, duration time.Duration)
	RecordLabelDetection(provider string, duration time.Duration)
}

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Auth flow metrics
	AuthorizeRedirectsTotal prometheus.Counter
	CallbackTotal           *prometheus.CounterVec
	TokenRefreshTotal       *prometheus.CounterVec
	TokensRevokedTotal      prometheus.Counter

	// Classification metrics
	ClassificationsTotal   *prometheus.CounterVec
	ClassificationDuration prometheus.Histogram
	LabelDetectionDuration *prometheus.HistogramVec

	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag.
// If enabled=true, returns Prometheus-based Metrics.
// If enabled=false, returns NoopMetrics (zero overhead).
// Uses sync.Once to ensure Prometheus metrics are only registered once.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		AuthorizeRedirectsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auth_authorize_redirects_total",
				Help: "Total number of authorization redirects issued",
			},
		),
		CallbackTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_callback_total",
				Help: "Total number of OAuth callback requests",
			},
			[]string{"result"}, // success, state_mismatch, state_missing
		),
		TokenRefreshTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_token_refresh_total",
				Help: "Total number of token refresh attempts",
			},
			[]string{"result"}, // success, invalid, expired, wrong_type, revoked
		),
		TokensRevokedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auth_tokens_revoked_total",
				Help: "Total number of refresh tokens revoked",
			},
		),
		ClassificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classifier_runs_total",
				Help: "Total number of report classification runs",
			},
			[]string{"result"}, // success, skipped, error
		),
		ClassificationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "classifier_run_duration_seconds",
				Help:    "Time taken to classify a report image end to end",
				Buckets: prometheus.DefBuckets,
			},
		),
		LabelDetectionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "classifier_label_detection_duration_seconds",
				Help:    "Time taken by the label-detection provider",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"}, // rekognition, http_api
		),
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001,
					0.005,
					0.010,
					0.025,
					0.050,
					0.100,
					0.250,
					0.500,
					1.0,
					2.5,
					5.0,
					10.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),
	}
}

// RecordAuthorizeRedirect records an issued authorization redirect
func (m *Metrics) RecordAuthorizeRedirect() {
	m.AuthorizeRedirectsTotal.Inc()
}

// RecordCallback records a callback outcome
func (m *Metrics) RecordCallback(result string) {
	m.CallbackTotal.WithLabelValues(result).Inc()
}

// RecordTokenRefresh records a refresh attempt outcome
func (m *Metrics) RecordTokenRefresh(result string) {
	m.TokenRefreshTotal.WithLabelValues(result).Inc()
}

// RecordTokenRevoked records a refresh token revocation
func (m *Metrics) RecordTokenRevoked() {
	m.TokensRevokedTotal.Inc()
}

// RecordClassification records a classification run outcome and duration
func (m *Metrics) RecordClassification(result string, duration time.Duration) {
	m.ClassificationsTotal.WithLabelValues(result).Inc()
	m.ClassificationDuration.Observe(duration.Seconds())
}

// RecordLabelDetection records a label-detection call duration per provider
func (m *Metrics) RecordLabelDetection(provider string, duration time.Duration) {
	m.LabelDetectionDuration.WithLabelValues(provider).Observe(duration.Seconds())
}
