package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssessmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ayonne",
		Name:      "assessments_total",
		Help:      "Full image quality assessments by resulting tier",
	}, []string{"tier"})

	QuickChecksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ayonne",
		Name:      "quick_checks_total",
		Help:      "Per-frame quick quality checks performed",
	})

	FaceDetections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ayonne",
		Name:      "face_detections_total",
		Help:      "Face detection ticks by locator and outcome",
	}, []string{"locator", "detected"})

	StreamEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ayonne",
		Name:      "stream_events_total",
		Help:      "Progress events emitted to clients by type",
	}, []string{"type"})

	FallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ayonne",
		Name:      "analysis_fallbacks_total",
		Help:      "Analyses that resolved through the fallback path",
	})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ayonne",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end duration of streamed analyses",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	LiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ayonne",
		Name:      "live_sessions",
		Help:      "Number of active live-feedback WebSocket sessions",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ayonne",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
