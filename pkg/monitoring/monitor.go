package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ReviewSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adaptive_review_submissions_total",
			Help: "Spaced-repetition reviews recorded, by recall outcome",
		},
		[]string{"outcome"},
	)

	VersionConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adaptive_version_conflicts_total",
			Help: "Optimistic-concurrency conflicts, by record kind",
		},
		[]string{"record"},
	)

	RiskScores = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adaptive_risk_score",
			Help:    "Distribution of computed dropout risk scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"outcome"},
	)

	InterventionsTriggered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adaptive_interventions_triggered_total",
			Help: "Risk interventions triggered, by urgency",
		},
		[]string{"urgency"},
	)

	StruggleDetections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adaptive_struggle_detections_total",
			Help: "Struggle analyses, by overall severity",
		},
		[]string{"severity"},
	)

	BranchDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adaptive_branch_decisions_total",
			Help: "Learning-path branch evaluations, by branch type",
		},
		[]string{"type"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ReviewSubmissions,
			VersionConflicts,
			RiskScores,
			InterventionsTriggered,
			StruggleDetections,
			BranchDecisions,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
