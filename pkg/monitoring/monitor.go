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

	// 作业提交，status 为 graded 或 pending
	SubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homework_submissions_total",
			Help: "Homework submissions by resulting status",
		},
		[]string{"status"},
	)

	// 错题本回写，outcome 为 cleared、missed 或 not_found
	MistakeReconcileCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mistake_reconciliations_total",
			Help: "Mistake book reconciliations by outcome",
		},
		[]string{"outcome"},
	)

	AIGradingCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_grading_requests_total",
			Help: "Subjective answers sent to the AI grader",
		},
		[]string{"provider", "outcome"},
	)

	AIGradingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_grading_duration_seconds",
			Help:    "Latency of AI grading calls",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)

	BatchGradedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "batch_graded_results_total",
			Help: "Pending results graded by the background worker",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			SubmissionCounter,
			MistakeReconcileCounter,
			AIGradingCounter,
			AIGradingDuration,
			BatchGradedCounter,
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
