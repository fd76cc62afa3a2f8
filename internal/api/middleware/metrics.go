package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	generationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "question_generations_total",
			Help: "Total number of question generation requests",
		},
		[]string{"grade", "question_type", "outcome"},
	)
)

// InitMetrics はメトリクスをレジストリへ登録する。起動時に一度だけ呼ぶ。
func InitMetrics() {
	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(generationCounter)
}

// Metrics はHTTPリクエストの件数と所要時間を記録する。
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		requestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		requestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

// CountGeneration は問題生成の結果をメトリクスに積む。
func CountGeneration(grade, questionType, outcome string) {
	generationCounter.WithLabelValues(grade, questionType, outcome).Inc()
}

// PrometheusHandler は /metrics 用ハンドラ。
func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
