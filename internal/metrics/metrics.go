package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/stationeryhub/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stationeryhub",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stationeryhub",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "stationeryhub",
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed.",
		},
	)
	cartOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stationeryhub",
			Name:      "cart_operations_total",
			Help:      "Total number of cart/session store operations.",
		},
		[]string{"operation", "result"},
	)
	ordersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stationeryhub",
			Name:      "orders_created_total",
			Help:      "Total number of orders placed through checkout.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		logger.Debugw("metrics_process_collector_skipped", "error", err)
	}
	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		logger.Debugw("metrics_go_collector_skipped", "error", err)
	}
}

// ObserveCartOperation 记录一次购物车操作
func ObserveCartOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	cartOperationsTotal.WithLabelValues(operation, result).Inc()
}

// IncOrdersCreated 记录下单成功
func IncOrdersCreated() {
	ordersCreatedTotal.Inc()
}

// Middleware gin 请求指标中间件
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(strconv.Itoa(c.Writer.Status()), c.Request.Method, path).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler Prometheus 抓取端点
func Handler() http.Handler {
	return promhttp.Handler()
}
