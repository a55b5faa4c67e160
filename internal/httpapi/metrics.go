package httpapi

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/oraclelive/billing/pkg/billing"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	httpRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billing_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "endpoint"})

	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_operations_total",
		Help: "Billing operation outcomes",
	}, []string{"operation", "status"})
)

// OperationMetrics counts billing operation outcomes. It implements
// billing.OperationLogger so it can sit next to the structured log adapter.
type OperationMetrics struct{}

func (OperationMetrics) LogOperation(_ context.Context, entry billing.OperationLog) {
	operationsTotal.WithLabelValues(entry.Operation, entry.Status).Inc()
}

func metricsMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		started := time.Now()
		ctx.Next()
		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(ctx.Request.Method, endpoint, strconv.Itoa(ctx.Writer.Status())).Inc()
		httpRequestLatency.WithLabelValues(ctx.Request.Method, endpoint).Observe(time.Since(started).Seconds())
	}
}
