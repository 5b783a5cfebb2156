package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics exposes request-level instruments on the default registry.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fichas_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fichas_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	prometheus.DefaultRegisterer.MustRegister(m.requests, m.duration)
	return m
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// LedgerMetrics counts ledger-mutating operations.
type LedgerMetrics struct {
	deliveries     prometheus.Counter
	adjustments    *prometheus.CounterVec
	replenishments prometheus.Counter
	cutsCommitted  prometheus.Counter
	cutsRejected   *prometheus.CounterVec
}

func NewLedgerMetrics() *LedgerMetrics {
	m := &LedgerMetrics{
		deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fichas_deliveries_total",
			Help: "Completed stock deliveries.",
		}),
		adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fichas_inventory_adjustments_total",
			Help: "Direct inventory adjustments by field.",
		}, []string{"field"}),
		replenishments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fichas_stock_replenishments_total",
			Help: "Global stock replenishments.",
		}),
		cutsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fichas_cash_cuts_committed_total",
			Help: "Committed cash cuts.",
		}),
		cutsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fichas_cash_cuts_rejected_total",
			Help: "Cash cut commits rejected, by reason.",
		}, []string{"reason"}),
	}
	prometheus.DefaultRegisterer.MustRegister(
		m.deliveries, m.adjustments, m.replenishments, m.cutsCommitted, m.cutsRejected,
	)
	return m
}

func (m *LedgerMetrics) RecordDelivery() {
	if m == nil {
		return
	}
	m.deliveries.Inc()
}

func (m *LedgerMetrics) RecordAdjustment(field string) {
	if m == nil {
		return
	}
	m.adjustments.WithLabelValues(strings.TrimSpace(field)).Inc()
}

func (m *LedgerMetrics) RecordReplenishment() {
	if m == nil {
		return
	}
	m.replenishments.Inc()
}

func (m *LedgerMetrics) RecordCutCommitted() {
	if m == nil {
		return
	}
	m.cutsCommitted.Inc()
}

func (m *LedgerMetrics) RecordCutRejected(reason string) {
	if m == nil {
		return
	}
	m.cutsRejected.WithLabelValues(strings.TrimSpace(reason)).Inc()
}
