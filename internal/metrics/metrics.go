// Package metrics exposes prometheus collectors for HTTP traffic and the
// loyalty ledger.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fidelite"

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	awards         *prometheus.CounterVec
	pointsIssued   prometheus.Counter
	pointsRedeemed prometheus.Counter
	rejections     *prometheus.CounterVec
	opDuration     *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
}

// New registers every collector on reg. Pass a fresh prometheus.NewRegistry()
// in tests to avoid duplicate registration panics.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		awards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transactions_total",
			Help:      "Ledger transactions committed, by kind",
		}, []string{"kind"}),
		pointsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "points_issued_total",
			Help:      "Points credited to customers",
		}),
		pointsRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "points_redeemed_total",
			Help:      "Points consumed by coupons",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "rejections_total",
			Help:      "Rejected ledger requests, by error code",
		}, []string{"code"}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Duration of ledger operations in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups, by entity and result",
		}, []string{"entity", "result"}),
	}

	reg.MustRegister(
		m.httpRequests, m.httpDuration,
		m.awards, m.pointsIssued, m.pointsRedeemed, m.rejections, m.opDuration,
		m.cacheLookups,
	)
	return m
}

// NewDefault registers on a new registry that also carries the Go runtime and
// process collectors.
func NewDefault() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return New(reg)
}

func (m *Metrics) RecordTransaction(kind string, pointsAdded, pointsDeducted int64) {
	m.awards.WithLabelValues(kind).Inc()
	m.pointsIssued.Add(float64(pointsAdded))
	m.pointsRedeemed.Add(float64(pointsDeducted))
}

func (m *Metrics) RecordRejection(code string) {
	m.rejections.WithLabelValues(code).Inc()
}

func (m *Metrics) RecordOperationDuration(operation string, d time.Duration) {
	m.opDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) RecordCacheHit(entity string) {
	m.cacheLookups.WithLabelValues(entity, "hit").Inc()
}

func (m *Metrics) RecordCacheMiss(entity string) {
	m.cacheLookups.WithLabelValues(entity, "miss").Inc()
}

// Middleware records request count and latency, labelled by route pattern so
// path parameters do not explode cardinality.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}

		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
