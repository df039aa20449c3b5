// Package metrics exposes Prometheus metrics for access decisions,
// locale redirects and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what handlers use to report domain events.
type Recorder interface {
	RecordAccess(feature string, granted bool)
	RecordUsage(usageType string, allowed bool)
	RecordRedirect(locale string)
	RecordLogin(success bool)
}

// Collector registers and records the application's metrics.
type Collector struct {
	access    *prometheus.CounterVec
	usage     *prometheus.CounterVec
	redirects *prometheus.CounterVec
	logins    *prometheus.CounterVec
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		access: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenblog_access_checks_total",
			Help: "Feature access decisions by feature and outcome.",
		}, []string{"feature", "granted"}),
		usage: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenblog_usage_checks_total",
			Help: "Daily quota decisions by usage type and outcome.",
		}, []string{"usage_type", "allowed"}),
		redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenblog_locale_redirects_total",
			Help: "Redirects to a localized URL by target locale.",
		}, []string{"locale"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenblog_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenblog_http_requests_total",
			Help: "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zenblog_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(c.access, c.usage, c.redirects, c.logins, c.requests, c.latency)
	return c
}

func (c *Collector) RecordAccess(feature string, granted bool) {
	c.access.WithLabelValues(feature, strconv.FormatBool(granted)).Inc()
}

func (c *Collector) RecordUsage(usageType string, allowed bool) {
	c.usage.WithLabelValues(usageType, strconv.FormatBool(allowed)).Inc()
}

func (c *Collector) RecordRedirect(locale string) {
	c.redirects.WithLabelValues(locale).Inc()
}

func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

// Middleware records request counts and latency. Routes are labelled by
// chi pattern so that slugs and locales do not explode cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		c.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every event.
type Nop struct{}

func (Nop) RecordAccess(string, bool) {}
func (Nop) RecordUsage(string, bool)  {}
func (Nop) RecordRedirect(string)     {}
func (Nop) RecordLogin(bool)          {}
