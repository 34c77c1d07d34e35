package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	rawLeadsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raw_leads_received_total",
			Help: "Total number of raw leads captured from webhooks",
		},
	)

	leadsConverted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_converted_total",
			Help: "Total number of raw leads converted into leads",
		},
	)

	conversionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_conversion_failures_total",
			Help: "Total number of conversions that failed to insert a lead",
		},
	)

	linkFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raw_lead_link_failures_total",
			Help: "Total number of leads created whose raw lead could not be marked converted",
		},
	)

	leadEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_events_published_total",
			Help: "Total number of lead converted events published",
		},
		[]string{"status"},
	)

	unconvertedRawLeads = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_leads_unconverted_stale",
			Help: "Raw leads older than the reconcile threshold still not converted",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps ids out of the path label.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// LeadMetrics records pipeline outcomes on the default registry.
type LeadMetrics struct{}

func (LeadMetrics) RawLeadReceived()  { rawLeadsReceived.Inc() }
func (LeadMetrics) LeadConverted()    { leadsConverted.Inc() }
func (LeadMetrics) ConversionFailed() { conversionFailures.Inc() }
func (LeadMetrics) LinkFailed()       { linkFailures.Inc() }

func RecordLeadEvent(status string) {
	leadEventsPublished.WithLabelValues(status).Inc()
}

func SetUnconvertedRawLeads(n int) {
	unconvertedRawLeads.Set(float64(n))
}
