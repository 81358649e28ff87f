package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"traffic/pulse/internal/incident"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_http_requests_total",
			Help: "Total number of HTTP requests received by the API.",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_http_request_duration_seconds",
			Help:    "Duration of HTTP requests handled by the API.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	incidentsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_incidents_created_total",
			Help: "Incidents inserted into the store, by type, severity and source.",
		},
		[]string{"type", "severity", "detected_by"},
	)

	analyzeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_analyze_requests_total",
			Help: "Video analyze requests, by analysis mode and outcome.",
		},
		[]string{"mode", "status"},
	)

	incidentsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "api_incidents_by_status",
			Help: "Current incident count in the store, by status.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		incidentsCreatedTotal,
		analyzeRequestsTotal,
		incidentsByStatus,
	)
}

// metricsMiddleware records basic request metrics for Prometheus (RPS and latency).
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		durationSeconds := time.Since(start).Seconds()
		status := strconv.Itoa(ww.Status())
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		httpRequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		httpRequestDurationSeconds.WithLabelValues(route, r.Method, status).Observe(durationSeconds)
	})
}

// StartStoreMetricsSync periodically mirrors the store's status counts into
// the incident gauges until ctx is cancelled.
func StartStoreMetricsSync(ctx context.Context, store *incident.Store, log zerolog.Logger, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		record := func() {
			stats := store.Stats()
			incidentsByStatus.WithLabelValues(string(incident.StatusActive)).Set(float64(stats.Active))
			incidentsByStatus.WithLabelValues(string(incident.StatusMonitoring)).Set(float64(stats.Monitoring))
			incidentsByStatus.WithLabelValues(string(incident.StatusResolved)).Set(float64(stats.Resolved))
		}

		record()
		for {
			select {
			case <-ctx.Done():
				log.Debug().Msg("incident metrics sync stopped")
				return
			case <-ticker.C:
				record()
			}
		}
	}()
}
