// Package observability exposes the service's Prometheus metrics.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activitiesRegistered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cleanlog",
		Name:      "activities_registered_total",
		Help:      "Cleaning activities persisted, by activity type.",
	}, []string{"activity_type"})
	registrationsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cleanlog",
		Name:      "registration_rejected_total",
		Help:      "Registrations rejected by validation.",
	})
	weeklyReports = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cleanlog",
		Name:      "weekly_reports_total",
		Help:      "Weekly reports computed.",
	})
	lastRegisteredGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cleanlog",
		Name:      "last_activity_registered_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity persisted.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cleanlog",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method and status code.",
	}, []string{"method", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cleanlog",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
	rateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cleanlog",
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the per-client rate limiter.",
	})
	suspiciousRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cleanlog",
		Name:      "suspicious_requests_total",
		Help:      "Requests matching a known attack pattern.",
	})
	sheetAppends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cleanlog",
		Name:      "sheet_appends_total",
		Help:      "Activities mirrored to the spreadsheet, by outcome.",
	}, []string{"outcome"})
	rateLimitClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cleanlog",
		Name:      "rate_limit_tracked_clients",
		Help:      "Clients currently tracked by the rate limiter.",
	})
	apartmentCacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cleanlog",
		Name:      "apartment_cache_entries",
		Help:      "Apartments held by the lookup cache after the last sweep.",
	})
)

func init() {
	prometheus.MustRegister(
		activitiesRegistered, registrationsRejected, weeklyReports, lastRegisteredGauge,
		httpRequests, httpDuration, rateLimited, suspiciousRequests, sheetAppends,
		rateLimitClients, apartmentCacheEntries,
	)
}

// RecordActivityRegistered counts a persisted activity and moves the watermark.
func RecordActivityRegistered(activityType string, ts time.Time) {
	activitiesRegistered.WithLabelValues(activityType).Inc()
	if ts.IsZero() {
		return
	}
	lastRegisteredGauge.Set(float64(ts.Unix()))
}

// RecordRegistrationRejected counts a registration that failed validation.
func RecordRegistrationRejected() {
	registrationsRejected.Inc()
}

// RecordWeeklyReport counts a computed weekly report.
func RecordWeeklyReport() {
	weeklyReports.Inc()
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

func RecordRateLimited() {
	rateLimited.Inc()
}

func RecordSuspiciousRequest() {
	suspiciousRequests.Inc()
}

func SetRateLimitClients(n int) {
	rateLimitClients.Set(float64(n))
}

// SetApartmentCacheEntries reports the cache size after an expiry sweep.
func SetApartmentCacheEntries(n int) {
	apartmentCacheEntries.Set(float64(n))
}

// RecordSheetAppend counts a sync attempt; ok is false when the append failed.
func RecordSheetAppend(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	sheetAppends.WithLabelValues(outcome).Inc()
}
