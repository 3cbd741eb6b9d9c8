// Package metrics holds the Prometheus collectors for the registrar.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var Registry = prometheus.NewRegistry()

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "school_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "school_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	Rekeys = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "school_rekeys_total",
		Help: "Natural-key changes by entity and outcome.",
	}, []string{"entity", "outcome"})

	GradeWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "school_grade_writes_total",
		Help: "Grade rows saved or cleared by batch upserts.",
	}, []string{"op"})

	Enrollments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "school_enrollments_total",
		Help: "Enrollment rows created or removed.",
	}, []string{"op"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequests, HTTPDuration, Rekeys, GradeWrites, Enrollments,
	)
}

// ObserveRekey records one rekey attempt.
func ObserveRekey(entity string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	Rekeys.WithLabelValues(entity, outcome).Inc()
}
