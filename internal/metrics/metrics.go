package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "onlinecourse"

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	// Enrollments counts enroll actions by outcome: created or existing.
	Enrollments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrollments_total",
			Help:      "Enrollment requests by outcome",
		},
		[]string{"outcome"},
	)

	Submissions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exam_submissions_total",
			Help:      "Exam submissions stored",
		},
	)

	// ResultCache counts graded result lookups by outcome: hit or miss.
	ResultCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exam_result_cache_total",
			Help:      "Exam result cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Calling it again is a no-op.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDuration, Enrollments, Submissions, ResultCache)
	})
}
