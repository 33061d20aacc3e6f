// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillcheck_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillcheck_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 15, 60},
		},
		[]string{"method", "route"},
	)

	// LLMCalls counts model calls by operation (generate, evaluate) and
	// outcome (ok, invalid, error).
	LLMCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillcheck_llm_calls_total",
			Help: "Language model calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	LLMDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillcheck_llm_call_duration_seconds",
			Help:    "Latency of language model calls",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"operation"},
	)

	AssessmentsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skillcheck_assessments_started_total",
		Help: "Quizzes generated for learners",
	})

	AssessmentsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillcheck_assessments_completed_total",
			Help: "Submitted assessments by result",
		},
		[]string{"result"},
	)

	OverallScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "skillcheck_overall_score",
		Help:    "Distribution of overall assessment scores",
		Buckets: prometheus.LinearBuckets(10, 10, 10),
	})
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			LLMCalls,
			LLMDuration,
			AssessmentsStarted,
			AssessmentsCompleted,
			OverallScore,
		)
	})
}
