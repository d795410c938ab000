package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_completed_total",
			Help: "Total number of completed resume analyses",
		},
		[]string{"match_level", "decision"},
	)

	AnalysesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_failed_total",
			Help: "Total number of failed resume analyses",
		},
		[]string{"error_code"},
	)

	AnalysesDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analysis_degraded_total",
			Help: "Total number of analyses completed without the reasoning signal",
		},
	)

	ReasoningCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "reasoning_call_duration_seconds",
			Help: "Duration of reasoning-service calls in seconds",
		},
		[]string{"status"},
	)

	ReasoningCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reasoning_cache_requests_total",
			Help: "Reasoning verdict cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	BatchJobsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "batch_jobs_active",
			Help: "Number of analysis requests currently in flight in the batch pool",
		},
	)

	RecordsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_persisted_total",
			Help: "Analysis record writes by sink and outcome",
		},
		[]string{"sink", "outcome"},
	)
)
