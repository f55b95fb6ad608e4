// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	MatcherRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matcher_runs_total",
			Help: "Total number of CV matcher invocations",
		},
	)

	MatcherCandidatesRetained = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matcher_candidates_retained",
			Help:    "Match candidates above the confidence floor per run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	AssignmentsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidate_assignments_total",
			Help: "Total number of candidate ID assignments by outcome",
		},
		[]string{"outcome"},
	)
)
