package metrics

import "github.com/prometheus/client_golang/prometheus"

// Diagnosis outcomes.
const (
	OutcomeRanked   = "ranked"
	OutcomeSentinel = "sentinel"
	OutcomeEmpty    = "empty"
)

// Diagnosis Prometheus metrics.
var (
	DiagnosesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "diagnoses_total",
			Help:      "Total diagnoses by outcome",
		},
		[]string{"outcome"}, // ranked / sentinel / empty
	)

	MatchedSymptoms = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "matched_symptoms",
			Help:      "Number of canonical symptoms matched per diagnosis",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8, 12},
		},
	)

	RedFlagsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "red_flags_total",
			Help:      "Diagnoses escalated because of a red-flag symptom",
		},
	)

	DiagnosisCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "diagnosis_cache_total",
			Help:      "Diagnosis cache hits and misses",
		},
		[]string{"result"}, // hit / miss
	)

	HistoryErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "history_errors_total",
			Help:      "History backend failures by operation",
		},
		[]string{"op"},
	)
)

var diagMetricsRegistered bool

// RegisterDiagnosisMetrics registers the diagnosis metrics. Must be called once from main.
func RegisterDiagnosisMetrics() {
	if diagMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		DiagnosesTotal,
		MatchedSymptoms,
		RedFlagsTotal,
		DiagnosisCacheTotal,
		HistoryErrorsTotal,
	)
	diagMetricsRegistered = true
}
