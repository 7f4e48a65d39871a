package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "trainingbuilder"

var (
	analyticsDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "analytics",
		Name:      "computation_duration_seconds",
		Help:      "Time spent computing analytics read models.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"kind"})
	analyticsWorkouts = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "analytics",
		Name:      "input_workouts",
		Help:      "Number of workouts fed into an analytics computation.",
		Buckets:   []float64{0, 10, 50, 100, 250, 500, 1000, 5000},
	}, []string{"kind"})
	plansApplied = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "plans",
		Name:      "applied_total",
		Help:      "Plan applications by outcome.",
	}, []string{"outcome"})
	workoutsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "workouts",
		Name:      "created_total",
		Help:      "Workouts written, split by whether they came from a plan.",
	}, []string{"source"})
	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Read model cache lookups by result.",
	}, []string{"model", "result"})
)

func init() {
	prometheus.MustRegister(analyticsDuration, analyticsWorkouts, plansApplied, workoutsCreated, cacheLookups)
}

// Analytics kinds
const (
	KindVolume       = "volume"
	KindTrainingLoad = "training_load"
	KindDashboard    = "dashboard"
)

// Plan application outcomes
const (
	OutcomeCreated = "created"
	OutcomeEmpty   = "empty"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// Workout sources
const (
	SourceManual = "manual"
	SourcePlan   = "plan"
)

// ObserveAnalytics records one analytics computation that started at start.
func ObserveAnalytics(kind string, workouts int, start time.Time) {
	analyticsDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	analyticsWorkouts.WithLabelValues(kind).Observe(float64(workouts))
}

func RecordPlanApplied(outcome string) {
	plansApplied.WithLabelValues(outcome).Inc()
}

func RecordWorkoutsCreated(source string, n int) {
	if n <= 0 {
		return
	}
	workoutsCreated.WithLabelValues(source).Add(float64(n))
}

func RecordCacheLookup(model string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(model, result).Inc()
}
