package refresh

import "github.com/zeromicro/go-zero/core/metric"

var (
	refreshesDone = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "fontdue",
		Subsystem: "refresh",
		Name:      "done_total",
		Help:      "Total catalog refreshes completed",
		Labels:    []string{"source"},
	})

	refreshesFailed = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "fontdue",
		Subsystem: "refresh",
		Name:      "failed_total",
		Help:      "Total catalog refreshes failed permanently",
		Labels:    []string{"source", "reason"},
	})

	refreshesRetried = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "fontdue",
		Subsystem: "refresh",
		Name:      "retried_total",
		Help:      "Total catalog refresh retries",
		Labels:    []string{"source"},
	})

	refreshDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: "fontdue",
		Subsystem: "refresh",
		Name:      "duration_seconds",
		Help:      "Catalog refresh duration in seconds",
		Labels:    []string{"source"},
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	queueDepth = metric.NewGaugeVec(&metric.GaugeVecOpts{
		Namespace: "fontdue",
		Subsystem: "queue",
		Name:      "depth",
		Help:      "Refresh jobs by status",
		Labels:    []string{"status"},
	})
)
