package catalog

import "github.com/zeromicro/go-zero/core/metric"

var (
	catalogRequests = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "fontdue",
		Subsystem: "catalog",
		Name:      "requests_total",
		Help:      "Catalog requests by source, tier and outcome",
		Labels:    []string{"source", "tier", "result"},
	})

	catalogFetchDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: "fontdue",
		Subsystem: "catalog",
		Name:      "fetch_duration_seconds",
		Help:      "Remote full catalog fetch duration in seconds",
		Labels:    []string{"source"},
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})
)
