package loader

import "github.com/zeromicro/go-zero/core/metric"

var (
	loadsTotal = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "fontdue",
		Subsystem: "loader",
		Name:      "loads_total",
		Help:      "Font loads by source and result",
		Labels:    []string{"source", "result"},
	})

	loadDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: "fontdue",
		Subsystem: "loader",
		Name:      "load_duration_seconds",
		Help:      "Font load duration in seconds",
		Labels:    []string{"source"},
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	stylesheetFetches = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "fontdue",
		Subsystem: "loader",
		Name:      "stylesheet_fetches_total",
		Help:      "Stylesheet verification fetches by result",
		Labels:    []string{"result"},
	})
)
