package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherdash_upstream_calls_total",
			Help: "Total OpenWeatherMap API calls",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherdash_upstream_latency_seconds",
			Help:    "OpenWeatherMap API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherdash_pipeline_runs_total",
			Help: "Total dashboard pipeline runs by outcome",
		},
		[]string{"city", "outcome"},
	)

	ForecastPointsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherdash_forecast_points_fetched_total",
			Help: "Total forecast points fetched",
		},
		[]string{"city"},
	)
)
