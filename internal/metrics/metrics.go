package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ottawair_upstream_calls_total",
			Help: "Total upstream data source calls",
		},
		[]string{"source", "status"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ottawair_upstream_latency_seconds",
			Help:    "Upstream call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ottawair_cycles_total",
			Help: "Total fetch-classify cycles by outcome",
		},
		[]string{"outcome"},
	)

	AssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ottawair_assessments_total",
			Help: "Total assessments by classification result",
		},
		[]string{"tier", "trend", "bracket"},
	)

	LastCycleTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ottawair_last_cycle_timestamp_seconds",
			Help: "Unix time of the most recent completed cycle",
		},
	)
)
