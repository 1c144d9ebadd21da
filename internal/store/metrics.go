package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	opsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studyboosters_store_ops_total",
			Help: "Store operations by operation and result",
		},
		[]string{"op", "status"},
	)

	opDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studyboosters_store_op_duration_seconds",
			Help:    "Time from issuing a store operation to its completion",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)
