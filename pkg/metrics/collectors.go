package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

//nolint:gochecknoglobals
var (
	UpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of bot updates by kind",
		},
		[]string{"kind"},
	)

	UpdateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Duration of bot update handling",
			Buckets: prometheus.DefBuckets,
		},
	)

	DealsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deals_created_total",
			Help: "Total number of created deals",
		},
	)

	DealsJoined = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deals_joined_total",
			Help: "Total number of buyer assignments",
		},
	)

	DealsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deals_completed_total",
			Help: "Total number of completed deals",
		},
	)
)

//nolint:gochecknoinits
func init() {
	prometheus.MustRegister(
		UpdatesTotal,
		UpdateDuration,
		DealsCreated,
		DealsJoined,
		DealsCompleted,
	)
}
