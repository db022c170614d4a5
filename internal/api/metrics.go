package api

import "github.com/prometheus/client_golang/prometheus"

var (
	buildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "musicflow_playlist_builds_total",
			Help: "Total playlist generation requests",
		},
		[]string{"status"},
	)
	buildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "musicflow_playlist_build_duration_seconds",
			Help:    "Playlist generation time",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(buildsTotal, buildDuration)
}
