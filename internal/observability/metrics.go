// Package observability holds Prometheus metric definitions for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "picstream_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedAssemblies counts full feed projections computed.
	FeedAssemblies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "picstream_feed_assemblies_total",
		Help: "Total number of feed projections computed",
	})

	// FeedAssemblyDuration records feed assembly latency.
	FeedAssemblyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "picstream_feed_assembly_duration_seconds",
		Help:    "Feed assembly latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// LikeToggles counts like toggles by resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "picstream_like_toggles_total",
		Help: "Total number of like toggles by resulting state",
	}, []string{"result"})

	// ImageUploads counts image registrations by outcome.
	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "picstream_image_uploads_total",
		Help: "Total number of image upload attempts by outcome",
	}, []string{"outcome"})
)
