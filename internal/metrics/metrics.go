// Package metrics exposes Prometheus counters for the serving and
// accounting paths. Counters are registered on the default registry and
// served by promhttp at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AdsServed counts HTML snippets successfully rendered by the slot
	// resolver.
	AdsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adsync_ads_served_total",
		Help: "Number of ads served via slot resolution.",
	})

	// ImpressionsRecorded counts campaign impression increments across
	// both the single-frame path and the tracking endpoints.
	ImpressionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adsync_impressions_recorded_total",
		Help: "Number of recorded ad impressions.",
	})

	// ClicksRecorded counts stored click events.
	ClicksRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adsync_clicks_recorded_total",
		Help: "Number of recorded ad clicks.",
	})

	// FramesRejected counts frames skipped during slot resolution, by
	// reason.
	FramesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adsync_frames_rejected_total",
		Help: "Number of frames rejected during slot resolution.",
	}, []string{"reason"})
)
