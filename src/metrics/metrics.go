package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cleanbot"

var (
	// FeedRecords counts every record read from the feed socket by tx type and outcome
	// (dispatched, duplicate, ignored, dropped).
	FeedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "records_total",
			Help:      "Records read from the trade feed",
		},
		[]string{"tx_type", "outcome"},
	)

	FeedReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "reconnects_total",
			Help:      "Trade feed reconnect attempts",
		},
	)

	NotificationsPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "notifications_posted_total",
			Help:      "Notifications posted by kind",
		},
		[]string{"kind"},
	)

	NotificationsRetracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "notifications_retracted_total",
			Help:      "Notification retractions by result",
		},
		[]string{"result"},
	)

	ValuationSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "valuation_skips_total",
			Help:      "Policy evaluations skipped because no rate was available",
		},
	)

	AssetsRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "assets_removed_total",
			Help:      "Tracked assets removed by reason",
		},
		[]string{"reason"},
	)

	CreatorExits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "creator_exits_total",
			Help:      "First observed creator sells",
		},
	)

	TrackedAssets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "tracked_assets",
			Help:      "Assets currently tracked",
		},
	)
)
