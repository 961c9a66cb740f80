package eventconsumers

import (
	"github.com/ctogod/cleanbot/src/eventmodels"
	"github.com/ctogod/cleanbot/src/eventpubsub"
	"github.com/ctogod/cleanbot/src/metrics"
)

// TrackerMetricsConsumer mirrors tracker domain events into Prometheus.
type TrackerMetricsConsumer struct {
	bus *eventpubsub.Bus
}

func NewTrackerMetricsConsumer(bus *eventpubsub.Bus) *TrackerMetricsConsumer {
	return &TrackerMetricsConsumer{
		bus: bus,
	}
}

func (c *TrackerMetricsConsumer) onAssetTracked(ev eventmodels.AssetTrackedEvent) {
	metrics.TrackedAssets.Inc()
}

func (c *TrackerMetricsConsumer) onCreatorExited(ev eventmodels.CreatorExitedEvent) {
	if ev.FirstExit {
		metrics.CreatorExits.Inc()
	}
}

func (c *TrackerMetricsConsumer) onNotificationPosted(ev eventmodels.NotificationPostedEvent) {
	metrics.NotificationsPosted.WithLabelValues(string(ev.Kind)).Inc()
}

func (c *TrackerMetricsConsumer) onNotificationRetracted(ev eventmodels.NotificationRetractedEvent) {
	result := "ok"
	if ev.Err != nil {
		result = "error"
	}

	metrics.NotificationsRetracted.WithLabelValues(result).Inc()
}

func (c *TrackerMetricsConsumer) onAssetRemoved(ev eventmodels.AssetRemovedEvent) {
	metrics.TrackedAssets.Dec()
	metrics.AssetsRemoved.WithLabelValues(string(ev.Reason)).Inc()
}

func (c *TrackerMetricsConsumer) onValuationSkipped(ev eventmodels.ValuationSkippedEvent) {
	metrics.ValuationSkips.Inc()
}

func (c *TrackerMetricsConsumer) Start() error {
	name := "TrackerMetricsConsumer"

	subscriptions := []struct {
		topic eventmodels.EventName
		fn    interface{}
	}{
		{eventmodels.AssetTrackedEventName, c.onAssetTracked},
		{eventmodels.CreatorExitedEventName, c.onCreatorExited},
		{eventmodels.NotificationPostedEventName, c.onNotificationPosted},
		{eventmodels.NotificationRetractedEventName, c.onNotificationRetracted},
		{eventmodels.AssetRemovedEventName, c.onAssetRemoved},
		{eventmodels.ValuationSkippedEventName, c.onValuationSkipped},
	}

	for _, s := range subscriptions {
		if err := c.bus.Subscribe(name, s.topic, s.fn); err != nil {
			return err
		}
	}

	return nil
}
