package eventmodels

type EventName string

const (
	AssetTrackedEventName          EventName = "AssetTrackedEvent"
	CreatorExitedEventName         EventName = "CreatorExitedEvent"
	NotificationPostedEventName    EventName = "NotificationPostedEvent"
	NotificationRetractedEventName EventName = "NotificationRetractedEvent"
	AssetRemovedEventName          EventName = "AssetRemovedEvent"
	ValuationSkippedEventName      EventName = "ValuationSkippedEvent"
)
