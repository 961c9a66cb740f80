package eventmodels

import "time"

type AssetTrackedEvent struct {
	Mint    string
	Creator string
	At      time.Time
}

type CreatorExitedEvent struct {
	Mint      string
	FirstExit bool
	At        time.Time
}

type NotificationPostedEvent struct {
	Mint   string
	Kind   NotificationKind
	Handle MessageHandle
	At     time.Time
}

type NotificationRetractedEvent struct {
	Mint   string
	Handle MessageHandle
	Err    error
	At     time.Time
}

type RemovalReason string

const (
	RemovalReasonIdle  RemovalReason = "idle"
	RemovalReasonStale RemovalReason = "stale"
)

type AssetRemovedEvent struct {
	Mint   string
	Reason RemovalReason
	At     time.Time
}

type ValuationSkippedEvent struct {
	Mint string
	Err  error
	At   time.Time
}
