package eventmodels

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrackedAsset is the per-mint state owned by the asset tracker.
type TrackedAsset struct {
	Mint              string            `json:"mint"`
	CreatorKey        string            `json:"creatorKey"`
	Name              string            `json:"name"`
	Symbol            string            `json:"symbol"`
	CreatorHasExited  bool              `json:"creatorHasExited"`
	BuyCount          int               `json:"buyCount"`
	LastBuyAt         *time.Time        `json:"lastBuyAt"`
	MarketValue       decimal.Decimal   `json:"marketValueSol"`
	NotificationState NotificationState `json:"notificationState"`
	MilestoneNotified bool              `json:"milestoneNotified"`
	ActiveMessage     *MessageHandle    `json:"activeMessage"`
	CreatedAt         time.Time         `json:"createdAt"`
}

func NewTrackedAsset(mint, creatorKey, name, symbol string, marketValue decimal.Decimal, createdAt time.Time) *TrackedAsset {
	return &TrackedAsset{
		Mint:              mint,
		CreatorKey:        creatorKey,
		Name:              name,
		Symbol:            symbol,
		MarketValue:       marketValue,
		NotificationState: NotificationStateNone,
		CreatedAt:         createdAt,
	}
}

// RecordCreatorSell marks the creator as exited and restarts the buy momentum count.
// It returns true when this is the first observed exit.
func (a *TrackedAsset) RecordCreatorSell() bool {
	first := !a.CreatorHasExited
	a.CreatorHasExited = true
	a.BuyCount = 0
	return first
}

// RecordBuy counts a momentum buy. Buys before the creator exits are ignored.
func (a *TrackedAsset) RecordBuy(at time.Time, observedValue decimal.Decimal) bool {
	if !a.CreatorHasExited {
		return false
	}

	a.BuyCount++
	a.LastBuyAt = &at

	if observedValue.IsPositive() {
		a.MarketValue = observedValue
	}

	return true
}

// RecordNotification applies a successful post. The ladder only moves forward, so a kind that
// does not match the current state leaves the asset untouched.
func (a *TrackedAsset) RecordNotification(kind NotificationKind, handle MessageHandle) bool {
	switch kind {
	case NotificationKindModerate:
		if a.NotificationState != NotificationStateNone {
			return false
		}
		a.NotificationState = NotificationStateThreshold1Sent
		a.ActiveMessage = &handle
	case NotificationKindHigh:
		if a.NotificationState != NotificationStateThreshold1Sent {
			return false
		}
		a.NotificationState = NotificationStateThreshold2Sent
		a.ActiveMessage = &handle
	case NotificationKindMilestone:
		if a.MilestoneNotified {
			return false
		}
		a.MilestoneNotified = true
	default:
		return false
	}

	return true
}

// IsIdle reports whether the asset's live notification is due for retraction.
func (a *TrackedAsset) IsIdle(now time.Time, idleWindow time.Duration) bool {
	if !a.CreatorHasExited || a.LastBuyAt == nil || a.ActiveMessage == nil {
		return false
	}

	return now.Sub(*a.LastBuyAt) >= idleWindow
}

func (a *TrackedAsset) IsStale(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}

	return now.Sub(a.CreatedAt) >= maxAge
}

// Clone returns a copy that shares no pointers with the receiver.
func (a *TrackedAsset) Clone() TrackedAsset {
	c := *a

	if a.LastBuyAt != nil {
		t := *a.LastBuyAt
		c.LastBuyAt = &t
	}

	if a.ActiveMessage != nil {
		h := *a.ActiveMessage
		c.ActiveMessage = &h
	}

	return c
}
