package eventconsumers

import (
	"github.com/shopspring/decimal"

	"github.com/ctogod/cleanbot/src/eventmodels"
)

// ThresholdPolicy decides which notifications an asset has earned.
type ThresholdPolicy struct {
	Moderate  eventmodels.BuyWindow
	High      eventmodels.BuyWindow
	Milestone decimal.Decimal
}

func NewThresholdPolicy(config eventmodels.PolicyConfig) ThresholdPolicy {
	return ThresholdPolicy{
		Moderate:  config.ModerateWindow,
		High:      config.HighWindow,
		Milestone: decimal.NewFromFloat(config.MilestoneUSDT),
	}
}

// Due returns the notifications to post for asset at the converted valuation usd, in posting
// order. The rules are independent and more than one may fire in a single pass.
func (p ThresholdPolicy) Due(asset *eventmodels.TrackedAsset, usd decimal.Decimal) []eventmodels.NotificationKind {
	var kinds []eventmodels.NotificationKind

	if asset.NotificationState == eventmodels.NotificationStateNone && p.Moderate.Contains(asset.BuyCount) {
		kinds = append(kinds, eventmodels.NotificationKindModerate)
	}

	if asset.NotificationState == eventmodels.NotificationStateThreshold1Sent && p.High.Contains(asset.BuyCount) {
		kinds = append(kinds, eventmodels.NotificationKindHigh)
	}

	if !asset.MilestoneNotified && usd.GreaterThan(p.Milestone) {
		kinds = append(kinds, eventmodels.NotificationKindMilestone)
	}

	return kinds
}
