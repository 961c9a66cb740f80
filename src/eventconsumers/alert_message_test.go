package eventconsumers

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ctogod/cleanbot/src/eventmodels"
)

func Test_FormatAlertMessage(t *testing.T) {
	t.Run("renders the moderate alert", func(t *testing.T) {
		// arrange
		asset := eventmodels.NewTrackedAsset("Mint111", "Dev111", "Cat Coin", "CAT", decimal.NewFromInt(30), time.Now())

		// act
		text := FormatAlertMessage(eventmodels.NotificationKindModerate, asset, decimal.RequireFromString("4350.5"))

		// assert
		expected := "🚨 *Potential CTO* 🚨\n" +
			"*Name:* Cat Coin\n" +
			"*Ticker:* CAT\n" +
			"*Market Cap (USDT):* 4,350.50\n" +
			"[PUMPFUN](https://pump.fun/Mint111)\n" +
			"[BULLX](https://bullx.io/terminal?chainId=1399811149&address=Mint111)"
		assert.Equal(t, expected, text)
	})

	t.Run("escapes markdown in display fields", func(t *testing.T) {
		// arrange
		asset := eventmodels.NewTrackedAsset("Mint111", "Dev111", "my_*coin*", "[X]", decimal.Zero, time.Now())

		// act
		text := FormatAlertMessage(eventmodels.NotificationKindMilestone, asset, decimal.NewFromInt(60000))

		// assert
		assert.Contains(t, text, "🔥 *COOKED* 🔥")
		assert.Contains(t, text, "*Name:* my\\_\\*coin\\*")
		assert.Contains(t, text, "*Ticker:* \\[X]")
		assert.Contains(t, text, "60,000.00")
	})
}

func Test_ThresholdPolicy_Due(t *testing.T) {
	policy := NewThresholdPolicy(eventmodels.DefaultPolicyConfig())

	t.Run("moderate window", func(t *testing.T) {
		asset := &eventmodels.TrackedAsset{BuyCount: 10}
		assert.Equal(t, []eventmodels.NotificationKind{eventmodels.NotificationKindModerate}, policy.Due(asset, decimal.NewFromInt(100)))

		asset.BuyCount = 16
		assert.Empty(t, policy.Due(asset, decimal.NewFromInt(100)))
	})

	t.Run("high window requires the first threshold", func(t *testing.T) {
		asset := &eventmodels.TrackedAsset{BuyCount: 25}
		assert.Empty(t, policy.Due(asset, decimal.NewFromInt(100)))

		asset.NotificationState = eventmodels.NotificationStateThreshold1Sent
		assert.Equal(t, []eventmodels.NotificationKind{eventmodels.NotificationKindHigh}, policy.Due(asset, decimal.NewFromInt(100)))
	})

	t.Run("milestone is strictly above the threshold and co-fires", func(t *testing.T) {
		asset := &eventmodels.TrackedAsset{BuyCount: 12}
		assert.Equal(t, []eventmodels.NotificationKind{eventmodels.NotificationKindModerate}, policy.Due(asset, decimal.NewFromInt(50000)))
		assert.Equal(t, []eventmodels.NotificationKind{
			eventmodels.NotificationKindModerate,
			eventmodels.NotificationKindMilestone,
		}, policy.Due(asset, decimal.RequireFromString("50000.01")))

		asset.MilestoneNotified = true
		assert.Equal(t, []eventmodels.NotificationKind{eventmodels.NotificationKindModerate}, policy.Due(asset, decimal.NewFromInt(90000)))
	})
}
