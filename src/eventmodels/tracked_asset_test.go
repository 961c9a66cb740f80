package eventmodels

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func Test_TrackedAsset(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("buys before the creator exits are not counted", func(t *testing.T) {
		// arrange
		asset := NewTrackedAsset("mint", "creator", "Name", "SYM", decimal.NewFromInt(30), createdAt)

		// act
		counted := asset.RecordBuy(createdAt.Add(time.Second), decimal.NewFromInt(31))

		// assert
		assert.False(t, counted)
		assert.Equal(t, 0, asset.BuyCount)
		assert.Nil(t, asset.LastBuyAt)
		assert.True(t, asset.MarketValue.Equal(decimal.NewFromInt(30)))
	})

	t.Run("creator sell resets the buy count but keeps the ladder", func(t *testing.T) {
		// arrange
		asset := NewTrackedAsset("mint", "creator", "Name", "SYM", decimal.NewFromInt(30), createdAt)
		assert.True(t, asset.RecordCreatorSell())
		for i := 0; i < 12; i++ {
			asset.RecordBuy(createdAt.Add(time.Duration(i)*time.Second), decimal.NewFromInt(32))
		}
		asset.RecordNotification(NotificationKindModerate, MessageHandle(7))

		// act
		first := asset.RecordCreatorSell()

		// assert
		assert.False(t, first)
		assert.True(t, asset.CreatorHasExited)
		assert.Equal(t, 0, asset.BuyCount)
		assert.Equal(t, NotificationStateThreshold1Sent, asset.NotificationState)
	})

	t.Run("zero observed value does not clobber the market value", func(t *testing.T) {
		// arrange
		asset := NewTrackedAsset("mint", "creator", "Name", "SYM", decimal.NewFromInt(30), createdAt)
		asset.RecordCreatorSell()

		// act
		asset.RecordBuy(createdAt, decimal.Zero)

		// assert
		assert.Equal(t, 1, asset.BuyCount)
		assert.True(t, asset.MarketValue.Equal(decimal.NewFromInt(30)))
	})

	t.Run("notification ladder only moves forward", func(t *testing.T) {
		// arrange
		asset := NewTrackedAsset("mint", "creator", "Name", "SYM", decimal.Zero, createdAt)

		// act
		skipped := asset.RecordNotification(NotificationKindHigh, MessageHandle(1))
		moderate := asset.RecordNotification(NotificationKindModerate, MessageHandle(2))
		repeated := asset.RecordNotification(NotificationKindModerate, MessageHandle(3))
		high := asset.RecordNotification(NotificationKindHigh, MessageHandle(4))
		again := asset.RecordNotification(NotificationKindHigh, MessageHandle(5))

		// assert
		assert.False(t, skipped)
		assert.True(t, moderate)
		assert.False(t, repeated)
		assert.True(t, high)
		assert.False(t, again)
		assert.Equal(t, NotificationStateThreshold2Sent, asset.NotificationState)
		assert.Equal(t, MessageHandle(4), *asset.ActiveMessage)
	})

	t.Run("milestone is independent of the active message", func(t *testing.T) {
		// arrange
		asset := NewTrackedAsset("mint", "creator", "Name", "SYM", decimal.Zero, createdAt)

		// act
		first := asset.RecordNotification(NotificationKindMilestone, MessageHandle(9))
		second := asset.RecordNotification(NotificationKindMilestone, MessageHandle(10))

		// assert
		assert.True(t, first)
		assert.False(t, second)
		assert.True(t, asset.MilestoneNotified)
		assert.Nil(t, asset.ActiveMessage)
		assert.Equal(t, NotificationStateNone, asset.NotificationState)
	})

	t.Run("idle requires exit, a buy and an active message", func(t *testing.T) {
		// arrange
		asset := NewTrackedAsset("mint", "creator", "Name", "SYM", decimal.Zero, createdAt)
		now := createdAt.Add(time.Hour)

		// assert
		assert.False(t, asset.IsIdle(now, 3*time.Minute))

		asset.RecordCreatorSell()
		assert.False(t, asset.IsIdle(now, 3*time.Minute))

		asset.RecordBuy(createdAt, decimal.Zero)
		assert.False(t, asset.IsIdle(now, 3*time.Minute))

		asset.RecordNotification(NotificationKindModerate, MessageHandle(1))
		assert.True(t, asset.IsIdle(now, 3*time.Minute))
		assert.True(t, asset.IsIdle(createdAt.Add(3*time.Minute), 3*time.Minute))
		assert.False(t, asset.IsIdle(createdAt.Add(179*time.Second), 3*time.Minute))
	})

	t.Run("stale is disabled by a zero max age", func(t *testing.T) {
		// arrange
		asset := NewTrackedAsset("mint", "creator", "Name", "SYM", decimal.Zero, createdAt)

		// assert
		assert.False(t, asset.IsStale(createdAt.Add(1000*time.Hour), 0))
		assert.True(t, asset.IsStale(createdAt.Add(2*time.Hour), time.Hour))
	})

	t.Run("clone does not share pointers", func(t *testing.T) {
		// arrange
		asset := NewTrackedAsset("mint", "creator", "Name", "SYM", decimal.Zero, createdAt)
		asset.RecordCreatorSell()
		asset.RecordBuy(createdAt, decimal.Zero)
		asset.RecordNotification(NotificationKindModerate, MessageHandle(1))

		// act
		clone := asset.Clone()
		*asset.ActiveMessage = MessageHandle(99)

		// assert
		assert.Equal(t, MessageHandle(1), *clone.ActiveMessage)
		assert.NotSame(t, asset.LastBuyAt, clone.LastBuyAt)
	})
}
