package eventmodels

import (
	"context"

	"github.com/shopspring/decimal"
)

// ValuationSource converts the feed's native unit (SOL) into USDT.
type ValuationSource interface {
	CurrentRate(ctx context.Context) (decimal.Decimal, error)
}

type NotificationSink interface {
	Post(ctx context.Context, text string) (MessageHandle, error)
	Retract(ctx context.Context, handle MessageHandle) error
}

type SubscriptionRequester interface {
	Subscribe(ctx context.Context, req SubscriptionRequest) error
}

type EventPublisher interface {
	Publish(topic EventName, event interface{})
}
