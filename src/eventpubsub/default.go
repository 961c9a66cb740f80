package eventpubsub

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"

	"github.com/ctogod/cleanbot/src/eventmodels"
)

// Bus carries tracker domain events to in-process consumers. Callbacks run asynchronously and
// may observe events out of publish order.
type Bus struct {
	bus EventBus.Bus
}

func NewBus() *Bus {
	return &Bus{
		bus: EventBus.New(),
	}
}

func (b *Bus) Publish(topic eventmodels.EventName, event interface{}) {
	b.bus.Publish(string(topic), event)
}

func (b *Bus) Subscribe(subscriberName string, topic eventmodels.EventName, callbackFn interface{}) error {
	if err := b.bus.SubscribeAsync(string(topic), callbackFn, false); err != nil {
		return fmt.Errorf("Bus.Subscribe: failed to subscribe %s to %s: %w", subscriberName, topic, err)
	}

	log.Infof("[%v] Subscribed to topic %s", subscriberName, topic)
	return nil
}

// WaitAsync blocks until every async callback already dispatched has returned.
func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}
