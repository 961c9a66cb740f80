package eventconsumers

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ctogod/cleanbot/src/eventmodels"
	"github.com/ctogod/cleanbot/src/utils"
)

type EventHandler interface {
	HandleEvent(ctx context.Context, ev eventmodels.FeedEvent)
}

// EventDispatcher fans feed events out to shard goroutines keyed by mint. Events for one mint
// always land in the same FIFO mailbox, so they are handled in delivery order.
type EventDispatcher struct {
	wg        *sync.WaitGroup
	handler   EventHandler
	mailboxes []chan eventmodels.FeedEvent
	stopped   chan struct{}
}

func NewEventDispatcher(wg *sync.WaitGroup, handler EventHandler, shards, mailboxSize int) *EventDispatcher {
	if shards < 1 {
		shards = 1
	}

	mailboxes := make([]chan eventmodels.FeedEvent, shards)
	for i := range mailboxes {
		mailboxes[i] = make(chan eventmodels.FeedEvent, mailboxSize)
	}

	return &EventDispatcher{
		wg:        wg,
		handler:   handler,
		mailboxes: mailboxes,
		stopped:   make(chan struct{}),
	}
}

// Enqueue blocks while the target mailbox is full. It returns false once the dispatcher has
// stopped or ctx is done. Events still queued at stop are discarded.
func (d *EventDispatcher) Enqueue(ctx context.Context, ev eventmodels.FeedEvent) bool {
	mailbox := d.mailboxes[utils.ShardIndex(ev.GetMint(), len(d.mailboxes))]

	select {
	case <-d.stopped:
		return false
	default:
	}

	select {
	case mailbox <- ev:
		return true
	case <-d.stopped:
		return false
	case <-ctx.Done():
		return false
	}
}

func (d *EventDispatcher) Start(ctx context.Context) {
	d.wg.Add(len(d.mailboxes) + 1)

	go func() {
		defer d.wg.Done()
		<-ctx.Done()
		close(d.stopped)
		log.Info("stopping EventDispatcher consumer")
	}()

	for i, mailbox := range d.mailboxes {
		go func(shard int, mailbox chan eventmodels.FeedEvent) {
			defer d.wg.Done()
			for {
				select {
				case <-ctx.Done():
					log.Debugf("EventDispatcher: shard %d stopped", shard)
					return
				case ev := <-mailbox:
					d.handler.HandleEvent(ctx, ev)
				}
			}
		}(i, mailbox)
	}
}
