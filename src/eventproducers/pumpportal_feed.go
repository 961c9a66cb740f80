package eventproducers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"github.com/ctogod/cleanbot/src/eventmodels"
	"github.com/ctogod/cleanbot/src/metrics"
)

const (
	feedReadTimeout  = 60 * time.Second
	feedWriteTimeout = 10 * time.Second
	feedMinBackoff   = time.Second
	feedMaxBackoff   = 30 * time.Second
	feedDedupWindow  = 10 * time.Minute
)

// SubscriptionKeysFunc reports the mints and creator keys to resubscribe after a (re)connect.
type SubscriptionKeysFunc func() (mints []string, creators []string)

// FeedEventHandler receives decoded feed events. It returns false when the event was dropped.
type FeedEventHandler func(ctx context.Context, ev eventmodels.FeedEvent) bool

// PumpPortalFeed is the websocket client for the PumpPortal data API. It reconnects with
// exponential backoff until its context is cancelled.
type PumpPortalFeed struct {
	url        string
	dialer     *websocket.Dialer
	seen       *cache.Cache
	minBackoff time.Duration
	maxBackoff time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewPumpPortalFeed(url string) *PumpPortalFeed {
	return &PumpPortalFeed{
		url:        url,
		dialer:     websocket.DefaultDialer,
		seen:       cache.New(feedDedupWindow, time.Minute),
		minBackoff: feedMinBackoff,
		maxBackoff: feedMaxBackoff,
	}
}

// Subscribe sends req on the live connection. While disconnected it is a no-op: every connect
// resubscribes the keys reported by the tracker.
func (f *PumpPortalFeed) Subscribe(ctx context.Context, req eventmodels.SubscriptionRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conn == nil {
		log.Debugf("PumpPortalFeed: not connected, deferring %s %v", req.Method, req.Keys)
		return nil
	}

	return f.write(f.conn, req)
}

// Connected reports whether a socket is currently open.
func (f *PumpPortalFeed) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.conn != nil
}

// Run reads the feed until ctx is done, passing every decoded record to handle.
func (f *PumpPortalFeed) Run(ctx context.Context, keys SubscriptionKeysFunc, handle FeedEventHandler) error {
	backoff := f.minBackoff

	for {
		if ctx.Err() != nil {
			return nil
		}

		conn, err := f.connect(ctx, keys)
		if err != nil {
			log.Errorf("PumpPortalFeed: failed to connect: %v", err)
		} else {
			backoff = f.minBackoff
			err = f.readLoop(ctx, conn, handle)
			f.disconnect(conn)

			if ctx.Err() != nil {
				log.Info("stopping PumpPortalFeed producer")
				return nil
			}

			log.Warnf("PumpPortalFeed: connection lost: %v", err)
		}

		metrics.FeedReconnects.Inc()

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > f.maxBackoff {
			backoff = f.maxBackoff
		}
	}
}

func (f *PumpPortalFeed) connect(ctx context.Context, keys SubscriptionKeysFunc) (*websocket.Conn, error) {
	log.Infof("connecting to %s", f.url)

	conn, _, err := f.dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("PumpPortalFeed.connect: failed to dial: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// The connection is published before the keys are read so that a creation racing with the
	// connect is either resubscribed here or sent through Subscribe.
	f.conn = conn

	requests := []eventmodels.SubscriptionRequest{
		eventmodels.NewSubscriptionRequest(eventmodels.SubscribeNewToken),
	}

	if keys != nil {
		mints, creators := keys()
		if len(mints) > 0 {
			requests = append(requests, eventmodels.NewSubscriptionRequest(eventmodels.SubscribeTokenTrade, mints...))
		}
		if len(creators) > 0 {
			requests = append(requests, eventmodels.NewSubscriptionRequest(eventmodels.SubscribeAccountTrade, creators...))
		}
	}

	for _, req := range requests {
		if err := f.write(conn, req); err != nil {
			f.conn = nil
			conn.Close()
			return nil, err
		}
	}

	log.Infof("PumpPortalFeed: connected, sent %d subscriptions", len(requests))

	return conn, nil
}

func (f *PumpPortalFeed) disconnect(conn *websocket.Conn) {
	f.mu.Lock()
	if f.conn == conn {
		f.conn = nil
	}
	f.mu.Unlock()

	if err := conn.Close(); err != nil {
		log.Debugf("PumpPortalFeed: error closing connection: %v", err)
	}
}

// write sends req on conn. The caller holds f.mu.
func (f *PumpPortalFeed) write(conn *websocket.Conn, req eventmodels.SubscriptionRequest) error {
	conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("PumpPortalFeed: failed to write %s: %w", req.Method, err)
	}

	return nil
}

func (f *PumpPortalFeed) readLoop(ctx context.Context, conn *websocket.Conn, handle FeedEventHandler) error {
	done := make(chan struct{})
	defer close(done)

	// Unblock ReadMessage when the session is cancelled.
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		conn.SetReadDeadline(time.Now().UTC().Add(feedReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		f.process(ctx, message, handle)
	}
}

func (f *PumpPortalFeed) process(ctx context.Context, message []byte, handle FeedEventHandler) {
	var dto eventmodels.PumpPortalEventDTO
	if err := json.Unmarshal(message, &dto); err != nil {
		log.Debugf("PumpPortalFeed: failed to unmarshal json: %v", err)
		metrics.FeedRecords.WithLabelValues("unknown", "ignored").Inc()
		return
	}

	ev, err := dto.ToFeedEvent(time.Now())
	if err != nil {
		if errors.Is(err, eventmodels.ErrFeedControlMessage) {
			log.Debugf("PumpPortalFeed: %s%s", dto.Message, dto.Errors)
			return
		}

		log.Debugf("PumpPortalFeed: ignoring record: %v", err)
		metrics.FeedRecords.WithLabelValues(string(dto.TxType), "ignored").Inc()
		return
	}

	txType := string(ev.GetTxType())

	if dto.Signature != "" {
		key := fmt.Sprintf("%s:%s:%s", dto.Signature, dto.TxType, dto.Mint)
		if err := f.seen.Add(key, struct{}{}, cache.DefaultExpiration); err != nil {
			metrics.FeedRecords.WithLabelValues(txType, "duplicate").Inc()
			return
		}
	}

	if !handle(ctx, ev) {
		metrics.FeedRecords.WithLabelValues(txType, "dropped").Inc()
		return
	}

	metrics.FeedRecords.WithLabelValues(txType, "dispatched").Inc()
}
