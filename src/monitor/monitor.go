package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ctogod/cleanbot/src/eventconsumers"
	"github.com/ctogod/cleanbot/src/eventmodels"
	"github.com/ctogod/cleanbot/src/eventproducers"
)

type Feed interface {
	Run(ctx context.Context, keys eventproducers.SubscriptionKeysFunc, handle eventproducers.FeedEventHandler) error
}

type TrackerFactory func() *eventconsumers.AssetTracker

// Monitor owns the asset tracker and runs monitoring sessions on demand. A session is the feed
// reader, the dispatcher and the maintenance sweeps; the tracker and its state outlive sessions.
type Monitor struct {
	parent     context.Context
	feed       Feed
	policy     eventmodels.PolicyConfig
	newTracker TrackerFactory

	mu        sync.Mutex
	tracker   *eventconsumers.AssetTracker
	cancel    context.CancelFunc
	wg        *sync.WaitGroup
	sessionID *uuid.UUID
	startedAt *time.Time
}

func NewMonitor(ctx context.Context, feed Feed, policy eventmodels.PolicyConfig, newTracker TrackerFactory) *Monitor {
	return &Monitor{
		parent:     ctx,
		feed:       feed,
		policy:     policy,
		newTracker: newTracker,
	}
}

// Start begins a session. It returns false when one is already running.
func (m *Monitor) Start() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return false
	}

	if m.tracker == nil {
		m.tracker = m.newTracker()
	}

	ctx, cancel := context.WithCancel(m.parent)
	wg := &sync.WaitGroup{}
	tracker := m.tracker

	dispatcher := eventconsumers.NewEventDispatcher(wg, tracker, m.policy.DispatcherShards, m.policy.DispatcherMailboxSize)
	dispatcher.Start(ctx)

	eventconsumers.NewMaintenanceWorker(wg, tracker, m.policy.ValuationSweepInterval, m.policy.ExpirySweepInterval, m.policy.IdleWindow, m.policy.MaxAssetAge).Start(ctx)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := m.feed.Run(ctx, tracker.SubscriptionKeys, dispatcher.Enqueue); err != nil {
			log.Errorf("Monitor: feed stopped: %v", err)
		}
	}()

	id := uuid.New()
	startedAt := time.Now()

	m.cancel = cancel
	m.wg = wg
	m.sessionID = &id
	m.startedAt = &startedAt

	log.WithField("session", id.String()).Info("monitoring session started")

	return true
}

// Stop cancels the running session and waits for it to wind down. Tracked state is kept. It
// returns false when nothing was running.
func (m *Monitor) Stop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel == nil {
		return false
	}

	m.cancel()
	m.wg.Wait()

	log.WithField("session", m.sessionID.String()).Info("monitoring session stopped")

	m.cancel = nil
	m.wg = nil
	m.sessionID = nil
	m.startedAt = nil

	return true
}

func (m *Monitor) currentTracker() *eventconsumers.AssetTracker {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tracker
}

func (m *Monitor) Snapshot() []eventmodels.TrackedAsset {
	tracker := m.currentTracker()
	if tracker == nil {
		return []eventmodels.TrackedAsset{}
	}

	return tracker.Snapshot()
}

func (m *Monitor) Health() eventmodels.MonitorHealth {
	m.mu.Lock()
	defer m.mu.Unlock()

	health := eventmodels.MonitorHealth{
		Running:   m.cancel != nil,
		SessionID: m.sessionID,
		StartedAt: m.startedAt,
	}

	if m.tracker != nil {
		health.TrackedAssets = m.tracker.Len()
	}

	return health
}

func (m *Monitor) Status() string {
	return RenderStatus(m.Health(), m.Snapshot(), time.Now())
}
