package eventconsumers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ctogod/cleanbot/src/eventmodels"
)

type assetEntry struct {
	mu      sync.Mutex
	asset   *eventmodels.TrackedAsset
	removed bool
}

// AssetTracker owns the tracked asset map. Every entry is guarded by its own mutex, which is
// held across the valuation lookup and any notification calls for that asset. The map lock is
// only ever taken after an entry lock, never before waiting on one.
type AssetTracker struct {
	policy     ThresholdPolicy
	valuation  eventmodels.ValuationSource
	sink       eventmodels.NotificationSink
	subscriber eventmodels.SubscriptionRequester
	publisher  eventmodels.EventPublisher
	tracer     trace.Tracer
	now        func() time.Time

	mu     sync.RWMutex
	assets map[string]*assetEntry
}

func NewAssetTracker(policy ThresholdPolicy, valuation eventmodels.ValuationSource, sink eventmodels.NotificationSink, subscriber eventmodels.SubscriptionRequester, publisher eventmodels.EventPublisher) *AssetTracker {
	return &AssetTracker{
		policy:     policy,
		valuation:  valuation,
		sink:       sink,
		subscriber: subscriber,
		publisher:  publisher,
		tracer:     otel.GetTracerProvider().Tracer("eventconsumers:asset_tracker"),
		now:        time.Now,
		assets:     make(map[string]*assetEntry),
	}
}

// HandleEvent routes a decoded feed event to the matching handler.
func (t *AssetTracker) HandleEvent(ctx context.Context, ev eventmodels.FeedEvent) {
	switch e := ev.(type) {
	case eventmodels.CreationEvent:
		t.OnCreationEvent(ctx, e)
	case eventmodels.TradeEvent:
		switch e.Side {
		case eventmodels.TxTypeBuy:
			t.OnBuyEvent(ctx, e)
		case eventmodels.TxTypeSell:
			t.OnSellEvent(ctx, e)
		}
	default:
		log.Debugf("AssetTracker: ignoring event of type %T", ev)
	}
}

// OnCreationEvent starts tracking a new asset and subscribes to its trades and to its creator's
// trades. It returns false when the asset is already tracked.
func (t *AssetTracker) OnCreationEvent(ctx context.Context, ev eventmodels.CreationEvent) bool {
	t.mu.Lock()
	if _, found := t.assets[ev.Mint]; found {
		t.mu.Unlock()
		log.WithField("mint", ev.Mint).Debug("ignoring duplicate creation")
		return false
	}

	createdAt := t.now()
	t.assets[ev.Mint] = &assetEntry{
		asset: eventmodels.NewTrackedAsset(ev.Mint, ev.Creator, ev.Name, ev.Symbol, ev.MarketValue, createdAt),
	}
	t.mu.Unlock()

	t.subscribe(ctx, eventmodels.SubscribeTokenTrade, ev.Mint)
	t.subscribe(ctx, eventmodels.SubscribeAccountTrade, ev.Creator)

	log.WithFields(log.Fields{"mint": ev.Mint, "creator": ev.Creator}).Infof("tracking %s (%s)", ev.Name, ev.Symbol)

	t.publish(eventmodels.AssetTrackedEventName, eventmodels.AssetTrackedEvent{
		Mint:    ev.Mint,
		Creator: ev.Creator,
		At:      createdAt,
	})

	return true
}

// OnSellEvent records a creator exit. Sells by anyone else only refresh the valuation.
func (t *AssetTracker) OnSellEvent(ctx context.Context, ev eventmodels.TradeEvent) {
	entry := t.acquire(ev.Mint)
	if entry == nil {
		return
	}
	defer entry.mu.Unlock()

	asset := entry.asset
	if ev.MarketValue.IsPositive() {
		asset.MarketValue = ev.MarketValue
	}

	if ev.Trader != asset.CreatorKey {
		return
	}

	first := asset.RecordCreatorSell()

	log.WithField("mint", ev.Mint).Infof("creator sell detected (first exit: %v)", first)

	t.publish(eventmodels.CreatorExitedEventName, eventmodels.CreatorExitedEvent{
		Mint:      ev.Mint,
		FirstExit: first,
		At:        t.now(),
	})
}

// OnBuyEvent counts a momentum buy and evaluates the threshold policy before returning.
func (t *AssetTracker) OnBuyEvent(ctx context.Context, ev eventmodels.TradeEvent) {
	entry := t.acquire(ev.Mint)
	if entry == nil {
		return
	}
	defer entry.mu.Unlock()

	asset := entry.asset
	if !asset.RecordBuy(t.now(), ev.MarketValue) {
		return
	}

	log.WithField("mint", ev.Mint).Debugf("buy count: %d", asset.BuyCount)

	t.evaluate(ctx, asset, nil)
}

// SweepValuations re-runs the policy for every tracked asset against a single rate lookup.
func (t *AssetTracker) SweepValuations(ctx context.Context) {
	ctx, span := t.tracer.Start(ctx, "AssetTracker.SweepValuations")
	defer span.End()

	entries := t.entries()
	span.SetAttributes(attribute.Int("assets", len(entries)))

	if len(entries) == 0 {
		return
	}

	rate, err := t.valuation.CurrentRate(ctx)
	if err != nil {
		log.Warnf("AssetTracker.SweepValuations: skipping sweep: %v", err)
		t.publish(eventmodels.ValuationSkippedEventName, eventmodels.ValuationSkippedEvent{
			Err: err,
			At:  t.now(),
		})
		return
	}

	for _, entry := range entries {
		entry.mu.Lock()
		if !entry.removed {
			t.evaluate(ctx, entry.asset, &rate)
		}
		entry.mu.Unlock()
	}
}

// SweepExpiry retracts the live notification of every idle asset and stops tracking it. It
// returns the number of assets removed.
func (t *AssetTracker) SweepExpiry(ctx context.Context, now time.Time, idleWindow time.Duration) int {
	ctx, span := t.tracer.Start(ctx, "AssetTracker.SweepExpiry")
	defer span.End()

	return t.sweep(ctx, eventmodels.RemovalReasonIdle, func(asset *eventmodels.TrackedAsset) bool {
		return asset.IsIdle(now, idleWindow)
	})
}

// SweepStale evicts assets older than maxAge, retracting any live notification first. A maxAge
// of zero disables it.
func (t *AssetTracker) SweepStale(ctx context.Context, now time.Time, maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}

	ctx, span := t.tracer.Start(ctx, "AssetTracker.SweepStale")
	defer span.End()

	return t.sweep(ctx, eventmodels.RemovalReasonStale, func(asset *eventmodels.TrackedAsset) bool {
		return asset.IsStale(now, maxAge)
	})
}

// Snapshot returns copies of every tracked asset ordered by mint.
func (t *AssetTracker) Snapshot() []eventmodels.TrackedAsset {
	entries := t.entries()
	snapshot := make([]eventmodels.TrackedAsset, 0, len(entries))

	for _, entry := range entries {
		entry.mu.Lock()
		if !entry.removed {
			snapshot = append(snapshot, entry.asset.Clone())
		}
		entry.mu.Unlock()
	}

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Mint < snapshot[j].Mint
	})

	return snapshot
}

// SubscriptionKeys returns the tracked mints and their distinct creator keys, both sorted.
func (t *AssetTracker) SubscriptionKeys() (mints []string, creators []string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[string]struct{}, len(t.assets))
	for mint, entry := range t.assets {
		mints = append(mints, mint)

		// CreatorKey never changes after creation, so it is safe to read without the entry lock.
		creator := entry.asset.CreatorKey
		if _, found := seen[creator]; !found {
			seen[creator] = struct{}{}
			creators = append(creators, creator)
		}
	}

	sort.Strings(mints)
	sort.Strings(creators)

	return mints, creators
}

func (t *AssetTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.assets)
}

// acquire returns the locked entry for mint, or nil when the asset is unknown or was removed
// while the caller waited for the lock.
func (t *AssetTracker) acquire(mint string) *assetEntry {
	t.mu.RLock()
	entry, found := t.assets[mint]
	t.mu.RUnlock()

	if !found {
		return nil
	}

	entry.mu.Lock()
	if entry.removed {
		entry.mu.Unlock()
		return nil
	}

	return entry
}

func (t *AssetTracker) entries() []*assetEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries := make([]*assetEntry, 0, len(t.assets))
	for _, entry := range t.assets {
		entries = append(entries, entry)
	}

	return entries
}

// evaluate runs the threshold policy for asset. The caller holds the entry lock. A nil rate is
// looked up from the valuation source.
func (t *AssetTracker) evaluate(ctx context.Context, asset *eventmodels.TrackedAsset, rate *decimal.Decimal) {
	ctx, span := t.tracer.Start(ctx, "AssetTracker.evaluate")
	defer span.End()

	span.SetAttributes(attribute.String("mint", asset.Mint), attribute.Int("buyCount", asset.BuyCount))

	logger := log.WithContext(ctx).WithField("mint", asset.Mint)

	if rate == nil {
		r, err := t.valuation.CurrentRate(ctx)
		if err != nil {
			logger.Warnf("skipping evaluation: %v", err)
			t.publish(eventmodels.ValuationSkippedEventName, eventmodels.ValuationSkippedEvent{
				Mint: asset.Mint,
				Err:  err,
				At:   t.now(),
			})
			return
		}
		rate = &r
	}

	usd := asset.MarketValue.Mul(*rate)

	for _, kind := range t.policy.Due(asset, usd) {
		handle, err := t.sink.Post(ctx, FormatAlertMessage(kind, asset, usd))
		if err != nil {
			logger.Errorf("failed to post %s notification: %v", kind, err)
			continue
		}

		if !asset.RecordNotification(kind, handle) {
			continue
		}

		logger.Infof("posted %s notification %v at %s USDT", kind, handle, FormatMarketCap(usd))

		t.publish(eventmodels.NotificationPostedEventName, eventmodels.NotificationPostedEvent{
			Mint:   asset.Mint,
			Kind:   kind,
			Handle: handle,
			At:     t.now(),
		})
	}
}

func (t *AssetTracker) sweep(ctx context.Context, reason eventmodels.RemovalReason, due func(*eventmodels.TrackedAsset) bool) int {
	removed := 0

	for _, entry := range t.entries() {
		entry.mu.Lock()
		if entry.removed || !due(entry.asset) {
			entry.mu.Unlock()
			continue
		}

		asset := entry.asset
		if asset.ActiveMessage != nil {
			t.retract(ctx, asset)
		}

		creatorShared := t.remove(entry)
		entry.mu.Unlock()

		t.subscribe(ctx, eventmodels.UnsubscribeTokenTrade, asset.Mint)
		if !creatorShared {
			t.subscribe(ctx, eventmodels.UnsubscribeAccountTrade, asset.CreatorKey)
		}

		log.WithField("mint", asset.Mint).Infof("stopped tracking (%s)", reason)

		t.publish(eventmodels.AssetRemovedEventName, eventmodels.AssetRemovedEvent{
			Mint:   asset.Mint,
			Reason: reason,
			At:     t.now(),
		})

		removed++
	}

	return removed
}

// retract deletes the asset's live notification. The caller holds the entry lock. The handle
// is cleared even when the delete fails, since the asset is about to be dropped.
func (t *AssetTracker) retract(ctx context.Context, asset *eventmodels.TrackedAsset) {
	handle := *asset.ActiveMessage

	err := t.sink.Retract(ctx, handle)
	if err != nil {
		log.WithField("mint", asset.Mint).Errorf("failed to retract notification %v: %v", handle, err)
	}

	asset.ActiveMessage = nil

	t.publish(eventmodels.NotificationRetractedEventName, eventmodels.NotificationRetractedEvent{
		Mint:   asset.Mint,
		Handle: handle,
		Err:    err,
		At:     t.now(),
	})
}

// remove drops a locked entry from the map and reports whether another tracked asset shares its
// creator.
func (t *AssetTracker) remove(entry *assetEntry) bool {
	entry.removed = true

	t.mu.Lock()
	defer t.mu.Unlock()

	if current, found := t.assets[entry.asset.Mint]; found && current == entry {
		delete(t.assets, entry.asset.Mint)
	}

	for _, other := range t.assets {
		if other.asset.CreatorKey == entry.asset.CreatorKey {
			return true
		}
	}

	return false
}

func (t *AssetTracker) subscribe(ctx context.Context, method eventmodels.SubscriptionMethod, key string) {
	if t.subscriber == nil {
		return
	}

	if err := t.subscriber.Subscribe(ctx, eventmodels.NewSubscriptionRequest(method, key)); err != nil {
		log.WithField("key", key).Warnf("failed to send %s: %v", method, err)
	}
}

func (t *AssetTracker) publish(topic eventmodels.EventName, event interface{}) {
	if t.publisher == nil {
		return
	}

	t.publisher.Publish(topic, event)
}
