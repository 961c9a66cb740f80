package eventconsumers

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ctogod/cleanbot/src/eventmodels"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeSink struct {
	mu         sync.Mutex
	next       int64
	posts      []string
	retracted  []eventmodels.MessageHandle
	postErr    error
	retractErr error
}

func (s *fakeSink) Post(ctx context.Context, text string) (eventmodels.MessageHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.postErr != nil {
		return 0, s.postErr
	}

	s.next++
	s.posts = append(s.posts, text)
	return eventmodels.MessageHandle(s.next), nil
}

func (s *fakeSink) Retract(ctx context.Context, handle eventmodels.MessageHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.retracted = append(s.retracted, handle)
	return s.retractErr
}

func (s *fakeSink) Posts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.posts...)
}

func (s *fakeSink) Retracted() []eventmodels.MessageHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]eventmodels.MessageHandle(nil), s.retracted...)
}

func (s *fakeSink) SetPostErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postErr = err
}

type fakeValuation struct {
	mu    sync.Mutex
	rate  decimal.Decimal
	err   error
	calls int
}

func (v *fakeValuation) CurrentRate(ctx context.Context) (decimal.Decimal, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.calls++
	return v.rate, v.err
}

func (v *fakeValuation) Set(rate decimal.Decimal, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rate = rate
	v.err = err
}

func (v *fakeValuation) Calls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

type fakeSubscriber struct {
	mu       sync.Mutex
	requests []eventmodels.SubscriptionRequest
}

func (s *fakeSubscriber) Subscribe(ctx context.Context, req eventmodels.SubscriptionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return nil
}

func (s *fakeSubscriber) Requests() []eventmodels.SubscriptionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]eventmodels.SubscriptionRequest(nil), s.requests...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events map[eventmodels.EventName][]interface{}
}

func (p *fakePublisher) Publish(topic eventmodels.EventName, event interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.events == nil {
		p.events = make(map[eventmodels.EventName][]interface{})
	}
	p.events[topic] = append(p.events[topic], event)
}

func (p *fakePublisher) Events(topic eventmodels.EventName) []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]interface{}(nil), p.events[topic]...)
}

type trackerFixture struct {
	tracker    *AssetTracker
	clock      *fakeClock
	sink       *fakeSink
	valuation  *fakeValuation
	subscriber *fakeSubscriber
	publisher  *fakePublisher
}

func newTrackerFixture() *trackerFixture {
	f := &trackerFixture{
		clock:      newFakeClock(),
		sink:       &fakeSink{},
		valuation:  &fakeValuation{rate: decimal.NewFromInt(150)},
		subscriber: &fakeSubscriber{},
		publisher:  &fakePublisher{},
	}

	policy := NewThresholdPolicy(eventmodels.DefaultPolicyConfig())
	f.tracker = NewAssetTracker(policy, f.valuation, f.sink, f.subscriber, f.publisher)
	f.tracker.now = f.clock.Now

	return f
}

func (f *trackerFixture) create(mint, creator string) bool {
	return f.tracker.OnCreationEvent(context.Background(), eventmodels.CreationEvent{
		Mint:        mint,
		Creator:     creator,
		Name:        "Cat Coin",
		Symbol:      "CAT",
		MarketValue: decimal.NewFromInt(30),
	})
}

func (f *trackerFixture) sell(mint, trader string) {
	f.tracker.OnSellEvent(context.Background(), eventmodels.TradeEvent{
		Mint:   mint,
		Trader: trader,
		Side:   eventmodels.TxTypeSell,
	})
}

func (f *trackerFixture) buy(mint string, n int) {
	for i := 0; i < n; i++ {
		f.tracker.OnBuyEvent(context.Background(), eventmodels.TradeEvent{
			Mint:        mint,
			Trader:      "buyer",
			Side:        eventmodels.TxTypeBuy,
			MarketValue: decimal.NewFromInt(30),
		})
	}
}

func (f *trackerFixture) asset(mint string) (eventmodels.TrackedAsset, bool) {
	for _, a := range f.tracker.Snapshot() {
		if a.Mint == mint {
			return a, true
		}
	}

	return eventmodels.TrackedAsset{}, false
}
