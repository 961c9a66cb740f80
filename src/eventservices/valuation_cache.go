package eventservices

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/ctogod/cleanbot/src/eventmodels"
)

const rateCacheKey = "rate"

// CachedValuationSource keeps the last successful rate for ttl. Failures are never cached, so
// the next caller retries the upstream source. A ttl of zero disables caching.
type CachedValuationSource struct {
	source eventmodels.ValuationSource
	ttl    time.Duration
	cache  *cache.Cache
	mu     sync.Mutex
}

func NewCachedValuationSource(source eventmodels.ValuationSource, ttl time.Duration) *CachedValuationSource {
	return &CachedValuationSource{
		source: source,
		ttl:    ttl,
		cache:  cache.New(ttl, 2*ttl),
	}
}

func (s *CachedValuationSource) CurrentRate(ctx context.Context) (decimal.Decimal, error) {
	if s.ttl <= 0 {
		return s.source.CurrentRate(ctx)
	}

	if rate, found := s.cache.Get(rateCacheKey); found {
		return rate.(decimal.Decimal), nil
	}

	// One upstream lookup at a time; callers queued behind it read the fresh entry.
	s.mu.Lock()
	defer s.mu.Unlock()

	if rate, found := s.cache.Get(rateCacheKey); found {
		return rate.(decimal.Decimal), nil
	}

	rate, err := s.source.CurrentRate(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	s.cache.SetDefault(rateCacheKey, rate)

	return rate, nil
}
