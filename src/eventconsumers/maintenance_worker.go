package eventconsumers

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type Sweeper interface {
	SweepValuations(ctx context.Context)
	SweepExpiry(ctx context.Context, now time.Time, idleWindow time.Duration) int
	SweepStale(ctx context.Context, now time.Time, maxAge time.Duration) int
}

// MaintenanceWorker drives the valuation and expiry sweeps on independent tickers.
type MaintenanceWorker struct {
	wg                *sync.WaitGroup
	sweeper           Sweeper
	valuationInterval time.Duration
	expiryInterval    time.Duration
	idleWindow        time.Duration
	maxAssetAge       time.Duration
}

func (w *MaintenanceWorker) runExpiry(ctx context.Context, now time.Time) {
	if removed := w.sweeper.SweepExpiry(ctx, now, w.idleWindow); removed > 0 {
		log.Infof("MaintenanceWorker: expired %d idle assets", removed)
	}

	if removed := w.sweeper.SweepStale(ctx, now, w.maxAssetAge); removed > 0 {
		log.Infof("MaintenanceWorker: evicted %d stale assets", removed)
	}
}

func (w *MaintenanceWorker) Start(ctx context.Context) {
	w.wg.Add(2)

	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.valuationInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("stopping MaintenanceWorker valuation sweep")
				return
			case <-ticker.C:
				w.sweeper.SweepValuations(ctx)
			}
		}
	}()

	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.expiryInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("stopping MaintenanceWorker expiry sweep")
				return
			case now := <-ticker.C:
				w.runExpiry(ctx, now)
			}
		}
	}()
}

func NewMaintenanceWorker(wg *sync.WaitGroup, sweeper Sweeper, valuationInterval, expiryInterval, idleWindow, maxAssetAge time.Duration) *MaintenanceWorker {
	return &MaintenanceWorker{
		wg:                wg,
		sweeper:           sweeper,
		valuationInterval: valuationInterval,
		expiryInterval:    expiryInterval,
		idleWindow:        idleWindow,
		maxAssetAge:       maxAssetAge,
	}
}
