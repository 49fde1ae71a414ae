package worker

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/oprisk/pkg/utils/logging"
)

// Refresher is the part of the store kept fresh by RefreshWorker
type Refresher interface {
	RefreshValueHelp(ctx context.Context) error
	RefreshOpportunities(ctx context.Context) error
}

// RefreshWorker periodically reloads the value help lists and the
// opportunity list so views served from the store stay current.
//
// Architecture assumptions:
// - One worker per store
// - Refresh failures are logged, never shown as a store error and never stop the loop
type RefreshWorker struct {
	store    Refresher
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewRefreshWorker creates a new worker refreshing store every interval
func NewRefreshWorker(store Refresher, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		store:    store,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop
// - Initial refresh and periodic refresh both run in a background goroutine
// - Does not block server startup
func (w *RefreshWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("refresh interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Refresh worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion. Calling Stop
// more than once is allowed.
func (w *RefreshWorker) Stop() {
	w.stopOnce.Do(func() {
		logging.Default().Info("Refresh worker stopping")
		close(w.stopCh)
	})
	<-w.doneCh
	logging.Default().Info("Refresh worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *RefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.refresh(ctx)

		case <-w.stopCh:
			logging.Default().Info("Refresh worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Refresh worker context cancelled")
			return
		}
	}
}

// refresh performs a single refresh cycle
func (w *RefreshWorker) refresh(ctx context.Context) {
	startTime := time.Now()
	logging.Default().Debug("Starting refresh")

	if err := w.store.RefreshValueHelp(ctx); err != nil {
		logging.Default().Warn("Failed to refresh value help", "error", err.Error())
	}
	if err := w.store.RefreshOpportunities(ctx); err != nil {
		logging.Default().Warn("Failed to refresh opportunities", "error", err.Error())
	}

	logging.Default().Debug("Refresh completed",
		"duration", time.Since(startTime).String())
}
