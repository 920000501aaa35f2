package nonce

import (
	"context"
	"time"

	"github.com/quartzlabs/durapool/internal/config"
)

// DefaultWatchdogInterval is the sweep period used when none is given.
const DefaultWatchdogInterval = 5 * time.Second

// Watchdog periodically reclaims leases held past their deadline, so a
// stalled workflow can never starve the pool. It observes manager
// state only; all slot mutation happens through the manager.
type Watchdog struct {
	mgr      *Manager
	interval time.Duration
	log      *config.Logger
}

// NewWatchdog creates a watchdog over the given manager.
func NewWatchdog(mgr *Manager, interval time.Duration, log *config.Logger) *Watchdog {
	if interval <= 0 {
		interval = DefaultWatchdogInterval
	}
	if log == nil {
		log = config.NullLogger()
	}
	return &Watchdog{mgr: mgr, interval: interval, log: log}
}

// Run sweeps on a fixed interval until the context is canceled.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(time.Now())
		}
	}
}

// sweep reclaims all expired leases and returns the count.
func (w *Watchdog) sweep(now time.Time) int {
	n := w.mgr.reclaimExpired(now)
	if n > 0 {
		w.log.Error("watchdog reclaimed %d expired lease(s)", n)
	}
	return n
}
