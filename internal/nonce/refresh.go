package nonce

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quartzlabs/durapool/internal/chain"
	durerr "github.com/quartzlabs/durapool/pkg/errors"
)

// Run drives the background refresh loop until the context is
// canceled. One refresh pass runs immediately so the pool does not
// serve zero-value nonces for a full interval after startup.
func (m *Manager) Run(ctx context.Context) {
	if err := m.RefreshAll(ctx); err != nil {
		m.log.Error("initial refresh: %v", err)
	}

	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.RefreshAll(ctx); err != nil {
				m.log.Error("refresh cycle: %v", err)
			}
		}
	}
}

// RefreshAll re-fetches the nonce value for every free slot that is
// stale or older than the freshness threshold. Fetches fan out under
// a counting permit, so no more than the configured number are in
// flight at once, and the pool lock is never held across a fetch.
//
// Per-slot failures leave the slot stale for the next cycle and never
// abort the batch. Only when every fetch in the batch fails does this
// surface a degraded-pool error.
func (m *Manager) RefreshAll(ctx context.Context) error {
	cands := m.pool.refreshCandidates(m.freshness, time.Now())
	if len(cands) == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		failures atomic.Int64
	)

	var acquireErr error
	for _, c := range cands {
		if err := m.sem.Acquire(ctx, 1); err != nil {
			acquireErr = err
			break
		}

		wg.Add(1)
		go func(c candidate) {
			defer wg.Done()
			defer m.sem.Release(1)

			if err := m.refreshSlot(ctx, c); err != nil {
				failures.Add(1)
			}
		}(c)
	}

	wg.Wait()

	if acquireErr != nil {
		return acquireErr
	}
	if n := failures.Load(); n == int64(len(cands)) {
		m.met.RecordDegraded()
		m.log.Error("nonce pool degraded: all %d refreshes failed", len(cands))
		return durerr.ErrPoolDegraded
	}
	return nil
}

// refreshSlot fetches one slot's nonce value and updates the pool.
// On failure the slot keeps its prior value and stays stale: favoring
// a re-fetch over transacting with a possibly-invalid value.
func (m *Manager) refreshSlot(ctx context.Context, c candidate) error {
	value, err := chain.Retry(ctx, func() (common.Hash, error) {
		return m.reader.NonceValue(ctx, c.addr)
	})
	m.met.RecordRefresh(err)

	if err != nil {
		m.log.Error("refresh %s: %v", c.addr.Hex(), err)
		return durerr.Wrap(durerr.ErrRefreshFailed, err)
	}

	m.pool.setValue(c.s, value, time.Now())
	m.log.Debug("refreshed %s", c.addr.Hex())
	return nil
}
