package nonce

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quartzlabs/durapool/internal/chain"
	"github.com/quartzlabs/durapool/internal/config"
	"github.com/quartzlabs/durapool/internal/metrics"
	durerr "github.com/quartzlabs/durapool/pkg/errors"
)

// Default manager settings, used when Options leaves them zero.
const (
	DefaultLeaseTTL           = 30 * time.Second
	DefaultFreshness          = time.Minute
	DefaultRefreshInterval    = 30 * time.Second
	DefaultRefreshConcurrency = 10
)

// Options configures a Manager.
type Options struct {
	LeaseTTL           time.Duration
	Freshness          time.Duration
	RefreshInterval    time.Duration
	RefreshConcurrency int64
	Logger             *config.Logger
	Metrics            *metrics.Metrics
}

// record tracks one outstanding lease for the watchdog.
type record struct {
	lease    *Lease
	deadline time.Time
}

// Manager owns the nonce account pool. It is the only component that
// mutates slot state: leases, the refresh fan-out, and the watchdog
// all go through its API.
type Manager struct {
	pool   *Pool
	reader chain.NonceReader
	log    *config.Logger
	met    *metrics.Metrics

	leaseTTL        time.Duration
	freshness       time.Duration
	refreshInterval time.Duration
	sem             *semaphore.Weighted

	leaseSeq atomic.Uint64

	mu      sync.Mutex
	records map[uint64]*record
}

// NewManager creates a manager owning the given pool.
func NewManager(pool *Pool, reader chain.NonceReader, opts Options) *Manager {
	if opts.LeaseTTL <= 0 {
		opts.LeaseTTL = DefaultLeaseTTL
	}
	if opts.Freshness <= 0 {
		opts.Freshness = DefaultFreshness
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.RefreshConcurrency <= 0 {
		opts.RefreshConcurrency = DefaultRefreshConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = config.NullLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Global
	}

	return &Manager{
		pool:            pool,
		reader:          reader,
		log:             opts.Logger,
		met:             opts.Metrics,
		leaseTTL:        opts.LeaseTTL,
		freshness:       opts.Freshness,
		refreshInterval: opts.RefreshInterval,
		sem:             semaphore.NewWeighted(opts.RefreshConcurrency),
		records:         make(map[uint64]*record),
	}
}

// Acquire leases one free nonce account. It never blocks waiting for a
// slot: when the pool is exhausted it fails fast and the caller
// decides whether to retry with backoff or drop the opportunity.
func (m *Manager) Acquire() (*Lease, error) {
	g, ok := m.pool.takeFree()
	if !ok {
		m.met.RecordPoolExhaustion()
		m.log.Error("acquire failed: pool exhausted (%d slots leased)", m.pool.LeasedCount())
		return nil, durerr.ErrPoolExhausted
	}

	now := time.Now()
	l := &Lease{
		id:        m.leaseSeq.Add(1),
		pool:      m.pool,
		slot:      g.s,
		gen:       g.generation,
		account:   g.addr,
		value:     g.value,
		stale:     g.stale,
		issuedAt:  now,
		onRelease: m.onRelease,
		onFinish:  m.onFinish,
	}

	m.mu.Lock()
	m.records[l.id] = &record{lease: l, deadline: now.Add(m.leaseTTL)}
	m.mu.Unlock()

	m.log.Debug("lease %d issued for %s", l.id, g.addr.Hex())
	return l, nil
}

// MarkStale flags the account's slot for priority refresh. Callers use
// this after submitting a transaction that advanced the nonce.
func (m *Manager) MarkStale(account common.Address) {
	m.pool.MarkStale(account)
}

// Outstanding returns the number of leases currently tracked.
func (m *Manager) Outstanding() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Pool returns the managed pool, for observation only.
func (m *Manager) Pool() *Pool {
	return m.pool
}

// onFinish drops the watchdog record for a lease whatever ended it.
func (m *Manager) onFinish(l *Lease) {
	m.mu.Lock()
	delete(m.records, l.id)
	m.mu.Unlock()
}

// onRelease records metrics for a lease that actually returned its
// slot. Runs synchronously inside the release path, so it must stay
// in-memory only.
func (m *Manager) onRelease(l *Lease, kind releaseKind) {
	lifetime := time.Since(l.issuedAt)
	switch kind {
	case releaseExplicit:
		m.met.RecordExplicitRelease(lifetime)
		m.log.Debug("lease %d released after %s", l.id, lifetime)
	case releaseAuto:
		m.met.RecordAutoRelease(lifetime)
		m.log.Debug("lease %d auto-released after %s", l.id, lifetime)
	}
}

// reclaimExpired force-reclaims every lease past its deadline and
// returns the number reclaimed. Called by the watchdog; the holder's
// in-flight work is never interrupted, it just loses the slot.
func (m *Manager) reclaimExpired(now time.Time) int {
	m.mu.Lock()
	var due []*record
	for _, r := range m.records {
		if now.After(r.deadline) {
			due = append(due, r)
		}
	}
	for _, r := range due {
		delete(m.records, r.lease.id)
	}
	m.mu.Unlock()

	reclaimed := 0
	for _, r := range due {
		l := r.lease
		if !m.pool.reclaim(l.slot, l.gen) {
			// Holder released between the scan and now; nothing to do.
			continue
		}
		l.expired.Store(true)
		m.met.RecordExpiredLease(now.Sub(l.issuedAt))
		m.log.Error("lease %d for %s expired after %s; slot reclaimed",
			l.id, l.account.Hex(), now.Sub(l.issuedAt))
		reclaimed++
	}
	return reclaimed
}
