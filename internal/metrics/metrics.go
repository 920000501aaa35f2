// Package metrics provides application-level metrics collection.
// This is a lightweight metrics foundation using atomic counters.
// For production observability, consider integrating with Prometheus or similar.
package metrics

import (
	"sync/atomic"
	"time"
)

// lifetimeBuckets are the upper bounds of the lease lifetime histogram.
// The final bucket is unbounded.
var lifetimeBuckets = []time.Duration{
	10 * time.Millisecond,
	50 * time.Millisecond,
	250 * time.Millisecond,
	time.Second,
	5 * time.Second,
}

// bucketCount includes the overflow bucket.
const bucketCount = 6

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// Lease lifecycle metrics
	explicitReleases atomic.Int64
	autoReleases     atomic.Int64
	expiredLeases    atomic.Int64
	poolExhaustions  atomic.Int64

	// Refresh metrics
	refreshSuccesses atomic.Int64
	refreshFailures  atomic.Int64
	degradedEvents   atomic.Int64

	// RPC metrics
	rpcCallsTotal   atomic.Int64
	rpcErrorsTotal  atomic.Int64
	rpcLatencyNanos atomic.Int64

	// Lease lifetime histogram
	lifetimeCounts   [bucketCount]atomic.Int64
	lifetimeSumNanos atomic.Int64
}

// Global is the global metrics instance.
// Use this for recording metrics throughout the application.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordExplicitRelease records a lease returned by an explicit Release call.
func (m *Metrics) RecordExplicitRelease(lifetime time.Duration) {
	m.explicitReleases.Add(1)
	m.recordLifetime(lifetime)
}

// RecordAutoRelease records a lease returned by its scope-guard teardown.
// A high auto-release count relative to explicit releases points at
// leak-prone call sites.
func (m *Metrics) RecordAutoRelease(lifetime time.Duration) {
	m.autoReleases.Add(1)
	m.recordLifetime(lifetime)
}

// RecordExpiredLease records a lease forcibly reclaimed by the watchdog.
func (m *Metrics) RecordExpiredLease(lifetime time.Duration) {
	m.expiredLeases.Add(1)
	m.recordLifetime(lifetime)
}

// RecordPoolExhaustion records an acquire attempt that found no free slot.
func (m *Metrics) RecordPoolExhaustion() {
	m.poolExhaustions.Add(1)
}

// RecordRefresh records the outcome of a single slot refresh.
func (m *Metrics) RecordRefresh(err error) {
	if err != nil {
		m.refreshFailures.Add(1)
		return
	}
	m.refreshSuccesses.Add(1)
}

// RecordDegraded records a refresh batch in which every fetch failed.
func (m *Metrics) RecordDegraded() {
	m.degradedEvents.Add(1)
}

// RecordRPCCall records an RPC call with its duration and success status.
func (m *Metrics) RecordRPCCall(duration time.Duration, err error) {
	m.rpcCallsTotal.Add(1)
	m.rpcLatencyNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.rpcErrorsTotal.Add(1)
	}
}

// recordLifetime adds one observation to the lease lifetime histogram.
func (m *Metrics) recordLifetime(lifetime time.Duration) {
	m.lifetimeSumNanos.Add(lifetime.Nanoseconds())
	for i, bound := range lifetimeBuckets {
		if lifetime <= bound {
			m.lifetimeCounts[i].Add(1)
			return
		}
	}
	m.lifetimeCounts[bucketCount-1].Add(1)
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	ExplicitReleases int64
	AutoReleases     int64
	ExpiredLeases    int64
	PoolExhaustions  int64
	RefreshSuccesses int64
	RefreshFailures  int64
	DegradedEvents   int64
	RPCCallsTotal    int64
	RPCErrorsTotal   int64
	RPCLatencyNanos  int64
	LifetimeCounts   [bucketCount]int64
	LifetimeSumNanos int64
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		ExplicitReleases: m.explicitReleases.Load(),
		AutoReleases:     m.autoReleases.Load(),
		ExpiredLeases:    m.expiredLeases.Load(),
		PoolExhaustions:  m.poolExhaustions.Load(),
		RefreshSuccesses: m.refreshSuccesses.Load(),
		RefreshFailures:  m.refreshFailures.Load(),
		DegradedEvents:   m.degradedEvents.Load(),
		RPCCallsTotal:    m.rpcCallsTotal.Load(),
		RPCErrorsTotal:   m.rpcErrorsTotal.Load(),
		RPCLatencyNanos:  m.rpcLatencyNanos.Load(),
		LifetimeSumNanos: m.lifetimeSumNanos.Load(),
	}
	for i := range s.LifetimeCounts {
		s.LifetimeCounts[i] = m.lifetimeCounts[i].Load()
	}
	return s
}

// Releases returns the total number of releases across all paths.
func (s Snapshot) Releases() int64 {
	return s.ExplicitReleases + s.AutoReleases + s.ExpiredLeases
}

// LifetimeAvgMs returns the average lease lifetime in milliseconds.
// Returns 0 if no lease has been released.
func (s Snapshot) LifetimeAvgMs() float64 {
	total := s.Releases()
	if total == 0 {
		return 0
	}
	return float64(s.LifetimeSumNanos) / float64(total) / 1e6
}

// RPCLatencyAvgMs returns the average RPC latency in milliseconds.
// Returns 0 if no calls have been made.
func (m *Metrics) RPCLatencyAvgMs() float64 {
	calls := m.rpcCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	nanos := m.rpcLatencyNanos.Load()
	return float64(nanos) / float64(calls) / 1e6
}

// BucketBounds returns the histogram bucket upper bounds.
// The returned slice has one fewer entry than the bucket count; the
// last bucket is unbounded.
func BucketBounds() []time.Duration {
	bounds := make([]time.Duration, len(lifetimeBuckets))
	copy(bounds, lifetimeBuckets)
	return bounds
}

// Reset resets all metrics to zero.
// Useful for testing.
func (m *Metrics) Reset() {
	m.explicitReleases.Store(0)
	m.autoReleases.Store(0)
	m.expiredLeases.Store(0)
	m.poolExhaustions.Store(0)
	m.refreshSuccesses.Store(0)
	m.refreshFailures.Store(0)
	m.degradedEvents.Store(0)
	m.rpcCallsTotal.Store(0)
	m.rpcErrorsTotal.Store(0)
	m.rpcLatencyNanos.Store(0)
	m.lifetimeSumNanos.Store(0)
	for i := range m.lifetimeCounts {
		m.lifetimeCounts[i].Store(0)
	}
}
