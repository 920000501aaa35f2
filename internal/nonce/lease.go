package nonce

import (
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"

	durerr "github.com/quartzlabs/durapool/pkg/errors"
)

// releaseKind distinguishes the two caller-driven release paths.
type releaseKind uint8

const (
	releaseExplicit releaseKind = iota
	releaseAuto
)

// Lease grants exclusive, time-bounded use of one pooled nonce
// account. It is an immutable snapshot of the slot at issue time.
//
// Every acquisition call site must defer Close immediately:
//
//	lease, err := mgr.Acquire()
//	if err != nil { ... }
//	defer lease.Close()
//
// Close after an explicit Release is a no-op, so the deferred guard is
// always safe. If the owner never calls Release (crash, cancellation,
// early return), Close returns the slot and counts an auto release so
// leak-prone call sites show up in metrics.
//
// Both paths are synchronous and touch only in-memory state. Cleanup
// that needs the network (an on-chain close of the account, say) must
// be handed to a background task, never done here.
type Lease struct {
	id       uint64
	pool     *Pool
	slot     *slot
	gen      uint64
	account  common.Address
	value    common.Hash
	stale    bool
	issuedAt time.Time

	released atomic.Bool
	expired  atomic.Bool // set by the watchdog on forced reclamation

	// onRelease is the manager hook: record removal plus metrics.
	// Called at most once, and only if this lease actually returned
	// its slot.
	onRelease func(l *Lease, kind releaseKind)
	// onFinish is called exactly once whatever path ends the lease,
	// so the manager can drop its watchdog record.
	onFinish func(l *Lease)
}

// ID returns the monotonically increasing lease id.
func (l *Lease) ID() uint64 {
	return l.id
}

// Account returns the leased nonce account address.
func (l *Lease) Account() common.Address {
	return l.account
}

// Value returns the nonce value snapshotted when the lease was issued.
func (l *Lease) Value() common.Hash {
	return l.value
}

// Stale reports whether the snapshotted nonce value was flagged stale
// at issue time. Live builds on a stale lease risk a replay-protection
// mismatch; callers should prefer refreshing first.
func (l *Lease) Stale() bool {
	return l.stale
}

// IssuedAt returns the lease issue time.
func (l *Lease) IssuedAt() time.Time {
	return l.issuedAt
}

// Age returns how long the lease has been outstanding.
func (l *Lease) Age() time.Duration {
	return time.Since(l.issuedAt)
}

// Err reports why the lease is no longer usable, or nil while it is
// live. A reclaimed lease fails explicitly rather than silently
// operating against a slot that may belong to someone else.
func (l *Lease) Err() error {
	if l.expired.Load() {
		return durerr.ErrLeaseExpired
	}
	if l.released.Load() {
		return durerr.ErrLeaseReleased
	}
	if !l.pool.leaseCurrent(l.slot, l.gen) {
		return durerr.ErrLeaseExpired
	}
	return nil
}

// Release returns the slot to the pool. Safe to call more than once;
// only the first call has any effect.
func (l *Lease) Release() {
	l.finish(releaseExplicit)
}

// Close implements the deferred scope-guard teardown. On a lease that
// was never explicitly released it behaves like Release but counts as
// an auto release. Always returns nil; the signature satisfies
// io.Closer so leases work with existing guard helpers.
func (l *Lease) Close() error {
	l.finish(releaseAuto)
	return nil
}

// finish runs the common release path. Idempotent by construction:
// the released flag is flipped exactly once, and the pool's
// generation check makes the slot return itself a no-op when the
// watchdog got there first.
func (l *Lease) finish(kind releaseKind) {
	if !l.released.CompareAndSwap(false, true) {
		return
	}

	returned := l.pool.returnSlot(l.slot, l.gen)

	if l.onFinish != nil {
		l.onFinish(l)
	}
	if returned && l.onRelease != nil {
		l.onRelease(l, kind)
	}
}
