// Package nonce implements the durable nonce account pool, the lease
// protocol that grants exclusive use of one pooled account, the
// manager that orchestrates acquisition and refresh, and the watchdog
// that reclaims abandoned leases.
package nonce

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// slotState tracks whether a slot is in the rotation or held by a lease.
type slotState uint8

const (
	slotFree slotState = iota
	slotLeased
)

// slot is one pooled nonce account. All fields are guarded by the
// pool mutex; leases operate on snapshots taken at issue time.
type slot struct {
	addr        common.Address
	value       common.Hash // last-known on-chain nonce value
	refreshedAt time.Time
	stale       bool
	state       slotState

	// generation increments on every lease issue. A release must
	// present the matching generation, so a stale handle can never
	// free a slot now owned by someone else.
	generation uint64
}

// Pool is a fixed-size rotation of nonce account slots. Slots are
// taken from the front and returned to the back, so freshly-returned
// slots get the most idle time before reuse. Slots are never created
// or destroyed after construction, only cycled between free and leased.
type Pool struct {
	mu    sync.Mutex
	slots []*slot
	free  []*slot // rotation order; index 0 is next to lease
}

// NewPool creates a pool with one slot per account address.
// All slots start stale: no on-chain value has been fetched yet.
func NewPool(accounts []common.Address) *Pool {
	p := &Pool{
		slots: make([]*slot, 0, len(accounts)),
		free:  make([]*slot, 0, len(accounts)),
	}
	for _, addr := range accounts {
		s := &slot{addr: addr, stale: true}
		p.slots = append(p.slots, s)
		p.free = append(p.free, s)
	}
	return p
}

// Size returns the fixed slot count.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots)
}

// FreeCount returns the number of slots currently available for lease.
func (p *Pool) FreeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// LeasedCount returns the number of slots currently held by leases.
func (p *Pool) LeasedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots) - len(p.free)
}

// grant is the snapshot handed to a new lease.
type grant struct {
	s          *slot
	generation uint64
	addr       common.Address
	value      common.Hash
	stale      bool
}

// takeFree removes and returns the front free slot, marking it leased.
// Returns false if the pool is exhausted.
func (p *Pool) takeFree() (grant, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free) == 0 {
		return grant{}, false
	}

	s := p.free[0]
	p.free = p.free[1:]
	s.state = slotLeased
	s.generation++

	return grant{
		s:          s,
		generation: s.generation,
		addr:       s.addr,
		value:      s.value,
		stale:      s.stale,
	}, true
}

// returnSlot flips a leased slot back to free and pushes it to the
// back of the rotation. The caller must present the generation its
// lease was issued with; a mismatch (the watchdog already reclaimed
// the slot, possibly re-leased it) makes this a no-op. Reports whether
// the slot was actually returned.
func (p *Pool) returnSlot(s *slot, generation uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s.state != slotLeased || s.generation != generation {
		return false
	}

	s.state = slotFree
	p.free = append(p.free, s)
	return true
}

// reclaim force-returns a slot held by an expired lease. The slot is
// marked stale: the abandoned holder may have advanced the nonce
// on-chain, so the cached value cannot be trusted until refreshed.
// Reports whether the slot was still held under that generation.
func (p *Pool) reclaim(s *slot, generation uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s.state != slotLeased || s.generation != generation {
		return false
	}

	s.state = slotFree
	s.stale = true
	p.free = append(p.free, s)
	return true
}

// MarkStale flags the slot for the given account for priority refresh
// without removing it from rotation.
func (p *Pool) MarkStale(account common.Address) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range p.slots {
		if s.addr == account {
			s.stale = true
			return
		}
	}
}

// leaseCurrent reports whether the lease identified by (slot, generation)
// still holds its slot. Returns false once the watchdog has reclaimed
// it or the slot has been re-leased.
func (p *Pool) leaseCurrent(s *slot, generation uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return s.state == slotLeased && s.generation == generation
}

// candidate is one slot due for refresh, snapshotted under the pool lock.
type candidate struct {
	s    *slot
	addr common.Address
}

// refreshCandidates returns the free slots that are stale or older
// than the freshness threshold. Leased slots are skipped: their nonce
// is about to advance on-chain, and the holder already snapshotted the
// value it needed.
func (p *Pool) refreshCandidates(freshness time.Duration, now time.Time) []candidate {
	p.mu.Lock()
	defer p.mu.Unlock()

	var due []candidate
	for _, s := range p.slots {
		if s.state != slotFree {
			continue
		}
		if s.stale || s.refreshedAt.IsZero() || now.Sub(s.refreshedAt) > freshness {
			due = append(due, candidate{s: s, addr: s.addr})
		}
	}
	return due
}

// setValue records a freshly fetched nonce value and clears staleness.
func (p *Pool) setValue(s *slot, value common.Hash, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s.value = value
	s.refreshedAt = now
	s.stale = false
}

// staleCount returns the number of slots currently flagged stale.
func (p *Pool) staleCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, s := range p.slots {
		if s.stale {
			n++
		}
	}
	return n
}
