package nonce

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAccounts returns n distinct account addresses.
func testAccounts(n int) []common.Address {
	addrs := make([]common.Address, n)
	for i := range addrs {
		addrs[i] = common.BigToAddress(big.NewInt(int64(i + 1)))
	}
	return addrs
}

// TestNewPool verifies construction state.
func TestNewPool(t *testing.T) {
	t.Parallel()

	p := NewPool(testAccounts(4))
	assert.Equal(t, 4, p.Size())
	assert.Equal(t, 4, p.FreeCount())
	assert.Zero(t, p.LeasedCount())
	// Slots start stale: nothing has been fetched yet
	assert.Equal(t, 4, p.staleCount())
}

// TestTakeFreeRotation verifies front-take / back-return ordering.
func TestTakeFreeRotation(t *testing.T) {
	t.Parallel()

	accounts := testAccounts(3)
	p := NewPool(accounts)

	g1, ok := p.takeFree()
	require.True(t, ok)
	assert.Equal(t, accounts[0], g1.addr)

	g2, ok := p.takeFree()
	require.True(t, ok)
	assert.Equal(t, accounts[1], g2.addr)

	// Return the first slot; it goes to the back of the rotation
	require.True(t, p.returnSlot(g1.s, g1.generation))

	g3, ok := p.takeFree()
	require.True(t, ok)
	assert.Equal(t, accounts[2], g3.addr)

	// Only the just-returned slot remains
	g4, ok := p.takeFree()
	require.True(t, ok)
	assert.Equal(t, accounts[0], g4.addr)

	_, ok = p.takeFree()
	assert.False(t, ok)
}

// TestReturnSlotGenerationGuard verifies a stale handle cannot free a
// slot that has been re-leased.
func TestReturnSlotGenerationGuard(t *testing.T) {
	t.Parallel()

	p := NewPool(testAccounts(1))

	g1, ok := p.takeFree()
	require.True(t, ok)

	// Forced reclaim and re-lease
	require.True(t, p.reclaim(g1.s, g1.generation))
	g2, ok := p.takeFree()
	require.True(t, ok)
	require.Equal(t, g1.s, g2.s)

	// The old generation must not free the slot out from under g2
	assert.False(t, p.returnSlot(g1.s, g1.generation))
	assert.Zero(t, p.FreeCount())

	assert.True(t, p.returnSlot(g2.s, g2.generation))
	assert.Equal(t, 1, p.FreeCount())
}

// TestReturnSlotIdempotent verifies double return is a no-op.
func TestReturnSlotIdempotent(t *testing.T) {
	t.Parallel()

	p := NewPool(testAccounts(2))
	g, ok := p.takeFree()
	require.True(t, ok)

	assert.True(t, p.returnSlot(g.s, g.generation))
	assert.False(t, p.returnSlot(g.s, g.generation))
	assert.Equal(t, 2, p.FreeCount())
}

// TestReclaimMarksStale verifies a reclaimed slot needs a refresh.
func TestReclaimMarksStale(t *testing.T) {
	t.Parallel()

	p := NewPool(testAccounts(1))
	g, ok := p.takeFree()
	require.True(t, ok)
	p.setValue(g.s, common.HexToHash("0x01"), time.Now())

	require.True(t, p.reclaim(g.s, g.generation))
	assert.Equal(t, 1, p.staleCount())
}

// TestMarkStale verifies priority-refresh flagging.
func TestMarkStale(t *testing.T) {
	t.Parallel()

	accounts := testAccounts(2)
	p := NewPool(accounts)
	now := time.Now()
	for _, s := range p.slots {
		p.setValue(s, common.HexToHash("0xaa"), now)
	}
	require.Zero(t, p.staleCount())

	p.MarkStale(accounts[1])
	assert.Equal(t, 1, p.staleCount())

	// Unknown address is ignored
	p.MarkStale(common.BigToAddress(big.NewInt(999)))
	assert.Equal(t, 1, p.staleCount())
}

// TestRefreshCandidates verifies staleness and age selection.
func TestRefreshCandidates(t *testing.T) {
	t.Parallel()

	accounts := testAccounts(3)
	p := NewPool(accounts)
	now := time.Now()

	// Slot 0: fresh. Slot 1: old. Slot 2: stale (never set).
	p.setValue(p.slots[0], common.HexToHash("0x01"), now)
	p.setValue(p.slots[1], common.HexToHash("0x02"), now.Add(-10*time.Minute))

	cands := p.refreshCandidates(time.Minute, now)
	require.Len(t, cands, 2)
	got := map[common.Address]bool{cands[0].addr: true, cands[1].addr: true}
	assert.True(t, got[accounts[1]])
	assert.True(t, got[accounts[2]])
}

// TestRefreshCandidatesSkipLeased verifies leased slots are not refreshed.
func TestRefreshCandidatesSkipLeased(t *testing.T) {
	t.Parallel()

	p := NewPool(testAccounts(2))
	_, ok := p.takeFree()
	require.True(t, ok)

	cands := p.refreshCandidates(time.Minute, time.Now())
	require.Len(t, cands, 1)
}

// TestSetValueClearsStale verifies refresh bookkeeping.
func TestSetValueClearsStale(t *testing.T) {
	t.Parallel()

	p := NewPool(testAccounts(1))
	require.Equal(t, 1, p.staleCount())

	p.setValue(p.slots[0], common.HexToHash("0xbeef"), time.Now())
	assert.Zero(t, p.staleCount())

	g, ok := p.takeFree()
	require.True(t, ok)
	assert.Equal(t, common.HexToHash("0xbeef"), g.value)
	assert.False(t, g.stale)
}
