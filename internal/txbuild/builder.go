package txbuild

import (
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quartzlabs/durapool/internal/config"
	"github.com/quartzlabs/durapool/internal/nonce"
	durerr "github.com/quartzlabs/durapool/pkg/errors"
)

// Mode selects whether a build targets real submission or dry-run
// simulation.
type Mode uint8

// Build modes.
const (
	Live Mode = iota
	Simulation
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Live:
		return "live"
	case Simulation:
		return "simulation"
	default:
		return "unknown"
	}
}

// Config configures a Builder.
type Config struct {
	// Authority signs nonce advances and pays fees.
	Authority common.Address
	// ComputeUnits caps compute per transaction.
	ComputeUnits uint32
	// ComputePrice is the per-unit price in micro-units.
	ComputePrice uint64
	// Logger is optional.
	Logger *config.Logger
}

// Builder assembles transactions in the strict order the chain
// requires: the replay-protection value must be consumed before any
// side-effecting instruction runs, and compute-budget instructions
// must precede the instructions they price.
type Builder struct {
	authority    common.Address
	computeUnits uint32
	computePrice uint64
	log          *config.Logger
}

// NewBuilder creates a builder.
func NewBuilder(cfg Config) *Builder {
	if cfg.Logger == nil {
		cfg.Logger = config.NullLogger()
	}
	return &Builder{
		authority:    cfg.Authority,
		computeUnits: cfg.ComputeUnits,
		computePrice: cfg.ComputePrice,
		log:          cfg.Logger,
	}
}

// Output is a built transaction ready for signing and submission.
// It owns the lease that produced it: the caller releases the lease
// once the transaction is finalized or abandoned.
type Output struct {
	Instructions []Instruction
	Lease        *nonce.Lease
	NonceValue   common.Hash
	Simulated    bool
	BuiltAt      time.Time
}

// Build assembles a transaction from the lease and the strategy
// instructions.
//
// Live mode emits: advance-nonce, then compute-budget, then strategy.
// Simulation mode omits the advance-nonce instruction entirely;
// simulating an advance would desynchronize the cached nonce value
// from the chain and corrupt every later live build from that slot.
//
// On success the lease moves into the Output. On failure it stays
// with the caller, untouched, free to retry or release.
func (b *Builder) Build(lease *nonce.Lease, strategy []Instruction, mode Mode) (*Output, error) {
	if lease == nil {
		return nil, durerr.ErrMissingLease
	}
	if err := lease.Err(); err != nil {
		return nil, err
	}

	// The builder owns the reserved programs. A strategy set that
	// smuggles in its own advance or budget instructions would break
	// the ordering invariant, so it is rejected, never reordered.
	for i, in := range strategy {
		if in.IsAdvanceNonce() || in.IsComputeBudget() {
			return nil, durerr.WithDetails(durerr.ErrBuildOrdering, map[string]string{
				"index":   strconv.Itoa(i),
				"program": in.Program.Hex(),
			})
		}
	}

	instrs := make([]Instruction, 0, len(strategy)+3)
	if mode == Live {
		instrs = append(instrs, AdvanceNonce(lease.Account(), b.authority))
	}
	instrs = append(instrs,
		ComputeUnitLimit(b.computeUnits),
		ComputeUnitPrice(b.computePrice),
	)
	instrs = append(instrs, strategy...)

	assertOrdering(instrs, mode)

	b.log.Debug("built %s transaction: %d instruction(s), lease %d",
		mode, len(instrs), lease.ID())

	return &Output{
		Instructions: instrs,
		Lease:        lease,
		NonceValue:   lease.Value(),
		Simulated:    mode == Simulation,
		BuiltAt:      time.Now(),
	}, nil
}
