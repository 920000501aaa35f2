// Package chain defines the network collaborator interfaces of the
// nonce core and a JSON-RPC implementation of them.
package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// NonceReader fetches the current on-chain durable nonce value for an
// account. Implementations may fail transiently; callers are expected
// to retry or leave the cached value stale.
type NonceReader interface {
	NonceValue(ctx context.Context, account common.Address) (common.Hash, error)
}

// Submitter sends built transactions to the network, either for real
// submission or for dry-run simulation.
type Submitter interface {
	SubmitTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	SimulateTransaction(ctx context.Context, raw []byte) (*SimulationResult, error)
}

// SimulationResult is the network's verdict on a simulated transaction.
type SimulationResult struct {
	Err           string   `json:"err,omitempty"`
	UnitsConsumed uint64   `json:"unitsConsumed"`
	Logs          []string `json:"logs,omitempty"`
}

// Ok reports whether the simulation succeeded.
func (r *SimulationResult) Ok() bool {
	return r != nil && r.Err == ""
}
