// Package txbuild assembles durable-nonce transactions from leased
// nonce accounts and strategy instructions.
package txbuild

import (
	"bytes"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"
)

// Well-known program addresses.
var (
	// NonceProgram owns the durable nonce accounts and the advance
	// instruction.
	NonceProgram = common.HexToAddress("0x0000000000000000000000000000000000000101")

	// ComputeBudgetProgram prices the compute consumed by the
	// instructions that follow it.
	ComputeBudgetProgram = common.HexToAddress("0x0000000000000000000000000000000000000102")
)

// discriminator derives the 8-byte instruction tag for a method name.
func discriminator(name string) []byte {
	h := sha3.Sum256([]byte(name))
	return h[:8]
}

// Instruction tags.
var (
	advanceNonceTag = discriminator("durable_nonce::advance")
	unitLimitTag    = discriminator("compute_budget::set_unit_limit")
	unitPriceTag    = discriminator("compute_budget::set_unit_price")
)

// AdvanceNonceTag returns a copy of the advance-nonce discriminator,
// for collaborators that scan raw transaction bytes.
func AdvanceNonceTag() []byte {
	return bytes.Clone(advanceNonceTag)
}

// Instruction is one program invocation inside a transaction.
type Instruction struct {
	Program  common.Address   `json:"program"`
	Accounts []common.Address `json:"accounts,omitempty"`
	Data     hexutil.Bytes    `json:"data"`
}

// AdvanceNonce builds the instruction that consumes the replay
// protection value of the given nonce account.
func AdvanceNonce(account, authority common.Address) Instruction {
	return Instruction{
		Program:  NonceProgram,
		Accounts: []common.Address{account, authority},
		Data:     bytes.Clone(advanceNonceTag),
	}
}

// ComputeUnitLimit builds the instruction capping compute units.
func ComputeUnitLimit(units uint32) Instruction {
	data := make([]byte, 0, len(unitLimitTag)+4)
	data = append(data, unitLimitTag...)
	data = binary.BigEndian.AppendUint32(data, units)
	return Instruction{Program: ComputeBudgetProgram, Data: data}
}

// ComputeUnitPrice builds the instruction setting the per-unit price
// in micro-units.
func ComputeUnitPrice(price uint64) Instruction {
	data := make([]byte, 0, len(unitPriceTag)+8)
	data = append(data, unitPriceTag...)
	data = binary.BigEndian.AppendUint64(data, price)
	return Instruction{Program: ComputeBudgetProgram, Data: data}
}

// IsAdvanceNonce reports whether the instruction advances a durable nonce.
func (in Instruction) IsAdvanceNonce() bool {
	return in.Program == NonceProgram && bytes.HasPrefix(in.Data, advanceNonceTag)
}

// IsComputeBudget reports whether the instruction targets the compute
// budget program.
func (in Instruction) IsComputeBudget() bool {
	return in.Program == ComputeBudgetProgram
}
