//go:build debug

package txbuild

import "fmt"

// assertOrdering panics on any violation of the build ordering rules.
// Compiled only under the debug tag; release builds get the no-op in
// assert_release.go.
func assertOrdering(instrs []Instruction, mode Mode) {
	sawStrategy := false

	for i, in := range instrs {
		if in.IsAdvanceNonce() {
			if mode == Simulation {
				panic(fmt.Sprintf("txbuild: advance-nonce at index %d in a simulation build", i))
			}
			if i != 0 {
				panic(fmt.Sprintf("txbuild: advance-nonce at index %d, must be first", i))
			}
			continue
		}
		if in.IsComputeBudget() {
			if sawStrategy {
				panic(fmt.Sprintf("txbuild: compute-budget at index %d after a strategy instruction", i))
			}
			continue
		}
		sawStrategy = true
	}

	if mode == Live && (len(instrs) == 0 || !instrs[0].IsAdvanceNonce()) {
		panic("txbuild: live build without a leading advance-nonce instruction")
	}
}
