//go:build !debug

package txbuild

// assertOrdering is compiled out of release builds; see assert_debug.go.
func assertOrdering([]Instruction, Mode) {}
