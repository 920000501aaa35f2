// Package prefilter classifies raw transaction bytes before any
// parsing. The scan is advisory: it trades exactness for speed and
// feeds admission decisions upstream of the real decoder.
package prefilter

import (
	"bytes"

	"github.com/quartzlabs/durapool/internal/txbuild"
)

// regionWindow is how far back from a discriminator hit the program
// address may sit. Covers the program id, the account list, and the
// data length prefix of one encoded instruction.
const regionWindow = 64

// ContainsAdvanceNonce reports whether the raw bytes look like they
// carry an advance-nonce instruction: the 8-byte advance discriminator
// with the nonce program address in the preceding region.
//
// Stateless and allocation-free; false positives are acceptable,
// callers re-verify with a full decode.
func ContainsAdvanceNonce(raw []byte) bool {
	tag := txbuild.AdvanceNonceTag()
	program := txbuild.NonceProgram.Bytes()

	for offset := 0; ; {
		i := bytes.Index(raw[offset:], tag)
		if i < 0 {
			return false
		}
		hit := offset + i

		start := hit - regionWindow
		if start < 0 {
			start = 0
		}
		if bytes.Contains(raw[start:hit], program) {
			return true
		}

		offset = hit + 1
	}
}
