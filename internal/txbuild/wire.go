package txbuild

import (
	"bytes"
	"encoding/binary"
)

// Wire format constants.
const (
	wireMagic   = "DNTX"
	wireVersion = 1

	flagSimulated = 1 << 0
)

// Encode serializes the output for signing and submission:
//
//	magic (4) | version (1) | flags (1) | nonce value (32) |
//	u16 instruction count | instructions
//
// each instruction as:
//
//	program (20) | u8 account count | accounts (20 each) |
//	u32 data length | data
//
// The encoding is deterministic; the same output always produces the
// same bytes.
func (o *Output) Encode() []byte {
	var buf bytes.Buffer

	buf.WriteString(wireMagic)
	buf.WriteByte(wireVersion)

	var flags byte
	if o.Simulated {
		flags |= flagSimulated
	}
	buf.WriteByte(flags)

	buf.Write(o.NonceValue.Bytes())

	_ = binary.Write(&buf, binary.BigEndian, uint16(len(o.Instructions))) //nolint:gosec // instruction count is small

	for _, in := range o.Instructions {
		buf.Write(in.Program.Bytes())
		buf.WriteByte(byte(len(in.Accounts)))
		for _, a := range in.Accounts {
			buf.Write(a.Bytes())
		}
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(in.Data))) //nolint:gosec // data length fits
		buf.Write(in.Data)
	}

	return buf.Bytes()
}
