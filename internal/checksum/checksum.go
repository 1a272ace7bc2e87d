// Package checksum implements the save file's signed 32-bit accumulating
// checksum. It is not CRC-32: it has no polynomial and no lookup table,
// just a running accumulator with a data-dependent carry.
package checksum

import "encoding/binary"

// Size is the width in bytes of the checksum slot.
const Size = 4

// Offset is the canonical byte offset of the checksum slot within a .d2s
// save header.
const Offset = 12

func accumulate(data []byte, start int32) int32 {
	acc := start
	for _, b := range data {
		carry := int32(0)
		if acc < 0 {
			carry = 1
		}
		acc = (acc << 1) + int32(b) + carry
	}
	return acc
}

// Compute returns the checksum of buf as if the Size bytes at offset were
// zero, folding the pre-slot bytes, the zeroed slot, and the post-slot bytes
// into one running accumulator in that order.
func Compute(buf []byte, offset int) int32 {
	pre := buf[:offset]
	post := buf[offset+Size:]

	acc := accumulate(pre, 0)
	acc = accumulate(make([]byte, Size), acc)
	acc = accumulate(post, acc)
	return acc
}

// Patch recomputes the checksum over buf (with the slot at offset treated as
// zero) and writes the result back into that slot in place. buf must be at
// least offset+Size bytes long.
func Patch(buf []byte, offset int) {
	sum := Compute(buf, offset)
	binary.LittleEndian.PutUint32(buf[offset:offset+Size], uint32(sum))
}

// Verify reports whether the checksum slot at offset already holds the
// value Compute would produce.
func Verify(buf []byte, offset int) bool {
	want := uint32(Compute(buf, offset))
	got := binary.LittleEndian.Uint32(buf[offset : offset+Size])
	return want == got
}
