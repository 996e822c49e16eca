// Package bits provides the bit kernels used to place sub-byte fields inside
// byte-aligned groups. This is not a replacement for math/bits.
package bits

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Mask returns a mask with "width" one-bits starting at bit "start".
// Index starts at 0, so Mask(1, 3) covers bits 1 to 3. If width is 0 or the
// range exceeds 64 bits, this panics.
func Mask(start, width uint64) uint64 {
	if width == 0 {
		panic("width cannot be 0")
	}
	if start+width > 64 {
		panic(fmt.Sprintf("bit range [%d, %d) exceeds 64 bits", start, start+width))
	}
	if width == 64 {
		// Avoid shifting by 64 (illegal in Go).
		return ^uint64(0)
	}
	return (uint64(1)<<width - 1) << start
}

// Extract returns the "width" bits of "store" starting at bit "start".
// Bits index from the least significant bit of store.
func Extract(store, start, width uint64) uint64 {
	return (store & Mask(start, width)) >> start
}

// Deposit stores "val" in "store" at bits [start, start+width). The existing
// bits in the range are cleared first. Bits of val above width are dropped.
func Deposit(store, start, width, val uint64) uint64 {
	m := Mask(start, width)
	return (store &^ m) | ((val << start) & m)
}

// GetBit reports whether bit "pos" of "store" is set.
func GetBit[U constraints.Unsigned](store U, pos uint8) bool {
	return store&(1<<pos) != 0
}

// SetBit sets bit "pos" of "store" to "val" and returns the result.
func SetBit[U constraints.Unsigned](store U, pos uint8, val bool) U {
	if val {
		return store | (1 << pos)
	}
	return store &^ (1 << pos)
}

// SignExtend reinterprets the low "width" bits of v as a two's-complement
// signed number. If width is 0 or > 64, this panics.
func SignExtend(v, width uint64) int64 {
	if width == 0 || width > 64 {
		panic(fmt.Sprintf("cannot sign extend a %d bit value", width))
	}
	if width == 64 {
		return int64(v)
	}
	sign := uint64(1) << (width - 1)
	v &= Mask(0, width)
	if v&sign != 0 {
		return int64(v | ^Mask(0, width))
	}
	return int64(v)
}
