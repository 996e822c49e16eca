// Package binary replaces the encoding/binary package in the standard library
// for the fixed-width loads and stores the mapper performs, using generics and
// an explicit byte order. Unlike encoding/binary, the variable-width Uint/
// PutUint pair operates on cells of 1 to 8 bytes, which is what alignment
// groups and odd-width pointers (24/48 bit) need.
package binary

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Order selects the byte order for loads and stores.
type Order uint8

const (
	LittleEndian Order = 0
	BigEndian    Order = 1
)

// String implements fmt.Stringer.
func (o Order) String() string {
	if o == BigEndian {
		return "big"
	}
	return "little"
}

// Uint loads len(b) bytes as an unsigned integer in the given byte order.
// len(b) must be 1 to 8, otherwise this panics.
func Uint(b []byte, o Order) uint64 {
	n := len(b)
	if n == 0 || n > 8 {
		panic(fmt.Sprintf("binary.Uint: cell must be 1 to 8 bytes, got %d", n))
	}
	_ = b[n-1] // bounds check hint to compiler; see golang.org/issue/14808

	var v uint64
	if o == BigEndian {
		for i := 0; i < n; i++ {
			v = v<<8 | uint64(b[i])
		}
		return v
	}
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// PutUint stores the low len(b) bytes of v into b in the given byte order.
// len(b) must be 1 to 8, otherwise this panics.
func PutUint(b []byte, v uint64, o Order) {
	n := len(b)
	if n == 0 || n > 8 {
		panic(fmt.Sprintf("binary.PutUint: cell must be 1 to 8 bytes, got %d", n))
	}
	_ = b[n-1] // bounds check hint to compiler; see golang.org/issue/14808

	if o == BigEndian {
		for i := n - 1; i >= 0; i-- {
			b[i] = byte(v)
			v >>= 8
		}
		return
	}
	for i := 0; i < n; i++ {
		b[i] = byte(v)
		v >>= 8
	}
}

// Get gets any fixed-size integer from a []byte slice in the given byte order.
func Get[T constraints.Integer](b []byte, o Order) T {
	var r T // This is only used for type detection.
	switch any(r).(type) {
	case int8:
		return T(int8(b[0]))
	case uint8:
		return T(b[0])
	case int16:
		return T(int16(Uint(b[:2], o)))
	case uint16:
		return T(uint16(Uint(b[:2], o)))
	case int32:
		return T(int32(Uint(b[:4], o)))
	case uint32:
		return T(uint32(Uint(b[:4], o)))
	case int64:
		return T(int64(Uint(b[:8], o)))
	case uint64:
		return T(Uint(b[:8], o))
	}
	panic(fmt.Sprintf("unsupported type that passed the type constraint %T", r))
}

// Put puts any fixed-size integer into a []byte slice in the given byte order.
func Put[T constraints.Integer](b []byte, v T, o Order) {
	switch any(v).(type) {
	case int8, uint8:
		b[0] = byte(v)
	case int16, uint16:
		PutUint(b[:2], uint64(uint16(v)), o)
	case int32, uint32:
		PutUint(b[:4], uint64(uint32(v)), o)
	case int64, uint64:
		PutUint(b[:8], uint64(v), o)
	default:
		panic(fmt.Sprintf("unsupported type that passed the type constraint %T", v))
	}
}
