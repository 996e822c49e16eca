package binary

import (
	"bytes"
	"testing"
)

func TestUintPutUint(t *testing.T) {
	// Each width from 1 to 8 bytes round trips in both orders.
	const v = uint64(0x1122334455667788)
	for width := 1; width <= 8; width++ {
		for _, o := range []Order{LittleEndian, BigEndian} {
			b := make([]byte, width)
			want := v
			if width < 8 {
				want = v & (uint64(1)<<(width*8) - 1)
			}
			PutUint(b, v, o)
			got := Uint(b, o)
			if got != want {
				t.Fatalf("TestUintPutUint(width: %d, order: %v): got %x, want %x", width, o, got, want)
			}
		}
	}
}

func TestUintByteLayout(t *testing.T) {
	b := make([]byte, 3)
	PutUint(b, 0x00A1B2C3, LittleEndian)
	if !bytes.Equal(b, []byte{0xC3, 0xB2, 0xA1}) {
		t.Fatalf("TestUintByteLayout(little): got %x, want c3b2a1", b)
	}
	PutUint(b, 0x00A1B2C3, BigEndian)
	if !bytes.Equal(b, []byte{0xA1, 0xB2, 0xC3}) {
		t.Fatalf("TestUintByteLayout(big): got %x, want a1b2c3", b)
	}
}

func TestUintPanicsOnBadCell(t *testing.T) {
	for _, n := range []int{0, 9} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("TestUintPanicsOnBadCell(%d bytes): did not panic", n)
				}
			}()
			Uint(make([]byte, n), LittleEndian)
		}()
	}
}

func TestGetPut(t *testing.T) {
	b := make([]byte, 8)

	Put(b, int16(-2), LittleEndian)
	if got := Get[int16](b, LittleEndian); got != -2 {
		t.Fatalf("TestGetPut(int16): got %d, want -2", got)
	}

	Put(b, uint32(0xDEADBEEF), BigEndian)
	if got := Get[uint32](b, BigEndian); got != 0xDEADBEEF {
		t.Fatalf("TestGetPut(uint32): got %x, want deadbeef", got)
	}
	if b[0] != 0xDE {
		t.Fatalf("TestGetPut(uint32 layout): first byte %x, want de", b[0])
	}

	Put(b, int64(-5000000000), LittleEndian)
	if got := Get[int64](b, LittleEndian); got != -5000000000 {
		t.Fatalf("TestGetPut(int64): got %d, want -5000000000", got)
	}

	Put(b, uint8(0x7F), BigEndian)
	if got := Get[uint8](b, BigEndian); got != 0x7F {
		t.Fatalf("TestGetPut(uint8): got %x, want 7f", got)
	}
}

func FuzzUintPutUint(f *testing.F) {
	f.Add(uint64(0x1122334455667788), uint8(3), true)
	f.Add(^uint64(0), uint8(0), false)
	f.Add(uint64(1), uint8(7), true)
	f.Fuzz(func(t *testing.T, v uint64, width uint8, big bool) {
		n := int(width%8) + 1
		o := LittleEndian
		if big {
			o = BigEndian
		}

		want := v
		if n < 8 {
			want = v & (uint64(1)<<(n*8) - 1)
		}
		b := make([]byte, n)
		PutUint(b, v, o)
		if got := Uint(b, o); got != want {
			t.Fatalf("FuzzUintPutUint(v: %#x, width: %d, order: %v): got %#x, want %#x", v, n, o, got, want)
		}

		// Reading the same cell in the opposite order equals reading the
		// reversed bytes in the original order.
		r := make([]byte, n)
		for i := range r {
			r[i] = b[n-1-i]
		}
		flipped := LittleEndian
		if !big {
			flipped = BigEndian
		}
		if Uint(b, flipped) != Uint(r, o) {
			t.Fatalf("FuzzUintPutUint(v: %#x, width: %d): order flip and byte reversal disagree", v, n)
		}
	})
}
