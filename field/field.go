// Package field holds the position model and the leaf catalog of the binmap
// engine: the Index cursor threaded through every decode and encode, the
// Alignment placement of sub-byte fields inside byte groups, the byte order
// model, and the concrete leaf types that map cells of a byte stream to typed
// values.
package field

import (
	"fmt"

	"github.com/bytetools/binmap/internal/binary"
)

// Index is the position cursor threaded through every decode and encode
// operation. It is an immutable value; Advance, Rebase and WithUpdate return
// modified copies. Address always equals BaseAddress + Byte.
type Index struct {
	// Byte is the byte offset from the start of the current buffer.
	Byte uint64
	// Bit is the bit offset inside the current byte. Always < 8.
	Bit uint8
	// Address is the absolute address of the current byte.
	Address uint64
	// BaseAddress is the address of byte 0 of the current buffer. Pointers
	// rebase this when decoding an attached sub-tree.
	BaseAddress uint64
	// Update signals that the buffer handed to the decoder was insufficient
	// for the now-known shape of the data and a re-read is required. It is a
	// one-shot signal consumed by the nearest Provider-owning ancestor.
	Update bool
}

// Advance moves the cursor forward nbits bits, carrying whole bytes into Byte
// and keeping Address in sync. Calling Advance on an Index whose Bit is not
// below 8 is a contract violation and panics.
func (i Index) Advance(nbits uint64) Index {
	if i.Bit >= 8 {
		panic(fmt.Sprintf("Index contract violated: bit offset %d, must be < 8", i.Bit))
	}
	total := uint64(i.Bit) + nbits
	i.Byte += total / 8
	i.Bit = uint8(total % 8)
	i.Address = i.BaseAddress + i.Byte
	return i
}

// Rebase returns the Index repositioned against a buffer whose byte 0 lives
// at base. Byte and Bit are untouched.
func (i Index) Rebase(base uint64) Index {
	i.BaseAddress = base
	i.Address = base + i.Byte
	return i
}

// WithUpdate returns the Index with the re-read signal set.
func (i Index) WithUpdate() Index {
	i.Update = true
	return i
}

func (i Index) String() string {
	return fmt.Sprintf("[byte=%d bit=%d address=%#x base=%#x update=%v]", i.Byte, i.Bit, i.Address, i.BaseAddress, i.Update)
}

// Alignment places a field inside a byte-aligned group of sibling fields.
// ByteSize is the size of the whole group; BitOffset is where this field's
// bits begin, counted from the least significant bit of the group cell after
// byte-order decoding.
type Alignment struct {
	ByteSize  uint64
	BitOffset uint64
}

func (a Alignment) String() string {
	return fmt.Sprintf("(%d, %d)", a.ByteSize, a.BitOffset)
}

// ComputeAlignment assigns bit offsets to leaves declared as one alignment
// group of byteSize bytes, in declaration order. Each leaf is marked grouped
// and will consume exactly its declared width when decoded. The accumulated
// widths must not exceed byteSize*8; the returned error names the offending
// position otherwise.
func ComputeAlignment(byteSize uint64, leaves ...Leaf) ([]Alignment, error) {
	if byteSize == 0 || byteSize > 8 {
		return nil, &AlignmentError{Pos: -1, Msg: fmt.Sprintf("group byte size must be 1 to 8, got %d", byteSize)}
	}
	out := make([]Alignment, 0, len(leaves))
	var off uint64
	for n, l := range leaves {
		w := l.Width()
		if off+w > byteSize*8 {
			return nil, &AlignmentError{
				Pos: n,
				Msg: fmt.Sprintf("field %d (%d bits) overflows the %d byte group at bit offset %d", n, w, byteSize, off),
			}
		}
		a := Alignment{ByteSize: byteSize, BitOffset: off}
		l.SetAlignment(a)
		out = append(out, a)
		off += w
	}
	return out, nil
}

// ByteOrder selects the endianness of a field or of a whole decode/encode
// call. Auto inherits the order of the enclosing call; a leaf's own explicit
// order always wins over the inherited one.
type ByteOrder uint8

const (
	Auto         ByteOrder = 0 // inherit
	LittleEndian ByteOrder = 1 // little
	BigEndian    ByteOrder = 2 // big
)

// String implements fmt.Stringer.
func (b ByteOrder) String() string {
	switch b {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	}
	return "auto"
}

// Resolve returns the effective order: the receiver if explicit, otherwise
// the inherited order, otherwise little endian.
func (b ByteOrder) Resolve(inherited ByteOrder) ByteOrder {
	if b != Auto {
		return b
	}
	if inherited != Auto {
		return inherited
	}
	return LittleEndian
}

func (b ByteOrder) wire() binary.Order {
	if b == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
