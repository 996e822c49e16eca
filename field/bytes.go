package field

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Bytes is a resizable run of whole bytes. Its size is often unknown until a
// sibling length field has been decoded; Resize is the resize half of the
// resize-and-re-read protocol and is safe to repeat with the same size.
type Bytes struct {
	value []byte
	order ByteOrder
	index Index
}

// NewBytes returns a Bytes of n bytes, zero-filled.
func NewBytes(n uint64) *Bytes {
	return &Bytes{value: make([]byte, n)}
}

// Size is the current size in bytes.
func (b *Bytes) Size() uint64 { return uint64(len(b.value)) }

// Resize changes the run to n bytes. Existing bytes are kept up to n; growth
// zero-fills. Resizing to the current size is a no-op, which keeps repeated
// decode passes idempotent.
func (b *Bytes) Resize(n uint64) {
	if n == uint64(len(b.value)) {
		return
	}
	next := make([]byte, n)
	copy(next, b.value)
	b.value = next
}

// Bytes returns the current value. The slice is the field's own storage;
// callers mutate it in place to change what Encode writes.
func (b *Bytes) Bytes() []byte { return b.value }

// SetBytes replaces the value and resizes the field to match.
func (b *Bytes) SetBytes(v []byte) {
	b.value = append(b.value[:0:0], v...)
}

// Width implements Leaf.
func (b *Bytes) Width() uint64 { return uint64(len(b.value)) * 8 }

// BitSize implements Leaf. Byte runs are always byte-aligned.
func (b *Bytes) BitSize() uint64 { return b.Width() }

// Alignment implements Leaf.
func (b *Bytes) Alignment() Alignment { return Alignment{ByteSize: uint64(len(b.value))} }

// SetAlignment implements Leaf. Byte runs cannot join bit groups; calling
// this is a declaration error and panics.
func (b *Bytes) SetAlignment(Alignment) {
	panic("byte run fields cannot join an alignment group")
}

// ByteOrder implements Leaf.
func (b *Bytes) ByteOrder() ByteOrder { return b.order }

// SetByteOrder implements Leaf. Byte runs are copied verbatim; the order is
// carried only for introspection.
func (b *Bytes) SetByteOrder(o ByteOrder) { b.order = o }

// LastIndex implements Leaf.
func (b *Bytes) LastIndex() Index { return b.index }

// Value implements Leaf.
func (b *Bytes) Value() any { return b.value }

// AssignText implements Leaf. Accepts hex text.
func (b *Bytes) AssignText(s string) error {
	v, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	b.value = v
	return nil
}

// Decode implements Leaf.
func (b *Bytes) Decode(buf []byte, idx Index, opts *Options) (Index, error) {
	if idx.Bit != 0 {
		return idx, &AlignmentError{Pos: -1, Msg: fmt.Sprintf("byte run placed at bit offset %d", idx.Bit)}
	}
	end := idx.Byte + uint64(len(b.value))
	if uint64(len(buf)) < end {
		return idx, &DecodeError{Index: idx, Need: end, Have: uint64(len(buf))}
	}
	copy(b.value, buf[idx.Byte:end])
	b.index = idx
	return idx.Advance(b.BitSize()), nil
}

// Encode implements Leaf.
func (b *Bytes) Encode(buf []byte, idx Index, opts *Options) (Index, error) {
	if idx.Bit != 0 {
		return idx, &AlignmentError{Pos: -1, Msg: fmt.Sprintf("byte run placed at bit offset %d", idx.Bit)}
	}
	end := idx.Byte + uint64(len(b.value))
	if uint64(len(buf)) < end {
		return idx, &DecodeError{Index: idx, Need: end, Have: uint64(len(buf))}
	}
	copy(buf[idx.Byte:end], b.value)
	b.index = idx
	return idx.Advance(b.BitSize()), nil
}

// String is a resizable text field stored as a fixed run of bytes. Unused
// trailing bytes hold NUL; Text stops at the first NUL.
type String struct {
	Bytes
}

// NewString returns a String of n bytes.
func NewString(n uint64) *String {
	return &String{Bytes: Bytes{value: make([]byte, n)}}
}

// Text returns the decoded text up to the first NUL byte.
func (s *String) Text() string {
	v := string(s.value)
	if i := strings.IndexByte(v, 0); i >= 0 {
		return v[:i]
	}
	return v
}

// SetText replaces the text and resizes the field to match.
func (s *String) SetText(v string) {
	s.value = []byte(v)
}

// Value implements Leaf.
func (s *String) Value() any { return s.Text() }

// AssignText implements Leaf.
func (s *String) AssignText(v string) error {
	s.SetText(v)
	return nil
}
