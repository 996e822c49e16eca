package field

import (
	"math"
	"strconv"

	"github.com/bytetools/binmap/internal/bits"
)

// Unsigned is a leaf holding an unsigned integer of 1 to 64 bits.
type Unsigned struct {
	cell
	value uint64
}

// NewUnsigned returns an Unsigned of the given bit width. Widths outside
// 1 to 64 are declaration errors and panic.
func NewUnsigned(width uint64) *Unsigned {
	return &Unsigned{cell: newCell(width)}
}

// Uint returns the current value.
func (u *Unsigned) Uint() uint64 { return u.value }

// SetUint sets the value. Bits above the declared width are dropped on
// encode.
func (u *Unsigned) SetUint(v uint64) { u.value = v }

// Value implements Leaf.
func (u *Unsigned) Value() any { return u.value }

// AssignText implements Leaf. Accepts decimal, 0x/0o/0b prefixed forms.
func (u *Unsigned) AssignText(s string) error {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return err
	}
	u.value = v
	return nil
}

// Decode implements Leaf.
func (u *Unsigned) Decode(buf []byte, idx Index, opts *Options) (Index, error) {
	v, next, err := u.load(buf, idx, opts)
	if err != nil {
		return idx, err
	}
	u.value = v
	return next, nil
}

// Encode implements Leaf.
func (u *Unsigned) Encode(buf []byte, idx Index, opts *Options) (Index, error) {
	return u.store(buf, idx, opts, u.value)
}

// Signed is a leaf holding a two's-complement signed integer of 1 to 64 bits.
type Signed struct {
	cell
	value int64
}

// NewSigned returns a Signed of the given bit width. Widths outside 1 to 64
// are declaration errors and panic.
func NewSigned(width uint64) *Signed {
	return &Signed{cell: newCell(width)}
}

// Int returns the current value.
func (s *Signed) Int() int64 { return s.value }

// SetInt sets the value.
func (s *Signed) SetInt(v int64) { s.value = v }

// Value implements Leaf.
func (s *Signed) Value() any { return s.value }

// AssignText implements Leaf.
func (s *Signed) AssignText(text string) error {
	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return err
	}
	s.value = v
	return nil
}

// Decode implements Leaf.
func (s *Signed) Decode(buf []byte, idx Index, opts *Options) (Index, error) {
	v, next, err := s.load(buf, idx, opts)
	if err != nil {
		return idx, err
	}
	s.value = bits.SignExtend(v, s.width)
	return next, nil
}

// Encode implements Leaf.
func (s *Signed) Encode(buf []byte, idx Index, opts *Options) (Index, error) {
	return s.store(buf, idx, opts, uint64(s.value))
}

// Bool is a single-bit leaf.
type Bool struct {
	cell
	value bool
}

// NewBool returns a 1 bit Bool. Outside a group it self-aligns and consumes
// a whole byte.
func NewBool() *Bool {
	return &Bool{cell: newCell(1)}
}

// Bool returns the current value.
func (b *Bool) Bool() bool { return b.value }

// SetBool sets the value.
func (b *Bool) SetBool(v bool) { b.value = v }

// Value implements Leaf.
func (b *Bool) Value() any { return b.value }

// AssignText implements Leaf.
func (b *Bool) AssignText(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.value = v
	return nil
}

// Decode implements Leaf.
func (b *Bool) Decode(buf []byte, idx Index, opts *Options) (Index, error) {
	v, next, err := b.load(buf, idx, opts)
	if err != nil {
		return idx, err
	}
	b.value = v != 0
	return next, nil
}

// Encode implements Leaf.
func (b *Bool) Encode(buf []byte, idx Index, opts *Options) (Index, error) {
	var v uint64
	if b.value {
		v = 1
	}
	return b.store(buf, idx, opts, v)
}

// Float32 is a 32 bit IEEE 754 leaf.
type Float32 struct {
	cell
	value float32
}

// NewFloat32 returns a Float32.
func NewFloat32() *Float32 {
	return &Float32{cell: newCell(32)}
}

// Float returns the current value.
func (f *Float32) Float() float32 { return f.value }

// SetFloat sets the value.
func (f *Float32) SetFloat(v float32) { f.value = v }

// Value implements Leaf.
func (f *Float32) Value() any { return f.value }

// AssignText implements Leaf.
func (f *Float32) AssignText(s string) error {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return err
	}
	f.value = float32(v)
	return nil
}

// Decode implements Leaf.
func (f *Float32) Decode(buf []byte, idx Index, opts *Options) (Index, error) {
	v, next, err := f.load(buf, idx, opts)
	if err != nil {
		return idx, err
	}
	f.value = math.Float32frombits(uint32(v))
	return next, nil
}

// Encode implements Leaf.
func (f *Float32) Encode(buf []byte, idx Index, opts *Options) (Index, error) {
	return f.store(buf, idx, opts, uint64(math.Float32bits(f.value)))
}

// Float64 is a 64 bit IEEE 754 leaf.
type Float64 struct {
	cell
	value float64
}

// NewFloat64 returns a Float64.
func NewFloat64() *Float64 {
	return &Float64{cell: newCell(64)}
}

// Float returns the current value.
func (f *Float64) Float() float64 { return f.value }

// SetFloat sets the value.
func (f *Float64) SetFloat(v float64) { f.value = v }

// Value implements Leaf.
func (f *Float64) Value() any { return f.value }

// AssignText implements Leaf.
func (f *Float64) AssignText(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.value = v
	return nil
}

// Decode implements Leaf.
func (f *Float64) Decode(buf []byte, idx Index, opts *Options) (Index, error) {
	v, next, err := f.load(buf, idx, opts)
	if err != nil {
		return idx, err
	}
	f.value = math.Float64frombits(v)
	return next, nil
}

// Encode implements Leaf.
func (f *Float64) Encode(buf []byte, idx Index, opts *Options) (Index, error) {
	return f.store(buf, idx, opts, math.Float64bits(f.value))
}
