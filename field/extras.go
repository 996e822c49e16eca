package field

import (
	"strconv"
	"time"

	"github.com/bytetools/binmap/internal/bits"
	"github.com/pkg/errors"
)

// Enum is an unsigned leaf whose values carry names.
type Enum struct {
	Unsigned
	names map[uint64]string
}

// NewEnum returns an Enum of the given bit width with the given value names.
func NewEnum(width uint64, names map[uint64]string) *Enum {
	cp := make(map[uint64]string, len(names))
	for k, v := range names {
		cp[k] = v
	}
	return &Enum{Unsigned: Unsigned{cell: newCell(width)}, names: cp}
}

// Name returns the name of the current value, or its decimal form when the
// value has no name.
func (e *Enum) Name() string {
	if n, ok := e.names[e.value]; ok {
		return n
	}
	return strconv.FormatUint(e.value, 10)
}

// Value implements Leaf.
func (e *Enum) Value() any { return e.Name() }

// AssignText implements Leaf. Accepts a member name or a number.
func (e *Enum) AssignText(s string) error {
	for v, n := range e.names {
		if n == s {
			e.value = v
			return nil
		}
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return errors.Errorf("%q is neither an enum member nor a number", s)
	}
	e.value = v
	return nil
}

// Bitset is an unsigned leaf interpreted as named flag bits. names[i] names
// bit i; empty names leave bits anonymous.
type Bitset struct {
	Unsigned
	names []string
}

// NewBitset returns a Bitset of the given bit width.
func NewBitset(width uint64, names []string) *Bitset {
	return &Bitset{Unsigned: Unsigned{cell: newCell(width)}, names: append([]string(nil), names...)}
}

// Flag reports whether the named flag is set.
func (b *Bitset) Flag(name string) bool {
	for i, n := range b.names {
		if n == name {
			return bits.GetBit(b.value, uint8(i))
		}
	}
	return false
}

// SetFlag sets or clears the named flag. Unknown names are ignored.
func (b *Bitset) SetFlag(name string, on bool) {
	for i, n := range b.names {
		if n == name {
			b.value = bits.SetBit(b.value, uint8(i), on)
			return
		}
	}
}

// Names returns the names of the flags currently set, in bit order.
func (b *Bitset) Names() []string {
	var out []string
	for i, n := range b.names {
		if n != "" && bits.GetBit(b.value, uint8(i)) {
			out = append(out, n)
		}
	}
	return out
}

// Scaled is a fixed-point leaf: the stream holds a signed raw integer, the
// value is raw * scale.
type Scaled struct {
	cell
	raw   int64
	scale float64
}

// NewScaled returns a Scaled of the given bit width and scale factor. A zero
// scale is a declaration error and panics.
func NewScaled(width uint64, scale float64) *Scaled {
	if scale == 0 {
		panic("scaled field scale cannot be 0")
	}
	return &Scaled{cell: newCell(width), scale: scale}
}

// Float returns raw * scale.
func (s *Scaled) Float() float64 { return float64(s.raw) * s.scale }

// SetFloat sets the value, rounding to the nearest representable raw step.
func (s *Scaled) SetFloat(v float64) {
	q := v / s.scale
	if q >= 0 {
		s.raw = int64(q + 0.5)
	} else {
		s.raw = int64(q - 0.5)
	}
}

// Raw returns the unscaled stream value.
func (s *Scaled) Raw() int64 { return s.raw }

// Value implements Leaf.
func (s *Scaled) Value() any { return s.Float() }

// AssignText implements Leaf.
func (s *Scaled) AssignText(text string) error {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return err
	}
	s.SetFloat(v)
	return nil
}

// Decode implements Leaf.
func (s *Scaled) Decode(buf []byte, idx Index, opts *Options) (Index, error) {
	v, next, err := s.load(buf, idx, opts)
	if err != nil {
		return idx, err
	}
	s.raw = bits.SignExtend(v, s.width)
	return next, nil
}

// Encode implements Leaf.
func (s *Scaled) Encode(buf []byte, idx Index, opts *Options) (Index, error) {
	return s.store(buf, idx, opts, uint64(s.raw))
}

// Datetime is a 32 bit leaf holding seconds since the Unix epoch, UTC.
type Datetime struct {
	Unsigned
}

// NewDatetime returns a Datetime.
func NewDatetime() *Datetime {
	return &Datetime{Unsigned: Unsigned{cell: newCell(32)}}
}

// Time returns the value as a time.Time in UTC.
func (d *Datetime) Time() time.Time {
	return time.Unix(int64(d.value), 0).UTC()
}

// SetTime sets the value. Times before the epoch or past the 32 bit range
// are truncated to it.
func (d *Datetime) SetTime(t time.Time) {
	sec := t.Unix()
	switch {
	case sec < 0:
		sec = 0
	case sec > int64(^uint32(0)):
		sec = int64(^uint32(0))
	}
	d.value = uint64(sec)
}

// Value implements Leaf.
func (d *Datetime) Value() any { return d.Time() }

// AssignText implements Leaf. Accepts RFC 3339 text or epoch seconds.
func (d *Datetime) AssignText(s string) error {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.SetTime(t)
		return nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return errors.Errorf("%q is neither RFC 3339 nor epoch seconds", s)
	}
	d.value = v
	return nil
}
