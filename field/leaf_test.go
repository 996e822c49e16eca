package field

import (
	"bytes"
	"math"
	"testing"
	"time"
)

func TestUnsignedDecodeOrders(t *testing.T) {
	buf := []byte{0x34, 0x12}

	tests := []struct {
		desc string
		opts *Options
		own  ByteOrder
		want uint64
	}{
		{"little from options", NewOptions(), Auto, 0x1234},
		{"big from options", NewOptions(WithByteOrder(BigEndian)), Auto, 0x3412},
		{"own order beats options", NewOptions(WithByteOrder(BigEndian)), LittleEndian, 0x1234},
		{"nil options default little", nil, Auto, 0x1234},
	}

	for _, test := range tests {
		u := NewUnsigned(16)
		u.SetByteOrder(test.own)
		next, err := u.Decode(buf, Index{}, test.opts)
		if err != nil {
			t.Fatalf("TestUnsignedDecodeOrders(%s): got err == %v, want err == nil", test.desc, err)
		}
		if u.Uint() != test.want {
			t.Fatalf("TestUnsignedDecodeOrders(%s): got %#x, want %#x", test.desc, u.Uint(), test.want)
		}
		if next.Byte != 2 || next.Bit != 0 {
			t.Fatalf("TestUnsignedDecodeOrders(%s): index got %v, want byte 2 bit 0", test.desc, next)
		}
	}
}

func TestUnsignedShortBuffer(t *testing.T) {
	u := NewUnsigned(32)
	_, err := u.Decode([]byte{1, 2, 3}, Index{}, nil)
	if err == nil {
		t.Fatalf("TestUnsignedShortBuffer: got err == nil, want DecodeError")
	}
	de, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("TestUnsignedShortBuffer: got %T, want *DecodeError", err)
	}
	if de.Need != 4 || de.Have != 3 {
		t.Fatalf("TestUnsignedShortBuffer: got need %d have %d, want need 4 have 3", de.Need, de.Have)
	}
}

func TestGroupedFields(t *testing.T) {
	// A 2 byte group: low 3 bits, 1 flag bit, high 12 bits.
	low := NewUnsigned(3)
	flag := NewBool()
	high := NewUnsigned(12)
	if _, err := ComputeAlignment(2, low, flag, high); err != nil {
		t.Fatalf("TestGroupedFields: alignment: %v", err)
	}

	// Value 0xABCD little endian on the wire: group cell = 0xABCD.
	// bits [0,3) = 5, bit 3 = 1, bits [4,16) = 0xABC.
	buf := []byte{0xCD, 0xAB}
	idx := Index{}
	var err error
	for _, l := range []Leaf{low, flag, high} {
		idx, err = l.Decode(buf, idx, nil)
		if err != nil {
			t.Fatalf("TestGroupedFields(decode): got err == %v, want err == nil", err)
		}
	}

	if low.Uint() != 5 {
		t.Fatalf("TestGroupedFields(low): got %d, want 5", low.Uint())
	}
	if !flag.Bool() {
		t.Fatalf("TestGroupedFields(flag): got false, want true")
	}
	if high.Uint() != 0xABC {
		t.Fatalf("TestGroupedFields(high): got %#x, want 0xabc", high.Uint())
	}
	if idx.Byte != 2 || idx.Bit != 0 {
		t.Fatalf("TestGroupedFields(index): got %v, want byte 2 bit 0", idx)
	}

	// Mutate one member and re-encode; siblings must survive the
	// read-modify-write.
	low.SetUint(2)
	out := make([]byte, 2)
	idx = Index{}
	for _, l := range []Leaf{low, flag, high} {
		idx, err = l.Encode(out, idx, nil)
		if err != nil {
			t.Fatalf("TestGroupedFields(encode): got err == %v, want err == nil", err)
		}
	}
	if !bytes.Equal(out, []byte{0xCA, 0xAB}) {
		t.Fatalf("TestGroupedFields(encode): got %x, want caab", out)
	}
}

func TestSelfAlignedSubByte(t *testing.T) {
	// A 4 bit field outside any group consumes a whole byte.
	u := NewUnsigned(4)
	if u.BitSize() != 8 {
		t.Fatalf("TestSelfAlignedSubByte(BitSize): got %d, want 8", u.BitSize())
	}
	next, err := u.Decode([]byte{0xFA}, Index{}, nil)
	if err != nil {
		t.Fatalf("TestSelfAlignedSubByte: got err == %v, want err == nil", err)
	}
	if u.Uint() != 0xA {
		t.Fatalf("TestSelfAlignedSubByte: got %#x, want 0xa", u.Uint())
	}
	if next.Byte != 1 || next.Bit != 0 {
		t.Fatalf("TestSelfAlignedSubByte(index): got %v, want byte 1 bit 0", next)
	}

	// Placing it mid-byte is a declaration error.
	if _, err := u.Decode([]byte{0xFA, 0x00}, Index{Bit: 3}, nil); err == nil {
		t.Fatalf("TestSelfAlignedSubByte(mid-byte): got err == nil, want AlignmentError")
	}
}

func TestSignedDecode(t *testing.T) {
	s := NewSigned(8)
	if _, err := s.Decode([]byte{0xFE}, Index{}, nil); err != nil {
		t.Fatalf("TestSignedDecode: got err == %v, want err == nil", err)
	}
	if s.Int() != -2 {
		t.Fatalf("TestSignedDecode: got %d, want -2", s.Int())
	}

	out := make([]byte, 1)
	s.SetInt(-3)
	if _, err := s.Encode(out, Index{}, nil); err != nil {
		t.Fatalf("TestSignedDecode(encode): got err == %v, want err == nil", err)
	}
	if out[0] != 0xFD {
		t.Fatalf("TestSignedDecode(encode): got %#x, want 0xfd", out[0])
	}
}

func TestFloatRoundTrip(t *testing.T) {
	f32 := NewFloat32()
	f32.SetFloat(math.Pi)
	out := make([]byte, 4)
	if _, err := f32.Encode(out, Index{}, nil); err != nil {
		t.Fatalf("TestFloatRoundTrip(f32 encode): got err == %v, want err == nil", err)
	}
	back := NewFloat32()
	if _, err := back.Decode(out, Index{}, nil); err != nil {
		t.Fatalf("TestFloatRoundTrip(f32 decode): got err == %v, want err == nil", err)
	}
	if back.Float() != f32.Float() {
		t.Fatalf("TestFloatRoundTrip(f32): got %v, want %v", back.Float(), f32.Float())
	}

	f64 := NewFloat64()
	f64.SetFloat(-math.E)
	out = make([]byte, 8)
	if _, err := f64.Encode(out, Index{}, NewOptions(WithByteOrder(BigEndian))); err != nil {
		t.Fatalf("TestFloatRoundTrip(f64 encode): got err == %v, want err == nil", err)
	}
	back64 := NewFloat64()
	if _, err := back64.Decode(out, Index{}, NewOptions(WithByteOrder(BigEndian))); err != nil {
		t.Fatalf("TestFloatRoundTrip(f64 decode): got err == %v, want err == nil", err)
	}
	if back64.Float() != f64.Float() {
		t.Fatalf("TestFloatRoundTrip(f64): got %v, want %v", back64.Float(), f64.Float())
	}
}

func TestStringResize(t *testing.T) {
	s := NewString(0)
	if s.Size() != 0 {
		t.Fatalf("TestStringResize: initial size got %d, want 0", s.Size())
	}
	s.Resize(5)
	if s.Size() != 5 || s.BitSize() != 40 {
		t.Fatalf("TestStringResize: got size %d bits %d, want 5 and 40", s.Size(), s.BitSize())
	}

	next, err := s.Decode([]byte("hello world"), Index{}, nil)
	if err != nil {
		t.Fatalf("TestStringResize(decode): got err == %v, want err == nil", err)
	}
	if s.Text() != "hello" {
		t.Fatalf("TestStringResize(decode): got %q, want %q", s.Text(), "hello")
	}
	if next.Byte != 5 {
		t.Fatalf("TestStringResize(index): got byte %d, want 5", next.Byte)
	}

	// Resizing to the same size twice is a no-op (idempotent re-decode).
	s.Resize(5)
	if s.Text() != "hello" {
		t.Fatalf("TestStringResize(idempotent): got %q, want %q", s.Text(), "hello")
	}

	// NUL padding stops Text.
	s.Resize(8)
	if s.Text() != "hello" {
		t.Fatalf("TestStringResize(padding): got %q, want %q", s.Text(), "hello")
	}
}

func TestBytesShortBuffer(t *testing.T) {
	b := NewBytes(4)
	if _, err := b.Decode([]byte{1, 2}, Index{}, nil); err == nil {
		t.Fatalf("TestBytesShortBuffer: got err == nil, want DecodeError")
	}
}

func TestEnum(t *testing.T) {
	e := NewEnum(8, map[uint64]string{1: "on", 2: "off"})
	if _, err := e.Decode([]byte{2}, Index{}, nil); err != nil {
		t.Fatalf("TestEnum: got err == %v, want err == nil", err)
	}
	if e.Name() != "off" {
		t.Fatalf("TestEnum: got %q, want %q", e.Name(), "off")
	}
	if err := e.AssignText("on"); err != nil {
		t.Fatalf("TestEnum(assign): got err == %v, want err == nil", err)
	}
	if e.Uint() != 1 {
		t.Fatalf("TestEnum(assign): got %d, want 1", e.Uint())
	}
	if e.AssignText("bogus") == nil {
		t.Fatalf("TestEnum(assign bogus): got err == nil, want error")
	}
}

func TestBitset(t *testing.T) {
	b := NewBitset(8, []string{"read", "write", "exec"})
	if _, err := b.Decode([]byte{0b101}, Index{}, nil); err != nil {
		t.Fatalf("TestBitset: got err == %v, want err == nil", err)
	}
	if !b.Flag("read") || b.Flag("write") || !b.Flag("exec") {
		t.Fatalf("TestBitset: flags got (%v, %v, %v), want (true, false, true)", b.Flag("read"), b.Flag("write"), b.Flag("exec"))
	}
	b.SetFlag("write", true)
	if b.Uint() != 0b111 {
		t.Fatalf("TestBitset(SetFlag): got %#b, want 0b111", b.Uint())
	}
	got := b.Names()
	want := []string{"read", "write", "exec"}
	if len(got) != len(want) {
		t.Fatalf("TestBitset(Names): got %v, want %v", got, want)
	}
}

func TestScaled(t *testing.T) {
	// 16 bit raw scaled by 0.25.
	s := NewScaled(16, 0.25)
	s.SetFloat(-2.5)
	if s.Raw() != -10 {
		t.Fatalf("TestScaled(SetFloat): raw got %d, want -10", s.Raw())
	}
	out := make([]byte, 2)
	if _, err := s.Encode(out, Index{}, nil); err != nil {
		t.Fatalf("TestScaled(encode): got err == %v, want err == nil", err)
	}
	back := NewScaled(16, 0.25)
	if _, err := back.Decode(out, Index{}, nil); err != nil {
		t.Fatalf("TestScaled(decode): got err == %v, want err == nil", err)
	}
	if back.Float() != -2.5 {
		t.Fatalf("TestScaled: got %v, want -2.5", back.Float())
	}
}

func TestDatetime(t *testing.T) {
	d := NewDatetime()
	want := time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC)
	d.SetTime(want)

	out := make([]byte, 4)
	if _, err := d.Encode(out, Index{}, nil); err != nil {
		t.Fatalf("TestDatetime(encode): got err == %v, want err == nil", err)
	}
	back := NewDatetime()
	if _, err := back.Decode(out, Index{}, nil); err != nil {
		t.Fatalf("TestDatetime(decode): got err == %v, want err == nil", err)
	}
	if !back.Time().Equal(want) {
		t.Fatalf("TestDatetime: got %v, want %v", back.Time(), want)
	}

	if err := back.AssignText("2020-01-01T00:00:00Z"); err != nil {
		t.Fatalf("TestDatetime(assign): got err == %v, want err == nil", err)
	}
	if back.Time().Year() != 2020 {
		t.Fatalf("TestDatetime(assign): got year %d, want 2020", back.Time().Year())
	}
}

func TestDecodeIdempotent(t *testing.T) {
	u := NewUnsigned(16)
	buf := []byte{0x34, 0x12}
	first, err := u.Decode(buf, Index{}, nil)
	if err != nil {
		t.Fatalf("TestDecodeIdempotent: got err == %v, want err == nil", err)
	}
	v := u.Uint()
	second, err := u.Decode(buf, Index{}, nil)
	if err != nil {
		t.Fatalf("TestDecodeIdempotent(re-run): got err == %v, want err == nil", err)
	}
	if second != first || u.Uint() != v {
		t.Fatalf("TestDecodeIdempotent: second pass got (%v, %#x), want (%v, %#x)", second, u.Uint(), first, v)
	}
}

func TestGroupedDecodeSkipsLeadingSiblings(t *testing.T) {
	x := NewUnsigned(8)
	y := NewUnsigned(8)
	if _, err := ComputeAlignment(2, x, y); err != nil {
		t.Fatalf("TestGroupedDecodeSkipsLeadingSiblings(setup): %v", err)
	}

	// Decoding y without x first places its group start before the buffer;
	// this is a declaration error, not a crash.
	_, err := y.Decode([]byte{0xAA, 0xBB}, Index{}, nil)
	if _, ok := err.(*AlignmentError); !ok {
		t.Fatalf("TestGroupedDecodeSkipsLeadingSiblings: got %T (%v), want *AlignmentError", err, err)
	}
}
