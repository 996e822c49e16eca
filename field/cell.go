package field

import (
	"fmt"

	"github.com/bytetools/binmap/internal/binary"
	"github.com/bytetools/binmap/internal/bits"
)

// Leaf is the contract every leaf field implements. The engine treats all
// leaves uniformly through it; there is no leaf-specific branching anywhere
// above this interface.
type Leaf interface {
	// Width is the declared bit width of the field's value.
	Width() uint64
	// BitSize is the number of bits the field consumes in the stream layout.
	// For grouped fields this equals Width; a field outside any group
	// self-aligns to the next byte boundary, so its BitSize is padded up.
	BitSize() uint64
	// Alignment is the field's placement inside its byte group.
	Alignment() Alignment
	// SetAlignment places the field inside an explicit group. Normally called
	// through ComputeAlignment, not directly.
	SetAlignment(Alignment)
	// ByteOrder is the field's own order; Auto inherits the call's order.
	ByteOrder() ByteOrder
	// SetByteOrder overrides the inherited byte order for this field.
	SetByteOrder(ByteOrder)
	// LastIndex is the Index recorded by the most recent decode or encode.
	LastIndex() Index
	// Value is the current decoded value, typed per leaf.
	Value() any
	// AssignText sets the value from its textual form, as produced by the
	// export views.
	AssignText(s string) error
	// Decode extracts the field's bits from buf at idx, stores the value and
	// returns the advanced Index.
	Decode(buf []byte, idx Index, opts *Options) (Index, error)
	// Encode packs the current value into buf at idx using read-modify-write
	// of the field's group cell and returns the advanced Index.
	Encode(buf []byte, idx Index, opts *Options) (Index, error)
}

// cell carries the state every leaf shares and implements the group-cell
// load/store that places values relative to their Alignment.
type cell struct {
	width   uint64
	align   Alignment
	grouped bool
	order   ByteOrder
	index   Index
}

func newCell(width uint64) cell {
	if width == 0 || width > 64 {
		panic(fmt.Sprintf("field width must be 1 to 64 bits, got %d", width))
	}
	return cell{
		width: width,
		align: Alignment{ByteSize: (width + 7) / 8},
	}
}

func (c *cell) Width() uint64 { return c.width }

// BitSize reports layout-consumed bits: grouped fields consume exactly their
// width, self-aligned fields consume whole bytes.
func (c *cell) BitSize() uint64 {
	if c.grouped {
		return c.width
	}
	return c.align.ByteSize * 8
}

func (c *cell) Alignment() Alignment { return c.align }

func (c *cell) SetAlignment(a Alignment) {
	c.align = a
	c.grouped = true
}

func (c *cell) ByteOrder() ByteOrder { return c.order }

func (c *cell) SetByteOrder(o ByteOrder) { c.order = o }

func (c *cell) LastIndex() Index { return c.index }

// span returns the buffer range holding this field's group cell for the
// given cursor, or a DecodeError when buf cannot hold it.
func (c *cell) span(buf []byte, idx Index) (start, end uint64, err error) {
	if !c.grouped {
		if idx.Bit != 0 {
			return 0, 0, &AlignmentError{
				Pos: -1,
				Msg: fmt.Sprintf("self-aligned %d bit field placed at bit offset %d; sub-byte fields must share an alignment group", c.width, idx.Bit),
			}
		}
		start = idx.Byte
	} else {
		if uint64(idx.Bit) != c.align.BitOffset%8 {
			return 0, 0, &AlignmentError{
				Pos: -1,
				Msg: fmt.Sprintf("grouped field aligned at bit %d reached at bit %d; group members must be declared in alignment order", c.align.BitOffset%8, idx.Bit),
			}
		}
		if idx.Byte < c.align.BitOffset/8 {
			return 0, 0, &AlignmentError{
				Pos: -1,
				Msg: fmt.Sprintf("grouped field at bit offset %d reached at byte %d; its group starts before the buffer, leading group members were skipped", c.align.BitOffset, idx.Byte),
			}
		}
		start = idx.Byte - c.align.BitOffset/8
	}
	end = start + c.align.ByteSize
	if uint64(len(buf)) < end {
		return 0, 0, &DecodeError{Index: idx, Need: end, Have: uint64(len(buf))}
	}
	return start, end, nil
}

// load reads the field's raw bits out of its group cell and advances the
// cursor. The Index is recorded on the cell.
func (c *cell) load(buf []byte, idx Index, opts *Options) (uint64, Index, error) {
	opts = opts.norm()
	start, end, err := c.span(buf, idx)
	if err != nil {
		return 0, idx, err
	}
	group := binary.Uint(buf[start:end], c.order.Resolve(opts.ByteOrder).wire())
	v := bits.Extract(group, c.align.BitOffset, c.width)
	c.index = idx
	return v, idx.Advance(c.BitSize()), nil
}

// store writes the field's raw bits into its group cell with a
// read-modify-write so sibling bits in the same group survive, then advances
// the cursor.
func (c *cell) store(buf []byte, idx Index, opts *Options, v uint64) (Index, error) {
	opts = opts.norm()
	start, end, err := c.span(buf, idx)
	if err != nil {
		return idx, err
	}
	o := c.order.Resolve(opts.ByteOrder).wire()
	group := binary.Uint(buf[start:end], o)
	group = bits.Deposit(group, c.align.BitOffset, c.width, v)
	binary.PutUint(buf[start:end], group, o)
	c.index = idx
	return idx.Advance(c.BitSize()), nil
}
