// Package pointer implements indirection in a field tree: a Pointer is a
// leaf whose decoded value is an address, plus an attached data sub-tree that
// lives at that address in a Provider rather than inline in the parent's
// byte layout. ReadFrom fetches the addressed span and decodes the sub-tree,
// honoring the resize-and-re-read protocol with a bounded, strictly
// size-increasing retry loop; WriteTo re-encodes the sub-tree (or one member
// of it) and commits it. Pointers nest: a sub-tree may contain further
// pointers, resolved recursively in nested mode or left unresolved in
// shallow mode.
package pointer

import (
	"fmt"

	"github.com/bytetools/binmap/container"
	"github.com/bytetools/binmap/field"
	"github.com/bytetools/binmap/provider"
	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxResizeRounds caps the re-read loop. One round is enough once shapes are
// fixed after a resize; the cap only turns a non-converging hook into a loud
// failure instead of a spin.
const maxResizeRounds = 8

var encodeBufs = sync.NewPool[*[]byte](
	context.Background(),
	"pointerEncodeBuffers",
	func() *[]byte {
		b := make([]byte, 0, 512)
		return &b
	},
	sync.WithBuffer(32),
)

// Pointer is a Member holding an address, with an attached data sub-tree
// resolved through a Provider. As a plain tree member it decodes and encodes
// only its own address cell; Provider traffic happens exclusively in
// ReadFrom and WriteTo.
type Pointer struct {
	addr       *field.Unsigned
	data       container.Member
	dataOrder  field.ByteOrder
	bytestream []byte
	base       uint64
	relative   bool

	// readOrder is the effective byte order of the last ReadFrom. WriteTo
	// encodes with it so a read/write round trip never swaps bytes.
	readOrder field.ByteOrder
}

// Option configures a Pointer.
type Option func(*Pointer)

// WithDataByteOrder sets the byte order used for the attached sub-tree,
// independent of the pointer's own cell order.
func WithDataByteOrder(o field.ByteOrder) Option {
	return func(p *Pointer) { p.dataOrder = o }
}

// WithBaseAddress sets the origin a relative pointer offsets from. Nested
// resolution overwrites it with the enclosing pointer's target.
func WithBaseAddress(base uint64) Option {
	return func(p *Pointer) { p.base = base }
}

// New returns an absolute Pointer of the given address cell width with data
// attached (data may be nil and assigned later). Valid widths are 8, 16, 24,
// 32, 48 and 64 bits; anything else is a declaration error and panics.
func New(width uint64, data container.Member, opts ...Option) *Pointer {
	switch width {
	case 8, 16, 24, 32, 48, 64:
	default:
		panic(fmt.Sprintf("pointer width must be 8/16/24/32/48/64 bits, got %d", width))
	}
	p := &Pointer{addr: field.NewUnsigned(width), data: data}
	for _, o := range opts {
		o(p)
	}
	return p
}

// NewRelative returns a Pointer whose address is an offset added to its base
// address rather than an absolute address.
func NewRelative(width uint64, data container.Member, opts ...Option) *Pointer {
	p := New(width, data, opts...)
	p.relative = true
	return p
}

// Address returns the pointer's raw address value.
func (p *Pointer) Address() uint64 { return p.addr.Uint() }

// SetAddress sets the pointer's raw address value.
func (p *Pointer) SetAddress(a uint64) { p.addr.SetUint(a) }

// Null reports whether the pointer's address is zero.
func (p *Pointer) Null() bool { return p.addr.Uint() == 0 }

// Relative reports whether the address is interpreted as an offset from the
// base address.
func (p *Pointer) Relative() bool { return p.relative }

// BaseAddress returns the origin used for relative addressing.
func (p *Pointer) BaseAddress() uint64 { return p.base }

// SetBaseAddress sets the origin used for relative addressing.
func (p *Pointer) SetBaseAddress(base uint64) { p.base = base }

// Target returns the provider address the pointer dereferences to.
func (p *Pointer) Target() uint64 {
	if p.relative {
		return p.base + p.addr.Uint()
	}
	return p.addr.Uint()
}

// Data returns the attached sub-tree, nil when none is attached.
func (p *Pointer) Data() container.Member { return p.data }

// SetData replaces the attached sub-tree wholesale and drops the cached
// bytestream.
func (p *Pointer) SetData(m container.Member) {
	p.data = m
	p.bytestream = nil
}

// Bytestream returns the raw bytes the data sub-tree was last decoded from.
// WriteTo does not refresh it; re-read for a consistent view after writes.
func (p *Pointer) Bytestream() []byte { return p.bytestream }

// SetByteOrder sets the byte order of the pointer's own address cell.
func (p *Pointer) SetByteOrder(o field.ByteOrder) { p.addr.SetByteOrder(o) }

// LastIndex returns the Index of the pointer's own address cell.
func (p *Pointer) LastIndex() field.Index { return p.addr.LastIndex() }

// Value implements the leaf value contract for export views: the raw
// address.
func (p *Pointer) Value() any { return p.addr.Uint() }

// BitSize implements container.Member: only the address cell occupies the
// parent's layout; the data sub-tree is referenced, not embedded.
func (p *Pointer) BitSize() uint64 { return p.addr.BitSize() }

// Decode implements container.Member by decoding the address cell.
func (p *Pointer) Decode(buf []byte, idx field.Index, opts *field.Options) (field.Index, error) {
	return p.addr.Decode(buf, idx, opts)
}

// Encode implements container.Member by encoding the address cell.
func (p *Pointer) Encode(buf []byte, idx field.Index, opts *field.Options) (field.Index, error) {
	return p.addr.Encode(buf, idx, opts)
}

// Members implements container.Composite so tree walks and export views see
// through the indirection into the attached sub-tree.
func (p *Pointer) Members() []container.Named {
	if p.data == nil {
		return nil
	}
	return []container.Named{{Name: "data", Member: p.data}}
}

// dataSpan is the byte span the data sub-tree currently requires.
func (p *Pointer) dataSpan() uint64 {
	n := (p.data.BitSize() + 7) / 8
	if n == 0 {
		n = 1
	}
	return n
}

// ReadFrom dereferences the pointer: it reads the data sub-tree's byte span
// from prov at the target address and decodes the sub-tree against it,
// caching the raw bytes. A decode pass signaling a re-read causes another
// provider read over the grown span; every retry must strictly increase the
// span and the loop is capped, so a hook that resizes once terminates after
// exactly one re-read and a hook that never converges fails with
// ErrResizeLoop.
//
// A zero address is ErrNullPointer unless opts allows nulls, in which case
// the data stays undecoded and prov is never called. In nested mode every
// pointer found inside the decoded sub-tree is resolved recursively, with
// this pointer's target as the descendant's base address.
func (p *Pointer) ReadFrom(ctx context.Context, prov provider.Provider, opts *field.Options) error {
	if opts == nil {
		opts = field.NewOptions()
	}
	if p.Null() {
		if opts.NullAllowed {
			return nil
		}
		return errors.WithStack(field.ErrNullPointer)
	}
	if p.data == nil {
		return nil
	}

	target := p.Target()
	dataOpts := p.dataOptions(opts)
	p.readOrder = dataOpts.ByteOrder
	span := p.dataSpan()
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	for round := 1; ; round++ {
		if round > maxResizeRounds {
			return errors.Wrapf(field.ErrResizeLoop, "pointer at %#x: %d re-read rounds", target, maxResizeRounds)
		}
		log.Debug("pointer read",
			zap.Uint64("address", target),
			zap.Uint64("span", span),
			zap.Int("round", round),
		)

		buf, err := prov.Read(ctx, target, span)
		if err != nil {
			return err
		}

		idx := field.Index{Address: target, BaseAddress: target}
		next, err := p.data.Decode(buf, idx, dataOpts)
		if err != nil {
			return errors.Wrapf(err, "pointer at %#x", target)
		}
		if !next.Update {
			p.bytestream = buf
			break
		}

		grown := p.dataSpan()
		if grown <= span {
			return errors.Wrapf(field.ErrResizeLoop, "pointer at %#x: re-read requested but span did not grow past %d bytes", target, span)
		}
		span = grown
	}

	if opts.Nested {
		return resolveNested(ctx, prov, p.data, opts, target)
	}
	return nil
}

// resolveNested resolves every pointer in the tree under m, without
// descending past a pointer itself: each resolved pointer recurses through
// its own ReadFrom, which carries the nested flag.
func resolveNested(ctx context.Context, prov provider.Provider, m container.Member, opts *field.Options, base uint64) error {
	if child, ok := m.(*Pointer); ok {
		child.SetBaseAddress(base)
		return child.ReadFrom(ctx, prov, opts)
	}
	if h, ok := m.(interface{ Unwrap() container.Member }); ok {
		return resolveNested(ctx, prov, h.Unwrap(), opts, base)
	}
	c, ok := m.(container.Composite)
	if !ok {
		return nil
	}
	for _, e := range c.Members() {
		if err := resolveNested(ctx, prov, e.Member, opts, base); err != nil {
			return errors.Wrapf(err, ".%s", e.Name)
		}
	}
	return nil
}

// WriteTo re-encodes target and commits it through prov. A nil target writes
// the whole data sub-tree at the pointer's address; otherwise target must be
// a member of the sub-tree whose position is known from the last decode, and
// only its span is written. Values are encoded with the byte order the last
// ReadFrom decoded with. The bytestream cache is deliberately not refreshed;
// callers needing a consistent view re-read.
func (p *Pointer) WriteTo(ctx context.Context, prov provider.Provider, target container.Member) error {
	if p.data == nil {
		return errors.New("pointer has no data to write")
	}
	if p.Null() {
		return errors.WithStack(field.ErrNullPointer)
	}
	if target == nil {
		target = p.data
	}

	at := p.Target()
	if target != p.data {
		li, ok := target.(interface{ LastIndex() field.Index })
		if !ok {
			return errors.Errorf("write target %T does not record its position; decode it first", target)
		}
		idx := li.LastIndex()
		if idx.Bit != 0 {
			return errors.Errorf("write target is not byte-aligned (bit offset %d)", idx.Bit)
		}
		at = idx.Address
	}

	span := (target.BitSize() + 7) / 8
	bp := encodeBufs.Get(ctx)
	defer encodeBufs.Put(ctx, bp)
	buf := grow(*bp, span)
	*bp = buf

	idx := field.Index{Address: at, BaseAddress: at}
	wopts := p.dataOptions(field.NewOptions(field.WithByteOrder(p.readOrder)))
	if _, err := target.Encode(buf, idx, wopts); err != nil {
		return errors.Wrapf(err, "pointer at %#x", at)
	}
	return prov.Write(ctx, buf, at, span)
}

// dataOptions derives the options used for the data sub-tree: the pointer's
// own data byte order wins over the caller's mapper-wide order.
func (p *Pointer) dataOptions(opts *field.Options) *field.Options {
	if opts == nil {
		opts = field.NewOptions()
	}
	out := *opts
	if p.dataOrder != field.Auto {
		out.ByteOrder = p.dataOrder
	}
	return &out
}

// grow returns b resized to n zeroed bytes, reallocating only when capacity
// requires it.
func grow(b []byte, n uint64) []byte {
	if uint64(cap(b)) < n {
		return make([]byte, n)
	}
	b = b[:n]
	for i := range b {
		b[i] = 0
	}
	return b
}
