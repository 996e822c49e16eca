package container

import "github.com/bytetools/binmap/field"

// HookFunc is a per-member decode or encode strategy. It receives the member
// it wraps and must return a well-formed Index; returning an Index with
// Update set propagates the re-read signal exactly as a member's own decode
// would.
type HookFunc func(next Member, buf []byte, idx field.Index, opts *field.Options) (field.Index, error)

// Hooked wraps a member with custom decode/encode strategies. This is the
// engine's extensibility point: domain logic such as "decode a length field,
// then resize a sibling to that length" lives in a hook, never in the engine
// itself. A nil strategy falls through to the wrapped member.
type Hooked struct {
	next     Member
	onDecode HookFunc
	onEncode HookFunc
}

// Hook wraps m with a decode strategy.
func Hook(m Member, onDecode HookFunc) *Hooked {
	return HookBoth(m, onDecode, nil)
}

// HookBoth wraps m with decode and encode strategies.
func HookBoth(m Member, onDecode, onEncode HookFunc) *Hooked {
	if m == nil {
		panic("cannot hook a nil member")
	}
	return &Hooked{next: m, onDecode: onDecode, onEncode: onEncode}
}

// Unwrap returns the wrapped member.
func (h *Hooked) Unwrap() Member { return h.next }

// Members implements Composite so walks see through the hook.
func (h *Hooked) Members() []Named {
	return []Named{{Member: h.next}}
}

// BitSize implements Member.
func (h *Hooked) BitSize() uint64 { return h.next.BitSize() }

// Decode implements Member.
func (h *Hooked) Decode(buf []byte, idx field.Index, opts *field.Options) (field.Index, error) {
	if h.onDecode == nil {
		return h.next.Decode(buf, idx, opts)
	}
	return h.onDecode(h.next, buf, idx, opts)
}

// Encode implements Member.
func (h *Hooked) Encode(buf []byte, idx field.Index, opts *field.Options) (field.Index, error) {
	if h.onEncode == nil {
		return h.next.Encode(buf, idx, opts)
	}
	return h.onEncode(h.next, buf, idx, opts)
}

// SizedBy is the canonical resize hook: it wraps an unsigned length member
// so that, after the length decodes, the sized member is resized to the
// decoded count and a re-read is signaled if its shape changed. The second
// pass finds the shape already correct and proceeds, so the protocol
// terminates after one re-read.
func SizedBy(length *field.Unsigned, sized interface {
	Size() uint64
	Resize(uint64)
}) *Hooked {
	return Hook(length, func(next Member, buf []byte, idx field.Index, opts *field.Options) (field.Index, error) {
		out, err := next.Decode(buf, idx, opts)
		if err != nil {
			return out, err
		}
		if n := length.Uint(); sized.Size() != n {
			sized.Resize(n)
			return out.WithUpdate(), nil
		}
		return out, nil
	})
}
