// Package container composes fields into ordered trees and implements the
// decode/encode traversal engine. A Structure holds heterogeneous named
// members, a Sequence holds indexed members, an Array builds a homogeneous
// Sequence from a per-slot factory. Traversal walks members in declaration
// order, threading the Index through each member's decode or encode hook;
// declaration order is load-bearing because later members' shapes may depend
// on earlier members' decoded values.
package container

import (
	"fmt"

	"github.com/bytetools/binmap/field"
	"github.com/pkg/errors"
)

// Member is a node of a field tree: a leaf, a container or a pointer. Every
// field.Leaf satisfies Member.
type Member interface {
	// BitSize is the number of bits the member consumes in the stream layout.
	BitSize() uint64
	// Decode reads the member from buf at idx and returns the advanced Index.
	// A returned Index with Update set is the re-read signal, not an error.
	Decode(buf []byte, idx field.Index, opts *field.Options) (field.Index, error)
	// Encode writes the member into buf at idx and returns the advanced
	// Index. Encode never re-reads.
	Encode(buf []byte, idx field.Index, opts *field.Options) (field.Index, error)
}

// Named pairs a member with the name it was declared under. Sequence members
// carry their bracketed position as the name.
type Named struct {
	Name   string
	Member Member
}

// Composite is implemented by members that contain other members. Walk uses
// it to traverse a tree without knowing concrete container types.
type Composite interface {
	Members() []Named
}

// Structure is an ordered composition of named members. Build it with Add;
// declaration order is the decode/encode order. Reusing a base layout is
// done by adding a whole Structure as a member, not by inheritance.
type Structure struct {
	members []Named
	names   map[string]int
	index   field.Index
}

// NewStructure returns an empty Structure.
func NewStructure() *Structure {
	return &Structure{names: map[string]int{}}
}

// Add appends a member under a name and returns the Structure for chaining.
// Empty or duplicate names are declaration errors and panic.
func (s *Structure) Add(name string, m Member) *Structure {
	if name == "" {
		panic("structure member name cannot be empty")
	}
	if _, ok := s.names[name]; ok {
		panic(fmt.Sprintf("structure already has a member named %q", name))
	}
	if m == nil {
		panic(fmt.Sprintf("structure member %q cannot be nil", name))
	}
	s.names[name] = len(s.members)
	s.members = append(s.members, Named{Name: name, Member: m})
	return s
}

// Member returns the member declared under name.
func (s *Structure) Member(name string) (Member, error) {
	i, ok := s.names[name]
	if !ok {
		return nil, errors.Errorf("structure has no member named %q", name)
	}
	return s.members[i].Member, nil
}

// MustMember is Member that panics on unknown names.
func (s *Structure) MustMember(name string) Member {
	m, err := s.Member(name)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// Members implements Composite.
func (s *Structure) Members() []Named {
	return append([]Named(nil), s.members...)
}

// Len returns the number of direct members.
func (s *Structure) Len() int { return len(s.members) }

// BitSize implements Member: the sum of the direct members' layout sizes.
func (s *Structure) BitSize() uint64 {
	var n uint64
	for _, e := range s.members {
		n += e.Member.BitSize()
	}
	return n
}

// LastIndex returns the Index recorded at the start of the last decode or
// encode of this Structure.
func (s *Structure) LastIndex() field.Index { return s.index }

// Decode implements Member: walk the members in declaration order. A member
// signaling Update aborts the walk immediately and propagates the Index
// unresolved; the nearest Provider-owning ancestor re-reads and re-runs the
// decode from the top, which is safe because decode only assigns values and
// resizes, both idempotent. After the last member the consumed length must
// be byte-aligned or the declaration is malformed.
func (s *Structure) Decode(buf []byte, idx field.Index, opts *field.Options) (field.Index, error) {
	s.index = idx
	start := idx
	for _, e := range s.members {
		next, err := e.Member.Decode(buf, idx, opts)
		if err != nil {
			return idx, errors.Wrapf(err, ".%s", e.Name)
		}
		if next.Update {
			return next, nil
		}
		idx = next
	}
	if idx.Bit != 0 {
		return idx, &field.IncompleteError{Bits: consumed(start, idx)}
	}
	return idx, nil
}

// Encode implements Member: the mirror walk, writing each member's bits at
// its own Index. Encode never re-reads, so an Update signal from a member's
// encode hook is a declaration error.
func (s *Structure) Encode(buf []byte, idx field.Index, opts *field.Options) (field.Index, error) {
	s.index = idx
	start := idx
	for _, e := range s.members {
		next, err := e.Member.Encode(buf, idx, opts)
		if err != nil {
			return idx, errors.Wrapf(err, ".%s", e.Name)
		}
		if next.Update {
			return idx, errors.Errorf(".%s: member signaled a re-read during encode", e.Name)
		}
		idx = next
	}
	if idx.Bit != 0 {
		return idx, &field.IncompleteError{Bits: consumed(start, idx)}
	}
	return idx, nil
}

func consumed(start, end field.Index) uint64 {
	return (end.Byte-start.Byte)*8 + uint64(end.Bit) - uint64(start.Bit)
}

// Sequence is an ordered composition of indexed members.
type Sequence struct {
	members []Member
	index   field.Index
}

// NewSequence returns an empty Sequence.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Append adds members in order and returns the Sequence for chaining.
func (q *Sequence) Append(ms ...Member) *Sequence {
	for _, m := range ms {
		if m == nil {
			panic("sequence member cannot be nil")
		}
		q.members = append(q.members, m)
	}
	return q
}

// Len returns the number of members.
func (q *Sequence) Len() int { return len(q.members) }

// At returns the member at position i.
func (q *Sequence) At(i int) Member { return q.members[i] }

// Members implements Composite.
func (q *Sequence) Members() []Named {
	out := make([]Named, len(q.members))
	for i, m := range q.members {
		out[i] = Named{Name: fmt.Sprintf("[%d]", i), Member: m}
	}
	return out
}

// BitSize implements Member.
func (q *Sequence) BitSize() uint64 {
	var n uint64
	for _, m := range q.members {
		n += m.BitSize()
	}
	return n
}

// LastIndex returns the Index recorded at the start of the last decode or
// encode of this Sequence.
func (q *Sequence) LastIndex() field.Index { return q.index }

// Decode implements Member with the same walk and abort rules as Structure.
func (q *Sequence) Decode(buf []byte, idx field.Index, opts *field.Options) (field.Index, error) {
	q.index = idx
	start := idx
	for i, m := range q.members {
		next, err := m.Decode(buf, idx, opts)
		if err != nil {
			return idx, errors.Wrapf(err, "[%d]", i)
		}
		if next.Update {
			return next, nil
		}
		idx = next
	}
	if idx.Bit != 0 {
		return idx, &field.IncompleteError{Bits: consumed(start, idx)}
	}
	return idx, nil
}

// Encode implements Member.
func (q *Sequence) Encode(buf []byte, idx field.Index, opts *field.Options) (field.Index, error) {
	q.index = idx
	start := idx
	for i, m := range q.members {
		next, err := m.Encode(buf, idx, opts)
		if err != nil {
			return idx, errors.Wrapf(err, "[%d]", i)
		}
		if next.Update {
			return idx, errors.Errorf("[%d]: member signaled a re-read during encode", i)
		}
		idx = next
	}
	if idx.Bit != 0 {
		return idx, &field.IncompleteError{Bits: consumed(start, idx)}
	}
	return idx, nil
}

// Array is a homogeneous Sequence whose members come from a factory invoked
// once per slot. One constructed instance must never be shared across slots:
// slots would alias the same value and the last decode would win. The
// factory returning an instance it already produced is therefore a
// declaration error and panics.
type Array struct {
	Sequence
}

// NewArray builds an Array of count slots, calling make once per slot.
func NewArray(count int, make func() Member) *Array {
	if count < 0 {
		panic(fmt.Sprintf("array count cannot be negative, got %d", count))
	}
	if make == nil {
		panic("array factory cannot be nil")
	}
	a := &Array{}
	seen := map[Member]struct{}{}
	for i := 0; i < count; i++ {
		m := make()
		if m == nil {
			panic(fmt.Sprintf("array factory returned nil for slot %d", i))
		}
		if _, ok := seen[m]; ok {
			panic(fmt.Sprintf("array factory returned the same instance for slot %d; every slot needs its own instance", i))
		}
		seen[m] = struct{}{}
		a.members = append(a.members, m)
	}
	return a
}

// Walk visits every node of a field tree depth-first in declaration order,
// calling fn with the node's dotted path ("" for the root). Returning an
// error stops the walk.
func Walk(root Member, fn func(path string, m Member) error) error {
	return walk("", root, fn)
}

func walk(path string, m Member, fn func(string, Member) error) error {
	if err := fn(path, m); err != nil {
		return err
	}
	c, ok := m.(Composite)
	if !ok {
		return nil
	}
	for _, e := range c.Members() {
		if err := walk(join(path, e.Name), e.Member, fn); err != nil {
			return err
		}
	}
	return nil
}

func join(path, name string) string {
	switch {
	case name == "":
		return path
	case path == "":
		return name
	case name[0] == '[':
		return path + name
	}
	return path + "." + name
}
