// Package export renders a decoded field tree into human-facing views: a
// flattened (path, value) list, a nested key/value mapping, JSON, and .ini
// persistence. The views consume the tree through the container walk and the
// leaf value contract; they impose nothing back on the engine.
package export

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/bytetools/binmap/container"
	"github.com/bytetools/binmap/field"
	"github.com/go-json-experiment/json"
)

// Attr selects which field attribute a flattened view reports.
type Attr uint8

const (
	AttrValue     Attr = 0
	AttrBitSize   Attr = 1
	AttrIndex     Attr = 2
	AttrAlignment Attr = 3
	AttrByteOrder Attr = 4
)

// PathValue is one row of a flattened view.
type PathValue struct {
	Path  string
	Value any
}

type valuer interface {
	Value() any
}

// Flatten returns the tree's value-bearing nodes as a (path, value) list in
// declaration order.
func Flatten(root container.Member) []PathValue {
	return FlattenAttr(root, AttrValue)
}

// FlattenAttr is Flatten over an arbitrary field attribute. Nodes that do
// not carry the attribute are skipped.
func FlattenAttr(root container.Member, attr Attr) []PathValue {
	var out []PathValue
	container.Walk(root, func(path string, m container.Member) error {
		if _, ok := m.(valuer); !ok {
			return nil
		}
		v, ok := attribute(m, attr)
		if !ok {
			return nil
		}
		out = append(out, PathValue{Path: path, Value: v})
		return nil
	})
	return out
}

func attribute(m container.Member, attr Attr) (any, bool) {
	switch attr {
	case AttrValue:
		return m.(valuer).Value(), true
	case AttrBitSize:
		return m.BitSize(), true
	case AttrIndex:
		if li, ok := m.(interface{ LastIndex() field.Index }); ok {
			return li.LastIndex(), true
		}
	case AttrAlignment:
		if al, ok := m.(interface{ Alignment() field.Alignment }); ok {
			return al.Alignment(), true
		}
	case AttrByteOrder:
		if bo, ok := m.(interface{ ByteOrder() field.ByteOrder }); ok {
			return bo.ByteOrder(), true
		}
	}
	return nil, false
}

// NestedMap returns the tree as a nested key/value mapping: structures
// become maps, sequences become lists, pointers become a map holding their
// address and data, leaves become their values.
func NestedMap(root container.Member) any {
	return nodeValue(root)
}

func nodeValue(m container.Member) any {
	if h, ok := m.(interface{ Unwrap() container.Member }); ok {
		return nodeValue(h.Unwrap())
	}

	if seq, ok := m.(interface {
		Len() int
		At(int) container.Member
	}); ok {
		out := make([]any, seq.Len())
		for i := range out {
			out[i] = nodeValue(seq.At(i))
		}
		return out
	}

	v, isValuer := m.(valuer)
	c, isComposite := m.(container.Composite)

	switch {
	case isValuer && isComposite:
		// A pointer: its address plus the referenced sub-tree.
		out := map[string]any{"address": v.Value()}
		for _, e := range c.Members() {
			out[e.Name] = nodeValue(e.Member)
		}
		return out
	case isComposite:
		out := make(map[string]any, len(c.Members()))
		for _, e := range c.Members() {
			out[e.Name] = nodeValue(e.Member)
		}
		return out
	case isValuer:
		return v.Value()
	}
	return nil
}

// JSON writes the tree's nested mapping as JSON.
func JSON(w io.Writer, root container.Member) error {
	b, err := json.Marshal(NestedMap(root))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// text renders a leaf value the way AssignText parses it back.
func text(v any) string {
	switch t := v.(type) {
	case []byte:
		return hex.EncodeToString(t)
	case time.Time:
		return t.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}
