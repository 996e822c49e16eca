package field

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNullPointer is returned when a pointer with a zero address is resolved
// without null being allowed.
var ErrNullPointer = errors.New("null pointer dereference")

// ErrResizeLoop is returned when the resize-and-re-read protocol fails to
// converge: a decode hook keeps signaling a re-read without the required
// span strictly growing, or the round cap is hit.
var ErrResizeLoop = errors.New("resize protocol did not converge")

// AlignmentError is a declaration error: a group's accumulated bit widths
// overflow the group cell, or a field was placed where its alignment cannot
// hold. It indicates a malformed field tree, not bad data.
type AlignmentError struct {
	// Pos is the position of the offending field in its group, or -1 when
	// the group itself is malformed.
	Pos int
	Msg string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("alignment error: %s", e.Msg)
}

// IncompleteError is a declaration error: a container's members consumed a
// number of bits that is not a multiple of 8.
type IncompleteError struct {
	// Bits is the total number of bits consumed by the container.
	Bits uint64
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("incomplete declaration: container consumed %d bits, which is not byte-aligned", e.Bits)
}

// DecodeError is a data error: the buffer was shorter than a field required,
// or a leaf's bytes were malformed. The engine wraps it with the offending
// field's path on the way up.
type DecodeError struct {
	// Index is the cursor position at which decoding failed.
	Index Index
	// Need and Have are byte counts when the buffer was short.
	Need, Have uint64
	Msg        string
}

func (e *DecodeError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("decode error at %v: %s", e.Index, e.Msg)
	}
	return fmt.Sprintf("decode error at %v: buffer too short, need %d bytes, have %d", e.Index, e.Need, e.Have)
}
