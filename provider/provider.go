// Package provider abstracts the byte-addressable data sources the mapper
// reads field trees from and writes them back to: raw memory buffers, files,
// and compressed memory-image files. The engine touches a Provider only from
// pointer resolution, never from container traversal.
package provider

import (
	"fmt"

	"github.com/gostdlib/base/context"
)

// Provider is an addressable data source. Implementations must serialize
// concurrent access themselves; a single Provider is commonly shared by
// several pointers into the same source.
type Provider interface {
	// Read returns count bytes starting at address.
	Read(ctx context.Context, address, count uint64) ([]byte, error)
	// Write stores the first count bytes of buf at address.
	Write(ctx context.Context, buf []byte, address, count uint64) error
}

// Error is a provider failure: an out-of-range address or an I/O fault. The
// engine surfaces these verbatim and never retries them.
type Error struct {
	// Op is "read" or "write".
	Op string
	// Address and Count describe the rejected access.
	Address, Count uint64
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s of %d bytes at %#x: %v", e.Op, e.Count, e.Address, e.Err)
	}
	return fmt.Sprintf("provider %s of %d bytes at %#x: out of range", e.Op, e.Count, e.Address)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }
