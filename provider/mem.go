package provider

import (
	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"
)

// Mem is a Provider over an in-memory byte buffer, typically a loaded hex
// dump or memory image. Accesses beyond the buffer are out of range; Mem
// never grows.
type Mem struct {
	mu   sync.Mutex
	data []byte
}

// NewMem returns a Mem owning a copy of data.
func NewMem(data []byte) *Mem {
	return &Mem{data: append([]byte(nil), data...)}
}

// Size returns the buffer size in bytes.
func (m *Mem) Size() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(len(m.data))
}

// Bytes returns a copy of the buffer.
func (m *Mem) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// Read implements Provider.
func (m *Mem) Read(ctx context.Context, address, count uint64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if address+count > uint64(len(m.data)) || address+count < address {
		return nil, &Error{Op: "read", Address: address, Count: count}
	}
	out := make([]byte, count)
	copy(out, m.data[address:address+count])
	return out, nil
}

// Write implements Provider.
func (m *Mem) Write(ctx context.Context, buf []byte, address, count uint64) error {
	if count > uint64(len(buf)) {
		return &Error{Op: "write", Address: address, Count: count}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if address+count > uint64(len(m.data)) || address+count < address {
		return &Error{Op: "write", Address: address, Count: count}
	}
	copy(m.data[address:address+count], buf[:count])
	return nil
}
