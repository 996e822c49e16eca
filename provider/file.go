package provider

import (
	"os"

	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"
	"github.com/pkg/errors"
)

// File is a Provider over a regular file, addressed by file offset.
type File struct {
	mu sync.Mutex
	f  *os.File
}

// OpenFile opens path for reading and writing.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrap(err, "provider")
	}
	return &File{f: f}, nil
}

// Close closes the underlying file.
func (p *File) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.f.Close()
}

// Read implements Provider.
func (p *File) Read(ctx context.Context, address, count uint64) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]byte, count)
	if _, err := p.f.ReadAt(out, int64(address)); err != nil {
		return nil, &Error{Op: "read", Address: address, Count: count, Err: err}
	}
	return out, nil
}

// Write implements Provider.
func (p *File) Write(ctx context.Context, buf []byte, address, count uint64) error {
	if count > uint64(len(buf)) {
		return &Error{Op: "write", Address: address, Count: count}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.f.WriteAt(buf[:count], int64(address)); err != nil {
		return &Error{Op: "write", Address: address, Count: count, Err: err}
	}
	return nil
}
