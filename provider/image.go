package provider

import (
	"bytes"
	"os"

	"github.com/bytetools/binmap/internal/binary"
	"github.com/golang/snappy"
	"github.com/gostdlib/base/context"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Compressor is the codec an Image file is stored with.
type Compressor interface {
	// Compress compresses data. Returns compressed data or error.
	Compress(data []byte) ([]byte, error)
	// Decompress decompresses data. Returns original data or error.
	Decompress(data []byte) ([]byte, error)
}

// Snappy implements Compressor using the Snappy compression algorithm.
// Snappy is optimized for speed rather than compression ratio.
type Snappy struct{}

// Compress compresses data using Snappy.
func (s Snappy) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

// Decompress decompresses Snappy data.
func (s Snappy) Decompress(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}

// Zstd implements Compressor using the Zstandard compression algorithm.
// Zstd provides better compression ratios than Snappy at good speed.
type Zstd struct {
	// Level is the compression level. If 0, defaults to zstd.SpeedDefault.
	Level zstd.EncoderLevel
}

// Compress compresses data using Zstandard.
func (z Zstd) Compress(data []byte) ([]byte, error) {
	level := z.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// Decompress decompresses Zstandard data.
func (z Zstd) Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// Image files start with a fixed header: the magic bytes, then the
// uncompressed image size as a little-endian uint32. The compressed payload
// follows.
var imageMagic = []byte{'b', 'm', 'i', '1'}

const imageHeaderLen = 8

// Image is a Provider over a memory image persisted as a compressed file.
// The image is decompressed into memory at open; reads and writes hit the
// in-memory copy and Flush persists it back.
type Image struct {
	*Mem
	path  string
	codec Compressor
}

// OpenImage loads the compressed image at path using codec.
func OpenImage(path string, codec Compressor) (*Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "provider")
	}
	if len(raw) < imageHeaderLen || !bytes.Equal(raw[:len(imageMagic)], imageMagic) {
		return nil, errors.Errorf("provider: %q is not an image file", path)
	}
	size := binary.Get[uint32](raw[len(imageMagic):], binary.LittleEndian)
	data, err := codec.Decompress(raw[imageHeaderLen:])
	if err != nil {
		return nil, errors.Wrapf(err, "provider: decompressing image %q", path)
	}
	if uint32(len(data)) != size {
		return nil, errors.Errorf("provider: image %q decompressed to %d bytes, header says %d", path, len(data), size)
	}
	return &Image{Mem: NewMem(data), path: path, codec: codec}, nil
}

// CreateImage writes data as a new compressed image at path and opens it.
func CreateImage(path string, data []byte, codec Compressor) (*Image, error) {
	img := &Image{Mem: NewMem(data), path: path, codec: codec}
	if err := img.Flush(context.Background()); err != nil {
		return nil, err
	}
	return img, nil
}

// Flush compresses the in-memory image and writes it back to its file.
// A write to the Image is not durable until Flush returns.
func (i *Image) Flush(ctx context.Context) error {
	data := i.Bytes()
	payload, err := i.codec.Compress(data)
	if err != nil {
		return errors.Wrapf(err, "provider: compressing image %q", i.path)
	}
	raw := make([]byte, imageHeaderLen, imageHeaderLen+len(payload))
	copy(raw, imageMagic)
	binary.Put[uint32](raw[len(imageMagic):], uint32(len(data)), binary.LittleEndian)
	raw = append(raw, payload...)
	if err := os.WriteFile(i.path, raw, 0o644); err != nil {
		return errors.Wrap(err, "provider")
	}
	return nil
}
