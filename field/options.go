package field

import "go.uber.org/zap"

// Options is the reader context threaded through every decode and encode
// call. There is no global state: the mapper's overall byte order, pointer
// null policy and nested resolution mode all travel here.
type Options struct {
	// ByteOrder is the mapper-wide endianness. Leaves with an explicit order
	// override it.
	ByteOrder ByteOrder
	// NullAllowed permits pointer resolution to treat a zero address as
	// "nothing attached" instead of failing.
	NullAllowed bool
	// Nested makes pointer resolution recurse into every descendant pointer's
	// data instead of stopping at the immediate sub-tree.
	Nested bool
	// Logger receives pointer-resolution traces. Never nil after NewOptions.
	Logger *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithByteOrder sets the mapper-wide byte order.
func WithByteOrder(o ByteOrder) Option {
	return func(opts *Options) { opts.ByteOrder = o }
}

// WithNullAllowed permits resolving null pointers as no-ops.
func WithNullAllowed() Option {
	return func(opts *Options) { opts.NullAllowed = true }
}

// WithNested makes pointer resolution recursive.
func WithNested() Option {
	return func(opts *Options) { opts.Nested = true }
}

// WithLogger installs a logger for pointer-resolution traces.
func WithLogger(l *zap.Logger) Option {
	return func(opts *Options) {
		if l != nil {
			opts.Logger = l
		}
	}
}

// NewOptions returns Options with little-endian order, strict null handling,
// shallow resolution and a nop logger.
func NewOptions(options ...Option) *Options {
	opts := &Options{
		ByteOrder: LittleEndian,
		Logger:    zap.NewNop(),
	}
	for _, o := range options {
		o(opts)
	}
	return opts
}

// norm lets leaves accept a nil *Options.
func (o *Options) norm() *Options {
	if o == nil {
		return NewOptions()
	}
	return o
}
