package dbuf

type options struct {
	maxReaders int
}

// Option configures a Buffer.
type Option func(*options)

// WithMaxReaders limits the number of Readers that may be registered with a
// Buffer at once. Reads that would need a new Reader past the limit fail. A
// limit <= 0, the default, means no limit.
func WithMaxReaders(n int) Option {
	return func(o *options) { o.maxReaders = n }
}
