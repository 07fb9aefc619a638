package engine

import (
	"log/slog"
	"time"

	"github.com/hupe1980/vecbridge/blobstore"
	"github.com/hupe1980/vecbridge/codec"
	"github.com/hupe1980/vecbridge/internal/compress"
	"github.com/hupe1980/vecbridge/internal/resource"
)

type options struct {
	store         blobstore.BlobStore
	codec         codec.Codec
	compression   compress.Type
	resources     *resource.Controller
	logger        *slog.Logger
	flushInterval time.Duration
}

// Option configures Open.
type Option func(*options)

// WithBlobStore persists collections to store. Without a store the engine
// is purely in-memory.
func WithBlobStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithCodec configures the codec used for new snapshots.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures snapshot compression (default LZ4).
func WithCompression(t compress.Type) Option {
	return func(o *options) {
		o.compression = t
	}
}

// WithResourceController bounds search concurrency and snapshot IO.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFlushInterval sets how often dirty collections are flushed to the blob
// store. Zero disables the background flush; state is still flushed on Close.
func WithFlushInterval(d time.Duration) Option {
	return func(o *options) {
		o.flushInterval = d
	}
}
