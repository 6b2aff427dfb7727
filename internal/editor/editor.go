package editor

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/ironsheep/imgedit/internal/codec"
	"github.com/ironsheep/imgedit/internal/imaging"
	"github.com/ironsheep/imgedit/internal/pixel"
)

// Editor creates editable images from compressed bytes.
type Editor interface {
	// CreateImage decodes data synchronously.
	CreateImage(data []byte) (*Image, error)

	// CreateImageAsync decodes data on a background goroutine. data must not
	// be modified until the returned Future is done.
	CreateImageAsync(ctx context.Context, data []byte) *Future
}

// Config tunes an ImageEditor. Zero values select the defaults.
type Config struct {
	Workers      int            // concurrent async decodes; default runtime.NumCPU()
	MaxPixels    int64          // decode size limit; 0 disables it
	AutoOrient   bool           // apply EXIF orientation to JPEG input
	JPEGQuality  int            // 1-100; default codec.DefaultJPEGQuality
	ResizeFilter imaging.Filter // kernel used by Image.Resize
}

// Option configures an ImageEditor.
type Option func(*ImageEditor)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *ImageEditor) {
		e.logger = logger
	}
}

// WithRegistry replaces the encoder registry.
func WithRegistry(r *codec.Registry) Option {
	return func(e *ImageEditor) {
		e.registry = r
	}
}

// ImageEditor is the portable Editor backed by the Go image codecs.
type ImageEditor struct {
	cfg      Config
	logger   *zap.Logger
	registry *codec.Registry
	sem      *semaphore.Weighted
}

var _ Editor = (*ImageEditor)(nil)

// New creates an ImageEditor.
func New(cfg Config, opts ...Option) *ImageEditor {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = codec.DefaultJPEGQuality
	}

	e := &ImageEditor{
		cfg:      cfg,
		logger:   zap.NewNop(),
		registry: codec.NewRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sem = semaphore.NewWeighted(int64(e.cfg.Workers))
	return e
}

// Config returns the effective configuration.
func (e *ImageEditor) Config() Config { return e.cfg }

// Registry returns the encoders used by images from this editor.
func (e *ImageEditor) Registry() *codec.Registry { return e.registry }

// CreateImage decodes data into a new Image.
func (e *ImageEditor) CreateImage(data []byte) (*Image, error) {
	buf, format, err := codec.Decode(data,
		codec.WithMaxPixels(e.cfg.MaxPixels),
		codec.WithAutoOrient(e.cfg.AutoOrient),
	)
	if err != nil {
		e.logger.Warn("decode failed",
			zap.Int("bytes", len(data)),
			zap.String("format", string(format)),
			zap.Error(err))
		return nil, err
	}

	e.logger.Debug("decoded image",
		zap.String("format", string(format)),
		zap.Int("width", buf.Width),
		zap.Int("height", buf.Height))

	return &Image{
		buf:    buf,
		format: format,
		editor: e,
	}, nil
}

// FromBuffer wraps a copy of buf as an Image. format records where the pixels
// came from and may be codec.FormatUnknown.
func (e *ImageEditor) FromBuffer(buf *pixel.Buffer, format codec.Format) *Image {
	return &Image{
		buf:    buf.Clone(),
		format: format,
		editor: e,
	}
}

// CreateImageAsync decodes data on a goroutine once a worker slot is free.
// Cancelling ctx while waiting for a slot completes the Future with ctx.Err().
func (e *ImageEditor) CreateImageAsync(ctx context.Context, data []byte) *Future {
	f := newFuture()
	go func() {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			f.complete(nil, err)
			return
		}
		defer e.sem.Release(1)
		f.complete(e.CreateImage(data))
	}()
	return f
}

// Future is the pending result of CreateImageAsync.
type Future struct {
	done chan struct{}
	img  *Image
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) complete(img *Image, err error) {
	f.img, f.err = img, err
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the decode finishes or ctx is done. Abandoning a Future
// through ctx does not stop the decode; its result is discarded.
func (f *Future) Wait(ctx context.Context) (*Image, error) {
	select {
	case <-f.done:
		return f.img, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
