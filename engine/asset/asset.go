// Package asset fetches buffers and images off the render thread.
//
// Fetches run on a bounded worker pool and complete a Future. Callers await the future
// before building the Accessor or Texture that depends on it, so nothing in the scene
// graph ever holds a half-loaded resource.
package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedScheme is returned for URIs that are not paths, file, http(s) or data URIs.
var ErrUnsupportedScheme = errors.New("unsupported uri scheme")

// Image is a decoded image together with the name of the format it was decoded from.
type Image struct {
	image.Image
	Format string
}

// Fetcher loads assets on a dynamic worker pool.
type Fetcher struct {
	pool        worker.DynamicWorkerPool
	workers     int
	queueSize   int
	idleTimeout time.Duration
	client      *http.Client
	baseDir     string
	nextID      atomic.Int64
	log         *zap.Logger
}

// NewFetcher creates a Fetcher. Workers default to one less than the CPU count, at least one.
//
// Parameters:
//   - options: functional options for the pool, HTTP client and base directory
//
// Returns:
//   - *Fetcher: the fetcher, ready to accept requests
func NewFetcher(options ...FetcherBuilderOption) *Fetcher {
	f := &Fetcher{
		workers:     max(runtime.NumCPU()-1, 1),
		queueSize:   64,
		idleTimeout: time.Second,
		client:      http.DefaultClient,
		log:         logger.Named("asset"),
	}
	for _, opt := range options {
		opt(f)
	}
	f.pool = worker.NewDynamicWorkerPool(f.workers, f.queueSize, f.idleTimeout)
	return f
}

// FetchBuffer reads the raw bytes at uri.
//
// Parameters:
//   - ctx: cancels an in-flight HTTP request
//   - uri: a file path, file://, http(s):// or data: URI
//
// Returns:
//   - *Future[[]byte]: completes with the bytes or the read error
func (f *Fetcher) FetchBuffer(ctx context.Context, uri string) *Future[[]byte] {
	fut := newFuture[[]byte]()
	f.submit(func() error {
		data, err := f.read(ctx, uri)
		fut.resolve(data, err)
		return err
	})
	return fut
}

// FetchImage reads and decodes the image at uri. PNG, JPEG, GIF, BMP, TIFF and WebP are recognized.
//
// Parameters:
//   - ctx: cancels an in-flight HTTP request
//   - uri: a file path, file://, http(s):// or data: URI
//
// Returns:
//   - *Future[Image]: completes with the decoded image or the read or decode error
func (f *Fetcher) FetchImage(ctx context.Context, uri string) *Future[Image] {
	fut := newFuture[Image]()
	f.submit(func() error {
		img, err := f.readImage(ctx, uri)
		fut.resolve(img, err)
		return err
	})
	return fut
}

func (f *Fetcher) submit(do func() error) {
	f.pool.SubmitTask(worker.Task{
		ID: int(f.nextID.Add(1)),
		Do: func() (any, error) {
			return nil, do()
		},
	})
}

func (f *Fetcher) readImage(ctx context.Context, uri string) (Image, error) {
	data, err := f.read(ctx, uri)
	if err != nil {
		return Image{}, err
	}
	img, err := DecodeImage(data)
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode image %q: %w", uri, err)
	}
	f.log.Debug("decoded image", zap.String("uri", uri), zap.String("format", img.Format),
		zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return img, nil
}

// DecodeImage decodes an in-memory image in any of the formats FetchImage recognizes.
//
// Parameters:
//   - data: the encoded image
//
// Returns:
//   - Image: the decoded image
//   - error: image.ErrFormat for unknown formats, or the decoder's error
func DecodeImage(data []byte) (Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, err
	}
	return Image{Image: img, Format: format}, nil
}

func (f *Fetcher) read(ctx context.Context, uri string) ([]byte, error) {
	src, err := parseURI(uri, f.baseDir)
	if err != nil {
		return nil, err
	}
	switch src.kind {
	case sourceData:
		data, _, err := decodeDataURI(src.data)
		return data, err
	case sourceHTTP:
		return f.get(ctx, src.path)
	default:
		data, err := os.ReadFile(src.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", src.path, err)
		}
		return data, nil
	}
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %q: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %q: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %q: %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %q: %w", url, err)
	}
	return data, nil
}
