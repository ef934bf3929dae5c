package asset

import (
	"net/http"
	"time"
)

// FetcherBuilderOption is a functional option for configuring a Fetcher.
type FetcherBuilderOption func(*Fetcher)

// WithWorkers sets the maximum number of concurrent fetches.
//
// Parameters:
//   - n: worker count, ignored unless positive
//
// Returns:
//   - FetcherBuilderOption: option function to apply
func WithWorkers(n int) FetcherBuilderOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithQueueSize sets how many fetches may wait for a free worker.
//
// Parameters:
//   - n: queue capacity, ignored unless positive
//
// Returns:
//   - FetcherBuilderOption: option function to apply
func WithQueueSize(n int) FetcherBuilderOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.queueSize = n
		}
	}
}

// WithIdleTimeout sets how long an idle worker lingers before exiting.
//
// Parameters:
//   - d: idle timeout, ignored unless positive
//
// Returns:
//   - FetcherBuilderOption: option function to apply
func WithIdleTimeout(d time.Duration) FetcherBuilderOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.idleTimeout = d
		}
	}
}

// WithHTTPClient sets the client used for http and https URIs.
//
// Parameters:
//   - c: the client
//
// Returns:
//   - FetcherBuilderOption: option function to apply
func WithHTTPClient(c *http.Client) FetcherBuilderOption {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithBaseDir sets the directory relative file paths resolve against.
//
// Parameters:
//   - dir: the base directory
//
// Returns:
//   - FetcherBuilderOption: option function to apply
func WithBaseDir(dir string) FetcherBuilderOption {
	return func(f *Fetcher) {
		f.baseDir = dir
	}
}
