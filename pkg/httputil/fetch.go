package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/tagcloud/pkg/cache"
)

const (
	// DefaultMaxBytes bounds one response body.
	DefaultMaxBytes = 10 << 20

	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
)

// Fetcher downloads URLs with retry and an optional response cache.
// It is safe for concurrent use when its cache is.
type Fetcher struct {
	client   *http.Client
	cache    cache.Cache
	ttl      time.Duration
	maxBytes int64
	attempts int
	delay    time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces http.DefaultClient.
func WithClient(c *http.Client) Option { return func(f *Fetcher) { f.client = c } }

// WithCache stores successful responses in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(f *Fetcher) { f.cache, f.ttl = c, ttl }
}

// WithMaxBytes bounds the response body size.
func WithMaxBytes(n int64) Option { return func(f *Fetcher) { f.maxBytes = n } }

// WithRetry sets the attempt count and the first backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(f *Fetcher) { f.attempts, f.delay = attempts, delay }
}

// NewFetcher returns a Fetcher with the given options applied.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   http.DefaultClient,
		cache:    cache.NewNullCache(),
		maxBytes: DefaultMaxBytes,
		attempts: defaultAttempts,
		delay:    defaultDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Key returns the cache key for url.
func Key(url string) string {
	return "resource:" + cache.Hash([]byte(url))
}

// Fetch returns the body of url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := Key(url)
	if data, ok, err := f.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}

	var data []byte
	err := cache.Retry(ctx, f.attempts, f.delay, func() error {
		var err error
		data, err = f.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	_ = f.cache.Set(ctx, key, data, f.ttl)
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: GET %s: %v", cache.ErrNetwork, url, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return nil, cache.Retryable(fmt.Errorf("GET %s: %s", url, resp.Status))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read %s: %v", cache.ErrNetwork, url, err))
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", url, f.maxBytes)
	}
	return data, nil
}
