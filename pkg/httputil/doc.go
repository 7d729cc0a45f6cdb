// Package httputil downloads remote tag resources.
//
// A [Fetcher] performs one GET per reference with retry and, when given a
// [cache.Cache], keeps the response body so a restarted host does not
// download the same icon again:
//
//	f := httputil.NewFetcher(httputil.WithCache(store, 24*time.Hour))
//	data, err := f.Fetch(ctx, "https://example.com/go.png")
//
// Network failures, 429 and 5xx responses are retried with exponential
// backoff. Any other non-200 status fails immediately.
package httputil
