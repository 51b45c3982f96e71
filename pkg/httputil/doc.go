// Package httputil provides HTTP utilities for remote topology sources.
//
// # Overview
//
// This package provides infrastructure for fetching topology documents over
// HTTP:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/bgpmap/) with
// configurable TTL. This speeds up repeated renders of the same remote
// topology and keeps re-layouts working while the source is unreachable.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	ok, err := cache.Get("topology:"+url, &doc)
//	if !ok {
//	    doc = fetchFromSource()
//	    cache.Set("topology:"+url, doc)
//	}
//
// Cache keys should be namespaced by source to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// It uses exponential backoff to avoid hammering a recovering source:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetch(url)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/bgpmap/
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `bgpmap cache clear` or by deleting the
// cache directory.
package httputil
