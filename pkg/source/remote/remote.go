// Package remote fetches topology documents over HTTP.
//
// Responses are cached on disk so repeated renders of the same URL do not
// re-download the document, and transient failures are retried with backoff.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/routeviz/bgpmap/pkg/httputil"
)

// DefaultTTL is how long fetched documents stay fresh in the local cache.
const DefaultTTL = time.Hour

// maxDocumentSize bounds downloaded topology documents.
const maxDocumentSize = 10 << 20

// IsURL reports whether source names a remote document.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetcher downloads topology documents with caching and retry.
type Fetcher struct {
	client *http.Client
	cache  *httputil.Cache
}

// cachedDocument is the cache entry shape.
type cachedDocument struct {
	Body []byte `json:"body"`
}

// NewFetcher creates a fetcher caching into cacheDir (empty selects the
// default cache directory) with the given TTL (0 selects DefaultTTL).
func NewFetcher(cacheDir string, ttl time.Duration) (*Fetcher, error) {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	cache, err := httputil.NewCache(cacheDir, ttl)
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  cache.Namespace("remote:"),
	}, nil
}

// Fetch returns the document at url, from cache when fresh. A refresh forces
// a new download.
func (f *Fetcher) Fetch(ctx context.Context, url string, refresh bool) ([]byte, error) {
	if !refresh {
		var doc cachedDocument
		if ok, err := f.cache.Get(url, &doc); ok && err == nil {
			return doc.Body, nil
		}
	}

	var body []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		body, err = f.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}

	_ = f.cache.Set(url, cachedDocument{Body: body})
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, &httputil.RetryableError{Err: fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)}
	default:
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
}
