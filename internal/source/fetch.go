// Package source fetches container bytes and watches local sources for
// changes.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/afero"
)

// Fetcher returns the raw bytes behind src.
type Fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
}

// HTTPFetcher issues one GET per fetch. There is no retry and no range
// support; the body is read whole.
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch downloads src.
func (f *HTTPFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrRequest, src, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrRequest, src, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %q: %s", ErrStatus, src, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrReadBody, src, err)
	}

	return data, nil
}

// FSFetcher reads local paths through an afero filesystem.
type FSFetcher struct {
	Fs afero.Fs
}

// Fetch reads src, accepting an optional file:// prefix.
func (f *FSFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := strings.TrimPrefix(src, "file://")
	data, err := afero.ReadFile(f.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrReadFile, path, err)
	}

	return data, nil
}

// Router sends http and https sources to HTTP and everything else to FS.
type Router struct {
	HTTP Fetcher
	FS   Fetcher
}

// Fetch dispatches on the scheme of src.
func (r *Router) Fetch(ctx context.Context, src string) ([]byte, error) {
	if IsRemote(src) {
		return r.HTTP.Fetch(ctx, src)
	}

	return r.FS.Fetch(ctx, src)
}

// IsRemote reports whether src is an http or https URL.
func IsRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
