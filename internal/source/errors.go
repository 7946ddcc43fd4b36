package source

import "errors"

var (
	// ErrRequest indicates the HTTP request could not be made.
	ErrRequest = errors.New("request failed")
	// ErrStatus indicates a non-2xx HTTP response.
	ErrStatus = errors.New("unexpected HTTP status")
	// ErrReadBody indicates reading the response body failed.
	ErrReadBody = errors.New("reading response body failed")
	// ErrReadFile indicates reading a local source failed.
	ErrReadFile = errors.New("reading file failed")
	// ErrWatch indicates the watcher could not be started.
	ErrWatch = errors.New("watch failed")
)
