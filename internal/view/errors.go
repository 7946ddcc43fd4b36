package view

import "errors"

var (
	// ErrDisposed indicates the view was disposed.
	ErrDisposed = errors.New("view disposed")
	// ErrNotMounted indicates Load was called before Mount.
	ErrNotMounted = errors.New("view not mounted")
	// ErrMounted indicates Mount was called twice.
	ErrMounted = errors.New("view already mounted")
	// ErrSuperseded indicates a newer load replaced this one.
	ErrSuperseded = errors.New("load superseded")
	// ErrFetch indicates the container could not be fetched.
	ErrFetch = errors.New("fetch failed")
	// ErrCreateProgram indicates the quad program could not be created.
	ErrCreateProgram = errors.New("create program failed")
	// ErrCreateBuffer indicates the quad buffer could not be created.
	ErrCreateBuffer = errors.New("create buffer failed")

	errStartTranscoding = errors.New("start transcoding failed")
	errUnsupported      = errors.New("format not supported")
	errTranscode        = errors.New("transcode failed")
)
