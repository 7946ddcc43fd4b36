package transcoder

import "errors"

var (
	// ErrNotReady indicates the transcoder has not been initialized.
	ErrNotReady = errors.New("transcoder not initialized")
	// ErrNilBackend indicates a Loader was built without a backend.
	ErrNilBackend = errors.New("nil transcoder backend")
	// ErrInitialize indicates backend initialization failed.
	ErrInitialize = errors.New("transcoder initialization failed")
	// ErrUnknownFormat indicates an unknown target format name.
	ErrUnknownFormat = errors.New("unknown target format")
)
