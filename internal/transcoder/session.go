package transcoder

import "context"

//go:generate mockgen -source=session.go -destination=mocks/mock_transcoder.go

// Session is a transient handle over one container.
//
// Sessions hold native memory. Every session must be released exactly once
// with Close followed by Delete; Release does both.
type Session interface {
	HasAlpha() bool
	NumImages() int
	NumLevels(image int) int
	ImageWidth(image, level int) int
	ImageHeight(image, level int) int
	TranscodedSize(image, level int, format Format) int
	StartTranscoding() bool
	Transcode(dst []byte, image, level int, format Format) bool
	Close()
	Delete()
}

// Factory opens sessions over container bytes.
type Factory interface {
	Open(data []byte) Session
}

// Backend performs the one-time transcoder setup.
type Backend interface {
	Load(ctx context.Context) (Factory, error)
}

// Release closes and deletes a session. Nil sessions are ignored.
func Release(s Session) {
	if s == nil {
		return
	}

	s.Close()
	s.Delete()
}

// SessionSource creates sessions, returning nil when it cannot.
type SessionSource interface {
	CreateSession(data []byte) Session
}

// With opens a session from src, runs fn and releases the session on every
// exit path. It returns ErrNotReady without calling fn when no session could
// be created.
func With(src SessionSource, data []byte, fn func(Session) error) error {
	s := src.CreateSession(data)
	if s == nil {
		return ErrNotReady
	}
	defer Release(s)

	return fn(s)
}
