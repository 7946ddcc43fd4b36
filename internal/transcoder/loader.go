package transcoder

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Loader manages one-time transcoder initialization and gates session
// creation on it. It is safe for concurrent use.
type Loader struct {
	backend Backend
	log     *zap.Logger

	once    sync.Once
	ready   chan struct{}
	mu      sync.RWMutex
	factory Factory
	err     error
}

// NewLoader creates a loader over backend. A nil logger disables logging.
func NewLoader(backend Backend, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}

	return &Loader{
		backend: backend,
		log:     log,
		ready:   make(chan struct{}),
	}
}

// Initialize loads the transcoder. Only the first call runs the backend;
// later calls wait for and return the first result.
func (l *Loader) Initialize(ctx context.Context) (Factory, error) {
	l.once.Do(func() {
		defer close(l.ready)

		if l.backend == nil {
			l.setResult(nil, ErrNilBackend)
			return
		}

		factory, err := l.backend.Load(ctx)
		if err != nil {
			l.log.Error("transcoder initialization failed", zap.Error(err))
			l.setResult(nil, fmt.Errorf("%w: %v", ErrInitialize, err))
			return
		}

		l.log.Debug("transcoder initialized")
		l.setResult(factory, nil)
	})

	<-l.ready

	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.factory, l.err
}

// Ready is closed once Initialize has finished, successfully or not.
func (l *Loader) Ready() <-chan struct{} {
	return l.ready
}

// CreateSession opens a session over data, or returns nil when the
// transcoder is not initialized.
func (l *Loader) CreateSession(data []byte) Session {
	l.mu.RLock()
	factory := l.factory
	l.mu.RUnlock()

	if factory == nil {
		l.log.Debug("session requested before transcoder initialization")
		return nil
	}

	return factory.Open(data)
}

func (l *Loader) setResult(factory Factory, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.factory = factory
	l.err = err
}
