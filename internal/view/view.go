// Package view shows one texture container on a graphics device.
//
// A View fetches container bytes, decodes them through a transcoder session
// into the selected format, uploads the result as the view's single texture
// and draws it on a full-screen quad once per frame. Selecting another
// format re-decodes the already fetched bytes.
package view

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/woozymasta/basisview/internal/gpu"
	"github.com/woozymasta/basisview/internal/source"
	"github.com/woozymasta/basisview/internal/texformat"
	"github.com/woozymasta/basisview/internal/transcoder"
)

// Default display state before the first decode.
const (
	DefaultWidth  = 32
	DefaultHeight = 32
	DefaultFormat = texformat.NameRGBA32
)

// View owns one device texture and the bytes it was decoded from.
// It is safe for concurrent use; all device calls are serialized.
type View struct {
	dev      gpu.Device
	sessions transcoder.SessionSource
	fetcher  source.Fetcher
	log      *zap.Logger
	metrics  *Metrics

	mu          sync.Mutex
	mounted     bool
	caps        texformat.Capabilities
	formats     []texformat.Descriptor
	program     gpu.Program
	buffer      gpu.Buffer
	tex         gpu.Texture
	data        []byte
	state       State
	gen         uint64
	cancelFetch context.CancelFunc

	disposed    chan struct{}
	disposeOnce sync.Once
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option {
	return func(v *View) {
		if log != nil {
			v.log = log
		}
	}
}

// WithMetrics shares metrics between views.
func WithMetrics(m *Metrics) Option {
	return func(v *View) {
		if m != nil {
			v.metrics = m
		}
	}
}

// WithFormat sets the initially selected format name.
func WithFormat(name string) Option {
	return func(v *View) {
		if name != "" {
			v.state.Format = name
		}
	}
}

// New creates an unmounted view.
func New(dev gpu.Device, sessions transcoder.SessionSource, fetcher source.Fetcher, opts ...Option) *View {
	v := &View{
		dev:      dev,
		sessions: sessions,
		fetcher:  fetcher,
		log:      zap.NewNop(),
		state: State{
			Phase:  PhaseIdle,
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Format: DefaultFormat,
		},
		disposed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.metrics == nil {
		v.metrics = NewMetrics(nil)
	}

	return v
}

// Mount probes the device, prepares the quad and loads src.
func (v *View) Mount(ctx context.Context, src string) error {
	if err := v.mount(); err != nil {
		return err
	}

	return v.Load(ctx, src)
}

func (v *View) mount() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.isDisposed() {
		return ErrDisposed
	}
	if v.mounted {
		return ErrMounted
	}

	v.caps = texformat.QueryCapabilities(v.dev)
	v.formats = v.caps.Supported()
	v.state.Formats = texformat.Names(v.formats)

	program, err := v.dev.CreateProgram(gpu.VertexShader, gpu.FragmentShader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreateProgram, err)
	}
	buffer, err := v.dev.CreateBuffer(gpu.QuadPositions)
	if err != nil {
		v.dev.DeleteProgram(program)
		return fmt.Errorf("%w: %v", ErrCreateBuffer, err)
	}

	v.program = program
	v.buffer = buffer
	v.mounted = true

	v.log.Debug("view mounted",
		zap.Bool("astc", v.caps.ASTC),
		zap.Bool("etc1", v.caps.ETC1),
		zap.Bool("etc2", v.caps.ETC2),
		zap.Bool("dxt", v.caps.DXT),
		zap.Bool("pvrtc", v.caps.PVRTC),
		zap.Strings("formats", v.state.Formats))

	return nil
}

// Load replaces the shown container with the one at src. The current
// texture is destroyed before fetching. An empty src leaves the view idle.
// A load that completes after a newer one started returns ErrSuperseded
// and changes nothing.
func (v *View) Load(ctx context.Context, src string) error {
	v.mu.Lock()
	if v.isDisposed() {
		v.mu.Unlock()
		return ErrDisposed
	}
	if !v.mounted {
		v.mu.Unlock()
		return ErrNotMounted
	}

	v.clearTexture()
	if v.cancelFetch != nil {
		v.cancelFetch()
		v.cancelFetch = nil
	}
	v.gen++
	gen := v.gen
	v.data = nil
	v.state.Source = src
	v.state.CompressedSize = 0
	v.state.DecodedSize = 0

	if src == "" {
		v.state.Phase = PhaseIdle
		v.mu.Unlock()
		return nil
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	v.cancelFetch = cancel
	v.state.Phase = PhaseLoading
	v.mu.Unlock()

	v.metrics.Loads.Inc()
	data, err := v.fetcher.Fetch(fetchCtx, src)

	v.mu.Lock()
	defer v.mu.Unlock()
	cancel()

	if v.isDisposed() {
		return ErrDisposed
	}
	if gen != v.gen {
		v.log.Debug("discarding stale load", zap.String("src", src))
		return ErrSuperseded
	}
	v.cancelFetch = nil

	if err != nil {
		v.state.Phase = PhaseIdle
		v.log.Error("failed to fetch container", zap.String("src", src), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}

	v.metrics.FetchedBytes.Add(float64(len(data)))
	v.data = data
	v.updateTexture(v.state.Format)

	return nil
}

// SetSource loads src when it differs from the current source.
func (v *View) SetSource(ctx context.Context, src string) error {
	v.mu.Lock()
	same := v.state.Source == src
	v.mu.Unlock()

	if same {
		return nil
	}

	return v.Load(ctx, src)
}

// Reload fetches the current source again.
func (v *View) Reload(ctx context.Context) error {
	v.mu.Lock()
	src := v.state.Source
	v.mu.Unlock()

	return v.Load(ctx, src)
}

// SelectFormat destroys the current texture and decodes the already fetched
// bytes into the format called name. Unsupported names only change the
// selection. While a fetch is in flight the selection applies to its result.
func (v *View) SelectFormat(name string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.isDisposed() {
		return ErrDisposed
	}

	v.clearTexture()
	if v.data == nil {
		v.state.Format = name
		return nil
	}

	v.updateTexture(name)

	return nil
}

// State returns a snapshot of the display state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.state
	s.Formats = append([]string(nil), v.state.Formats...)

	return s
}

// Formats returns the supported format list probed at mount.
func (v *View) Formats() []texformat.Descriptor {
	v.mu.Lock()
	defer v.mu.Unlock()

	return append([]texformat.Descriptor(nil), v.formats...)
}

// Capabilities returns the compressed families probed at mount.
func (v *View) Capabilities() texformat.Capabilities {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.caps
}

// Dispose releases device resources, cancels any fetch and stops the render
// loop. It is idempotent.
func (v *View) Dispose() {
	v.disposeOnce.Do(func() {
		v.mu.Lock()
		defer v.mu.Unlock()

		close(v.disposed)

		if v.cancelFetch != nil {
			v.cancelFetch()
			v.cancelFetch = nil
		}
		v.gen++
		v.clearTexture()
		if v.buffer != 0 {
			v.dev.DeleteBuffer(v.buffer)
			v.buffer = 0
		}
		if v.program != 0 {
			v.dev.DeleteProgram(v.program)
			v.program = 0
		}
		v.data = nil
		v.state.Phase = PhaseDisposed
	})
}

// Done is closed when the view is disposed.
func (v *View) Done() <-chan struct{} {
	return v.disposed
}

func (v *View) isDisposed() bool {
	select {
	case <-v.disposed:
		return true
	default:
		return false
	}
}

// clearTexture destroys the current texture. Callers hold v.mu.
func (v *View) clearTexture() {
	if v.tex == 0 {
		return
	}

	v.dev.DeleteTexture(v.tex)
	v.tex = 0
	v.metrics.Textures.Dec()

	if v.state.Phase == PhaseDecoded {
		v.state.Phase = PhaseBlank
	}
}
