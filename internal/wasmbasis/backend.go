package wasmbasis

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/woozymasta/basisview/internal/transcoder"
)

// Guest export names.
const (
	exportMalloc         = "malloc"
	exportFree           = "free"
	exportInit           = "basis_init"
	exportOpen           = "basis_open"
	exportHasAlpha       = "basis_get_has_alpha"
	exportNumImages      = "basis_get_num_images"
	exportNumLevels      = "basis_get_num_levels"
	exportImageWidth     = "basis_get_image_width"
	exportImageHeight    = "basis_get_image_height"
	exportTranscodedSize = "basis_get_image_transcoded_size"
	exportStart          = "basis_start_transcoding"
	exportTranscode      = "basis_transcode_image"
	exportClose          = "basis_close"
	exportDelete         = "basis_delete"
)

var requiredExports = []string{
	exportMalloc, exportFree, exportInit, exportOpen,
	exportHasAlpha, exportNumImages, exportNumLevels,
	exportImageWidth, exportImageHeight, exportTranscodedSize,
	exportStart, exportTranscode, exportClose, exportDelete,
}

// Backend compiles and instantiates the transcoder module on Load.
type Backend struct {
	wasm   []byte
	log    *zap.Logger
	config wazero.RuntimeConfig
}

var _ transcoder.Backend = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option {
	return func(b *Backend) {
		if log != nil {
			b.log = log
		}
	}
}

// WithRuntimeConfig overrides the wazero runtime configuration.
func WithRuntimeConfig(cfg wazero.RuntimeConfig) Option {
	return func(b *Backend) {
		if cfg != nil {
			b.config = cfg
		}
	}
}

// New creates a backend over the wasm binary.
func New(wasm []byte, opts ...Option) *Backend {
	b := &Backend{
		wasm:   wasm,
		log:    zap.NewNop(),
		config: wazero.NewRuntimeConfig(),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Load compiles the module, instantiates it with WASI and runs the
// transcoder's global init. The returned Module owns the runtime.
func (b *Backend) Load(ctx context.Context) (transcoder.Factory, error) {
	if len(b.wasm) == 0 {
		return nil, ErrNoModule
	}

	rt := wazero.NewRuntimeWithConfig(ctx, b.config)
	m, err := b.instantiate(ctx, rt)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	return m, nil
}

func (b *Backend) instantiate(ctx context.Context, rt wazero.Runtime) (*Module, error) {
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return nil, fmt.Errorf("%w: wasi: %v", ErrInstantiate, err)
	}

	compiled, err := rt.CompileModule(ctx, b.wasm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}

	cfg := wazero.NewModuleConfig().
		WithName("basis").
		WithStartFunctions("_initialize")
	mod, err := rt.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInstantiate, err)
	}

	fns := make(map[string]api.Function, len(requiredExports))
	for _, name := range requiredExports {
		fn := mod.ExportedFunction(name)
		if fn == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingExport, name)
		}
		fns[name] = fn
	}
	if mod.Memory() == nil {
		return nil, fmt.Errorf("%w: memory", ErrMissingExport)
	}

	if _, err := fns[exportInit].Call(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}

	b.log.Debug("transcoder module loaded",
		zap.Int("wasm_bytes", len(b.wasm)),
		zap.Uint32("memory_bytes", mod.Memory().Size()))

	return &Module{rt: rt, mod: mod, fns: fns, log: b.log}, nil
}

// Module is a loaded transcoder instance. It implements transcoder.Factory
// and is safe for concurrent use.
type Module struct {
	rt  wazero.Runtime
	mod api.Module
	fns map[string]api.Function
	log *zap.Logger

	mu sync.Mutex
}

var _ transcoder.Factory = (*Module)(nil)

// Close tears down the runtime. Sessions must not be used afterwards.
func (m *Module) Close(ctx context.Context) error {
	return m.rt.Close(ctx)
}

// Open copies data into guest memory and opens a transcoder handle over it.
// When the guest cannot take the data the session reports an empty
// container and refuses to start.
func (m *Module) Open(data []byte) transcoder.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &session{m: m}

	ptr, err := m.alloc(data)
	if err != nil {
		m.log.Warn("failed to copy container into transcoder", zap.Int("bytes", len(data)), zap.Error(err))
		return s
	}
	s.data = ptr

	h, err := m.invoke(exportOpen, uint64(ptr), uint64(len(data)))
	if err != nil {
		m.log.Warn("failed to open container", zap.Error(err))
		return s
	}
	s.handle = h

	return s
}

// alloc mallocs len(data) guest bytes and copies data in. Callers hold mu.
func (m *Module) alloc(data []byte) (uint32, error) {
	ptr, err := m.malloc(len(data))
	if err != nil {
		return 0, err
	}
	if !m.mod.Memory().Write(ptr, data) {
		m.free(ptr)
		return 0, fmt.Errorf("%w: write %d bytes at %d", ErrMemory, len(data), ptr)
	}

	return ptr, nil
}

func (m *Module) malloc(n int) (uint32, error) {
	ptr, err := m.invoke(exportMalloc, uint64(n))
	if err != nil {
		return 0, err
	}
	if ptr == 0 {
		return 0, fmt.Errorf("%w: malloc(%d) returned null", ErrMemory, n)
	}

	return ptr, nil
}

func (m *Module) free(ptr uint32) {
	if ptr == 0 {
		return
	}
	if _, err := m.invoke(exportFree, uint64(ptr)); err != nil {
		m.log.Debug("guest free failed", zap.Uint32("ptr", ptr), zap.Error(err))
	}
}

// invoke calls a guest export and returns its first result as an i32.
// Callers hold mu.
func (m *Module) invoke(name string, args ...uint64) (uint32, error) {
	results, err := m.fns[name].Call(context.Background(), args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if len(results) == 0 {
		return 0, nil
	}

	return api.DecodeU32(results[0]), nil
}

// query invokes a getter and maps failures to 0.
func (m *Module) query(name string, args ...uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.invoke(name, args...)
	if err != nil {
		m.log.Debug("transcoder query failed", zap.Error(err))
		return 0
	}

	return int(v)
}
