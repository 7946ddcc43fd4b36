package wasmbasis

import "errors"

var (
	// ErrNoModule indicates the backend was given no wasm bytes.
	ErrNoModule = errors.New("no transcoder module")
	// ErrCompile indicates the wasm module failed to compile.
	ErrCompile = errors.New("compile transcoder module failed")
	// ErrInstantiate indicates the module or its WASI host failed to
	// instantiate.
	ErrInstantiate = errors.New("instantiate transcoder module failed")
	// ErrMissingExport indicates the module lacks a required export.
	ErrMissingExport = errors.New("missing transcoder export")
	// ErrInit indicates the transcoder's global init call failed.
	ErrInit = errors.New("transcoder init failed")
	// ErrMemory indicates a guest memory access out of bounds.
	ErrMemory = errors.New("guest memory access failed")
)
