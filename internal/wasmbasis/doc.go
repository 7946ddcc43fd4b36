// Package wasmbasis hosts a texture transcoder compiled to WebAssembly and
// exposes it as a transcoder backend.
//
// The module runs under wazero with WASI preview 1. It must export its
// linear memory, malloc and free, and the basis_* functions listed in
// requiredExports. All guest calls are serialized.
package wasmbasis
