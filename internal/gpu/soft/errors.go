package soft

import "errors"

var (
	// ErrUnsupportedFormat indicates the device cannot decode the upload format.
	ErrUnsupportedFormat = errors.New("unsupported texture format")
	// ErrInvalidSize indicates non-positive texture dimensions.
	ErrInvalidSize = errors.New("invalid texture size")
	// ErrDataSize indicates the upload length does not match the dimensions.
	ErrDataSize = errors.New("texture data size mismatch")
	// ErrDecode indicates block decoding failed.
	ErrDecode = errors.New("decode compressed texture failed")
	// ErrUnknownTexture indicates an unknown texture handle.
	ErrUnknownTexture = errors.New("unknown texture")
	// ErrUnknownHandle indicates an unknown program or buffer handle.
	ErrUnknownHandle = errors.New("unknown handle")
	// ErrEmptyShader indicates an empty shader source.
	ErrEmptyShader = errors.New("empty shader source")
	// ErrVertexCount indicates a buffer that is not a list of triangles.
	ErrVertexCount = errors.New("vertex count is not a multiple of 3 vertices")
)
