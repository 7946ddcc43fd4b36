package cli

import "errors"

var (
	// ErrNotDecoded indicates the image could not be shown in the selected
	// format.
	ErrNotDecoded = errors.New("image not decoded")
	// ErrPackFormat indicates an unknown pack storage format.
	ErrPackFormat = errors.New("unknown pack format")
	// ErrReadImage indicates the pack input could not be decoded.
	ErrReadImage = errors.New("reading image failed")
	// ErrWriteImage indicates an output image could not be written.
	ErrWriteImage = errors.New("writing image failed")
	// ErrTranscoderModule indicates the wasm transcoder could not be read.
	ErrTranscoderModule = errors.New("reading transcoder module failed")
)
