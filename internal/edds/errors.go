package edds

import "errors"

var (
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrInvalidFormat indicates a pixel format the container cannot hold.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrUnknownFormat indicates a header that maps to no known pixel format.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrEmptyMipmaps indicates missing mipmap data.
	ErrEmptyMipmaps = errors.New("empty mipmaps")
	// ErrMipmapSizeMismatch indicates mipmap payload size mismatch.
	ErrMipmapSizeMismatch = errors.New("mipmap size mismatch")
	// ErrInvalidLevel indicates a level index outside the mip chain.
	ErrInvalidLevel = errors.New("invalid level")

	// ErrHeaderRead indicates the DDS header could not be read.
	ErrHeaderRead = errors.New("reading DDS header failed")
	// ErrBlockTableRead indicates the block table could not be read.
	ErrBlockTableRead = errors.New("reading block table failed")
	// ErrUnknownBlockMagic indicates an unknown block magic.
	ErrUnknownBlockMagic = errors.New("unknown block magic")
	// ErrInvalidBlockSize indicates a negative or truncated block size.
	ErrInvalidBlockSize = errors.New("invalid block size")
	// ErrBlockBodyRead indicates a block body could not be read.
	ErrBlockBodyRead = errors.New("reading block body failed")
	// ErrSingleBlock indicates a container without a block table whose
	// payload is neither an LZ4 stream nor raw data of the expected size.
	ErrSingleBlock = errors.New("failed to parse single block")

	// ErrCopySizeMismatch indicates COPY block data size mismatch.
	ErrCopySizeMismatch = errors.New("COPY block size mismatch")
	// ErrChunkStreamTruncated indicates an LZ4 chunk stream is truncated.
	ErrChunkStreamTruncated = errors.New("LZ4 chunk-stream truncated")
	// ErrUnknownChunkFlags indicates unknown LZ4 chunk flags.
	ErrUnknownChunkFlags = errors.New("unknown LZ4 chunk flags")
	// ErrChunkTooLarge indicates a compressed chunk exceeds allowed size.
	ErrChunkTooLarge = errors.New("compressed chunk too large")
	// ErrLZ4Compress indicates LZ4 compression failed.
	ErrLZ4Compress = errors.New("LZ4 compression failed")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
	// ErrDecodeOverrun indicates decoded data overruns the target buffer.
	ErrDecodeOverrun = errors.New("decoded LZ4 overruns target buffer")
	// ErrDecodedSizeMismatch indicates the stream decoded to the wrong size.
	ErrDecodedSizeMismatch = errors.New("LZ4 decoded size mismatch")
	// ErrTrailingData indicates bytes left after the last chunk.
	ErrTrailingData = errors.New("trailing data after LZ4 stream")

	// ErrDecodeImage indicates bcn failed to decode a level.
	ErrDecodeImage = errors.New("decode image failed")
	// ErrEncodeMipmap indicates bcn failed to encode a level.
	ErrEncodeMipmap = errors.New("encode mipmap failed")
	// ErrWrite indicates writing the container failed.
	ErrWrite = errors.New("write failed")
)
