package edds

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockCOPY marks an uncompressed block.
	BlockCOPY = "COPY"
	// BlockLZ4 marks an LZ4 chunk-stream block.
	BlockLZ4 = "LZ4 "

	// ChunkSize is the decoded size of one LZ4 chunk and the window size.
	ChunkSize = 64 * 1024

	chunkLast     = 0x80
	maxChunkBytes = 0x7FFFFF
	// maxLZ4Ratio bounds how far one compressed byte can expand.
	maxLZ4Ratio = 255
	// Payloads under this size are never compressed.
	minPackSize = 1024
)

// Block is one mip level body as stored in the container.
type Block struct {
	Magic string
	// Data is the raw level for COPY and the chunk stream for LZ4.
	Data []byte
	// Size is the body size recorded in the block table.
	Size int32
	// RawSize is the decoded size of an LZ4 block.
	RawSize int32
}

func copyBlock(data []byte) (*Block, error) {
	size, err := i32FromInt(len(data))
	if err != nil {
		return nil, err
	}

	return &Block{Magic: BlockCOPY, Size: size, Data: data}, nil
}

// worthPacking reports whether packed is at most 85% of raw.
func worthPacking(packed, raw int) bool {
	return packed > 0 && packed*20 <= raw*17
}

// packBlock compresses data into an LZ4 chunk stream, falling back to COPY
// when compression does not pay off.
func packBlock(data []byte) (*Block, error) {
	if len(data) < minPackSize {
		return copyBlock(data)
	}

	rawSize, err := i32FromInt(len(data))
	if err != nil {
		return nil, err
	}

	var stream bytes.Buffer
	scratch := make([]byte, lz4.CompressBlockBound(ChunkSize))

	for off := 0; off < len(data); off += ChunkSize {
		end := min(off+ChunkSize, len(data))
		chunk := data[off:end]

		n, err := lz4.CompressBlockHC(chunk, scratch, 0, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if !worthPacking(n, len(chunk)) {
			return copyBlock(data)
		}
		if n > maxChunkBytes {
			return nil, fmt.Errorf("%w: %d", ErrChunkTooLarge, n)
		}

		var flags byte
		if end == len(data) {
			flags = chunkLast
		}
		stream.Write([]byte{byte(n), byte(n >> 8), byte(n >> 16), flags})
		stream.Write(scratch[:n])
	}

	// The body carries a 4-byte decoded size ahead of the stream.
	bodySize := 4 + stream.Len()
	if !worthPacking(bodySize, len(data)) {
		return copyBlock(data)
	}
	size, err := i32FromInt(bodySize)
	if err != nil {
		return nil, err
	}

	return &Block{
		Magic:   BlockLZ4,
		Data:    stream.Bytes(),
		Size:    size,
		RawSize: rawSize,
	}, nil
}

// newLZ4Block splits a stored LZ4 body into its size prefix and stream.
// Legacy bodies without the prefix are taken whole.
func newLZ4Block(body []byte, want int) *Block {
	b := &Block{Magic: BlockLZ4, Data: body}
	b.Size, _ = i32FromInt(len(body))

	if len(body) < 8 {
		return b
	}
	prefix := int(binary.LittleEndian.Uint32(body[:4]))
	first := int(body[4]) | int(body[5])<<8 | int(body[6])<<16
	if prefix == want && first > 0 && first < 1<<20 {
		b.Data = body[4:]
		b.RawSize, _ = i32FromInt(prefix)
	}

	return b
}

// unpackBlock returns the decoded level, want bytes long.
func unpackBlock(b *Block, want int) ([]byte, error) {
	switch b.Magic {
	case BlockCOPY:
		if len(b.Data) != want {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, want, len(b.Data))
		}
		return b.Data, nil
	case BlockLZ4:
		return unpackStream(b.Data, want)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, b.Magic)
	}
}

// unpackStream decodes an LZ4 chunk stream. Each chunk may reference the
// previous ChunkSize decoded bytes.
func unpackStream(stream []byte, want int) ([]byte, error) {
	if want <= 0 {
		return nil, fmt.Errorf("%w: target %d", ErrDecodedSizeMismatch, want)
	}
	if len(stream) > 0 && want > len(stream)*maxLZ4Ratio {
		return nil, fmt.Errorf("%w: %d bytes cannot expand to %d", ErrDecodedSizeMismatch, len(stream), want)
	}

	out := make([]byte, want)
	pos := 0

	for last := false; !last; {
		if len(stream) < 4 {
			return nil, fmt.Errorf("%w: need 4 bytes header, have %d", ErrChunkStreamTruncated, len(stream))
		}

		size := int(stream[0]) | int(stream[1])<<8 | int(stream[2])<<16
		flags := stream[3]
		stream = stream[4:]

		if flags&^chunkLast != 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownChunkFlags, flags)
		}
		if size <= 0 || size > len(stream) {
			return nil, fmt.Errorf("%w: chunk %d, remaining %d", ErrChunkStreamTruncated, size, len(stream))
		}
		if pos >= want {
			return nil, ErrDecodeOverrun
		}

		window := out[max(0, pos-ChunkSize):pos]
		dst := out[pos:min(pos+ChunkSize, want)]

		n, err := lz4.UncompressBlockWithDict(stream[:size], dst, window)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}

		pos += n
		stream = stream[size:]
		last = flags&chunkLast != 0
	}

	if pos != want {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, want, pos)
	}
	if len(stream) != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, len(stream))
	}

	return out, nil
}

type tableEntry struct {
	magic string
	size  int32
}

func readBlockTable(r io.Reader, n int) ([]tableEntry, error) {
	table := make([]tableEntry, n)
	for i := range table {
		var raw [8]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrBlockTableRead, i, err)
		}

		magic := string(raw[:4])
		size := int32(binary.LittleEndian.Uint32(raw[4:])) // #nosec G115 -- stored as signed.

		if magic != BlockCOPY && magic != BlockLZ4 {
			return nil, fmt.Errorf("%w: entry %d: %q", ErrUnknownBlockMagic, i, magic)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: entry %d: %d", ErrInvalidBlockSize, i, size)
		}

		table[i] = tableEntry{magic: magic, size: size}
	}

	return table, nil
}

// writeTableEntry writes the table entry of b.
func writeTableEntry(w io.Writer, b *Block) error {
	var raw [8]byte
	copy(raw[:4], b.Magic)
	binary.LittleEndian.PutUint32(raw[4:], uint32(b.Size)) // #nosec G115 -- Size is non-negative.

	_, err := w.Write(raw[:])
	return err
}

func writeBody(w io.Writer, b *Block) error {
	if b.Magic == BlockLZ4 {
		if err := binary.Write(w, binary.LittleEndian, b.RawSize); err != nil {
			return err
		}
	}

	_, err := w.Write(b.Data)
	return err
}
