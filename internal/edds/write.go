package edds

import (
	"bufio"
	"fmt"
	"image"
	"io"

	"github.com/woozymasta/bcn"
)

// WriteOptions controls Write.
type WriteOptions struct {
	// Format is the stored pixel format. FormatUnknown selects BGRA8.
	Format bcn.Format
	// MaxMipMaps limits the chain length; 0 writes the full chain.
	MaxMipMaps int
	// Compress packs levels as LZ4 where it pays off; otherwise COPY.
	Compress bool
	// EncodeOptions are passed to the bcn encoder.
	EncodeOptions *bcn.EncodeOptions
}

// DefaultWriteOptions writes BGRA8 with a full, compressed chain.
func DefaultWriteOptions() *WriteOptions {
	return &WriteOptions{Format: bcn.FormatBGRA8, Compress: true}
}

// Write encodes img with a mip chain and writes it as an EDDS file to w.
// Nil opts uses DefaultWriteOptions.
func Write(w io.Writer, img image.Image, opts *WriteOptions) error {
	if opts == nil {
		opts = DefaultWriteOptions()
	}
	format := opts.Format
	if format == bcn.FormatUnknown {
		format = bcn.FormatBGRA8
	}

	b := img.Bounds()
	levels := levelCount(b.Dx(), b.Dy())
	if opts.MaxMipMaps > 0 {
		levels = min(levels, opts.MaxMipMaps)
	}

	mips := bcn.GenerateMipmaps(img, false)
	if len(mips) > levels {
		mips = mips[:levels]
	}

	payloads := make([][]byte, len(mips))
	for i, mip := range mips {
		data, _, _, err := bcn.EncodeImageWithOptions(mip, format, opts.EncodeOptions)
		if err != nil {
			return fmt.Errorf("%w: level %d: %v", ErrEncodeMipmap, i, err)
		}
		payloads[i] = data
	}

	return WriteFromBlocks(w, format, b.Dx(), b.Dy(), payloads, opts.Compress)
}

// WriteFromBlocks writes pre-encoded level payloads, largest first, as an
// EDDS file to w. compress=false stores COPY blocks.
func WriteFromBlocks(w io.Writer, format bcn.Format, width, height int, mipmaps [][]byte, compress bool) error {
	if len(mipmaps) == 0 {
		return ErrEmptyMipmaps
	}
	if format == bcn.FormatUnknown {
		return ErrInvalidFormat
	}

	header, err := newHeader(width, height, len(mipmaps), format)
	if err != nil {
		return err
	}

	blocks := make([]*Block, len(mipmaps))
	for i, mip := range mipmaps {
		want := payloadSize(format, levelDimension(width, i), levelDimension(height, i))
		if len(mip) != want {
			return fmt.Errorf("%w: level %d: expected %d, got %d", ErrMipmapSizeMismatch, i, want, len(mip))
		}

		pack := copyBlock
		if compress {
			pack = packBlock
		}
		if blocks[i], err = pack(mip); err != nil {
			return fmt.Errorf("level %d: %w", i, err)
		}
	}

	bw := bufio.NewWriter(w)
	if err := writeContainer(bw, header, blocks); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return nil
}

// writeContainer writes the header, then the table and bodies smallest
// level first.
func writeContainer(w io.Writer, header *bcn.DDSHeader, blocks []*Block) error {
	if err := bcn.WriteDDSMagic(w); err != nil {
		return err
	}
	if err := bcn.WriteDDSHeader(w, header); err != nil {
		return err
	}

	for i := len(blocks) - 1; i >= 0; i-- {
		if err := writeTableEntry(w, blocks[i]); err != nil {
			return err
		}
	}
	for i := len(blocks) - 1; i >= 0; i-- {
		if err := writeBody(w, blocks[i]); err != nil {
			return err
		}
	}

	return nil
}
