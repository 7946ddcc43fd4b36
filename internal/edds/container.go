package edds

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"github.com/woozymasta/bcn"
)

// Container is a parsed EDDS file. Level bodies are decompressed on demand.
type Container struct {
	Format bcn.Format
	Width  int
	Height int

	// blocks are indexed by level; level 0 is the largest.
	blocks []*Block
}

// Parse reads the headers and block bodies of an EDDS file held in data.
// Files without a block table are read as a single legacy level.
func Parse(data []byte) (*Container, error) {
	r := bytes.NewReader(data)

	header, dx10, err := readHeaders(r)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Format: sourceFormat(header, dx10),
		Width:  int(header.Width),
		Height: int(header.Height),
	}
	if c.Format == bcn.FormatUnknown {
		return nil, fmt.Errorf("%w: fourcc %q", ErrUnknownFormat, fourCCString(header.PixelFormat.FourCC))
	}
	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrSizeOverflow, c.Width, c.Height)
	}

	levels := 1
	if header.Caps&bcn.DDSCapsMipmap != 0 && header.MipMapCount > 0 {
		levels = int(header.MipMapCount)
	}

	bodyStart := int(r.Size()) - r.Len()
	if err := c.readBlocks(r, levels); err != nil {
		if legacyErr := c.readLegacy(data[bodyStart:]); legacyErr != nil {
			return nil, fmt.Errorf("%w; %w", err, legacyErr)
		}
	}

	return c, nil
}

// readBlocks reads the table and bodies. Bodies are stored smallest first.
func (c *Container) readBlocks(r *bytes.Reader, levels int) error {
	if levels*8 > r.Len() {
		return fmt.Errorf("%w: %d entries, %d bytes left", ErrBlockTableRead, levels, r.Len())
	}

	table, err := readBlockTable(r, levels)
	if err != nil {
		return err
	}

	c.blocks = make([]*Block, levels)
	for i, entry := range table {
		if int64(entry.size) > int64(r.Len()) {
			return fmt.Errorf("%w: level body %d of %d bytes, %d left", ErrInvalidBlockSize, i, entry.size, r.Len())
		}

		body := make([]byte, entry.size)
		if _, err := io.ReadFull(r, body); err != nil {
			return fmt.Errorf("%w: %v", ErrBlockBodyRead, err)
		}

		level := levels - 1 - i
		if entry.magic == BlockCOPY {
			c.blocks[level] = &Block{Magic: BlockCOPY, Data: body, Size: entry.size}
			continue
		}
		w, h := c.LevelSize(level)
		c.blocks[level] = newLZ4Block(body, payloadSize(c.Format, w, h))
	}

	return nil
}

// readLegacy treats rest as one level: an LZ4 stream, or raw data of the
// exact level size.
func (c *Container) readLegacy(rest []byte) error {
	want := payloadSize(c.Format, c.Width, c.Height)

	block := newLZ4Block(rest, want)
	_, err := unpackBlock(block, want)
	switch {
	case err == nil:
		c.blocks = []*Block{block}
	case len(rest) == want:
		raw, err := copyBlock(rest)
		if err != nil {
			return err
		}
		c.blocks = []*Block{raw}
	default:
		return fmt.Errorf("%w: %w", ErrSingleBlock, err)
	}

	return nil
}

// Levels returns the number of mip levels.
func (c *Container) Levels() int {
	return len(c.blocks)
}

// LevelSize returns the dimensions of level.
func (c *Container) LevelSize(level int) (int, int) {
	return levelDimension(c.Width, level), levelDimension(c.Height, level)
}

// Payload returns the decompressed bytes of level in the stored format.
func (c *Container) Payload(level int) ([]byte, error) {
	if level < 0 || level >= len(c.blocks) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidLevel, level, len(c.blocks))
	}

	w, h := c.LevelSize(level)
	return unpackBlock(c.blocks[level], payloadSize(c.Format, w, h))
}

// Image decodes level into an NRGBA image with origin (0, 0).
func (c *Container) Image(level int, opts *bcn.DecodeOptions) (*image.NRGBA, error) {
	payload, err := c.Payload(level)
	if err != nil {
		return nil, err
	}

	w, h := c.LevelSize(level)
	var img image.Image
	img, err = bcn.DecodeImageWithOptions(payload, w, h, c.Format, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: level %d: %v", ErrDecodeImage, level, err)
	}

	return asNRGBA(img), nil
}

// asNRGBA returns img as an NRGBA image with origin (0, 0), copying only
// when needed.
func asNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}

	return imaging.Clone(img)
}

// Decode reads an EDDS file from r and decodes its largest level.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}

	img, err := c.Image(0, nil)
	if err != nil {
		return nil, err
	}

	return img, nil
}

// DecodeConfig reads the dimensions of an EDDS file from r without
// decoding image data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	header, _, err := readHeaders(r)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		Width:      int(header.Width),
		Height:     int(header.Height),
		ColorModel: color.NRGBAModel,
	}, nil
}
